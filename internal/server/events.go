package server

import "encoding/json"

// Event is the envelope for every message on the chat socket, in both
// directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types.
const (
	EventSendMessage       = "send_message"
	EventClearConversation = "clear_conversation"
	EventPing              = "ping"
)

// Outbound event types.
const (
	EventBotTyping           = "bot_typing"
	EventReceiveMessage      = "receive_message"
	EventConversationCleared = "conversation_cleared"
	EventPong                = "pong"
)

// SendMessagePayload is the body of a send_message event.
type SendMessagePayload struct {
	Message string          `json:"message"`
	Context *MessageContext `json:"context,omitempty"`
}

// MessageContext optionally refreshes caller metadata mid-conversation.
type MessageContext struct {
	User *UserContext `json:"user,omitempty"`
}

// UserContext carries the caller's role.
type UserContext struct {
	Role string `json:"role,omitempty"`
}

// ReceiveMessagePayload is the body of a receive_message event.
type ReceiveMessagePayload struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO-8601
}
