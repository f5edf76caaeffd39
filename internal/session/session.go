// Package session provides the per-connection conversation state for
// the assistant: ordered message history with a bounded length,
// duplicate-submission suppression, and eviction of stale sessions.
// The store owns every Session; other components read copies and
// mutate only through store methods.
package session

import "time"

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Messages are never mutated after
// creation; ordering is insertion order.
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// Session is one connection's conversation. LastActivity always equals
// the timestamp of the most recent message once one exists.
type Session struct {
	ID           string
	Messages     []Message
	LastActivity int64
}

const (
	// MaxMessages caps a session's history; the oldest turns are
	// trimmed first.
	MaxMessages = 20

	// DuplicateWindow is how close together two identical user turns
	// must arrive to be treated as a client double-submit.
	DuplicateWindow = 3 * time.Second
)
