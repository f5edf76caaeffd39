package server_test

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avenue-assistant/internal/guard"
	"github.com/avenue-assistant/internal/knowledge"
	"github.com/avenue-assistant/internal/resolve"
	"github.com/avenue-assistant/internal/server"
	"github.com/avenue-assistant/internal/session"
)

// Connection goroutines outlive individual tests, so these use a nop
// logger rather than zaptest.
func startServer(t *testing.T, perMinute int) (*httptest.Server, *session.Store) {
	t.Helper()
	logger := zap.NewNop()
	store := session.NewStore(logger)
	rng := rand.New(rand.NewSource(1))

	resolver := resolve.NewResolver(
		resolve.NewFAQMatcher(knowledge.FAQ),
		resolve.NewRouter(),
		resolve.NewFallback(rng),
		nil,
		logger,
	)

	cfg := server.Config{
		ThinkingMin:       time.Millisecond,
		ThinkingMax:       2 * time.Millisecond,
		ClearWelcomeDelay: 5 * time.Millisecond,
	}
	s := server.New(store, resolver, guard.NewRateLimiter(nil, perMinute, logger), nil, cfg, rng, logger)

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, eventType, payload string) {
	t.Helper()
	evt := server.Event{Type: eventType}
	if payload != "" {
		evt.Payload = json.RawMessage(payload)
	}
	require.NoError(t, conn.WriteJSON(evt))
}

func read(t *testing.T, conn *websocket.Conn) server.Event {
	t.Helper()
	var evt server.Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

// readExchange consumes the three events one resolved message produces:
// typing on, typing off, and the reply.
func readExchange(t *testing.T, conn *websocket.Conn) server.ReceiveMessagePayload {
	t.Helper()

	evt := read(t, conn)
	require.Equal(t, server.EventBotTyping, evt.Type)
	require.Equal(t, "true", string(evt.Payload))

	evt = read(t, conn)
	require.Equal(t, server.EventBotTyping, evt.Type)
	require.Equal(t, "false", string(evt.Payload))

	evt = read(t, conn)
	require.Equal(t, server.EventReceiveMessage, evt.Type)
	var msg server.ReceiveMessagePayload
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	return msg
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startServer(t, 0)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestGreetingUsesConnectMetadata(t *testing.T) {
	ts, _ := startServer(t, 0)
	conn := dial(t, ts, "?session_id=greet&username=Ama")

	send(t, conn, server.EventSendMessage, `{"message":"hello"}`)
	msg := readExchange(t, conn)

	assert.Equal(t, "bot", msg.Sender)
	assert.Contains(t, msg.Message, "Hello Ama!")
	_, err := time.Parse(time.RFC3339, msg.Timestamp)
	assert.NoError(t, err, "timestamp must be ISO-8601")
}

func TestFAQAnswerVerbatim(t *testing.T) {
	ts, _ := startServer(t, 0)
	conn := dial(t, ts, "?session_id=faq")

	send(t, conn, server.EventSendMessage, `{"message":"How much does it cost to register?"}`)
	msg := readExchange(t, conn)

	assert.Equal(t, knowledge.FAQ[0].Answer, msg.Message)
}

func TestDuplicateMessageProducesNothing(t *testing.T) {
	ts, store := startServer(t, 0)
	conn := dial(t, ts, "?session_id=dup")

	send(t, conn, server.EventSendMessage, `{"message":"hello"}`)
	readExchange(t, conn)

	// Same content again within the 3-second window: silently dropped.
	send(t, conn, server.EventSendMessage, `{"message":"hello"}`)

	// The next event on the wire must come from the clear below, not
	// from the duplicate; events are handled in order per connection.
	send(t, conn, server.EventClearConversation, "")
	evt := read(t, conn)
	assert.Equal(t, server.EventConversationCleared, evt.Type)

	evt = read(t, conn)
	assert.Equal(t, server.EventReceiveMessage, evt.Type)

	// After the clear only the welcome turn remains; the duplicate
	// never reached the history.
	assert.Len(t, store.History("dup"), 1)
}

func TestClearConversationFlow(t *testing.T) {
	ts, store := startServer(t, 0)
	conn := dial(t, ts, "?session_id=clr&user_role=employer")

	send(t, conn, server.EventSendMessage, `{"message":"hello"}`)
	readExchange(t, conn)
	send(t, conn, server.EventSendMessage, `{"message":"how do i post a job"}`)
	readExchange(t, conn)

	send(t, conn, server.EventClearConversation, "")

	evt := read(t, conn)
	require.Equal(t, server.EventConversationCleared, evt.Type)

	evt = read(t, conn)
	require.Equal(t, server.EventReceiveMessage, evt.Type)
	var welcome server.ReceiveMessagePayload
	require.NoError(t, json.Unmarshal(evt.Payload, &welcome))
	assert.Contains(t, welcome.Message, "post vacancies")

	// History now holds exactly the welcome turn.
	h := store.History("clr")
	require.Len(t, h, 1)
	assert.Equal(t, session.RoleAssistant, h[0].Role)
}

func TestRateLimitedReply(t *testing.T) {
	ts, _ := startServer(t, 1)
	conn := dial(t, ts, "?session_id=rl")

	send(t, conn, server.EventSendMessage, `{"message":"hello"}`)
	readExchange(t, conn)

	send(t, conn, server.EventSendMessage, `{"message":"second question"}`)
	evt := read(t, conn)
	require.Equal(t, server.EventReceiveMessage, evt.Type)
	var msg server.ReceiveMessagePayload
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	assert.Contains(t, msg.Message, "too quickly")
}

func TestPingPong(t *testing.T) {
	ts, _ := startServer(t, 0)
	conn := dial(t, ts, "")

	send(t, conn, server.EventPing, "")
	evt := read(t, conn)
	assert.Equal(t, server.EventPong, evt.Type)
}
