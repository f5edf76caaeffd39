// Package server wires inbound WebSocket connections to sessions and
// the resolution pipeline, and exposes the liveness surface. One
// goroutine serves each connection; a session's messages are handled
// strictly in arrival order by its own loop.
package server

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/avenue-assistant/internal/guard"
	"github.com/avenue-assistant/internal/jsonx"
	"github.com/avenue-assistant/internal/knowledge"
	"github.com/avenue-assistant/internal/publish"
	"github.com/avenue-assistant/internal/resolve"
	"github.com/avenue-assistant/internal/session"
)

const rateLimitReply = "You're sending messages a little too quickly. Give me a few seconds and ask again."

// Config controls the handler's pacing. The thinking delay is cosmetic
// but must suspend only the one connection it paces.
type Config struct {
	ThinkingMin       time.Duration
	ThinkingMax       time.Duration
	ClearWelcomeDelay time.Duration
}

// DefaultConfig returns the production pacing.
func DefaultConfig() Config {
	return Config{
		ThinkingMin:       300 * time.Millisecond,
		ThinkingMax:       1500 * time.Millisecond,
		ClearWelcomeDelay: 500 * time.Millisecond,
	}
}

// Server handles chat connections and the HTTP surface.
type Server struct {
	store     *session.Store
	resolver  *resolve.Resolver
	limiter   *guard.RateLimiter
	publisher *publish.Publisher
	cfg       Config
	logger    *zap.Logger
	upgrader  websocket.Upgrader

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a server. limiter and publisher may be nil; rng is
// injected so tests can pin the thinking delay.
func New(store *session.Store, resolver *resolve.Resolver, limiter *guard.RateLimiter, publisher *publish.Publisher, cfg Config, rng *rand.Rand, logger *zap.Logger) *Server {
	return &Server{
		store:     store,
		resolver:  resolver,
		limiter:   limiter,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		rng:       rng,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the HTTP handler: liveness, stats and the chat socket.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/stats", s.handleStats).Methods("GET")
	r.HandleFunc("/ws/chat", s.handleChat)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := struct {
		Sessions int           `json:"sessions"`
		Messages int           `json:"messages"`
		Resolver resolve.Stats `json:"resolver"`
	}{
		Sessions: s.store.Len(),
		Messages: s.store.MessageCount(),
		Resolver: s.resolver.Stats(),
	}

	data, err := jsonx.Marshal(stats)
	if err != nil {
		http.Error(w, "failed to encode stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleChat upgrades the request and serves the connection. The
// upgrade request is the connect event: session id, username, role and
// login state arrive as query parameters, with the session id
// defaulting to a fresh uuid.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	q := r.URL.Query()
	sc := resolve.SessionContext{
		SessionID:  q.Get("session_id"),
		Username:   q.Get("username"),
		UserRole:   q.Get("user_role"),
		IsLoggedIn: q.Get("is_logged_in") == "true",
	}
	if sc.SessionID == "" {
		sc.SessionID = uuid.New().String()
	}

	s.logger.Info("chat connected",
		zap.String("session_id", sc.SessionID),
		zap.String("username", sc.Username),
		zap.String("role", sc.UserRole))

	go s.serveConn(&connection{ws: conn}, sc)
}

// connection serializes writes to one socket.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *connection) send(eventType string, payload interface{}) error {
	evt := Event{Type: eventType}
	if payload != nil {
		data, err := jsonx.Marshal(payload)
		if err != nil {
			return err
		}
		evt.Payload = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(evt)
}

func (s *Server) serveConn(c *connection, sc resolve.SessionContext) {
	defer c.ws.Close()
	ctx := context.Background()

	for {
		var evt Event
		if err := c.ws.ReadJSON(&evt); err != nil {
			// Disconnect: the session is retained for reconnection
			// until the reaper ages it out.
			s.logger.Debug("chat disconnected",
				zap.String("session_id", sc.SessionID), zap.Error(err))
			return
		}

		switch evt.Type {
		case EventSendMessage:
			var payload SendMessagePayload
			if err := jsonx.Unmarshal(evt.Payload, &payload); err != nil {
				s.logger.Debug("malformed send_message payload", zap.Error(err))
				continue
			}
			s.handleSend(ctx, c, &sc, payload)

		case EventClearConversation:
			s.handleClear(c, sc)

		case EventPing:
			c.send(EventPong, nil)

		default:
			s.logger.Debug("ignoring unknown event", zap.String("type", evt.Type))
		}
	}
}

func (s *Server) handleSend(ctx context.Context, c *connection, sc *resolve.SessionContext, payload SendMessagePayload) {
	text := strings.TrimSpace(payload.Message)
	if text == "" {
		return
	}
	if payload.Context != nil && payload.Context.User != nil && payload.Context.User.Role != "" {
		sc.UserRole = payload.Context.User.Role
	}

	now := time.Now()

	if !s.limiter.Allow(ctx, sc.SessionID) {
		s.logger.Warn("rate limited", zap.String("session_id", sc.SessionID))
		c.send(EventReceiveMessage, ReceiveMessagePayload{
			Sender:    "bot",
			Message:   rateLimitReply,
			Timestamp: now.UTC().Format(time.RFC3339),
		})
		return
	}

	// Client double-submit: no append, no response, no error.
	if s.store.IsDuplicate(sc.SessionID, text, now.UnixMilli()) {
		s.logger.Debug("duplicate message suppressed",
			zap.String("session_id", sc.SessionID))
		return
	}

	s.store.Append(sc.SessionID, session.Message{
		Role:      session.RoleUser,
		Content:   text,
		Timestamp: now.UnixMilli(),
	})

	c.send(EventBotTyping, true)
	time.Sleep(s.thinkDelay())

	reply := s.resolver.Resolve(ctx, s.store.History(sc.SessionID), *sc)

	repliedAt := time.Now()
	s.store.Append(sc.SessionID, session.Message{
		Role:      session.RoleAssistant,
		Content:   reply,
		Timestamp: repliedAt.UnixMilli(),
	})

	c.send(EventBotTyping, false)
	c.send(EventReceiveMessage, ReceiveMessagePayload{
		Sender:    "bot",
		Message:   reply,
		Timestamp: repliedAt.UTC().Format(time.RFC3339),
	})

	s.publisher.Publish(publish.Exchange{
		SessionID: sc.SessionID,
		Query:     text,
		Response:  reply,
		Timestamp: repliedAt,
	})
}

func (s *Server) handleClear(c *connection, sc resolve.SessionContext) {
	s.store.Clear(sc.SessionID)
	c.send(EventConversationCleared, nil)

	time.Sleep(s.cfg.ClearWelcomeDelay)

	welcome := knowledge.WelcomeForRole(sc.UserRole)
	now := time.Now()
	s.store.Append(sc.SessionID, session.Message{
		Role:      session.RoleAssistant,
		Content:   welcome,
		Timestamp: now.UnixMilli(),
	})
	c.send(EventReceiveMessage, ReceiveMessagePayload{
		Sender:    "bot",
		Message:   welcome,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

func (s *Server) thinkDelay() time.Duration {
	span := s.cfg.ThinkingMax - s.cfg.ThinkingMin
	if span <= 0 {
		return s.cfg.ThinkingMin
	}
	s.rngMu.Lock()
	d := s.cfg.ThinkingMin + time.Duration(s.rng.Int63n(int64(span)))
	s.rngMu.Unlock()
	return d
}
