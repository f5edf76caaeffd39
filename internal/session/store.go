package session

import (
	"sync"

	"go.uber.org/zap"
)

// Store maps session ids to their conversations. It is an explicitly
// owned object injected into the connection handler, the persistence
// manager and the reaper, so tests can run isolated stores. A RWMutex
// guards the map: each connection runs its own goroutine, though a
// single session's messages are still handled in arrival order by its
// connection loop.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Append adds a message to the session, creating the session if it does
// not exist. Histories are capped at MaxMessages with the oldest turns
// trimmed, and LastActivity follows the appended message's timestamp.
func (s *Store) Append(id string, m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}

	sess.Messages = append(sess.Messages, m)
	if over := len(sess.Messages) - MaxMessages; over > 0 {
		sess.Messages = sess.Messages[over:]
	}
	sess.LastActivity = m.Timestamp
}

// IsDuplicate reports whether a user message with the given content,
// arriving at ts, repeats the previous user turn within the duplicate
// window. The previous user turn is the second-to-last history entry:
// the most recent entry is normally the assistant's reply to it.
func (s *Store) IsDuplicate(id, content string, ts int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || len(sess.Messages) < 2 {
		return false
	}

	prev := sess.Messages[len(sess.Messages)-2]
	return prev.Role == RoleUser &&
		prev.Content == content &&
		ts-prev.Timestamp <= DuplicateWindow.Milliseconds()
}

// History returns a copy of the session's messages, oldest first.
func (s *Store) History(id string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// Clear truncates the session's history to empty. The session itself is
// retained so the conversation can continue.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Messages = nil
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// MessageCount returns the total number of stored messages.
func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, sess := range s.sessions {
		total += len(sess.Messages)
	}
	return total
}

// Snapshot copies every session's history, keyed by session id. This is
// the shape the persistence layer writes to disk.
func (s *Store) Snapshot() map[string][]Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string][]Message, len(s.sessions))
	for id, sess := range s.sessions {
		msgs := make([]Message, len(sess.Messages))
		copy(msgs, sess.Messages)
		snap[id] = msgs
	}
	return snap
}

// Restore hydrates the store from a snapshot. LastActivity is derived
// from each session's final message; the persisted shape does not carry
// it separately. Empty histories are skipped, since the reaper would
// remove them on its next sweep anyway.
func (s *Store) Restore(snap map[string][]Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, msgs := range snap {
		if len(msgs) == 0 {
			continue
		}
		sess := &Session{ID: id, Messages: msgs}
		sess.LastActivity = msgs[len(msgs)-1].Timestamp
		s.sessions[id] = sess
	}
	s.logger.Info("session store hydrated",
		zap.Int("sessions", len(s.sessions)))
}

// Reap removes every session whose history is empty or whose last
// activity precedes the cutoff, returning how many were evicted.
func (s *Store) Reap(cutoff int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if len(sess.Messages) == 0 || sess.LastActivity < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
