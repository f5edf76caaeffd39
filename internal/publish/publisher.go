// Package publish emits resolved chat exchanges to NATS for downstream
// analytics and ingestion. Publishing is fire-and-forget and entirely
// optional: a nil Publisher is a no-op.
package publish

import (
	"fmt"
	"time"

	"github.com/avenue-assistant/internal/jsonx"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is where exchanges are published.
const DefaultSubject = "assistant.transcripts"

// Exchange is one resolved question/answer pair.
type Exchange struct {
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes exchanges on a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// Connect dials NATS and returns a publisher on the default subject.
func Connect(url string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("avenue-assistant"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	logger.Info("transcript publisher connected", zap.String("url", url))
	return &Publisher{nc: nc, subject: DefaultSubject, logger: logger}, nil
}

// Publish sends one exchange. Failures are logged and dropped; the chat
// path never depends on the bus.
func (p *Publisher) Publish(ex Exchange) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := jsonx.Marshal(ex)
	if err != nil {
		p.logger.Warn("failed to encode exchange", zap.Error(err))
		return
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		p.logger.Warn("failed to publish exchange", zap.Error(err))
	}
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
}
