// Package resolve implements the assistant's query-resolution pipeline:
// normalization, FAQ matching, keyword topic routing, and fallback, in
// that order. The pipeline is purely functional over the knowledge
// tables; only the injected session context is read, never mutated.
package resolve

import (
	"context"
	"sync/atomic"

	"github.com/avenue-assistant/internal/session"
	"go.uber.org/zap"
)

// SessionContext carries per-connection metadata that responders may
// interpolate into replies.
type SessionContext struct {
	SessionID  string
	Username   string
	UserRole   string
	IsLoggedIn bool
}

// Stats counts which stage answered each query.
type Stats struct {
	Total    int64 `json:"total"`
	Cached   int64 `json:"cached"`
	FAQ      int64 `json:"faq"`
	Topic    int64 `json:"topic"`
	Fallback int64 `json:"fallback"`
	Degraded int64 `json:"degraded"`
}

// Resolver orchestrates the pipeline. Each stage either produces a
// reply or yields to the next; the fallback never yields, so every
// call returns text.
type Resolver struct {
	faq      *FAQMatcher
	router   *Router
	fallback *Fallback
	cache    *AnswerCache
	logger   *zap.Logger

	total    atomic.Int64
	cached   atomic.Int64
	faqHits  atomic.Int64
	topic    atomic.Int64
	generic  atomic.Int64
	degraded atomic.Int64
}

// NewResolver wires the pipeline stages. cache may be nil to disable
// answer memoization.
func NewResolver(faq *FAQMatcher, router *Router, fallback *Fallback, cache *AnswerCache, logger *zap.Logger) *Resolver {
	return &Resolver{
		faq:      faq,
		router:   router,
		fallback: fallback,
		cache:    cache,
		logger:   logger,
	}
}

// Resolve answers the most recent user message in the history. It never
// panics to its caller: any failure inside a stage degrades to the hard
// fallback, which is always well-formed text.
func (r *Resolver) Resolve(ctx context.Context, history []session.Message, sc SessionContext) (reply string) {
	r.total.Add(1)

	defer func() {
		if rec := recover(); rec != nil {
			r.degraded.Add(1)
			r.logger.Error("resolution pipeline panicked, degrading",
				zap.Any("panic", rec),
				zap.String("session_id", sc.SessionID))
			reply = HardFallback(history)
		}
	}()

	var latest string
	found := false
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == session.RoleUser {
			latest = history[i].Content
			found = true
			break
		}
	}
	if !found {
		r.generic.Add(1)
		return r.fallback.Respond(sc)
	}

	nq := Normalize(latest)

	if answer, ok := r.cache.Get(nq); ok {
		r.cached.Add(1)
		return answer
	}

	if answer := r.faq.Match(nq); answer != "" {
		r.faqHits.Add(1)
		r.cache.Set(nq, answer)
		return answer
	}

	if answer := r.router.Route(nq, sc); answer != "" {
		r.topic.Add(1)
		return answer
	}

	r.generic.Add(1)
	return r.fallback.Respond(sc)
}

// Stats returns the per-stage hit counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		Total:    r.total.Load(),
		Cached:   r.cached.Load(),
		FAQ:      r.faqHits.Load(),
		Topic:    r.topic.Load(),
		Fallback: r.generic.Load(),
		Degraded: r.degraded.Load(),
	}
}
