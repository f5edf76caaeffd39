package resolve

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/avenue-assistant/internal/knowledge"
	"github.com/avenue-assistant/internal/session"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(
		NewFAQMatcher(knowledge.FAQ),
		NewRouter(),
		NewFallback(rand.New(rand.NewSource(1))),
		nil, // no answer cache in unit tests
		zaptest.NewLogger(t),
	)
}

func history(contents ...string) []session.Message {
	var msgs []session.Message
	for i, c := range contents {
		role := session.RoleUser
		if i%2 == 1 {
			role = session.RoleAssistant
		}
		msgs = append(msgs, session.Message{Role: role, Content: c, Timestamp: int64(i)})
	}
	return msgs
}

func TestResolveTotality(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	inputs := []string{
		"how much does it cost to register",
		"hello",
		"xyzzy plugh",
		"!!!???",
		"a",
	}
	for _, in := range inputs {
		if got := r.Resolve(ctx, history(in), SessionContext{}); got == "" {
			t.Errorf("Resolve(%q) returned empty reply", in)
		}
	}
}

func TestResolveFAQBeatsKeywordRules(t *testing.T) {
	r := newTestResolver(t)

	// "cost" would also hit the payment topic rule, but the FAQ stage
	// runs first and must win.
	got := r.Resolve(context.Background(), history("how much does it cost to register"), SessionContext{})
	if got != knowledge.FAQ[0].Answer {
		t.Errorf("expected FAQ answer verbatim, got %q", got)
	}
}

func TestResolveFallsBackToGeneric(t *testing.T) {
	r := newTestResolver(t)

	got := r.Resolve(context.Background(), history("xyzzy plugh"), SessionContext{})
	found := false
	for _, want := range knowledge.GenericResponses {
		if got == want {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected a generic fallback response, got %q", got)
	}
}

func TestResolveNoUserMessage(t *testing.T) {
	r := newTestResolver(t)

	msgs := []session.Message{{Role: session.RoleAssistant, Content: "welcome", Timestamp: 1}}
	if got := r.Resolve(context.Background(), msgs, SessionContext{}); got == "" {
		t.Error("expected fallback reply for history without user messages")
	}
}

func TestResolveRecoversFromPanic(t *testing.T) {
	boom := NewRouterWith([]TopicRule{{
		Name:     "boom",
		Keywords: []string{"boom"},
		Respond: func(q string, sc SessionContext) string {
			panic("responder exploded")
		},
	}})
	r := NewResolver(
		NewFAQMatcher(nil),
		boom,
		NewFallback(rand.New(rand.NewSource(1))),
		nil,
		zaptest.NewLogger(t),
	)

	got := r.Resolve(context.Background(), history("boom"), SessionContext{})
	if got != knowledge.GenericResponses[0] {
		t.Errorf("expected hard fallback default, got %q", got)
	}
	if r.Stats().Degraded != 1 {
		t.Errorf("expected degraded counter = 1, got %d", r.Stats().Degraded)
	}
}

func TestResolveCachesFAQAnswers(t *testing.T) {
	cache, err := NewAnswerCache(zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	defer cache.Close()

	r := NewResolver(
		NewFAQMatcher(knowledge.FAQ),
		NewRouter(),
		NewFallback(rand.New(rand.NewSource(1))),
		cache,
		zaptest.NewLogger(t),
	)

	q := "how much does it cost to register"
	first := r.Resolve(context.Background(), history(q), SessionContext{})
	cache.cache.Wait() // ristretto applies sets asynchronously

	second := r.Resolve(context.Background(), history(q), SessionContext{})
	if first != second || !strings.Contains(first, "free") {
		t.Errorf("cache changed the answer: %q vs %q", first, second)
	}
	if r.Stats().Cached != 1 {
		t.Errorf("expected one cached hit, got %d", r.Stats().Cached)
	}
}
