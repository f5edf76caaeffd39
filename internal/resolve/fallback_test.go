package resolve

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/avenue-assistant/internal/knowledge"
	"github.com/avenue-assistant/internal/session"
)

func TestFallbackAlwaysGeneric(t *testing.T) {
	f := NewFallback(rand.New(rand.NewSource(1)))

	for i := 0; i < 50; i++ {
		got := f.Respond(SessionContext{})
		found := false
		for _, want := range knowledge.GenericResponses {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("fallback produced a response outside the fixed set: %q", got)
		}
	}
}

func TestHardFallbackTopics(t *testing.T) {
	mk := func(content string) []session.Message {
		return []session.Message{
			{Role: session.RoleUser, Content: content, Timestamp: 1},
			{Role: session.RoleAssistant, Content: "reply", Timestamp: 2},
		}
	}

	if got := HardFallback(mk("my resume is broken")); !strings.Contains(got, "resume") {
		t.Errorf("expected resume topic, got %q", got)
	}
	if got := HardFallback(mk("I need a job")); !strings.Contains(got, "job board") {
		t.Errorf("expected job topic, got %q", got)
	}
	if got := HardFallback(mk("payment issue")); !strings.Contains(got, "GHS 150") {
		t.Errorf("expected payment topic, got %q", got)
	}
	if got := HardFallback(nil); got != knowledge.GenericResponses[0] {
		t.Errorf("expected generic default for empty history, got %q", got)
	}
}
