package resolve

import (
	"math/rand"
	"strings"

	"github.com/avenue-assistant/internal/knowledge"
	"github.com/avenue-assistant/internal/session"
)

// Fallback produces a generic platform-overview reply when neither the
// FAQ catalog nor the topic rules match. The random source is injected
// so tests can pin which response rotates in.
type Fallback struct {
	rng       *rand.Rand
	responses []string
}

// NewFallback creates a fallback responder over the generic response
// rotation.
func NewFallback(rng *rand.Rand) *Fallback {
	return &Fallback{
		rng:       rng,
		responses: knowledge.GenericResponses,
	}
}

// Respond always succeeds, picking uniformly at random from the fixed
// generic responses.
func (f *Fallback) Respond(sc SessionContext) string {
	return f.responses[f.rng.Intn(len(f.responses))]
}

// HardFallback is the error-path responder: it re-derives a topic from
// the single latest user message with a reduced keyword set. It exists
// so the resolver can guarantee a reply even when the main pipeline
// panics, and must therefore stay free of any dependency that could
// itself fail.
func HardFallback(history []session.Message) string {
	var latest string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == session.RoleUser {
			latest = strings.ToLower(history[i].Content)
			break
		}
	}

	switch {
	case strings.Contains(latest, "job"):
		return "You can browse and apply for jobs on the Avenue job board from your dashboard."
	case strings.Contains(latest, "pay") || strings.Contains(latest, "cost") || strings.Contains(latest, "fee"):
		return "Avenue is free for job seekers and trainees; employers and trainers pay GHS 150 per month. Billing lives in your dashboard."
	case strings.Contains(latest, "resume") || strings.Contains(latest, "cv"):
		return "You can upload or replace your resume from the Resume section of your dashboard."
	case strings.Contains(latest, "help") || strings.Contains(latest, "contact") || strings.Contains(latest, "support"):
		return "Our support team is at support@avenue.example, weekdays 8am-5pm."
	default:
		return knowledge.GenericResponses[0]
	}
}
