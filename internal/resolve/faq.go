package resolve

import (
	"strings"

	"github.com/avenue-assistant/internal/knowledge"
)

// Similarity thresholds for the two FAQ matching tiers.
const (
	faqStrongThreshold = 0.6
	faqWeakThreshold   = 0.3
	keyPartMinLen      = 3
)

// FAQMatcher resolves normalized queries against the FAQ catalog.
// Entries are scanned in declaration order and the first qualifying
// entry wins; there is no global best-score search.
type FAQMatcher struct {
	entries []knowledge.Entry
}

// NewFAQMatcher creates a matcher over the given catalog.
func NewFAQMatcher(entries []knowledge.Entry) *FAQMatcher {
	return &FAQMatcher{entries: entries}
}

// Match returns the answer of the first entry the normalized query
// qualifies for, or "" when no entry matches.
//
// Tier one: either string contains the other, or the word-overlap
// similarity exceeds 0.6. Tier two: the query contains at least one
// "key part" of the question (a token longer than three characters)
// and the similarity exceeds 0.3.
func (m *FAQMatcher) Match(normalizedQuery string) string {
	for _, e := range m.entries {
		nq := Normalize(e.Question)

		if strings.Contains(normalizedQuery, nq) || strings.Contains(nq, normalizedQuery) {
			return e.Answer
		}
		sim := Similarity(normalizedQuery, nq)
		if sim > faqStrongThreshold {
			return e.Answer
		}

		if sim > faqWeakThreshold && containsKeyPart(normalizedQuery, nq) {
			return e.Answer
		}
	}
	return ""
}

func containsKeyPart(query, question string) bool {
	for _, tok := range strings.Fields(question) {
		if len(tok) > keyPartMinLen && strings.Contains(query, tok) {
			return true
		}
	}
	return false
}
