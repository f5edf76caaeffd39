package resolve

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w\s]+`)

// Normalize lowercases raw input and strips every rune that is neither a
// word character nor whitespace. It is total and idempotent, so both
// queries and FAQ questions can be passed through it any number of times.
func Normalize(raw string) string {
	return nonWord.ReplaceAllString(strings.ToLower(raw), "")
}
