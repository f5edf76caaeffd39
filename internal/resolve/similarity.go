package resolve

import "strings"

// Similarity returns the word-overlap ratio between two strings: the
// number of a's tokens that appear anywhere in b, divided by the longer
// token count. The count is always taken from the first argument, so
// Similarity(a, b) and Similarity(b, a) can differ when token multisets
// differ. That asymmetry is part of the matching contract; do not
// "fix" it to a symmetric Jaccard without a product decision.
func Similarity(a, b string) float64 {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	bset := make(map[string]struct{}, len(bt))
	for _, t := range bt {
		bset[t] = struct{}{}
	}

	matches := 0
	for _, t := range at {
		if _, ok := bset[t]; ok {
			matches++
		}
	}

	longest := len(at)
	if len(bt) > longest {
		longest = len(bt)
	}
	return float64(matches) / float64(longest)
}
