package dedupe

import "strings"

type tokenSet map[string]struct{}

// newTokenSet lower-cases text and splits it on whitespace.
func newTokenSet(text string) tokenSet {
	fields := strings.Fields(strings.ToLower(text))
	set := make(tokenSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the lower-cased whitespace tokens
// of a and b. Two texts without tokens have similarity 0.
func Jaccard(a, b string) float64 {
	return jaccard(newTokenSet(a), newTokenSet(b))
}

func jaccard(a, b tokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for t := range small {
		if _, ok := large[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// upperBound is the largest Jaccard similarity two sets of these sizes can
// reach.
func upperBound(a, b tokenSet) float64 {
	small, large := len(a), len(b)
	if small > large {
		small, large = large, small
	}
	if large == 0 {
		return 0
	}
	return float64(small) / float64(large)
}
