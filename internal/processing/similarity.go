package processing

// TokenSet holds the normalized words of a headline. Comparison is purely
// lexical; two headlines are close when they share enough words.
type TokenSet map[string]struct{}

// Union adds every token of other into the set.
func (s TokenSet) Union(other TokenSet) {
	for token := range other {
		s[token] = struct{}{}
	}
}

// Similarity scores how close two headlines are by token overlap: the size
// of the intersection divided by the size of the smaller set. Scores are in
// [0,1] and symmetric; identical non-empty sets score 1, and anything
// compared against an empty set scores 0, so headlines with no usable
// tokens never match.
func Similarity(a, b TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(small))
}
