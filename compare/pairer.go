package compare

// pagePair is one aligned position in the comparison: the 1-based page
// number drawn from each document, or 0 when that side has run out of
// pages and a blank placeholder stands in.
type pagePair struct {
	a, b int
}

// alignPages pairs the kept pages of both documents strictly by
// position. The pairing is deliberately not content-aware: after the
// caller has skipped known-irrelevant pages, remaining pages are
// expected to correspond one-to-one, and any residual misalignment
// shows up honestly as large visual differences.
func alignPages(keptA, keptB []int) []pagePair {
	n := len(keptA)
	if len(keptB) > n {
		n = len(keptB)
	}
	pairs := make([]pagePair, n)
	for i := 0; i < n; i++ {
		if i < len(keptA) {
			pairs[i].a = keptA[i]
		}
		if i < len(keptB) {
			pairs[i].b = keptB[i]
		}
	}
	return pairs
}
