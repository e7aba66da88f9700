package sequence

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Hit is one occurrence of a term read at a fixed skip interval.
type Hit struct {
	// Term is the normalized string matched, either a search term or its reversal.
	Term string `json:"term"`

	// Index is the position of the first letter. It is relative to the active
	// range during the scan and relative to the grid once a search returns.
	Index int `json:"index"`

	// Start is the scan position, relative to the active range, that found the hit.
	Start int `json:"start"`

	// Skip is the interval between consecutive letters.
	Skip int `json:"skip"`
}

// Len returns the term length in letters.
func (h Hit) Len() int {
	return utf8.RuneCountInString(h.Term)
}

// End returns Index + Len*Skip, the exclusive end of the hit's span.
func (h Hit) End() int {
	return h.Index + h.Len()*h.Skip
}

// Positions returns the index of every letter of the hit.
func (h Hit) Positions() []int {
	n := h.Len()
	out := make([]int, n)
	for i := range n {
		out[i] = h.Index + i*h.Skip
	}
	return out
}

// String renders the hit with a 1-based position.
func (h Hit) String() string {
	return fmt.Sprintf("Term '%s' found at %d skipping every %d letter(s)", h.Term, h.Index+1, h.Skip)
}

func compareHits(a, b Hit) int {
	if c := cmp.Compare(a.Index, b.Index); c != 0 {
		return c
	}
	return cmp.Compare(a.Skip, b.Skip)
}

// SortHits orders hits ascending by (Index, Skip).
func SortHits(hits []Hit) {
	slices.SortStableFunc(hits, compareHits)
}

// rankCandidates orders candidates from one position's fan-out for claiming.
func rankCandidates(a, b Hit) int {
	if c := cmp.Compare(a.Index, b.Index); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Skip, b.Skip); c != 0 {
		return c
	}
	return cmp.Compare(a.Term, b.Term)
}

// Rebase returns a copy of hits with every Index moved by delta. Use it with
// Engine.Offset()+Grid.Offset to get positions in the full text.
func Rebase(hits []Hit, delta int) []Hit {
	if hits == nil {
		return nil
	}
	out := slices.Clone(hits)
	for i := range out {
		out[i].Index += delta
	}
	return out
}
