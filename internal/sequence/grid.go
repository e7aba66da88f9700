package sequence

// Grid is the slice of the active range that spans every retained hit.
type Grid struct {
	// Text is the grid's letters.
	Text string `json:"text"`

	// Offset is where Text begins, relative to the active range.
	Offset int `json:"offset"`
}

// buildGrid sorts hits, rebases their indices onto the grid, and returns the grid.
// hits is modified in place.
func buildGrid(text []rune, hits []Hit) Grid {
	if len(hits) == 0 || len(text) == 0 {
		return Grid{}
	}

	SortHits(hits)

	low := hits[0].Index
	high := low
	for _, h := range hits {
		high = max(high, h.End())
	}
	if high > len(text)-1 {
		high = len(text) - 1
	}

	for i := range hits {
		hits[i].Index -= low
	}

	return Grid{Text: string(text[low : high+1]), Offset: low}
}
