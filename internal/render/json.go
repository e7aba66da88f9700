package render

import (
	"encoding/json"
	"io"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// JSONRenderer writes the grid, its rows and the hits with their letter positions.
type JSONRenderer struct {
	Style Style
}

type jsonHit struct {
	sequence.Hit
	Positions []int `json:"positions"`
}

type jsonGrid struct {
	Grid        string    `json:"grid"`
	Width       int       `json:"width"`
	RightToLeft bool      `json:"right_to_left,omitempty"`
	Rows        []string  `json:"rows"`
	Hits        []jsonHit `json:"hits"`
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, grid string, hits []sequence.Hit) error {
	width := r.Style.width(hits)
	doc := jsonGrid{
		Grid:        grid,
		Width:       width,
		RightToLeft: r.Style.RightToLeft,
		Rows:        []string{},
		Hits:        make([]jsonHit, 0, len(hits)),
	}
	for _, row := range rows([]rune(grid), width) {
		doc.Rows = append(doc.Rows, string(row))
	}
	for _, h := range hits {
		doc.Hits = append(doc.Hits, jsonHit{Hit: h, Positions: h.Positions()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
