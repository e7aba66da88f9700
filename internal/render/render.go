// Package render draws a search grid with its hits highlighted.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

// Renderer writes a grid and its hits. Hit indices are relative to the grid.
type Renderer interface {
	Render(w io.Writer, grid string, hits []sequence.Hit) error
}

// Format names a Renderer.
type Format string

const (
	FormatText Format = "text"
	FormatRTF  Format = "rtf"
	FormatJSON Format = "json"
)

// Formats lists every supported output format.
var Formats = []Format{FormatText, FormatRTF, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", elserrors.New(elserrors.ErrCodeUnknownFormat, fmt.Sprintf("unknown output format %q", s), nil).
		WithSuggestion("Use one of: text, rtf, json")
}

// Style carries the per-language and per-user layout settings.
type Style struct {
	// Width is the number of letters per row. 0 uses the first hit's skip so
	// that hit reads straight down; with no hits it falls back to DefaultWidth.
	Width int

	// Color enables terminal colors in text output.
	Color bool

	// RightToLeft marks the script as written right to left.
	RightToLeft bool

	// Font is the typeface named in document formats.
	Font string
}

// DefaultWidth is the row width used when nothing else decides it.
const DefaultWidth = 50

// New returns the renderer for a format.
func New(f Format, style Style) (Renderer, error) {
	switch f {
	case FormatText:
		return &TextRenderer{Style: style}, nil
	case FormatRTF:
		return &RTFRenderer{Style: style}, nil
	case FormatJSON:
		return &JSONRenderer{Style: style}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}

// Marks maps each marked grid position to the number of the hit covering it,
// counted from 1 in hit order. A letter shared by several hits keeps the first.
func Marks(gridLen int, hits []sequence.Hit) map[int]int {
	marks := make(map[int]int)
	for i, h := range hits {
		for _, p := range h.Positions() {
			if p < 0 || p >= gridLen {
				continue
			}
			if _, ok := marks[p]; !ok {
				marks[p] = i + 1
			}
		}
	}
	return marks
}

// TermNumbers assigns each distinct term a number from 1 in order of first
// appearance. Colors and legends are keyed by term, not by hit.
func TermNumbers(hits []sequence.Hit) map[string]int {
	nums := make(map[string]int)
	for _, h := range hits {
		if _, ok := nums[h.Term]; !ok {
			nums[h.Term] = len(nums) + 1
		}
	}
	return nums
}

// rows splits letters into rows of width.
func rows(letters []rune, width int) [][]rune {
	if width <= 0 {
		width = DefaultWidth
	}
	var out [][]rune
	for start := 0; start < len(letters); start += width {
		out = append(out, letters[start:min(start+width, len(letters))])
	}
	return out
}

func (s Style) width(hits []sequence.Hit) int {
	switch {
	case s.Width > 0:
		return s.Width
	case len(hits) > 0 && hits[0].Skip > 0:
		return hits[0].Skip
	default:
		return DefaultWidth
	}
}
