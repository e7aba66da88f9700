package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// palette cycles per term.
var palette = []string{"154", "81", "213", "220", "203", "117", "141", "208"}

// TextRenderer lays the grid out as fixed-width rows for a terminal. Each
// letter takes two cells: the letter and, for marked letters, the term
// number, or a color when Style.Color is set.
type TextRenderer struct {
	Style Style
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, grid string, hits []sequence.Hit) error {
	letters := []rune(grid)
	if len(letters) == 0 {
		_, err := fmt.Fprintln(w, "(no hits)")
		return err
	}

	marks := Marks(len(letters), hits)
	terms := TermNumbers(hits)
	styles := make(map[int]lipgloss.Style, len(terms))
	for _, n := range terms {
		styles[n] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(palette[(n-1)%len(palette)]))
	}

	width := r.Style.width(hits)
	var sb strings.Builder
	pos := 0
	for _, row := range rows(letters, width) {
		for _, l := range row {
			hit, marked := marks[pos]
			pos++
			if !marked {
				sb.WriteRune(l)
				sb.WriteByte(' ')
				continue
			}
			n := terms[hits[hit-1].Term]
			if r.Style.Color {
				sb.WriteString(styles[n].Render(string(l)))
				sb.WriteByte(' ')
			} else {
				sb.WriteRune(l)
				sb.WriteString(termMarker(n))
			}
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func termMarker(n int) string {
	if n < 10 {
		return fmt.Sprint(n)
	}
	return "*"
}
