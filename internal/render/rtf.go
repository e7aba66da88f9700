package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// rtfColors are the table entries used for terms, as red, green, blue.
var rtfColors = [][3]int{
	{192, 0, 0},
	{0, 112, 192},
	{0, 150, 70},
	{112, 48, 160},
	{230, 120, 0},
	{0, 150, 150},
	{200, 0, 130},
	{120, 90, 40},
}

// RTFRenderer writes the grid as a Rich Text document, one paragraph per row,
// with hit letters bold and colored by term.
type RTFRenderer struct {
	Style Style
}

// Render implements Renderer.
func (r *RTFRenderer) Render(w io.Writer, grid string, hits []sequence.Hit) error {
	letters := []rune(grid)
	marks := Marks(len(letters), hits)
	terms := TermNumbers(hits)

	font := r.Style.Font
	if font == "" {
		font = "Consolas"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "{\\rtf1\\ansi\\ansicpg1252\\deff0{\\fonttbl{\\f0\\fmodern %s;}}\n", escapeRTF(font))
	sb.WriteString("{\\colortbl;")
	for i := range len(terms) {
		c := rtfColors[i%len(rtfColors)]
		fmt.Fprintf(&sb, "\\red%d\\green%d\\blue%d;", c[0], c[1], c[2])
	}
	sb.WriteString("}\n\\f0\\fs24\n")

	pos := 0
	for _, row := range rows(letters, r.Style.width(hits)) {
		if r.Style.RightToLeft {
			sb.WriteString("\\pard\\rtlpar ")
		} else {
			sb.WriteString("\\pard ")
		}
		for _, l := range row {
			if hit, ok := marks[pos]; ok {
				fmt.Fprintf(&sb, "{\\b\\cf%d %s}", terms[hits[hit-1].Term], escapeRune(l))
			} else {
				sb.WriteString(escapeRune(l))
			}
			sb.WriteByte(' ')
			pos++
		}
		sb.WriteString("\\par\n")
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeRune(r rune) string {
	switch {
	case r == '\\' || r == '{' || r == '}':
		return "\\" + string(r)
	case r < 0x80:
		return string(r)
	default:
		// \uN takes a signed 16-bit value followed by an ASCII fallback.
		return fmt.Sprintf("\\u%d?", int16(r))
	}
}

func escapeRTF(s string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteString(escapeRune(r))
	}
	return sb.String()
}
