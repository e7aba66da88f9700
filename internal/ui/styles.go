package ui

import "github.com/charmbracelet/lipgloss"

// Progress display colors, named by what they mark. Term colors in the grid
// come from the render package.
const (
	ColorAccent  = "154" // spinner, bar, hit counts
	ColorMuted   = "245" // labels and rates
	ColorRule    = "238" // borders and idle markers
	ColorCaution = "220" // a cancelled search
)

// Styles holds the styles of the search progress display and summary.
type Styles struct {
	Header    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Active    lipgloss.Style
	Dim       lipgloss.Style
	Border    lipgloss.Style
	Sparkline lipgloss.Style
	Speed     lipgloss.Style
	Label     lipgloss.Style
}

func color(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    color(ColorAccent).Bold(true),
		Success:   color(ColorAccent),
		Warning:   color(ColorCaution),
		Active:    color(ColorAccent).Bold(true),
		Dim:       color(ColorRule),
		Border:    color(ColorRule),
		Sparkline: color(ColorAccent),
		Speed:     color(ColorMuted),
		Label:     color(ColorMuted),
	}
}

// NoColorStyles returns styles that render text unchanged.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Success:   plain,
		Warning:   plain,
		Active:    plain,
		Dim:       plain,
		Border:    plain,
		Sparkline: plain,
		Speed:     plain,
		Label:     plain,
	}
}

// GetStyles picks NoColorStyles when noColor is set.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
