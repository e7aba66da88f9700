package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// SummaryRenderer prints the header block shown above search hits and in
// `history show`.
type SummaryRenderer struct {
	out    io.Writer
	styles Styles
}

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(out io.Writer, noColor bool) *SummaryRenderer {
	return &SummaryRenderer{out: out, styles: GetStyles(noColor)}
}

// Render writes s as aligned key/value lines.
func (r *SummaryRenderer) Render(s Summary) error {
	title := "Search Complete"
	style := r.styles.Success
	if s.Cancelled {
		title = "Search Cancelled"
		style = r.styles.Warning
	}
	_, _ = fmt.Fprintf(r.out, "%s\n", style.Render(title))

	if s.Corpus != "" {
		_, _ = fmt.Fprintf(r.out, "  Corpus:    %s\n", s.Corpus)
	}
	if s.Language != "" {
		_, _ = fmt.Fprintf(r.out, "  Language:  %s\n", s.Language)
	}
	if s.Letters > 0 {
		_, _ = fmt.Fprintf(r.out, "  Letters:   %d\n", s.Letters)
	}
	_, _ = fmt.Fprintf(r.out, "  Terms:     %s\n", strings.Join(s.Terms, ", "))
	_, _ = fmt.Fprintf(r.out, "  Positions: %d\n", s.Positions)
	_, _ = fmt.Fprintf(r.out, "  Hits:      %s\n", r.styles.Active.Render(fmt.Sprintf("%d", s.Hits)))
	_, _ = fmt.Fprintf(r.out, "  Duration:  %s\n", FormatDuration(s.Duration))
	return nil
}

// RenderJSON writes s as indented JSON.
func (r *SummaryRenderer) RenderJSON(s Summary) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Corpus     string   `json:"corpus,omitempty"`
		Language   string   `json:"language,omitempty"`
		Letters    int      `json:"letters,omitempty"`
		Terms      []string `json:"terms"`
		Hits       int      `json:"hits"`
		Positions  int      `json:"positions"`
		DurationMS int64    `json:"duration_ms"`
		Cancelled  bool     `json:"cancelled"`
	}{s.Corpus, s.Language, s.Letters, s.Terms, s.Hits, s.Positions, s.Duration.Milliseconds(), s.Cancelled})
}

// FormatDuration formats a duration for people: 850ms, 12s, 3m 5s, 1h 2m.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatAge formats t relative to now, as in "3 hours ago".
func FormatAge(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
