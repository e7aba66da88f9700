// Package output writes the CLI's status lines, tables, and hit lists.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// Writer provides formatted output for CLI commands.
type Writer struct {
	out   io.Writer
	quiet bool
}

// New creates a new output Writer.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Quiet returns a writer that drops status lines but still prints data
// (tables, hits, key/value pairs).
func Quiet(out io.Writer) *Writer {
	return &Writer{out: out, quiet: true}
}

// Status prints a status message with an icon.
func (w *Writer) Status(icon, msg string) {
	if w.quiet {
		return
	}
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message. Errors are printed even when quiet.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprintf(w.out, "❌ %s\n", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// KeyValue prints aligned "key: value" pairs in order.
func (w *Writer) KeyValue(pairs ...[2]string) {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	for _, p := range pairs {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	_ = tw.Flush()
}

// Table prints rows under a header with aligned columns.
func (w *Writer) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// Hits prints one sentence per hit with 1-based positions in the full text.
// base is the corpus index that hit Index 0 refers to.
func (w *Writer) Hits(hits []sequence.Hit, base int) {
	if len(hits) == 0 {
		_, _ = fmt.Fprintln(w.out, "No hits.")
		return
	}
	for _, h := range hits {
		h.Index += base
		_, _ = fmt.Fprintln(w.out, h.String())
	}
}

// Progress prints an in-place progress bar.
func (w *Writer) Progress(current, total int, msg string) {
	if w.quiet || total <= 0 {
		return
	}

	pct := float64(current) / float64(total) * 100
	_, _ = fmt.Fprintf(w.out, "\r[%s] %.0f%% %s", renderProgressBar(current, total, 30), pct, msg)
	if current >= total {
		_, _ = fmt.Fprintln(w.out)
	}
}

func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(float64(current) / float64(total) * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
