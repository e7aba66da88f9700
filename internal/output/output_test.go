package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

func TestWriter_StatusLines(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *Writer)
		want  string
	}{
		{"status", func(w *Writer) { w.Status("🔍", "Loading corpus") }, "🔍 Loading corpus\n"},
		{"no icon", func(w *Writer) { w.Status("", "indented") }, "   indented\n"},
		{"success", func(w *Writer) { w.Successf("Saved %d", 3) }, "✅ Saved 3\n"},
		{"warning", func(w *Writer) { w.Warningf("history %s", "off") }, "⚠️  history off\n"},
		{"error", func(w *Writer) { w.Errorf("bad %s", "path") }, "❌ bad path\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.print(New(buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestQuiet_DropsStatusKeepsErrorsAndData(t *testing.T) {
	// Given: a quiet writer
	buf := &bytes.Buffer{}
	w := Quiet(buf)

	// When: printing status, an error, and data
	w.Success("done")
	w.Progress(1, 2, "half")
	w.Error("boom")
	w.KeyValue([2]string{"ID", "abc"})

	// Then: only the error and the data remain
	assert.Equal(t, "❌ boom\nID:  abc\n", buf.String())
}

func TestWriter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Table([]string{"ID", "HITS"}, [][]string{{"a1", "3"}, {"b22", "10"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"ID   HITS", "a1   3", "b22  10"}, lines)
}

func TestWriter_Hits(t *testing.T) {
	// Given: a hit in a range starting at offset 10
	buf := &bytes.Buffer{}
	hits := []sequence.Hit{{Term: "ACE", Index: 0, Start: 0, Skip: 2}}

	// When: printing
	New(buf).Hits(hits, 10)

	// Then: the position is 1-based and absolute
	assert.Equal(t, "Term 'ACE' found at 11 skipping every 2 letter(s)\n", buf.String())
	assert.Equal(t, 0, hits[0].Index, "input is not modified")
}

func TestWriter_NoHits(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Hits(nil, 0)
	assert.Equal(t, "No hits.\n", buf.String())
}

func TestWriter_Progress(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Progress(15, 30, "scanning")
	assert.Contains(t, buf.String(), "50%")
	assert.NotContains(t, buf.String(), "\n")

	w.Progress(30, 30, "done")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░", renderProgressBar(0, 0, 4))
	assert.Equal(t, "██░░", renderProgressBar(1, 2, 4))
	assert.Equal(t, "████", renderProgressBar(9, 2, 4))
}
