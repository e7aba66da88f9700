package searcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanels/internal/alphabet"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/logging"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

func writeCorpus(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func newTestSearcher(t *testing.T, withHistory bool) *Searcher {
	t.Helper()
	opts := []Option{WithLogger(logging.Discard())}
	if withHistory {
		store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), history.WithLogger(logging.Discard()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		opts = append(opts, WithHistory(store))
	}
	return New(opts...)
}

func TestSearch_FileCorpus(t *testing.T) {
	// Given: a Latin corpus with punctuation and lowercase letters
	path := writeCorpus(t, "sample.txt", "a-b, c d! e f g")
	s := newTestSearcher(t, false)

	// When: searching for "ace"
	resp, err := s.Search(context.Background(), Request{
		Path:    path,
		Terms:   []string{" ace "},
		Options: sequence.DefaultOptions(),
		Format:  render.FormatText,
	})

	// Then: the corpus is normalized and the hit found
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFG", resp.Corpus.Text)
	assert.Equal(t, alphabet.Latin, resp.Corpus.Language())
	require.Len(t, resp.Result.Hits, 1)
	assert.Equal(t, sequence.Hit{Term: "ACE", Index: 0, Start: 0, Skip: 2}, resp.Result.Hits[0])
	assert.Equal(t, sequence.StatusComplete, resp.Result.Status)
	assert.NotEmpty(t, resp.Rendered)
	assert.Empty(t, resp.HistoryID)
}

func TestSearch_InlineHebrew(t *testing.T) {
	// Given: inline Hebrew text with a final letter
	s := newTestSearcher(t, false)

	// When: searching with language detection
	resp, err := s.Search(context.Background(), Request{
		Text:    "בראשית ברא אלהים",
		Terms:   []string{"אלהים"},
		Options: sequence.DefaultOptions(),
	})

	// Then: the Hebrew profile is picked and final forms fold
	require.NoError(t, err)
	assert.Equal(t, alphabet.Hebrew, resp.Corpus.Language())
	assert.Equal(t, "inline", resp.Corpus.Path)
	assert.Empty(t, resp.Rendered)
}

func TestSearch_RangeOffset(t *testing.T) {
	s := newTestSearcher(t, false)
	opts := sequence.DefaultOptions()
	opts.Start = 2

	resp, err := s.Search(context.Background(), Request{
		Text:    "XXABCDEFG",
		Terms:   []string{"ACE"},
		Options: opts,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Offset)
	assert.Equal(t, 2, resp.Base)
	assert.Equal(t, 2, resp.Options.Start)
	require.Len(t, resp.Result.Hits, 1)
	assert.Equal(t, 0, resp.Result.Hits[0].Index)
}

func TestSearch_Errors(t *testing.T) {
	s := newTestSearcher(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		code string
	}{
		{"no corpus", Request{Terms: []string{"A"}}, elserrors.ErrCodeInvalidInput},
		{"missing file", Request{Path: "/no/such/file.txt", Terms: []string{"A"}}, elserrors.ErrCodeFileNotFound},
		{"unknown language", Request{Text: "ABC", Terms: []string{"A"}, Language: "klingon"}, elserrors.ErrCodeUnknownLanguage},
		{"bad skip", Request{Text: "ABC", Terms: []string{"A"}, Options: sequence.Options{FromSkip: 0, Stop: sequence.Unset, ToSkip: sequence.Unset}}, elserrors.ErrCodeInvalidSkip},
		{"bad format", Request{Text: "ABC", Terms: []string{"A"}, Options: sequence.DefaultOptions(), Format: "pdf"}, elserrors.ErrCodeUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Search(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, elserrors.GetCode(err))
		})
	}
}

func TestSearch_NoTermsCompletesEmpty(t *testing.T) {
	s := newTestSearcher(t, false)

	tests := []struct {
		name  string
		terms []string
	}{
		{"nil", nil},
		{"blank", []string{" ", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: searching a text without any term
			resp, err := s.Search(context.Background(), Request{
				Text:    "ABCDEFG",
				Terms:   tt.terms,
				Options: sequence.DefaultOptions(),
			})

			// Then: the search completes with no hits
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Empty(t, resp.Result.Hits)
			assert.Equal(t, sequence.StatusComplete, resp.Result.Status)
			assert.Empty(t, resp.Result.Grid.Text)
		})
	}
}

func TestSearch_Cancelled(t *testing.T) {
	s := newTestSearcher(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := s.Search(ctx, Request{Text: "ABCDEFG", Terms: []string{"ACE"}, Options: sequence.DefaultOptions()})

	require.NoError(t, err)
	assert.True(t, resp.Result.Cancelled())
	assert.Empty(t, resp.Result.Hits)
}

func TestSearch_SavesAndReruns(t *testing.T) {
	// Given: a searcher with history and a corpus file
	path := writeCorpus(t, "sample.txt", "ABCDEFG")
	s := newTestSearcher(t, true)
	ctx := context.Background()

	// When: saving a search
	resp, err := s.Search(ctx, Request{
		Path:    path,
		Name:    "first",
		Terms:   []string{"ace"},
		Options: sequence.DefaultOptions(),
		Save:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.HistoryID)

	// Then: the record carries the search
	rec, err := s.History().Get(ctx, resp.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Name)
	assert.Equal(t, []string{"ace"}, rec.Terms)
	assert.Equal(t, string(alphabet.Latin), rec.Language)
	assert.Equal(t, 1, rec.HitCount)

	// And: rerunning reproduces the hits and saves nothing new
	again, got, err := s.Rerun(ctx, resp.HistoryID[:8], nil)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, resp.Result.Hits, again.Result.Hits)
	n, err := s.History().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRerun_WithoutHistory(t *testing.T) {
	s := newTestSearcher(t, false)

	_, _, err := s.Rerun(context.Background(), "abc", nil)

	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestSearch_ReportsProgress(t *testing.T) {
	s := newTestSearcher(t, false)
	var last sequence.Progress

	_, err := s.Search(context.Background(), Request{
		Text:    "ABCDEFG",
		Terms:   []string{"ACE"},
		Options: sequence.DefaultOptions(),
		Sink: sequence.ProgressFunc(func(p sequence.Progress) bool {
			last = p
			return false
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, last.Total, last.Position)
	assert.Equal(t, 1, last.Hits)
}
