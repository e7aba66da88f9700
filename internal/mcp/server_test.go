package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanels/internal/config"
	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/logging"
	"github.com/Aman-CERP/amanels/pkg/searcher"
)

func newTestServer(t *testing.T, withHistory bool) *Server {
	t.Helper()
	opts := []searcher.Option{searcher.WithLogger(logging.Discard())}
	if withHistory {
		store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), history.WithLogger(logging.Discard()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		opts = append(opts, searcher.WithHistory(store))
	}
	srv, err := NewServer(searcher.New(opts...), config.NewConfig(), WithLogger(logging.Discard()))
	require.NoError(t, err)
	return srv
}

func intPtr(v int) *int { return &v }

func TestNewServer_RequiresSearcher(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestServer_InfoAndTools(t *testing.T) {
	srv := newTestServer(t, false)

	name, ver := srv.Info()
	assert.Equal(t, "amanels", name)
	assert.NotEmpty(t, ver)

	var names []string
	for _, tool := range srv.ListTools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{ToolSearch, ToolLanguages, ToolHistory}, names)
	assert.NotNil(t, srv.MCPServer())
}

func TestSearchHandler_InlineText(t *testing.T) {
	// Given: a server and inline text containing ACE at skip 2
	srv := newTestServer(t, false)

	// When: calling els_search
	res, out, err := srv.mcpSearchHandler(context.Background(), nil, SearchInput{
		Text:  "a-b, c d! e f g",
		Terms: []string{"ace"},
	})

	// Then: the hit is reported with 1-based absolute positions
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "inline", out.Corpus)
	assert.Equal(t, "latin", out.Language)
	assert.Equal(t, 7, out.Letters)
	assert.Equal(t, "complete", out.Status)
	require.Len(t, out.Hits, 1)
	assert.Equal(t, HitOutput{
		Term:      "ACE",
		Position:  1,
		Skip:      2,
		Letters:   []int{1, 3, 5},
		Statement: "Term 'ACE' found at 1 skipping every 2 letter(s)",
	}, out.Hits[0])
	assert.Equal(t, "ABCDEFG", out.Grid)
	assert.NotEmpty(t, out.Rendered)
}

func TestSearchHandler_RangeIsAbsolute(t *testing.T) {
	// Given: a range starting past the first letters
	srv := newTestServer(t, false)

	// When: searching CEG from index 2
	_, out, err := srv.mcpSearchHandler(context.Background(), nil, SearchInput{
		Text:   "ABCDEFGH",
		Terms:  []string{"ceg"},
		Start:  2,
		ToSkip: intPtr(3),
	})

	// Then: positions still count from the start of the text
	require.NoError(t, err)
	require.Len(t, out.Hits, 1)
	assert.Equal(t, 3, out.Hits[0].Position)
	assert.Equal(t, []int{3, 5, 7}, out.Hits[0].Letters)
}

func TestSearchHandler_NoTermsIsEmptyResult(t *testing.T) {
	// Given: a server
	srv := newTestServer(t, false)

	// When: searching without terms
	res, out, err := srv.mcpSearchHandler(context.Background(), nil, SearchInput{Text: "ABCDEFG"})

	// Then: the tool succeeds with no hits
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, out.Hits)
	assert.Empty(t, out.Grid)
	assert.Equal(t, "complete", out.Status)
}

func TestSearchHandler_Validation(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		name  string
		input SearchInput
		code  int
	}{
		{"no corpus", SearchInput{Terms: []string{"a"}}, ErrCodeInvalidParams},
		{"bad format", SearchInput{Text: "abc", Terms: []string{"ab"}, Format: "pdf"}, ErrCodeInvalidParams},
		{"missing file", SearchInput{Path: "/does/not/exist.txt", Terms: []string{"ab"}}, ErrCodeCorpusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := srv.mcpSearchHandler(context.Background(), nil, tt.input)
			require.Error(t, err)
			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, tt.code, mcpErr.Code)
		})
	}
}

func TestLanguagesHandler(t *testing.T) {
	srv := newTestServer(t, false)

	res, out, err := srv.mcpLanguagesHandler(context.Background(), nil, LanguagesInput{})

	require.NoError(t, err)
	require.NotNil(t, res)
	byName := map[string]LanguageOutput{}
	for _, l := range out.Languages {
		byName[l.Name] = l
	}
	require.Contains(t, byName, "hebrew")
	assert.True(t, byName["hebrew"].RightToLeft)
	assert.Equal(t, 22, byName["hebrew"].Letters)
	assert.Equal(t, 26, byName["latin"].Letters)
	assert.Equal(t, 24, byName["greek"].Letters)
}

func TestHistoryHandler_SaveAndFetch(t *testing.T) {
	// Given: a server with history and one saved search
	srv := newTestServer(t, true)
	_, out, err := srv.mcpSearchHandler(context.Background(), nil, SearchInput{
		Text:  "ABCDEFG",
		Terms: []string{"ace"},
		Save:  true,
		Name:  "first",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.HistoryID)

	// When: listing history
	_, list, err := srv.mcpHistoryHandler(context.Background(), nil, HistoryInput{})

	// Then: the search is listed
	require.NoError(t, err)
	require.Len(t, list.Searches, 1)
	assert.Equal(t, "first", list.Searches[0].Name)
	assert.Equal(t, 1, list.Searches[0].HitCount)
	assert.NotEmpty(t, list.Searches[0].CreatedAt)

	// When: fetching by id prefix
	_, one, err := srv.mcpHistoryHandler(context.Background(), nil, HistoryInput{ID: out.HistoryID[:8]})

	// Then: the same entry comes back
	require.NoError(t, err)
	require.Len(t, one.Searches, 1)
	assert.Equal(t, out.HistoryID, one.Searches[0].ID)
}

func TestHistoryHandler_Disabled(t *testing.T) {
	srv := newTestServer(t, false)

	_, _, err := srv.mcpHistoryHandler(context.Background(), nil, HistoryInput{})

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeHistoryUnavailable, mcpErr.Code)
}

func TestHistoryHandler_UnknownID(t *testing.T) {
	srv := newTestServer(t, true)

	_, _, err := srv.mcpHistoryHandler(context.Background(), nil, HistoryInput{ID: "nope"})

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestServe_UnknownTransport(t *testing.T) {
	srv := newTestServer(t, false)
	err := srv.Serve(context.Background(), "sse")
	assert.ErrorContains(t, err, "unknown transport")
}
