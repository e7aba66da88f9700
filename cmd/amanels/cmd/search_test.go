package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
)

func TestSearchCmd_RequiresPathAndTerm(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "search", "only-a-path.txt")

	require.Error(t, err)
}

func TestSearchCmd_RejectsBlankTerms(t *testing.T) {
	// Given: a corpus
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	// When: every term is blank
	_, _, err := run(t, "search", path, " ", "")

	// Then: the command fails before searching
	require.Error(t, err)
	assert.Equal(t, elserrors.ErrCodeTermsEmpty, elserrors.GetCode(err))
}

func TestSearchCmd_FindsHits(t *testing.T) {
	// Given: a Latin corpus
	isolate(t)
	path := writeCorpus(t, "sample.txt", "a-b, c d! e f g")

	// When: searching for "ace" with plain progress
	stdout, stderr, err := run(t, "search", path, "ace", "--plain")

	// Then: the summary, the 1-based hit sentence and the grid are printed
	require.NoError(t, err)
	assert.Contains(t, stdout, "Search Complete")
	assert.Contains(t, stdout, "Terms:     ACE, ECA")
	assert.Contains(t, stdout, "Term 'ACE' found at 1 skipping every 2 letter(s)")
	assert.Contains(t, stdout, "Saved as")
	assert.Contains(t, stderr, "[LOAD] Loading")
	assert.Contains(t, stderr, "6/6 positions, 1 hits")
}

func TestSearchCmd_RangeFlagsKeepAbsolutePositions(t *testing.T) {
	// Given: a corpus and a range that skips the first two letters
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFGH")

	// When: searching with --start
	stdout, _, err := run(t, "search", path, "ceg", "--start", "2", "--no-history", "--plain")

	// Then: the position still counts from the start of the text
	require.NoError(t, err)
	assert.Contains(t, stdout, "Term 'CEG' found at 3 skipping every 2 letter(s)")
	assert.NotContains(t, stdout, "Saved as")
}

func TestSearchCmd_NoHits(t *testing.T) {
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	stdout, _, err := run(t, "search", path, "xyz", "--no-history", "--plain")

	require.NoError(t, err)
	assert.Contains(t, stdout, "No hits.")
}

func TestSearchCmd_JSONFormat(t *testing.T) {
	// Given: a corpus
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	// When: asking for JSON
	stdout, _, err := run(t, "search", path, "ace", "--format", "json", "--no-history", "--plain")

	// Then: stdout is one JSON document carrying the grid
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "latin", doc["language"])
	assert.Equal(t, "complete", doc["status"])
	grid, ok := doc["grid"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ABCDEFG", grid["grid"])
}

func TestSearchCmd_OutputFile(t *testing.T) {
	// Given: a corpus and an output path
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")
	gridPath := filepath.Join(t.TempDir(), "grid.rtf")

	// When: rendering RTF to a file
	stdout, _, err := run(t, "search", path, "ace", "--format", "rtf", "--output", gridPath, "--no-history", "--plain")

	// Then: the file holds an RTF document and stdout points at it
	require.NoError(t, err)
	data, err := os.ReadFile(gridPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{\rtf1`))
	assert.Contains(t, stdout, "Grid written to "+gridPath)
}

func TestSearchCmd_InvalidFormat(t *testing.T) {
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	_, _, err := run(t, "search", path, "ace", "--format", "pdf")

	require.Error(t, err)
	assert.Equal(t, elserrors.ErrCodeUnknownFormat, elserrors.GetCode(err))
}

func TestSearchCmd_MissingCorpus(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "search", filepath.Join(t.TempDir(), "missing.txt"), "ace", "--plain")

	require.Error(t, err)
	assert.Equal(t, elserrors.ErrCodeFileNotFound, elserrors.GetCode(err))
}

func TestSearchCmd_InvalidSkip(t *testing.T) {
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	_, _, err := run(t, "search", path, "ace", "--from-skip", "0", "--no-history", "--plain")

	require.Error(t, err)
}

func TestSearchCmd_ConfigDefaultsApply(t *testing.T) {
	// Given: a project config that narrows the skips so ACE cannot match
	isolate(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".amanels.yaml"),
		[]byte("search:\n  from_skip: 3\n"), 0o644))
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	// When: searching without skip flags
	stdout, _, err := run(t, "search", path, "ace", "--no-history", "--plain")

	// Then: the config default is used
	require.NoError(t, err)
	assert.Contains(t, stdout, "No hits.")

	// When: the flag overrides it
	stdout, _, err = run(t, "search", path, "ace", "--from-skip", "2", "--no-history", "--plain")

	// Then: the hit is found
	require.NoError(t, err)
	assert.Contains(t, stdout, "found at 1")
}

func TestSearchCmd_Quiet(t *testing.T) {
	isolate(t)
	path := writeCorpus(t, "sample.txt", "ABCDEFG")

	stdout, _, err := run(t, "search", path, "ace", "--quiet", "--plain")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Term 'ACE' found at 1")
	assert.NotContains(t, stdout, "Search Complete")
	assert.NotContains(t, stdout, "Saved as")
}
