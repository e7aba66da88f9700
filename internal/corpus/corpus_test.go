package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanels/internal/alphabet"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/language"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadDetectsLanguageFromFileName(t *testing.T) {
	// Given: a file named like the Hebrew Bible
	dir := t.TempDir()
	path := writeFile(t, dir, "Tanach.txt", "בְּרֵאשִׁית בָּרָא אֱלֹהִים")

	// When: loading with auto language
	c, err := NewLoader(nil).Load(path, language.Auto)

	// Then: the text is Hebrew letters only
	require.NoError(t, err)
	assert.Equal(t, alphabet.Hebrew, c.Language())
	assert.Equal(t, "בראשיתבראאלהימ", c.Text)
	assert.Equal(t, 14, c.Letters)
	assert.Len(t, c.Checksum, 64)
}

func TestLoader_LoadDetectsLanguageFromText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "john.txt", "Ἐν ἀρχῇ ἦν ὁ λόγος")

	c, err := NewLoader(nil).Load(path, "")

	require.NoError(t, err)
	assert.Equal(t, alphabet.Greek, c.Language())
	assert.Equal(t, "ΕΝΑΡΧΗΗΝΟΛΟΓΟΣ", c.Text)
}

func TestLoader_ExplicitLanguage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Tanach.txt", "In the beginning")

	c, err := NewLoader(nil).Load(path, "english")

	require.NoError(t, err)
	assert.Equal(t, alphabet.Latin, c.Language())
	assert.Equal(t, "INTHEBEGINNING", c.Text)
}

func TestLoader_CachesUntilFileChanges(t *testing.T) {
	// Given: a loaded corpus
	dir := t.TempDir()
	path := writeFile(t, dir, "text.txt", "abc")
	l := NewLoader(nil, WithCacheSize(2))

	first, err := l.Load(path, "latin")
	require.NoError(t, err)

	// When: loading again unchanged
	second, err := l.Load(path, "latin")
	require.NoError(t, err)

	// Then: the cached corpus is returned
	assert.Same(t, first, second)
	assert.Equal(t, 1, l.Len())

	// When: the file changes
	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := l.Load(path, "latin")
	require.NoError(t, err)

	// Then: it is reloaded
	assert.NotSame(t, first, third)
	assert.Equal(t, "ABCDEF", third.Text)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(nil).Load(filepath.Join(dir, "nope.txt"), "latin")
		assert.Equal(t, elserrors.ErrCodeFileNotFound, elserrors.GetCode(err))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := NewLoader(nil).Load(dir, "latin")
		assert.Equal(t, elserrors.ErrCodeInvalidPath, elserrors.GetCode(err))
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, dir, "big.txt", strings.Repeat("a", 100))
		_, err := NewLoader(nil, WithMaxBytes(10)).Load(path, "latin")
		assert.Equal(t, elserrors.ErrCodeFileTooLarge, elserrors.GetCode(err))
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		path := writeFile(t, dir, "bad.txt", "\xff\xfe\xfd")
		_, err := NewLoader(nil).Load(path, "latin")
		assert.Equal(t, elserrors.ErrCodeInvalidInput, elserrors.GetCode(err))
	})

	t.Run("unknown language", func(t *testing.T) {
		path := writeFile(t, dir, "ok.txt", "abc")
		_, err := NewLoader(nil).Load(path, "klingon")
		assert.Equal(t, elserrors.ErrCodeUnknownLanguage, elserrors.GetCode(err))
	})
}

func TestFromString(t *testing.T) {
	p, err := language.Default().Lookup("latin")
	require.NoError(t, err)

	c := FromString("inline", "Hello, World", p)

	assert.Equal(t, "HELLOWORLD", c.Text)
	assert.Equal(t, 10, c.Letters)
	assert.Equal(t, int64(12), c.RawBytes)
}

func TestSample_CutsOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("א", sampleBytes)
	s := sample(text)
	assert.LessOrEqual(t, len(s), sampleBytes)
	assert.True(t, strings.HasSuffix(s, "א"))
}
