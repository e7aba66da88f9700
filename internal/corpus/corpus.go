// Package corpus loads text files and turns them into normalized letter streams.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/amanels/internal/alphabet"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/language"
)

const (
	// DefaultCacheSize is the number of normalized corpora kept in memory.
	DefaultCacheSize = 8

	// DefaultMaxBytes caps the size of a corpus file.
	DefaultMaxBytes = 64 << 20

	// sampleBytes is how much raw text language detection looks at.
	sampleBytes = 64 << 10
)

// Corpus is a normalized text ready for searching.
type Corpus struct {
	Path     string
	Profile  *language.Profile
	Text     string
	Letters  int
	RawBytes int64
	ModTime  time.Time

	// Checksum is the SHA-256 of the normalized text.
	Checksum string
}

// Language returns the corpus alphabet.
func (c *Corpus) Language() alphabet.Language {
	return c.Profile.Language
}

// Loader reads corpus files and caches their normalized form, keyed by path,
// modification time and language.
type Loader struct {
	registry *language.Registry
	cache    *lru.Cache[string, *Corpus]
	maxBytes int64
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCacheSize sets how many corpora are cached. 0 or less uses the default.
func WithCacheSize(n int) LoaderOption {
	return func(l *Loader) {
		if n <= 0 {
			n = DefaultCacheSize
		}
		l.cache, _ = lru.New[string, *Corpus](n)
	}
}

// WithMaxBytes caps the accepted file size.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader resolving languages through registry.
func NewLoader(registry *language.Registry, opts ...LoaderOption) *Loader {
	if registry == nil {
		registry = language.Default()
	}
	cache, _ := lru.New[string, *Corpus](DefaultCacheSize)
	l := &Loader{
		registry: registry,
		cache:    cache,
		maxBytes: DefaultMaxBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path and normalizes it. lang may be a language name, an alias,
// "auto" or "".
func (l *Loader) Load(path, lang string) (*Corpus, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, elserrors.New(elserrors.ErrCodeInvalidPath, "invalid corpus path: "+path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, statError(abs, err)
	}
	if info.IsDir() {
		return nil, elserrors.New(elserrors.ErrCodeInvalidPath, "corpus path is a directory: "+abs, nil)
	}
	if info.Size() > l.maxBytes {
		return nil, elserrors.New(elserrors.ErrCodeFileTooLarge,
			fmt.Sprintf("corpus is %d bytes, limit is %d", info.Size(), l.maxBytes), nil).
			WithDetail("path", abs)
	}

	key := cacheKey(abs, info.ModTime(), lang)
	if c, ok := l.cache.Get(key); ok {
		l.logger.Debug("corpus_cache_hit", slog.String("path", abs))
		return c, nil
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, statError(abs, err)
	}
	if !utf8.Valid(raw) {
		return nil, elserrors.New(elserrors.ErrCodeInvalidInput, "corpus is not valid UTF-8: "+abs, nil).
			WithSuggestion("Convert the file to UTF-8")
	}

	text := string(raw)
	profile, err := l.registry.Resolve(lang, abs, sample(text))
	if err != nil {
		return nil, err
	}

	c := build(abs, text, profile)
	c.RawBytes = info.Size()
	c.ModTime = info.ModTime()
	l.cache.Add(key, c)

	l.logger.Info("corpus_loaded",
		slog.String("path", abs),
		slog.String("language", string(profile.Language)),
		slog.Int64("bytes", c.RawBytes),
		slog.Int("letters", c.Letters))

	return c, nil
}

// FromString normalizes in-memory text with an already resolved profile.
func FromString(name, raw string, profile *language.Profile) *Corpus {
	c := build(name, raw, profile)
	c.RawBytes = int64(len(raw))
	return c
}

// Len returns the number of cached corpora.
func (l *Loader) Len() int {
	return l.cache.Len()
}

func build(path, raw string, profile *language.Profile) *Corpus {
	text := profile.Normalize(raw)
	sum := sha256.Sum256([]byte(text))
	return &Corpus{
		Path:     path,
		Profile:  profile,
		Text:     text,
		Letters:  utf8.RuneCountInString(text),
		Checksum: hex.EncodeToString(sum[:]),
	}
}

func cacheKey(path string, mod time.Time, lang string) string {
	return path + "\x00" + mod.UTC().Format(time.RFC3339Nano) + "\x00" + strings.ToLower(lang)
}

func sample(text string) string {
	if len(text) <= sampleBytes {
		return text
	}
	cut := sampleBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func statError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return elserrors.New(elserrors.ErrCodeFileNotFound, "corpus not found: "+path, err).
			WithSuggestion("Check the path to the text file")
	case os.IsPermission(err):
		return elserrors.New(elserrors.ErrCodeFilePermission, "cannot read corpus: "+path, err)
	default:
		return elserrors.IOError("cannot read corpus: "+path, err)
	}
}
