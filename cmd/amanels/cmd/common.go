package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Aman-CERP/amanels/internal/config"
	"github.com/Aman-CERP/amanels/internal/corpus"
	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/language"
	"github.com/Aman-CERP/amanels/internal/ui"
	"github.com/Aman-CERP/amanels/pkg/searcher"
)

// loadConfig loads configuration for the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return config.Load(cwd)
}

// openSearcher builds a searcher from cfg. The history store is opened only
// when withHistory is set and history is enabled. Call the returned cleanup
// when done.
func openSearcher(cfg *config.Config, withHistory bool) (*searcher.Searcher, func(), error) {
	logger := slog.Default()
	registry := language.Default()
	loader := corpus.NewLoader(registry,
		corpus.WithCacheSize(cfg.Cache.CorpusSize),
		corpus.WithMaxBytes(int64(cfg.Cache.MaxCorpusMB)<<20),
		corpus.WithLogger(logger),
	)

	opts := []searcher.Option{
		searcher.WithRegistry(registry),
		searcher.WithLoader(loader),
		searcher.WithLogger(logger),
	}

	cleanup := func() {}
	if withHistory && cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path,
			history.WithMaxEntries(cfg.History.MaxEntries),
			history.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, searcher.WithHistory(store))
		cleanup = func() { _ = store.Close() }
	}

	return searcher.New(opts...), cleanup, nil
}

// useColor resolves an auto/always/never setting against w.
func useColor(setting string, w io.Writer) bool {
	switch strings.ToLower(setting) {
	case "always":
		return true
	case "never":
		return false
	default:
		return ui.IsTTY(w) && !ui.DetectNoColor()
	}
}

func joinTerms(terms []string) string {
	return strings.Join(terms, ", ")
}
