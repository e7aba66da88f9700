// Package searcher is the entry point for running an ELS search end to end.
//
// A [Searcher] ties the pieces together for callers such as the CLI and the
// MCP server:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                          Searcher                            │
//	│  ┌──────────────┐  ┌────────────────┐  ┌─────────────────┐  │
//	│  │ corpus.Loader│─▶│ sequence.Engine│─▶│ render.Renderer │  │
//	│  │ (LRU cache)  │  │ (skip fan-out) │  │ text / rtf/json │  │
//	│  └──────┬───────┘  └───────┬────────┘  └─────────────────┘  │
//	│         │ language.Registry │                                │
//	│         ▼                   ▼                                │
//	│   normalizer profile   history.Store (optional, SQLite)      │
//	└──────────────────────────────────────────────────────────────┘
//
// # Usage
//
//	s := searcher.New(
//	    searcher.WithHistory(store),
//	)
//	resp, err := s.Search(ctx, searcher.Request{
//	    Path:    "genesis.txt",
//	    Terms:   []string{"תורה"},
//	    Options: sequence.DefaultOptions(),
//	    Format:  render.FormatText,
//	    Save:    true,
//	})
//
// # Thread Safety
//
// A Searcher is safe for concurrent use.
package searcher
