// Package ui displays search progress in the terminal.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// Phase is a step of one CLI search.
type Phase int

const (
	// PhaseLoading reads and normalizes the corpus.
	PhaseLoading Phase = iota
	// PhaseSearching scans positions.
	PhaseSearching
	// PhaseRendering writes the grid.
	PhaseRendering
	// PhaseComplete means the search has finished or was cancelled.
	PhaseComplete
)

// String returns the human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading"
	case PhaseSearching:
		return "Searching"
	case PhaseRendering:
		return "Rendering"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the short tag used by plain output.
func (p Phase) Icon() string {
	switch p {
	case PhaseLoading:
		return "LOAD"
	case PhaseSearching:
		return "SCAN"
	case PhaseRendering:
		return "RENDER"
	case PhaseComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent is one progress update.
type ProgressEvent struct {
	Phase    Phase
	Position int
	Total    int
	Hits     int
	Message  string
}

// Summary describes a finished search.
type Summary struct {
	Corpus    string
	Language  string
	Letters   int
	Terms     []string
	Hits      int
	Positions int
	Duration  time.Duration
	Cancelled bool
}

// Renderer displays search progress.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates the display.
	UpdateProgress(event ProgressEvent)

	// Complete shows the final summary.
	Complete(summary Summary)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures the UI renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	// Corpus is shown in the TUI header.
	Corpus string
	// OnCancel is called when the user asks to stop (q or ctrl+c in the TUI).
	OnCancel func()
	// Interval throttles plain output; zero prints every 10%.
	Interval time.Duration
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithCorpus sets the corpus name shown in the header.
func WithCorpus(name string) ConfigOption {
	return func(c *Config) {
		c.Corpus = name
	}
}

// WithCancel sets the function called when the user cancels.
func WithCancel(cancel context.CancelFunc) ConfigOption {
	return func(c *Config) {
		c.OnCancel = cancel
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer returns a TUI renderer for interactive terminals and a plain
// renderer for CI, pipes, or when plain output is forced.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// SinkInterval is the minimum gap between progress updates forwarded by
// SearchSink. The engine reports every position, which would flood the TUI
// on long texts.
const SinkInterval = 50 * time.Millisecond

// SearchSink adapts a Renderer to the engine's progress callback. Updates are
// throttled to one per SinkInterval; the final report always goes through.
// It never cancels the search; cancellation goes through the context.
func SearchSink(r Renderer) sequence.ProgressSink {
	limiter := rate.NewLimiter(rate.Every(SinkInterval), 1)
	return sequence.ProgressFunc(func(p sequence.Progress) bool {
		if p.Position < p.Total && !limiter.Allow() {
			return false
		}
		r.UpdateProgress(ProgressEvent{
			Phase:    PhaseSearching,
			Position: p.Position,
			Total:    p.Total,
			Hits:     p.Hits,
		})
		return false
	})
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
