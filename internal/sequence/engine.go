package sequence

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Normalizer maps raw input onto the engine's alphabet.
type Normalizer interface {
	Normalize(raw string) string
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(string) string

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(raw string) string {
	return f(raw)
}

// Status tells a finished search apart from a cancelled one.
type Status string

const (
	// StatusComplete means every position in the range was scanned.
	StatusComplete Status = "complete"
	// StatusCancelled means the search stopped early; hits found so far are kept.
	StatusCancelled Status = "cancelled"
)

// Stats describes the work a search did.
type Stats struct {
	Positions  int           `json:"positions"`
	Scanned    int           `json:"scanned"`
	Candidates int           `json:"candidates"`
	Claimed    int           `json:"claimed"`
	Duration   time.Duration `json:"duration"`
}

// Result is the outcome of one search.
type Result struct {
	// Terms are the effective terms searched: normalized terms plus reversals.
	Terms []string `json:"terms"`

	// Hits are sorted ascending by (Index, Skip); Index is relative to Grid.
	Hits []Hit `json:"hits"`

	Grid   Grid   `json:"grid"`
	Status Status `json:"status"`
	Stats  Stats  `json:"stats"`
}

// Cancelled reports whether the search stopped before the end of the range.
func (r *Result) Cancelled() bool {
	return r.Status == StatusCancelled
}

// Engine searches one range of normalized text. An Engine is safe for
// concurrent Search calls; each call has its own claimed-index set.
type Engine struct {
	text       []rune
	window     window
	normalizer Normalizer
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNormalizer sets the normalizer applied to search terms. It should be
// the one that produced the engine's text.
func WithNormalizer(n Normalizer) EngineOption {
	return func(e *Engine) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// WithLogger sets the logger for search lifecycle events.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine over the normalized text restricted to opts' range.
// It fails with ErrInvalidRange when the text is empty and with
// ErrInvalidSkip when FromSkip is below 1.
func New(text string, opts Options, engineOpts ...EngineOption) (*Engine, error) {
	runes := []rune(text)
	w, err := opts.resolve(len(runes))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		text:       runes[w.start : w.stop+1],
		window:     w,
		normalizer: NormalizerFunc(strings.ToUpper),
		logger:     slog.Default(),
	}
	for _, opt := range engineOpts {
		opt(e)
	}
	return e, nil
}

// Text returns the active range.
func (e *Engine) Text() string {
	return string(e.text)
}

// Len returns the number of letters in the active range.
func (e *Engine) Len() int {
	return len(e.text)
}

// Offset returns where the active range starts in the full normalized text.
func (e *Engine) Offset() int {
	return e.window.start
}

// Options returns the options after defaulting.
func (e *Engine) Options() Options {
	return Options{
		Start:     e.window.start,
		Stop:      e.window.stop,
		FromSkip:  e.window.fromSkip,
		ToSkip:    e.window.toSkip,
		Proximity: e.window.proximity,
		Workers:   e.window.workers,
	}
}

// EffectiveTerms normalizes terms and adds their reversals. Empty terms are
// dropped and duplicates removed; order follows first appearance.
func (e *Engine) EffectiveTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms)*2)
	out := make([]string, 0, len(terms)*2)
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, raw := range terms {
		t := e.normalizer.Normalize(raw)
		add(t)
		add(reverse(t))
	}
	return out
}

// Search scans the range for terms. Cancellation through ctx or sink stops
// the scan at the next position boundary and returns the hits found so far
// with StatusCancelled; it is not an error. An empty term list or an empty
// skip range returns an empty, complete result without scanning.
func (e *Engine) Search(ctx context.Context, terms []string, sink ProgressSink) (*Result, error) {
	started := time.Now()
	effective := e.EffectiveTerms(terms)

	res := &Result{
		Terms:  effective,
		Hits:   []Hit{},
		Status: StatusComplete,
	}

	bound := e.window.skipBound()
	if len(effective) == 0 || bound <= e.window.fromSkip {
		e.logger.Debug("search_skipped",
			slog.Int("terms", len(effective)),
			slog.Int("from_skip", e.window.fromSkip),
			slog.Int("to_skip", e.window.toSkip))
		res.Stats.Duration = time.Since(started)
		return res, nil
	}

	e.logger.Info("search_started",
		slog.Int("letters", len(e.text)),
		slog.Int("offset", e.window.start),
		slog.Int("from_skip", e.window.fromSkip),
		slog.Int("to_skip", e.window.toSkip),
		slog.Int("proximity", e.window.proximity),
		slog.Any("terms", effective))

	s := newScanner(e.text, effective, e.window.fromSkip, bound, e.window.workers)
	total := len(e.text) - 1
	res.Stats.Positions = total

	for pos := 0; pos < total; pos++ {
		p := Progress{Position: pos, Total: total, Hits: s.claimedCount(), Elapsed: time.Since(started)}
		if ctx.Err() != nil || (sink != nil && sink.OnProgress(p)) {
			res.Status = StatusCancelled
			break
		}
		s.scanPosition(pos)
		res.Stats.Scanned++
	}

	if res.Status == StatusComplete && sink != nil {
		sink.OnProgress(Progress{Position: total, Total: total, Hits: s.claimedCount(), Elapsed: time.Since(started)})
	}

	hits := s.hits
	res.Stats.Candidates = s.candidates
	res.Stats.Claimed = len(hits)

	if e.window.proximity >= 0 {
		hits = FilterProximity(hits, e.window.proximity)
	}
	res.Grid = buildGrid(e.text, hits)
	if hits != nil {
		res.Hits = hits
	}
	res.Stats.Duration = time.Since(started)

	e.logger.Info("search_"+string(res.Status),
		slog.Int("hits", len(res.Hits)),
		slog.Int("claimed", res.Stats.Claimed),
		slog.Int("scanned", res.Stats.Scanned),
		slog.Int("positions", total),
		slog.Duration("duration", res.Stats.Duration))

	return res, nil
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
