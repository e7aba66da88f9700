package searcher

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/Aman-CERP/amanels/internal/corpus"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/language"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

// Searcher runs requests against cached corpora.
type Searcher struct {
	registry *language.Registry
	loader   *corpus.Loader
	history  *history.Store
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithRegistry sets the language registry.
func WithRegistry(r *language.Registry) Option {
	return func(s *Searcher) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLoader sets the corpus loader.
func WithLoader(l *corpus.Loader) Option {
	return func(s *Searcher) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithHistory enables saving searches.
func WithHistory(h *history.Store) Option {
	return func(s *Searcher) {
		s.history = h
	}
}

// WithLogger sets the logger passed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Searcher with the default registry and loader unless
// options replace them.
func New(opts ...Option) *Searcher {
	s := &Searcher{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = language.Default()
	}
	if s.loader == nil {
		s.loader = corpus.NewLoader(s.registry, corpus.WithLogger(s.logger))
	}
	return s
}

// Registry returns the language registry.
func (s *Searcher) Registry() *language.Registry {
	return s.registry
}

// History returns the history store, or nil when history is disabled.
func (s *Searcher) History() *history.Store {
	return s.history
}

// Search loads the corpus, runs the engine, and optionally renders and saves
// the result. A cancelled search is not an error; check Result.Status. Blank
// terms are dropped, and a request without terms completes with no hits.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	terms := cleanTerms(req.Terms)

	c, err := s.load(req)
	if err != nil {
		return nil, err
	}

	engine, err := sequence.New(c.Text, req.Options,
		sequence.WithNormalizer(c.Profile),
		sequence.WithLogger(s.logger.With(slog.String("corpus", c.Path))))
	if err != nil {
		return nil, err
	}

	res, err := engine.Search(ctx, terms, req.Sink)
	if err != nil {
		return nil, elserrors.New(elserrors.ErrCodeSearchFailed, "search failed", err)
	}

	resp := &Response{
		Corpus:  c,
		Result:  res,
		Options: engine.Options(),
		Offset:  engine.Offset(),
		Base:    engine.Offset() + res.Grid.Offset,
	}

	if req.Format != "" {
		if resp.Rendered, err = RenderResult(c.Profile, res, req.Format, req.Width, req.Color); err != nil {
			return nil, err
		}
	}

	if req.Save && s.history != nil {
		rec := history.NewRecord(c.Path, string(c.Profile.Language), resp.Options, terms, res, resp.Base)
		rec.Name = req.Name
		// The search itself succeeded; a history failure only loses the record.
		if id, err := s.history.Save(ctx, rec); err != nil {
			s.logger.Warn("history_save_failed", elserrors.FormatForLog(err)...)
		} else {
			resp.HistoryID = id
		}
	}

	return resp, nil
}

// Rerun repeats a saved search with its stored corpus, language and options.
func (s *Searcher) Rerun(ctx context.Context, id string, sink sequence.ProgressSink) (*Response, *history.Record, error) {
	if s.history == nil {
		return nil, nil, ErrNoHistory
	}
	rec, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	resp, err := s.Search(ctx, Request{
		Path:     rec.CorpusPath,
		Name:     rec.Name,
		Terms:    rec.Terms,
		Language: rec.Language,
		Options:  rec.Options,
		Sink:     sink,
	})
	return resp, rec, err
}

// RenderResult draws res with profile's style.
func RenderResult(profile *language.Profile, res *sequence.Result, format render.Format, width int, color bool) (string, error) {
	r, err := profile.Renderer(format, width, color)
	if err != nil {
		return "", elserrors.New(elserrors.ErrCodeUnknownFormat, err.Error(), err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, res.Grid.Text, res.Hits); err != nil {
		return "", elserrors.New(elserrors.ErrCodeRenderFailed, "failed to render grid", err)
	}
	return buf.String(), nil
}

func (s *Searcher) load(req Request) (*corpus.Corpus, error) {
	if req.Text != "" {
		name := req.Name
		if name == "" {
			name = "inline"
		}
		profile, err := s.registry.Resolve(req.Language, name, req.Text)
		if err != nil {
			return nil, err
		}
		return corpus.FromString(name, req.Text, profile), nil
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, ErrNoCorpus
	}
	return s.loader.Load(req.Path, req.Language)
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
