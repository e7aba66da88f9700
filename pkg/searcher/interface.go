package searcher

import (
	"github.com/Aman-CERP/amanels/internal/corpus"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

// ErrNoCorpus is returned when a request names neither a file nor inline text.
var ErrNoCorpus = elserrors.New(elserrors.ErrCodeInvalidInput, "a corpus path or text is required", nil)

// ErrNoHistory is returned by history operations when no store is configured.
var ErrNoHistory = elserrors.New(elserrors.ErrCodeHistoryStore, "search history is disabled", nil)

// Request describes one search.
type Request struct {
	// Path is the corpus file. It is ignored when Text is set.
	Path string

	// Text is an inline corpus.
	Text string

	// Name labels the search in history, and names inline text.
	Name string

	// Terms are the words to look for, as typed.
	Terms []string

	// Language is a language name or alias; empty or "auto" detects it.
	Language string

	Options sequence.Options

	// Format selects rendering. Empty skips it.
	Format render.Format
	Width  int
	Color  bool

	// Save stores the search in history when a store is configured.
	Save bool

	// Sink receives progress. May be nil.
	Sink sequence.ProgressSink
}

// Response is the outcome of a Request.
type Response struct {
	Corpus *corpus.Corpus
	Result *sequence.Result

	// Options are the options after defaulting, as stored in history.
	Options sequence.Options

	// Offset is where the searched range starts in the corpus.
	Offset int

	// Base is the corpus index of the grid's first letter. Add it to a
	// hit's Index for its position in the corpus.
	Base int

	// Rendered is the grid in the requested format.
	Rendered string

	// HistoryID is set when the search was saved.
	HistoryID string
}
