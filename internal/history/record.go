package history

import (
	"time"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// Record is one saved search.
type Record struct {
	ID         string           `json:"id"`
	Name       string           `json:"name,omitempty"`
	CorpusPath string           `json:"corpus_path"`
	Language   string           `json:"language"`
	Options    sequence.Options `json:"options"`
	Terms      []string         `json:"terms"`
	// Hits hold 0-based indices into the whole normalized corpus.
	Hits      []sequence.Hit  `json:"hits"`
	HitCount  int             `json:"hit_count"`
	Status    sequence.Status `json:"status"`
	Duration  time.Duration   `json:"duration"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewRecord builds a record from a finished search. terms are the terms as
// the user typed them, so a rerun normalizes them the same way. base is the
// corpus index of the result grid's first letter.
func NewRecord(corpusPath, language string, opts sequence.Options, terms []string, res *sequence.Result, base int) *Record {
	r := &Record{
		CorpusPath: corpusPath,
		Language:   language,
		Options:    opts,
		Terms:      terms,
	}
	if res != nil {
		r.Hits = sequence.Rebase(res.Hits, base)
		r.HitCount = len(res.Hits)
		r.Status = res.Status
		r.Duration = res.Stats.Duration
	}
	return r
}

// ShortID returns the first eight characters of the ID.
func (r *Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the number of records; zero means no limit.
	Limit int
	// Corpus keeps only records for this corpus path.
	Corpus string
}
