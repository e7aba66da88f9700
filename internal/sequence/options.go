package sequence

import (
	"fmt"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
)

// Unset marks an optional bound or threshold as not configured.
const Unset = -1

// DefaultFromSkip is the smallest skip searched when none is configured.
const DefaultFromSkip = 2

// Options bounds a search.
type Options struct {
	// Start is the first index of the active range. Values <= 0 or past Stop mean 0.
	Start int `json:"start" yaml:"start"`

	// Stop is the last index of the active range, inclusive. Unset or past the
	// end of the text means the last letter.
	Stop int `json:"stop" yaml:"stop"`

	// FromSkip is the smallest skip searched. Must be at least 1.
	FromSkip int `json:"from_skip" yaml:"from_skip"`

	// ToSkip is the exclusive upper skip bound. Unset means range length - 1.
	ToSkip int `json:"to_skip" yaml:"to_skip"`

	// Proximity enables clustering when >= 0.
	Proximity int `json:"proximity" yaml:"proximity"`

	// Workers caps the skip fan-out per position. 0 means one worker per skip.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultOptions searches the whole text from skip 2 upward with proximity off.
func DefaultOptions() Options {
	return Options{
		Start:     0,
		Stop:      Unset,
		FromSkip:  DefaultFromSkip,
		ToSkip:    Unset,
		Proximity: Unset,
	}
}

// ProximityEnabled reports whether proximity filtering applies.
func (o Options) ProximityEnabled() bool {
	return o.Proximity >= 0
}

var (
	// ErrInvalidRange matches any error about an empty or inverted range.
	ErrInvalidRange = elserrors.New(elserrors.ErrCodeInvalidRange, "invalid search range", nil)

	// ErrInvalidSkip matches any error about a bad skip interval.
	ErrInvalidSkip = elserrors.New(elserrors.ErrCodeInvalidSkip, "invalid skip interval", nil)
)

// window is Options resolved against a concrete text length.
type window struct {
	start     int
	stop      int
	fromSkip  int
	toSkip    int
	proximity int
	workers   int
}

func (w window) length() int {
	return w.stop - w.start + 1
}

// resolve applies the defaulting rules for a text of n letters.
func (o Options) resolve(n int) (window, error) {
	if n == 0 {
		return window{}, elserrors.New(elserrors.ErrCodeInvalidRange, "text has no letters in the selected alphabet", nil).
			WithSuggestion("Check the corpus language and encoding")
	}
	if o.FromSkip < 1 {
		return window{}, elserrors.New(elserrors.ErrCodeInvalidSkip,
			fmt.Sprintf("from_skip must be at least 1, got %d", o.FromSkip), nil)
	}
	if o.Workers < 0 {
		return window{}, elserrors.New(elserrors.ErrCodeInvalidInput,
			fmt.Sprintf("workers must not be negative, got %d", o.Workers), nil)
	}

	w := window{
		start:     o.Start,
		stop:      o.Stop,
		fromSkip:  o.FromSkip,
		toSkip:    o.ToSkip,
		proximity: o.Proximity,
		workers:   o.Workers,
	}

	if w.stop < 0 || w.stop >= n {
		w.stop = n - 1
	}
	if w.start <= 0 || w.start > w.stop {
		w.start = 0
	}
	if w.toSkip < 0 {
		w.toSkip = w.length() - 1
	}
	if w.proximity < 0 {
		w.proximity = Unset
	}

	return w, nil
}

// skipBound returns the exclusive skip limit actually scanned. Skips at or
// beyond the range length only ever see the letter at the scan position, so
// anything past the first of them adds no new index.
func (w window) skipBound() int {
	bound := w.toSkip
	if limit := max(w.length(), w.fromSkip+1); bound > limit {
		bound = limit
	}
	return bound
}
