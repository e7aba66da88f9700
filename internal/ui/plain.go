package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// PlainRenderer prints one line per progress step, for CI and pipes.
type PlainRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	interval time.Duration
	phase    Phase
	lastStep int
	lastAt   time.Time
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{
		out:      cfg.Output,
		interval: cfg.Interval,
		phase:    -1,
		lastStep: -1,
	}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer. Search progress is printed at each
// 10% step, or every Interval when one is set.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Phase != r.phase {
		r.phase = event.Phase
		r.lastStep = -1
		r.lastAt = time.Time{}
	}

	if event.Total <= 0 {
		if event.Message != "" {
			_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Phase.Icon(), event.Message)
		}
		return
	}

	if !r.due(event) {
		return
	}
	_, _ = fmt.Fprintf(r.out, "[%s] %d/%d positions, %d hits\n",
		event.Phase.Icon(), event.Position, event.Total, event.Hits)
}

// due must be called with the lock held.
func (r *PlainRenderer) due(event ProgressEvent) bool {
	if r.interval > 0 {
		now := time.Now()
		if !r.lastAt.IsZero() && now.Sub(r.lastAt) < r.interval && event.Position < event.Total {
			return false
		}
		r.lastAt = now
		return true
	}

	step := event.Position * 10 / event.Total
	if step == r.lastStep {
		return false
	}
	r.lastStep = step
	return true
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	verb := "Complete"
	if s.Cancelled {
		verb = "Cancelled"
	}
	_, _ = fmt.Fprintf(r.out, "%s: %d hits for %s in %d positions (%s)\n",
		verb, s.Hits, strings.Join(s.Terms, ", "), s.Positions, s.Duration.Round(time.Millisecond))
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

var _ Renderer = (*PlainRenderer)(nil)
