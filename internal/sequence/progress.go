package sequence

import "time"

// Progress is reported once per scanned position.
type Progress struct {
	// Position is the scan position about to be searched, relative to the range.
	Position int

	// Total is the number of positions the search will visit.
	Total int

	// Hits is the number of indices claimed so far.
	Hits int

	// Elapsed is the time since the search started.
	Elapsed time.Duration
}

// Fraction returns completion in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Position) / float64(p.Total)
}

// ProgressSink receives progress and may ask the search to stop.
// Returning true cancels the search at the current position boundary.
type ProgressSink interface {
	OnProgress(p Progress) (cancel bool)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(p Progress) bool

// OnProgress implements ProgressSink.
func (f ProgressFunc) OnProgress(p Progress) bool {
	return f(p)
}

// ChannelSink forwards progress to a bounded channel without blocking the
// search. Updates are dropped while the consumer is behind.
type ChannelSink struct {
	C chan Progress
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{C: make(chan Progress, buffer)}
}

// OnProgress implements ProgressSink. It never cancels.
func (s *ChannelSink) OnProgress(p Progress) bool {
	select {
	case s.C <- p:
	default:
	}
	return false
}

// Close closes the channel. Call it after Search returns.
func (s *ChannelSink) Close() {
	close(s.C)
}
