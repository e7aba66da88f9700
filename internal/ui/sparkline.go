package ui

import "strings"

// SparklineChars are the eight bar heights, lowest first.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline is a ring buffer of samples drawn as block characters.
type Sparkline struct {
	samples []float64
	width   int
	head    int
	count   int
	max     float64
}

// NewSparkline creates a sparkline holding width samples.
func NewSparkline(width int) *Sparkline {
	if width <= 0 {
		width = 60
	}
	return &Sparkline{samples: make([]float64, width), width: width}
}

// Add appends a sample, overwriting the oldest when full.
func (s *Sparkline) Add(value float64) {
	s.samples[s.head] = value
	s.head = (s.head + 1) % s.width
	s.count++
	s.max = max(s.max, value)

	// Let the scale shrink once old peaks have rolled out.
	if s.count%s.width == 0 {
		s.recalculateMax()
	}
}

func (s *Sparkline) recalculateMax() {
	s.max = 1
	for _, v := range s.samples {
		s.max = max(s.max, v)
	}
}

// Render draws all samples, oldest first, padded with spaces.
func (s *Sparkline) Render() string {
	return s.RenderWithWidth(s.width)
}

// RenderWithWidth draws the newest width samples.
func (s *Sparkline) RenderWithWidth(width int) string {
	if width <= 0 || width > s.width {
		width = s.width
	}
	if s.count == 0 {
		return strings.Repeat(string(SparklineChars[0]), width)
	}
	if s.max <= 0 {
		s.recalculateMax()
	}

	held := min(s.count, s.width)
	shown := min(held, width)

	var sb strings.Builder
	sb.Grow(width * 3)
	for i := held - shown; i < held; i++ {
		// i-th oldest sample still in the buffer
		idx := (s.head - held + i + s.width) % s.width
		sb.WriteRune(s.bar(s.samples[idx]))
	}
	for range width - shown {
		sb.WriteRune(' ')
	}
	return sb.String()
}

func (s *Sparkline) bar(v float64) rune {
	idx := int(v / s.max * float64(len(SparklineChars)-1))
	idx = max(0, min(idx, len(SparklineChars)-1))
	return SparklineChars[idx]
}

// Clear resets the sparkline.
func (s *Sparkline) Clear() {
	clear(s.samples)
	s.head = 0
	s.count = 0
	s.max = 0
}

// Count returns the number of samples added.
func (s *Sparkline) Count() int {
	return s.count
}

// Max returns the current scale maximum.
func (s *Sparkline) Max() float64 {
	return s.max
}
