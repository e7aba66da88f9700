package ui

import (
	"sync"
	"time"
)

// speedWindow is how often the scan rate is sampled.
const speedWindow = 250 * time.Millisecond

// etaSmoothingFactor weights a new ETA against the previous one.
const etaSmoothingFactor = 0.3

// ProgressTracker holds search progress. It is safe for concurrent use.
type ProgressTracker struct {
	mu         sync.RWMutex
	phase      Phase
	position   int
	total      int
	hits       int
	startTime  time.Time
	phaseStart time.Time

	lastETA time.Duration

	lastPosition  int
	lastSpeedCalc time.Time
	currentSpeed  float64
	avgSpeed      float64
	peakSpeed     float64
	speedSamples  int
	sparkline     *Sparkline
}

// SpeedStats holds scan rates in positions per second.
type SpeedStats struct {
	Current float64
	Avg     float64
	Peak    float64
}

// ProgressStats is a snapshot of the tracker.
type ProgressStats struct {
	Phase    Phase
	Position int
	Total    int
	Hits     int
	Progress float64
	ETA      time.Duration
	Speed    SpeedStats
}

// NewProgressTracker creates a tracker in the loading phase.
func NewProgressTracker() *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{
		phase:         PhaseLoading,
		startTime:     now,
		phaseStart:    now,
		lastSpeedCalc: now,
		sparkline:     NewSparkline(60),
	}
}

// SetPhase moves to a new phase and resets the rate counters.
func (p *ProgressTracker) SetPhase(phase Phase, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.phase = phase
	p.total = total
	p.position = 0
	p.phaseStart = now
	p.lastETA = 0

	p.lastPosition = 0
	p.lastSpeedCalc = now
	p.currentSpeed = 0
	p.avgSpeed = 0
	p.peakSpeed = 0
	p.speedSamples = 0
	p.sparkline.Clear()
}

// Phase returns the current phase.
func (p *ProgressTracker) Phase() Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.phase
}

// Update records the current position and hit count.
func (p *ProgressTracker) Update(position, hits int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = position
	p.hits = hits

	now := time.Now()
	elapsed := now.Sub(p.lastSpeedCalc)
	if elapsed < speedWindow {
		return
	}
	if delta := position - p.lastPosition; delta > 0 {
		speed := float64(delta) / elapsed.Seconds()
		p.currentSpeed = speed
		p.speedSamples++
		if p.speedSamples == 1 {
			p.avgSpeed = speed
		} else {
			p.avgSpeed = 0.2*speed + 0.8*p.avgSpeed
		}
		p.peakSpeed = max(p.peakSpeed, speed)
		p.sparkline.Add(speed)
	}
	p.lastPosition = position
	p.lastSpeedCalc = now
}

// Progress returns completion in [0, 1].
func (p *ProgressTracker) Progress() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fraction()
}

// ETA estimates the remaining time of the current phase.
func (p *ProgressTracker) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calculateETA()
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.startTime)
}

// Stats returns a snapshot. It takes the write lock because the ETA is smoothed.
func (p *ProgressTracker) Stats() ProgressStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return ProgressStats{
		Phase:    p.phase,
		Position: p.position,
		Total:    p.total,
		Hits:     p.hits,
		Progress: p.fraction(),
		ETA:      p.calculateETA(),
		Speed: SpeedStats{
			Current: p.currentSpeed,
			Avg:     p.avgSpeed,
			Peak:    p.peakSpeed,
		},
	}
}

// SpeedStats returns the current scan rates.
func (p *ProgressTracker) SpeedStats() SpeedStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return SpeedStats{Current: p.currentSpeed, Avg: p.avgSpeed, Peak: p.peakSpeed}
}

// RenderSparkline returns the scan-rate sparkline.
func (p *ProgressTracker) RenderSparkline(width int) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if width <= 0 {
		return p.sparkline.Render()
	}
	return p.sparkline.RenderWithWidth(width)
}

func (p *ProgressTracker) fraction() float64 {
	if p.total == 0 {
		return 0
	}
	return min(float64(p.position)/float64(p.total), 1)
}

// calculateETA must be called with the lock held.
func (p *ProgressTracker) calculateETA() time.Duration {
	progress := p.fraction()
	if progress <= 0 || progress >= 1 {
		return 0
	}

	elapsed := time.Since(p.phaseStart)
	raw := time.Duration(float64(elapsed)/progress) - elapsed
	if raw < 0 {
		return 0
	}
	if p.lastETA == 0 {
		p.lastETA = raw
		return raw
	}

	smoothed := time.Duration(etaSmoothingFactor*float64(raw) + (1-etaSmoothingFactor)*float64(p.lastETA))
	p.lastETA = smoothed
	return smoothed
}
