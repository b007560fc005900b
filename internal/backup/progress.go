// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"fmt"
	"sync"
	"time"
)

// DefaultProgressMax is the upper bound of tracked progress.
const DefaultProgressMax = 100

// ETA strings with special meaning
const (
	ETAUnknown    = "unknown"
	ETAAlmostDone = "almost done"
)

// ProgressUpdate is what a ProgressTracker emits to its sink.
type ProgressUpdate struct {
	Type    EventType
	Current int
	Max     int
	Status  string
	ETA     string
}

// ProgressTracker keeps bounded progress for one run at a time and emits
// every change to a sink. After a terminal call (Complete, Fail, Cancel)
// the tracker ignores everything but Start.
//
// The sink runs with the tracker's lock held and must not call back into
// the tracker.
type ProgressTracker struct {
	mu        sync.Mutex
	sink      func(ProgressUpdate)
	now       func() time.Time
	current   int
	max       int
	status    string
	startedAt time.Time
	running   bool
}

// NewProgressTracker creates an idle tracker. sink may be nil.
func NewProgressTracker(sink func(ProgressUpdate)) *ProgressTracker {
	return &ProgressTracker{
		sink: sink,
		now:  time.Now,
		max:  DefaultProgressMax,
	}
}

// Start resets progress, records the start time and emits the initial update.
func (p *ProgressTracker) Start(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = 0
	p.max = DefaultProgressMax
	p.status = status
	p.startedAt = p.now()
	p.running = true
	p.emitLocked(EventProgress)
}

// Update sets absolute progress, clamped to [0, max].
func (p *ProgressTracker) Update(progress int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.current = p.clamp(progress)
	if status != "" {
		p.status = status
	}
	p.emitLocked(EventProgress)
}

// Increment adds delta to the current progress, clamped to [0, max].
func (p *ProgressTracker) Increment(delta int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.current = p.clamp(p.current + delta)
	if status != "" {
		p.status = status
	}
	p.emitLocked(EventProgress)
}

// Complete ends the run. A successful completion forces progress to max;
// an unsuccessful one is reported as a failure.
func (p *ProgressTracker) Complete(success bool, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.status = message
	if !success {
		p.emitLocked(EventFailed)
		return
	}
	p.current = p.max
	p.emitLocked(EventCompleted)
}

// Fail ends the run with a failure.
func (p *ProgressTracker) Fail(message string) {
	p.Complete(false, message)
}

// Cancel ends the run as cancelled.
func (p *ProgressTracker) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.status = "Operation cancelled"
	p.emitLocked(EventCancelled)
}

// ETA estimates the remaining time by linear extrapolation.
func (p *ProgressTracker) ETA() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked()
}

// Snapshot returns the current state without emitting.
func (p *ProgressTracker) Snapshot() ProgressUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateLocked(EventProgress)
}

// Running reports whether a run is in progress.
func (p *ProgressTracker) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ProgressTracker) clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > p.max:
		return p.max
	default:
		return v
	}
}

func (p *ProgressTracker) etaLocked() string {
	if p.current <= 0 || p.startedAt.IsZero() {
		return ETAUnknown
	}
	elapsed := p.now().Sub(p.startedAt)
	remaining := time.Duration(float64(elapsed)*float64(p.max)/float64(p.current)) - elapsed
	remaining = remaining.Round(time.Second)
	if remaining <= 0 {
		return ETAAlmostDone
	}
	return formatETA(remaining)
}

func (p *ProgressTracker) updateLocked(t EventType) ProgressUpdate {
	u := ProgressUpdate{
		Type:    t,
		Current: p.current,
		Max:     p.max,
		Status:  p.status,
	}
	if !t.Terminal() {
		u.ETA = p.etaLocked()
	}
	return u
}

func (p *ProgressTracker) emitLocked(t EventType) {
	if p.sink != nil {
		p.sink(p.updateLocked(t))
	}
}

// formatETA renders "45s", "3m 20s" or "1h 5m".
func formatETA(d time.Duration) string {
	secs := int(d / time.Second)
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}
