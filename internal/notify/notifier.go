// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package notify

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/metrics"
)

// Broadcaster delivers an event to users.
type Broadcaster interface {
	BroadcastOperationEvent(e backup.Event)
}

// BroadcasterFunc adapts a function to Broadcaster.
type BroadcasterFunc func(e backup.Event)

// BroadcastOperationEvent calls f(e).
func (f BroadcasterFunc) BroadcastOperationEvent(e backup.Event) { f(e) }

// Config controls progress throttling.
type Config struct {
	// ProgressInterval is the minimum spacing between forwarded progress
	// events. Zero disables throttling.
	ProgressInterval time.Duration

	// ProgressBurst is the number of progress events allowed back to back.
	ProgressBurst int
}

// Notifier is a backup.Sink.
type Notifier struct {
	limiter *rate.Limiter

	mu           sync.RWMutex
	broadcasters []Broadcaster
}

// New creates a notifier forwarding to broadcasters.
func New(cfg Config, broadcasters ...Broadcaster) *Notifier {
	limit := rate.Inf
	if cfg.ProgressInterval > 0 {
		limit = rate.Every(cfg.ProgressInterval)
	}
	burst := cfg.ProgressBurst
	if burst < 1 {
		burst = 1
	}
	return &Notifier{
		limiter:      rate.NewLimiter(limit, burst),
		broadcasters: append([]Broadcaster(nil), broadcasters...),
	}
}

// AddBroadcaster registers another destination.
func (n *Notifier) AddBroadcaster(b Broadcaster) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasters = append(n.broadcasters, b)
}

// HandleEvent implements backup.Sink.
func (n *Notifier) HandleEvent(e backup.Event) {
	metrics.SetBackupProgress(e.Progress, e.Max)

	if !n.allow(e) {
		metrics.RecordProgressDropped()
		return
	}

	logEvent(e)

	n.mu.RLock()
	broadcasters := n.broadcasters
	n.mu.RUnlock()
	for _, b := range broadcasters {
		b.BroadcastOperationEvent(e)
	}
}

// allow reports whether e should be forwarded. Only intermediate progress
// events consume tokens.
func (n *Notifier) allow(e backup.Event) bool {
	if e.Type.Terminal() || e.Progress <= 0 || e.Progress >= e.Max {
		return true
	}
	return n.limiter.Allow()
}

func logEvent(e backup.Event) {
	switch e.Type {
	case backup.EventProgress:
		logging.Debug().
			Str("operation_id", e.OperationID).
			Str("kind", string(e.Kind)).
			Int("progress", e.Progress).
			Int("max", e.Max).
			Str("status", e.Status).
			Str("eta", e.ETA).
			Msg("Backup progress")
	case backup.EventCompleted:
		ev := logging.Info().
			Str("operation_id", e.OperationID).
			Str("kind", string(e.Kind)).
			Str("status", e.Status)
		if e.Result != nil {
			ev = ev.Str("path", e.Result.Path)
		}
		ev.Msg("Backup operation succeeded")
	case backup.EventFailed:
		ev := logging.Warn().
			Str("operation_id", e.OperationID).
			Str("kind", string(e.Kind))
		if e.Error != nil {
			ev = ev.Str("error_kind", string(e.Error.Kind)).Str("error", e.Error.UserMessage())
		}
		ev.Msg("Backup operation failed")
	case backup.EventCancelled:
		logging.Info().
			Str("operation_id", e.OperationID).
			Str("kind", string(e.Kind)).
			Msg("Backup operation cancelled")
	}
}
