// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"sync"

	"github.com/tomtom215/fintrack/internal/logging"
)

// dispatcher delivers events to sinks from one goroutine in enqueue order.
// Enqueue never blocks, so producers may hold their own locks while calling it.
type dispatcher struct {
	mu     sync.Mutex
	queue  []Event
	sinks  []Sink
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newDispatcher(sinks []Sink) *dispatcher {
	d := &dispatcher{
		sinks: append([]Sink(nil), sinks...),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) addSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

func (d *dispatcher) enqueue(e Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, e)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// close stops accepting events and waits until the queue is drained.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}

func (d *dispatcher) run() {
	defer close(d.done)
	for range d.wake {
		for {
			d.mu.Lock()
			batch := d.queue
			d.queue = nil
			sinks := d.sinks
			closed := d.closed
			d.mu.Unlock()

			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
			for _, e := range batch {
				deliver(sinks, e)
			}
		}
	}
}

// deliver calls every sink, isolating panics so one sink cannot stop delivery.
func deliver(sinks []Sink, e Event) {
	for _, s := range sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error().
						Interface("panic", r).
						Str("operation_id", e.OperationID).
						Str("type", string(e.Type)).
						Msg("Backup event sink panicked")
				}
			}()
			s.HandleEvent(e)
		}()
	}
}
