// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/notify"
)

var (
	errCancelled = errors.New("operation cancelled")
	errBusy      = errors.New("another backup operation is already running")
)

// startFunc starts one orchestrator operation.
type startFunc func(o *backup.Orchestrator) (string, bool)

// runOperation starts an operation, prints throttled progress lines to out
// and blocks until its terminal event. Cancelling ctx (SIGINT) requests
// cancellation and keeps waiting for the outcome.
func runOperation(ctx context.Context, a *app, out io.Writer, start startFunc) (*backup.Event, error) {
	terminal := make(chan backup.Event, 1)
	a.orchestrator.AddSink(notify.New(
		notify.Config{
			ProgressInterval: a.cfg.Notify.ProgressInterval,
			ProgressBurst:    a.cfg.Notify.ProgressBurst,
		},
		notify.BroadcasterFunc(func(e backup.Event) {
			printEvent(out, e)
			if e.Type.Terminal() {
				terminal <- e
			}
		}),
	))

	if _, ok := start(a.orchestrator); !ok {
		return nil, errBusy
	}

	cancelRequested := false
	for {
		select {
		case e := <-terminal:
			return &e, eventError(e)
		case <-ctx.Done():
			if !cancelRequested {
				fmt.Fprintln(out, "Cancelling...")
				a.orchestrator.Cancel()
				cancelRequested = true
			}
			ctx = context.Background()
		}
	}
}

func printEvent(out io.Writer, e backup.Event) {
	switch {
	case e.Type == backup.EventProgress && e.ETA != "":
		fmt.Fprintf(out, "[%3d%%] %s (about %s left)\n", percent(e), e.Status, e.ETA)
	default:
		fmt.Fprintf(out, "[%3d%%] %s\n", percent(e), e.Status)
	}
}

func percent(e backup.Event) int {
	if e.Max <= 0 {
		return 0
	}
	return e.Progress * 100 / e.Max
}

func eventError(e backup.Event) error {
	switch e.Type {
	case backup.EventCancelled:
		return errCancelled
	case backup.EventFailed:
		if e.Error != nil {
			return e.Error
		}
		return errors.New("operation failed")
	default:
		return nil
	}
}

// signalContext is cancelled by SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
