// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package services

import (
	"context"
	"time"

	"github.com/tomtom215/fintrack/internal/logging"
)

// GarbageCollector is satisfied by *store.Badger.
type GarbageCollector interface {
	CollectGarbage(ctx context.Context) error
}

// StoreGCService runs store garbage collection every interval. A failed
// run is logged and retried on the next tick.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewStoreGCService wraps gc. interval must be positive.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	return &StoreGCService{
		gc:       gc,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.CollectGarbage(ctx); err != nil {
				logging.Warn().Err(err).Msg("Store garbage collection failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Store garbage collection finished")
		}
	}
}

// String identifies the service in supervisor logs.
func (s *StoreGCService) String() string {
	return s.name
}
