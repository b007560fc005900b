// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package services

import (
	"context"
)

// Closer is satisfied by *backup.Orchestrator.
type Closer interface {
	Close()
}

// OrchestratorService ties the backup orchestrator to the tree lifetime.
// On shutdown it closes the orchestrator, which cancels a running
// operation and refuses new ones.
type OrchestratorService struct {
	orchestrator Closer
	name         string
}

// NewOrchestratorService wraps orchestrator.
func NewOrchestratorService(orchestrator Closer) *OrchestratorService {
	return &OrchestratorService{
		orchestrator: orchestrator,
		name:         "backup-orchestrator",
	}
}

// Serve implements suture.Service.
func (s *OrchestratorService) Serve(ctx context.Context) error {
	<-ctx.Done()
	s.orchestrator.Close()
	return ctx.Err()
}

// String identifies the service in supervisor logs.
func (s *OrchestratorService) String() string {
	return s.name
}
