// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/fintrack/internal/metrics"
)

// HandleHealth reports liveness and the orchestrator state.
// GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	metrics.UpdateUptime(h.startedAt)
	respondSuccess(w, r, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Version:        h.version,
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
		OperationState: h.ops.Status().State,
		Timestamp:      time.Now(),
	})
}
