// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"time"

	"github.com/tomtom215/fintrack/internal/backup"
)

// ExportRequest is the body of POST /backup/export. An empty destination
// means private.
type ExportRequest struct {
	Destination string `json:"destination" validate:"omitempty,oneof=private shared"`
}

// ImportRequest is the body of POST /backup/import. Path is a filesystem
// path or a content handle URI (file://, shared://).
type ImportRequest struct {
	Path            string `json:"path" validate:"required,max=4096"`
	ReplaceExisting bool   `json:"replace_existing"`
}

// HistoryRequest holds the query of GET /backup/history.
type HistoryRequest struct {
	Limit int `json:"limit" validate:"min=0,max=1000"`
}

// StartResponse answers every start endpoint.
type StartResponse struct {
	Accepted    bool                 `json:"accepted"`
	OperationID string               `json:"operation_id,omitempty"`
	Kind        backup.OperationKind `json:"kind"`
	Message     string               `json:"message,omitempty"`
}

// CancelResponse answers POST /backup/cancel.
type CancelResponse struct {
	Requested bool `json:"requested"`
}

// FilesResponse lists private snapshots, newest first.
type FilesResponse struct {
	Files []backup.FileInfo `json:"files"`
}

// HealthResponse answers GET /healthz.
type HealthResponse struct {
	Status         string       `json:"status"`
	Version        string       `json:"version,omitempty"`
	Uptime         string       `json:"uptime"`
	OperationState backup.State `json:"operation_state"`
	Timestamp      time.Time    `json:"timestamp"`
}
