// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import "time"

// EventType distinguishes progress events from the three terminal outcomes.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventCancelled EventType = "cancelled"
)

// Terminal reports whether t ends an operation.
func (t EventType) Terminal() bool {
	return t == EventCompleted || t == EventFailed || t == EventCancelled
}

// OperationKind names the four operations the orchestrator runs.
type OperationKind string

const (
	OpExportInternal OperationKind = "export_internal"
	OpExportExternal OperationKind = "export_external"
	OpImportPath     OperationKind = "import_path"
	OpImportHandle   OperationKind = "import_handle"
)

// IsExport reports whether k writes a snapshot.
func (k OperationKind) IsExport() bool {
	return k == OpExportInternal || k == OpExportExternal
}

// OperationResult is the payload of a completed operation.
type OperationResult struct {
	// Path is the written snapshot (exports) or the source (imports).
	Path   string         `json:"path,omitempty"`
	Import *ImportSummary `json:"import,omitempty"`
}

// Event is delivered to sinks for every progress change and exactly once
// per operation for its terminal outcome.
type Event struct {
	OperationID string           `json:"operation_id"`
	Kind        OperationKind    `json:"kind"`
	Type        EventType        `json:"type"`
	Progress    int              `json:"progress"`
	Max         int              `json:"max"`
	Status      string           `json:"status"`
	ETA         string           `json:"eta,omitempty"`
	Result      *OperationResult `json:"result,omitempty"`
	Error       *Error           `json:"error,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Sink consumes operation events. Calls are never concurrent and arrive in
// production order.
type Sink interface {
	HandleEvent(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// HandleEvent calls f(e).
func (f SinkFunc) HandleEvent(e Event) { f(e) }
