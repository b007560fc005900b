// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package models

import "time"

// OperationRecord is the persisted outcome of one backup or restore run.
type OperationRecord struct {
	OperationID string    `json:"operation_id"`
	Kind        string    `json:"kind"`
	Outcome     string    `json:"outcome"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	// Path is the written snapshot for exports and the source for imports.
	Path string `json:"path,omitempty"`

	TransactionsImported int `json:"transactions_imported,omitempty"`
	CategoriesImported   int `json:"categories_imported,omitempty"`
	CategoriesSkipped    int `json:"categories_skipped,omitempty"`

	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Duration reports how long the operation ran.
func (r *OperationRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
