// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package backup exports the finance data (transactions and categories) to a
// versioned JSON snapshot and restores it again.
//
// # Overview
//
// The package is organized in layers:
//
//	Codec        - Encode/Decode between Snapshot and JSON bytes
//	Store        - snapshot persistence in a private directory and in a
//	               user-visible shared location (direct or mediated writes)
//	Exporter     - live store -> Snapshot -> file
//	Importer     - file -> Snapshot -> validated -> live store
//	ProgressTracker - bounded progress with ETA and one-shot terminal events
//	Orchestrator - single-flight operation runner publishing Events to Sinks
//
// # Snapshot Format
//
//	{
//	  "version": "1.0",
//	  "createdAt": "2024-05-01T10:30:00",
//	  "metadata": { "appVersion": "...", "transactionCount": 2, ... },
//	  "transactions": [ { "amount": "12.50", "type": "EXPENSE", ... } ],
//	  "categories": [ { "name": "food", "type": "EXPENSE", ... } ]
//	}
//
// Amounts are exact decimals encoded as strings. Timestamps are local
// date-times without a zone offset. Only version "1.0" is accepted on
// import. Unknown fields are ignored.
//
// # Restore Semantics
//
// Import validates the whole snapshot before writing anything. Categories are
// matched by name: new names are inserted, existing names are either left
// alone or updated in place (keeping their id) depending on the replace flag.
// Transactions are always inserted as new rows, so restoring the same
// snapshot twice duplicates them. A store failure stops the import without
// rolling back rows already written.
//
// # Concurrency
//
// The Orchestrator runs at most one export or import at a time. A second
// Start while one is running is refused, not queued. All events for an
// operation are delivered to sinks from a single dispatcher goroutine in the
// order they were produced, and the running guard is released before the
// terminal event is delivered so sinks may start the next operation.
package backup
