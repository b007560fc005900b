// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package logging provides the zerolog-based structured logger used across Fintrack.
//
// A single global logger is configured once at startup and accessed through
// level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("kind", "export_private").Msg("Backup operation started")
//	logging.Error().Err(err).Msg("Import failed")
//
// Backup operations carry an operation id in their context. Use Ctx to get a
// logger that already includes it:
//
//	ctx = logging.ContextWithOperationID(ctx, opID)
//	logging.Ctx(ctx).Info().Str("stage", "categories").Msg("Stage started")
//
// # Configuration
//
// Environment variables (through internal/config):
//
//	FINTRACK_LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	FINTRACK_LOG_FORMAT  - json, console (default: json)
//	FINTRACK_LOG_CALLER  - include caller file:line (default: false)
//
// # Supervisor integration
//
// SlogHandler adapts zerolog to log/slog so that sutureslog can report
// supervisor events through the same logger.
//
// Always terminate event chains with Msg or Send, otherwise nothing is written.
package logging
