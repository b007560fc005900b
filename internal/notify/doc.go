// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package notify turns backup operation events into user-facing
// notifications.
//
// A Notifier is registered as a backup.Sink. It logs every event, mirrors
// progress into metrics and forwards events to broadcasters such as the
// websocket hub. Intermediate progress is throttled with a token bucket;
// the first and last progress steps and every terminal event always pass.
package notify
