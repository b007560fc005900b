// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package api exposes the backup operation API over HTTP using chi.

Routes:

	POST   /api/v1/backup/export          {"destination": "private"|"shared"}
	POST   /api/v1/backup/import          {"path": "...", "replace_existing": bool}
	POST   /api/v1/backup/import/upload   multipart "file", ?replace_existing=
	POST   /api/v1/backup/cancel
	GET    /api/v1/backup/status
	GET    /api/v1/backup/files
	DELETE /api/v1/backup/files/{name}
	GET    /api/v1/backup/history?limit=
	GET    /ws                            progress stream (internal/websocket)
	GET    /metrics                       prometheus
	GET    /healthz

Operations run in the background. A start endpoint answers 202 with the
operation id when accepted, or 200 with "accepted": false when another
operation is already running; that is not an error. Progress and outcomes
are delivered over /ws and can be polled through /status.

Every JSON response uses the models.APIResponse envelope.
*/
package api
