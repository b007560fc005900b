// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package metrics provides Prometheus instrumentation for fintrack.

Metrics are registered on the default registry through promauto and exposed
at /metrics by the HTTP server:

	curl http://localhost:8087/metrics

# Available Metrics

Backup Operations:
  - backup_operations_total: finished operations (counter)
    Labels: kind, outcome
  - backup_operation_duration_seconds: operation wall time (histogram)
    Labels: kind
  - backup_operation_progress: progress of the running operation, 0-100 (gauge)
  - backup_operation_running: 1 while an operation runs (gauge)
  - backup_refused_starts_total: starts refused by the single-flight guard (counter)
  - backup_rows_imported_total: rows written by restores (counter)
    Labels: entity (transaction, category)
  - backup_progress_events_dropped_total: progress events throttled by the notifier (counter)

HTTP:
  - api_requests_total: requests (counter), labels method, endpoint, status_code
  - api_request_duration_seconds: latency (histogram), labels method, endpoint
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rate limit rejections (counter), label endpoint

WebSocket:
  - websocket_connections, websocket_messages_sent_total,
    websocket_errors_total{error_type}

System:
  - app_info{version, go_version}, app_uptime_seconds
*/
package metrics
