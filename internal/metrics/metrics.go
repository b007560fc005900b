// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backup Operation Metrics
	BackupOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_operations_total",
			Help: "Total number of finished backup and restore operations",
		},
		[]string{"kind", "outcome"},
	)

	BackupOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_operation_duration_seconds",
			Help:    "Duration of backup and restore operations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"kind"},
	)

	BackupOperationProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_operation_progress",
			Help: "Progress of the running backup operation (0-100)",
		},
	)

	BackupOperationRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_operation_running",
			Help: "1 while a backup or restore operation is running",
		},
	)

	BackupRefusedStarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_refused_starts_total",
			Help: "Total number of operation starts refused because another operation was running",
		},
	)

	BackupRowsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_rows_imported_total",
			Help: "Total number of rows written by restores",
		},
		[]string{"entity"},
	)

	BackupProgressDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_progress_events_dropped_total",
			Help: "Total number of progress events throttled before fan-out",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordBackupStarted marks an operation as running.
func RecordBackupStarted() {
	BackupOperationRunning.Set(1)
	BackupOperationProgress.Set(0)
}

// RecordBackupFinished records a terminal outcome and its duration.
func RecordBackupFinished(kind, outcome string, duration time.Duration) {
	BackupOperationRunning.Set(0)
	BackupOperationsTotal.WithLabelValues(kind, outcome).Inc()
	BackupOperationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordBackupRefused counts a start refused by the single-flight guard.
func RecordBackupRefused() {
	BackupRefusedStarts.Inc()
}

// RecordRowsImported adds restored row counts.
func RecordRowsImported(transactions, categories int) {
	if transactions > 0 {
		BackupRowsImported.WithLabelValues("transaction").Add(float64(transactions))
	}
	if categories > 0 {
		BackupRowsImported.WithLabelValues("category").Add(float64(categories))
	}
}

// SetBackupProgress mirrors the running operation's progress.
func SetBackupProgress(current, max int) {
	if max <= 0 {
		return
	}
	BackupOperationProgress.Set(float64(current) * 100 / float64(max))
}

// RecordProgressDropped counts a throttled progress event.
func RecordProgressDropped() {
	BackupProgressDropped.Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// UpdateUptime sets app_uptime_seconds from the process start time.
func UpdateUptime(startedAt time.Time) {
	AppUptime.Set(time.Since(startedAt).Seconds())
}
