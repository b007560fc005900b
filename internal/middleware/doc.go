// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: propagates or generates X-Request-ID and puts it into the
    logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
    labelled by the matched chi route pattern

Both have the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics wraps the ResponseWriter, so it is not applied to the
websocket route, which needs the connection to be hijackable.
*/
package middleware
