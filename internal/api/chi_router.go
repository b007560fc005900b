// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/fintrack/internal/middleware"
)

// NewRouter builds the HTTP routes. ws serves the progress stream and may
// be nil when no websocket hub runs.
func NewRouter(h *Handler, mw *ChiMiddleware, ws http.Handler) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()

	// Applied to all routes
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Get("/healthz", h.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if ws != nil {
		r.Handle("/ws", ws)
	}

	r.Route("/api/v1/backup", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(APISecurityHeaders())

		// Operation starts
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit("backup_start"))
			r.Post("/export", h.HandleExport)
			r.Post("/import", h.HandleImport)
			r.Post("/import/upload", h.HandleImportUpload)
		})

		r.Post("/cancel", h.HandleCancel)
		r.Get("/status", h.HandleStatus)
		r.Get("/history", h.HandleHistory)
		r.Get("/files", h.HandleListFiles)
		r.Delete("/files/{name}", h.HandleDeleteFile)
	})

	return r
}
