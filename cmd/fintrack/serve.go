// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/fintrack/internal/api"
	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/metrics"
	"github.com/tomtom215/fintrack/internal/notify"
	"github.com/tomtom215/fintrack/internal/supervisor"
	"github.com/tomtom215/fintrack/internal/supervisor/services"
	ws "github.com/tomtom215/fintrack/internal/websocket"
)

const uptimeInterval = 15 * time.Second

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the backup HTTP API and progress stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runWithApp(opts, func(a *app) error {
				return serve(ctx, a)
			})
		},
	}
}

// serve runs the supervisor tree until ctx is cancelled.
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	a.orchestrator.AddSink(notify.New(notify.Config{
		ProgressInterval: cfg.Notify.ProgressInterval,
		ProgressBurst:    cfg.Notify.ProgressBurst,
	}, hub))

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow

	handler := api.NewHandler(a.orchestrator, a.files, api.HandlerOptions{
		Version:        version,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), ws.ServeWS(hub, cfg.Server.CORSOrigins))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddDataService(services.NewOrchestratorService(a.orchestrator))
	if !cfg.Database.InMemory && cfg.Database.GCInterval > 0 {
		tree.AddDataService(services.NewStoreGCService(a.db, cfg.Database.GCInterval))
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	go trackUptime(ctx, time.Now())

	logging.Info().Str("addr", server.Addr).Str("version", version).Msg("Starting fintrack server")
	errCh := tree.ServeBackground(ctx)
	err = <-errCh

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Server stopped")
	return nil
}

func trackUptime(ctx context.Context, startedAt time.Time) {
	ticker := time.NewTicker(uptimeInterval)
	defer ticker.Stop()
	for {
		metrics.UpdateUptime(startedAt)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
