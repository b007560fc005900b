// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package supervisor runs the long-lived parts of serve mode under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("fintrack")
	├── DataSupervisor ("data-layer")
	│   ├── OrchestratorService
	│   └── StoreGCService (on-disk store only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure counter: each failure
increments it, the counter decays over FailureDecay seconds, and once it
exceeds FailureThreshold restarts wait FailureBackoff.

Supervisor events are logged through sutureslog using the zerolog-backed
slog logger from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewOrchestratorService(orch))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

One-shot CLI commands do not use the tree.
*/
package supervisor
