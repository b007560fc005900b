// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package services adapts fintrack components to suture.Service.

Each wrapper translates a component lifecycle into Serve(ctx) error:

  - HTTPServerService: ListenAndServe / Shutdown of the API server
  - WebSocketHubService: Hub.RunWithContext
  - OrchestratorService: keeps the backup orchestrator open and closes it
    (cancelling any running operation) on shutdown
  - StoreGCService: periodic BadgerDB value log garbage collection

Serve returns ctx.Err() on shutdown and a wrapped error on failure so the
supervisor can decide whether to restart. Wrappers depend on small
interfaces rather than concrete types to keep this package free of import
cycles and easy to test.
*/
package services
