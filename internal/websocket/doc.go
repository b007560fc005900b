// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

/*
Package websocket pushes backup and restore progress to connected clients.

It uses gorilla/websocket with a hub-and-client layout: the Hub owns the set
of connected clients and fans every message out to them; each Client runs a
read pump (client pings, pong deadlines) and a write pump (queued messages,
keepalive pings).

	┌──────────┐
	│   Hub    │ ← BroadcastOperationEvent
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

Message Types:

  - backup_progress: a running operation moved forward
  - backup_completed: the operation finished; data carries the result
  - backup_failed: the operation failed; data carries the error
  - backup_cancelled: the operation was cancelled
  - ping / pong: application-level keepalive initiated by the client

Every message is a JSON object {"type": ..., "data": ...}. For backup
messages data is the backup.Event.

Delivery is best effort. A client whose send buffer is full is dropped
rather than slowing the hub down; a full hub queue drops the message and
logs a warning.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	// HTTP handler
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

In the server the hub runs as a supervised service (see internal/supervisor)
and receives events through internal/notify.
*/
package websocket
