// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package websocket

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub starts a hub that stops when the test ends.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, sendBufferSize)}
}

func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.Register <- client
	waitForCount(t, hub, func(n int) bool { return n > 0 })
}

func waitForCount(t *testing.T, hub *Hub, ok func(int) bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ok(hub.GetClientCount()) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count %d never reached expected value", hub.GetClientCount())
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Fatal("NewHub() left fields uninitialized")
	}
	if cap(hub.broadcast) != hubQueueSize {
		t.Errorf("broadcast capacity = %d, want %d", cap(hub.broadcast), hubQueueSize)
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("GetClientCount() = %d, want 0", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)
	registerClient(t, hub, client)

	hub.Unregister <- client
	waitForCount(t, hub, func(n int) bool { return n == 0 })

	if _, ok := <-client.send; ok {
		t.Error("send channel still open after unregister")
	}

	// Unregistering twice must not panic on a closed channel.
	hub.Unregister <- client
	hub.Unregister <- createTestClient(hub)
}

func TestHub_BroadcastOperationEvent(t *testing.T) {
	tests := []struct {
		eventType backup.EventType
		want      string
	}{
		{backup.EventProgress, MessageTypeBackupProgress},
		{backup.EventCompleted, MessageTypeBackupCompleted},
		{backup.EventFailed, MessageTypeBackupFailed},
		{backup.EventCancelled, MessageTypeBackupCancelled},
	}

	hub := setupHub(t)
	clients := []*Client{createTestClient(hub), createTestClient(hub)}
	for _, c := range clients {
		hub.Register <- c
	}
	waitForCount(t, hub, func(n int) bool { return n == 2 })

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			e := backup.Event{OperationID: "op-1", Kind: backup.OpExportInternal, Type: tt.eventType, Progress: 40, Max: 100}
			hub.BroadcastOperationEvent(e)

			for _, c := range clients {
				msg := receive(t, c)
				if msg.Type != tt.want {
					t.Errorf("message type = %q, want %q", msg.Type, tt.want)
				}
				got, ok := msg.Data.(backup.Event)
				if !ok || got.OperationID != "op-1" || got.Progress != 40 {
					t.Errorf("message data = %#v", msg.Data)
				}
			}
		})
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := setupHub(t)
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 1)}
	fast := createTestClient(hub)
	hub.Register <- slow
	hub.Register <- fast
	waitForCount(t, hub, func(n int) bool { return n == 2 })

	hub.BroadcastJSON("one", nil)
	receive(t, fast)
	hub.BroadcastJSON("two", nil)
	receive(t, fast)

	waitForCount(t, hub, func(n int) bool { return n == 1 })
	if msg := <-slow.send; msg.Type != "one" {
		t.Errorf("slow client first message = %q, want one", msg.Type)
	}
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel should be closed")
	}
}

func TestHub_BroadcastQueueFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < hubQueueSize+10; i++ {
		hub.BroadcastJSON("fill", i)
	}
	if len(hub.broadcast) != hubQueueSize {
		t.Errorf("queue length = %d, want %d", len(hub.broadcast), hubQueueSize)
	}
}

func TestHub_RunWithContext_Shutdown(t *testing.T) {
	tests := []struct {
		name       string
		makeCtx    func() (context.Context, context.CancelFunc)
		wantErr    error
		wantReason ShutdownReason
	}{
		{
			name:       "cancelled",
			makeCtx:    func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			wantErr:    context.Canceled,
			wantReason: ShutdownReasonContextCanceled,
		},
		{
			name: "deadline",
			makeCtx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 200*time.Millisecond)
			},
			wantErr:    context.DeadlineExceeded,
			wantReason: ShutdownReasonContextDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			ctx, cancel := tt.makeCtx()
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- hub.RunWithContext(ctx) }()

			client := createTestClient(hub)
			hub.Register <- client
			if tt.name == "cancelled" {
				cancel()
			}

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RunWithContext() = %v, want %v", err, tt.wantErr)
				}
			case <-time.After(time.Second):
				t.Fatal("hub did not stop")
			}
			if got := getShutdownReason(ctx); got != tt.wantReason {
				t.Errorf("getShutdownReason() = %q, want %q", got, tt.wantReason)
			}
			if hub.GetClientCount() != 0 {
				t.Errorf("clients after shutdown = %d, want 0", hub.GetClientCount())
			}
			if _, ok := <-client.send; ok {
				t.Error("client channel not closed on shutdown")
			}
		})
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{
		Type: MessageTypeBackupCompleted,
		Data: backup.Event{
			OperationID: "op-9",
			Type:        backup.EventCompleted,
			Progress:    100,
			Max:         100,
			Result:      &backup.OperationResult{Path: "/tmp/b.json"},
		},
	})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	for _, want := range []string{`"type":"backup_completed"`, `"operation_id":"op-9"`, `"path":"/tmp/b.json"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded message missing %s: %s", want, data)
		}
	}
}
