// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/fintrack/internal/backup"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"missing origin", []string{"*"}, "", false},
		{"wildcard", []string{"*"}, "http://x.test", true},
		{"listed", []string{"http://a.test", "http://b.test"}, "http://b.test", true},
		{"unlisted", []string{"http://a.test"}, "http://evil.test", false},
		{"nothing allowed", nil, "http://a.test", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Errorf("originChecker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServeWS_StreamsEvents(t *testing.T) {
	hub := setupHub(t)
	server := httptest.NewServer(ServeWS(hub, []string{"*"}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{"Origin": []string{"http://ui.test"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitForCount(t, hub, func(n int) bool { return n == 1 })
	hub.BroadcastOperationEvent(backup.Event{OperationID: "op-1", Type: backup.EventCancelled})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		Type string       `json:"type"`
		Data backup.Event `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypeBackupCancelled || msg.Data.OperationID != "op-1" {
		t.Errorf("message = %+v", msg)
	}
}

func TestServeWS_RejectsMissingOrigin(t *testing.T) {
	hub := setupHub(t)
	server := httptest.NewServer(ServeWS(hub, []string{"*"}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		conn.Close()
		t.Fatal("Dial() succeeded without Origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}
