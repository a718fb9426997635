// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/mediashelf/internal/logging"
)

//nolint:gochecknoinits // quiet logs for all tests in the package
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
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

// fakeClient returns a client without a connection, for hub-only tests.
func fakeClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	if hub.GetClientCount() != 0 {
		t.Errorf("new hub has %d clients", hub.GetClientCount())
	}
	if cap(hub.broadcast) != broadcastBuffer {
		t.Errorf("broadcast buffer = %d, want %d", cap(hub.broadcast), broadcastBuffer)
	}
	if hub.String() != "websocket-hub" {
		t.Errorf("String() = %q", hub.String())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()
	hub := startHub(t)

	a, b := fakeClient(hub, 4), fakeClient(hub, 4)
	hub.Register <- a
	hub.Register <- b
	waitForCount(t, hub, 2)

	hub.Unregister <- a
	waitForCount(t, hub, 1)
	if _, ok := <-a.send; ok {
		t.Error("unregistered client send channel still open")
	}

	// unregistering twice is harmless
	hub.Unregister <- a
	waitForCount(t, hub, 1)
}

func TestHub_BroadcastJSON(t *testing.T) {
	t.Parallel()
	hub := startHub(t)

	a, b := fakeClient(hub, 4), fakeClient(hub, 4)
	hub.Register <- a
	hub.Register <- b
	waitForCount(t, hub, 2)

	hub.BroadcastJSON(MessageTypeCatalogChange, map[string]string{"kind": "songs"})

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != MessageTypeCatalogChange {
			t.Errorf("type = %q", msg.Type)
		}
	}
}

func TestHub_BroadcastRaw(t *testing.T) {
	t.Parallel()
	hub := startHub(t)

	c := fakeClient(hub, 4)
	hub.Register <- c
	waitForCount(t, hub, 1)

	hub.BroadcastRaw([]byte(`{"kind":"clips","action":"deleted","id":7}`))
	msg := receive(t, c)
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want map", msg.Data)
	}
	if data["kind"] != "clips" || data["action"] != "deleted" {
		t.Errorf("data = %v", data)
	}

	// invalid JSON is dropped
	hub.BroadcastRaw([]byte(`not json`))
	hub.BroadcastJSON("marker", nil)
	if got := receive(t, c); got.Type != "marker" {
		t.Errorf("got %q, want marker after dropped raw message", got.Type)
	}
}

func TestHub_DropsSlowClients(t *testing.T) {
	t.Parallel()
	hub := startHub(t)

	slow := fakeClient(hub, 1)
	hub.Register <- slow
	waitForCount(t, hub, 1)

	hub.BroadcastJSON("one", nil)
	hub.BroadcastJSON("two", nil)
	waitForCount(t, hub, 0)
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	t.Parallel()
	hub := NewHub() // not running, nothing drains

	for i := 0; i < broadcastBuffer+10; i++ {
		hub.BroadcastJSON("fill", i)
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("queued %d, want %d", len(hub.broadcast), broadcastBuffer)
	}
}

func TestHub_RunWithContext_ClosesClients(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Serve(ctx) }()

	c := fakeClient(hub, 4)
	hub.Register <- c
	waitForCount(t, hub, 1)

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("clients after shutdown = %d", hub.GetClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel not closed on shutdown")
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %q", got)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}
	if string(data) != `{"type":"pong","data":null}` {
		t.Errorf("got %s", data)
	}
}
