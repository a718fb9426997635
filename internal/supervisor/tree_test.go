// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubService runs until canceled, optionally failing its first runs.
type stubService struct {
	name     string
	starts   atomic.Int32
	failures int32
}

func (s *stubService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root is nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults", tree.config)
	}

	custom, _ := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if custom.config.FailureBackoff != time.Second || custom.config.FailureThreshold != 5 {
		t.Errorf("config = %+v", custom.config)
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	hub := &stubService{name: "websocket-hub"}
	relay := &stubService{name: "event-relay"}
	http := &stubService{name: "http-server"}
	tree.AddRealtimeService(hub)
	tree.AddRealtimeService(relay)
	tree.AddAPIService(http)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "services to start", func() bool {
		return hub.starts.Load() > 0 && relay.starts.Load() > 0 && http.starts.Load() > 0
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &stubService{name: "event-relay", failures: 2}
	steady := &stubService{name: "http-server"}
	tree.AddRealtimeService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "restarts", func() bool { return flaky.starts.Load() >= 3 })
	if steady.starts.Load() != 1 {
		t.Errorf("api layer restarted: %d starts", steady.starts.Load())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveRealtimeService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	svc := &stubService{name: "websocket-hub"}
	token := tree.AddRealtimeService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "start", func() bool { return svc.starts.Load() > 0 })
	if err := tree.RemoveRealtimeService(token); err != nil {
		t.Errorf("RemoveRealtimeService: %v", err)
	}

	cancel()
	<-errCh
}
