// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// sampleCount reads how many observations a histogram child holds.
func sampleCount(t *testing.T, h *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	metric, ok := h.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatal("histogram child does not implement prometheus.Metric")
	}
	var m io_prometheus_client.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestDurationHistograms(t *testing.T) {
	t.Parallel()

	RecordStoreOperation("hist-test", "clips", "list", 2*time.Millisecond, nil, false)
	RecordStoreOperation("hist-test", "clips", "list", 4*time.Millisecond, nil, false)
	if got := sampleCount(t, StoreOperationDuration, "hist-test", "clips", "list"); got != 2 {
		t.Errorf("store samples = %d, want 2", got)
	}

	RecordAPIRequest("GET", "/api/hist-test", 200, time.Millisecond)
	if got := sampleCount(t, APIRequestDuration, "GET", "/api/hist-test"); got != 1 {
		t.Errorf("api samples = %d, want 1", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		kind      string
		err       error
		notFound  bool
		wantDelta float64
	}{
		{"success", "games-ok", nil, false, 0},
		{"failure", "games-fail", errors.New("disk full"), false, 1},
		{"not found is not an error", "games-missing", errors.New("missing"), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			counter := StoreOperationErrors.WithLabelValues("test", tt.kind, "get")
			before := testutil.ToFloat64(counter)

			RecordStoreOperation("test", tt.kind, "get", 3*time.Millisecond, tt.err, tt.notFound)

			if got := testutil.ToFloat64(counter) - before; got != tt.wantDelta {
				t.Errorf("error counter delta = %v, want %v", got, tt.wantDelta)
			}
		})
	}
}

func TestRecordMutation(t *testing.T) {
	t.Parallel()

	counter := CatalogMutations.WithLabelValues("songs-test", "created")
	before := testutil.ToFloat64(counter)

	RecordMutation("songs-test", "created", 12)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("mutation delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CatalogRecords.WithLabelValues("songs-test")); got != 12 {
		t.Errorf("record gauge = %v, want 12", got)
	}
}

func TestRecordUpload(t *testing.T) {
	t.Parallel()

	RecordUpload("slot-test", 2048)
	RecordUpload("slot-test", 1024)

	if got := testutil.ToFloat64(UploadsTotal.WithLabelValues("slot-test")); got != 2 {
		t.Errorf("uploads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(UploadBytes.WithLabelValues("slot-test")); got != 3072 {
		t.Errorf("bytes = %v, want 3072", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	t.Parallel()

	counter := APIRequestsTotal.WithLabelValues("GET", "/api/test-route", "404")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/api/test-route", 404, 5*time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request delta = %v, want 1", got)
	}
}
