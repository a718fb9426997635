// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashelf_store_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "kind", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_store_operation_errors_total",
			Help: "Total number of failed record store operations, not found excluded",
		},
		[]string{"backend", "kind", "operation"},
	)

	CatalogRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediashelf_catalog_records",
			Help: "Number of records per collection after the last mutation",
		},
		[]string{"kind"},
	)

	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_catalog_mutations_total",
			Help: "Total number of created, updated and deleted records",
		},
		[]string{"kind", "action"},
	)

	// Upload metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_uploads_total",
			Help: "Total number of stored uploads per slot",
		},
		[]string{"slot"},
	)

	UploadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_upload_bytes_total",
			Help: "Total bytes written to upload storage per slot",
		},
		[]string{"slot"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashelf_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediashelf_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Realtime metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediashelf_websocket_connections",
			Help: "Number of connected websocket clients",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_events_published_total",
			Help: "Total number of catalog change events published",
		},
		[]string{"kind", "action"},
	)

	EventsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediashelf_events_delivered_total",
			Help: "Total number of catalog change events relayed to websocket clients",
		},
	)
)

// RecordStoreOperation observes one store call. Pass notFound=true when the
// error only reports a missing record.
func RecordStoreOperation(backend, kind, operation string, duration time.Duration, err error, notFound bool) {
	StoreOperationDuration.WithLabelValues(backend, kind, operation).Observe(duration.Seconds())
	if err != nil && !notFound {
		StoreOperationErrors.WithLabelValues(backend, kind, operation).Inc()
	}
}

// RecordMutation counts a record change and updates the collection size.
func RecordMutation(kind, action string, size int) {
	CatalogMutations.WithLabelValues(kind, action).Inc()
	CatalogRecords.WithLabelValues(kind).Set(float64(size))
}

// RecordUpload counts a stored upload.
func RecordUpload(slot string, size int64) {
	UploadsTotal.WithLabelValues(slot).Inc()
	UploadBytes.WithLabelValues(slot).Add(float64(size))
}

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest moves the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
