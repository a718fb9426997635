// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var payload = strings.Repeat(`{"title":"Hollow Knight","status":"Playing"}`, 50)

func writePayload(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, payload)
}

func TestCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		headers  map[string]string
		wantGzip bool
	}{
		{"gzip accepted", http.MethodGet, map[string]string{"Accept-Encoding": "gzip, deflate"}, true},
		{"no accept-encoding", http.MethodGet, nil, false},
		{"websocket upgrade", http.MethodGet, map[string]string{"Accept-Encoding": "gzip", "Upgrade": "websocket"}, false},
		{"range request", http.MethodGet, map[string]string{"Accept-Encoding": "gzip", "Range": "bytes=0-10"}, false},
		{"head request", http.MethodHead, map[string]string{"Accept-Encoding": "gzip"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/api/games", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			Compression(writePayload)(rec, req)

			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("gzip = %v, want %v", gotGzip, tt.wantGzip)
			}
			if rec.Header().Get("Vary") != "Accept-Encoding" {
				t.Errorf("Vary = %q", rec.Header().Get("Vary"))
			}
			if !gotGzip {
				return
			}

			zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
			if err != nil {
				t.Fatalf("gzip.NewReader: %v", err)
			}
			body, err := io.ReadAll(zr)
			if err != nil {
				t.Fatalf("read gzip body: %v", err)
			}
			if string(body) != payload {
				t.Error("decompressed body differs")
			}
		})
	}
}

func TestCompression_StatusPreserved(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	Compression(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
}
