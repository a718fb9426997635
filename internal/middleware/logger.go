// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediashelf/internal/logging"
)

// SlowRequestThreshold is the duration above which requests log at warn.
var SlowRequestThreshold = time.Second

// RequestLogger logs method, path, status, size and duration of every
// request. Server errors log at error level and slow requests at warn.
func RequestLogger(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r)

		duration := time.Since(start)
		status := statusOf(ww)

		logger := logging.Ctx(r.Context())
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case duration > SlowRequestThreshold:
			event = logger.Warn().Bool("slow", true)
		default:
			event = logger.Debug()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", duration).
			Msg("HTTP request")
	}
}
