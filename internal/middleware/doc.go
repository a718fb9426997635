// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

/*
Package middleware provides the HTTP middleware shared by the API and the
HTML pages.

Key Components:

  - RequestID: accepts or generates X-Request-ID and puts it on the logging context
  - RequestLogger: one structured log line per request, warnings for slow requests
  - PrometheusMetrics: request counters and latency histograms labelled by chi route pattern
  - Compression: gzip for clients that accept it
  - SecurityHeaders: CSP and related headers for browser-facing routes

All middleware uses the http.HandlerFunc form:

	handler := middleware.RequestID(
	    middleware.RequestLogger(
	        middleware.PrometheusMetrics(next),
	    ),
	)

The api package adapts them to chi's func(http.Handler) http.Handler with a
small helper.

Route labels come from chi's RouteContext, so /api/games/17 and
/api/games/18 share the label /api/games/{id}. Requests that match no route
are labelled "unmatched" to keep label cardinality bounded.
*/
package middleware
