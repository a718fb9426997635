// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

/*
Package api provides the HTTP layer of Mediashelf: the JSON REST API, the
chi router that also mounts the HTML pages, uploaded media, the websocket
feed, Prometheus metrics and the Swagger UI.

API Endpoints:

  - GET|POST /api/games, GET|PUT|DELETE /api/games/{id}
  - GET|POST /api/songs, GET|PUT|DELETE /api/songs/{id}
  - GET|POST /api/clips, GET|PUT|DELETE /api/clips/{id}
  - GET /api/stats, GET /api/debug
  - GET /api/health/live, GET /api/health/ready
  - GET /api/ws

Games and songs are paginated with page and limit query parameters and
answer with {items, total, totalPages, page, limit}. Clips are returned
whole as {clips: [...]}.

Create and update accept JSON, urlencoded and multipart bodies. Games take
an "image" file part; clips take "thumbnail" and "video" (or "clip").
Updates merge: empty fields keep the stored value, and files are replaced
only when a new one is attached.

Error Responses:

Every error has the same shape:

	{"error": "Game not found", "code": "NOT_FOUND"}

Validation failures add a details object naming the offending field.

Middleware Stack:

	RequestID -> RealIP -> Recoverer -> RequestLogger -> CORS
	    /api/*:  PrometheusMetrics -> APISecurityHeaders -> Compression
	             (POST/PUT/DELETE also rate limited by client IP)
	    pages:   PrometheusMetrics -> SecurityHeaders -> Compression
*/
package api
