// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

/*
Package main is the entry point for the Mediashelf server.

Mediashelf keeps a personal catalog of games, songs and clips. It serves a
JSON API under /api, server-rendered pages for browsing and managing the
catalog, and the uploaded media itself.

# Application Architecture

	RootSupervisor ("mediashelf")
	├── RealtimeSupervisor ("realtime-layer")
	│   ├── WebSocket Hub
	│   └── Event Relay (catalog changes to websocket clients)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. Record store (json, badger or sqlite)
 4. Upload bucket (directory, mem:// or s3://)
 5. Catalog service, event bus and websocket hub
 6. Router and HTTP server under the supervisor tree

# Configuration

	PORT=4000
	STORE_BACKEND=json        # json, badger, sqlite
	STORE_PATH=db.json
	UPLOADS_DIR=uploads
	UPLOADS_BUCKET_URL=       # overrides UPLOADS_DIR, e.g. s3://bucket?region=us-east-1
	LOG_LEVEL=info
	LOG_FORMAT=json           # json or console

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, websocket clients are closed and
the store is flushed and closed.
*/
package main
