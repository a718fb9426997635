// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

/*
Package supervisor runs Mediashelf's long-lived services under a suture v4
supervisor tree.

Tree layout:

	mediashelf (root)
	├── realtime-layer
	│   ├── websocket-hub
	│   └── event-relay
	└── api-layer
	    └── http-server

A service that returns an error or panics is restarted by its layer.
Failures decay over FailureDecay seconds; once FailureThreshold is
exceeded the layer backs off for FailureBackoff before trying again. A
crashing relay therefore never takes the HTTP server down with it.

Supervisor events (restarts, backoff, unstopped services) are logged
through sutureslog, bridged into zerolog by logging.NewSlogLogger.
*/
package supervisor
