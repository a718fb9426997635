// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

/*
Package websocket pushes catalog change notifications to open browser tabs.

The Hub owns the set of connected clients and fans every broadcast out to
them. Each Client runs a read pump (answers application pings, detects
disconnects) and a write pump (delivers queued messages, sends protocol
pings). A client whose send buffer is full is dropped rather than slowing
the hub down.

Messages are JSON objects of the form:

	{"type": "catalog_change", "data": {"kind": "games", "action": "created", "id": 1719000000000}}

The hub is meant to run under a supervisor through RunWithContext, which
closes every client and returns when the context is canceled.
*/
package websocket
