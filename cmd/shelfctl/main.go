// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Command shelfctl inspects and moves a Mediashelf record store offline.
//
//	shelfctl stats
//	shelfctl export -o catalog.json
//	shelfctl migrate --from json --to sqlite --to-path db.sqlite
//
// Without --backend and --path the store is taken from the server
// configuration (config.yaml and environment).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/mediashelf/internal/logging"
)

func main() {
	logging.Init(logging.Config{Level: "warn", Format: "console", Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
