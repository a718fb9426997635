// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/mediashelf/docs" // Import swagger docs
	"github.com/tomtom215/mediashelf/internal/api"
	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/events"
	"github.com/tomtom215/mediashelf/internal/idgen"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/media"
	"github.com/tomtom215/mediashelf/internal/store"
	"github.com/tomtom215/mediashelf/internal/supervisor"
	"github.com/tomtom215/mediashelf/internal/supervisor/services"
	"github.com/tomtom215/mediashelf/internal/web"
	ws "github.com/tomtom215/mediashelf/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("backend", cfg.Store.Backend).
		Str("store_path", cfg.Store.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Mediashelf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing record store")
		}
	}()

	if stats, err := st.Stats(ctx); err != nil {
		logging.Warn().Err(err).Msg("Could not count records")
	} else {
		logging.Info().
			Int("games", stats.Games).
			Int("songs", stats.Songs).
			Int("clips", stats.Clips).
			Msg("Record store opened")
	}

	ids := idgen.NewMonotonic()
	if maxID, err := st.MaxID(ctx); err != nil {
		logging.Warn().Err(err).Msg("Could not read highest record id")
	} else {
		ids.Seed(maxID)
	}

	uploads, err := media.Open(ctx, cfg.Uploads)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open upload storage")
	}
	defer func() {
		if err := uploads.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing upload storage")
		}
	}()
	logging.Info().Str("location", uploads.Location()).Msg("Upload storage ready")

	tree, err := supervisor.NewSupervisorTree(logging.NewComponentSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	hub := ws.NewHub()
	tree.AddRealtimeService(hub)

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		bus := events.NewBus(cfg.Events)
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		publisher = bus
		tree.AddRealtimeService(events.NewRelay(bus, hub))
		logging.Info().Int64("buffer", cfg.Events.Buffer).Msg("Catalog change events enabled")
	}

	svc := catalog.New(st, uploads, ids, publisher)

	pages, err := web.New(svc, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load page templates")
	}

	router := api.NewRouter(api.NewHandler(svc, cfg), cfg, hub, uploads.Handler(), pages)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
