// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"time"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/config"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_helpers.go: response and request helpers
//   - handlers_games.go, handlers_songs.go, handlers_clips.go: CRUD per kind
//   - handlers_health.go: health, stats and debug endpoints
type Handler struct {
	catalog   *catalog.Service
	config    *config.Config
	startTime time.Time
}

// NewHandler creates an API handler over svc.
func NewHandler(svc *catalog.Service, cfg *config.Config) *Handler {
	return &Handler{
		catalog:   svc,
		config:    cfg,
		startTime: time.Now(),
	}
}
