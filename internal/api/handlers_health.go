// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"net/http"

	"github.com/tomtom215/mediashelf/internal/models"
)

// HealthLive godoc
//
// @Summary Liveness check
// @Description Reports that the process is serving requests. Never touches the store.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{Status: "alive"})
}

// HealthReady godoc
//
// @Summary Readiness check
// @Description Reports whether the record store answers.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "ready", Backend: h.config.Store.Backend}
	if err := h.catalog.Store().Ping(r.Context()); err != nil {
		resp.Status = "not_ready"
		resp.Error = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Stats godoc
//
// @Summary Collection counts
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} models.ErrorResponse
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStore, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Debug godoc
//
// @Summary Store introspection
// @Description Backend, file location, counts and a few sample records. Only mounted when debug.enabled is true.
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.DebugInfo
// @Failure 500 {object} models.ErrorResponse
// @Router /debug [get]
func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.Debug(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeStore, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
