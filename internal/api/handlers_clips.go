// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"net/http"

	"github.com/tomtom215/mediashelf/internal/models"
)

// ListClips godoc
//
// @Summary List clips
// @Description Clips are not paginated.
// @Tags Clips
// @Produce json
// @Success 200 {object} models.ClipList
// @Failure 500 {object} models.ErrorResponse
// @Router /clips [get]
func (h *Handler) ListClips(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListClips(r.Context())
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// GetClip godoc
//
// @Summary Get a clip
// @Tags Clips
// @Produce json
// @Param id path int true "Clip ID"
// @Success 200 {object} models.Clip
// @Failure 404 {object} models.ErrorResponse
// @Router /clips/{id} [get]
func (h *Handler) GetClip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindClips)
		return
	}

	clip, err := h.catalog.Clip(r.Context(), id)
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}
	respondJSON(w, http.StatusOK, clip)
}

// CreateClip godoc
//
// @Summary Create a clip
// @Description Accepts JSON or multipart form data with optional "thumbnail" and "video" files.
// @Tags Clips
// @Accept json,mpfd
// @Produce json
// @Param clip body models.ClipInput true "Clip fields"
// @Success 201 {object} models.Clip
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /clips [post]
func (h *Handler) CreateClip(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r, models.KindClips)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, files, err := body.Clip()
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}

	clip, err := h.catalog.CreateClip(r.Context(), in, files)
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}
	respondJSON(w, http.StatusCreated, clip)
}

// UpdateClip godoc
//
// @Summary Update a clip
// @Tags Clips
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Clip ID"
// @Param clip body models.ClipInput true "Clip fields"
// @Success 200 {object} models.Clip
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /clips/{id} [put]
func (h *Handler) UpdateClip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindClips)
		return
	}

	body, ok := h.readBody(w, r, models.KindClips)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, files, err := body.Clip()
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}

	clip, err := h.catalog.UpdateClip(r.Context(), id, in, files)
	if err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}
	respondJSON(w, http.StatusOK, clip)
}

// DeleteClip godoc
//
// @Summary Delete a clip
// @Description Removes the record. Uploaded files are kept.
// @Tags Clips
// @Param id path int true "Clip ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /clips/{id} [delete]
func (h *Handler) DeleteClip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindClips)
		return
	}

	if err := h.catalog.DeleteClip(r.Context(), id); err != nil {
		respondFailure(w, r, models.KindClips, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
