// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"net/http"

	"github.com/tomtom215/mediashelf/internal/models"
)

// ListSongs godoc
//
// @Summary List songs
// @Tags Songs
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(24)
// @Success 200 {object} models.Page[models.Song]
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /songs [get]
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	q, apiErr := h.parseListQuery(r, h.config.API.SongsPageSize)
	if apiErr != nil {
		respondAPIError(w, r, apiErr)
		return
	}

	page, err := h.catalog.ListSongs(r.Context(), q.Page, q.Limit)
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetSong godoc
//
// @Summary Get a song
// @Tags Songs
// @Produce json
// @Param id path int true "Song ID"
// @Success 200 {object} models.Song
// @Failure 404 {object} models.ErrorResponse
// @Router /songs/{id} [get]
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindSongs)
		return
	}

	song, err := h.catalog.Song(r.Context(), id)
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}
	respondJSON(w, http.StatusOK, song)
}

// CreateSong godoc
//
// @Summary Create a song
// @Tags Songs
// @Accept json
// @Produce json
// @Param song body models.SongInput true "Song fields"
// @Success 201 {object} models.Song
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /songs [post]
func (h *Handler) CreateSong(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r, models.KindSongs)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, err := body.Song()
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}

	song, err := h.catalog.CreateSong(r.Context(), in)
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}
	respondJSON(w, http.StatusCreated, song)
}

// UpdateSong godoc
//
// @Summary Update a song
// @Tags Songs
// @Accept json
// @Produce json
// @Param id path int true "Song ID"
// @Param song body models.SongInput true "Song fields"
// @Success 200 {object} models.Song
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /songs/{id} [put]
func (h *Handler) UpdateSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindSongs)
		return
	}

	body, ok := h.readBody(w, r, models.KindSongs)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, err := body.Song()
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}

	song, err := h.catalog.UpdateSong(r.Context(), id, in)
	if err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}
	respondJSON(w, http.StatusOK, song)
}

// DeleteSong godoc
//
// @Summary Delete a song
// @Tags Songs
// @Param id path int true "Song ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /songs/{id} [delete]
func (h *Handler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindSongs)
		return
	}

	if err := h.catalog.DeleteSong(r.Context(), id); err != nil {
		respondFailure(w, r, models.KindSongs, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
