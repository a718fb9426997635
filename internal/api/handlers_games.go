// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"net/http"

	"github.com/tomtom215/mediashelf/internal/models"
)

// ListGames godoc
//
// @Summary List games
// @Description Returns one page of games, newest id last.
// @Tags Games
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(25)
// @Success 200 {object} models.Page[models.Game]
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /games [get]
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	q, apiErr := h.parseListQuery(r, h.config.API.GamesPageSize)
	if apiErr != nil {
		respondAPIError(w, r, apiErr)
		return
	}

	page, err := h.catalog.ListGames(r.Context(), q.Page, q.Limit)
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetGame godoc
//
// @Summary Get a game
// @Tags Games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} models.ErrorResponse
// @Router /games/{id} [get]
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindGames)
		return
	}

	game, err := h.catalog.Game(r.Context(), id)
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// CreateGame godoc
//
// @Summary Create a game
// @Description Accepts JSON or multipart form data with an optional "image" file.
// @Tags Games
// @Accept json,mpfd
// @Produce json
// @Param game body models.GameInput true "Game fields"
// @Success 201 {object} models.Game
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /games [post]
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r, models.KindGames)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, image, err := body.Game()
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}

	game, err := h.catalog.CreateGame(r.Context(), in, image)
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

// UpdateGame godoc
//
// @Summary Update a game
// @Description Merges the supplied fields into the stored game. Empty fields keep their value.
// @Tags Games
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Game ID"
// @Param game body models.GameInput true "Game fields"
// @Success 200 {object} models.Game
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /games/{id} [put]
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindGames)
		return
	}

	body, ok := h.readBody(w, r, models.KindGames)
	if !ok {
		return
	}
	defer closeBody(r, body)

	in, image, err := body.Game()
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}

	game, err := h.catalog.UpdateGame(r.Context(), id, in, image)
	if err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// DeleteGame godoc
//
// @Summary Delete a game
// @Tags Games
// @Param id path int true "Game ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /games/{id} [delete]
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondNotFound(w, r, models.KindGames)
		return
	}

	if err := h.catalog.DeleteGame(r.Context(), id); err != nil {
		respondFailure(w, r, models.KindGames, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
