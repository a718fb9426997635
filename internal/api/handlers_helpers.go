// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/payload"
	"github.com/tomtom215/mediashelf/internal/store"
	"github.com/tomtom215/mediashelf/internal/validation"
)

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an error body.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("error", sanitizeLogValue(message)).
			Str("path", r.URL.Path).
			Msg("API error")
	}
	respondJSON(w, status, models.ErrorResponse{Error: message, Code: code, Details: details})
}

func respondAPIError(w http.ResponseWriter, r *http.Request, apiErr *validation.APIError) {
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

func respondNotFound(w http.ResponseWriter, r *http.Request, kind models.Kind) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, kind.Singular()+" not found", nil)
}

// respondFailure maps a catalog, payload or store error to a response.
func respondFailure(w http.ResponseWriter, r *http.Request, kind models.Kind, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondNotFound(w, r, kind)
	case errors.As(err, &verr):
		respondAPIError(w, r, verr.ToAPIError())
	case errors.Is(err, payload.ErrTooLarge):
		respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "Request body too large", nil)
	case errors.Is(err, payload.ErrInvalid):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, catalog.ErrUpload):
		respondError(w, r, http.StatusInternalServerError, ErrCodeUpload, err.Error(), nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeStore, err.Error(), nil)
	}
}

// parseID reads the {id} URL parameter. Non-numeric ids are reported as
// missing, which handlers answer with 404.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// listQuery holds validated pagination parameters.
type listQuery struct {
	Page  int `json:"page" validate:"min=1"`
	Limit int `json:"limit" validate:"min=1"`
}

// parseListQuery reads page and limit, defaulting to page 1 and
// defaultLimit, and rejects values outside 1..MaxPageSize.
func (h *Handler) parseListQuery(r *http.Request, defaultLimit int) (listQuery, *validation.APIError) {
	q := listQuery{Page: 1, Limit: defaultLimit}
	values := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return q, &validation.APIError{
				Code:    ErrCodeValidation,
				Message: p.name + " must be a number",
				Details: map[string]interface{}{"field": p.name, "tag": "number", "value": raw},
			}
		}
		*p.dst = n
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
		return q, verr.ToAPIError()
	}
	if max := h.config.API.MaxPageSize; max > 0 && q.Limit > max {
		return q, &validation.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("limit must be %d or less", max),
			Details: map[string]interface{}{"field": "limit", "tag": "max", "value": q.Limit},
		}
	}
	return q, nil
}

// readBody decodes the request body, answering the request itself on
// failure.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, kind models.Kind) (*payload.Body, bool) {
	body, err := payload.Read(w, r, h.config.Uploads.MaxUploadBytes())
	if err != nil {
		respondFailure(w, r, kind, err)
		return nil, false
	}
	return body, true
}

func closeBody(r *http.Request, body *payload.Body) {
	if err := body.Close(); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to release request body")
	}
}
