// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/events"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/payload"
	"github.com/tomtom215/mediashelf/internal/store"
	"github.com/tomtom215/mediashelf/internal/validation"
)

// contentListLimit caps the games and songs listed in the management view.
const contentListLimit = 100

// contentView is the management view: every collection plus one form.
type contentView struct {
	Tab        models.Kind
	Form       Form
	Games      []models.Game
	GamesTotal int
	Songs      []models.Song
	SongsTotal int
	Clips      []models.Clip

	// Values prefill the form in edit mode.
	Game models.Game
	Song models.Song
	Clip models.Clip
}

func (v contentView) Tabs() []models.Kind { return models.AllKinds }

// Content renders GET /content?tab=&edit=.
func (p *Pages) Content(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab, ok := models.ParseKind(q.Get("tab"))
	if !ok {
		tab = models.KindGames
	}

	var mode FormMode = CreateMode{}
	var flash string
	if raw := q.Get("edit"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			mode = EditMode{ID: id}
		} else {
			flash = fmt.Sprintf("%s not found. Showing the add form instead.", tab.Singular())
		}
	}

	data, err := p.contentData(r, tab, mode)
	if errors.Is(err, store.ErrNotFound) {
		flash = fmt.Sprintf("%s not found. Showing the add form instead.", tab.Singular())
		data, err = p.contentData(r, tab, CreateMode{})
	}
	if err != nil {
		p.renderError(w, r, PageContent, http.StatusInternalServerError, "Could not load the catalog.")
		return
	}

	if flash != "" {
		data.Flash, data.FlashErr = flash, true
	} else if action := q.Get("flash"); action != "" {
		data.Flash = flashMessage(tab, events.Action(action))
	}
	p.renderer.Render(w, r, http.StatusOK, "content", data)
}

// contentData loads all three collections and, in edit mode, the record
// being edited.
func (p *Pages) contentData(r *http.Request, tab models.Kind, mode FormMode) (*pageData, error) {
	ctx := r.Context()
	v := contentView{Tab: tab, Form: NewForm(tab, mode)}

	if m, ok := mode.(EditMode); ok {
		if err := p.loadEditing(ctx, &v, m.ID); err != nil {
			return nil, err
		}
	}

	games, err := p.catalog.ListGames(ctx, 1, contentListLimit)
	if err != nil {
		return nil, err
	}
	songs, err := p.catalog.ListSongs(ctx, 1, contentListLimit)
	if err != nil {
		return nil, err
	}
	clips, err := p.catalog.ListClips(ctx)
	if err != nil {
		return nil, err
	}
	v.Games, v.GamesTotal = games.Items, games.Total
	v.Songs, v.SongsTotal = songs.Items, songs.Total
	v.Clips = clips.Clips

	return newPageData(r, PageContent, "Manage content", v), nil
}

func (p *Pages) loadEditing(ctx context.Context, v *contentView, id int64) error {
	var err error
	switch v.Tab {
	case models.KindGames:
		v.Game, err = p.catalog.Game(ctx, id)
	case models.KindSongs:
		v.Song, err = p.catalog.Song(ctx, id)
	case models.KindClips:
		v.Clip, err = p.catalog.Clip(ctx, id)
	}
	return err
}

// CreateRecord handles POST /content/{kind}.
func (p *Pages) CreateRecord(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		p.renderError(w, r, PageContent, http.StatusNotFound, "Unknown collection")
		return
	}
	if err := p.save(w, r, kind, CreateMode{}); err != nil {
		p.contentFailure(w, r, kind, CreateMode{}, err)
		return
	}
	p.redirectToContent(w, r, kind, events.ActionCreated)
}

// UpdateRecord handles POST /content/{kind}/{id}.
func (p *Pages) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := p.kindAndID(w, r)
	if !ok {
		return
	}
	mode := EditMode{ID: id}
	if err := p.save(w, r, kind, mode); err != nil {
		p.contentFailure(w, r, kind, mode, err)
		return
	}
	p.redirectToContent(w, r, kind, events.ActionUpdated)
}

// DeleteRecord handles POST /content/{kind}/{id}/delete.
func (p *Pages) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := p.kindAndID(w, r)
	if !ok {
		return
	}

	var err error
	switch kind {
	case models.KindGames:
		err = p.catalog.DeleteGame(r.Context(), id)
	case models.KindSongs:
		err = p.catalog.DeleteSong(r.Context(), id)
	case models.KindClips:
		err = p.catalog.DeleteClip(r.Context(), id)
	}
	if err != nil {
		p.contentFailure(w, r, kind, CreateMode{}, err)
		return
	}
	p.redirectToContent(w, r, kind, events.ActionDeleted)
}

func (p *Pages) kindAndID(w http.ResponseWriter, r *http.Request) (models.Kind, int64, bool) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		p.renderError(w, r, PageContent, http.StatusNotFound, "Unknown collection")
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		p.contentFailure(w, r, kind, CreateMode{}, store.ErrNotFound)
		return "", 0, false
	}
	return kind, id, true
}

// save decodes the posted form and creates or updates one record.
func (p *Pages) save(w http.ResponseWriter, r *http.Request, kind models.Kind, mode FormMode) error {
	body, err := payload.Read(w, r, p.config.Uploads.MaxUploadBytes())
	if err != nil {
		return err
	}
	defer func() {
		if err := body.Close(); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to release form")
		}
	}()

	ctx := r.Context()
	edit, editing := mode.(EditMode)

	switch kind {
	case models.KindGames:
		in, image, err := body.Game()
		if err != nil {
			return err
		}
		if editing {
			_, err = p.catalog.UpdateGame(ctx, edit.ID, in, image)
		} else {
			_, err = p.catalog.CreateGame(ctx, in, image)
		}
		return err

	case models.KindSongs:
		in, err := body.Song()
		if err != nil {
			return err
		}
		if editing {
			_, err = p.catalog.UpdateSong(ctx, edit.ID, in)
		} else {
			_, err = p.catalog.CreateSong(ctx, in)
		}
		return err

	default:
		in, files, err := body.Clip()
		if err != nil {
			return err
		}
		if editing {
			_, err = p.catalog.UpdateClip(ctx, edit.ID, in, files)
		} else {
			_, err = p.catalog.CreateClip(ctx, in, files)
		}
		return err
	}
}

// redirectToContent answers a successful post with 303 See Other.
func (p *Pages) redirectToContent(w http.ResponseWriter, r *http.Request, kind models.Kind, action events.Action) {
	q := url.Values{}
	q.Set("tab", string(kind))
	q.Set("flash", string(action))
	if r.URL.Query().Get("fragment") == "1" {
		q.Set("fragment", "1")
	}
	http.Redirect(w, r, "/content?"+q.Encode(), http.StatusSeeOther)
}

// contentFailure re-renders the management view with the error as a flash
// message, keeping the form in mode when its record still exists.
func (p *Pages) contentFailure(w http.ResponseWriter, r *http.Request, kind models.Kind, mode FormMode, cause error) {
	status, message := failure(kind, cause)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(cause).Str("kind", string(kind)).Msg("Content form failed")
	}

	data, err := p.contentData(r, kind, mode)
	if err != nil {
		data, err = p.contentData(r, kind, CreateMode{})
	}
	if err != nil {
		p.renderError(w, r, PageContent, status, message)
		return
	}
	data.Flash, data.FlashErr = message, true
	p.renderer.Render(w, r, status, "content", data)
}

func flashMessage(kind models.Kind, action events.Action) string {
	switch action {
	case events.ActionCreated, events.ActionUpdated, events.ActionDeleted:
		return kind.Singular() + " " + string(action)
	default:
		return ""
	}
}

// failure maps an error to a status and a message fit for display.
func failure(kind models.Kind, err error) (int, string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, kind.Singular() + " not found"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.ToAPIError().Message
	case errors.Is(err, payload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "The upload is too large"
	case errors.Is(err, payload.ErrInvalid):
		return http.StatusBadRequest, "The form could not be read"
	case errors.Is(err, catalog.ErrUpload):
		return http.StatusInternalServerError, "The file could not be stored"
	default:
		return http.StatusInternalServerError, "Something went wrong while saving"
	}
}
