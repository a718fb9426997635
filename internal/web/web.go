// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package web serves the server-rendered catalog pages and the browser
// bundle that turns them into a single-page app.
//
// Every page renders a full HTML document, or only its view when the
// request carries ?fragment=1. The bundle in static/app.js intercepts
// navigation, fetches fragments and swaps them into #page-container, so the
// same templates serve both JavaScript and non-JavaScript clients.
//
// The management view (/content) uses plain form posts that redirect back
// with 303 See Other, which also works without JavaScript.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/models"
)

//go:embed static
var staticFS embed.FS

// Pages implements the HTML routes.
type Pages struct {
	catalog  *catalog.Service
	config   *config.Config
	renderer *Renderer
	static   http.Handler
}

// New creates the page handlers.
func New(svc *catalog.Service, cfg *config.Config) (*Pages, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return &Pages{
		catalog:  svc,
		config:   cfg,
		renderer: renderer,
		static:   http.StripPrefix("/static/", http.FileServer(http.FS(sub))),
	}, nil
}

// Register mounts the pages on r.
func (p *Pages) Register(r chi.Router) {
	r.Get("/", p.Home)
	r.Get("/games", p.Games)
	r.Get("/games/{id}", p.GameDetail)
	r.Get("/music", p.Music)
	r.Get("/clips", p.Clips)
	r.Get("/dashboard", p.Dashboard)

	r.Get("/content", p.Content)
	r.Post("/content/{kind}", p.CreateRecord)
	r.Post("/content/{kind}/{id}", p.UpdateRecord)
	r.Post("/content/{kind}/{id}/delete", p.DeleteRecord)

	r.Get("/static/*", p.static.ServeHTTP)
}

// pageData is the root object of every template.
type pageData struct {
	Title    string
	Nav      *Navigator
	Fragment bool
	Flash    string
	FlashErr bool
	View     interface{}
}

func newPageData(r *http.Request, page Page, title string, view interface{}) *pageData {
	nav := NewNavigator()
	nav.Navigate(page)
	return &pageData{
		Title:    title,
		Nav:      nav,
		Fragment: r.URL.Query().Get("fragment") == "1",
		View:     view,
	}
}

// pageNumber reads ?page=, treating anything unusable as the first page.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// renderError shows the generic error view.
func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, page Page, status int, message string) {
	data := newPageData(r, page, "Error", message)
	p.renderer.Render(w, r, status, "error", data)
}

type homeView struct {
	Stats models.Stats
	Games []models.Game
}

// Home renders the welcome view with collection totals.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := p.catalog.Stats(r.Context())
	if err != nil {
		p.renderError(w, r, PageHome, http.StatusInternalServerError, "Could not load the catalog.")
		return
	}
	recent, err := p.catalog.ListGames(r.Context(), 1, 3)
	if err != nil {
		p.renderError(w, r, PageHome, http.StatusInternalServerError, "Could not load the catalog.")
		return
	}
	p.renderer.Render(w, r, http.StatusOK, "home", newPageData(r, PageHome, "Mediashelf", homeView{Stats: stats, Games: recent.Items}))
}

// Dashboard renders per-kind totals.
func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := p.catalog.Stats(r.Context())
	if err != nil {
		p.renderError(w, r, PageDashboard, http.StatusInternalServerError, "Could not load the catalog.")
		return
	}
	p.renderer.Render(w, r, http.StatusOK, "dashboard", newPageData(r, PageDashboard, "Dashboard", stats))
}

// Games renders one page of the game gallery.
func (p *Pages) Games(w http.ResponseWriter, r *http.Request) {
	n := pageNumber(r)
	page, err := p.catalog.ListGames(r.Context(), n, p.config.API.GamesPageSize)
	if err != nil {
		p.renderError(w, r, PageGames, http.StatusInternalServerError, "Could not load games.")
		return
	}
	data := newPageData(r, PageGames, "Games", page)
	data.Nav.Step(n - 1)
	p.renderer.Render(w, r, http.StatusOK, "games", data)
}

// GameDetail renders one game. As a fragment it is the body of the detail
// modal.
func (p *Pages) GameDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		p.renderError(w, r, PageGames, http.StatusNotFound, "Game not found")
		return
	}
	game, err := p.catalog.Game(r.Context(), id)
	if err != nil {
		status, message := failure(models.KindGames, err)
		p.renderError(w, r, PageGames, status, message)
		return
	}
	p.renderer.Render(w, r, http.StatusOK, "game", newPageData(r, PageGames, game.Title, game))
}

// Music renders one page of the song gallery.
func (p *Pages) Music(w http.ResponseWriter, r *http.Request) {
	n := pageNumber(r)
	page, err := p.catalog.ListSongs(r.Context(), n, p.config.API.SongsPageSize)
	if err != nil {
		p.renderError(w, r, PageMusic, http.StatusInternalServerError, "Could not load music.")
		return
	}
	data := newPageData(r, PageMusic, "Music", page)
	data.Nav.Step(n - 1)
	p.renderer.Render(w, r, http.StatusOK, "music", data)
}

// Clips renders every clip.
func (p *Pages) Clips(w http.ResponseWriter, r *http.Request) {
	list, err := p.catalog.ListClips(r.Context())
	if err != nil {
		p.renderError(w, r, PageClips, http.StatusInternalServerError, "Could not load clips.")
		return
	}
	p.renderer.Render(w, r, http.StatusOK, "clips", newPageData(r, PageClips, "Clips", list.Clips))
}
