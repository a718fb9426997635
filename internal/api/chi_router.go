// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/media"
	"github.com/tomtom215/mediashelf/internal/middleware"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/websocket"
)

// PageRoutes registers the server-rendered pages and their assets.
type PageRoutes interface {
	Register(r chi.Router)
}

// Router wires handlers, middleware and the auxiliary endpoints together.
type Router struct {
	handler       *Handler
	config        *config.Config
	chiMiddleware *ChiMiddleware
	hub           *websocket.Hub
	uploads       http.Handler
	pages         PageRoutes
}

// NewRouter creates a router. hub, uploads and pages may be nil, in which
// case their routes are not mounted.
func NewRouter(handler *Handler, cfg *config.Config, hub *websocket.Hub, uploads http.Handler, pages PageRoutes) *Router {
	return &Router{
		handler:       handler,
		config:        cfg,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(cfg.Security)),
		hub:           hub,
		uploads:       uploads,
		pages:         pages,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// collectionRoutes are the CRUD handlers of one kind.
type collectionRoutes struct {
	list, get, create, update, remove http.HandlerFunc
}

// Setup builds the complete HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chiMiddleware(middleware.RequestLogger))
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(APISecurityHeaders())

		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
		})

		// Health checks are cheap and never rate limited.
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)

		if router.hub != nil {
			r.Get("/ws", websocket.Handler(router.hub, websocket.AllowOrigins(router.config.Security.CORSOrigins)))
		}

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.Compression))

			r.Get("/stats", router.handler.Stats)
			if router.config.Debug.Enabled {
				r.Get("/debug", router.handler.Debug)
			}

			h := router.handler
			router.registerCollection(r, models.KindGames, collectionRoutes{
				list: h.ListGames, get: h.GetGame, create: h.CreateGame, update: h.UpdateGame, remove: h.DeleteGame,
			})
			router.registerCollection(r, models.KindSongs, collectionRoutes{
				list: h.ListSongs, get: h.GetSong, create: h.CreateSong, update: h.UpdateSong, remove: h.DeleteSong,
			})
			router.registerCollection(r, models.KindClips, collectionRoutes{
				list: h.ListClips, get: h.GetClip, create: h.CreateClip, update: h.UpdateClip, remove: h.DeleteClip,
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if router.uploads != nil {
		r.With(APISecurityHeaders()).Handle(media.URLPrefix+"*", http.StripPrefix(media.URLPrefix, router.uploads))
	}

	if router.pages != nil {
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			r.Use(chiMiddleware(middleware.SecurityHeaders))
			r.Use(chiMiddleware(middleware.Compression))
			router.pages.Register(r)
		})
	}

	return r
}

// registerCollection mounts /{kind} and /{kind}/{id}. Mutations are rate
// limited.
func (router *Router) registerCollection(r chi.Router, kind models.Kind, c collectionRoutes) {
	limit := router.chiMiddleware.RateLimit()

	r.Route("/"+string(kind), func(r chi.Router) {
		r.Get("/", c.list)
		r.With(limit).Post("/", c.create)
		r.Get("/{id}", c.get)
		r.With(limit).Put("/{id}", c.update)
		r.With(limit).Delete("/{id}", c.remove)
	})
}
