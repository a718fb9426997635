// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutFiles are parsed into every view.
var layoutFiles = []string{"templates/layout.html", "templates/partials.html"}

// Renderer executes the page templates. Each view file defines a "view"
// template; the layout wraps it unless a fragment is requested.
type Renderer struct {
	views map[string]*template.Template
}

// NewRenderer parses every embedded view.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcMap()).ParseFS(templateFS, layoutFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{views: make(map[string]*template.Template)}
	for _, file := range files {
		if isLayoutFile(file) {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		view, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.views[strings.TrimSuffix(path.Base(file), ".html")] = view
	}
	return r, nil
}

func isLayoutFile(file string) bool {
	for _, f := range layoutFiles {
		if f == file {
			return true
		}
	}
	return false
}

// Render writes view with status. The template is executed into a buffer
// first so a failure never produces half a page.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, view string, data *pageData) {
	tmpl, ok := r.views[view]
	if !ok {
		logging.Ctx(req.Context()).Error().Str("view", view).Msg("Unknown view")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	name := "layout"
	if data.Fragment {
		name = "view"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Ctx(req.Context()).Error().Err(err).Str("view", view).Msg("Failed to render view")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(req.Context()).Debug().Err(err).Msg("Failed to write view")
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatNumber": formatWithCommas,
		"formatDate":   formatDate,
		"stars":        Stars,
		"truncate": func(s string, maxLen int) string {
			if len([]rune(s)) <= maxLen {
				return s
			}
			return string([]rune(s)[:maxLen]) + "..."
		},
		"youtubeID":    models.YouTubeID,
		"youtubeEmbed": models.YouTubeEmbed,
		"statuses":     func() []models.GameStatus { return models.GameStatuses },
		"ratingValue": func(r *float64) string {
			if r == nil {
				return ""
			}
			return strconv.FormatFloat(*r, 'f', -1, 64)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// Stars renders a rating as five stars, filled up to the floored value:
// "★★★☆☆ (3.5/5)". A missing rating renders "No rating".
func Stars(rating *float64) string {
	if rating == nil || *rating <= 0 {
		return "No rating"
	}
	full := int(math.Floor(*rating))
	if full > 5 {
		full = 5
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full) +
		" (" + strconv.FormatFloat(*rating, 'f', -1, 64) + "/5)"
}

// formatDate renders a stored launch date as "Jan 2, 2006". Values that do
// not parse are shown as stored.
func formatDate(s *string) string {
	if s == nil || *s == "" {
		return "No date"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return *s
}

// formatWithCommas formats an integer with thousands separators.
func formatWithCommas(n int) string {
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	s := strconv.Itoa(n)
	if n < 1000 {
		return s
	}

	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
