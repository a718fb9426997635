// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package web

import (
	"net/url"
	"strconv"
)

// Page names a top-level view.
type Page string

const (
	PageHome      Page = "home"
	PageGames     Page = "games"
	PageMusic     Page = "music"
	PageClips     Page = "clips"
	PageContent   Page = "content"
	PageDashboard Page = "dashboard"
)

// Path returns the URL path that renders p.
func (p Page) Path() string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

// Navigator tracks the current view and its page number.
type Navigator struct {
	Current Page
	Number  int
}

// NewNavigator starts on the home view.
func NewNavigator() *Navigator {
	return &Navigator{Current: PageHome, Number: 1}
}

// Navigate switches to page and resets the page number.
func (n *Navigator) Navigate(page Page) {
	n.Current = page
	n.Number = 1
}

// Step moves the page number by delta. The server reports the valid range,
// so no bounds are enforced here.
func (n *Navigator) Step(delta int) {
	n.Number += delta
}

// Active reports whether page is the current view.
func (n *Navigator) Active(page Page) bool {
	return n.Current == page
}

// Link returns the URL of the current view delta pages away.
func (n *Navigator) Link(delta int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(n.Number+delta))
	return n.Current.Path() + "?" + q.Encode()
}
