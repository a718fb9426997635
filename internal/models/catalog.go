// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package models defines the catalog records and the request and response
// shapes shared by the store, the API and the web views.
package models

// Kind names a record collection. The value doubles as the collection key in
// the JSON document and the URL segment under /api.
type Kind string

const (
	KindGames Kind = "games"
	KindSongs Kind = "songs"
	KindClips Kind = "clips"
)

// AllKinds lists the collections in document order.
var AllKinds = []Kind{KindGames, KindSongs, KindClips}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Singular returns the display name of one record of the kind.
func (k Kind) Singular() string {
	switch k {
	case KindGames:
		return "Game"
	case KindSongs:
		return "Song"
	case KindClips:
		return "Clip"
	default:
		return string(k)
	}
}

// Record is implemented by every catalog record.
type Record interface {
	RecordID() int64
}

// GameStatus is the play state of a game.
type GameStatus string

const (
	StatusPlaying   GameStatus = "Playing"
	StatusCompleted GameStatus = "Completed"
	StatusPending   GameStatus = "Pending"
	StatusAbandoned GameStatus = "Abandoned"
)

// GameStatuses lists every status in display order.
var GameStatuses = []GameStatus{StatusPlaying, StatusCompleted, StatusPending, StatusAbandoned}

// Game is a video game in the collection.
type Game struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Status     GameStatus `json:"status"`
	Rating     *float64   `json:"rating"`
	Notes      string     `json:"notes"`
	TrailerURL string     `json:"trailerUrl"`
	LaunchDate *string    `json:"launchDate"`
	ImageURL   string     `json:"imageUrl"`
}

// RecordID implements Record.
func (g Game) RecordID() int64 { return g.ID }

// Song is a music track linked to a YouTube video.
type Song struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	YouTubeURL    string `json:"youtubeUrl"`
	CoverImageURL string `json:"coverImageUrl"`
}

// RecordID implements Record.
func (s Song) RecordID() int64 { return s.ID }

// Cover returns the cover image, falling back to the YouTube thumbnail.
func (s Song) Cover() string {
	if s.CoverImageURL != "" {
		return s.CoverImageURL
	}
	return YouTubeThumbnail(s.YouTubeURL)
}

// Clip is an uploaded video clip with its thumbnail.
type Clip struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
}

// RecordID implements Record.
func (c Clip) RecordID() int64 { return c.ID }
