// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package models

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Field is one submitted value. Form posts and JSON bodies decode to the same
// representation: strings as-is, numbers as their literal text, and null or
// false as the empty string. An empty Field never overwrites a stored value.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	default:
		*f = Field(b)
	}
	return nil
}

// Or returns the field, or fallback when the field is empty.
func (f Field) Or(fallback string) string {
	if f == "" {
		return fallback
	}
	return string(f)
}

// ptr returns nil for an empty field.
func (f Field) ptr() *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

// float returns the parsed number, or nil when empty or not numeric.
func (f Field) float() *float64 {
	if f == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return nil
	}
	return &v
}

// GameInput is a create or update request for a game.
type GameInput struct {
	Title      Field `json:"title"`
	Status     Field `json:"status" validate:"omitempty,oneof=Playing Completed Pending Abandoned"`
	Rating     Field `json:"rating" validate:"omitempty,rating"`
	Notes      Field `json:"notes"`
	TrailerURL Field `json:"trailerUrl"`
	LaunchDate Field `json:"launchDate"`
	ImageURL   Field `json:"imageUrl"`
}

// GameInputFromForm reads a GameInput from form values.
func GameInputFromForm(v url.Values) GameInput {
	return GameInput{
		Title:      Field(v.Get("title")),
		Status:     Field(v.Get("status")),
		Rating:     Field(v.Get("rating")),
		Notes:      Field(v.Get("notes")),
		TrailerURL: Field(v.Get("trailerUrl")),
		LaunchDate: Field(v.Get("launchDate")),
		ImageURL:   Field(v.Get("imageUrl")),
	}
}

// NewGame builds a game from the input. uploadedImage, when set, wins over
// the imageUrl field.
func (in GameInput) NewGame(id int64, uploadedImage string) Game {
	return Game{
		ID:         id,
		Title:      string(in.Title),
		Status:     GameStatus(in.Status.Or(string(StatusPlaying))),
		Rating:     in.Rating.float(),
		Notes:      string(in.Notes),
		TrailerURL: string(in.TrailerURL),
		LaunchDate: in.LaunchDate.ptr(),
		ImageURL:   firstNonEmpty(uploadedImage, string(in.ImageURL)),
	}
}

// Apply merges the input over g. Empty fields keep the stored value.
func (in GameInput) Apply(g *Game, uploadedImage string) {
	g.Title = in.Title.Or(g.Title)
	g.Status = GameStatus(in.Status.Or(string(g.Status)))
	if r := in.Rating.float(); r != nil {
		g.Rating = r
	}
	g.Notes = in.Notes.Or(g.Notes)
	g.TrailerURL = in.TrailerURL.Or(g.TrailerURL)
	if d := in.LaunchDate.ptr(); d != nil {
		g.LaunchDate = d
	}
	g.ImageURL = firstNonEmpty(uploadedImage, string(in.ImageURL), g.ImageURL)
}

// SongInput is a create or update request for a song.
type SongInput struct {
	Title         Field `json:"title"`
	Artist        Field `json:"artist"`
	YouTubeURL    Field `json:"youtubeUrl"`
	CoverImageURL Field `json:"coverImageUrl"`
}

// SongInputFromForm reads a SongInput from form values.
func SongInputFromForm(v url.Values) SongInput {
	return SongInput{
		Title:         Field(v.Get("title")),
		Artist:        Field(v.Get("artist")),
		YouTubeURL:    Field(v.Get("youtubeUrl")),
		CoverImageURL: Field(v.Get("coverImageUrl")),
	}
}

// NewSong builds a song from the input.
func (in SongInput) NewSong(id int64) Song {
	return Song{
		ID:            id,
		Title:         string(in.Title),
		Artist:        string(in.Artist),
		YouTubeURL:    string(in.YouTubeURL),
		CoverImageURL: string(in.CoverImageURL),
	}
}

// Apply merges the input over s.
func (in SongInput) Apply(s *Song) {
	s.Title = in.Title.Or(s.Title)
	s.Artist = in.Artist.Or(s.Artist)
	s.YouTubeURL = in.YouTubeURL.Or(s.YouTubeURL)
	s.CoverImageURL = in.CoverImageURL.Or(s.CoverImageURL)
}

// ClipInput is a create or update request for a clip. File fields arrive as
// uploads, not as values.
type ClipInput struct {
	Title       Field `json:"title"`
	Description Field `json:"description"`
}

// ClipInputFromForm reads a ClipInput from form values.
func ClipInputFromForm(v url.Values) ClipInput {
	return ClipInput{
		Title:       Field(v.Get("title")),
		Description: Field(v.Get("description")),
	}
}

// ClipMedia holds the stored URLs of files uploaded with a clip request.
// Empty members mean no file was sent.
type ClipMedia struct {
	ThumbnailURL string
	VideoURL     string
}

// NewClip builds a clip from the input and its uploads.
func (in ClipInput) NewClip(id int64, media ClipMedia) Clip {
	return Clip{
		ID:           id,
		Title:        string(in.Title),
		Description:  string(in.Description),
		ThumbnailURL: media.ThumbnailURL,
		VideoURL:     media.VideoURL,
	}
}

// Apply merges the input and any new uploads over c.
func (in ClipInput) Apply(c *Clip, media ClipMedia) {
	c.Title = in.Title.Or(c.Title)
	c.Description = in.Description.Or(c.Description)
	c.ThumbnailURL = firstNonEmpty(media.ThumbnailURL, c.ThumbnailURL)
	c.VideoURL = firstNonEmpty(media.VideoURL, c.VideoURL)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
