// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package models

import (
	"regexp"
	"strings"
)

var (
	youtubeDelimiter = regexp.MustCompile(`(vi/|v=|/v/|youtu\.be/|/embed/)`)
	youtubeIDEnd     = regexp.MustCompile(`[^0-9A-Za-z_\-]`)
)

// YouTubeID extracts the video id from a YouTube URL. The id is the text
// after the first recognised delimiter, up to the next delimiter or the first
// character that cannot appear in an id. A URL without a delimiter is
// returned unchanged.
func YouTubeID(rawURL string) string {
	loc := youtubeDelimiter.FindStringIndex(rawURL)
	if loc == nil {
		return rawURL
	}
	rest := rawURL[loc[1]:]
	if next := youtubeDelimiter.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	if end := youtubeIDEnd.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest
}

// YouTubeThumbnail returns the high quality thumbnail URL for a video link,
// or "" when no id can be found.
func YouTubeThumbnail(rawURL string) string {
	id := YouTubeID(strings.TrimSpace(rawURL))
	if id == "" || youtubeIDEnd.MatchString(id) {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

// YouTubeEmbed returns the embeddable player URL for a video link, or "".
func YouTubeEmbed(rawURL string) string {
	id := YouTubeID(strings.TrimSpace(rawURL))
	if id == "" || youtubeIDEnd.MatchString(id) {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
