// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package main provides the Mediashelf HTTP server
//
// @title Mediashelf API
// @version 1.0
// @description Catalog of games, songs and clips with uploaded cover art and video.
// @description
// @description ## Pagination
// @description
// @description `GET /games` and `GET /songs` accept `page` (default 1) and `limit`.
// @description Pages past the end return an empty `items` array.
// @description
// @description ## Uploads
// @description
// @description Game and clip writes accept multipart forms. Stored files are served from `/uploads/`.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "error": "Game not found",
// @description   "code": "NOT_FOUND"
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/mediashelf/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api
// @schemes http https
//
// @tag.name Games
// @tag.description Game records with status, rating and cover image
//
// @tag.name Songs
// @tag.description Song records linked to YouTube
//
// @tag.name Clips
// @tag.description Uploaded video clips with thumbnails
//
// @tag.name Core
// @tag.description Health checks, statistics and store introspection
//
// @tag.name Realtime
// @tag.description WebSocket feed of catalog changes
package main
