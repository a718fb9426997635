// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package models

// ErrorResponse is the body of every API error.
//
//	{"error": "Game not found", "code": "NOT_FOUND"}
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Stats holds per-collection record counts.
type Stats struct {
	Games int `json:"games"`
	Songs int `json:"songs"`
	Clips int `json:"clips"`
}

// Total returns the number of records across all collections.
func (s Stats) Total() int { return s.Games + s.Songs + s.Clips }

// FileContent summarises the store file as decoded straight from disk.
type FileContent struct {
	Games int    `json:"games"`
	Songs int    `json:"songs"`
	Clips int    `json:"clips"`
	Error string `json:"error,omitempty"`
}

// StoreInspection describes where and how records are persisted.
type StoreInspection struct {
	Backend     string       `json:"backend"`
	Path        string       `json:"filePath"`
	Exists      bool         `json:"fileExists"`
	SizeBytes   int64        `json:"sizeBytes"`
	FileContent *FileContent `json:"fileContent"`
}

// DebugInfo is the body of GET /api/debug.
type DebugInfo struct {
	StoreInspection
	Data        Stats  `json:"data"`
	SampleGames []Game `json:"sampleGames"`
	SampleSongs []Song `json:"sampleSongs"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}
