// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package config loads the server configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file, then environment variables. The result is validated before use.
package config

import "time"

// Store backend names.
const (
	BackendJSON   = "json"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Events   EventsConfig   `koanf:"events"`
	Debug    DebugConfig    `koanf:"debug"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// StoreConfig selects and locates the record store.
type StoreConfig struct {
	// Backend is json, badger or sqlite.
	Backend string `koanf:"backend"`

	// Path is the JSON document, the badger directory or the sqlite file.
	Path string `koanf:"path"`
}

// UploadsConfig controls where uploaded media is kept.
type UploadsConfig struct {
	// Dir is used when BucketURL is empty.
	Dir string `koanf:"dir"`

	// BucketURL is a gocloud.dev blob URL (file://, mem://, s3://).
	BucketURL string `koanf:"bucket_url"`

	MaxUploadMB int64 `koanf:"max_upload_mb"`
}

// MaxUploadBytes returns the request body limit for upload routes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	return u.MaxUploadMB << 20
}

// APIConfig holds pagination defaults.
type APIConfig struct {
	GamesPageSize int `koanf:"games_page_size"`
	SongsPageSize int `koanf:"songs_page_size"`
	MaxPageSize   int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EventsConfig controls catalog change notifications.
type EventsConfig struct {
	Enabled bool  `koanf:"enabled"`
	Buffer  int64 `koanf:"buffer"`
}

// DebugConfig controls the store introspection endpoint.
type DebugConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
