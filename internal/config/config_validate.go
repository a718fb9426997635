// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/mediashelf/internal/logging"
)

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendJSON, BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be one of json, badger, sqlite, got %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path is required")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.BucketURL == "" && strings.TrimSpace(c.Uploads.Dir) == "" {
		return errors.New("uploads.dir or uploads.bucket_url is required")
	}
	if c.Uploads.MaxUploadMB < 1 {
		return fmt.Errorf("uploads.max_upload_mb must be at least 1, got %d", c.Uploads.MaxUploadMB)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("api.max_page_size must be at least 1, got %d", c.API.MaxPageSize)
	}
	for name, size := range map[string]int{
		"api.games_page_size": c.API.GamesPageSize,
		"api.songs_page_size": c.API.SongsPageSize,
	} {
		if size < 1 || size > c.API.MaxPageSize {
			return fmt.Errorf("%s must be between 1 and api.max_page_size (%d), got %d", name, c.API.MaxPageSize, size)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return errors.New("security.rate_limit_window must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
