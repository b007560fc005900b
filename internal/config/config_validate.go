// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	if c.Storage.PrivateDir == "" {
		return fmt.Errorf("FINTRACK_PRIVATE_DIR is required")
	}
	if !filepath.IsAbs(c.Storage.PrivateDir) {
		return fmt.Errorf("FINTRACK_PRIVATE_DIR must be an absolute path, got: %s", c.Storage.PrivateDir)
	}
	if c.Storage.SharedDir == "" {
		return fmt.Errorf("FINTRACK_SHARED_DIR is required")
	}
	if !filepath.IsAbs(c.Storage.SharedDir) {
		return fmt.Errorf("FINTRACK_SHARED_DIR must be an absolute path, got: %s", c.Storage.SharedDir)
	}

	switch strings.ToLower(c.Storage.SharedAccess) {
	case SharedAccessAuto, SharedAccessDirect, SharedAccessMediated:
	default:
		return fmt.Errorf("FINTRACK_SHARED_ACCESS must be one of: auto, direct, mediated (got %q)", c.Storage.SharedAccess)
	}

	if c.Storage.KeepPrivate < 0 {
		return fmt.Errorf("FINTRACK_KEEP_PRIVATE must be >= 0, got: %d", c.Storage.KeepPrivate)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.GCInterval < 0 {
		return fmt.Errorf("FINTRACK_DB_GC_INTERVAL must not be negative, got: %s", c.Database.GCInterval)
	}
	if c.Database.InMemory {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("FINTRACK_DB_PATH is required unless FINTRACK_DB_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateNotify() error {
	if c.Notify.ProgressInterval < 0 {
		return fmt.Errorf("FINTRACK_PROGRESS_INTERVAL must not be negative, got: %s", c.Notify.ProgressInterval)
	}
	if c.Notify.ProgressBurst < 1 {
		return fmt.Errorf("FINTRACK_PROGRESS_BURST must be at least 1, got: %d", c.Notify.ProgressBurst)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("FINTRACK_HISTORY_MAX_ENTRIES must be >= 0, got: %d", c.History.MaxEntries)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("FINTRACK_HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("FINTRACK_HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("FINTRACK_RATE_LIMIT_REQS must be >= 0, got: %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("FINTRACK_RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("FINTRACK_MAX_UPLOAD_BYTES must be positive, got: %d", c.Server.MaxUploadBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("FINTRACK_LOG_LEVEL must be one of: trace, debug, info, warn, error (got %q)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("FINTRACK_LOG_FORMAT must be json or console (got %q)", c.Logging.Format)
	}
	return nil
}
