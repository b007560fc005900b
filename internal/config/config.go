// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Shared storage access styles.
const (
	SharedAccessAuto     = "auto"
	SharedAccessDirect   = "direct"
	SharedAccessMediated = "mediated"
)

// Config is the root configuration.
type Config struct {
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Device   DeviceConfig   `koanf:"device"`
	Notify   NotifyConfig   `koanf:"notify"`
	History  HistoryConfig  `koanf:"history"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// StorageConfig controls where snapshots are written.
type StorageConfig struct {
	// PrivateDir is the app-private backup directory.
	PrivateDir string `koanf:"private_dir"`

	// SharedDir is the shared "Downloads"-style location.
	SharedDir string `koanf:"shared_dir"`

	// SharedAccess selects how shared writes are performed: auto, direct or mediated.
	SharedAccess string `koanf:"shared_access"`

	// KeepPrivate is the number of private snapshots kept after an export (0 keeps all).
	KeepPrivate int `koanf:"keep_private"`
}

// DatabaseConfig configures the badger-backed transaction store.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often value log garbage collection runs in serve mode (0 disables).
	GCInterval time.Duration `koanf:"gc_interval"`
}

// DeviceConfig overrides device information written into snapshot metadata.
type DeviceConfig struct {
	AppVersion string `koanf:"app_version"`
	Model      string `koanf:"model"`
	ID         string `koanf:"id"`
}

// NotifyConfig throttles progress notifications.
type NotifyConfig struct {
	// ProgressInterval is the minimum spacing between progress notifications.
	ProgressInterval time.Duration `koanf:"progress_interval"`

	// ProgressBurst allows short bursts above the interval.
	ProgressBurst int `koanf:"progress_burst"`
}

// HistoryConfig bounds the persisted operation history.
type HistoryConfig struct {
	MaxEntries int `koanf:"max_entries"`
}

// ServerConfig configures the HTTP API used by UI collaborators.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// String returns a short description safe for logs.
func (c *Config) String() string {
	return fmt.Sprintf("private_dir=%s shared_dir=%s shared_access=%s db=%s in_memory=%t",
		c.Storage.PrivateDir, c.Storage.SharedDir, c.Storage.SharedAccess,
		c.Database.Path, c.Database.InMemory)
}
