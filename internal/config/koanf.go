// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "FINTRACK_CONFIG"

// envPrefix is stripped from environment variable names before mapping.
const envPrefix = "FINTRACK_"

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"fintrack.yaml",
	"fintrack.yml",
	"/etc/fintrack/config.yaml",
}

// defaultDataDir returns the base directory for private data.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "fintrack")
	}
	return filepath.Join(os.TempDir(), "fintrack")
}

// defaultSharedDir returns the user's Downloads directory.
func defaultSharedDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, "Downloads")
	}
	return filepath.Join(os.TempDir(), "fintrack-shared")
}

// defaultConfig returns a Config populated with defaults.
func defaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Storage: StorageConfig{
			PrivateDir:   filepath.Join(dataDir, "backups"),
			SharedDir:    defaultSharedDir(),
			SharedAccess: SharedAccessAuto,
			KeepPrivate:  0,
		},
		Database: DatabaseConfig{
			Path:       filepath.Join(dataDir, "db"),
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		Device: DeviceConfig{},
		Notify: NotifyConfig{
			ProgressInterval: 250 * time.Millisecond,
			ProgressBurst:    1,
		},
		History: HistoryConfig{
			MaxEntries: 50,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8087,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{},
			RateLimitReqs:   30,
			RateLimitWindow: time.Minute,
			MaxUploadBytes:  64 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the default configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path ("" skips the file layer).
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists keys that accept comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps FINTRACK_-stripped, lowercased env names to config keys.
var envMappings = map[string]string{
	"private_dir":   "storage.private_dir",
	"shared_dir":    "storage.shared_dir",
	"shared_access": "storage.shared_access",
	"keep_private":  "storage.keep_private",

	"db_path":        "database.path",
	"db_in_memory":   "database.in_memory",
	"db_gc_interval": "database.gc_interval",

	"app_version":  "device.app_version",
	"device_model": "device.model",
	"device_id":    "device.id",

	"progress_interval": "notify.progress_interval",
	"progress_burst":    "notify.progress_burst",

	"history_max_entries": "history.max_entries",

	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_timeout":       "server.timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"cors_origins":       "server.cors_origins",
	"rate_limit_reqs":    "server.rate_limit_reqs",
	"rate_limit_window":  "server.rate_limit_window",
	"max_upload_bytes":   "server.max_upload_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps env names to koanf keys; unknown names are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
