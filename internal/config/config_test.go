// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Storage.SharedAccess != SharedAccessAuto {
		t.Errorf("expected shared access auto, got %s", cfg.Storage.SharedAccess)
	}
	if cfg.Server.Port != 8087 {
		t.Errorf("expected port 8087, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relative private dir", func(c *Config) { c.Storage.PrivateDir = "backups" }, true},
		{"empty shared dir", func(c *Config) { c.Storage.SharedDir = "" }, true},
		{"bad shared access", func(c *Config) { c.Storage.SharedAccess = "magic" }, true},
		{"negative keep", func(c *Config) { c.Storage.KeepPrivate = -1 }, true},
		{"no db path", func(c *Config) { c.Database.Path = "" }, true},
		{"no db path in memory", func(c *Config) { c.Database.Path = ""; c.Database.InMemory = true }, false},
		{"negative gc interval", func(c *Config) { c.Database.GCInterval = -time.Second }, true},
		{"zero burst", func(c *Config) { c.Notify.ProgressBurst = 0 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"rate limit without window", func(c *Config) { c.Server.RateLimitWindow = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fintrack.yaml")
	content := "storage:\n" +
		"  private_dir: " + filepath.Join(dir, "private") + "\n" +
		"  shared_dir: " + filepath.Join(dir, "shared") + "\n" +
		"  shared_access: mediated\n" +
		"  keep_private: 5\n" +
		"server:\n" +
		"  port: 9000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FINTRACK_HTTP_PORT", "9100")
	t.Setenv("FINTRACK_PROGRESS_INTERVAL", "1s")
	t.Setenv("FINTRACK_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("FINTRACK_DB_IN_MEMORY", "true")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Storage.SharedAccess != SharedAccessMediated {
		t.Errorf("expected mediated from file, got %s", cfg.Storage.SharedAccess)
	}
	if cfg.Storage.KeepPrivate != 5 {
		t.Errorf("expected keep_private 5, got %d", cfg.Storage.KeepPrivate)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env to override port, got %d", cfg.Server.Port)
	}
	if cfg.Notify.ProgressInterval != time.Second {
		t.Errorf("expected 1s progress interval, got %s", cfg.Notify.ProgressInterval)
	}
	if !cfg.Database.InMemory {
		t.Error("expected in-memory database from env")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	t.Setenv("FINTRACK_SHARED_ACCESS", "carrier-pigeon")
	if _, err := LoadFrom(""); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("FINTRACK_LOG_LEVEL"); got != "logging.level" {
		t.Errorf("got %q", got)
	}
	if got := envTransformFunc("FINTRACK_UNKNOWN"); got != "" {
		t.Errorf("unknown env names must be dropped, got %q", got)
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8087}
	if s.Addr() != "127.0.0.1:8087" {
		t.Errorf("unexpected addr %s", s.Addr())
	}
}
