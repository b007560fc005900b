// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/config"
	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/metrics"
	"github.com/tomtom215/fintrack/internal/store"
)

// app holds the components every command shares.
type app struct {
	cfg          *config.Config
	db           *store.Badger
	files        *backup.Store
	orchestrator *backup.Orchestrator
}

// newApp opens the store and wires the backup components. Callers must
// call close.
func newApp(cfg *config.Config) (*app, error) {
	db, err := store.OpenBadger(store.BadgerOptions{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		MaxHistory: cfg.History.MaxEntries,
	})
	if err != nil {
		return nil, err
	}

	shared, err := backup.NewSharedWriter(cfg.Storage.SharedAccess, cfg.Storage.SharedDir)
	if err != nil {
		_ = db.Close() //nolint:errcheck // setup error wins
		return nil, err
	}
	files := backup.NewStore(cfg.Storage.PrivateDir, shared)

	device, err := backup.ResolveDeviceInfo(backup.DeviceInfo{
		AppVersion: appVersion(cfg),
		Model:      cfg.Device.Model,
		ID:         cfg.Device.ID,
	}, stateDir(cfg))
	if err != nil {
		_ = db.Close() //nolint:errcheck // setup error wins
		return nil, fmt.Errorf("resolve device info: %w", err)
	}

	orch := backup.NewOrchestrator(backup.OrchestratorOptions{
		Exporter:    backup.NewExporter(db, db, files, device),
		Importer:    backup.NewImporter(db, db, files),
		Pruner:      files,
		KeepPrivate: cfg.Storage.KeepPrivate,
		History:     db,
	})

	metrics.SetAppInfo(device.AppVersion)
	logging.Debug().
		Str("config", cfg.String()).
		Str("shared_style", shared.Style()).
		Str("device_id", device.ID).
		Msg("Backup components ready")

	return &app{cfg: cfg, db: db, files: files, orchestrator: orch}, nil
}

// close stops the orchestrator first so its history write lands before
// the store closes.
func (a *app) close() error {
	a.orchestrator.Close()
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// closeInto closes a and joins any error into *errp.
func (a *app) closeInto(errp *error) {
	if err := a.close(); err != nil {
		*errp = errors.Join(*errp, err)
	}
}

func appVersion(cfg *config.Config) string {
	if cfg.Device.AppVersion != "" {
		return cfg.Device.AppVersion
	}
	return version
}

// stateDir holds the persisted device id next to the private backups.
func stateDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Clean(cfg.Storage.PrivateDir))
}
