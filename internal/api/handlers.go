// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"context"
	"time"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/models"
)

// Operations starts, cancels and reports backup operations.
// *backup.Orchestrator implements it.
type Operations interface {
	StartExportInternal() (string, bool)
	StartExportExternal() (string, bool)
	StartImport(path string, replaceExisting bool) (string, bool)
	StartImportHandle(h backup.Handle, replaceExisting bool) (string, bool)
	Cancel() bool
	Status() backup.Status
	History(ctx context.Context, limit int) ([]models.OperationRecord, error)
}

// BackupFiles manages snapshot files. *backup.Store implements it.
type BackupFiles interface {
	PrivateBackups() ([]backup.FileInfo, error)
	DeletePrivate(name string) error
	OpenHandle(uri string) (backup.Handle, error)
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Version        string
	MaxUploadBytes int64
}

// Handler serves the backup API.
type Handler struct {
	ops            Operations
	files          BackupFiles
	version        string
	maxUploadBytes int64
	startedAt      time.Time
}

// defaultMaxUploadBytes bounds uploaded snapshots when not configured.
const defaultMaxUploadBytes = 32 << 20

// NewHandler creates a handler.
func NewHandler(ops Operations, files BackupFiles, opts HandlerOptions) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		ops:            ops,
		files:          files,
		version:        opts.Version,
		maxUploadBytes: opts.MaxUploadBytes,
		startedAt:      time.Now(),
	}
}
