// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"

	"github.com/tomtom215/fintrack/internal/models"
)

// TransactionStore is the live transaction repository.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	// InsertTransaction stores a new row; the id on tx is ignored.
	InsertTransaction(ctx context.Context, tx *models.Transaction) (int64, error)
}

// CategoryStore is the live category repository.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	// FindCategoryByName returns nil, nil when no category has the name.
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	InsertCategory(ctx context.Context, cat *models.Category) (int64, error)
	UpdateCategory(ctx context.Context, cat *models.Category) error
}

// HistoryStore keeps the outcome of finished operations.
type HistoryStore interface {
	AppendHistory(ctx context.Context, rec models.OperationRecord) error
	ListHistory(ctx context.Context, limit int) ([]models.OperationRecord, error)
}

// SnapshotWriter persists encoded snapshots.
type SnapshotWriter interface {
	WritePrivate(ctx context.Context, data []byte, name string) (string, error)
	WriteShared(ctx context.Context, data []byte, name string) (string, error)
}

// SnapshotReader loads encoded snapshots.
type SnapshotReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
	ReadHandle(ctx context.Context, h Handle) ([]byte, error)
}

// Reporter receives pipeline progress in percent (0-100).
type Reporter interface {
	Update(progress int, status string)
}

type nopReporter struct{}

func (nopReporter) Update(int, string) {}

func reporterOrNop(r Reporter) Reporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

// band maps item progress within a stage onto the overall 0-100 scale.
type band struct {
	start, end int
}

func (b band) at(done, total int) int {
	if total <= 0 || done >= total {
		return b.end
	}
	return b.start + (b.end-b.start)*done/total
}
