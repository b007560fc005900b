// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tomtom215/fintrack/internal/logging"
)

// Destination selects where an export is written.
type Destination string

const (
	DestinationPrivate Destination = "private"
	DestinationShared  Destination = "shared"
)

// Valid reports whether d is a known destination.
func (d Destination) Valid() bool {
	return d == DestinationPrivate || d == DestinationShared
}

// Export progress checkpoints
const (
	exportProgressRead     = 20
	exportProgressAssemble = 60
	exportProgressWrite    = 100
)

// Exporter turns the live store into a snapshot file.
type Exporter struct {
	transactions TransactionStore
	categories   CategoryStore
	writer       SnapshotWriter
	device       DeviceInfo
	now          func() time.Time
}

// NewExporter creates an exporter.
func NewExporter(transactions TransactionStore, categories CategoryStore, writer SnapshotWriter, device DeviceInfo) *Exporter {
	return &Exporter{
		transactions: transactions,
		categories:   categories,
		writer:       writer,
		device:       device,
		now:          time.Now,
	}
}

// Export reads every transaction and category, builds a snapshot and writes
// it to dest. It returns the written path (or shared handle URI).
//
// Cancellation is observed between stages; the write itself is not
// interrupted once started.
func (e *Exporter) Export(ctx context.Context, dest Destination, rep Reporter) (string, error) {
	rep = reporterOrNop(rep)
	log := logging.Ctx(ctx)

	if !dest.Valid() {
		return "", NewValidationError("destination", fmt.Sprintf("unknown destination %q", dest))
	}

	rep.Update(0, "Reading transactions and categories")
	txs, err := e.transactions.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("read transactions: %w", err)
	}
	cats, err := e.categories.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("read categories: %w", err)
	}

	txDTOs := make([]BackupTransaction, len(txs))
	for i := range txs {
		txDTOs[i] = transactionToDTO(&txs[i])
	}
	catDTOs := make([]BackupCategory, len(cats))
	for i := range cats {
		catDTOs[i] = categoryToDTO(&cats[i])
	}
	rep.Update(exportProgressRead, "Building backup metadata")
	log.Debug().Str("stage", "read").Int("transactions", len(txDTOs)).Int("categories", len(catDTOs)).Msg("Export data loaded")

	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := e.now()
	snapshot := e.assemble(txDTOs, catDTOs, now)
	rep.Update(exportProgressAssemble, "Writing backup file")

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := Encode(snapshot)
	if err != nil {
		return "", err
	}

	name := FileName(now)
	var path string
	switch dest {
	case DestinationShared:
		path, err = e.writer.WriteShared(ctx, data, name)
	default:
		path, err = e.writer.WritePrivate(ctx, data, name)
	}
	if err != nil {
		return "", err
	}
	rep.Update(exportProgressWrite, "Backup complete")

	log.Info().
		Str("stage", "write").
		Str("destination", string(dest)).
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Export written")
	return path, nil
}

func (e *Exporter) assemble(txs []BackupTransaction, cats []BackupCategory, now time.Time) *Snapshot {
	return &Snapshot{
		Version:   SupportedVersion,
		CreatedAt: NewLocalDateTime(now),
		Metadata: Metadata{
			AppVersion:       e.device.AppVersion,
			DeviceModel:      e.device.Model,
			DeviceID:         e.device.ID,
			ExportedAt:       NewLocalDateTime(now),
			TransactionCount: len(txs),
			CategoryCount:    len(cats),
			Checksum:         Checksum(len(txs), len(cats), now),
		},
		Transactions: txs,
		Categories:   cats,
	}
}

// Checksum is the metadata freshness tag: hex SHA-256 of
// "<transactions>:<categories>:<export unix millis>". It does not cover
// snapshot content and is not verified on import.
func Checksum(transactions, categories int, exportedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%d", transactions, categories, exportedAt.UnixMilli())))
	return hex.EncodeToString(sum[:])
}
