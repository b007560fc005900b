// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/fintrack/internal/logging"
)

// Import progress bands
var (
	importBandRead         = band{0, 20}
	importBandValidate     = band{20, 40}
	importBandCategories   = band{40, 60}
	importBandTransactions = band{60, 100}
)

// Importer restores a snapshot into the live store.
type Importer struct {
	transactions TransactionStore
	categories   CategoryStore
	reader       SnapshotReader
	now          func() time.Time
}

// NewImporter creates an importer.
func NewImporter(transactions TransactionStore, categories CategoryStore, reader SnapshotReader) *Importer {
	return &Importer{
		transactions: transactions,
		categories:   categories,
		reader:       reader,
		now:          time.Now,
	}
}

// ImportPath reads, decodes and restores the snapshot at path.
func (i *Importer) ImportPath(ctx context.Context, path string, replaceExisting bool, rep Reporter) (*ImportSummary, error) {
	rep = reporterOrNop(rep)
	rep.Update(importBandRead.start, "Reading backup file")

	data, err := i.reader.Read(ctx, path)
	if err != nil {
		return &ImportSummary{}, err
	}
	return i.importBytes(ctx, data, path, replaceExisting, rep)
}

// ImportHandle reads, decodes and restores the snapshot behind h.
func (i *Importer) ImportHandle(ctx context.Context, h Handle, replaceExisting bool, rep Reporter) (*ImportSummary, error) {
	rep = reporterOrNop(rep)
	rep.Update(importBandRead.start, "Reading backup file")

	data, err := i.reader.ReadHandle(ctx, h)
	if err != nil {
		return &ImportSummary{}, err
	}
	return i.importBytes(ctx, data, h.String(), replaceExisting, rep)
}

func (i *Importer) importBytes(ctx context.Context, data []byte, source string, replaceExisting bool, rep Reporter) (*ImportSummary, error) {
	snapshot, err := Decode(data)
	if err != nil {
		return &ImportSummary{}, err
	}
	rep.Update(importBandRead.end, "Validating backup")
	logging.Ctx(ctx).Debug().
		Str("stage", "read").
		Str("source", source).
		Int("bytes", len(data)).
		Msg("Backup decoded")

	if err := ctx.Err(); err != nil {
		return &ImportSummary{}, err
	}
	return i.Import(ctx, snapshot, replaceExisting, rep)
}

// Import validates s and writes it into the store.
//
// Categories are matched by name. A new name is inserted; an existing name is
// updated in place (keeping its id) when replaceExisting is set and skipped
// otherwise. Transactions are always inserted as new rows.
//
// Nothing is written unless validation passes. A store error stops the
// import; rows already written stay. The returned summary reflects what was
// written even when an error is returned.
func (i *Importer) Import(ctx context.Context, s *Snapshot, replaceExisting bool, rep Reporter) (*ImportSummary, error) {
	rep = reporterOrNop(rep)
	log := logging.Ctx(ctx)
	summary := &ImportSummary{}

	if err := ValidateSnapshot(s); err != nil {
		return summary, err
	}
	rep.Update(importBandValidate.end, "Restoring categories")
	log.Debug().
		Str("stage", "validate").
		Str("version", s.Version).
		Int("transactions", len(s.Transactions)).
		Int("categories", len(s.Categories)).
		Msg("Backup validated")

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if err := i.importCategories(ctx, s.Categories, replaceExisting, summary, rep); err != nil {
		return summary, err
	}
	rep.Update(importBandCategories.end, "Restoring transactions")
	log.Debug().
		Str("stage", "categories").
		Int("imported", summary.CategoriesImported).
		Int("skipped", summary.CategoriesSkipped).
		Bool("replace_existing", replaceExisting).
		Msg("Categories restored")

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if err := i.importTransactions(ctx, s.Transactions, summary, rep); err != nil {
		return summary, err
	}
	rep.Update(importBandTransactions.end, "Restore complete")

	log.Info().
		Int("transactions_imported", summary.TransactionsImported).
		Int("categories_imported", summary.CategoriesImported).
		Int("categories_skipped", summary.CategoriesSkipped).
		Msg("Import finished")
	return summary, nil
}

func (i *Importer) importCategories(ctx context.Context, cats []BackupCategory, replaceExisting bool, summary *ImportSummary, rep Reporter) error {
	last := importBandCategories.start
	for n := range cats {
		dto := &cats[n]

		existing, err := i.categories.FindCategoryByName(ctx, dto.Name)
		if err != nil {
			return fmt.Errorf("look up category %q: %w", dto.Name, err)
		}

		switch {
		case existing == nil:
			if _, err := i.categories.InsertCategory(ctx, categoryFromDTO(dto)); err != nil {
				return fmt.Errorf("insert category %q: %w", dto.Name, err)
			}
			summary.CategoriesImported++
		case replaceExisting:
			applyCategoryDTO(existing, dto)
			if err := i.categories.UpdateCategory(ctx, existing); err != nil {
				return fmt.Errorf("update category %q: %w", dto.Name, err)
			}
			summary.CategoriesImported++
		default:
			summary.CategoriesSkipped++
		}

		if p := importBandCategories.at(n+1, len(cats)); p != last {
			last = p
			rep.Update(p, "Restoring categories")
		}
	}
	return nil
}

func (i *Importer) importTransactions(ctx context.Context, txs []BackupTransaction, summary *ImportSummary, rep Reporter) error {
	now := i.now()
	last := importBandTransactions.start
	for n := range txs {
		if _, err := i.transactions.InsertTransaction(ctx, transactionFromDTO(&txs[n], now)); err != nil {
			return fmt.Errorf("insert transaction %d of %d: %w", n+1, len(txs), err)
		}
		summary.TransactionsImported++

		if p := importBandTransactions.at(n+1, len(txs)); p != last {
			last = p
			rep.Update(p, "Restoring transactions")
		}
	}
	return nil
}
