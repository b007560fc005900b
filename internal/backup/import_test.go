// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/fintrack/internal/models"
)

func newTestImporter(f *fakeStore, s *Store) *Importer {
	return NewImporter(f, f, s)
}

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(s *Snapshot) *Snapshot
		wantField string
	}{
		{"valid", func(s *Snapshot) *Snapshot { return s }, ""},
		{"nil snapshot", func(*Snapshot) *Snapshot { return nil }, "snapshot"},
		{"empty version", func(s *Snapshot) *Snapshot { s.Version = " "; return s }, "version"},
		{"nil transactions", func(s *Snapshot) *Snapshot { s.Transactions = nil; return s }, "transactions"},
		{"nil categories", func(s *Snapshot) *Snapshot { s.Categories = nil; return s }, "categories"},
		{"missing lists reported before version mismatch", func(s *Snapshot) *Snapshot {
			s.Version = "2.0"
			s.Categories = nil
			return s
		}, "categories"},
		{"unsupported version", func(s *Snapshot) *Snapshot { s.Version = "2.0"; return s }, "version"},
		{"bad transaction type", func(s *Snapshot) *Snapshot {
			s.Transactions[1].Type = "TRANSFER"
			return s
		}, "transactions[1].type"},
		{"bad category type", func(s *Snapshot) *Snapshot {
			s.Categories[0].Type = ""
			return s
		}, "categories[0].type"},
		{"missing category name", func(s *Snapshot) *Snapshot {
			s.Categories[1].Name = ""
			return s
		}, "categories[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshot(tt.mutate(validSnapshot()))
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateSnapshot() error = %v", err)
				}
				return
			}
			be := AsError(err)
			if be == nil || be.Kind != KindValidation {
				t.Fatalf("ValidateSnapshot() error = %v, want validation error", err)
			}
			if be.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", be.Field, tt.wantField, err)
			}
		})
	}
}

func TestImport_VersionGate(t *testing.T) {
	f := newFakeStore()
	s := newTestStore(t)
	snap := validSnapshot()
	snap.Version = "2.0"
	path := writeSnapshotFile(t, t.TempDir(), snap)

	summary, err := newTestImporter(f, s).ImportPath(context.Background(), path, true, nil)
	be := AsError(err)
	if be == nil || be.Kind != KindValidation || be.Field != "version" {
		t.Fatalf("ImportPath() error = %v, want validation error on version", err)
	}
	if f.writeCount() != 0 {
		t.Errorf("store writes = %d, want 0", f.writeCount())
	}
	if *summary != (ImportSummary{}) {
		t.Errorf("summary = %+v, want zero", summary)
	}
}

func TestImport_CategoryPolicy(t *testing.T) {
	ctx := context.Background()

	existing := func(t *testing.T) (*fakeStore, int64) {
		t.Helper()
		f := newFakeStore()
		cat := &models.Category{Name: "food", DisplayName: "Old Food", Type: models.CategoryExpense, Color: "#000000"}
		id, err := f.Memory.InsertCategory(ctx, cat)
		if err != nil {
			t.Fatal(err)
		}
		return f, id
	}

	snapshot := func() *Snapshot {
		s := validSnapshot()
		s.Transactions = []BackupTransaction{}
		s.Categories = []BackupCategory{{
			ID:          int64Ptr(99),
			Name:        "food",
			DisplayName: "New Food",
			Type:        models.CategoryBoth,
			Color:       "#ffffff",
		}}
		return s
	}

	t.Run("skip", func(t *testing.T) {
		f, id := existing(t)
		summary, err := newTestImporter(f, newTestStore(t)).Import(ctx, snapshot(), false, nil)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if summary.CategoriesImported != 0 || summary.CategoriesSkipped != 1 {
			t.Errorf("summary = %+v, want 0 imported / 1 skipped", summary)
		}
		if f.writeCount() != 0 {
			t.Errorf("store writes = %d, want 0", f.writeCount())
		}
		cat, _ := f.GetCategory(ctx, id)
		if cat.DisplayName != "Old Food" {
			t.Errorf("category changed: %+v", cat)
		}
	})

	t.Run("replace", func(t *testing.T) {
		f, id := existing(t)
		summary, err := newTestImporter(f, newTestStore(t)).Import(ctx, snapshot(), true, nil)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if summary.CategoriesImported != 1 || summary.CategoriesSkipped != 0 {
			t.Errorf("summary = %+v, want 1 imported", summary)
		}
		cats, _ := f.ListCategories(ctx)
		if len(cats) != 1 {
			t.Fatalf("categories = %d, want 1 (updated in place)", len(cats))
		}
		if cats[0].ID != id {
			t.Errorf("id = %d, want preserved %d", cats[0].ID, id)
		}
		if cats[0].DisplayName != "New Food" || cats[0].Type != models.CategoryBoth || cats[0].Color != "#ffffff" {
			t.Errorf("category not updated: %+v", cats[0])
		}
		if cats[0].CreatedAt.IsZero() {
			t.Error("missing snapshot timestamp should keep the existing one")
		}
	})

	t.Run("insert ignores snapshot id", func(t *testing.T) {
		f := newFakeStore()
		summary, err := newTestImporter(f, newTestStore(t)).Import(ctx, snapshot(), false, nil)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if summary.CategoriesImported != 1 {
			t.Errorf("summary = %+v", summary)
		}
		cat, _ := f.FindCategoryByName(ctx, "food")
		if cat == nil || cat.ID == 99 {
			t.Errorf("inserted category = %+v, want store-assigned id", cat)
		}
	})
}

func TestImport_TransactionsAreAdditive(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	s := newTestStore(t)
	im := newTestImporter(f, s)
	snap := validSnapshot()

	for i := 0; i < 2; i++ {
		summary, err := im.Import(ctx, snap, false, nil)
		if err != nil {
			t.Fatalf("Import() #%d error = %v", i+1, err)
		}
		if summary.TransactionsImported != 2 {
			t.Errorf("Import() #%d transactions = %d, want 2", i+1, summary.TransactionsImported)
		}
	}

	txs, _ := f.ListTransactions(ctx)
	if len(txs) != 4 {
		t.Fatalf("store has %d transactions, want 4", len(txs))
	}
	if txs[0].ID != 1 {
		t.Errorf("first id = %d, want store-assigned 1", txs[0].ID)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("amount = %s, want 12.50", txs[0].Amount)
	}
	if txs[0].Vendor != "market" || txs[1].Source != "employer" {
		t.Errorf("type-specific fields lost: %+v / %+v", txs[0], txs[1])
	}
}

func TestImport_ExportReimportScenario(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	seed(t, f, 10, "food", "salary", "rent")
	s := newTestStore(t)

	path, err := newTestExporter(f, s).Export(ctx, DestinationPrivate, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	rep := &recordingReporter{}
	summary, err := newTestImporter(f, s).ImportPath(ctx, path, false, rep)
	if err != nil {
		t.Fatalf("ImportPath() error = %v", err)
	}
	want := ImportSummary{TransactionsImported: 10, CategoriesImported: 0, CategoriesSkipped: 3}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
	txs, _ := f.ListTransactions(ctx)
	if len(txs) != 20 {
		t.Errorf("store has %d transactions, want 20", len(txs))
	}
	assertMonotonic(t, rep.progress(), 100)
}

func TestImport_StoreFailureStopsWithoutRollback(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	f.failTxAfter = 1
	snap := validSnapshot()

	summary, err := newTestImporter(f, newTestStore(t)).Import(ctx, snap, false, nil)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("Import() error = %v, want store error", err)
	}
	if summary.CategoriesImported != 2 || summary.TransactionsImported != 1 {
		t.Errorf("partial summary = %+v, want 2 categories and 1 transaction", summary)
	}
	cats, _ := f.ListCategories(ctx)
	txs, _ := f.ListTransactions(ctx)
	if len(cats) != 2 || len(txs) != 1 {
		t.Errorf("store = %d categories / %d transactions, want 2/1 kept", len(cats), len(txs))
	}
}

func TestImport_ReadErrors(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	s := newTestStore(t)
	im := newTestImporter(f, s)

	_, err := im.ImportPath(ctx, filepath.Join(t.TempDir(), "nope.json"), false, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ImportPath(missing) error = %v, want not found", err)
	}

	corrupt := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(corrupt, []byte(`{"version": "1.0", "transactions": [`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = im.ImportPath(ctx, corrupt, false, nil)
	if !errors.Is(err, ErrParse) {
		t.Errorf("ImportPath(corrupt) error = %v, want parse error", err)
	}
	if f.writeCount() != 0 {
		t.Errorf("store writes = %d, want 0", f.writeCount())
	}
}

func TestImport_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	data, err := Encode(validSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := newTestImporter(f, newTestStore(t)).ImportHandle(ctx, NewReaderHandle("upload.json", data), false, nil)
	if err != nil {
		t.Fatalf("ImportHandle() error = %v", err)
	}
	if summary.TransactionsImported != 2 || summary.CategoriesImported != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestImport_Cancelled(t *testing.T) {
	f := newFakeStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestImporter(f, newTestStore(t)).Import(ctx, validSnapshot(), false, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Import() error = %v, want context.Canceled", err)
	}
	if f.writeCount() != 0 {
		t.Errorf("store writes = %d, want 0", f.writeCount())
	}
}
