// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/fintrack/internal/models"
	"github.com/tomtom215/fintrack/internal/store"
)

var errDiskFull = errors.New("disk full")

// fakeStore wraps the in-memory store with write counting, failure
// injection and an optional gate that blocks the first export stage.
type fakeStore struct {
	*store.Memory

	mu          sync.Mutex
	writes      int
	txInserts   int
	failTxAfter int
	listErr     error

	gate    chan struct{}
	entered chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{Memory: store.NewMemory(0)}
}

// withGate makes ListTransactions signal entered and block until release is called.
func (f *fakeStore) withGate() (entered <-chan struct{}, release func()) {
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	var once sync.Once
	return f.entered, func() { once.Do(func() { close(f.gate) }) }
}

func (f *fakeStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Memory.ListTransactions(ctx)
}

func (f *fakeStore) InsertTransaction(ctx context.Context, tx *models.Transaction) (int64, error) {
	f.mu.Lock()
	if f.failTxAfter > 0 && f.txInserts >= f.failTxAfter {
		f.mu.Unlock()
		return 0, errDiskFull
	}
	f.txInserts++
	f.writes++
	f.mu.Unlock()
	return f.Memory.InsertTransaction(ctx, tx)
}

func (f *fakeStore) InsertCategory(ctx context.Context, cat *models.Category) (int64, error) {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return f.Memory.InsertCategory(ctx, cat)
}

func (f *fakeStore) UpdateCategory(ctx context.Context, cat *models.Category) error {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return f.Memory.UpdateCategory(ctx, cat)
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// seed inserts categories and n alternating expense/income transactions
// directly into the underlying memory store.
func seed(t *testing.T, f *fakeStore, n int, categories ...string) {
	t.Helper()
	ctx := context.Background()
	for _, name := range categories {
		cat := &models.Category{Name: name, DisplayName: name, Type: models.CategoryBoth, Color: "#112233"}
		if _, err := f.Memory.InsertCategory(ctx, cat); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	for i := 0; i < n; i++ {
		tx := &models.Transaction{
			Amount:      decimal.New(int64(1000+i), -2),
			Description: fmt.Sprintf("tx-%d", i),
			Category:    "food",
			Date:        time.Date(2024, 5, 1+i%28, 9, 30, 0, 0, time.Local),
		}
		if i%2 == 0 {
			tx.Type = models.TransactionExpense
			tx.PaymentMethod = "card"
			tx.Vendor = "market"
		} else {
			tx.Type = models.TransactionIncome
			tx.Source = "employer"
			tx.IncomeType = "salary"
		}
		if _, err := f.Memory.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

// recordingReporter collects progress values.
type recordingReporter struct {
	mu     sync.Mutex
	values []int
}

func (r *recordingReporter) Update(progress int, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, progress)
}

func (r *recordingReporter) progress() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.values...)
}

func assertMonotonic(t *testing.T, values []int, wantLast int) {
	t.Helper()
	if len(values) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("progress decreased at %d: %v", i, values)
		}
	}
	if last := values[len(values)-1]; last != wantLast {
		t.Fatalf("final progress = %d, want %d (%v)", last, wantLast, values)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "private"), NewDirectSharedWriter(filepath.Join(dir, "shared")))
}

func writeSnapshotFile(t *testing.T, dir string, s *Snapshot) string {
	t.Helper()
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(dir, FileName(time.Now()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func strPtr(s string) *string { return &s }

func validSnapshot() *Snapshot {
	ts := NewLocalDateTime(time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local))
	return &Snapshot{
		Version:   SupportedVersion,
		CreatedAt: ts,
		Metadata: Metadata{
			AppVersion:       "1.0.0",
			DeviceModel:      "test",
			DeviceID:         "device-1",
			ExportedAt:       ts,
			TransactionCount: 2,
			CategoryCount:    2,
			Checksum:         Checksum(2, 2, ts.Time),
		},
		Transactions: []BackupTransaction{
			{
				ID:            int64Ptr(7),
				Amount:        NewMoney(decimal.RequireFromString("12.50")),
				Description:   "groceries",
				Category:      "food",
				Date:          ts,
				Type:          models.TransactionExpense,
				PaymentMethod: strPtr("card"),
				Vendor:        strPtr("market"),
			},
			{
				Amount:      NewMoney(decimal.RequireFromString("2500")),
				Description: "pay",
				Category:    "salary",
				Date:        ts,
				Type:        models.TransactionIncome,
				Source:      strPtr("employer"),
				IncomeType:  strPtr("monthly"),
			},
		},
		Categories: []BackupCategory{
			{ID: int64Ptr(1), Name: "food", DisplayName: "Food", Type: models.CategoryExpense, CreatedAt: ts, UpdatedAt: ts},
			{Name: "salary", DisplayName: "Salary", Type: models.CategoryIncome, IsDefault: true},
		},
	}
}

// snapshotsEqual compares snapshots by value: exact decimal value and
// scale, same instant for timestamps.
func snapshotsEqual(a, b *Snapshot) error {
	if a.Version != b.Version {
		return fmt.Errorf("version %q != %q", a.Version, b.Version)
	}
	if !a.CreatedAt.Same(b.CreatedAt) {
		return fmt.Errorf("createdAt %v != %v", a.CreatedAt, b.CreatedAt)
	}
	am, bm := a.Metadata, b.Metadata
	if !am.ExportedAt.Same(bm.ExportedAt) {
		return fmt.Errorf("exportedAt %v != %v", am.ExportedAt, bm.ExportedAt)
	}
	am.ExportedAt, bm.ExportedAt = LocalDateTime{}, LocalDateTime{}
	if am != bm {
		return fmt.Errorf("metadata %+v != %+v", am, bm)
	}
	if len(a.Transactions) != len(b.Transactions) || len(a.Categories) != len(b.Categories) {
		return fmt.Errorf("lengths differ")
	}
	if (a.Transactions == nil) != (b.Transactions == nil) || (a.Categories == nil) != (b.Categories == nil) {
		return fmt.Errorf("nil-ness of lists differs")
	}
	for i := range a.Transactions {
		x, y := a.Transactions[i], b.Transactions[i]
		if !x.Amount.Same(y.Amount) {
			return fmt.Errorf("transactions[%d].amount %s != %s", i, x.Amount, y.Amount)
		}
		if !x.Date.Same(y.Date) {
			return fmt.Errorf("transactions[%d].date %v != %v", i, x.Date, y.Date)
		}
		if !int64PtrEqual(x.ID, y.ID) || x.Description != y.Description || x.Category != y.Category || x.Type != y.Type ||
			!strPtrEqual(x.PaymentMethod, y.PaymentMethod) || !strPtrEqual(x.Vendor, y.Vendor) ||
			!strPtrEqual(x.Source, y.Source) || !strPtrEqual(x.IncomeType, y.IncomeType) {
			return fmt.Errorf("transactions[%d] %+v != %+v", i, x, y)
		}
	}
	for i := range a.Categories {
		x, y := a.Categories[i], b.Categories[i]
		if !x.CreatedAt.Same(y.CreatedAt) || !x.UpdatedAt.Same(y.UpdatedAt) {
			return fmt.Errorf("categories[%d] timestamps differ", i)
		}
		if !int64PtrEqual(x.ID, y.ID) || x.Name != y.Name || x.DisplayName != y.DisplayName || x.Type != y.Type ||
			x.IconName != y.IconName || x.Color != y.Color || x.IsDefault != y.IsDefault {
			return fmt.Errorf("categories[%d] %+v != %+v", i, x, y)
		}
	}
	return nil
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
