// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/fintrack/internal/models"
)

// Memory is an in-process store. The zero value is not usable; call NewMemory.
type Memory struct {
	mu           sync.RWMutex
	transactions map[int64]models.Transaction
	categories   map[int64]models.Category
	byName       map[string]int64
	history      []models.OperationRecord
	nextTxnID    int64
	nextCatID    int64
	maxHistory   int
	now          func() time.Time
}

// NewMemory creates an empty in-memory store keeping at most maxHistory
// operation records (0 keeps everything).
func NewMemory(maxHistory int) *Memory {
	return &Memory{
		transactions: make(map[int64]models.Transaction),
		categories:   make(map[int64]models.Category),
		byName:       make(map[string]int64),
		maxHistory:   maxHistory,
		now:          time.Now,
	}
}

// Close is a no-op kept for parity with Badger.
func (m *Memory) Close() error {
	return nil
}

// GetTransaction returns a transaction by id.
func (m *Memory) GetTransaction(_ context.Context, id int64) (*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return &tx, nil
}

// ListTransactions returns all transactions ordered by id.
func (m *Memory) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsertTransaction stores tx under a new id, ignoring tx.ID.
// The assigned id is written back to tx and returned.
func (m *Memory) InsertTransaction(_ context.Context, tx *models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTxnID++
	tx.ID = m.nextTxnID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = m.now()
	}
	m.transactions[tx.ID] = *tx
	return tx.ID, nil
}

// UpdateTransaction replaces the transaction with tx.ID.
func (m *Memory) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[tx.ID]; !ok {
		return fmt.Errorf("transaction %d: %w", tx.ID, ErrNotFound)
	}
	m.transactions[tx.ID] = *tx
	return nil
}

// DeleteTransaction removes a transaction. Deleting a missing id is not an error.
func (m *Memory) DeleteTransaction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.transactions, id)
	return nil
}

// GetCategory returns a category by id.
func (m *Memory) GetCategory(_ context.Context, id int64) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cat, ok := m.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return &cat, nil
}

// FindCategoryByName returns the category with the given name.
// Returns nil, nil if no category has that name.
func (m *Memory) FindCategoryByName(_ context.Context, name string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return nil, nil
	}
	cat := m.categories[id]
	return &cat, nil
}

// ListCategories returns all categories ordered by id.
func (m *Memory) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, cat := range m.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsertCategory stores cat under a new id, ignoring cat.ID.
func (m *Memory) InsertCategory(_ context.Context, cat *models.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[cat.Name]; exists {
		return 0, fmt.Errorf("category %q: %w", cat.Name, ErrDuplicateCategory)
	}

	m.nextCatID++
	cat.ID = m.nextCatID
	stampCategory(cat, m.now())
	m.categories[cat.ID] = *cat
	m.byName[cat.Name] = cat.ID
	return cat.ID, nil
}

// UpdateCategory replaces the category with cat.ID, keeping the name index
// consistent when the name changes.
func (m *Memory) UpdateCategory(_ context.Context, cat *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[cat.ID]
	if !ok {
		return fmt.Errorf("category %d: %w", cat.ID, ErrNotFound)
	}
	if existing.Name != cat.Name {
		if _, taken := m.byName[cat.Name]; taken {
			return fmt.Errorf("category %q: %w", cat.Name, ErrDuplicateCategory)
		}
		delete(m.byName, existing.Name)
		m.byName[cat.Name] = cat.ID
	}
	m.categories[cat.ID] = *cat
	return nil
}

// DeleteCategory removes a category. Deleting a missing id is not an error.
func (m *Memory) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cat, ok := m.categories[id]; ok {
		delete(m.byName, cat.Name)
		delete(m.categories, id)
	}
	return nil
}

// AppendHistory records a finished operation, dropping the oldest records
// beyond the configured limit.
func (m *Memory) AppendHistory(_ context.Context, rec models.OperationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, rec)
	if m.maxHistory > 0 && len(m.history) > m.maxHistory {
		m.history = append([]models.OperationRecord(nil), m.history[len(m.history)-m.maxHistory:]...)
	}
	return nil
}

// ListHistory returns up to limit records, newest first. limit <= 0 returns all.
func (m *Memory) ListHistory(_ context.Context, limit int) ([]models.OperationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.OperationRecord, 0, n)
	for i := len(m.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}

// stampCategory fills missing timestamps on a newly inserted category.
func stampCategory(cat *models.Category, now time.Time) {
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = now
	}
	if cat.UpdatedAt.IsZero() {
		cat.UpdatedAt = cat.CreatedAt
	}
}
