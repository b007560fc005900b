// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	txnKeyPrefix     = "txn:"
	catKeyPrefix     = "cat:"
	catNameKeyPrefix = "catname:"
	historyKeyPrefix = "hist:"

	txnSeqKey = "seq:txn"
	catSeqKey = "seq:cat"

	// sequenceBandwidth is how many ids are leased from BadgerDB at a time.
	sequenceBandwidth = 64
)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory (tests, dry runs).
	InMemory bool

	// MaxHistory bounds the number of stored operation records (0 = unbounded).
	MaxHistory int
}

// Badger implements the store on BadgerDB.
type Badger struct {
	db         *badger.DB
	txnSeq     *badger.Sequence
	catSeq     *badger.Sequence
	maxHistory int
	ownsDB     bool
	now        func() time.Time
}

// OpenBadger opens (or creates) a BadgerDB database and wraps it in a store.
func OpenBadger(opts BadgerOptions) (*Badger, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s, err := NewBadger(db, opts.MaxHistory)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsDB = true

	logging.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Msg("Store opened")
	return s, nil
}

// NewBadger wraps an already open database. The caller keeps ownership of db.
func NewBadger(db *badger.DB, maxHistory int) (*Badger, error) {
	txnSeq, err := db.GetSequence([]byte(txnSeqKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("transaction sequence: %w", err)
	}
	catSeq, err := db.GetSequence([]byte(catSeqKey), sequenceBandwidth)
	if err != nil {
		_ = txnSeq.Release()
		return nil, fmt.Errorf("category sequence: %w", err)
	}

	return &Badger{
		db:         db,
		txnSeq:     txnSeq,
		catSeq:     catSeq,
		maxHistory: maxHistory,
		now:        time.Now,
	}, nil
}

// Close releases the id sequences and closes the database when this store opened it.
func (s *Badger) Close() error {
	var errs []error
	if err := s.txnSeq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release transaction sequence: %w", err))
	}
	if err := s.catSeq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release category sequence: %w", err))
	}
	if s.ownsDB {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close BadgerDB: %w", err))
		}
	}
	return errors.Join(errs...)
}

func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func catNameKey(name string) []byte {
	return []byte(catNameKeyPrefix + name)
}

func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// Sequences start at 0; ids start at 1.
	return int64(n) + 1, nil
}

// getJSON loads and decodes a value. Returns ErrNotFound for missing keys.
func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return txn.Set(key, data)
}

// scanPrefix decodes every value under prefix in key order.
func scanPrefix(txn *badger.Txn, prefix string, decode func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		if err := it.Item().Value(decode); err != nil {
			return err
		}
	}
	return nil
}

// GetTransaction returns a transaction by id.
func (s *Badger) GetTransaction(_ context.Context, id int64) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(txnKeyPrefix, id), &tx)
	})
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	return &tx, nil
}

// ListTransactions returns all transactions ordered by id.
func (s *Badger) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, txnKeyPrefix, func(val []byte) error {
			var tx models.Transaction
			if err := json.Unmarshal(val, &tx); err != nil {
				return err
			}
			out = append(out, tx)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// InsertTransaction stores tx under a new id, ignoring tx.ID.
// The assigned id is written back to tx and returned.
func (s *Badger) InsertTransaction(_ context.Context, tx *models.Transaction) (int64, error) {
	id, err := nextID(s.txnSeq)
	if err != nil {
		return 0, fmt.Errorf("allocate transaction id: %w", err)
	}
	tx.ID = id
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, idKey(txnKeyPrefix, id), tx)
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

// UpdateTransaction replaces the transaction with tx.ID.
func (s *Badger) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	key := idKey(txnKeyPrefix, tx.ID)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return setJSON(txn, key, tx)
	})
	if err != nil {
		return fmt.Errorf("transaction %d: %w", tx.ID, err)
	}
	return nil
}

// DeleteTransaction removes a transaction. Deleting a missing id is not an error.
func (s *Badger) DeleteTransaction(_ context.Context, id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(idKey(txnKeyPrefix, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
}

// GetCategory returns a category by id.
func (s *Badger) GetCategory(_ context.Context, id int64) (*models.Category, error) {
	var cat models.Category
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(catKeyPrefix, id), &cat)
	})
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	return &cat, nil
}

// FindCategoryByName returns the category with the given name.
// Returns nil, nil if no category has that name.
func (s *Badger) FindCategoryByName(_ context.Context, name string) (*models.Category, error) {
	var cat *models.Category
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupCategoryName(txn, name)
		if err != nil || id == 0 {
			return err
		}
		var found models.Category
		if err := getJSON(txn, idKey(catKeyPrefix, id), &found); err != nil {
			return err
		}
		cat = &found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	return cat, nil
}

// lookupCategoryName resolves the name index. Returns 0 when absent.
func lookupCategoryName(txn *badger.Txn, name string) (int64, error) {
	item, err := txn.Get(catNameKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var id int64
	err = item.Value(func(val []byte) error {
		parsed, perr := strconv.ParseInt(string(val), 10, 64)
		id = parsed
		return perr
	})
	return id, err
}

// ListCategories returns all categories ordered by id.
func (s *Badger) ListCategories(_ context.Context) ([]models.Category, error) {
	out := []models.Category{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, catKeyPrefix, func(val []byte) error {
			var cat models.Category
			if err := json.Unmarshal(val, &cat); err != nil {
				return err
			}
			out = append(out, cat)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// InsertCategory stores cat under a new id, ignoring cat.ID.
func (s *Badger) InsertCategory(_ context.Context, cat *models.Category) (int64, error) {
	id, err := nextID(s.catSeq)
	if err != nil {
		return 0, fmt.Errorf("allocate category id: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		existing, err := lookupCategoryName(txn, cat.Name)
		if err != nil {
			return err
		}
		if existing != 0 {
			return ErrDuplicateCategory
		}

		cat.ID = id
		stampCategory(cat, s.now())
		if err := setJSON(txn, idKey(catKeyPrefix, id), cat); err != nil {
			return err
		}
		return txn.Set(catNameKey(cat.Name), []byte(strconv.FormatInt(id, 10)))
	})
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", cat.Name, err)
	}
	return id, nil
}

// UpdateCategory replaces the category with cat.ID, keeping the name index
// consistent when the name changes.
func (s *Badger) UpdateCategory(_ context.Context, cat *models.Category) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing models.Category
		if err := getJSON(txn, idKey(catKeyPrefix, cat.ID), &existing); err != nil {
			return err
		}

		if existing.Name != cat.Name {
			taken, err := lookupCategoryName(txn, cat.Name)
			if err != nil {
				return err
			}
			if taken != 0 {
				return ErrDuplicateCategory
			}
			if err := txn.Delete(catNameKey(existing.Name)); err != nil {
				return err
			}
			if err := txn.Set(catNameKey(cat.Name), []byte(strconv.FormatInt(cat.ID, 10))); err != nil {
				return err
			}
		}

		return setJSON(txn, idKey(catKeyPrefix, cat.ID), cat)
	})
	if err != nil {
		return fmt.Errorf("update category %d: %w", cat.ID, err)
	}
	return nil
}

// DeleteCategory removes a category. Deleting a missing id is not an error.
func (s *Badger) DeleteCategory(_ context.Context, id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var existing models.Category
		err := getJSON(txn, idKey(catKeyPrefix, id), &existing)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(idKey(catKeyPrefix, id)); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if err := txn.Delete(catNameKey(existing.Name)); err != nil {
			return fmt.Errorf("delete category name: %w", err)
		}
		return nil
	})
}

func historyKey(rec *models.OperationRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", historyKeyPrefix, rec.FinishedAt.UnixNano(), rec.OperationID))
}

// AppendHistory records a finished operation, dropping the oldest records
// beyond the configured limit.
func (s *Badger) AppendHistory(_ context.Context, rec models.OperationRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = s.now()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, historyKey(&rec), rec)
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	if s.maxHistory > 0 {
		if err := s.trimHistory(); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// trimHistory deletes the oldest records so at most maxHistory remain.
func (s *Badger) trimHistory() error {
	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(historyKeyPrefix)
		it := txn.NewIterator(opts)

		var keys [][]byte
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		excess := len(keys) - s.maxHistory
		for i := 0; i < excess; i++ {
			if err := txn.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListHistory returns up to limit records, newest first. limit <= 0 returns all.
func (s *Badger) ListHistory(_ context.Context, limit int) ([]models.OperationRecord, error) {
	out := []models.OperationRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(historyKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(historyKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec models.OperationRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// CollectGarbage runs value log garbage collection until nothing is left to
// rewrite. It is a no-op for in-memory databases.
func (s *Badger) CollectGarbage(_ context.Context) error {
	if s.db.Opts().InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}
