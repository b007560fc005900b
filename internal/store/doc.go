// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package store persists live transactions, categories and the backup
// operation history.
//
// Two implementations share the same method set:
//
//   - Badger: durable storage on BadgerDB. Entities are stored as JSON under
//     prefixed keys (txn:, cat:, catname:, hist:) with ids allocated from
//     BadgerDB sequences.
//   - Memory: a mutex-guarded map store for tests and throwaway sessions.
//
// Both satisfy the consumer interfaces declared by the backup package
// (TransactionStore, CategoryStore, HistoryStore). Every call is its own
// unit of work; a restore that fails midway leaves the rows it already
// wrote in place.
package store
