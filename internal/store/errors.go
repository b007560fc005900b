// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package store

import "errors"

var (
	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("store: category name already exists")
)
