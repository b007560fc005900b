// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"fmt"
	"strings"

	"github.com/tomtom215/fintrack/internal/validation"
)

// ValidateSnapshot checks that a decoded snapshot can be restored. The
// checks run in a fixed order so the reported field is deterministic.
func ValidateSnapshot(s *Snapshot) error {
	if s == nil {
		return NewValidationError("snapshot", "backup data is missing")
	}
	if strings.TrimSpace(s.Version) == "" {
		return NewValidationError("version", "backup version is missing")
	}
	if s.Transactions == nil {
		return NewValidationError("transactions", "transactions list is missing")
	}
	if s.Categories == nil {
		return NewValidationError("categories", "categories list is missing")
	}
	if s.Version != SupportedVersion {
		return NewValidationError("version",
			fmt.Sprintf("unsupported backup version %q, expected %q", s.Version, SupportedVersion))
	}

	if verr := validation.ValidateStruct(s); verr != nil {
		first := verr.First()
		if first == nil {
			return NewValidationError("snapshot", verr.Error())
		}
		return NewValidationError(first.Field(), first.Error())
	}
	return nil
}
