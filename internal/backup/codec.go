// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Encode serializes a snapshot as indented JSON.
func Encode(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, NewValidationError("snapshot", "snapshot is nil")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, NewUnknownError("encode snapshot", err)
	}
	return data, nil
}

// Decode parses snapshot JSON. Unknown fields are ignored and null values
// become zero values; element-level checks happen in ValidateSnapshot.
func Decode(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, NewParseError("backup content is empty", nil)
	}
	if bytes.Equal(trimmed, jsonNull) {
		return nil, NewParseError("backup content is null", nil)
	}

	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, NewParseError("malformed backup content", err)
	}
	return &s, nil
}
