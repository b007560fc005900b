// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the whole process. Field names in
// errors come from the struct's json tags, so a failure inside a decoded
// backup reads "categories[2].name" rather than the Go field path.
//
// # Usage
//
//	type ExportRequest struct {
//	    Destination string `json:"destination" validate:"required,oneof=private shared"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use. Struct metadata
// is cached by the validator after the first call for each type.
package validation
