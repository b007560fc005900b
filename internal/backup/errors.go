// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"errors"
	"fmt"
)

// ErrorKind classifies backup failures.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindParse      ErrorKind = "parse"
	KindIO         ErrorKind = "io"
	KindNotFound   ErrorKind = "not_found"
	KindUnknown    ErrorKind = "unknown"
)

// Error is the typed failure returned by codec, storage and pipelines.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrParse      = &Error{Kind: KindParse}
	ErrIO         = &Error{Kind: KindIO}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrUnknown    = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	msg := string(e.Kind) + " error"
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind-only sentinels such as ErrValidation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Field == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// UserMessage is the text shown to the person running the operation.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return "The backup file is invalid: " + e.Message
	case KindParse:
		return "The backup file could not be read. It may be corrupted or not a backup."
	case KindIO:
		return "Could not access backup storage: " + e.Message
	case KindNotFound:
		return "Backup file not found: " + e.Message
	default:
		if e.Message == "" {
			return "An unexpected error occurred."
		}
		return "An unexpected error occurred: " + e.Message
	}
}

// NewValidationError reports a snapshot that decoded but is not acceptable.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewParseError reports malformed snapshot content.
func NewParseError(message string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Err: err}
}

// NewIOError reports a storage failure.
func NewIOError(message string, err error) *Error {
	return &Error{Kind: KindIO, Message: message, Err: err}
}

// NewNotFoundError reports a missing snapshot.
func NewNotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// NewUnknownError wraps an unclassified failure.
func NewUnknownError(message string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: message, Err: err}
}

// AsError returns err as a *Error, wrapping untyped errors as KindUnknown.
// Returns nil for a nil err.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return NewUnknownError(err.Error(), err)
}
