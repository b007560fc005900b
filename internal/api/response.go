// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/models"
	"github.com/tomtom215/fintrack/internal/validation"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.Timestamp = time.Now()
	if r != nil {
		response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &models.APIResponse{Status: "success", Data: data})
}

// respondError sends an error response. err is logged, never returned to
// the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Str("error", strconv.Quote(err.Error())).Msg("API Error")
	}
	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error:  &models.APIError{Code: code, Message: message},
	})
}

// respondBackupError maps a backup error kind onto an HTTP status.
func respondBackupError(w http.ResponseWriter, r *http.Request, err error) {
	be := backup.AsError(err)
	status, code := http.StatusInternalServerError, "BACKUP_ERROR"
	switch be.Kind {
	case backup.KindValidation:
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case backup.KindParse:
		status, code = http.StatusBadRequest, "PARSE_ERROR"
	case backup.KindNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case backup.KindIO:
		status, code = http.StatusInternalServerError, "IO_ERROR"
	}

	if status >= http.StatusInternalServerError {
		logging.Error().Str("code", code).Err(err).Msg("API Error")
	}
	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error:  &models.APIError{Code: code, Message: be.UserMessage(), Details: fieldDetails(be)},
	})
}

func fieldDetails(be *backup.Error) map[string]interface{} {
	if be.Field == "" {
		return nil
	}
	return map[string]interface{}{"field": be.Field}
}

// decodeAndValidate decodes a JSON body into v and validates it. It writes
// the error response and returns false on failure. An empty body leaves v
// at its zero value.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON", nil)
			return false
		}
	}

	return validateQuery(w, r, v)
}

// validateQuery validates an already populated request struct.
func validateQuery(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Error:  &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details},
	})
	return false
}
