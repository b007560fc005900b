// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fintrack/internal/backup"
	"github.com/tomtom215/fintrack/internal/logging"
)

const (
	uploadField        = "file"
	defaultHistorySize = 50
	busyMessage        = "Another backup operation is already running"
)

// respondStart answers a start request: 202 when accepted, 200 with
// accepted=false when refused.
func respondStart(w http.ResponseWriter, r *http.Request, kind backup.OperationKind, id string, accepted bool) {
	if !accepted {
		respondSuccess(w, r, http.StatusOK, StartResponse{Accepted: false, Kind: kind, Message: busyMessage})
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("operation_id", id).
		Str("kind", string(kind)).
		Msg("Backup operation accepted")
	respondSuccess(w, r, http.StatusAccepted, StartResponse{Accepted: true, OperationID: id, Kind: kind})
}

// HandleExport starts an export.
// POST /api/v1/backup/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if backup.Destination(req.Destination) == backup.DestinationShared {
		id, ok := h.ops.StartExportExternal()
		respondStart(w, r, backup.OpExportExternal, id, ok)
		return
	}
	id, ok := h.ops.StartExportInternal()
	respondStart(w, r, backup.OpExportInternal, id, ok)
}

// HandleImport starts an import from a path or content handle URI.
// POST /api/v1/backup/import
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !strings.Contains(req.Path, "://") {
		id, ok := h.ops.StartImport(req.Path, req.ReplaceExisting)
		respondStart(w, r, backup.OpImportPath, id, ok)
		return
	}

	handle, err := h.files.OpenHandle(req.Path)
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	id, ok := h.ops.StartImportHandle(handle, req.ReplaceExisting)
	respondStart(w, r, backup.OpImportHandle, id, ok)
}

// HandleImportUpload starts an import of an uploaded snapshot.
// POST /api/v1/backup/import/upload
func (h *Handler) HandleImportUpload(w http.ResponseWriter, r *http.Request) {
	replace, err := parseBoolParam(r, "replace_existing")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "replace_existing must be true or false", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Uploaded file is too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, "MISSING_FILE", "A backup file must be uploaded in the \"file\" field", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "UPLOAD_FAILED", "Could not read uploaded file", err)
		return
	}

	handle := backup.NewReaderHandle(filepath.Base(header.Filename), data)
	if !backup.HandleLooksLikeSnapshot(r.Context(), handle) {
		respondError(w, r, http.StatusBadRequest, "NOT_A_BACKUP", "Uploaded file is not a backup", nil)
		return
	}

	id, ok := h.ops.StartImportHandle(handle, replace)
	respondStart(w, r, backup.OpImportHandle, id, ok)
}

// HandleCancel requests cancellation of the running operation.
// POST /api/v1/backup/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, CancelResponse{Requested: h.ops.Cancel()})
}

// HandleStatus reports the running or last operation.
// GET /api/v1/backup/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.ops.Status())
}

// HandleListFiles lists private snapshots.
// GET /api/v1/backup/files
func (h *Handler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.PrivateBackups()
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, FilesResponse{Files: files})
}

// HandleDeleteFile deletes a private snapshot.
// DELETE /api/v1/backup/files/{name}
func (h *Handler) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.files.DeletePrivate(name); err != nil {
		respondBackupError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("name", name).Msg("Private backup deleted")
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory lists recorded operation outcomes, newest first.
// GET /api/v1/backup/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	req := HistoryRequest{Limit: defaultHistorySize}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number", nil)
			return
		}
		req.Limit = n
	}
	if !validateQuery(w, r, &req) {
		return
	}

	records, err := h.ops.History(r.Context(), req.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "HISTORY_ERROR", "Could not load operation history", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, records)
}

func parseBoolParam(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
