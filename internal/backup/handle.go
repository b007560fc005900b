// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Handle schemes
const (
	FileScheme   = "file://"
	SharedScheme = "shared://"
	UploadScheme = "upload://"
)

// Handle is an opaque reference to snapshot content that may not be a plain
// private file: a shared-location entry, an uploaded body, or a path.
type Handle interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name is the display name used for extension checks and logs.
	Name() string
	// String is the URI form accepted by ParseHandle.
	String() string
}

// FileHandle refers to a file by path.
type FileHandle struct {
	Path string
}

// Open opens the file.
//
//nolint:gosec // G304: path is chosen by the operator
func (h FileHandle) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(h.Path)
}

func (h FileHandle) Name() string   { return filepath.Base(h.Path) }
func (h FileHandle) String() string { return FileScheme + h.Path }

// SharedHandle refers to a published entry in the shared location.
type SharedHandle struct {
	Dir   string
	Entry string
}

// Open opens the entry inside the shared directory.
func (h SharedHandle) Open(_ context.Context) (io.ReadCloser, error) {
	if err := validateEntryName(h.Entry); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(h.Dir, h.Entry))
}

func (h SharedHandle) Name() string   { return h.Entry }
func (h SharedHandle) String() string { return SharedScheme + h.Entry }

// ReaderHandle serves snapshot bytes already held in memory, such as an
// HTTP upload.
type ReaderHandle struct {
	name string
	data []byte
}

// NewReaderHandle wraps data under a display name.
func NewReaderHandle(name string, data []byte) *ReaderHandle {
	return &ReaderHandle{name: name, data: data}
}

// Open returns a reader over the held bytes.
func (h *ReaderHandle) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(h.data)), nil
}

func (h *ReaderHandle) Name() string   { return h.name }
func (h *ReaderHandle) String() string { return UploadScheme + h.name }

// ParseHandle resolves a handle URI: shared://<entry>, file://<path>, or a
// bare path.
func ParseHandle(uri, sharedDir string) (Handle, error) {
	switch {
	case uri == "":
		return nil, NewValidationError("handle", "handle is empty")
	case strings.HasPrefix(uri, SharedScheme):
		if sharedDir == "" {
			return nil, NewValidationError("handle", "shared location is not configured")
		}
		entry := strings.TrimPrefix(uri, SharedScheme)
		if err := validateEntryName(entry); err != nil {
			return nil, err
		}
		return SharedHandle{Dir: sharedDir, Entry: entry}, nil
	case strings.HasPrefix(uri, FileScheme):
		path := strings.TrimPrefix(uri, FileScheme)
		if path == "" {
			return nil, NewValidationError("handle", "file handle has no path")
		}
		return FileHandle{Path: path}, nil
	case strings.Contains(uri, "://"):
		return nil, NewValidationError("handle", "unsupported handle scheme in "+uri)
	default:
		return FileHandle{Path: uri}, nil
	}
}

// validateEntryName rejects names that would escape their directory.
func validateEntryName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return NewValidationError("name", "invalid file name "+strings.TrimSpace(name))
	}
	return nil
}
