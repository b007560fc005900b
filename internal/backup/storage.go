// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/fintrack/internal/logging"
)

const (
	// sniffSize is how much of a file LooksLikeSnapshot inspects.
	sniffSize = 4096

	dirPerm  = 0o750
	filePerm = 0o640
)

var versionMarker = []byte(`"version"`)

// FileInfo describes a snapshot in the private directory.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Store persists snapshot bytes. Private snapshots live in an app-owned
// directory; shared snapshots go through a SharedWriter.
type Store struct {
	privateDir string
	shared     SharedWriter
}

// NewStore creates a store. shared may be nil when no shared location is configured.
func NewStore(privateDir string, shared SharedWriter) *Store {
	return &Store{privateDir: privateDir, shared: shared}
}

// PrivateDir returns the private backup directory.
func (s *Store) PrivateDir() string {
	return s.privateDir
}

// SharedDir returns the shared location, or "" when none is configured.
func (s *Store) SharedDir() string {
	if s.shared == nil {
		return ""
	}
	return s.shared.Dir()
}

// OpenHandle parses a handle URI relative to this store's shared location.
func (s *Store) OpenHandle(uri string) (Handle, error) {
	return ParseHandle(uri, s.SharedDir())
}

// WritePrivate writes data as name inside the private directory and returns
// the absolute path. The file appears under its final name only once fully
// written.
func (s *Store) WritePrivate(_ context.Context, data []byte, name string) (string, error) {
	if err := validateEntryName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.privateDir, dirPerm); err != nil {
		return "", NewIOError("create backup directory", err)
	}

	path, err := filepath.Abs(filepath.Join(s.privateDir, name))
	if err != nil {
		return "", NewIOError("resolve backup path", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", NewIOError("write backup "+name, err)
	}

	logging.Debug().Str("path", path).Int("bytes", len(data)).Msg("Private backup written")
	return path, nil
}

// writeFileAtomic writes into a temporary sibling and renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName) //nolint:errcheck // best effort, the original error wins
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error is reported
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error is reported
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// WriteShared publishes data to the shared location and returns a path or
// handle URI for the published entry.
func (s *Store) WriteShared(ctx context.Context, data []byte, name string) (string, error) {
	if s.shared == nil {
		return "", NewIOError("shared storage is not configured", nil)
	}
	if err := validateEntryName(name); err != nil {
		return "", err
	}
	return s.shared.WriteShared(ctx, data, name)
}

// Read returns the full content of a snapshot file.
//
//nolint:gosec // G304: path is chosen by the operator
func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}
	return data, nil
}

// ReadHandle returns the full content behind a handle.
func (s *Store) ReadHandle(ctx context.Context, h Handle) ([]byte, error) {
	rc, err := h.Open(ctx)
	if err != nil {
		return nil, classifyReadError(h.String(), err)
	}
	defer rc.Close() //nolint:errcheck // read-only

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewIOError("read "+h.String(), err)
	}
	return data, nil
}

func classifyReadError(what string, err error) error {
	var be *Error
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, fs.ErrNotExist):
		return NewNotFoundError(what, err)
	default:
		return NewIOError("read "+what, err)
	}
}

// PrivateBackups lists snapshot files in the private directory, newest
// first. A missing directory yields an empty list.
func (s *Store) PrivateBackups() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.privateDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, NewIOError("list backup directory", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isSnapshotName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		path, err := filepath.Abs(filepath.Join(s.privateDir, entry.Name()))
		if err != nil {
			return nil, NewIOError("resolve backup path", err)
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// ListPrivateBackups returns the paths of private snapshots, newest first.
func (s *Store) ListPrivateBackups() ([]string, error) {
	files, err := s.PrivateBackups()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// DeletePrivate removes a private snapshot by file name.
func (s *Store) DeletePrivate(name string) error {
	if err := validateEntryName(name); err != nil {
		return err
	}
	if !isSnapshotName(name) {
		return NewValidationError("name", "not a backup file: "+name)
	}
	err := os.Remove(filepath.Join(s.privateDir, name))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return NewNotFoundError(name, err)
	default:
		return NewIOError("delete "+name, err)
	}
}

// PrunePrivate keeps the newest keep snapshots and deletes the rest.
// keep <= 0 disables pruning. Returns the deleted paths.
func (s *Store) PrunePrivate(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	files, err := s.PrivateBackups()
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, f := range files[keep:] {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, NewIOError("prune "+f.Name, err)
		}
		deleted = append(deleted, f.Path)
	}

	logging.Info().
		Int("kept", keep).
		Int("deleted", len(deleted)).
		Msg("Pruned private backups")
	return deleted, nil
}

func isSnapshotName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), FileExtension)
}

// LooksLikeSnapshot is a cheap pre-check for a snapshot file: the extension
// matches, the content is not empty, starts with '{' and names a version in
// its first few kilobytes. It does not validate the snapshot.
func LooksLikeSnapshot(path string) bool {
	return HandleLooksLikeSnapshot(context.Background(), FileHandle{Path: path})
}

// HandleLooksLikeSnapshot applies the LooksLikeSnapshot check to a handle.
func HandleLooksLikeSnapshot(ctx context.Context, h Handle) bool {
	if !isSnapshotName(h.Name()) {
		return false
	}
	rc, err := h.Open(ctx)
	if err != nil {
		return false
	}
	defer rc.Close() //nolint:errcheck // read-only

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	return looksLikeSnapshot(head[:n])
}

func looksLikeSnapshot(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return bytes.Contains(trimmed, versionMarker)
}
