// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/fintrack/internal/logging"
)

// Shared write styles
const (
	SharedStyleAuto     = "auto"
	SharedStyleDirect   = "direct"
	SharedStyleMediated = "mediated"

	pendingPrefix = ".pending-"

	// maxPublishAttempts bounds the "name (n).json" search.
	maxPublishAttempts = 1000
)

// SharedWriter places a snapshot in the user-visible shared location.
type SharedWriter interface {
	// WriteShared stores data under name and returns the published path or handle URI.
	WriteShared(ctx context.Context, data []byte, name string) (string, error)
	Dir() string
	Style() string
}

// NewSharedWriter selects the write style for dir. The auto style probes
// whether dir supports the pending-then-publish protocol and falls back to
// direct writes when it does not.
func NewSharedWriter(style, dir string) (SharedWriter, error) {
	switch style {
	case SharedStyleDirect:
		return NewDirectSharedWriter(dir), nil
	case SharedStyleMediated:
		return NewMediatedSharedWriter(dir), nil
	case SharedStyleAuto, "":
		if err := probeMediated(dir); err != nil {
			logging.Warn().Err(err).Str("dir", dir).Msg("Shared location does not support mediated writes, using direct writes")
			return NewDirectSharedWriter(dir), nil
		}
		logging.Debug().Str("dir", dir).Msg("Shared location supports mediated writes")
		return NewMediatedSharedWriter(dir), nil
	default:
		return nil, fmt.Errorf("unknown shared write style %q", style)
	}
}

// probeMediated creates a pending entry, publishes it by rename and removes it.
func probeMediated(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, pendingPrefix+"probe-*")
	if err != nil {
		return err
	}
	pending := probe.Name()
	if err := probe.Close(); err != nil {
		_ = os.Remove(pending) //nolint:errcheck // probe cleanup
		return err
	}
	published := filepath.Join(dir, ".probe-"+uuid.NewString())
	if err := os.Rename(pending, published); err != nil {
		_ = os.Remove(pending) //nolint:errcheck // probe cleanup
		return err
	}
	return os.Remove(published)
}

// DirectSharedWriter creates the file in the shared directory and writes into it.
type DirectSharedWriter struct {
	dir string
}

// NewDirectSharedWriter creates a direct writer for dir.
func NewDirectSharedWriter(dir string) *DirectSharedWriter {
	return &DirectSharedWriter{dir: dir}
}

func (w *DirectSharedWriter) Dir() string   { return w.dir }
func (w *DirectSharedWriter) Style() string { return SharedStyleDirect }

// WriteShared writes data to dir/name and returns the absolute path. An
// existing file with the same name is overwritten.
func (w *DirectSharedWriter) WriteShared(_ context.Context, data []byte, name string) (string, error) {
	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return "", NewIOError("create shared directory", err)
	}
	path, err := filepath.Abs(filepath.Join(w.dir, name))
	if err != nil {
		return "", NewIOError("resolve shared path", err)
	}
	if err := writeFile(path, data); err != nil {
		return "", NewIOError("write shared backup "+name, err)
	}

	logging.Debug().Str("path", path).Msg("Shared backup written directly")
	return path, nil
}

// writeFile creates path and writes data, closing the file on every path.
//
//nolint:gosec // G304: path is built from configured directory and generated name
func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	_, err = f.Write(data)
	return err
}

// MediatedSharedWriter inserts a hidden pending entry, streams the data into
// it and publishes it under a unique display name in one rename. Readers of
// the shared location never observe a partially written snapshot.
type MediatedSharedWriter struct {
	dir string
}

// NewMediatedSharedWriter creates a mediated writer for dir.
func NewMediatedSharedWriter(dir string) *MediatedSharedWriter {
	return &MediatedSharedWriter{dir: dir}
}

func (w *MediatedSharedWriter) Dir() string   { return w.dir }
func (w *MediatedSharedWriter) Style() string { return SharedStyleMediated }

// WriteShared returns a shared:// handle URI for the published entry.
func (w *MediatedSharedWriter) WriteShared(_ context.Context, data []byte, name string) (string, error) {
	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return "", NewIOError("create shared directory", err)
	}

	pending := filepath.Join(w.dir, pendingPrefix+uuid.NewString()+"-"+name)
	published := false
	defer func() {
		if !published {
			if err := os.Remove(pending); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logging.Warn().Err(err).Str("pending", pending).Msg("Failed to remove pending shared entry")
			}
		}
	}()

	if err := writeFile(pending, data); err != nil {
		return "", NewIOError("stream shared backup "+name, err)
	}

	entry, err := w.publish(pending, name)
	if err != nil {
		return "", NewIOError("publish shared backup "+name, err)
	}
	published = true

	logging.Debug().Str("entry", entry).Msg("Shared backup published")
	return SharedScheme + entry, nil
}

// publish renames pending to the first free display name derived from name.
func (w *MediatedSharedWriter) publish(pending, name string) (string, error) {
	for i := 0; i < maxPublishAttempts; i++ {
		candidate := numberedName(name, i)
		target := filepath.Join(w.dir, candidate)
		_, err := os.Lstat(target)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if err := os.Rename(pending, target); err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", name, maxPublishAttempts)
}

// numberedName returns name for n == 0 and "base (n).ext" otherwise.
func numberedName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
}
