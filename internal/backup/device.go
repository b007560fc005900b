// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

const (
	deviceIDFile      = "device_id"
	defaultAppVersion = "dev"
)

// DeviceInfo identifies the installation that produced a snapshot.
type DeviceInfo struct {
	AppVersion string
	Model      string
	ID         string
}

// ResolveDeviceInfo fills unset fields: the model from the host name and
// platform, the id from a uuid persisted in stateDir so it stays stable
// across runs.
func ResolveDeviceInfo(configured DeviceInfo, stateDir string) (DeviceInfo, error) {
	info := configured
	if info.AppVersion == "" {
		info.AppVersion = defaultAppVersion
	}
	if info.Model == "" {
		info.Model = hostModel()
	}
	if info.ID == "" {
		id, err := loadOrCreateDeviceID(stateDir)
		if err != nil {
			return info, err
		}
		info.ID = id
	}
	return info, nil
}

func hostModel() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s (%s/%s)", host, runtime.GOOS, runtime.GOARCH)
}

//nolint:gosec // G304: stateDir comes from configuration
func loadOrCreateDeviceID(stateDir string) (string, error) {
	path := filepath.Join(stateDir, deviceIDFile)

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	if err := os.MkdirAll(stateDir, dirPerm); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	id := uuid.NewString()
	if err := writeFileAtomic(path, []byte(id+"\n")); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}
