// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/fintrack/internal/backup"
)

type cliEnv struct {
	dir        string
	privateDir string
	sharedDir  string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		dir:        dir,
		privateDir: filepath.Join(dir, "private"),
		sharedDir:  filepath.Join(dir, "shared"),
		configPath: filepath.Join(dir, "fintrack.yaml"),
	}
	cfg := "storage:\n" +
		"  private_dir: " + env.privateDir + "\n" +
		"  shared_dir: " + env.sharedDir + "\n" +
		"  shared_access: direct\n" +
		"database:\n" +
		"  path: " + filepath.Join(dir, "db") + "\n" +
		"notify:\n" +
		"  progress_interval: 0s\n" +
		"logging:\n" +
		"  level: error\n" +
		"  format: console\n"
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes one command and returns stdout, stderr and the error.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_ExportListImportHistory(t *testing.T) {
	env := newCLIEnv(t)

	out, progress, err := env.run(t, "export")
	if err != nil {
		t.Fatalf("export: %v\n%s", err, progress)
	}
	snapshot := strings.TrimSpace(out)
	if filepath.Dir(snapshot) != env.privateDir || !strings.HasPrefix(filepath.Base(snapshot), backup.FilePrefix) {
		t.Fatalf("export printed %q", snapshot)
	}
	if !strings.Contains(progress, "[100%]") {
		t.Errorf("progress output missing completion line:\n%s", progress)
	}

	out, _, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, filepath.Base(snapshot)) {
		t.Errorf("list output missing %s:\n%s", filepath.Base(snapshot), out)
	}

	out, _, err = env.run(t, "import", snapshot)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if strings.TrimSpace(out) != "transactions_imported=0 categories_imported=0 categories_skipped=0" {
		t.Errorf("import printed %q", out)
	}

	out, _, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{string(backup.OpExportInternal), string(backup.OpImportPath), "completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_ExportShared(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "export", "--shared")
	if err != nil {
		t.Fatalf("export --shared: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != env.sharedDir {
		t.Fatalf("shared export written to %q", path)
	}

	out, _, err = env.run(t, "import-handle", backup.SharedScheme+filepath.Base(path), "--replace")
	if err != nil {
		t.Fatalf("import-handle: %v", err)
	}
	if !strings.HasPrefix(out, "transactions_imported=") {
		t.Errorf("import-handle printed %q", out)
	}
}

func TestCLI_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"import missing file", []string{"import", "/does/not/exist.json"}},
		{"import bad handle", []string{"import-handle", "shared://../escape.json"}},
		{"prune without keep", []string{"prune"}},
		{"history negative limit", []string{"history", "--limit", "-1"}},
		{"import without path", []string{"import"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			if _, _, err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v: expected an error", tt.args)
			}
		})
	}
}

func TestCLI_ImportFailureIsReported(t *testing.T) {
	env := newCLIEnv(t)
	bad := filepath.Join(env.dir, "finance_backup_bad.json")
	if err := os.WriteFile(bad, []byte(`{"version":"9.9","transactions":[],"categories":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, progress, err := env.run(t, "import", bad)
	var be *backup.Error
	if !errors.As(err, &be) || be.Kind != backup.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if progress == "" {
		t.Error("expected progress output on stderr")
	}
}

func TestCLI_Prune(t *testing.T) {
	env := newCLIEnv(t)
	if err := os.MkdirAll(env.privateDir, 0o750); err != nil {
		t.Fatal(err)
	}
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"finance_backup_20240101_000000.json", "finance_backup_20240102_000000.json", "finance_backup_20240103_000000.json"} {
		path := filepath.Join(env.privateDir, name)
		if err := os.WriteFile(path, []byte(`{"version":"1.0"}`), 0o600); err != nil {
			t.Fatal(err)
		}
		mtime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := env.run(t, "prune", "--keep", "1")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if strings.Count(out, "deleted") != 2 {
		t.Errorf("prune output:\n%s", out)
	}
	left, err := os.ReadDir(env.privateDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Name() != "finance_backup_20240103_000000.json" {
		t.Errorf("remaining files = %v", left)
	}
}

func TestEventError(t *testing.T) {
	tests := []struct {
		event backup.Event
		want  error
	}{
		{backup.Event{Type: backup.EventCompleted}, nil},
		{backup.Event{Type: backup.EventCancelled}, errCancelled},
	}
	for _, tt := range tests {
		if got := eventError(tt.event); !errors.Is(got, tt.want) {
			t.Errorf("eventError(%s) = %v, want %v", tt.event.Type, got, tt.want)
		}
	}
	if eventError(backup.Event{Type: backup.EventFailed}) == nil {
		t.Error("failed event without error must still be an error")
	}
}

func TestPercent(t *testing.T) {
	if got := percent(backup.Event{Progress: 50, Max: 200}); got != 25 {
		t.Errorf("percent = %d, want 25", got)
	}
	if got := percent(backup.Event{Progress: 5}); got != 0 {
		t.Errorf("percent with zero max = %d", got)
	}
}
