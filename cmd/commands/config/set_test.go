package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/demodash/internal/config"
)

// setupTestConfig points the config package at a temp file and returns its path.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_DataDir(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "data-dir", "/srv/orel")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"/srv/orel"`) {
		t.Errorf("expected confirmation with directory, got: %s", stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DataDir != "/srv/orel" {
		t.Errorf("expected DataDir %q, got %q", "/srv/orel", cfg.DataDir)
	}
}

func TestSet_DefaultYear_OutOfRange(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-year", "2030")

	if !strings.Contains(stderr, "between 2019 and 2024") {
		t.Errorf("expected range error, got: %s", stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultYear != 0 {
		t.Errorf("invalid year must not be saved, got %d", cfg.DefaultYear)
	}
}

func TestSet_FileKey_CaseInsensitive(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "FILE.RPop", "RPop_2025.csv")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "file.rpop") {
		t.Errorf("expected normalized key name, got: %s", stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Files["rpop"] != "RPop_2025.csv" {
		t.Errorf("expected file override, got %v", cfg.Files)
	}
}

func TestSet_EmptyValueClears(t *testing.T) {
	path := setupTestConfig(t)
	if err := (&config.Config{ExportDir: "out"}).SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "set", "export-dir", "")

	if !strings.Contains(stdout, "export-dir cleared") {
		t.Errorf("expected cleared message, got: %s", stdout)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ExportDir != "" {
		t.Errorf("expected ExportDir cleared, got %q", cfg.ExportDir)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
