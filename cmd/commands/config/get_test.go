package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/demodash/internal/config"
)

func TestGet_DataDir_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "data-dir")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_DefaultYear_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{DefaultYear: 2022}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "default-year")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "2022") {
		t.Errorf("expected '2022', got: %s", stdout)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestGet_ListAllMarksMissingFiles(t *testing.T) {
	path := setupTestConfig(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "RPop.csv"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{DataDir: dir}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "get", "-o", "table")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.HasPrefix(lines[0], "KEY") {
		t.Errorf("expected table header, got %q", lines[0])
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		switch {
		case fields[0] == "file.rpop":
			if fields[len(fields)-1] != "ok" {
				t.Errorf("existing file reported missing: %q", line)
			}
		case strings.HasPrefix(fields[0], "file."):
			if !strings.Contains(line, "file not found") {
				t.Errorf("missing file not reported: %q", line)
			}
		case fields[0] == "data-dir":
			if fields[1] != dir {
				t.Errorf("expected data-dir %s, got %q", dir, line)
			}
		}
	}
}

func TestGet_CheckJSON(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{DataDir: t.TempDir(), DefaultYear: 2021}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "--check", "-o", "json")

	var got []setting
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	problems := 0
	for _, s := range got {
		if s.Key == "default-year" && s.Value != "2021" {
			t.Errorf("default-year = %q, want 2021", s.Value)
		}
		if s.Problem != "" {
			problems++
		}
	}
	if problems != 5 {
		t.Errorf("expected 5 missing data files, got %d", problems)
	}
	if !strings.Contains(stderr, "5 of") {
		t.Errorf("--check should fail with a count, got stderr: %s", stderr)
	}
}

func TestGet_UnknownOutput(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "-o", "yaml")
	if !strings.Contains(stderr, "unknown output format") {
		t.Errorf("expected output format error, got: %s", stderr)
	}
}

func TestPaths_UsesConfiguredDirs(t *testing.T) {
	path := setupTestConfig(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg := &config.Config{DataDir: "/srv/orel", ExportDir: "/srv/out", Files: map[string]string{"rpop": "RPop_2025.csv"}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "paths")
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{
		path,
		"/srv/orel",
		filepath.Join("/srv/orel", "RPop_2025.csv"),
		filepath.Join("/srv/orel", "Ch_1_6.csv"),
		"/srv/out",
		"snapshots",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("paths output missing %q:\n%s", want, stdout)
		}
	}
}
