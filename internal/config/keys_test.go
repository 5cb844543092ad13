package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("data-dir")
	if spec == nil {
		t.Fatal("expected to find key 'data-dir', got nil")
	}
	if spec.Name != "data-dir" {
		t.Errorf("expected Name %q, got %q", "data-dir", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup(" DATA-DIR ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "data-dir" {
		t.Errorf("expected Name %q, got %q", "data-dir", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestLookup_FileKeys(t *testing.T) {
	for _, name := range []string{"file.ch_1_6", "file.ch_3_18", "file.ch_5_18", "file.pop_3_79", "file.rpop"} {
		if Lookup(name) == nil {
			t.Errorf("expected key %q to be registered", name)
		}
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	// 2021 is valid for every key, including default-year.
	for _, k := range Keys {
		cfg := &Config{}
		if err := k.Set(cfg, "2021"); err != nil {
			t.Fatalf("key %q: Set failed: %v", k.Name, err)
		}
		got := k.Get(cfg)
		if got != "2021" {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, "2021")
		}
	}
}

func TestKeys_EmptyValueClears(t *testing.T) {
	for _, k := range Keys {
		cfg := &Config{}
		if err := k.Set(cfg, "2022"); err != nil {
			t.Fatalf("key %q: Set failed: %v", k.Name, err)
		}
		if err := k.Set(cfg, ""); err != nil {
			t.Fatalf("key %q: clearing failed: %v", k.Name, err)
		}
		if got := k.Get(cfg); got != "" {
			t.Errorf("key %q: expected empty after clear, got %q", k.Name, got)
		}
	}
}

func TestDefaultYear_Validation(t *testing.T) {
	spec := Lookup("default-year")
	for _, v := range []string{"2018", "2025", "last", "20.5"} {
		cfg := &Config{}
		if err := spec.Set(cfg, v); err == nil {
			t.Errorf("expected error for default-year %q", v)
		}
		if cfg.DefaultYear != 0 {
			t.Errorf("invalid value %q must not be applied, got %d", v, cfg.DefaultYear)
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}

func TestFileKey_Validation(t *testing.T) {
	spec := Lookup("file.rpop")
	if spec == nil {
		t.Fatal("expected file.rpop to exist")
	}

	cfg := &Config{}
	if err := spec.Set(cfg, "data/"); err == nil {
		t.Error("expected error for a directory path")
	}
	if len(cfg.Files) != 0 {
		t.Errorf("rejected value should not be stored, got %v", cfg.Files)
	}

	if err := spec.Set(cfg, "RPop_2025.csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := spec.Get(cfg); got != "RPop_2025.csv" {
		t.Errorf("Get = %q, want %q", got, "RPop_2025.csv")
	}
}

func TestFileKey_Check(t *testing.T) {
	spec := Lookup("file.ch_1_6")
	if spec == nil || spec.Check == nil {
		t.Fatal("expected file.ch_1_6 with a Check")
	}

	dir := t.TempDir()
	cfg := &Config{DataDir: dir}
	err := spec.Check(cfg)
	if err == nil || !strings.Contains(err.Error(), "Ch_1_6.csv") {
		t.Fatalf("expected missing default file to be reported, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "children.csv"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := spec.Set(cfg, "children.csv"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := spec.Check(cfg); err != nil {
		t.Errorf("configured file exists, got %v", err)
	}
}

func TestKeys_OnlyFileKeysCheck(t *testing.T) {
	for _, k := range Keys {
		if hasCheck := k.Check != nil; hasCheck != strings.HasPrefix(k.Name, "file.") {
			t.Errorf("%s: Check set = %v", k.Name, hasCheck)
		}
	}
}
