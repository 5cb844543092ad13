package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/demodash/internal/config"

	"github.com/spf13/cobra"
)

func execCache(t *testing.T, args ...string) string {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	root := &cobra.Command{Use: "demodash", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("data-dir", "", "")
	root.AddCommand(NewCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestCache_ListAndClear(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	dir := filepath.Join(cacheHome, "demodash", "snapshots")

	if out := execCache(t, "cache", "list"); !strings.Contains(out, "No snapshots") {
		t.Errorf("expected empty listing, got %q", out)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"RPop-00ff.json", "Ch_1_6-0a0b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := execCache(t, "cache", "list")
	for _, want := range []string{"KEY", "RPop-00ff", "Ch_1_6-0a0b", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}

	out = execCache(t, "cache", "clear")
	if !strings.Contains(out, "Removed 2 snapshot(s)") {
		t.Errorf("unexpected clear output: %q", out)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("expected empty cache dir, got %d entries", len(entries))
	}
}
