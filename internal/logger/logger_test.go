package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_NilWriterIsNop(t *testing.T) {
	log, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("ignored", "key", "value")
	if err := log.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestNew_WritesMessages(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Info("dataset loaded", "path", "Ch_1_6.csv")
	if err := log.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if !strings.Contains(buf.String(), "dataset loaded") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestOpenFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "demodash.log")

	log, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	log.Warn("export skipped", "category", "rpop")
	if err := log.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
}

func TestDefault_ResetsToNop(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	SetDefault(nil)
	if _, ok := Default().(nopCloser); !ok {
		t.Errorf("expected nop logger, got %T", Default())
	}
}
