// Package logger wires structured logging for demodash.
//
// The TUI owns the terminal, so logs are never written to stdout. When
// verbose logging is enabled they go to a file under the user cache dir.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/baditaflorin/l"
)

// Logger is the subset of l.Logger used across the application.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}

// Closer is a Logger that must be closed to flush pending output.
type Closer interface {
	Logger
	Close() error
}

type nopCloser struct{ Nop }

func (nopCloser) Close() error { return nil }

// New creates a logger writing to w. A nil writer yields a no-op logger.
func New(w io.Writer) (Closer, error) {
	if w == nil {
		return nopCloser{}, nil
	}

	log, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      w,
		JsonFormat:  false,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  3,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// DefaultPath returns the log file used when no explicit path is configured.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "demodash", "demodash.log")
}

type fileLogger struct {
	Closer
	f *os.File
}

func (fl fileLogger) Close() error {
	err := fl.Closer.Close()
	if cerr := fl.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenFile creates a logger appending to the file at path.
func OpenFile(path string) (Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logger: failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: failed to open %s: %w", path, err)
	}

	log, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return fileLogger{Closer: log, f: f}, nil
}

var current Closer = nopCloser{}

// SetDefault replaces the process-wide logger.
func SetDefault(log Closer) {
	if log == nil {
		log = nopCloser{}
	}
	current = log
}

// Default returns the process-wide logger. It is a no-op until SetDefault.
func Default() Closer { return current }
