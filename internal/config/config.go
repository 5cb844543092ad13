// Package config handles persistent user configuration for demodash.
//
// Configuration is stored as JSON at ~/.config/demodash/config.json (or the
// platform-equivalent path returned by os.UserConfigDir).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/util"
)

const (
	appDir   = "demodash"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	DataDir     string `json:"data_dir,omitempty"`
	ExportDir   string `json:"export_dir,omitempty"`
	DefaultYear int    `json:"default_year,omitempty"`
	LogFile     string `json:"log_file,omitempty"`

	// Files maps a category ID to its data file name.
	Files map[string]string `json:"files,omitempty"`
}

// Year returns the configured default year, or the first data year.
func (c *Config) Year() int {
	if c.DefaultYear == 0 {
		return dataset.FirstYear
	}
	return c.DefaultYear
}

// Dir returns the configured data directory, or the working directory.
// A leading "~/" is expanded to the home directory.
func (c *Config) Dir() string {
	if c.DataDir == "" {
		return "."
	}
	return util.ExpandHome(c.DataDir)
}

// ExportPath returns the configured export directory, or the working
// directory.
func (c *Config) ExportPath() string {
	if c.ExportDir == "" {
		return "."
	}
	return util.ExpandHome(c.ExportDir)
}

// validate re-applies every stored value through its key so a hand-edited
// file is held to the same rules as "config set".
func (c *Config) validate() error {
	scratch := &Config{}
	var errs []error
	for _, spec := range Keys {
		v := spec.Get(c)
		if v == "" {
			continue
		}
		if err := spec.Set(scratch, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.Name, err))
		}
	}
	for id := range c.Files {
		if Lookup("file."+id) == nil {
			errs = append(errs, fmt.Errorf("files: unknown category id %q", id))
		}
	}
	return errors.Join(errs...)
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	// Write a sibling temp file and rename it into place.
	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
