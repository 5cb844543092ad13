package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "data-dir").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save). An
	// empty value clears the key.
	Set func(cfg *Config, value string) error

	// Check, if set, reports a problem with the effective value that Set
	// cannot catch, such as a data file missing from the data directory.
	Check func(cfg *Config) error
}

// Keys is the authoritative list of all supported configuration keys.
// One file.<id> key is generated per built-in category.
var Keys = append([]KeySpec{
	{
		Name:        "data-dir",
		Description: "Directory containing the population CSV files",
		Get:         func(cfg *Config) string { return cfg.DataDir },
		Set:         func(cfg *Config, v string) error { cfg.DataDir = v; return nil },
	},
	{
		Name:        "export-dir",
		Description: "Directory export files are written to",
		Get:         func(cfg *Config) string { return cfg.ExportDir },
		Set:         func(cfg *Config, v string) error { cfg.ExportDir = v; return nil },
	},
	{
		Name:        "default-year",
		Description: fmt.Sprintf("Year selected on startup (%d-%d)", dataset.FirstYear, dataset.LastYear),
		Get: func(cfg *Config) string {
			if cfg.DefaultYear == 0 {
				return ""
			}
			return strconv.Itoa(cfg.DefaultYear)
		},
		Set: setYear,
	},
	{
		Name:        "log-file",
		Description: "Write logs to this file (defaults to the cache dir with --verbose)",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set:         func(cfg *Config, v string) error { cfg.LogFile = v; return nil },
	},
}, fileKeys()...)

func setYear(cfg *Config, v string) error {
	if v == "" {
		cfg.DefaultYear = 0
		return nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: default-year must be a number, got %q", v)
	}
	if year < dataset.FirstYear || year > dataset.LastYear {
		return fmt.Errorf("config: default-year must be between %d and %d, got %d",
			dataset.FirstYear, dataset.LastYear, year)
	}
	cfg.DefaultYear = year
	return nil
}

func fileKeys() []KeySpec {
	var keys []KeySpec
	for _, c := range category.Defaults() {
		id := c.ID
		keys = append(keys, KeySpec{
			Name:        "file." + id,
			Description: fmt.Sprintf("Data file for %q (default %s)", c.Label, c.File),
			Get:         func(cfg *Config) string { return cfg.Files[id] },
			Set: func(cfg *Config, v string) error {
				if v == "" {
					delete(cfg.Files, id)
					return nil
				}
				if err := util.ValidateFileName(v); err != nil {
					return fmt.Errorf("config: file.%s: %w", id, err)
				}
				if cfg.Files == nil {
					cfg.Files = make(map[string]string)
				}
				cfg.Files[id] = v
				return nil
			},
			Check: func(cfg *Config) error {
				cat := category.WithFiles([]category.Category{c}, cfg.Files)[0]
				path := category.Path(cfg.Dir(), cat)
				if _, err := os.Stat(path); err != nil {
					if errors.Is(err, fs.ErrNotExist) {
						return fmt.Errorf("file not found: %s", path)
					}
					return err
				}
				return nil
			},
		})
	}
	return keys
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
