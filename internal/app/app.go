// Package app assembles the runtime shared by the demodash commands:
// configuration, the dataset store, catalog loading and the exporter.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"nathanbeddoewebdev/demodash/internal/cache"
	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/export"
	"nathanbeddoewebdev/demodash/internal/exportlog"
	"nathanbeddoewebdev/demodash/internal/logger"
	"nathanbeddoewebdev/demodash/internal/retry"
	"nathanbeddoewebdev/demodash/internal/tui"
	"nathanbeddoewebdev/demodash/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Env is what a command needs to load and export data.
type Env struct {
	Config     *config.Config
	DataDir    string
	ExportDir  string
	Year       int
	Categories []category.Category
	Store      *dataset.Store
	Snapshots  *cache.Cache
	Log        logger.Logger
}

// NewEnv builds an Env from cfg. A non-empty dataDir overrides the
// configured data directory.
func NewEnv(cfg *config.Config, dataDir string, log logger.Logger) *Env {
	if log == nil {
		log = logger.Nop{}
	}
	if dataDir == "" {
		dataDir = cfg.Dir()
	}
	dataDir = util.ExpandHome(dataDir)
	exportDir := cfg.ExportPath()

	snapshots := cache.NewDefault()
	return &Env{
		Config:     cfg,
		DataDir:    dataDir,
		ExportDir:  exportDir,
		Year:       cfg.Year(),
		Categories: category.WithFiles(category.Defaults(), cfg.Files),
		Store:      dataset.NewStore(dataset.NewLoader(log), snapshots),
		Snapshots:  snapshots,
		Log:        log,
	}
}

// FromCommand loads the config and applies the persistent --data-dir flag.
func FromCommand(cmd *cobra.Command) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dataDir := ""
	if f := cmd.Flag("data-dir"); f != nil {
		dataDir = f.Value.String()
	}
	return NewEnv(cfg, dataDir, logger.Default()), nil
}

// Load reads every category's dataset.
func (e *Env) Load(ctx context.Context) (*category.Catalog, error) {
	return category.Load(ctx, e.Store, e.DataDir, e.Categories)
}

// Reload is Load for a running dashboard: files that are mid-save when a
// change is noticed are retried with backoff instead of failing at once.
func (e *Env) Reload(ctx context.Context) (*category.Catalog, error) {
	cfg := retry.ReloadConfig()
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		e.Log.Debug("reload retry", "attempt", attempt, "delay", delay.String(), "error", err)
	}

	var cat *category.Catalog
	err := retry.Do(ctx, cfg, retry.On(
		dataset.ErrUnreadable,
		dataset.ErrDecode,
		dataset.ErrMissingColumn,
		dataset.ErrBadValue,
	), func() error {
		var err error
		cat, err = e.Load(ctx)
		return err
	})
	return cat, err
}

// LoadInteractive loads behind a spinner when stderr is a terminal. Load
// failures are returned as the consolidated startup error.
func (e *Env) LoadInteractive() (*category.Catalog, error) {
	var cat *category.Catalog
	load := func(ctx context.Context) error {
		var err error
		cat, err = e.Load(ctx)
		return err
	}

	var err error
	if term.IsTerminal(int(os.Stderr.Fd())) {
		err = tui.RunWithSpinner("Загрузка данных...", load)
	} else {
		err = load(context.Background())
	}
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil, err
		}
		e.Log.Error("data load failed", "dir", e.DataDir, "error", err)
		return nil, LoadFailure(err)
	}
	return cat, nil
}

// LoadFailure wraps a load error into the message shown before exiting.
func LoadFailure(err error) error {
	id := "<id>"
	var le *category.LoadError
	if errors.As(err, &le) {
		id = le.Category.ID
	}
	return fmt.Errorf("failed to load data: %w. Check the data directory and file names (demodash config set file.%s <name>)", err, id)
}

// Exporter returns an exporter writing into dir (the configured export
// dir when empty) that records into the export log. The log is optional:
// if it cannot be opened, exports still run. Call the returned func when
// done.
func (e *Env) Exporter(dir string, formats []export.Format) (*export.Exporter, func()) {
	if dir == "" {
		dir = e.ExportDir
	}
	exp := &export.Exporter{Dir: dir, Formats: formats, Logger: e.Log}

	repo, err := exportlog.Open()
	if err != nil {
		e.Log.Warn("export log unavailable", "error", err)
		return exp, func() {}
	}
	exp.Recorder = repo
	return exp, func() {
		if err := repo.Close(); err != nil {
			e.Log.Warn("failed to close export log", "error", err)
		}
	}
}

// Select resolves category keys (IDs or labels) against cat in catalog
// order. No keys selects every category.
func Select(cat *category.Catalog, keys []string) ([]category.Entry, error) {
	if len(keys) == 0 {
		return cat.Entries(), nil
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		e, err := cat.Find(k)
		if err != nil {
			return nil, err
		}
		want[e.Label] = true
	}
	var out []category.Entry
	for _, e := range cat.Entries() {
		if want[e.Label] {
			out = append(out, e)
		}
	}
	return out, nil
}
