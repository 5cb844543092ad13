package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/exportlog"
	"nathanbeddoewebdev/demodash/internal/logger"

	"github.com/google/uuid"
)

// Recorder persists export history. *exportlog.SQLiteRepository satisfies it.
type Recorder interface {
	Save(entry *exportlog.Entry) error
}

// Item is one category to export.
type Item struct {
	Label string
	Data  *dataset.DataSet
}

// Result describes the files written for one Item.
type Result struct {
	Label string
	Files []string

	// Warnings holds non-fatal failures, such as a spreadsheet that could
	// not be written while the CSV file was.
	Warnings []error
}

// Exporter writes Items into Dir.
type Exporter struct {
	Dir      string
	Formats  []Format
	Recorder Recorder
	Logger   logger.Logger
}

// Export writes every item in every configured format. All files of one
// call share a batch ID in the export log. A CSV failure stops the export
// and is returned; an XLSX failure is recorded as a warning on the result.
func (e *Exporter) Export(items []Item) ([]Result, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: failed to create directory %s: %w", dir, err)
	}

	formats := e.Formats
	if len(formats) == 0 {
		formats = DefaultFormats
	}

	batch := uuid.NewString()
	results := make([]Result, 0, len(items))
	for _, it := range items {
		res := Result{Label: it.Label}
		for _, f := range formats {
			path := filepath.Join(dir, FileName(it.Label, f))
			err := writeFile(path, func(w io.Writer) error { return write(w, f, it.Data) })
			e.record(batch, it, f, path, err)

			if err != nil {
				if f == XLSX {
					e.log().Warn("spreadsheet export failed", "category", it.Label, "path", path, "error", err)
					res.Warnings = append(res.Warnings, fmt.Errorf("%s: %w", FileName(it.Label, f), err))
					continue
				}
				return append(results, res), fmt.Errorf("export %q: %w", it.Label, err)
			}

			e.log().Info("exported", "category", it.Label, "format", string(f), "path", path, "rows", len(it.Data.Rows))
			res.Files = append(res.Files, path)
		}
		results = append(results, res)
	}
	return results, nil
}

func write(w io.Writer, f Format, d *dataset.DataSet) error {
	switch f {
	case CSV:
		return WriteCSV(w, d)
	case XLSX:
		return WriteXLSX(w, d)
	default:
		return fmt.Errorf("export: unsupported format %q", f)
	}
}

// writeFile renders into memory and writes path only if rendering succeeded.
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// SaveTrendPNG renders the trend chart to path.
func SaveTrendPNG(path, title string, years []int, series []Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: failed to create directory for %s: %w", path, err)
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteTrendPNG(w, title, years, series)
	})
}

func (e *Exporter) record(batch string, it Item, f Format, path string, err error) {
	if e.Recorder == nil {
		return
	}
	entry := &exportlog.Entry{
		BatchID:  batch,
		Category: it.Label,
		Format:   string(f),
		Path:     path,
		Rows:     len(it.Data.Rows),
		Outcome:  exportlog.OutcomeSuccess,
	}
	if err != nil {
		entry.Outcome = exportlog.OutcomeError
		entry.Detail = err.Error()
	}
	if rerr := e.Recorder.Save(entry); rerr != nil {
		e.log().Warn("export history not recorded", "path", path, "error", rerr)
	}
}

func (e *Exporter) log() logger.Logger {
	if e.Logger == nil {
		return logger.Nop{}
	}
	return e.Logger
}
