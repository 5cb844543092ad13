// Package export writes datasets and charts to files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"nathanbeddoewebdev/demodash/internal/dataset"

	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"

	// PNG is only produced by SaveTrendPNG, never by Exporter.
	PNG Format = "png"
)

// DefaultFormats are written when the caller does not choose.
var DefaultFormats = []Format{CSV, XLSX}

// ParseFormats parses format names such as "csv" or "XLSX".
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case CSV, XLSX:
		default:
			return nil, fmt.Errorf("export: unsupported format %q (use csv or xlsx)", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return append([]Format(nil), DefaultFormats...), nil
	}
	return out, nil
}

// FileName returns the export file name for a category label: spaces
// become underscores and ext is appended.
func FileName(label string, ext Format) string {
	return strings.ReplaceAll(label, " ", "_") + "." + strings.TrimPrefix(string(ext), ".")
}

// WriteCSV writes d as semicolon-delimited UTF-8, header first. Cells are
// written as loaded so the file reads back through the loader unchanged.
func WriteCSV(w io.Writer, d *dataset.DataSet) error {
	cw := csv.NewWriter(w)
	cw.Comma = dataset.Delimiter

	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	if err := cw.WriteAll(d.Records()); err != nil {
		return fmt.Errorf("export: write rows: %w", err)
	}
	return nil
}

// DefaultSheet is the worksheet name of a new workbook.
const DefaultSheet = "Sheet1"

// WriteXLSX writes d as a single-sheet workbook. Year cells are numeric;
// blank year cells stay empty. Every other cell is text.
func WriteXLSX(w io.Writer, d *dataset.DataSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(DefaultSheet, "A1", &d.Columns); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	yearOf := make(map[int]int, len(d.Years))
	for col, name := range d.Columns {
		if y, err := strconv.Atoi(name); err == nil {
			if i, ok := d.YearIndex(y); ok {
				yearOf[col] = i
			}
		}
	}

	for r, row := range d.Rows {
		values := make([]interface{}, len(row.Cells))
		for col, cell := range row.Cells {
			i, ok := yearOf[col]
			if !ok {
				values[col] = cell
				continue
			}
			if v := row.Counts[i]; !math.IsNaN(v) {
				values[col] = v
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
			return fmt.Errorf("export: write row %d: %w", r+2, err)
		}
	}

	if len(d.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(d.Columns))
		if err == nil {
			_ = f.SetColWidth(DefaultSheet, "A", last, 14)
		}
		_ = f.SetColWidth(DefaultSheet, nameColumn(d), nameColumn(d), 40)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func nameColumn(d *dataset.DataSet) string {
	for i, c := range d.Columns {
		if c == dataset.NameColumn {
			name, _ := excelize.ColumnNumberToName(i + 1)
			return name
		}
	}
	return "A"
}
