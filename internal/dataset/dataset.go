// Package dataset loads and queries the per-category population tables.
//
// A DataSet is one semicolon-delimited file after normalization: a Name
// column identifying the municipality plus one numeric column per year.
// Every other column is kept as-is so exports reproduce the source table.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NameColumn is the canonical header of the municipality column.
const NameColumn = "Name"

const (
	FirstYear = 2019
	LastYear  = 2024
)

// DefaultYears returns the year columns every dataset must carry.
func DefaultYears() []int {
	years := make([]int, 0, LastYear-FirstYear+1)
	for y := FirstYear; y <= LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// Row is one municipality line of a DataSet.
type Row struct {
	// Name is the trimmed municipality name.
	Name string

	// Cells holds every cell in column order, Name already trimmed.
	Cells []string

	// Counts holds one value per DataSet.Years entry. Blank cells are NaN.
	Counts []float64
}

// Ranked is a single entry of a top-N selection.
type Ranked struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DataSet is a normalized, read-only population table.
type DataSet struct {
	// Source is the path the table was loaded from.
	Source string

	// Detected is the encoding label the detector guessed.
	Detected string

	// Encoding is the label of the encoding that decoded the file.
	Encoding string

	Columns []string
	Years   []int
	Rows    []Row

	yearIdx map[int]int
}

// build validates a normalized table and parses its year columns.
func build(source string, columns []string, records [][]string, years []int) (*DataSet, error) {
	nameCol := indexOf(columns, NameColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, NameColumn, source)
	}

	yearCols := make([]int, len(years))
	for i, y := range years {
		col := indexOf(columns, strconv.Itoa(y))
		if col < 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, strconv.Itoa(y), source)
		}
		yearCols[i] = col
	}

	d := &DataSet{
		Source:  source,
		Columns: columns,
		Years:   append([]int(nil), years...),
		Rows:    make([]Row, 0, len(records)),
		yearIdx: make(map[int]int, len(years)),
	}
	for i, y := range years {
		d.yearIdx[y] = i
	}

	for n, rec := range records {
		cells := make([]string, len(columns))
		copy(cells, rec)

		row := Row{
			Name:   cells[nameCol],
			Cells:  cells,
			Counts: make([]float64, len(years)),
		}
		for i, col := range yearCols {
			v, err := ParseCount(cells[col])
			if err != nil {
				// Header is line 1, so record n sits on line n+2.
				return nil, fmt.Errorf("%s line %d column %q: %w", source, n+2, columns[col], err)
			}
			row.Counts[i] = v
		}
		d.Rows = append(d.Rows, row)
	}

	return d, nil
}

// Names returns the unique municipality names in first-seen order.
func (d *DataSet) Names() []string {
	seen := make(map[string]bool, len(d.Rows))
	names := make([]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	}
	return names
}

// Lookup returns the first row whose Name equals name.
func (d *DataSet) Lookup(name string) (Row, bool) {
	for _, r := range d.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Series returns the counts for name, one per year in year order.
func (d *DataSet) Series(name string) ([]float64, error) {
	r, ok := d.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return append([]float64(nil), r.Counts...), nil
}

// HasYear reports whether year is one of the dataset's year columns.
func (d *DataSet) HasYear(year int) bool {
	_, ok := d.yearIdx[year]
	return ok
}

// YearIndex returns the position of year in Years and in each Row.Counts.
func (d *DataSet) YearIndex(year int) (int, bool) {
	i, ok := d.yearIdx[year]
	return i, ok
}

// Top returns at most n rows ranked by their value in year, largest first.
// Rows with equal values keep their file order; blank values never rank.
func (d *DataSet) Top(year, n int) ([]Ranked, error) {
	idx, ok := d.yearIdx[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	if n <= 0 {
		return nil, nil
	}

	ranked := make([]Ranked, 0, len(d.Rows))
	for _, r := range d.Rows {
		v := r.Counts[idx]
		if math.IsNaN(v) {
			continue
		}
		ranked = append(ranked, Ranked{Name: r.Name, Value: v})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// Records returns the raw cells of every row, for export.
func (d *DataSet) Records() [][]string {
	out := make([][]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Cells
	}
	return out
}

// IsYearColumn reports whether column i holds one of the year values.
func (d *DataSet) IsYearColumn(i int) bool {
	if i < 0 || i >= len(d.Columns) {
		return false
	}
	y, err := strconv.Atoi(d.Columns[i])
	if err != nil {
		return false
	}
	return d.HasYear(y)
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
