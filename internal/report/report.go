// Package report turns a Catalog and a user selection into the data shown
// by the dashboard: one trend line per selected category and a top-N
// table per selected category.
package report

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/dataset"
)

// TopN is the number of municipalities in each ranking.
const TopN = 5

// DefaultCategories is how many categories are selected initially.
const DefaultCategories = 2

var (
	ErrNoLocation = errors.New("report: no location selected")
	ErrNoYear     = errors.New("report: year is not available")
)

// Selection is what the user chose to look at.
type Selection struct {
	Location string   `json:"location"`
	Labels   []string `json:"categories"`
	Year     int      `json:"year"`
}

// Default returns the initial selection: the first location, the first
// two categories and year, or the first data year when year is zero.
func Default(cat *category.Catalog, year int) Selection {
	sel := Selection{Year: year}
	if sel.Year == 0 {
		sel.Year = dataset.FirstYear
	}
	if locs := cat.Locations(); len(locs) > 0 {
		sel.Location = locs[0]
	}
	labels := cat.Labels()
	sel.Labels = labels[:min(DefaultCategories, len(labels))]
	return sel
}

// Has reports whether label is selected.
func (s Selection) Has(label string) bool {
	return slices.Contains(s.Labels, label)
}

// Toggle adds or removes label, keeping the catalog's order.
func (s Selection) Toggle(cat *category.Catalog, label string) Selection {
	on := !s.Has(label)
	out := make([]string, 0, len(s.Labels)+1)
	for _, l := range cat.Labels() {
		if l == label {
			if on {
				out = append(out, l)
			}
			continue
		}
		if s.Has(l) {
			out = append(out, l)
		}
	}
	s.Labels = out
	return s
}

// Validate checks the selection against the loaded catalog.
func (s Selection) Validate(cat *category.Catalog) error {
	if s.Location == "" {
		return ErrNoLocation
	}
	if !slices.Contains(cat.Locations(), s.Location) {
		return fmt.Errorf("%w: %q", dataset.ErrUnknownLocation, s.Location)
	}
	for _, l := range s.Labels {
		if _, ok := cat.Get(l); !ok {
			return fmt.Errorf("%w: %q", category.ErrUnknownCategory, l)
		}
	}
	if !cat.Reference().Data.HasYear(s.Year) {
		return fmt.Errorf("%w: %d", ErrNoYear, s.Year)
	}
	return nil
}

// Line is one category's values for the selected location.
type Line struct {
	Label  string
	Color  string
	Years  []int
	Values []float64

	// Missing is set when the location does not appear in this category.
	Missing bool
}

// Trend returns one line per selected category, in catalog order.
func Trend(cat *category.Catalog, sel Selection) ([]Line, error) {
	var lines []Line
	for _, e := range cat.Entries() {
		if !sel.Has(e.Label) {
			continue
		}
		line := Line{Label: e.Label, Color: e.Color, Years: e.Data.Years}
		values, err := e.Data.Series(sel.Location)
		switch {
		case errors.Is(err, dataset.ErrUnknownLocation):
			line.Missing = true
			line.Values = nanSeries(len(e.Data.Years))
		case err != nil:
			return nil, fmt.Errorf("report: %s: %w", e.Label, err)
		default:
			line.Values = values
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Top is a category's ranking for the selected year.
type Top struct {
	Label string           `json:"category"`
	Color string           `json:"-"`
	Year  int              `json:"year"`
	Rows  []dataset.Ranked `json:"rows"`
}

// Tops returns the top-n ranking of every selected category.
func Tops(cat *category.Catalog, sel Selection, n int) ([]Top, error) {
	var tops []Top
	for _, e := range cat.Entries() {
		if !sel.Has(e.Label) {
			continue
		}
		rows, err := e.Data.Top(sel.Year, n)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", e.Label, err)
		}
		tops = append(tops, Top{Label: e.Label, Color: e.Color, Year: sel.Year, Rows: rows})
	}
	return tops, nil
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
