// Package category defines the population categories shown by demodash and
// loads their datasets into a Catalog.
package category

import (
	"strings"
)

// Category is one selectable population measure.
type Category struct {
	// ID is the stable short name used in config keys and CLI flags.
	ID string

	// Label is the display name. Export files are named after it.
	Label string

	// File is the data file name, relative to the data directory.
	File string

	// Color names the chart color (see asciigraph.ColorNames).
	Color string
}

var defaults = []Category{
	{ID: "ch_1_6", Label: "Дети 1-6 лет", File: "Ch_1_6.csv", Color: "skyblue"},
	{ID: "ch_3_18", Label: "Дети 3-18 лет", File: "Ch_3_18.csv", Color: "salmon"},
	{ID: "ch_5_18", Label: "Дети 5-18 лет", File: "Ch-5-18.csv", Color: "gold"},
	{ID: "pop_3_79", Label: "Население 3-79 лет", File: "Pop_3_79.csv", Color: "lightgreen"},
	{ID: "rpop", Label: "Среднегодовая численность", File: "RPop.csv", Color: "violet"},
}

// Defaults returns a copy of the built-in registry in display order.
func Defaults() []Category {
	return append([]Category(nil), defaults...)
}

// IDs returns the IDs of the built-in registry.
func IDs() []string {
	ids := make([]string, len(defaults))
	for i, c := range defaults {
		ids[i] = c.ID
	}
	return ids
}

// WithFiles returns cats with File replaced by files[ID] where set.
func WithFiles(cats []Category, files map[string]string) []Category {
	out := append([]Category(nil), cats...)
	for i, c := range out {
		if f := strings.TrimSpace(files[c.ID]); f != "" {
			out[i].File = f
		}
	}
	return out
}

// Find returns the category whose ID or label matches key. IDs match
// case-insensitively, labels exactly after trimming.
func Find(cats []Category, key string) (Category, bool) {
	key = strings.TrimSpace(key)
	for _, c := range cats {
		if strings.EqualFold(c.ID, key) || c.Label == key {
			return c, true
		}
	}
	return Category{}, false
}
