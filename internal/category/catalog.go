package category

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"nathanbeddoewebdev/demodash/internal/dataset"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownCategory is returned when a label or ID matches no category.
var ErrUnknownCategory = errors.New("category: unknown category")

// Getter returns the dataset stored at path. *dataset.Store satisfies it.
type Getter interface {
	Get(path string) (*dataset.DataSet, error)
}

// Entry is a category together with its loaded data.
type Entry struct {
	Category
	Path string
	Data *dataset.DataSet
}

// LoadError reports which category failed to load.
type LoadError struct {
	Category Category
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("category %q (%s): %v", e.Category.Label, e.Category.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Catalog holds every category's dataset in registry order.
type Catalog struct {
	entries []Entry
}

// Path returns the data file path of c within dir.
func Path(dir string, c Category) string {
	if filepath.IsAbs(c.File) {
		return c.File
	}
	return filepath.Join(dir, c.File)
}

// Load reads the dataset of every category in cats concurrently. The
// first failure cancels the rest and is returned as a *LoadError.
func Load(ctx context.Context, store Getter, dir string, cats []Category) (*Catalog, error) {
	if len(cats) == 0 {
		return nil, errors.New("category: no categories configured")
	}

	entries := make([]Entry, len(cats))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := Path(dir, c)
			d, err := store.Get(path)
			if err != nil {
				return &LoadError{Category: c, Path: path, Err: err}
			}
			entries[i] = Entry{Category: c, Path: path, Data: d}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Catalog{entries: entries}, nil
}

// Entries returns the loaded categories in registry order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th entry.
func (c *Catalog) At(i int) Entry { return c.entries[i] }

// Labels returns the category labels in registry order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.entries))
	for i, e := range c.entries {
		labels[i] = e.Label
	}
	return labels
}

// Get returns the entry with the given label.
func (c *Catalog) Get(label string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Find resolves key as an ID or a label.
func (c *Catalog) Find(key string) (Entry, error) {
	cats := make([]Category, len(c.entries))
	for i, e := range c.entries {
		cats[i] = e.Category
	}
	cat, ok := Find(cats, key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	e, _ := c.Get(cat.Label)
	return e, nil
}

// Index returns the position of label, or -1.
func (c *Catalog) Index(label string) int {
	for i, e := range c.entries {
		if e.Label == label {
			return i
		}
	}
	return -1
}

// Reference returns the first category, whose names drive the location list.
func (c *Catalog) Reference() Entry { return c.entries[0] }

// Locations returns the unique municipality names of the reference dataset.
func (c *Catalog) Locations() []string {
	return c.Reference().Data.Names()
}

// Paths returns the data file path of every category.
func (c *Catalog) Paths() []string {
	paths := make([]string, len(c.entries))
	for i, e := range c.entries {
		paths[i] = e.Path
	}
	return paths
}
