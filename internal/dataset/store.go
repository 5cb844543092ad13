package dataset

import (
	"path/filepath"
	"sync"

	"nathanbeddoewebdev/demodash/internal/cache"

	"golang.org/x/sync/singleflight"
)

// Store memoizes loaded datasets by file name. Entries are filled lazily
// on first request and stay until invalidated.
type Store struct {
	loader    *Loader
	snapshots *cache.Cache

	mu      sync.RWMutex
	entries map[string]*DataSet
	// gens counts invalidations per key. A load only memoizes its result
	// when the generation it started under is still current.
	gens  map[string]uint64
	epoch uint64
	group singleflight.Group
}

// NewStore returns a Store that loads through ld. snapshots may be nil.
func NewStore(ld *Loader, snapshots *cache.Cache) *Store {
	return &Store{
		loader:    ld,
		snapshots: snapshots,
		entries:   make(map[string]*DataSet),
		gens:      make(map[string]uint64),
	}
}

// Get returns the dataset for path, loading it on first use. Concurrent
// calls for the same path share a single load.
func (s *Store) Get(path string) (*DataSet, error) {
	key := filepath.Clean(path)

	s.mu.RLock()
	d, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		d, ok := s.entries[key]
		epoch, gen := s.epoch, s.gens[key]
		s.gens[key] = gen
		s.mu.Unlock()
		if ok {
			return d, nil
		}

		d, err := s.load(key)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.epoch == epoch && s.gens[key] == gen {
			s.entries[key] = d
		}
		s.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DataSet), nil
}

// Cached reports whether path currently has an entry.
func (s *Store) Cached(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[filepath.Clean(path)]
	return ok
}

// Invalidate drops the entry for path so the next Get reloads it. A load
// of path already in flight still returns to its callers but is not
// memoized.
func (s *Store) Invalidate(path string) {
	key := filepath.Clean(path)
	s.mu.Lock()
	delete(s.entries, key)
	s.gens[key]++
	s.mu.Unlock()
	s.group.Forget(key)
}

// Reset drops every entry. Loads already running are not memoized.
func (s *Store) Reset() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.gens))
	for key := range s.gens {
		keys = append(keys, key)
	}
	s.entries = make(map[string]*DataSet)
	s.epoch++
	s.mu.Unlock()
	for _, key := range keys {
		s.group.Forget(key)
	}
}

// load reads path, consulting the snapshot cache first when configured.
func (s *Store) load(path string) (*DataSet, error) {
	if s.snapshots == nil {
		return s.loader.Load(path)
	}

	key, err := cache.FileKey(path)
	if err != nil {
		// Missing files surface through the loader with the proper error.
		return s.loader.Load(path)
	}

	var t Table
	if hit, err := s.snapshots.Get(key, &t); err == nil && hit {
		d, err := s.loader.FromTable(path, &t)
		if err == nil {
			s.loader.log().Debug("dataset snapshot hit", "path", path, "key", key)
			return d, nil
		}
		_ = s.snapshots.Invalidate(key)
	}

	t2, err := s.loader.ReadTable(path)
	if err != nil {
		return nil, err
	}
	d, err := s.loader.FromTable(path, t2)
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Set(key, t2); err != nil {
		s.loader.log().Warn("dataset snapshot not stored", "path", path, "error", err)
	} else if n, err := s.snapshots.PruneFamily(key); err != nil {
		s.loader.log().Warn("stale snapshots not removed", "path", path, "error", err)
	} else if n > 0 {
		s.loader.log().Debug("stale snapshots removed", "path", path, "count", n)
	}
	s.loader.log().Info("dataset loaded",
		"path", path,
		"detected", t2.Detected,
		"encoding", t2.Encoding,
		"rows", len(d.Rows),
	)
	return d, nil
}
