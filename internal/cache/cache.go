// Package cache keeps JSON snapshots of decoded tables on disk so that a
// new session can skip encoding detection and parsing for unchanged files.
package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultTTL bounds how long a snapshot is trusted.
const DefaultTTL = 24 * time.Hour

// Cache stores JSON snapshots as one file per key.
type Cache struct {
	dir string
	ttl time.Duration
}

// New returns a cache rooted at dir whose entries expire after ttl.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return &Cache{dir: defaultDir(), ttl: DefaultTTL}
}

// Dir returns the directory holding the cache entries.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// FileKey derives a cache key from the identity of the file at path. The
// key is "<name>-<directory hash>-<version hash>": the first two parts name
// the snapshot family of that file, the last changes whenever its size or
// modification time does.
func FileKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cache: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cache: stat %s: %w", path, err)
	}

	dir := fnv.New32a()
	dir.Write([]byte(filepath.Dir(abs)))

	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%d\x00%d", abs, info.Size(), info.ModTime().UnixNano())

	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return fmt.Sprintf("%s-%08x-%016x", base, dir.Sum32(), h.Sum64()), nil
}

// Get returns true if a valid cache entry was found and decoded into dest.
func (c *Cache) Get(key string, dest any) (bool, error) {
	if c == nil || c.dir == "" || c.ttl <= 0 {
		return false, nil
	}

	path := c.pathForKey(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if time.Now().After(info.ModTime().Add(c.ttl)) {
		_ = os.Remove(path)
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, nil
	}

	return true, nil
}

// Set stores data in the cache under key.
func (c *Cache) Set(key string, data any) error {
	if c == nil || c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, c.pathForKey(key))
}

// Invalidate removes a single cached entry.
func (c *Cache) Invalidate(key string) error {
	if c == nil || c.dir == "" {
		return nil
	}

	err := os.Remove(c.pathForKey(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cached entries and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	if c == nil || c.dir == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// Entry describes one stored snapshot.
type Entry struct {
	Key     string
	Size    int64
	ModTime time.Time
	Expired bool
}

// List returns the stored snapshots, oldest first.
func (c *Cache) List() ([]Entry, error) {
	if c == nil || c.dir == "" {
		return nil, nil
	}

	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Key:     strings.TrimSuffix(name, ".json"),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Expired: c.ttl <= 0 || time.Now().After(info.ModTime().Add(c.ttl)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.Before(out[j].ModTime) })
	return out, nil
}

// PruneFamily removes the snapshots of earlier versions of the file that
// keep was derived from (same key up to the final "-"), keeping keep
// itself. It returns how many entries were removed.
func (c *Cache) PruneFamily(keep string) (int, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}

	keep = sanitizeKey(keep)
	family := familyOf(keep)
	removed := 0
	for _, e := range entries {
		if e.Key == keep || familyOf(e.Key) != family {
			continue
		}
		if err := os.Remove(c.pathForKey(e.Key)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func familyOf(key string) string {
	if i := strings.LastIndexByte(key, '-'); i > 0 {
		return key[:i]
	}
	return key
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "demodash", "snapshots")
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
