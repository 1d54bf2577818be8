package cdn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veyrane/stashwise/pkg/catalog"
)

// ErrCacheMiss is returned by [Cache.Get] and [Cache.GetStale] when no cached
// copy of the requested table exists.
var ErrCacheMiss = errors.New("cdn: cache miss")

// Cache stores raw catalog table payloads on disk, one file per table. Entry
// age is derived from the file modification time, so a cache directory
// survives process restarts without any sidecar metadata.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a disk cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cdn: create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(table catalog.TableName) string {
	return filepath.Join(c.dir, string(table)+".json")
}

// Get returns the cached payload for table if it exists and is younger than
// maxAge. Returns [ErrCacheMiss] when the entry is absent or too old.
func (c *Cache) Get(table catalog.TableName, maxAge time.Duration) ([]byte, error) {
	info, err := os.Stat(c.path(table))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cdn: stat cache entry: %w", err)
	}
	if time.Since(info.ModTime()) > maxAge {
		return nil, ErrCacheMiss
	}
	return c.read(table)
}

// GetStale returns the cached payload for table regardless of age. Returns
// [ErrCacheMiss] when no entry exists at all.
func (c *Cache) GetStale(table catalog.TableName) ([]byte, error) {
	data, err := c.read(table)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// Age returns how old the cached entry for table is. Returns [ErrCacheMiss]
// when no entry exists.
func (c *Cache) Age(table catalog.TableName) (time.Duration, error) {
	info, err := os.Stat(c.path(table))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("cdn: stat cache entry: %w", err)
	}
	return time.Since(info.ModTime()), nil
}

// Put writes the payload for table, replacing any previous entry. The write
// goes through a temp file and rename so a crash never leaves a truncated
// entry behind.
func (c *Cache) Put(table catalog.TableName, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, string(table)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cdn: write cache entry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cdn: write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cdn: write cache entry: %w", err)
	}
	if err := os.Rename(tmpName, c.path(table)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cdn: write cache entry: %w", err)
	}
	return nil
}

func (c *Cache) read(table catalog.TableName) ([]byte, error) {
	data, err := os.ReadFile(c.path(table))
	if err != nil {
		return nil, err
	}
	return data, nil
}
