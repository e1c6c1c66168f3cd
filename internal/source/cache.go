package source

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
)

// Cache stores downloaded datasets on disk, keyed by URL.
// Entries older than the cache's max age are treated as misses.
type Cache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewCache creates a cache rooted at dir. A maxAge of zero never expires entries.
// The directory is created lazily on the first Put.
func NewCache(dir string, maxAge time.Duration) *Cache {
	return &Cache{
		dir:    dir,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file an entry for url is stored in.
func (c *Cache) Path(url string) string {
	sum := sha3.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".csv")
}

// Get returns the cached body for url.
// The boolean is false when there is no fresh entry.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	path := c.Path(url)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat cache entry: %w", err)
	}
	if c.maxAge > 0 && c.now().Sub(info.ModTime()) > c.maxAge {
		return nil, false, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from a hash
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// Put stores data for url, replacing any existing entry.
// The entry is written to a temporary file and renamed into place so a
// crashed build never leaves a truncated dataset behind.
func (c *Cache) Put(url string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "download-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(url)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}
