// Package cache remembers the content hash of every page written by a build
// so that unchanged pages are not rewritten.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// indexVersion is bumped when the on-disk format changes
const indexVersion = "1"

// Cache tracks the pages of one output directory
type Cache struct {
	mu        sync.Mutex
	dir       string
	index     *Index
	stats     Stats
	discarded error
}

// Index is persisted as index.json in the cache directory
type Index struct {
	Version string            `json:"version"`
	Entries map[string]*Entry `json:"entries"`
	Updated time.Time         `json:"updated"`
}

// Entry records the last build of a single page
type Entry struct {
	Page    string    `json:"page"`
	Hash    string    `json:"hash"`
	Size    int64     `json:"size"`
	Written time.Time `json:"written"`
}

// Stats counts decisions made during one build
type Stats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
}

// Open loads the cache in dir, starting fresh when the index is missing,
// corrupted or from another version. Discarded reports the latter two.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{dir: dir, index: newIndex()}
	if err := c.loadIndex(); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.discarded = fmt.Errorf("discarded cache index in %s: %w", dir, err)
	}
	return c, nil
}

// Discarded returns why an existing index could not be loaded, or nil
func (c *Cache) Discarded() error {
	return c.discarded
}

func newIndex() *Index {
	return &Index{
		Version: indexVersion,
		Entries: make(map[string]*Entry),
		Updated: time.Now(),
	}
}

// Fresh reports whether page was last written with exactly data and the
// file at outPath still exists. It counts a hit or a miss.
func (c *Cache) Fresh(page, outPath string, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index.Entries[page]
	if ok && entry.Hash == hash(data) {
		if _, err := os.Stat(outPath); err == nil {
			c.stats.Hits++
			return true
		}
	}
	c.stats.Misses++
	return false
}

// Record stores the hash of data as written for page
func (c *Cache) Record(page string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Entries[page] = &Entry{
		Page:    page,
		Hash:    hash(data),
		Size:    int64(len(data)),
		Written: time.Now(),
	}
	c.index.Updated = time.Now()
}

// Prune forgets every page not in keep and returns the forgotten pages in
// sorted order.
func (c *Cache) Prune(keep []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	wanted := make(map[string]bool, len(keep))
	for _, page := range keep {
		wanted[page] = true
	}

	var removed []string
	for page := range c.index.Entries {
		if !wanted[page] {
			delete(c.index.Entries, page)
			removed = append(removed, page)
		}
	}
	sort.Strings(removed)
	c.stats.Evictions += len(removed)
	return removed
}

// Clear forgets every page
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = newIndex()
	c.stats = Stats{}
}

// Len returns the number of tracked pages
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index.Entries)
}

// GetStats returns cache statistics
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Save writes the index to disk
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, "index.json"), data, 0644)
}

func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.dir, "index.json"))
	if err != nil {
		return err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	if index.Version != indexVersion {
		return fmt.Errorf("unsupported version %q", index.Version)
	}
	if index.Entries == nil {
		index.Entries = make(map[string]*Entry)
	}

	c.index = &index
	return nil
}

func hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
