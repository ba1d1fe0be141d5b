// Package cache remembers generated units between runs, keyed by a content
// hash of everything the unit was generated from. A hit skips extraction
// and emission for one type group; the output is identical either way.
package cache

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"golang.org/x/crypto/blake2b"
)

// version is bumped whenever generated output changes for identical input,
// which invalidates every stored entry.
const version = 1

// Entry is one cached unit.
type Entry struct {
	Dir    string `json:"dir"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

type file struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Cache is safe for concurrent Get and Put.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]Entry
	used    map[string]bool
}

// Open reads the cache stored at path. A missing file, or one written by a
// different version, yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: map[string]Entry{},
		used:    map[string]bool{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read cache: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unable to parse cache %s: %w", path, err)
	}
	if f.Version == version && f.Entries != nil {
		c.entries = f.Entries
	}

	return c, nil
}

// Get returns the entry stored under key.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok {
		c.used[key] = true
	}
	return e, ok
}

// Put stores e under key.
func (c *Cache) Put(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = e
	c.used[key] = true
}

// Len returns the number of entries that would be saved.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.used)
}

// Save writes the entries used since Open. Entries of types that no longer
// exist are dropped.
func (c *Cache) Save() error {
	c.mu.Lock()
	f := file{Version: version, Entries: make(map[string]Entry, len(c.used))}
	for key := range c.used {
		f.Entries[key] = c.entries[key]
	}
	c.mu.Unlock()

	data, err := json.Marshal(f, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("unable to encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write cache: %w", err)
	}
	return nil
}

// Key hashes parts into a cache key. Parts are length prefixed, so
// ("ab", "c") and ("a", "bc") hash differently.
func Key(parts ...string) string {
	var buf []byte
	for _, p := range parts {
		buf = binary.AppendUvarint(buf, uint64(len(p)))
		buf = append(buf, p...)
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
