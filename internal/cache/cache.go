// Package cache stores per-file analysis results keyed by content hash.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache is a directory of JSON entries, one per analyzed file. An entry is
// only returned while the file content and the cache namespace are unchanged.
type Cache struct {
	dir       string
	ttl       time.Duration
	enabled   bool
	namespace string
}

// Entry is the on-disk form of a cached result.
type Entry struct {
	Path      string          `json:"path"`
	Hash      string          `json:"hash"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithNamespace separates entries computed under different settings. Entries
// written under one namespace are never returned under another.
func WithNamespace(ns string) Option {
	return func(c *Cache) {
		c.namespace = ns
	}
}

// New creates a cache rooted at dir. A disabled cache never hits and never
// writes. A ttlHours of zero keeps entries until their content changes.
func New(dir string, ttlHours int, enabled bool, opts ...Option) (*Cache, error) {
	c := &Cache{enabled: enabled}
	for _, opt := range opts {
		opt(c)
	}
	if !enabled {
		return c, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	c.dir = dir
	c.ttl = time.Duration(ttlHours) * time.Hour
	return c, nil
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashString is HashBytes for string content.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// Get decodes the entry for path into v if its content hash matches.
// Expired or unreadable entries are removed and reported as misses.
func (c *Cache) Get(path, hash string, v any) bool {
	if !c.Enabled() {
		return false
	}

	file := c.keyPath(path)
	data, err := os.ReadFile(file)
	if err != nil {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(file)
		return false
	}
	if entry.Hash != hash || entry.Path != path {
		return false
	}
	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		os.Remove(file)
		return false
	}

	if err := json.Unmarshal(entry.Data, v); err != nil {
		os.Remove(file)
		return false
	}
	return true
}

// Set stores v for path under the given content hash.
func (c *Cache) Set(path, hash string, v any) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	entry := Entry{
		Path:      path,
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(path), entryData, 0600)
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0755)
}

// keyPath converts a path to an entry filename inside the cache directory.
func (c *Cache) keyPath(path string) string {
	hash := blake3.Sum256([]byte(c.namespace + "\x00" + path))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:16])+".json")
}
