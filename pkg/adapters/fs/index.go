package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// indexFile is the persistent index state.
//
// The on-disk JSON doubles as the hand-off artifact for external search
// tooling, so the shape of entries is part of the public contract and
// changes bump Version.
type indexFile struct {
	Version int                         `json:"version"`
	Entries map[string]*core.IndexEntry `json:"entries"` // Key is relative path (e.g. "guides/intro.md")
	dirty   bool
	mu      sync.RWMutex
}

// siteIndex manages the loading, updating, and saving of the index.
type siteIndex struct {
	Path string // Path to .folio/index.json
	data *indexFile
}

// newIndex initializes an index at the given path.
func newIndex(sitePath, systemDir string) *siteIndex {
	// Index lives in {sitePath}/{systemDir}/index.json
	indexDir := filepath.Join(sitePath, systemDir)
	indexPath := filepath.Join(indexDir, "index.json")

	return &siteIndex{
		Path: indexPath,
		data: &indexFile{
			Version: 1,
			Entries: make(map[string]*core.IndexEntry),
		},
	}
}

// Load reads the index from disk. If not found or invalid, returns empty index (no error).
func (i *siteIndex) Load() error {
	i.data.mu.Lock()
	defer i.data.mu.Unlock()

	raw, err := os.ReadFile(i.Path)
	if os.IsNotExist(err) {
		return nil // Start fresh
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	if err := json.Unmarshal(raw, i.data); err != nil {
		// Treat corruption as an empty index so the next List rebuilds it.
		i.data.Entries = make(map[string]*core.IndexEntry)
		return nil
	}

	i.data.dirty = false
	return nil
}

// Save persists the index to disk if it's dirty.
func (i *siteIndex) Save() error {
	i.data.mu.RLock()
	if !i.data.dirty {
		i.data.mu.RUnlock()
		return nil
	}
	// Marshal under lock so a concurrent Set can't tear the snapshot.
	raw, err := json.MarshalIndent(i.data, "", "  ")
	i.data.mu.RUnlock()

	if err != nil {
		return err
	}

	// Ensure the system directory exists
	dir := filepath.Dir(i.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := writeFileAtomic(i.Path, raw, 0644); err != nil {
		return err
	}

	i.data.mu.Lock()
	i.data.dirty = false
	i.data.mu.Unlock()

	return nil
}

// Get retrieves an entry if it exists and is fresh.
// Returns entry and true if hit.
// Returns nil and false if miss or stale.
func (i *siteIndex) Get(relPath string, currentMtime time.Time) (*core.IndexEntry, bool) {
	i.data.mu.RLock()
	defer i.data.mu.RUnlock()

	entry, ok := i.data.Entries[relPath]
	if !ok {
		return nil, false
	}

	if !entry.LastModified.Equal(currentMtime) {
		return nil, false
	}

	return entry, true
}

// Lookup retrieves an entry without a freshness check.
func (i *siteIndex) Lookup(relPath string) (*core.IndexEntry, bool) {
	i.data.mu.RLock()
	defer i.data.mu.RUnlock()

	entry, ok := i.data.Entries[relPath]
	return entry, ok
}

// Set updates an entry in the index.
func (i *siteIndex) Set(relPath string, entry *core.IndexEntry) {
	i.data.mu.Lock()
	defer i.data.mu.Unlock()

	i.data.Entries[relPath] = entry
	i.data.dirty = true
}

// Delete removes a single entry from the index.
func (i *siteIndex) Delete(relPath string) {
	i.data.mu.Lock()
	defer i.data.mu.Unlock()

	delete(i.data.Entries, relPath)
	i.data.dirty = true
}

// Prune removes entries that are not in the 'keep' set.
func (i *siteIndex) Prune(keep map[string]bool) {
	i.data.mu.Lock()
	defer i.data.mu.Unlock()

	for path := range i.data.Entries {
		if !keep[path] {
			delete(i.data.Entries, path)
			i.data.dirty = true
		}
	}
}

// Range iterates over all entries in the index.
// callback returns true to continue, false to stop.
func (i *siteIndex) Range(callback func(relPath string, entry *core.IndexEntry) bool) {
	i.data.mu.RLock()
	defer i.data.mu.RUnlock()

	for k, v := range i.data.Entries {
		if !callback(k, v) {
			break
		}
	}
}

// Len returns the number of entries in the index.
func (i *siteIndex) Len() int {
	i.data.mu.RLock()
	defer i.data.mu.RUnlock()
	return len(i.data.Entries)
}

// Snapshot returns a copy of all entries, ordered by page ID.
func (i *siteIndex) Snapshot() []core.IndexEntry {
	i.data.mu.RLock()
	defer i.data.mu.RUnlock()

	entries := make([]core.IndexEntry, 0, len(i.data.Entries))
	for _, e := range i.data.Entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].ID < entries[b].ID
	})
	return entries
}
