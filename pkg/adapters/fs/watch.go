package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

// Watch emits change events for the content root until ctx is cancelled.
// pattern is a doublestar glob on site-relative paths; "" or "*" watches
// everything.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	events := make(chan core.Event)

	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Stop waits for the run loop (and its debouncer) to drain, so
		// closing the channel afterwards is safe.
		_ = w.Stop(stopCtx)
		close(events)
	}()

	return events, nil
}

// Reconcile diffs the content root against the index and returns synthetic
// events for anything that changed while the watcher was paused (typically a
// git operation touching many files at once).
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	r.ensureIndex()

	var events []core.Event
	var changed []string
	seen := make(map[string]bool)
	now := time.Now().Unix()

	err := r.walkSite(func(relPath, fullPath string, d os.DirEntry) error {
		seen[relPath] = true

		info, err := d.Info()
		if err != nil {
			return nil
		}

		entry, ok := r.index.Lookup(relPath)
		switch {
		case !ok:
			events = append(events, core.Event{Type: core.EventCreate, ID: r.idFor(relPath), Timestamp: now})
			changed = append(changed, relPath)
		case !entry.LastModified.Equal(info.ModTime()):
			events = append(events, core.Event{Type: core.EventModify, ID: entry.ID, Timestamp: now})
			changed = append(changed, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Entries whose files vanished.
	var deleted []string
	r.index.Range(func(relPath string, entry *core.IndexEntry) bool {
		if !seen[relPath] {
			events = append(events, core.Event{Type: core.EventDelete, ID: entry.ID, Timestamp: now})
			deleted = append(deleted, relPath)
		}
		return true
	})

	// Refresh the index so the next reconcile doesn't re-emit the same diff.
	for _, relPath := range changed {
		page, err := r.Get(ctx, r.idFor(relPath))
		if err != nil {
			continue
		}
		if info, serr := os.Stat(filepath.Join(r.Path, filepath.FromSlash(relPath))); serr == nil {
			r.setEntryFromPage(relPath, page, info.ModTime())
		}
	}
	for _, relPath := range deleted {
		r.index.Delete(relPath)
	}
	if !r.readOnly {
		if err := r.index.Save(); err != nil && r.config.Logger != nil {
			r.config.Logger.Debug("index save failed", "error", err)
		}
	}

	r.recordReconcile()
	return events, nil
}

// recursiveAdd registers the content tree with the watcher, skipping system
// and hidden directories.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path {
			name := d.Name()
			if name == ".git" || name == r.config.SystemDir || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}

// watchableDir reports whether a directory discovered at runtime belongs in
// the watch set. File-level filtering still happens per event, so only the
// system and hidden exclusions matter here.
func (r *Repository) watchableDir(fullPath string) bool {
	rel, err := filepath.Rel(r.Path, fullPath)
	if err != nil {
		return false
	}
	relPath := filepath.ToSlash(rel)
	if strings.HasPrefix(relPath, "..") {
		return false
	}
	for _, part := range strings.Split(relPath, "/") {
		if part == ".git" || part == r.config.SystemDir || strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}

// shouldIgnore filters watcher events down to content files the caller cares
// about.
func (r *Repository) shouldIgnore(event fsnotify.Event, pattern string) bool {
	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil {
		return true
	}
	relPath := filepath.ToSlash(rel)
	if strings.HasPrefix(relPath, "..") {
		return true
	}

	// System and hidden paths, including pending atomic writes.
	for _, part := range strings.Split(relPath, "/") {
		if part == ".git" || part == r.config.SystemDir || strings.HasPrefix(part, ".") {
			return true
		}
	}

	if _, ok := r.serializers[filepath.Ext(event.Name)]; !ok {
		return true
	}

	if r.ignored(relPath) {
		return true
	}

	if pattern != "" && pattern != "*" {
		ok, err := doublestar.Match(pattern, relPath)
		if err != nil || !ok {
			return true
		}
	}

	return false
}

// mapEventType translates an fsnotify event into a domain event type.
// Returns "" for events we don't surface (chmod).
func (r *Repository) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// resolveID maps an absolute event path back to a page ID.
func (r *Repository) resolveID(fullPath string) (string, error) {
	rel, err := filepath.Rel(r.Path, fullPath)
	if err != nil {
		return "", err
	}
	relPath := filepath.ToSlash(rel)
	if strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("path outside content root: %s", fullPath)
	}
	return r.idFor(relPath), nil
}
