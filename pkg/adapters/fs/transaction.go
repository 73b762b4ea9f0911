package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/folio/pkg/core"
)

// Transaction batches page writes and removals into a single atomic apply:
// one git commit for the whole set, one index save. Reads see staged state.
type Transaction struct {
	repo *Repository
	id   string

	mu      sync.Mutex
	staged  map[string]core.Page
	deleted map[string]bool
	done    bool
}

// NewTransaction starts a unit of work against repo.
func NewTransaction(repo *Repository) *Transaction {
	t := &Transaction{
		repo:    repo,
		id:      uuid.NewString(),
		staged:  make(map[string]core.Page),
		deleted: make(map[string]bool),
	}
	repo.registerTransaction(t.id)
	return t
}

// ID returns the transaction identifier.
func (t *Transaction) ID() string {
	return t.id
}

// Save stages a page. Nothing touches disk until Commit.
func (t *Transaction) Save(ctx context.Context, p core.Page) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return fmt.Errorf("transaction %s already finalized", t.id)
	}
	if p.ID == "" {
		return fmt.Errorf("page has no ID")
	}

	t.staged[p.ID] = p
	delete(t.deleted, p.ID)
	return nil
}

// Get returns the staged version of a page if present, the repository's
// otherwise. Pages staged for deletion read as not found.
func (t *Transaction) Get(ctx context.Context, id string) (core.Page, error) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return core.Page{}, fmt.Errorf("transaction %s already finalized", t.id)
	}
	if p, ok := t.staged[id]; ok {
		t.mu.Unlock()
		return p, nil
	}
	if t.deleted[id] {
		t.mu.Unlock()
		return core.Page{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	t.mu.Unlock()

	return t.repo.Get(ctx, id)
}

// List merges the repository's pages with the transaction's staged state.
func (t *Transaction) List(ctx context.Context) ([]core.Page, error) {
	pages, err := t.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil, fmt.Errorf("transaction %s already finalized", t.id)
	}

	merged := make(map[string]core.Page, len(pages)+len(t.staged))
	for _, p := range pages {
		merged[p.ID] = p
	}
	for id, p := range t.staged {
		merged[id] = p
	}
	for id := range t.deleted {
		delete(merged, id)
	}

	out := make([]core.Page, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete stages a page for removal.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return fmt.Errorf("transaction %s already finalized", t.id)
	}

	t.deleted[id] = true
	delete(t.staged, id)
	return nil
}

// Commit applies the staged changes: every write lands atomically, the index
// is refreshed once, and (with Git enabled) the whole batch becomes a single
// commit under changeReason.
func (t *Transaction) Commit(ctx context.Context, changeReason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return fmt.Errorf("transaction %s already finalized", t.id)
	}
	if len(t.staged) == 0 && len(t.deleted) == 0 {
		t.finalize()
		return nil
	}
	if t.repo.readOnly {
		return core.ErrReadOnly
	}

	r := t.repo
	r.ensureIndex()

	var unlock func()
	if !r.config.Gitless {
		var err error
		unlock, err = r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()
	}

	// Deterministic apply order keeps commits reproducible.
	saveIDs := make([]string, 0, len(t.staged))
	for id := range t.staged {
		saveIDs = append(saveIDs, id)
	}
	sort.Strings(saveIDs)

	for _, id := range saveIDs {
		page := t.staged[id]

		filename, s, err := r.fileFor(page)
		if err != nil {
			return err
		}
		fullPath := filepath.Join(r.Path, filename)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		data, err := s.Serialize(page, r.config.MetadataKey)
		if err != nil {
			return fmt.Errorf("failed to serialize page %s: %w", id, err)
		}

		if err := writeFileAtomic(fullPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		relPath := filepath.ToSlash(filename)
		r.recordSelfWrite(relPath, data)
		if info, serr := os.Stat(fullPath); serr == nil {
			r.setEntryFromPage(relPath, page, info.ModTime())
		}

		if !r.config.Gitless {
			if err := r.git.Add(filename); err != nil {
				return fmt.Errorf("failed to git add %s: %w", filename, err)
			}
		}
	}

	deleteIDs := make([]string, 0, len(t.deleted))
	for id := range t.deleted {
		deleteIDs = append(deleteIDs, id)
	}
	sort.Strings(deleteIDs)

	for _, id := range deleteIDs {
		filename := id
		if _, ok := r.serializers[filepath.Ext(id)]; !ok {
			filename = id + ".md"
		}
		fullPath := filepath.Join(r.Path, filename)

		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			continue // Already gone; deletion is idempotent inside a batch.
		}

		if r.config.Gitless {
			if err := os.Remove(fullPath); err != nil {
				return fmt.Errorf("failed to remove file: %w", err)
			}
		} else {
			if err := r.git.Rm(filename); err != nil {
				return fmt.Errorf("failed to git rm %s: %w", filename, err)
			}
		}

		relPath := filepath.ToSlash(filename)
		r.index.Delete(relPath)
		r.clearSelfWrite(relPath)
	}

	if !r.config.Gitless {
		msg := changeReason
		if msg == "" {
			msg = "batch transaction update"
		}
		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	if err := r.index.Save(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index save failed", "error", err)
	}

	t.finalize()
	return nil
}

// Rollback discards the staged changes. Disk and index were never touched.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return fmt.Errorf("transaction %s already finalized", t.id)
	}

	t.staged = nil
	t.deleted = nil
	t.finalize()
	return nil
}

// finalize marks the transaction done and deregisters it. Caller holds t.mu.
func (t *Transaction) finalize() {
	t.done = true
	t.repo.unregisterTransaction(t.id)
}
