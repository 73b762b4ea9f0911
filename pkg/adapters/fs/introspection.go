package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState is the snapshot a Repository exposes for diagnostics.
type RepositoryState struct {
	Path           string     `json:"path"`
	SystemDir      string     `json:"system_dir"`
	IndexSize      int        `json:"index_size"`
	Gitless        bool       `json:"gitless"`
	ReadOnly       bool       `json:"read_only"`
	Strict         bool       `json:"strict"`
	Serializers    []string   `json:"serializers"`
	WatcherActive  bool       `json:"watcher_active"`
	LastReconcile  *time.Time `json:"last_reconcile,omitempty"`
	TransactionIDs []string   `json:"transaction_ids,omitempty"`
}

var (
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var txIDs []string
	for id := range r.transactions {
		txIDs = append(txIDs, id)
	}
	sort.Strings(txIDs)

	return RepositoryState{
		Path:           r.Path,
		SystemDir:      r.config.SystemDir,
		IndexSize:      r.index.Len(),
		Gitless:        r.config.Gitless,
		ReadOnly:       r.readOnly,
		Strict:         r.config.Strict,
		Serializers:    exts,
		WatcherActive:  r.watcherActive,
		LastReconcile:  r.lastReconcile,
		TransactionIDs: txIDs,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	r.watcherActive = active
	r.mu.Unlock()
}

func (r *Repository) recordReconcile() {
	now := time.Now()
	r.mu.Lock()
	r.lastReconcile = &now
	r.mu.Unlock()
}
