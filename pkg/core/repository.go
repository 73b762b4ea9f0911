package core

import "context"

// Repository defines the contract for storing and retrieving pages.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, Git, SQL, S3, etc).
type Repository interface {
	// Save persists a page. It creates if not exists, or updates if it does.
	Save(ctx context.Context, p Page) error

	// Get retrieves a page by its ID.
	Get(ctx context.Context, id string) (Page, error)

	// List returns all available pages.
	// Adapters may return metadata-only pages for entries served from the index.
	List(ctx context.Context) ([]Page, error)

	// Delete removes a page by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, git init).
	Initialize(ctx context.Context) error
}

// Syncable defines an interface for repositories that support synchronization with a remote.
type Syncable interface {
	// Sync synchronizes the local state with a remote source (e.g. git pull/push).
	Sync(ctx context.Context) error
}

// Watchable defines an interface for repositories that can emit change events.
type Watchable interface {
	// Watch streams change events for pages matching pattern (doublestar glob).
	// The returned channel is closed when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Reconcilable defines an interface for repositories that can diff their
// backing store against the index and report out-of-band changes.
type Reconcilable interface {
	// Reconcile returns synthetic events for everything that changed while
	// no watcher was looking.
	Reconcile(ctx context.Context) ([]Event, error)
}

// Indexer defines an interface for repositories that maintain a page index.
// The index is the summary the search pipeline and the link graph consume:
// one entry per page with front matter fields plus extracted headings, link
// destinations and fence languages.
type Indexer interface {
	// Index refreshes and returns the page index, sorted by ID.
	Index(ctx context.Context) ([]IndexEntry, error)
}

type contextKey string

// ChangeReasonKey is the context key for passing specific change reasons (commit messages) during Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"

// Transaction defines the contract for a unit of work.
// Changes made within a transaction are atomic and isolated (depending on implementation).
type Transaction interface {
	// Save stages a page for persistence.
	Save(ctx context.Context, p Page) error

	// Get retrieves a page, preferring the staged version if it exists in the transaction.
	Get(ctx context.Context, id string) (Page, error)

	// List returns all available pages, including staged ones.
	List(ctx context.Context) ([]Page, error)

	// Delete stages a page for removal.
	Delete(ctx context.Context, id string) error

	// Commit applies all staged changes atomically.
	Commit(ctx context.Context, changeReason string) error

	// Rollback discards all staged changes.
	Rollback(ctx context.Context) error
}

// Transactional extends Repository to support transactions.
type Transactional interface {
	Repository

	// Begin starts a new transaction.
	Begin(ctx context.Context) (Transaction, error)
}
