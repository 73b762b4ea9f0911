package core

import (
	"context"
	"errors"
	"sync"
)

// defaultEventBuffer is the event broker capacity used when no override is given.
const defaultEventBuffer = 100

// Service handles the business logic for pages.
type Service struct {
	repo            Repository
	mu              sync.RWMutex
	eventBufferSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEventBuffer sets the capacity of the Watch event broker.
// Zero or negative means default (100).
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SavePage saves a page with business validation.
func (s *Service) SavePage(ctx context.Context, id string, content string, metadata Metadata) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	p := Page{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	}

	return s.repo.Save(ctx, p)
}

// GetPage retrieves a page.
func (s *Service) GetPage(ctx context.Context, id string) (Page, error) {
	if err := ValidateID(id); err != nil {
		return Page{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListPages retrieves all pages.
func (s *Service) ListPages(ctx context.Context) ([]Page, error) {
	return s.repo.List(ctx)
}

// DeletePage removes a page.
func (s *Service) DeletePage(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Index refreshes and returns the page index if the repository maintains one.
func (s *Service) Index(ctx context.Context) ([]IndexEntry, error) {
	ix, ok := s.repo.(Indexer)
	if !ok {
		return nil, errors.New("repository does not support indexing")
	}
	return ix.Index(ctx)
}

// Reconcile diffs the backing store against the index and returns events for
// out-of-band changes (files edited while the service was down).
func (s *Service) Reconcile(ctx context.Context) ([]Event, error) {
	r, ok := s.repo.(Reconcilable)
	if !ok {
		return nil, errors.New("repository does not support reconciliation")
	}
	return r.Reconcile(ctx)
}

// WithTransaction executes a function within a transaction.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return errors.New("repository does not support transactions")
	}

	tx, err := tr.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	msg := "batch transaction"
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	return tx.Commit(ctx, msg)
}

// Begin initiates a transaction manually.
// Exposed for power users or custom workflows.
func (s *Service) Begin(ctx context.Context) (Transaction, error) {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return nil, errors.New("repository does not support transactions")
	}
	return tr.Begin(ctx)
}

// Watch observes changes in the repository if supported.
//
// The service inserts a buffering broker between the repository's watcher and
// the consumer: the upstream producer must never block on a slow consumer.
// When the buffer fills, the oldest event is dropped in favor of the newest.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}

	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				default:
					// Buffer full. Shed the oldest event; stale filesystem
					// events are cheaper to lose than a wedged watcher.
					select {
					case <-out:
					default:
					}
					select {
					case out <- e:
					default:
					}
				}
			}
		}
	}()

	return out, nil
}
