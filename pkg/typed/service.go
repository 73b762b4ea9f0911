package typed

import (
	"context"

	"github.com/aretw0/folio/pkg/core"
)

// Service wraps a core.Service to provide type-safe access with the service
// guarantees on top: ID validation, transactions, watch.
type Service[T any] struct {
	svc *core.Service
}

// NewService creates a typed service wrapper.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{svc: svc}
}

// Save persists a typed page through the core service.
func (s *Service[T]) Save(ctx context.Context, page *PageModel[T]) error {
	metadata, err := toMetadata(page.Meta)
	if err != nil {
		return err
	}

	if page.Saver == nil {
		page.Saver = s
	}

	return s.svc.SavePage(ctx, page.ID, page.Content, metadata)
}

// Get retrieves a page via the service.
func (s *Service[T]) Get(ctx context.Context, id string) (*PageModel[T], error) {
	p, err := s.svc.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(p, Saver[T](s))
}

// List retrieves all pages via the service.
func (s *Service[T]) List(ctx context.Context) ([]*PageModel[T], error) {
	pages, err := s.svc.ListPages(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*PageModel[T], 0, len(pages))
	for _, p := range pages {
		model, err := fromCore(p, Saver[T](s))
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a page via the service.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.svc.DeletePage(ctx, id)
}

// Watch observes repository changes matching the pattern.
func (s *Service[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, pattern)
}

// WithTransaction executes a typed function within a transaction.
func (s *Service[T]) WithTransaction(ctx context.Context, fn func(tx *Transaction[T]) error) error {
	return s.svc.WithTransaction(ctx, func(coreTx core.Transaction) error {
		return fn(&Transaction[T]{tx: coreTx})
	})
}

// Transaction wraps a core.Transaction for typed operations.
type Transaction[T any] struct {
	tx core.Transaction
}

// Save stages a typed page within the transaction.
func (t *Transaction[T]) Save(ctx context.Context, page *PageModel[T]) error {
	metadata, err := toMetadata(page.Meta)
	if err != nil {
		return err
	}

	if page.Saver == nil {
		page.Saver = t
	}

	return t.tx.Save(ctx, core.Page{
		ID:       page.ID,
		Content:  page.Content,
		Metadata: metadata,
	})
}

// Get retrieves a page within the transaction, staged state included.
func (t *Transaction[T]) Get(ctx context.Context, id string) (*PageModel[T], error) {
	p, err := t.tx.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(p, Saver[T](t))
}

// Delete stages a removal within the transaction.
func (t *Transaction[T]) Delete(ctx context.Context, id string) error {
	return t.tx.Delete(ctx, id)
}
