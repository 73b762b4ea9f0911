// Package typed layers compile-time typed front matter over the raw
// metadata maps of core. The bridge is a JSON round trip, so any struct
// with json tags matching the front matter keys works as a model.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/folio/pkg/core"
)

// PageModel wraps the raw core.Page with a typed front matter field.
// It acts as a typed view of a page.
type PageModel[T any] struct {
	ID      string
	Content string
	Meta    T        // the typed front matter
	Saver   Saver[T] // active-record reference, attached on first save or load
}

// Saver is what a PageModel needs to persist itself. Both Repository and
// Service implement it, which keeps the model decoupled from either.
type Saver[T any] interface {
	Save(ctx context.Context, page *PageModel[T]) error
}

// Save persists the page using the attached saver.
func (p *PageModel[T]) Save(ctx context.Context) error {
	if p.Saver == nil {
		return fmt.Errorf("page is detached (missing Saver)")
	}
	return p.Saver.Save(ctx, p)
}

// Repository wraps a core.Repository to provide type-safe access.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Save persists a typed page.
func (r *Repository[T]) Save(ctx context.Context, page *PageModel[T]) error {
	metadata, err := toMetadata(page.Meta)
	if err != nil {
		return err
	}

	if page.Saver == nil {
		page.Saver = r
	}

	return r.repo.Save(ctx, core.Page{
		ID:       page.ID,
		Content:  page.Content,
		Metadata: metadata,
	})
}

// Get retrieves a page and decodes its front matter into T.
func (r *Repository[T]) Get(ctx context.Context, id string) (*PageModel[T], error) {
	p, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(p, Saver[T](r))
}

// List returns all pages converted to the typed model.
func (r *Repository[T]) List(ctx context.Context) ([]*PageModel[T], error) {
	pages, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*PageModel[T], 0, len(pages))
	for _, p := range pages {
		model, err := fromCore(p, Saver[T](r))
		if err != nil {
			return nil, fmt.Errorf("failed to decode page %s: %w", p.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a page by ID.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}

// toMetadata round-trips T through JSON into the metadata map the
// serializers understand.
func toMetadata[T any](meta T) (core.Metadata, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}
	var metadata core.Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("failed to convert front matter to metadata: %w", err)
	}
	return metadata, nil
}

func fromCore[T any](p core.Page, saver Saver[T]) (*PageModel[T], error) {
	raw, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata marshal failed: %w", err)
	}

	var meta T
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &PageModel[T]{
		ID:      p.ID,
		Content: p.Content,
		Meta:    meta,
		Saver:   saver,
	}, nil
}
