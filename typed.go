package folio

import (
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

// FrontMatter is the canonical typed front matter of a documentation page.
// Sites with richer metadata define their own struct and use the generic
// wrappers directly.
type FrontMatter struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Slug     string   `json:"slug,omitempty"`
	Weight   int      `json:"weight,omitempty"`
	Draft    bool     `json:"draft,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// PageModel is a public alias for the typed page model.
type PageModel[T any] = typed.PageModel[T]

// TypedRepository is a public alias for the typed repository.
type TypedRepository[T any] = typed.Repository[T]

// TypedService is a public alias for the typed service.
type TypedService[T any] = typed.Service[T]

// NewTypedRepository creates a type-safe wrapper around an existing
// repository.
func NewTypedRepository[T any](repo core.Repository) *typed.Repository[T] {
	return typed.NewRepository[T](repo)
}

// NewTypedService creates a type-safe wrapper around an existing service.
func NewTypedService[T any](svc *core.Service) *typed.Service[T] {
	return typed.NewService[T](svc)
}

// OpenTypedRepository builds a TypedRepository straight from a path.
func OpenTypedRepository[T any](path string, opts ...Option) (*typed.Repository[T], error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewRepository[T](repo), nil
}

// OpenTypedService builds a TypedService straight from a path.
func OpenTypedService[T any](path string, opts ...Option) (*typed.Service[T], error) {
	svc, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewService[T](svc), nil
}
