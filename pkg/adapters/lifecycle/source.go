// Package lifecycle bridges folio's event stream into the generic
// lifecycle.Source contract, so page changes can feed any pipeline built on
// that runtime.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

type pageSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a page event channel (from Repository.Watch or
// Service.Watch) as a lifecycle.Source.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &pageSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *pageSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *pageSource) Start(ctx context.Context) error {
	// The bridge goroutine is tracked by lifecycle.Go so shutdown is orderly.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event via String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
