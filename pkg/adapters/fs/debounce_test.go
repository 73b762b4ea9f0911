package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	got := make(chan core.Event, 10)
	cb := func(e core.Event) { got <- e }

	// Three rapid events for the same page: only the last should fire.
	d.add(core.Event{ID: "page", Type: core.EventCreate, Timestamp: 1}, cb)
	d.add(core.Event{ID: "page", Type: core.EventModify, Timestamp: 2}, cb)
	d.add(core.Event{ID: "page", Type: core.EventModify, Timestamp: 3}, cb)

	select {
	case e := <-got:
		if e.Type != core.EventModify || e.Timestamp != 3 {
			t.Errorf("expected last event to win, got %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced event")
	}

	select {
	case e := <-got:
		t.Errorf("unexpected extra event: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerKeepsDistinctIDs(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	got := make(chan core.Event, 10)
	cb := func(e core.Event) { got <- e }

	d.add(core.Event{ID: "a", Type: core.EventModify}, cb)
	d.add(core.Event{ID: "b", Type: core.EventModify}, cb)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case e := <-got:
			seen[e.ID] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected both pages, got %v", seen)
	}
}

func TestDebouncerStopAndWait(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	delivered := 0
	cb := func(core.Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}

	d.add(core.Event{ID: "x", Type: core.EventModify}, cb)
	d.stopAndWait(time.Second)

	mu.Lock()
	baseline := delivered
	mu.Unlock()

	// A stopped debouncer rejects new events.
	d.add(core.Event{ID: "y", Type: core.EventModify}, cb)
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	final := delivered
	mu.Unlock()
	if final != baseline {
		t.Errorf("events delivered after stop: %d -> %d", baseline, final)
	}
}
