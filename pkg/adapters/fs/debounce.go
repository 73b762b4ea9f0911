package fs

import (
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// debouncer coalesces bursts of events per page ID. Editors commonly emit
// several writes for a single save; subscribers only care about the last one.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fn for the event after the debounce window. A newer event for
// the same ID replaces the pending one (last write wins).
func (d *debouncer) add(event core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.timers[event.ID]; ok {
		if prev.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[event.ID] == t {
			delete(d.timers, event.ID)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if stopped {
			return
		}
		fn(event)
	})
	d.timers[event.ID] = t
}

// stopAndWait rejects further events and waits for in-flight callbacks to
// drain, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
