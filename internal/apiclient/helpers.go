package apiclient

import (
	"strings"
	"sync"
	"time"
)

// Debouncer delays fn until no Call has arrived for wait; only the latest value is delivered.
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func Debounce[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fn(v) })
}

// Stop drops a pending call; later calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// FilterBySearch keeps the items whose field contains search, ignoring case.
// An empty search returns items unchanged.
func FilterBySearch[T any](items []T, search string, field func(T) string) []T {
	if search == "" {
		return items
	}
	search = strings.ToLower(search)
	var out []T
	for _, item := range items {
		if strings.Contains(strings.ToLower(field(item)), search) {
			out = append(out, item)
		}
	}
	return out
}
