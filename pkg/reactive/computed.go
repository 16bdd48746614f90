package reactive

import (
	"fmt"

	"github.com/vango-dev/tether/internal/errors"
)

// Computed is a cached derived value. It recomputes lazily, only when read
// after one of its sources changed.
type Computed[T any] struct {
	w *Watcher
}

// NewComputed creates a computed value from fn.
func NewComputed[T any](rt *Runtime, fn func() T, opts ...WatcherOption) *Computed[T] {
	getter := func() (any, error) { return fn(), nil }
	opts = append(opts, Lazy())
	return &Computed[T]{w: NewWatcher(rt, getter, nil, opts...)}
}

// Get returns the cached value, recomputing it if dirty. Watchers reading
// it depend on its sources.
func (c *Computed[T]) Get() T {
	w := c.w
	if w.dirty {
		w.Evaluate()
	}
	if w.rt.target() != nil {
		w.Depend()
	}
	v, _ := w.value.(T)
	return v
}

// Watcher exposes the backing lazy watcher.
func (c *Computed[T]) Watcher() *Watcher { return c.w }

// Dispose stops tracking.
func (c *Computed[T]) Dispose() { c.w.Teardown() }

// Watch runs source under tracking and calls cb with the new and previous
// values whenever it changes. With Immediate, cb also runs once right away
// with the zero value as the previous value. The returned function stops
// the watch.
func Watch[T any](rt *Runtime, source func() T, cb func(newValue, oldValue T), opts ...WatcherOption) (unwatch func()) {
	getter := func() (any, error) { return source(), nil }
	callback := func(nv, ov any) error {
		n, _ := nv.(T)
		o, _ := ov.(T)
		cb(n, o)
		return nil
	}
	w := NewWatcher(rt, getter, callback, opts...)
	if w.immediate {
		rt.Untracked(func() {
			if err := invoke(errors.CodeCallback, func() error { return callback(w.value, nil) }); err != nil {
				rt.HandleError(err, w.owner, fmt.Sprintf("callback for immediate watcher %q", w.expression))
			}
		})
	}
	return w.Teardown
}

// WatchPath watches a single key of obj. The key names the watcher in
// diagnostics.
func WatchPath(rt *Runtime, obj *Object, key string, cb Callback, opts ...WatcherOption) *Watcher {
	getter := func() (any, error) { return obj.Get(key), nil }
	opts = append([]WatcherOption{Expression(key)}, opts...)
	return NewWatcher(rt, getter, cb, opts...)
}
