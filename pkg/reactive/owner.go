package reactive

import (
	"fmt"
	"slices"
	"strings"
)

// ErrorCapturedHook intercepts an error raised in a descendant scope.
// Returning false stops the error from propagating further.
type ErrorCapturedHook func(err error, origin *Owner, info string) (propagate bool)

// Owner is a scope that owns watchers, cleanups and child scopes. Disposing
// an Owner disposes everything under it. Component instances each own one.
type Owner struct {
	id     uint64
	name   string
	parent *Owner

	children []*Owner
	watchers []*Watcher
	cleanups []func()

	errorCaptured []ErrorCapturedHook
	values        map[any]any

	disposing bool
	disposed  bool
}

// NewOwner creates an Owner under parent. A nil parent creates a root.
func NewOwner(parent *Owner, name string) *Owner {
	o := &Owner{id: nextOwnerID(), name: name, parent: parent}
	if parent != nil {
		parent.children = append(parent.children, o)
	}
	return o
}

// ID returns the owner's unique id.
func (o *Owner) ID() uint64 { return o.id }

// Name returns the display name.
func (o *Owner) Name() string { return o.name }

// Parent returns the parent scope, or nil for a root.
func (o *Owner) Parent() *Owner { return o.parent }

// Children returns a copy of the child scopes.
func (o *Owner) Children() []*Owner { return slices.Clone(o.children) }

// IsDisposed reports whether Dispose has completed.
func (o *Owner) IsDisposed() bool { return o.disposed }

// Watchers returns the number of live watchers owned directly.
func (o *Owner) Watchers() int { return len(o.watchers) }

func (o *Owner) addWatcher(w *Watcher) {
	o.watchers = append(o.watchers, w)
}

func (o *Owner) removeWatcher(w *Watcher) {
	if i := slices.Index(o.watchers, w); i >= 0 {
		o.watchers = slices.Delete(o.watchers, i, i+1)
	}
}

// OnCleanup registers fn to run on Dispose. On a disposed owner fn runs
// immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed {
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
}

// OnErrorCaptured registers a hook for errors raised by descendants.
func (o *Owner) OnErrorCaptured(hook ErrorCapturedHook) {
	o.errorCaptured = append(o.errorCaptured, hook)
}

// Provide stores a value visible to this scope and its descendants.
func (o *Owner) Provide(key, value any) {
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// Inject looks key up in this scope and then its ancestors.
func (o *Owner) Inject(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Dispose tears down children (last created first), then owned watchers,
// then runs cleanups in reverse registration order.
func (o *Owner) Dispose() {
	if o.disposed || o.disposing {
		return
	}
	o.disposing = true

	for i := len(o.children) - 1; i >= 0; i-- {
		o.children[i].Dispose()
	}
	o.children = nil

	for i := len(o.watchers) - 1; i >= 0; i-- {
		o.watchers[i].Teardown()
	}
	o.watchers = nil

	for i := len(o.cleanups) - 1; i >= 0; i-- {
		o.cleanups[i]()
	}
	o.cleanups = nil

	if o.parent != nil && !o.parent.disposing {
		if i := slices.Index(o.parent.children, o); i >= 0 {
			o.parent.children = slices.Delete(o.parent.children, i, i+1)
		}
	}
	o.disposed = true
}

// Trace renders the scope chain from the root down to o, for example
// "<App> > <TodoList> > <TodoItem>".
func (o *Owner) Trace() string {
	var names []string
	for cur := o; cur != nil; cur = cur.parent {
		names = append(names, cur.displayName())
	}
	slices.Reverse(names)
	return strings.Join(names, " > ")
}

func (o *Owner) displayName() string {
	if o.name == "" {
		return fmt.Sprintf("<Anonymous#%d>", o.id)
	}
	return "<" + o.name + ">"
}
