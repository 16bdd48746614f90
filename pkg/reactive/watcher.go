package reactive

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vango-dev/tether/internal/errors"
)

// Kind classifies a Watcher.
type Kind uint8

const (
	// KindUser is a watcher created by Watch or NewWatcher.
	KindUser Kind = iota
	// KindComputed is a lazy watcher backing a Computed value.
	KindComputed
	// KindRender is a component's render-and-patch watcher.
	KindRender
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindComputed:
		return "computed"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// Getter produces a watcher's value. Reads made while it runs become the
// watcher's dependencies.
type Getter func() (any, error)

// Callback observes a value change.
type Callback func(newValue, oldValue any) error

// Watcher evaluates a getter under dependency tracking and re-evaluates it
// when a dependency changes.
type Watcher struct {
	id    uint64
	rt    *Runtime
	owner *Owner
	kind  Kind

	getter     Getter
	cb         Callback
	expression string

	deep      bool
	lazy      bool
	sync      bool
	dirty     bool
	active    bool
	immediate bool

	before func()
	after  func()

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]

	value  any
	failed bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// Deep makes the watcher depend on everything reachable from its value.
func Deep() WatcherOption {
	return func(w *Watcher) { w.deep = true }
}

// Lazy defers evaluation until Evaluate is called; changes only mark the
// watcher dirty.
func Lazy() WatcherOption {
	return func(w *Watcher) {
		w.lazy = true
		w.kind = KindComputed
	}
}

// Sync runs the watcher as soon as a dependency changes, bypassing the
// scheduler.
func Sync() WatcherOption {
	return func(w *Watcher) { w.sync = true }
}

// Immediate invokes the callback with the initial value when created
// through Watch.
func Immediate() WatcherOption {
	return func(w *Watcher) { w.immediate = true }
}

// Render marks the watcher as a component render watcher.
func Render() WatcherOption {
	return func(w *Watcher) { w.kind = KindRender }
}

// Before registers a hook run right before the watcher runs in a flush.
func Before(fn func()) WatcherOption {
	return func(w *Watcher) { w.before = fn }
}

// After registers a hook run once the flush that ran the watcher has
// finished. After hooks run in reverse queue order.
func After(fn func()) WatcherOption {
	return func(w *Watcher) { w.after = fn }
}

// Expression names the watcher in diagnostics.
func Expression(expr string) WatcherOption {
	return func(w *Watcher) { w.expression = expr }
}

// OwnedBy registers the watcher with an Owner, which tears it down on
// dispose and receives its errors.
func OwnedBy(o *Owner) WatcherOption {
	return func(w *Watcher) { w.owner = o }
}

// NewWatcher creates a watcher and, unless it is lazy, evaluates it once to
// collect its initial dependencies.
func NewWatcher(rt *Runtime, getter Getter, cb Callback, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		id:        nextWatcherID(),
		rt:        rt,
		getter:    getter,
		cb:        cb,
		active:    true,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.dirty = w.lazy
	if w.expression == "" {
		w.expression = fmt.Sprintf("%s#%d", w.kind, w.id)
	}
	if w.owner != nil {
		w.owner.addWatcher(w)
	}
	if !w.lazy {
		w.value = w.Get()
	}
	return w
}

// ID returns the watcher id. Ids increase with creation order.
func (w *Watcher) ID() uint64 { return w.id }

// Kind returns the watcher kind.
func (w *Watcher) Kind() Kind { return w.kind }

// Owner returns the owning scope, if any.
func (w *Watcher) Owner() *Owner { return w.owner }

// Expression returns the diagnostic name.
func (w *Watcher) Expression() string { return w.expression }

// Value returns the last evaluated value without tracking.
func (w *Watcher) Value() any { return w.value }

// Dirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) Dirty() bool { return w.dirty }

// Active reports whether the watcher has not been torn down.
func (w *Watcher) Active() bool { return w.active }

// Failed reports whether the last evaluation returned an error.
func (w *Watcher) Failed() bool { return w.failed }

// Deps returns a copy of the current dependency list.
func (w *Watcher) Deps() []*Dep {
	out := make([]*Dep, len(w.deps))
	copy(out, w.deps)
	return out
}

// Get evaluates the getter with w as the target and swaps in the freshly
// collected dependencies. On error the previous value is kept.
func (w *Watcher) Get() any {
	exit := w.rt.enter(w)
	defer func() {
		exit()
		w.CleanupDeps()
	}()

	var value any
	err := invoke(errors.CodeEvaluation, func() error {
		var gerr error
		value, gerr = w.getter()
		return gerr
	})
	if err != nil {
		w.failed = true
		w.rt.HandleError(w.wrap(errors.CodeEvaluation, err), w.owner, fmt.Sprintf("getter for watcher %q", w.expression))
		return w.value
	}
	w.failed = false
	if w.deep {
		traverse(value)
	}
	return value
}

func (w *Watcher) wrap(code string, err error) error {
	var te *errors.Error
	if errors.As(err, &te) && te.Code == code {
		return te.WithSubject(w.expression)
	}
	return errors.New(code).Wrap(err).WithSubject(w.expression)
}

func (w *Watcher) addDep(d *Dep) {
	if w.newDepIDs.Contains(d.id) {
		return
	}
	w.newDepIDs.Add(d.id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.addSub(w)
	}
}

// CleanupDeps unsubscribes from deps not read in the last evaluation and
// promotes the new set to current.
func (w *Watcher) CleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.id) {
			d.removeSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	old := w.deps
	w.deps = w.newDeps
	clear(old)
	w.newDeps = old[:0]
}

// Update is called by a Dep when it changes. Lazy watchers are marked
// dirty, sync watchers run at once, everything else is queued.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.Run()
	default:
		w.rt.scheduler.QueueWatcher(w)
	}
}

// Run re-evaluates and invokes the callback when the value changed, is
// compound, or the watcher is deep.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	w.rt.metrics.WatcherRan(w.kind)
	value := w.Get()
	if w.failed {
		return
	}
	if !sameValue(value, w.value) || isCompound(value) || w.deep {
		old := w.value
		w.value = value
		w.invokeCallback(value, old)
	}
}

func (w *Watcher) invokeCallback(value, old any) {
	if w.cb == nil {
		return
	}
	if err := invoke(errors.CodeCallback, func() error { return w.cb(value, old) }); err != nil {
		w.rt.HandleError(w.wrap(errors.CodeCallback, err), w.owner, fmt.Sprintf("callback for watcher %q", w.expression))
	}
}

// Evaluate recomputes a lazy watcher's value and clears its dirty flag.
func (w *Watcher) Evaluate() {
	w.value = w.Get()
	w.dirty = false
}

// Depend makes the current target depend on everything w depends on. It
// lets a render watcher that reads a computed value follow the computed
// value's sources.
func (w *Watcher) Depend() {
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].Depend()
	}
}

// Teardown unsubscribes w from all its deps. A torn-down watcher never runs
// again.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if w.owner != nil && !w.owner.disposing {
		w.owner.removeWatcher(w)
	}
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].removeSub(w)
	}
	w.active = false
}
