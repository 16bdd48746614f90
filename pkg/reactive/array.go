package reactive

import (
	"slices"
	"sort"
)

// Array is an observed list. Reads track the collection; the mutator
// methods observe inserted values and notify. Index assignment is only
// reactive through Runtime.Set.
type Array struct {
	rt    *Runtime
	ob    *Observer
	items []any
}

func (rt *Runtime) newArray(items []any) *Array {
	a := &Array{rt: rt, ob: newObserver(rt), items: make([]any, len(items))}
	for i, v := range items {
		a.items[i] = rt.Observe(v)
	}
	return a
}

func (a *Array) track() {
	a.ob.dep.Depend()
}

func (a *Array) observeAll(vs []any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = a.rt.Observe(v)
	}
	return out
}

// Observer returns the array's observer.
func (a *Array) Observer() *Observer { return a.ob }

// Len returns the length.
func (a *Array) Len() int {
	a.track()
	return len(a.items)
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	a.track()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items returns a shallow copy of the elements.
func (a *Array) Items() []any {
	a.track()
	return slices.Clone(a.items)
}

// IndexOf returns the first index of v, or -1.
func (a *Array) IndexOf(v any) int {
	a.track()
	for i, e := range a.items {
		if sameValue(e, v) {
			return i
		}
	}
	return -1
}

// Push appends vs and returns the new length.
func (a *Array) Push(vs ...any) int {
	a.items = append(a.items, a.observeAll(vs)...)
	a.ob.dep.Notify()
	return len(a.items)
}

// Pop removes and returns the last element.
func (a *Array) Pop() any {
	var out any
	if n := len(a.items); n > 0 {
		out = a.items[n-1]
		a.items[n-1] = nil
		a.items = a.items[:n-1]
	}
	a.ob.dep.Notify()
	return out
}

// Shift removes and returns the first element.
func (a *Array) Shift() any {
	var out any
	if len(a.items) > 0 {
		out = a.items[0]
		a.items = slices.Delete(a.items, 0, 1)
	}
	a.ob.dep.Notify()
	return out
}

// Unshift prepends vs and returns the new length.
func (a *Array) Unshift(vs ...any) int {
	a.items = slices.Insert(a.items, 0, a.observeAll(vs)...)
	a.ob.dep.Notify()
	return len(a.items)
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end; both
// arguments are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	removed := a.splice(start, deleteCount, a.observeAll(items))
	a.ob.dep.Notify()
	return removed
}

func (a *Array) splice(start, deleteCount int, items []any) []any {
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)
	removed := slices.Clone(a.items[start : start+deleteCount])
	a.items = slices.Replace(a.items, start, start+deleteCount, items...)
	return removed
}

// Sort sorts the elements in place with less. The sort is stable.
func (a *Array) Sort(less func(x, y any) bool) {
	sort.SliceStable(a.items, func(i, j int) bool { return less(a.items[i], a.items[j]) })
	a.ob.dep.Notify()
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	slices.Reverse(a.items)
	a.ob.dep.Notify()
}

// ToSlice returns a deep, untracked copy with observed values unwrapped.
func (a *Array) ToSlice() []any {
	out := make([]any, len(a.items))
	for i, v := range a.items {
		out[i] = unwrap(v)
	}
	return out
}
