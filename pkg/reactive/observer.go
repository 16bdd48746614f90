package reactive

// Observer marks a value as observed and carries the collection-level Dep
// notified by Set, Del and array mutators.
type Observer struct {
	dep *Dep
	// rootCount is how many component instances use the value as root
	// state. Root state cannot gain keys through Set.
	rootCount int
}

func newObserver(rt *Runtime) *Observer {
	return &Observer{dep: NewDep(rt)}
}

// Dep returns the collection Dep.
func (ob *Observer) Dep() *Dep { return ob.dep }

// Raw wraps a value that must never be observed.
type Raw struct {
	Value any
}

// MarkRaw returns v wrapped so Observe leaves it alone.
func MarkRaw(v any) Raw {
	return Raw{Value: v}
}

// ObserverOf returns v's observer, or nil when v is not observed.
func ObserverOf(v any) *Observer {
	switch x := v.(type) {
	case *Object:
		if x != nil {
			return x.ob
		}
	case *Array:
		if x != nil {
			return x.ob
		}
	}
	return nil
}

// Observe returns the observed form of v. map[string]any becomes *Object,
// []any becomes *Array, both recursively. Already observed values, Raw
// values, frozen objects and everything else are returned unchanged. When
// observation is toggled off, v is returned as is.
func (rt *Runtime) Observe(v any) any {
	switch x := v.(type) {
	case *Object, *Array, Raw:
		return v
	case map[string]any:
		if !rt.shouldObserve {
			return v
		}
		return rt.newObject(x)
	case []any:
		if !rt.shouldObserve {
			return v
		}
		return rt.newArray(x)
	}
	return v
}

// Reactive observes a map and returns the resulting Object.
func (rt *Runtime) Reactive(m map[string]any) *Object {
	return rt.newObject(m)
}

// ReactiveArray observes a slice and returns the resulting Array.
func (rt *Runtime) ReactiveArray(items []any) *Array {
	return rt.newArray(items)
}

// Root observes m as a component's root state. Runtime.Set refuses to add
// keys to root state.
func (rt *Runtime) Root(m map[string]any) *Object {
	obj := rt.newObject(m)
	obj.ob.rootCount++
	return obj
}

// Freeze returns a non-extensible, unobserved Object holding m's entries.
// Put ignores new keys; existing keys can still be written but nothing
// tracks them.
func (rt *Runtime) Freeze(m map[string]any) *Object {
	obj := &Object{rt: rt, props: make(map[string]*prop, len(m)), frozen: true}
	for _, k := range sortedKeys(m) {
		obj.keys = append(obj.keys, k)
		obj.props[k] = &prop{value: m[k]}
	}
	return obj
}

// observeChild observes v in place of a slot value and returns the stored
// value together with its observer.
func (rt *Runtime) observeChild(v any) (any, *Observer) {
	v = rt.Observe(v)
	return v, ObserverOf(v)
}

// dependArray collects the collection deps of every observed element,
// since element reads cannot be intercepted.
func dependArray(a *Array) {
	for _, e := range a.items {
		if ob := ObserverOf(e); ob != nil {
			ob.dep.Depend()
		}
		if inner, ok := e.(*Array); ok {
			dependArray(inner)
		}
	}
}
