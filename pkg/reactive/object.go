package reactive

import (
	"slices"
	"sort"

	"github.com/vango-dev/tether/internal/errors"
)

// Object is an observed string-keyed record. Each key defined at creation
// or through Set/Define is a reactive slot.
type Object struct {
	rt     *Runtime
	ob     *Observer
	keys   []string
	props  map[string]*prop
	frozen bool
}

type prop struct {
	// dep is nil for plain keys, which are stored but never tracked.
	dep          *Dep
	value        any
	childOb      *Observer
	shallow      bool
	customSetter func()
}

// DefineOption adjusts a reactive slot created by Define.
type DefineOption func(*prop)

// Shallow stores the value without observing it.
func Shallow() DefineOption {
	return func(p *prop) { p.shallow = true }
}

// WithCustomSetter runs fn before each effective write to the slot.
func WithCustomSetter(fn func()) DefineOption {
	return func(p *prop) { p.customSetter = fn }
}

func (rt *Runtime) newObject(m map[string]any) *Object {
	obj := &Object{
		rt:    rt,
		ob:    newObserver(rt),
		props: make(map[string]*prop, len(m)),
	}
	for _, k := range sortedKeys(m) {
		obj.defineReactive(k, m[k])
	}
	return obj
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *Object) defineReactive(key string, v any, opts ...DefineOption) *prop {
	p := &prop{dep: NewDep(o.rt)}
	for _, opt := range opts {
		opt(p)
	}
	if p.shallow {
		p.value = v
	} else {
		p.value, p.childOb = o.rt.observeChild(v)
	}
	if _, exists := o.props[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.props[key] = p
	return p
}

// Define makes key a reactive slot holding v, replacing any existing slot.
// It does not notify; use Runtime.Set to add keys that readers are waiting
// on.
func (o *Object) Define(key string, v any, opts ...DefineOption) {
	if o.frozen {
		o.rt.Warn(errors.New(errors.CodeNonReactiveTarget).WithSubject(key), nil)
		return
	}
	o.defineReactive(key, v, opts...)
}

// DefineReadonly defines key so that writes through Put warn with T002.
// The write still happens.
func (o *Object) DefineReadonly(key string, v any, owner *Owner) {
	o.Define(key, v, WithCustomSetter(func() {
		o.rt.Warn(errors.New(errors.CodeReadonlyMutation).WithSubject(key), owner)
	}))
}

// Get reads key. Inside an evaluation it tracks the slot and, for observed
// values, the value's own collection. Reading a missing key tracks the
// object's structure so a later Set is seen.
func (o *Object) Get(key string) any {
	p, ok := o.props[key]
	if !ok {
		if o.ob != nil {
			o.ob.dep.Depend()
		}
		return nil
	}
	if p.dep != nil && o.rt.target() != nil {
		p.dep.Depend()
		if p.childOb != nil {
			p.childOb.dep.Depend()
			if arr, ok := p.value.(*Array); ok {
				dependArray(arr)
			}
		}
	}
	return p.value
}

// Lookup is Get with a presence flag.
func (o *Object) Lookup(key string) (any, bool) {
	v := o.Get(key)
	_, ok := o.props[key]
	return v, ok
}

// Has reports whether key exists, tracking the object's structure.
func (o *Object) Has(key string) bool {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	_, ok := o.props[key]
	return ok
}

// Keys returns the keys in insertion order, tracking the object's
// structure.
func (o *Object) Keys() []string {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	return slices.Clone(o.keys)
}

// Len returns the number of keys, tracking the object's structure.
func (o *Object) Len() int {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	return len(o.keys)
}

// Put writes key. Writing the same value is a no-op. Writing a new value to
// a reactive slot observes it and notifies the slot's subscribers. Writing
// a key the object does not have stores a plain untracked value, or is
// ignored on a frozen object.
func (o *Object) Put(key string, v any) {
	p, ok := o.props[key]
	if !ok {
		if o.frozen {
			return
		}
		o.keys = append(o.keys, key)
		o.props[key] = &prop{value: v}
		return
	}
	if sameValue(p.value, v) {
		return
	}
	if p.dep == nil {
		p.value = v
		return
	}
	if p.customSetter != nil {
		p.customSetter()
	}
	if p.shallow {
		p.value, p.childOb = v, nil
	} else {
		p.value, p.childOb = o.rt.observeChild(v)
	}
	p.dep.Notify()
}

// delete removes key and reports whether it existed. The removed slot's
// subscribers are notified.
func (o *Object) delete(key string) bool {
	p, ok := o.props[key]
	if !ok {
		return false
	}
	delete(o.props, key)
	if i := slices.Index(o.keys, key); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
	if p.dep != nil {
		p.dep.Notify()
	}
	return true
}

// IsReactive reports whether key is a tracked slot.
func (o *Object) IsReactive(key string) bool {
	p, ok := o.props[key]
	return ok && p.dep != nil
}

// Frozen reports whether the object is non-extensible.
func (o *Object) Frozen() bool { return o.frozen }

// Observer returns the object's observer, or nil for frozen objects.
func (o *Object) Observer() *Observer { return o.ob }

// ToMap returns a deep, untracked copy with observed values unwrapped.
func (o *Object) ToMap() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = unwrap(o.props[k].value)
	}
	return out
}

func unwrap(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.ToMap()
	case *Array:
		return x.ToSlice()
	case Raw:
		return x.Value
	}
	return v
}
