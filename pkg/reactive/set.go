package reactive

import (
	"fmt"

	"github.com/vango-dev/tether/internal/errors"
)

// Set writes key on target and makes it reactive if it is new, notifying
// readers of the target's structure. target is an *Object with a string key
// or an *Array with an int index; an index past the end grows the array
// with nils. It returns value.
//
// Set warns and does nothing useful for root state, frozen objects and
// values that are not observed.
func (rt *Runtime) Set(target any, key any, value any) any {
	switch t := target.(type) {
	case *Array:
		idx, ok := key.(int)
		if !ok || idx < 0 {
			rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubjectf("%v", key).
				WithDetail("array keys must be non-negative ints"), nil)
			return value
		}
		for len(t.items) < idx {
			t.items = append(t.items, nil)
		}
		t.Splice(idx, 1, value)
		return value
	case *Object:
		k, ok := key.(string)
		if !ok {
			rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubjectf("%v", key).
				WithDetail("object keys must be strings"), nil)
			return value
		}
		if _, exists := t.props[k]; exists {
			t.Put(k, value)
			return value
		}
		if t.ob != nil && t.ob.rootCount > 0 {
			rt.Warn(errors.New(errors.CodeRootDataAddition).WithSubject(k), nil)
			return value
		}
		if t.ob == nil {
			rt.Warn(errors.New(errors.CodeNonReactiveTarget).WithSubject(k), nil)
			t.Put(k, value)
			return value
		}
		t.defineReactive(k, value)
		t.ob.dep.Notify()
		return value
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubjectf("%v", key), nil)
			return value
		}
		rt.Warn(errors.New(errors.CodeNonReactiveTarget).WithSubject(k), nil)
		t[k] = value
		return value
	}
	rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubject(fmt.Sprintf("%T", target)), nil)
	return value
}

// Del removes key from target and notifies. Deleting from root state or a
// frozen object warns instead.
func (rt *Runtime) Del(target any, key any) {
	switch t := target.(type) {
	case *Array:
		idx, ok := key.(int)
		if !ok || idx < 0 {
			rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubjectf("%v", key), nil)
			return
		}
		if idx < len(t.items) {
			t.Splice(idx, 1)
		}
	case *Object:
		k, ok := key.(string)
		if !ok {
			rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubjectf("%v", key), nil)
			return
		}
		if t.ob != nil && t.ob.rootCount > 0 {
			rt.Warn(errors.New(errors.CodeRootDataAddition).WithSubject(k).
				WithDetail("avoid deleting properties on root state"), nil)
			return
		}
		if t.frozen {
			rt.Warn(errors.New(errors.CodeNonReactiveTarget).WithSubject(k), nil)
			return
		}
		if !t.delete(k) {
			return
		}
		if t.ob != nil {
			t.ob.dep.Notify()
		}
	case map[string]any:
		if k, ok := key.(string); ok {
			delete(t, k)
		}
	default:
		rt.Warn(errors.New(errors.CodeInvalidTarget).WithSubject(fmt.Sprintf("%T", target)), nil)
	}
}
