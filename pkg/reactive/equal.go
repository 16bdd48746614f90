package reactive

import (
	"math"
	"reflect"
)

// sameValue reports whether a write of b over a is a no-op. NaN equals NaN.
// Maps, slices and funcs compare by identity; everything else comparable
// compares with ==.
func sameValue(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNaN(a) && isNaN(b) {
		return true
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		// Structs holding interfaces can still panic on ==.
		defer func() {
			if recover() != nil {
				same = false
			}
		}()
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// isCompound reports whether v is a value whose contents can change without
// the reference changing. Watchers with compound values always fire.
func isCompound(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case *Object:
		return x != nil
	case *Array:
		return x != nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return !rv.IsNil()
	}
	return false
}
