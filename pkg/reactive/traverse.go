package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Traverse reads everything reachable from v so the current watcher depends
// on all of it. Shared and cyclic structures are visited once.
func Traverse(v any) {
	traverse(v)
}

func traverse(v any) {
	walk(v, mapset.NewThreadUnsafeSet[uint64]())
}

func walk(v any, seen mapset.Set[uint64]) {
	switch x := v.(type) {
	case *Object:
		if x == nil || x.frozen {
			return
		}
		if !seen.Add(x.ob.dep.id) {
			return
		}
		for _, k := range x.Keys() {
			walk(x.Get(k), seen)
		}
	case *Array:
		if x == nil {
			return
		}
		if !seen.Add(x.ob.dep.id) {
			return
		}
		for i, n := 0, x.Len(); i < n; i++ {
			walk(x.At(i), seen)
		}
	}
}
