// Package reactive implements fine-grained dependency tracking with batched,
// ordered re-evaluation.
//
// Data is made observable by wrapping it: Observe converts map[string]any
// into *Object and []any into *Array, recursively. Every property slot owns a
// Dep. Reading a slot while a Watcher is evaluating records the Dep as a
// dependency of that Watcher; writing a different value notifies every
// subscriber.
//
// Notified watchers are not run immediately. They are queued on the
// runtime's Scheduler and flushed together on the next tick, in ascending
// creation order, so that parents run before children and user watchers run
// before the render watchers created after them.
//
//	rt := reactive.New()
//	state := rt.Reactive(map[string]any{"count": 0})
//
//	reactive.Watch(rt, func() int {
//	    return state.Get("count").(int)
//	}, func(newValue, oldValue int) {
//	    fmt.Println(oldValue, "->", newValue)
//	})
//
//	state.Put("count", 1)
//	state.Put("count", 2)
//	rt.Tick() // prints "0 -> 2" once
//
// # Threading
//
// A Runtime is single-threaded. All reads, writes and flushes must happen on
// one goroutine. Use Loop to funnel work from other goroutines onto that
// goroutine.
//
// # Property addition
//
// Put on a key an Object does not yet have stores a plain, untracked value.
// Use Runtime.Set to add a key reactively and Runtime.Del to remove one.
// Index assignment on an Array is likewise only reactive through Set.
package reactive
