// Package tether provides the public API for the tether engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/tether"
//
// Usage:
//
//	eng := tether.New(host, nil)
//	counter := &tether.Definition{
//	    Name: "Counter",
//	    Data: func() map[string]any { return map[string]any{"n": 0} },
//	    Render: func(c *tether.Instance) *tether.VNode {
//	        return vdom.Button(vdom.Textf("%d", c.State().Get("n")))
//	    },
//	}
//	eng.Mount(counter, target, nil)
package tether

import (
	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

type (
	Runtime  = reactive.Runtime
	Object   = reactive.Object
	Array    = reactive.Array
	Watcher  = reactive.Watcher
	Owner    = reactive.Owner
	Callback = reactive.Callback

	// Diagnostic is a coded warning or error.
	Diagnostic = reactive.Diagnostic
)

// Computed is a lazily evaluated, cached derivation.
type Computed[T any] = reactive.Computed[T]

// NewComputed creates a computed value over rt.
func NewComputed[T any](rt *Runtime, fn func() T) *Computed[T] {
	return reactive.NewComputed(rt, fn)
}

// Watch calls cb whenever source produces a different value. The returned
// function stops watching.
func Watch[T any](rt *Runtime, source func() T, cb func(newValue, oldValue T)) (unwatch func()) {
	return reactive.Watch(rt, source, cb)
}

// Errors returned by the scheduler and loop.
var (
	ErrCircularUpdate = reactive.ErrCircularUpdate
	ErrLoopClosed     = reactive.ErrLoopClosed
)

// =============================================================================
// Components (re-export from pkg/component)
// =============================================================================

type (
	Definition = component.Definition
	Instance   = component.Instance
	Hook       = component.Hook
)

// Lifecycle hooks.
const (
	BeforeMount   = component.BeforeMount
	Mounted       = component.Mounted
	BeforeUpdate  = component.BeforeUpdate
	Updated       = component.Updated
	Activated     = component.Activated
	Deactivated   = component.Deactivated
	BeforeDestroy = component.BeforeDestroy
	Destroyed     = component.Destroyed
)

// =============================================================================
// Virtual tree (re-export from pkg/vdom)
// =============================================================================

type (
	VNode   = vdom.VNode
	NodeID  = vdom.NodeID
	NodeOps = vdom.NodeOps
	Module  = vdom.Module
)
