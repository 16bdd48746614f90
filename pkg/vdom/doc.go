// Package vdom reconciles virtual node trees against a host tree.
//
// A VNode describes an element, a text, a comment or a child component
// placeholder. The Patcher compares an old tree with a new one and applies
// the minimal set of changes through the NodeOps interface, which is all it
// knows about the host. Hosts that also implement AttrOps or ListenerOps
// can be driven by AttrsModule and ListenersModule.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    Ul(List(items, func(it Item, _ int) *VNode {
//	        return Li(Key(it.ID), Text(it.Name))
//	    })),
//	    OnClick(handler),
//	)
//
// # Reconciliation
//
// Two nodes are patched in place when their keys, kinds and tags agree,
// both or neither carry data, and, for inputs, their types are compatible.
// Children are matched from both ends of the old and new lists; whatever
// is left is matched by key, so reordering a keyed list moves host nodes
// instead of recreating them. Unkeyed siblings are matched in place.
//
// Component placeholders are materialized by their Init hook, which sets
// an instance whose rendered root the patcher adopts. Removal can be
// delayed by remove hooks through a ref-counted Removal.
package vdom
