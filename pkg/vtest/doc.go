// Package vtest provides testing helpers for tether components and trees.
//
// A Harness bundles a Runtime, an in-memory host, a recording NodeOps and a
// component App, and captures warnings and errors instead of logging them.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New().WithDevMode(true).Build(t)
//	    c := h.Mount(t, Counter, nil)
//	    h.Host.Dispatch(c.Elm(), "click", nil)
//	    h.Tick()
//	    vtest.ExpectHTML(t, h, "<button>1</button>")
//	}
//
// # Render Assertions
//
// Trees can be checked without a harness:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
package vtest
