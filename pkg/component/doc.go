// Package component ties the reactive runtime to the patcher.
//
// A Definition describes a component: the props it accepts, its local
// state, a Setup function and a Render function. An App mounts a root
// Definition; every Instance owns a render watcher whose getter renders
// the component and patches the result against the previous tree. When
// any state read during render changes, the watcher is queued and the
// component re-renders on the next flush, parents before children.
//
// Child components appear in a parent's tree as placeholder vnodes
// created with Instance.Child. The patcher materializes them through
// node hooks: Init creates and mounts the child instance, Prepatch passes
// new props down, Insert fires the mounted hook and Destroy tears the
// child down. Wrapping a placeholder with Instance.KeepAlive caches its
// instance across removals instead of destroying it.
//
//	counter := &component.Definition{
//	    Name: "Counter",
//	    Data: func() map[string]any { return map[string]any{"n": 0} },
//	    Render: func(c *component.Instance) *vdom.VNode {
//	        return vdom.Button(
//	            vdom.OnClick(func(any) { c.State().Put("n", c.State().Get("n").(int)+1) }),
//	            vdom.Textf("%d", c.State().Get("n")),
//	        )
//	    },
//	}
package component
