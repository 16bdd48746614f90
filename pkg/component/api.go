package component

import (
	"maps"

	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// Name returns the definition's name.
func (c *Instance) Name() string { return c.def.Name }

// Definition returns what c was created from.
func (c *Instance) Definition() *Definition { return c.def }

// Parent returns the parent instance, or nil for a root.
func (c *Instance) Parent() *Instance { return c.parent }

// Children returns the live child instances in creation order.
func (c *Instance) Children() []*Instance {
	out := make([]*Instance, len(c.children))
	copy(out, c.children)
	return out
}

// Owner returns the scope owning c's watchers. Watchers created with
// reactive.OwnedBy(c.Owner()) stop when c is destroyed.
func (c *Instance) Owner() *reactive.Owner { return c.owner }

// Runtime returns the reactive runtime.
func (c *Instance) Runtime() *reactive.Runtime { return c.app.rt }

// Props returns the declared props. Writing to them warns: they belong to
// the parent.
func (c *Instance) Props() *reactive.Object { return c.props }

// Prop reads one prop.
func (c *Instance) Prop(key string) any { return c.props.Get(key) }

// State returns the local state created from Definition.Data.
func (c *Instance) State() *reactive.Object { return c.state }

// Elm returns the host node of the rendered root.
func (c *Instance) Elm() vdom.NodeID {
	if c.root == nil {
		return 0
	}
	return c.root.Elm
}

// Root returns the last rendered tree.
func (c *Instance) Root() *vdom.VNode { return c.root }

// Err returns the error of the last patch, if it failed.
func (c *Instance) Err() error { return c.err }

// Mounted reports whether the mounted hook has run.
func (c *Instance) Mounted() bool { return c.mounted }

// Destroyed reports whether Destroy has completed its teardown.
func (c *Instance) Destroyed() bool { return c.destroyed }

// Inactive reports whether c is a kept-alive instance currently out of
// the tree.
func (c *Instance) Inactive() bool { return c.activity == activityInactive }

// On registers fn for a lifecycle hook. Hooks run untracked; a panic is
// reported through the runtime's error handling and the next hook still
// runs.
func (c *Instance) On(h Hook, fn func()) {
	if c.hooks == nil {
		c.hooks = make(map[Hook][]func())
	}
	c.hooks[h] = append(c.hooks[h], fn)
}

// OnErrorCaptured registers a hook for errors raised by descendants.
func (c *Instance) OnErrorCaptured(hook reactive.ErrorCapturedHook) {
	c.owner.OnErrorCaptured(hook)
}

// Watch creates a user watcher that lives as long as c. Errors from the
// getter or callback go through c's errorCaptured chain.
func (c *Instance) Watch(getter reactive.Getter, cb reactive.Callback, opts ...reactive.WatcherOption) *reactive.Watcher {
	base := []reactive.WatcherOption{reactive.OwnedBy(c.owner), reactive.Expression(c.def.Name + " watcher")}
	return reactive.NewWatcher(c.app.rt, getter, cb, append(base, opts...)...)
}

// ForceUpdate queues a re-render even though no state changed.
func (c *Instance) ForceUpdate() {
	if c.watcher != nil {
		c.watcher.Update()
	}
}

// NextTick runs fn after the next flush.
func (c *Instance) NextTick(fn func()) { c.app.rt.NextTick(fn) }

// Child creates a placeholder for a child component. props is copied, so
// the caller may reuse the map.
func (c *Instance) Child(def *Definition, props map[string]any, opts ...NodeOption) *vdom.VNode {
	v := &vdom.VNode{
		Kind:      vdom.KindComponent,
		Tag:       def.tag(),
		Component: def,
		Hooks:     c.app.hooks,
	}
	if len(props) > 0 {
		v.Props = maps.Clone(props)
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// KeepAlive caches the component placeholder node under key. Rendering the
// same key again reuses the cached instance, and removing the node only
// deactivates it. Cached instances are destroyed with c.
func (c *Instance) KeepAlive(key string, node *vdom.VNode) *vdom.VNode {
	if node == nil || node.Kind != vdom.KindComponent {
		return node
	}
	if c.cache == nil {
		c.cache = make(map[string]*vdom.VNode)
	}
	if cached, ok := c.cache[key]; ok && cached.Instance != nil {
		node.Instance = cached.Instance
	}
	node.KeepAlive = true
	c.cache[key] = node
	return node
}

// Emit calls the listener the parent bound for event with WithListener.
// It reports whether a listener ran.
func (c *Instance) Emit(event string, payload any) bool {
	if c.placeholder == nil {
		return false
	}
	var fn vdom.Listener
	switch h := c.placeholder.Props["on"+event].(type) {
	case vdom.Listener:
		fn = h
	case func(any):
		fn = h
	default:
		return false
	}
	return c.app.rt.Guard(c.owner, "event handler for "+event, func() error {
		fn(payload)
		return nil
	})
}
