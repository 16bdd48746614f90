package component

import (
	"slices"

	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

type activity uint8

const (
	activityUnset activity = iota
	activityActive
	activityInactive
)

// Instance is a mounted component with its state, props and rendered tree.
type Instance struct {
	app    *App
	def    *Definition
	owner  *reactive.Owner
	parent *Instance

	children []*Instance

	props *reactive.Object
	state *reactive.Object
	hooks map[Hook][]func()

	// placeholder is the vnode standing for this instance in the parent's
	// tree; nil for a root.
	placeholder *vdom.VNode
	root        *vdom.VNode
	target      vdom.NodeID
	watcher     *reactive.Watcher
	err         error

	cache map[string]*vdom.VNode

	updatingProps  bool
	mounted        bool
	destroying     bool
	destroyed      bool
	activity       activity
	directInactive bool
}

var _ vdom.ComponentInstance = (*Instance)(nil)

func (a *App) newInstance(def *Definition, parent *Instance, placeholder *vdom.VNode, props map[string]any) *Instance {
	var parentOwner *reactive.Owner
	if parent != nil {
		parentOwner = parent.owner
	}
	c := &Instance{
		app:         a,
		def:         def,
		parent:      parent,
		placeholder: placeholder,
		owner:       reactive.NewOwner(parentOwner, def.Name),
	}
	if parent != nil {
		parent.children = append(parent.children, c)
	}

	a.rt.Untracked(func() {
		c.initProps(props)
		data := map[string]any{}
		if def.Data != nil {
			a.rt.Guard(c.owner, "data()", func() error {
				data = def.Data()
				return nil
			})
		}
		c.state = a.rt.Root(data)
		if def.Setup != nil {
			a.rt.Guard(c.owner, "setup", func() error {
				def.Setup(c)
				return nil
			})
		}
	})
	return c
}

// initProps defines the declared props. Values handed down by a parent are
// already observed on the parent's side, so observation is off while
// defining them.
func (c *Instance) initProps(values map[string]any) {
	rt := c.app.rt
	c.props = rt.Reactive(map[string]any{})
	if c.parent != nil {
		prev := rt.ToggleObserving(false)
		defer rt.ToggleObserving(prev)
	}
	for _, key := range c.def.Props {
		c.props.Define(key, values[key], reactive.WithCustomSetter(func() {
			if !c.updatingProps {
				rt.Warn(errors.New(errors.CodeReadonlyMutation).
					WithSubject(key).
					WithSuggestion("Props are overwritten whenever the parent re-renders; keep a local copy in state"), c.owner)
			}
		}))
	}
}

func (c *Instance) mount() error {
	c.callHook(BeforeMount)
	c.watcher = reactive.NewWatcher(c.app.rt, c.update, nil,
		reactive.Render(),
		reactive.OwnedBy(c.owner),
		reactive.Expression(c.def.Name+" render"),
		reactive.Before(func() {
			if c.mounted && !c.destroyed {
				c.callHook(BeforeUpdate)
			}
		}),
		reactive.After(func() {
			if c.mounted && !c.destroyed {
				c.callHook(Updated)
			}
		}),
	)
	return c.err
}

// update is the render watcher's getter.
func (c *Instance) update() (any, error) {
	c.err = c.patch(c.render())
	if c.err != nil {
		c.app.rt.HandleError(c.err, c.owner, "patch")
	}
	return nil, nil
}

// render runs the render function. If it panics the previous tree is
// rendered again.
func (c *Instance) render() *vdom.VNode {
	var vnode *vdom.VNode
	if !c.app.rt.Guard(c.owner, "render", func() error {
		vnode = c.def.Render(c)
		return nil
	}) {
		vnode = c.root
	}
	if vnode == nil {
		vnode = vdom.Comment("")
	}
	vnode.Parent = c.placeholder
	return vnode
}

func (c *Instance) patch(vnode *vdom.VNode) error {
	prev := c.root
	c.root = vnode
	defer c.app.setActive(c)()

	p := c.app.patcher
	var err error
	switch {
	case prev != nil:
		_, err = p.Patch(prev, vnode)
	case c.target != 0:
		_, err = p.Mount(c.target, vnode)
	default:
		_, err = p.Patch(nil, vnode)
	}
	return err
}

// updateFromParent takes the props and placeholder of a parent re-render.
func (c *Instance) updateFromParent(vnode *vdom.VNode) {
	c.placeholder = vnode
	if c.root != nil {
		c.root.Parent = vnode
	}
	rt := c.app.rt
	prev := rt.ToggleObserving(false)
	c.updatingProps = true
	for _, key := range c.def.Props {
		c.props.Put(key, vnode.Props[key])
	}
	c.updatingProps = false
	rt.ToggleObserving(prev)
}

func (c *Instance) callHook(h Hook) {
	fns := c.hooks[h]
	if len(fns) == 0 {
		return
	}
	info := h.String() + " hook"
	c.app.rt.Untracked(func() {
		for _, fn := range fns {
			c.app.rt.Guard(c.owner, info, func() error {
				fn()
				return nil
			})
		}
	})
}

func (c *Instance) activate(direct bool) {
	if direct {
		c.directInactive = false
		if c.inInactiveTree() {
			return
		}
	} else if c.directInactive {
		return
	}
	if c.activity == activityActive {
		return
	}
	c.activity = activityActive
	for _, child := range c.children {
		child.activate(false)
	}
	c.callHook(Activated)
}

func (c *Instance) deactivate(direct bool) {
	if direct {
		c.directInactive = true
		if c.inInactiveTree() {
			return
		}
	}
	if c.activity == activityInactive {
		return
	}
	c.activity = activityInactive
	for _, child := range c.children {
		child.deactivate(false)
	}
	c.callHook(Deactivated)
}

func (c *Instance) inInactiveTree() bool {
	for p := c.parent; p != nil; p = p.parent {
		if p.activity == activityInactive {
			return true
		}
	}
	return false
}

// Destroy tears the instance down: its watchers stop, its subtree's
// components are destroyed and the destroy hooks run. The host nodes stay
// where they are.
func (c *Instance) Destroy() {
	if c.destroying {
		return
	}
	c.callHook(BeforeDestroy)
	c.destroying = true
	if p := c.parent; p != nil && !p.destroying {
		if i := slices.Index(p.children, c); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	c.owner.Dispose()
	c.destroyed = true
	if c.root != nil {
		if _, err := c.app.patcher.Patch(c.root, nil); err != nil {
			c.app.rt.HandleError(err, c.owner, "destroy")
		}
	}
	for _, cached := range c.cache {
		if inst, ok := cached.Instance.(*Instance); ok && !inst.destroyed {
			inst.Destroy()
		}
	}
	c.cache = nil
	c.callHook(Destroyed)
}
