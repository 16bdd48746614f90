package component

import (
	"log/slog"

	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// App mounts component trees on one runtime and one patcher. Like the
// runtime it is single-threaded: drive it from the goroutine that owns the
// runtime, e.g. through reactive.Loop.
type App struct {
	rt      *reactive.Runtime
	patcher *vdom.Patcher
	logger  *slog.Logger
	hooks   *vdom.Hooks

	// active is the instance whose tree is being patched; placeholders
	// materialized during that patch become its children.
	active *Instance
}

// NewApp creates an App rendering through p.
func NewApp(rt *reactive.Runtime, p *vdom.Patcher) *App {
	a := &App{rt: rt, patcher: p, logger: rt.Logger()}
	a.hooks = &vdom.Hooks{
		Init:     a.initHook,
		Prepatch: a.prepatchHook,
		Insert:   a.insertHook,
		Destroy:  a.destroyHook,
	}
	return a
}

// Runtime returns the reactive runtime.
func (a *App) Runtime() *reactive.Runtime { return a.rt }

// Patcher returns the patcher.
func (a *App) Patcher() *vdom.Patcher { return a.patcher }

// Mount creates a root instance of def and renders it in place of the host
// node target. With a zero target the tree stays detached and can be
// attached through the instance's Elm. The returned error is the first
// render's patch error, if any; the instance is returned either way.
func (a *App) Mount(def *Definition, target vdom.NodeID, props map[string]any) (*Instance, error) {
	c := a.newInstance(def, nil, nil, props)
	c.target = target
	if err := c.mount(); err != nil {
		return c, err
	}
	c.mounted = true
	c.callHook(Mounted)
	a.logger.Debug("component mounted", "component", def.Name, "elm", c.Elm())
	return c, nil
}

func (a *App) setActive(c *Instance) (restore func()) {
	prev := a.active
	a.active = c
	return func() { a.active = prev }
}

func (a *App) initHook(vnode *vdom.VNode) error {
	if c, ok := vnode.Instance.(*Instance); ok && !c.destroyed && vnode.KeepAlive {
		// A cached instance coming back: treat it as an update.
		a.prepatchHook(vnode, vnode)
		return nil
	}
	def, ok := vnode.Component.(*Definition)
	if !ok {
		return errors.New(errors.CodeInvalidTarget).
			WithSubject(vnode.Tag).
			WithDetail("component placeholder has no definition")
	}
	c := a.newInstance(def, a.active, vnode, vnode.Props)
	vnode.Instance = c
	return c.mount()
}

func (a *App) prepatchHook(old, vnode *vdom.VNode) {
	c, ok := old.Instance.(*Instance)
	if !ok {
		return
	}
	vnode.Instance = c
	c.updateFromParent(vnode)
}

func (a *App) insertHook(vnode *vdom.VNode) {
	c, ok := vnode.Instance.(*Instance)
	if !ok {
		return
	}
	if !c.mounted {
		c.mounted = true
		c.callHook(Mounted)
	}
	if !vnode.KeepAlive {
		return
	}
	if c.parent != nil && c.parent.mounted {
		// Activate once the whole tree has been patched, so activated
		// hooks see the final tree.
		c.activity = activityActive
		a.rt.Scheduler().QueueActivated(activation{c})
		return
	}
	c.activate(true)
}

func (a *App) destroyHook(vnode *vdom.VNode) {
	c, ok := vnode.Instance.(*Instance)
	if !ok || c.destroyed {
		return
	}
	if vnode.KeepAlive {
		c.deactivate(true)
		return
	}
	c.Destroy()
}

// activation adapts a kept-alive instance to the scheduler's activated
// queue.
type activation struct{ c *Instance }

func (x activation) Activate() {
	x.c.activity = activityInactive
	x.c.activate(true)
}
