package vdom

// invoker is what the host actually holds. Patching swaps the handler
// inside it, so the host registration survives re-renders.
type invoker struct {
	fn Listener
}

func (i *invoker) call(payload any) {
	if i.fn != nil {
		i.fn(payload)
	}
}

// ListenersModule binds "on*" props holding a Listener to hosts
// implementing ListenerOps. The event name is the prop name without the
// "on" prefix.
func ListenersModule(ops NodeOps) Module {
	host, ok := ops.(ListenerOps)
	if !ok {
		return Module{Name: "listeners"}
	}
	sync := func(old, vnode *VNode) error {
		if vnode.Kind != KindElement {
			return nil
		}
		return updateListeners(host, old, vnode)
	}
	return Module{
		Name:   "listeners",
		Create: sync,
		Update: sync,
		Destroy: func(vnode *VNode) {
			for _, inv := range vnode.listeners {
				inv.fn = nil
			}
		},
	}
}

func updateListeners(host ListenerOps, old, vnode *VNode) error {
	prev := old.listeners
	next := make(map[string]*invoker)
	for key, v := range vnode.Props {
		if !isEventHandler(key) {
			continue
		}
		fn := asListener(v)
		if fn == nil {
			continue
		}
		event := key[2:]
		if inv, ok := prev[event]; ok {
			inv.fn = fn
			next[event] = inv
			continue
		}
		inv := &invoker{fn: fn}
		if err := host.AddListener(vnode.Elm, event, inv.call); err != nil {
			return hostError("addListener", err)
		}
		next[event] = inv
	}
	for event, inv := range prev {
		if _, kept := next[event]; kept {
			continue
		}
		inv.fn = nil
		if err := host.RemoveListener(vnode.Elm, event); err != nil {
			return hostError("removeListener", err)
		}
	}
	vnode.listeners = next
	return nil
}

func asListener(v any) Listener {
	switch fn := v.(type) {
	case Listener:
		return fn
	case func(any):
		return fn
	case func():
		return func(any) { fn() }
	}
	return nil
}
