package memhost

import "github.com/vango-dev/tether/pkg/vdom"

// AddListener implements vdom.ListenerOps. A second listener for the same
// event replaces the first.
func (h *Host) AddListener(id vdom.NodeID, event string, fn vdom.Listener) error {
	if err := h.failure("AddListener"); err != nil {
		return err
	}
	n, err := h.get(id)
	if err != nil {
		return err
	}
	if n.listeners == nil {
		n.listeners = make(map[string]vdom.Listener)
	}
	n.listeners[event] = fn
	return nil
}

// RemoveListener implements vdom.ListenerOps.
func (h *Host) RemoveListener(id vdom.NodeID, event string) error {
	if err := h.failure("RemoveListener"); err != nil {
		return err
	}
	n, err := h.get(id)
	if err != nil {
		return err
	}
	delete(n.listeners, event)
	return nil
}

// HasListener reports whether a listener is bound for event.
func (h *Host) HasListener(id vdom.NodeID, event string) bool {
	n, err := h.get(id)
	if err != nil {
		return false
	}
	_, ok := n.listeners[event]
	return ok
}

// Dispatch delivers an event to the node's listener and then to each
// ancestor's, like a bubbling DOM event. It reports whether any listener
// ran.
func (h *Host) Dispatch(id vdom.NodeID, event string, payload any) bool {
	handled := false
	for id != 0 {
		n, err := h.get(id)
		if err != nil {
			break
		}
		if fn, ok := n.listeners[event]; ok && fn != nil {
			fn(payload)
			handled = true
		}
		id = n.parent
	}
	return handled
}
