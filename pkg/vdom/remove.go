package vdom

// Removal detaches a host node once every remove hook registered on it has
// called Done. Hooks may call Done later, e.g. after an exit animation.
type Removal struct {
	p         *Patcher
	elm       NodeID
	listeners int
	cancelled bool
	completed bool
	err       error
}

func (p *Patcher) newRemoval(elm NodeID, listeners int) *Removal {
	return &Removal{p: p, elm: elm, listeners: listeners}
}

// Done signals that one hook finished. The last call detaches the node,
// unless the removal was cancelled.
func (r *Removal) Done() error {
	if r.completed {
		return r.err
	}
	r.listeners--
	if r.listeners > 0 {
		return nil
	}
	r.completed = true
	if r.cancelled {
		return nil
	}
	r.err = r.p.removeNode(r.elm)
	return r.err
}

// Cancel keeps the node attached when the last Done arrives, e.g. because
// the node was re-inserted before its exit finished.
func (r *Removal) Cancel() {
	r.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (r *Removal) Cancelled() bool { return r.cancelled }

// Completed reports whether every hook called Done.
func (r *Removal) Completed() bool { return r.completed }

// Pending returns how many Done calls are outstanding.
func (r *Removal) Pending() int { return max(r.listeners, 0) }

// Elm returns the node being removed.
func (r *Removal) Elm() NodeID { return r.elm }

// Err returns the host error from detaching, if any.
func (r *Removal) Err() error { return r.err }
