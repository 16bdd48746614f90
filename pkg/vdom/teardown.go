package vdom

import "github.com/vango-dev/tether/internal/errors"

// removeVnodes detaches vnodes[start..end]. Elements and components go
// through remove hooks and are destroyed; text and comments are detached
// directly.
func (p *Patcher) removeVnodes(vnodes []*VNode, start, end int) error {
	for ; start <= end; start++ {
		ch := vnodes[start]
		if ch == nil {
			continue
		}
		if ch.Kind == KindElement || ch.Kind == KindComponent {
			if _, err := p.removeAndInvokeRemoveHook(ch, nil); err != nil {
				return err
			}
			p.invokeDestroyHook(ch)
			continue
		}
		if err := p.removeNode(ch.Elm); err != nil {
			return err
		}
	}
	return nil
}

// removeAndInvokeRemoveHook starts a Removal for vnode's host node. The
// node is detached once the removal's own share and every module remove
// hook have called Done. A component's rendered root shares the removal.
func (p *Patcher) removeAndInvokeRemoveHook(vnode *VNode, rm *Removal) (*Removal, error) {
	if rm == nil && !vnode.HasData() {
		return nil, p.removeNode(vnode.Elm)
	}
	listeners := len(p.remove) + 1
	if rm != nil {
		rm.listeners += listeners
	} else {
		rm = p.newRemoval(vnode.Elm, listeners)
	}
	if vnode.Instance != nil {
		if root := vnode.Instance.Root(); root != nil && root.HasData() {
			if _, err := p.removeAndInvokeRemoveHook(root, rm); err != nil {
				return rm, err
			}
		}
	}
	for _, fn := range p.remove {
		fn(vnode, rm)
	}
	if vnode.Hooks != nil && vnode.Hooks.Remove != nil {
		vnode.Hooks.Remove(vnode, rm)
	} else {
		_ = rm.Done()
	}
	return rm, rm.Err()
}

func (p *Patcher) removeNode(elm NodeID) error {
	if elm == 0 {
		return nil
	}
	parent := p.ops.ParentNode(elm)
	if parent == 0 {
		return nil
	}
	p.stats.Removed++
	return hostError("removeChild", p.ops.RemoveChild(parent, elm))
}

// invokeDestroyHook runs destroy hooks on vnode and everything below it,
// children after their parent.
func (p *Patcher) invokeDestroyHook(vnode *VNode) {
	if vnode.HasData() {
		if vnode.Hooks != nil && vnode.Hooks.Destroy != nil {
			vnode.Hooks.Destroy(vnode)
		}
		for _, fn := range p.destroy {
			fn(vnode)
		}
	}
	for _, child := range vnode.Children {
		if child != nil {
			p.invokeDestroyHook(child)
		}
	}
}

func (p *Patcher) checkKeys(parent *VNode, children []*VNode) {
	if !p.devMode {
		return
	}
	p.checkDuplicateKeys(children)
	for _, c := range children {
		if c != nil && c.inList && c.Key == "" && c.Kind != KindText && c.Kind != KindComment {
			p.warnf(errors.CodeMissingKey, c.Tag, "inside <%s>", parent.Tag)
			return
		}
	}
}

// checkDuplicateKeys reports each repeated key once.
func (p *Patcher) checkDuplicateKeys(children []*VNode) {
	if p.warn == nil {
		return
	}
	seen := make(map[string]int, len(children))
	for _, c := range children {
		if c == nil || c.Key == "" {
			continue
		}
		seen[c.Key]++
		if seen[c.Key] == 2 {
			p.warnf(errors.CodeDuplicateKey, c.Key, "this may cause an update error")
		}
	}
}
