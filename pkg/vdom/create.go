package vdom

// createElm materializes vnode and its subtree and inserts it under parent
// before ref. When vnode is already mounted and comes from ownerArray it is
// cloned first, so the previous mount stays intact.
func (p *Patcher) createElm(vnode *VNode, queue *insertQueue, parent, ref NodeID, nested bool, ownerArray []*VNode, index, depth int) error {
	if err := p.checkDepth(depth, vnode); err != nil {
		return err
	}
	if vnode.Elm != 0 && ownerArray != nil {
		vnode = vnode.Clone()
		ownerArray[index] = vnode
	}

	if ok, err := p.createComponent(vnode, queue, parent, ref); ok || err != nil {
		return err
	}

	var err error
	switch vnode.Kind {
	case KindElement:
		if vnode.Elm, err = p.ops.CreateNode(KindElement, vnode.Tag, ""); err != nil {
			return hostError("createNode", err)
		}
		p.stats.Created++
		if err := p.createChildren(vnode, vnode.Children, queue, depth); err != nil {
			return err
		}
		if vnode.HasData() {
			if err := p.invokeCreateHooks(vnode, queue); err != nil {
				return err
			}
		}
	case KindComment, KindComponent:
		// A component placeholder whose Init did not produce an instance
		// renders as an empty comment.
		if vnode.Elm, err = p.ops.CreateNode(KindComment, "", vnode.Text); err != nil {
			return hostError("createNode", err)
		}
		p.stats.Created++
	default:
		if vnode.Elm, err = p.ops.CreateNode(KindText, "", vnode.Text); err != nil {
			return hostError("createNode", err)
		}
		p.stats.Created++
	}
	return p.insert(parent, vnode.Elm, ref)
}

// createComponent runs a placeholder's Init hook and, if that produced an
// instance, adopts the instance's host node.
func (p *Patcher) createComponent(vnode *VNode, queue *insertQueue, parent, ref NodeID) (bool, error) {
	if vnode.Hooks == nil || vnode.Hooks.Init == nil {
		return false, nil
	}
	reactivated := vnode.Instance != nil && vnode.KeepAlive
	if err := vnode.Hooks.Init(vnode); err != nil {
		return true, err
	}
	if vnode.Instance == nil {
		return false, nil
	}
	if err := p.initComponent(vnode, queue); err != nil {
		return true, err
	}
	if err := p.insert(parent, vnode.Elm, ref); err != nil {
		return true, err
	}
	if reactivated {
		return true, p.reactivateComponent(vnode)
	}
	return true, nil
}

func (p *Patcher) initComponent(vnode *VNode, queue *insertQueue) error {
	if vnode.PendingInsert != nil {
		*queue = append(*queue, vnode.PendingInsert...)
		vnode.PendingInsert = nil
	}
	vnode.Elm = vnode.Instance.Elm()
	if isPatchable(vnode) {
		return p.invokeCreateHooks(vnode, queue)
	}
	*queue = append(*queue, vnode)
	return nil
}

// reactivateComponent lets modules restore state on a kept-alive
// component's innermost root.
func (p *Patcher) reactivateComponent(vnode *VNode) error {
	inner := vnode
	for inner.Instance != nil && inner.Instance.Root() != nil {
		inner = inner.Instance.Root()
	}
	for _, fn := range p.activate {
		if err := fn(emptyNode, inner); err != nil {
			return err
		}
	}
	return nil
}

func (p *Patcher) insert(parent, elm, ref NodeID) error {
	if parent == 0 {
		return nil
	}
	if ref != 0 && p.ops.ParentNode(ref) != parent {
		ref = 0
	}
	return hostError("insertBefore", p.ops.InsertBefore(parent, elm, ref))
}

func (p *Patcher) createChildren(vnode *VNode, children []*VNode, queue *insertQueue, depth int) error {
	if len(children) > 0 {
		p.checkKeys(vnode, children)
		for i, child := range children {
			if child == nil {
				continue
			}
			if err := p.createElm(child, queue, vnode.Elm, 0, true, children, i, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if vnode.Text != "" {
		id, err := p.ops.CreateNode(KindText, "", vnode.Text)
		if err != nil {
			return hostError("createNode", err)
		}
		p.stats.Created++
		return hostError("insertBefore", p.ops.InsertBefore(vnode.Elm, id, 0))
	}
	return nil
}

// isPatchable reports whether the innermost rendered root is an element.
func isPatchable(vnode *VNode) bool {
	for vnode.Instance != nil {
		root := vnode.Instance.Root()
		if root == nil {
			return false
		}
		vnode = root
	}
	return vnode.Kind == KindElement
}

func (p *Patcher) invokeCreateHooks(vnode *VNode, queue *insertQueue) error {
	for _, fn := range p.create {
		if err := fn(emptyNode, vnode); err != nil {
			return err
		}
	}
	if h := vnode.Hooks; h != nil {
		if h.Create != nil {
			h.Create(emptyNode, vnode)
		}
		if h.Insert != nil {
			*queue = append(*queue, vnode)
		}
	}
	return nil
}

func (p *Patcher) addVnodes(parent, ref NodeID, vnodes []*VNode, start, end int, queue *insertQueue, depth int) error {
	for ; start <= end; start++ {
		if vnodes[start] == nil {
			continue
		}
		if err := p.createElm(vnodes[start], queue, parent, ref, false, vnodes, start, depth); err != nil {
			return err
		}
	}
	return nil
}
