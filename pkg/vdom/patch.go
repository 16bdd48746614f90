package vdom

// textInputTypes share a host representation, so an <input> may switch
// between them without being recreated.
var textInputTypes = map[string]bool{
	"text":     true,
	"number":   true,
	"password": true,
	"search":   true,
	"email":    true,
	"tel":      true,
	"url":      true,
}

// sameVnode reports whether b can be patched onto a's host node.
func sameVnode(a, b *VNode) bool {
	if a.Key != b.Key || a.AsyncFactory != b.AsyncFactory {
		return false
	}
	if a.Kind == b.Kind && a.Tag == b.Tag && a.HasData() == b.HasData() && sameInputType(a, b) {
		return true
	}
	return a.IsAsyncPlaceholder && b.AsyncFactory != nil && b.AsyncFactory.Err == nil
}

func sameInputType(a, b *VNode) bool {
	if a.Tag != "input" {
		return true
	}
	ta, tb := inputType(a), inputType(b)
	return ta == tb || textInputTypes[ta] && textInputTypes[tb]
}

func inputType(v *VNode) string {
	if v.Props == nil {
		return ""
	}
	s, _ := v.Props["type"].(string)
	return s
}

// patchVnode updates old's host node to match vnode.
func (p *Patcher) patchVnode(old, vnode *VNode, queue *insertQueue, ownerArray []*VNode, index, depth int) error {
	if old == vnode {
		return nil
	}
	if err := p.checkDepth(depth, vnode); err != nil {
		return err
	}
	if vnode.Elm != 0 && ownerArray != nil {
		vnode = vnode.Clone()
		ownerArray[index] = vnode
	}

	elm := old.Elm
	vnode.Elm = elm

	if old.IsAsyncPlaceholder {
		if vnode.AsyncFactory != nil && vnode.AsyncFactory.Resolved {
			return p.replaceAsync(old, vnode, queue, depth)
		}
		vnode.IsAsyncPlaceholder = true
		return nil
	}

	if vnode.IsStatic && old.IsStatic && vnode.Key == old.Key && (vnode.isCloned || vnode.IsOnce) {
		vnode.Instance = old.Instance
		return nil
	}

	p.stats.Patched++
	h := vnode.Hooks
	if h != nil && h.Prepatch != nil {
		h.Prepatch(old, vnode)
	}

	if vnode.HasData() && isPatchable(vnode) {
		for _, fn := range p.update {
			if err := fn(old, vnode); err != nil {
				return err
			}
		}
		if h != nil && h.Update != nil {
			h.Update(old, vnode)
		}
	}

	oldCh, ch := old.Children, vnode.Children
	if vnode.Kind == KindText || vnode.Kind == KindComment || vnode.Text != "" {
		if old.Text != vnode.Text {
			if err := p.setText(elm, vnode.Text); err != nil {
				return err
			}
		}
	} else {
		switch {
		case len(oldCh) > 0 && len(ch) > 0:
			if !sameSlice(oldCh, ch) {
				if err := p.updateChildren(elm, oldCh, ch, queue, depth+1); err != nil {
					return err
				}
			}
		case len(ch) > 0:
			p.checkKeys(vnode, ch)
			if old.Text != "" {
				if err := p.setText(elm, ""); err != nil {
					return err
				}
			}
			if err := p.addVnodes(elm, 0, ch, 0, len(ch)-1, queue, depth+1); err != nil {
				return err
			}
		case len(oldCh) > 0:
			if err := p.removeVnodes(oldCh, 0, len(oldCh)-1); err != nil {
				return err
			}
		case old.Text != "":
			if err := p.setText(elm, ""); err != nil {
				return err
			}
		}
	}

	if h != nil && h.Postpatch != nil {
		h.Postpatch(old, vnode)
	}
	return nil
}

func (p *Patcher) setText(elm NodeID, text string) error {
	return hostError("setText", p.ops.SetText(elm, text))
}

// replaceAsync swaps a resolved async component in for its placeholder.
func (p *Patcher) replaceAsync(old, vnode *VNode, queue *insertQueue, depth int) error {
	vnode.Elm = 0
	parent := p.ops.ParentNode(old.Elm)
	if err := p.createElm(vnode, queue, parent, old.Elm, false, nil, 0, depth); err != nil {
		return err
	}
	if parent == 0 {
		return nil
	}
	return p.removeVnodes([]*VNode{old}, 0, 0)
}

func sameSlice(a, b []*VNode) bool {
	return len(a) == len(b) && &a[0] == &b[0]
}

func at(s []*VNode, i int) *VNode {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

// updateChildren reconciles two child lists with four cursors, falling back
// to a key index for the general case.
func (p *Patcher) updateChildren(parent NodeID, oldCh, newCh []*VNode, queue *insertQueue, depth int) error {
	oldStartIdx, newStartIdx := 0, 0
	oldEndIdx, newEndIdx := len(oldCh)-1, len(newCh)-1
	oldStart, oldEnd := at(oldCh, oldStartIdx), at(oldCh, oldEndIdx)
	newStart, newEnd := at(newCh, newStartIdx), at(newCh, newEndIdx)

	var oldKeyToIdx map[string]int

	if p.devMode {
		p.checkDuplicateKeys(newCh)
	}

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStart == nil:
			oldStartIdx++
			oldStart = at(oldCh, oldStartIdx)
		case oldEnd == nil:
			oldEndIdx--
			oldEnd = at(oldCh, oldEndIdx)
		case newStart == nil:
			newStartIdx++
			newStart = at(newCh, newStartIdx)
		case newEnd == nil:
			newEndIdx--
			newEnd = at(newCh, newEndIdx)
		case sameVnode(oldStart, newStart):
			if err := p.patchVnode(oldStart, newStart, queue, newCh, newStartIdx, depth); err != nil {
				return err
			}
			oldStartIdx++
			newStartIdx++
			oldStart, newStart = at(oldCh, oldStartIdx), at(newCh, newStartIdx)
		case sameVnode(oldEnd, newEnd):
			if err := p.patchVnode(oldEnd, newEnd, queue, newCh, newEndIdx, depth); err != nil {
				return err
			}
			oldEndIdx--
			newEndIdx--
			oldEnd, newEnd = at(oldCh, oldEndIdx), at(newCh, newEndIdx)
		case sameVnode(oldStart, newEnd):
			// Moved right.
			if err := p.patchVnode(oldStart, newEnd, queue, newCh, newEndIdx, depth); err != nil {
				return err
			}
			if err := p.move(parent, oldStart.Elm, p.ops.NextSibling(oldEnd.Elm)); err != nil {
				return err
			}
			oldStartIdx++
			newEndIdx--
			oldStart, newEnd = at(oldCh, oldStartIdx), at(newCh, newEndIdx)
		case sameVnode(oldEnd, newStart):
			// Moved left.
			if err := p.patchVnode(oldEnd, newStart, queue, newCh, newStartIdx, depth); err != nil {
				return err
			}
			if err := p.move(parent, oldEnd.Elm, oldStart.Elm); err != nil {
				return err
			}
			oldEndIdx--
			newStartIdx++
			oldEnd, newStart = at(oldCh, oldEndIdx), at(newCh, newStartIdx)
		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = createKeyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld := -1
			if newStart.Key != "" {
				if i, ok := oldKeyToIdx[newStart.Key]; ok {
					idxInOld = i
				}
			} else {
				idxInOld = findIdxInOld(newStart, oldCh, oldStartIdx, oldEndIdx)
			}

			if idxInOld < 0 {
				if err := p.createElm(newStart, queue, parent, oldStart.Elm, false, newCh, newStartIdx, depth); err != nil {
					return err
				}
			} else if toMove := oldCh[idxInOld]; toMove != nil && sameVnode(toMove, newStart) {
				if err := p.patchVnode(toMove, newStart, queue, newCh, newStartIdx, depth); err != nil {
					return err
				}
				oldCh[idxInOld] = nil
				if err := p.move(parent, toMove.Elm, oldStart.Elm); err != nil {
					return err
				}
			} else {
				// Same key, different node: treat as new.
				if err := p.createElm(newStart, queue, parent, oldStart.Elm, false, newCh, newStartIdx, depth); err != nil {
					return err
				}
			}
			newStartIdx++
			newStart = at(newCh, newStartIdx)
		}
	}

	if oldStartIdx > oldEndIdx {
		var ref NodeID
		if next := at(newCh, newEndIdx+1); next != nil {
			ref = next.Elm
		}
		return p.addVnodes(parent, ref, newCh, newStartIdx, newEndIdx, queue, depth)
	}
	if newStartIdx > newEndIdx {
		return p.removeVnodes(oldCh, oldStartIdx, oldEndIdx)
	}
	return nil
}

func (p *Patcher) move(parent, elm, ref NodeID) error {
	p.stats.Moved++
	return hostError("insertBefore", p.ops.InsertBefore(parent, elm, ref))
}

func createKeyToOldIdx(children []*VNode, start, end int) map[string]int {
	m := make(map[string]int)
	for i := start; i <= end; i++ {
		if c := children[i]; c != nil && c.Key != "" {
			m[c.Key] = i
		}
	}
	return m
}

// findIdxInOld scans the remaining window for a keyless match.
func findIdxInOld(node *VNode, oldCh []*VNode, start, end int) int {
	for i := start; i < end; i++ {
		if c := oldCh[i]; c != nil && sameVnode(node, c) {
			return i
		}
	}
	return -1
}
