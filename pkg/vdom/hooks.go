package vdom

// Hooks are per-node lifecycle callbacks. Any may be nil.
type Hooks struct {
	// Init runs before a component placeholder is materialized. It is
	// expected to set vnode.Instance.
	Init func(vnode *VNode) error
	// Create runs after the node's host element and children exist.
	Create func(empty, vnode *VNode)
	// Insert runs once the node is attached to the live tree.
	Insert func(vnode *VNode)
	// Prepatch runs before a node is patched against its predecessor.
	Prepatch func(old, vnode *VNode)
	// Update runs after modules updated the node.
	Update func(old, vnode *VNode)
	// Postpatch runs after the node's children were patched.
	Postpatch func(old, vnode *VNode)
	// Remove may delay detaching the host node. It must call r.Done.
	Remove func(vnode *VNode, r *Removal)
	// Destroy runs when the node leaves the tree for good.
	Destroy func(vnode *VNode)
}

// Module extends node creation, update and teardown, e.g. to sync
// attributes or listeners with the host. Any hook may be nil.
type Module struct {
	Name     string
	Create   func(old, vnode *VNode) error
	Activate func(old, vnode *VNode) error
	Update   func(old, vnode *VNode) error
	Remove   func(vnode *VNode, r *Removal)
	Destroy  func(vnode *VNode)
}

// emptyNode stands in for "no previous node" in create hooks.
var emptyNode = &VNode{Kind: KindComment}
