package vdom

// NodeOps is the narrow interface the patcher uses to mutate the host tree.
// Implementations decide what a node is; the patcher only moves handles.
type NodeOps interface {
	// CreateNode creates a detached node. tag is set for elements, text for
	// text and comment nodes.
	CreateNode(kind VKind, tag, text string) (NodeID, error)
	// InsertBefore attaches node under parent before ref. A zero ref
	// appends. Inserting an attached node moves it.
	InsertBefore(parent, node, ref NodeID) error
	// RemoveChild detaches node from parent.
	RemoveChild(parent, node NodeID) error
	// SetText replaces a text or comment node's payload, or an element's
	// whole content with a single text.
	SetText(node NodeID, text string) error
	// NextSibling returns the node after node, or zero.
	NextSibling(node NodeID) NodeID
	// ParentNode returns node's parent, or zero when detached.
	ParentNode(node NodeID) NodeID
}

// AttrOps is implemented by hosts that support element attributes.
type AttrOps interface {
	SetAttr(node NodeID, key, value string) error
	RemoveAttr(node NodeID, key string) error
}

// ListenerOps is implemented by hosts that can deliver events.
type ListenerOps interface {
	AddListener(node NodeID, event string, fn Listener) error
	RemoveListener(node NodeID, event string) error
}
