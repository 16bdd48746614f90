package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment or empty placeholder
	KindComponent              // Placeholder for a child component instance
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// NodeID is a handle to a node in the host tree. Zero means no node.
type NodeID uint32

// Props holds attributes and event listeners. A nil Props means the node
// carries no data at all, which matters for node identity.
type Props map[string]any

// VNode is a virtual tree node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag, or component name for KindComponent
	Props    Props    // Attributes and listeners
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key; empty means unkeyed
	Text     string   // Text payload

	// Elm is the host node this vnode is mounted as. Zero before mount.
	Elm NodeID

	// Hooks are per-node lifecycle callbacks.
	Hooks *Hooks

	// Component placeholder state.
	Component     any               // Opaque definition, e.g. component options
	Instance      ComponentInstance // Set by the Init hook
	KeepAlive     bool              // Instance survives removal and is reactivated
	PendingInsert []*VNode          // Insert hooks deferred during the child's first patch

	// Parent is the placeholder vnode whose component rendered this root.
	Parent *VNode

	AsyncFactory       *AsyncFactory
	IsAsyncPlaceholder bool

	IsStatic bool
	IsOnce   bool
	isCloned bool

	// inList marks children produced by List, which are expected to be keyed.
	inList bool

	listeners map[string]*invoker
}

// ComponentInstance is the view of a mounted child component the patcher
// needs.
type ComponentInstance interface {
	// Elm returns the host node of the component's rendered root.
	Elm() NodeID
	// Root returns the component's current rendered tree.
	Root() *VNode
}

// AsyncFactory identifies a pending asynchronous component. Vnodes
// created from the same factory compare by pointer.
type AsyncFactory struct {
	Resolved bool
	Err      error
}

// HasData reports whether the node carries props, hooks or component state.
func (v *VNode) HasData() bool {
	return v.Props != nil || v.Hooks != nil || v.Kind == KindComponent
}

// InList reports whether the node was produced by List.
func (v *VNode) InList() bool { return v.inList }

// Clone returns a shallow copy suitable for re-mounting: the copy shares
// children and props but has no host node.
func (v *VNode) Clone() *VNode {
	c := *v
	c.Elm = 0
	c.isCloned = true
	c.listeners = nil
	if v.Children != nil {
		c.Children = make([]*VNode, len(v.Children))
		copy(c.Children, v.Children)
	}
	return &c
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler binds a listener to an event name.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler Listener
}

// Listener receives an event payload from the host.
type Listener func(payload any)
