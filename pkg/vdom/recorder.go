package vdom

import "fmt"

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreate         OpKind = 0x01 // Create a detached node
	OpInsert         OpKind = 0x02 // Insert or move a node
	OpRemove         OpKind = 0x03 // Detach a node
	OpSetText        OpKind = 0x04 // Replace text content
	OpSetAttr        OpKind = 0x05 // Set/update attribute
	OpRemoveAttr     OpKind = 0x06 // Remove attribute
	OpAddListener    OpKind = 0x07 // Bind an event listener
	OpRemoveListener OpKind = 0x08 // Unbind an event listener
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	default:
		return "Unknown"
	}
}

// Op is one recorded host mutation.
type Op struct {
	Kind   OpKind
	Node   NodeID // Target node
	Parent NodeID // Parent for Insert/Remove
	Ref    NodeID // Insert position; zero appends
	Key    string // Tag for Create, attribute or event name
	Value  string // Text or attribute value
}

func (o Op) String() string {
	switch o.Kind {
	case OpCreate:
		return fmt.Sprintf("Create #%d %s%s", o.Node, o.Key, o.Value)
	case OpInsert:
		return fmt.Sprintf("Insert #%d into #%d before #%d", o.Node, o.Parent, o.Ref)
	case OpRemove:
		return fmt.Sprintf("Remove #%d from #%d", o.Node, o.Parent)
	case OpSetText:
		return fmt.Sprintf("SetText #%d %q", o.Node, o.Value)
	case OpSetAttr:
		return fmt.Sprintf("SetAttr #%d %s=%q", o.Node, o.Key, o.Value)
	default:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Key)
	}
}

// Recorder wraps a host and logs every mutation passing through it. Reads
// are forwarded without being recorded. Attribute and listener calls are
// forwarded only when the wrapped host supports them.
type Recorder struct {
	host NodeOps
	ops  []Op
}

// NewRecorder wraps host.
func NewRecorder(host NodeOps) *Recorder {
	return &Recorder{host: host}
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op { return r.ops }

// Reset clears the log.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) CreateNode(kind VKind, tag, text string) (NodeID, error) {
	id, err := r.host.CreateNode(kind, tag, text)
	if err == nil {
		r.ops = append(r.ops, Op{Kind: OpCreate, Node: id, Key: tag, Value: text})
	}
	return id, err
}

func (r *Recorder) InsertBefore(parent, node, ref NodeID) error {
	r.ops = append(r.ops, Op{Kind: OpInsert, Node: node, Parent: parent, Ref: ref})
	return r.host.InsertBefore(parent, node, ref)
}

func (r *Recorder) RemoveChild(parent, node NodeID) error {
	r.ops = append(r.ops, Op{Kind: OpRemove, Node: node, Parent: parent})
	return r.host.RemoveChild(parent, node)
}

func (r *Recorder) SetText(node NodeID, text string) error {
	r.ops = append(r.ops, Op{Kind: OpSetText, Node: node, Value: text})
	return r.host.SetText(node, text)
}

func (r *Recorder) NextSibling(node NodeID) NodeID { return r.host.NextSibling(node) }

func (r *Recorder) ParentNode(node NodeID) NodeID { return r.host.ParentNode(node) }

func (r *Recorder) SetAttr(node NodeID, key, value string) error {
	r.ops = append(r.ops, Op{Kind: OpSetAttr, Node: node, Key: key, Value: value})
	if h, ok := r.host.(AttrOps); ok {
		return h.SetAttr(node, key, value)
	}
	return nil
}

func (r *Recorder) RemoveAttr(node NodeID, key string) error {
	r.ops = append(r.ops, Op{Kind: OpRemoveAttr, Node: node, Key: key})
	if h, ok := r.host.(AttrOps); ok {
		return h.RemoveAttr(node, key)
	}
	return nil
}

func (r *Recorder) AddListener(node NodeID, event string, fn Listener) error {
	r.ops = append(r.ops, Op{Kind: OpAddListener, Node: node, Key: event})
	if h, ok := r.host.(ListenerOps); ok {
		return h.AddListener(node, event, fn)
	}
	return nil
}

func (r *Recorder) RemoveListener(node NodeID, event string) error {
	r.ops = append(r.ops, Op{Kind: OpRemoveListener, Node: node, Key: event})
	if h, ok := r.host.(ListenerOps); ok {
		return h.RemoveListener(node, event)
	}
	return nil
}
