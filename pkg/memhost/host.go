// Package memhost is an in-memory host tree for the patcher. Nodes live in
// an arena and are addressed by vdom.NodeID. It renders to markup, counts
// mutations and can dispatch events to bound listeners, which makes it the
// host used by tests, benchmarks and the CLI.
package memhost

import (
	"fmt"
	"slices"

	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/vdom"
)

// Stats counts mutations applied to the host since creation or the last
// ResetStats.
type Stats struct {
	Created      int
	Inserted     int
	Moved        int
	Removed      int
	TextSet      int
	AttrsSet     int
	AttrsRemoved int
}

// Mutations returns the number of structural and content changes.
func (s Stats) Mutations() int {
	return s.Created + s.Inserted + s.Moved + s.Removed + s.TextSet + s.AttrsSet + s.AttrsRemoved
}

type node struct {
	kind      vdom.VKind
	tag       string
	text      string
	attrs     map[string]string
	parent    vdom.NodeID
	children  []vdom.NodeID
	listeners map[string]vdom.Listener
}

// Host implements vdom.NodeOps, vdom.AttrOps and vdom.ListenerOps.
// A Host is not safe for concurrent use.
type Host struct {
	nodes []*node
	stats Stats
	fail  map[string]error
}

var (
	_ vdom.NodeOps     = (*Host)(nil)
	_ vdom.AttrOps     = (*Host)(nil)
	_ vdom.ListenerOps = (*Host)(nil)
)

// New creates an empty host.
func New() *Host {
	// Slot zero is reserved so that the zero NodeID means "no node".
	return &Host{nodes: []*node{nil}}
}

// Container creates a detached element to mount trees into. It is not
// counted in Stats.
func (h *Host) Container(tag string) vdom.NodeID {
	h.nodes = append(h.nodes, &node{kind: vdom.KindElement, tag: tag})
	return vdom.NodeID(len(h.nodes) - 1)
}

// FailOn makes every later call of op return err, until cleared with a nil
// err. op is the NodeOps method name, e.g. "InsertBefore".
func (h *Host) FailOn(op string, err error) {
	if h.fail == nil {
		h.fail = make(map[string]error)
	}
	if err == nil {
		delete(h.fail, op)
		return
	}
	h.fail[op] = err
}

// Stats returns the mutation counters.
func (h *Host) Stats() Stats { return h.stats }

// ResetStats zeroes the mutation counters.
func (h *Host) ResetStats() { h.stats = Stats{} }

// Size returns the number of nodes ever created, attached or not.
func (h *Host) Size() int { return len(h.nodes) - 1 }

func (h *Host) get(id vdom.NodeID) (*node, error) {
	if id == 0 || int(id) >= len(h.nodes) {
		return nil, errors.New(errors.CodeUnknownNode).WithSubjectf("#%d", id)
	}
	return h.nodes[id], nil
}

func (h *Host) failure(op string) error {
	return h.fail[op]
}

// CreateNode implements vdom.NodeOps.
func (h *Host) CreateNode(kind vdom.VKind, tag, text string) (vdom.NodeID, error) {
	if err := h.failure("CreateNode"); err != nil {
		return 0, err
	}
	h.nodes = append(h.nodes, &node{kind: kind, tag: tag, text: text})
	h.stats.Created++
	return vdom.NodeID(len(h.nodes) - 1), nil
}

// InsertBefore implements vdom.NodeOps.
func (h *Host) InsertBefore(parent, child, ref vdom.NodeID) error {
	if err := h.failure("InsertBefore"); err != nil {
		return err
	}
	p, err := h.get(parent)
	if err != nil {
		return err
	}
	c, err := h.get(child)
	if err != nil {
		return err
	}
	if p.kind != vdom.KindElement {
		return fmt.Errorf("insert into %s node #%d", p.kind, parent)
	}
	for a := parent; a != 0; a = h.nodes[a].parent {
		if a == child {
			return fmt.Errorf("insert #%d into its own subtree", child)
		}
	}
	if ref != 0 {
		r, err := h.get(ref)
		if err != nil {
			return err
		}
		if r.parent != parent {
			return fmt.Errorf("ref #%d is not a child of #%d", ref, parent)
		}
	}

	moved := c.parent != 0
	if moved {
		h.detach(child, c)
	}
	at := len(p.children)
	if ref != 0 {
		at = slices.Index(p.children, ref)
	}
	p.children = slices.Insert(p.children, at, child)
	c.parent = parent
	if moved {
		h.stats.Moved++
	} else {
		h.stats.Inserted++
	}
	return nil
}

func (h *Host) detach(id vdom.NodeID, n *node) {
	p := h.nodes[n.parent]
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = 0
}

// RemoveChild implements vdom.NodeOps.
func (h *Host) RemoveChild(parent, child vdom.NodeID) error {
	if err := h.failure("RemoveChild"); err != nil {
		return err
	}
	c, err := h.get(child)
	if err != nil {
		return err
	}
	if c.parent != parent {
		return fmt.Errorf("#%d is not a child of #%d", child, parent)
	}
	h.detach(child, c)
	h.stats.Removed++
	return nil
}

// SetText implements vdom.NodeOps. On an element it drops every child and
// leaves a single text child, or none for an empty text.
func (h *Host) SetText(id vdom.NodeID, text string) error {
	if err := h.failure("SetText"); err != nil {
		return err
	}
	n, err := h.get(id)
	if err != nil {
		return err
	}
	h.stats.TextSet++
	if n.kind != vdom.KindElement {
		n.text = text
		return nil
	}
	for _, c := range n.children {
		h.nodes[c].parent = 0
	}
	n.children = n.children[:0]
	if text != "" {
		h.nodes = append(h.nodes, &node{kind: vdom.KindText, text: text, parent: id})
		n.children = append(n.children, vdom.NodeID(len(h.nodes)-1))
	}
	return nil
}

// NextSibling implements vdom.NodeOps.
func (h *Host) NextSibling(id vdom.NodeID) vdom.NodeID {
	n, err := h.get(id)
	if err != nil || n.parent == 0 {
		return 0
	}
	siblings := h.nodes[n.parent].children
	i := slices.Index(siblings, id)
	if i < 0 || i+1 >= len(siblings) {
		return 0
	}
	return siblings[i+1]
}

// ParentNode implements vdom.NodeOps.
func (h *Host) ParentNode(id vdom.NodeID) vdom.NodeID {
	n, err := h.get(id)
	if err != nil {
		return 0
	}
	return n.parent
}

// SetAttr implements vdom.AttrOps.
func (h *Host) SetAttr(id vdom.NodeID, key, value string) error {
	if err := h.failure("SetAttr"); err != nil {
		return err
	}
	n, err := h.get(id)
	if err != nil {
		return err
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	h.stats.AttrsSet++
	return nil
}

// RemoveAttr implements vdom.AttrOps. Removing a missing attribute is a
// no-op that is not counted.
func (h *Host) RemoveAttr(id vdom.NodeID, key string) error {
	if err := h.failure("RemoveAttr"); err != nil {
		return err
	}
	n, err := h.get(id)
	if err != nil {
		return err
	}
	if _, ok := n.attrs[key]; !ok {
		return nil
	}
	delete(n.attrs, key)
	h.stats.AttrsRemoved++
	return nil
}

// Kind returns the node's kind.
func (h *Host) Kind(id vdom.NodeID) vdom.VKind {
	if n, err := h.get(id); err == nil {
		return n.kind
	}
	return 0
}

// Tag returns the element tag, or "".
func (h *Host) Tag(id vdom.NodeID) string {
	if n, err := h.get(id); err == nil {
		return n.tag
	}
	return ""
}

// Text returns the payload of a text or comment node.
func (h *Host) Text(id vdom.NodeID) string {
	if n, err := h.get(id); err == nil {
		return n.text
	}
	return ""
}

// Attr returns an attribute value.
func (h *Host) Attr(id vdom.NodeID, key string) (string, bool) {
	n, err := h.get(id)
	if err != nil {
		return "", false
	}
	v, ok := n.attrs[key]
	return v, ok
}

// Children returns a copy of the node's children.
func (h *Host) Children(id vdom.NodeID) []vdom.NodeID {
	n, err := h.get(id)
	if err != nil {
		return nil
	}
	return slices.Clone(n.children)
}
