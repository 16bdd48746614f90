package memhost

import (
	"io"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/tether/pkg/vdom"
)

// Render returns the markup of the subtree rooted at id. Attributes are
// written in key order, so equal trees render identically.
func (h *Host) Render(id vdom.NodeID) string {
	var sb strings.Builder
	_ = h.RenderTo(&sb, id)
	return sb.String()
}

// RenderChildren renders only the children of id, which is what a mount
// container holds.
func (h *Host) RenderChildren(id vdom.NodeID) string {
	var sb strings.Builder
	n, err := h.get(id)
	if err != nil {
		return ""
	}
	for _, c := range n.children {
		_ = h.RenderTo(&sb, c)
	}
	return sb.String()
}

// RenderTo writes the markup of the subtree rooted at id to w.
func (h *Host) RenderTo(w io.Writer, id vdom.NodeID) error {
	n, err := h.get(id)
	if err != nil {
		return err
	}
	switch n.kind {
	case vdom.KindText:
		_, err = io.WriteString(w, escapeHTML(n.text))
		return err
	case vdom.KindComment, vdom.KindComponent:
		_, err = io.WriteString(w, "<!--"+escapeComment(n.text)+"-->")
		return err
	}

	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(n.attrs[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if vdom.IsVoidElement(n.tag) {
		return nil
	}
	for _, c := range n.children {
		if err := h.RenderTo(w, c); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</"+n.tag+">")
	return err
}

// Fingerprint hashes the rendered markup of the subtree rooted at id.
// Two subtrees with equal fingerprints render the same markup.
func (h *Host) Fingerprint(id vdom.NodeID) uint64 {
	d := xxhash.New()
	_ = h.RenderTo(d, id)
	return d.Sum64()
}
