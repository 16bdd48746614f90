package vdom

import "fmt"

// Text returns a text vnode.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf is Text with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node. Patching uses comments as placeholders
// for conditional branches that render nothing.
func Comment(text string) *VNode {
	return &VNode{Kind: KindComment, Text: text}
}

// Static marks a subtree as never changing. Patching a static node against
// another static node with the same key reuses the old host node as is.
func Static(node *VNode) *VNode {
	if node != nil {
		node.IsStatic = true
	}
	return node
}

// Key sets the node key. Keys are compared as strings, so 1 and "1" match.
func Key(key any) Attr {
	return attr("key", fmt.Sprint(key))
}

// If yields node only when condition holds. H skips the nil.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse picks ifTrue or ifFalse.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is If with a lazily built node.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Unless returns the node if condition is false.
func Unless(condition bool, node *VNode) *VNode {
	if !condition {
		return node
	}
	return nil
}

// Or returns first if it's not nil, otherwise second.
func Or(first, second *VNode) *VNode {
	if first != nil {
		return first
	}
	return second
}

// Case is one branch of Switch.
type Case[T comparable] struct {
	Value     T
	Node      *VNode
	IsDefault bool
}

// CaseOf creates a case for Switch.
func CaseOf[T comparable](value T, node *VNode) Case[T] {
	return Case[T]{Value: value, Node: node}
}

// Default creates the fallback case for Switch.
func Default[T comparable](node *VNode) Case[T] {
	return Case[T]{Node: node, IsDefault: true}
}

// Switch returns the node of the first case matching value, or the default.
func Switch[T comparable](value T, cases ...Case[T]) *VNode {
	var fallback *VNode
	for _, c := range cases {
		if c.IsDefault {
			if fallback == nil {
				fallback = c.Node
			}
			continue
		}
		if c.Value == value {
			return c.Node
		}
	}
	return fallback
}

// List maps items to child nodes, dropping nils. The results are marked
// as list children, so a list item without a key is reported in dev mode.
func List[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node == nil {
			continue
		}
		node.inList = true
		result = append(result, node)
	}
	return result
}

// Repeat creates n nodes using fn. Unlike List, the results are not list
// children and need no keys.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}
