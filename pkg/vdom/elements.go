package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// H creates an element. Arguments can be nil, Attr, []Attr, EventHandler,
// *Hooks, *VNode, []*VNode or string (a text child). Props stay nil unless
// an attribute or listener is given.
func H(tag string, args ...any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case EventHandler:
			node.setProp(v.Event, v.Handler)
		case *Hooks:
			node.Hooks = v
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}
	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	v.setProp(a.Key, a.Value)
}

func (v *VNode) setProp(key string, value any) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// Document structure elements

func Div(args ...any) *VNode     { return H("div", args...) }
func Span(args ...any) *VNode    { return H("span", args...) }
func P(args ...any) *VNode       { return H("p", args...) }
func Section(args ...any) *VNode { return H("section", args...) }
func Header(args ...any) *VNode  { return H("header", args...) }
func Footer(args ...any) *VNode  { return H("footer", args...) }
func Main(args ...any) *VNode    { return H("main", args...) }
func Nav(args ...any) *VNode     { return H("nav", args...) }
func H1(args ...any) *VNode      { return H("h1", args...) }
func H2(args ...any) *VNode      { return H("h2", args...) }

// Lists and tables

func Ul(args ...any) *VNode    { return H("ul", args...) }
func Ol(args ...any) *VNode    { return H("ol", args...) }
func Li(args ...any) *VNode    { return H("li", args...) }
func Table(args ...any) *VNode { return H("table", args...) }
func Tr(args ...any) *VNode    { return H("tr", args...) }
func Td(args ...any) *VNode    { return H("td", args...) }

// Forms

func Form(args ...any) *VNode     { return H("form", args...) }
func Input(args ...any) *VNode    { return H("input", args...) }
func Button(args ...any) *VNode   { return H("button", args...) }
func Label(args ...any) *VNode    { return H("label", args...) }
func Select(args ...any) *VNode   { return H("select", args...) }
func Option(args ...any) *VNode   { return H("option", args...) }
func Textarea(args ...any) *VNode { return H("textarea", args...) }

// Inline

func A(args ...any) *VNode      { return H("a", args...) }
func Strong(args ...any) *VNode { return H("strong", args...) }
func Em(args ...any) *VNode     { return H("em", args...) }
func Img(args ...any) *VNode    { return H("img", args...) }
func Br() *VNode                { return H("br") }
