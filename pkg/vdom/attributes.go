package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class joins class names into the class attribute.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Style sets the inline style attribute.
func Style(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Aria sets an aria-* attribute.
func Aria(name string, value any) Attr { return attr("aria-"+name, value) }

func Role(role string) Attr         { return attr("role", role) }
func Href(url string) Attr          { return attr("href", url) }
func Src(url string) Attr           { return attr("src", url) }
func Name(name string) Attr         { return attr("name", name) }
func Value(value string) Attr       { return attr("value", value) }
func Type(t string) Attr            { return attr("type", t) }
func Placeholder(text string) Attr  { return attr("placeholder", text) }
func For(id string) Attr            { return attr("for", id) }
func TabIndex(index int) Attr       { return attr("tabindex", index) }
func Disabled(disabled bool) Attr   { return attr("disabled", disabled) }
func Checked(checked bool) Attr     { return attr("checked", checked) }
func Selected(selected bool) Attr   { return attr("selected", selected) }
func Hidden(hidden bool) Attr       { return attr("hidden", hidden) }
func Readonly(readonly bool) Attr   { return attr("readonly", readonly) }
func Custom(key string, v any) Attr { return attr(key, v) }
