package main

import (
	"fmt"

	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// todoItem renders one entry. It reads the item's fields itself, so
// toggling an item re-renders only that item and whoever counts items.
var todoItem = &component.Definition{
	Name:  "TodoItem",
	Props: []string{"item"},
	Render: func(c *component.Instance) *vdom.VNode {
		item := c.Prop("item").(*reactive.Object)
		var class any
		if done, _ := item.Get("done").(bool); done {
			class = "done"
		}
		return vdom.Li(
			vdom.Custom("class", class),
			vdom.Span(fmt.Sprint(item.Get("text"))),
			vdom.Button(vdom.OnClick(func(any) { c.Emit("toggle", item) }), "toggle"),
		)
	},
}

// todoList owns the items and the active filter.
var todoList = &component.Definition{
	Name: "TodoList",
	Data: func() map[string]any {
		return map[string]any{
			"items":  []any{},
			"seq":    0,
			"filter": "all",
		}
	},
	Render: func(c *component.Instance) *vdom.VNode {
		items := c.State().Get("items").(*reactive.Array)
		filter := c.State().Get("filter").(string)

		var visible []*reactive.Object
		left := 0
		for _, v := range items.Items() {
			item := v.(*reactive.Object)
			done, _ := item.Get("done").(bool)
			if !done {
				left++
			}
			if filter == "all" || filter == "active" && !done || filter == "done" && done {
				visible = append(visible, item)
			}
		}

		return vdom.Section(vdom.Class("todos"),
			vdom.Ul(vdom.List(visible, func(item *reactive.Object, _ int) *vdom.VNode {
				return c.Child(todoItem, map[string]any{"item": item},
					component.WithKey(item.Get("id")),
					component.WithListener("toggle", toggleTodo),
				)
			})),
			vdom.Footer(vdom.Textf("%d left", left)),
		)
	},
}

func toggleTodo(payload any) {
	item := payload.(*reactive.Object)
	done, _ := item.Get("done").(bool)
	item.Put("done", !done)
}

func addTodo(c *component.Instance, text string) {
	seq := c.State().Get("seq").(int) + 1
	c.State().Put("seq", seq)
	items := c.State().Get("items").(*reactive.Array)
	items.Push(map[string]any{"id": seq, "text": text, "done": false})
}
