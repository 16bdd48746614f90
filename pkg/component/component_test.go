package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

type env struct {
	rt   *reactive.Runtime
	host *memhost.Host
	app  *component.App
	body vdom.NodeID
}

func newEnv(t *testing.T, opts ...reactive.Option) *env {
	t.Helper()
	e := &env{rt: reactive.New(opts...), host: memhost.New()}
	e.body = e.host.Container("body")
	p := vdom.NewPatcher(e.host, vdom.WithModules(vdom.AttrsModule(e.host), vdom.ListenersModule(e.host)))
	e.app = component.NewApp(e.rt, p)
	return e
}

func (e *env) mount(t *testing.T, def *component.Definition, props map[string]any) *component.Instance {
	t.Helper()
	target := e.host.Container("div")
	require.NoError(t, e.host.InsertBefore(e.body, target, 0))
	c, err := e.app.Mount(def, target, props)
	require.NoError(t, err)
	return c
}

func (e *env) html() string { return e.host.RenderChildren(e.body) }

func logHooks(log *[]string, prefix string, hooks ...component.Hook) func(c *component.Instance) {
	return func(c *component.Instance) {
		for _, h := range hooks {
			c.On(h, func() { *log = append(*log, prefix+h.String()) })
		}
	}
}

func TestCounter(t *testing.T) {
	var log []string
	e := newEnv(t)
	counter := &component.Definition{
		Name:  "Counter",
		Data:  func() map[string]any { return map[string]any{"n": 0} },
		Setup: logHooks(&log, "", component.BeforeMount, component.Mounted, component.BeforeUpdate, component.Updated),
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Button(
				vdom.OnClick(func(any) { c.State().Put("n", c.State().Get("n").(int)+1) }),
				vdom.Textf("%d", c.State().Get("n")),
			)
		},
	}
	c := e.mount(t, counter, nil)

	assert.Equal(t, "<button>0</button>", e.html())
	assert.Equal(t, []string{"beforeMount", "mounted"}, log)
	assert.True(t, c.Mounted())

	require.True(t, e.host.Dispatch(c.Elm(), "click", nil))
	require.True(t, e.host.Dispatch(c.Elm(), "click", nil))
	assert.Equal(t, "<button>0</button>", e.html(), "updates wait for the tick")

	e.rt.Tick()
	assert.Equal(t, "<button>2</button>", e.html())
	assert.Equal(t, []string{"beforeMount", "mounted", "beforeUpdate", "updated"}, log)
}

func TestPropsFlowDown(t *testing.T) {
	var log []string
	label := &component.Definition{
		Name:  "Label",
		Props: []string{"text"},
		Setup: logHooks(&log, "child:", component.BeforeMount, component.Mounted, component.BeforeUpdate, component.Updated),
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Span(vdom.Textf("%v", c.Prop("text")))
		},
	}
	app := &component.Definition{
		Name:  "App",
		Data:  func() map[string]any { return map[string]any{"text": "a", "unrelated": 0} },
		Setup: logHooks(&log, "parent:", component.BeforeMount, component.Mounted, component.BeforeUpdate, component.Updated),
		Render: func(c *component.Instance) *vdom.VNode {
			c.State().Get("unrelated")
			return vdom.Div(c.Child(label, map[string]any{"text": c.State().Get("text")}))
		},
	}
	e := newEnv(t)
	root := e.mount(t, app, nil)

	assert.Equal(t, "<div><span>a</span></div>", e.html())
	assert.Equal(t, []string{"parent:beforeMount", "child:beforeMount", "child:mounted", "parent:mounted"}, log)

	log = nil
	root.State().Put("text", "b")
	e.rt.Tick()
	assert.Equal(t, "<div><span>b</span></div>", e.html())
	assert.Equal(t, []string{"parent:beforeUpdate", "child:beforeUpdate", "child:updated", "parent:updated"}, log)

	log = nil
	root.State().Put("unrelated", 1)
	e.rt.Tick()
	assert.Equal(t, []string{"parent:beforeUpdate", "parent:updated"}, log, "unchanged props do not re-render the child")
}

func TestMutatingPropWarns(t *testing.T) {
	var warned []*reactive.Diagnostic
	e := newEnv(t, reactive.WithWarnHandler(func(d *reactive.Diagnostic, _ *reactive.Owner) {
		warned = append(warned, d)
	}))
	label := &component.Definition{
		Name:   "Label",
		Props:  []string{"text"},
		Render: func(c *component.Instance) *vdom.VNode { return vdom.Span(vdom.Textf("%v", c.Prop("text"))) },
	}
	parent := &component.Definition{
		Name:   "App",
		Render: func(c *component.Instance) *vdom.VNode { return vdom.Div(c.Child(label, map[string]any{"text": "x"})) },
	}
	root := e.mount(t, parent, nil)
	require.Len(t, root.Children(), 1)
	child := root.Children()[0]

	child.Props().Put("text", "y")

	require.Len(t, warned, 1)
	assert.Equal(t, terrors.CodeReadonlyMutation, warned[0].Code)
	assert.Equal(t, "text", warned[0].Subject)
	assert.Equal(t, "<App> > <Label>", warned[0].Trace)
}

func TestChildDestroyedWhenRemoved(t *testing.T) {
	var log []string
	child := &component.Definition{
		Name:   "Child",
		Setup:  logHooks(&log, "", component.BeforeDestroy, component.Destroyed),
		Render: func(c *component.Instance) *vdom.VNode { return vdom.P(vdom.Text("child")) },
	}
	parent := &component.Definition{
		Name: "App",
		Data: func() map[string]any { return map[string]any{"show": true} },
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Div(vdom.If(c.State().Get("show").(bool), c.Child(child, nil)))
		},
	}
	e := newEnv(t)
	root := e.mount(t, parent, nil)
	kid := root.Children()[0]
	assert.Equal(t, "<div><p>child</p></div>", e.html())

	root.State().Put("show", false)
	e.rt.Tick()

	assert.Equal(t, "<div></div>", e.html())
	assert.Equal(t, []string{"beforeDestroy", "destroyed"}, log)
	assert.True(t, kid.Destroyed())
	assert.Empty(t, root.Children())
	assert.Zero(t, kid.Owner().Watchers())
}

func TestRenderPanicKeepsPreviousTree(t *testing.T) {
	var infos []string
	e := newEnv(t, reactive.WithErrorHandler(func(_ error, _ *reactive.Owner, info string) {
		infos = append(infos, info)
	}))
	def := &component.Definition{
		Name: "Flaky",
		Data: func() map[string]any { return map[string]any{"fail": false} },
		Render: func(c *component.Instance) *vdom.VNode {
			if c.State().Get("fail").(bool) {
				panic("boom")
			}
			return vdom.Span(vdom.Text("ok"))
		},
	}
	c := e.mount(t, def, nil)

	c.State().Put("fail", true)
	e.rt.Tick()

	assert.Equal(t, "<span>ok</span>", e.html())
	assert.Equal(t, []string{"render"}, infos)

	c.State().Put("fail", false)
	e.rt.Tick()
	assert.Equal(t, "<span>ok</span>", e.html())
	assert.Len(t, infos, 1)
}

func TestErrorCapturedByParent(t *testing.T) {
	var globals int
	e := newEnv(t, reactive.WithErrorHandler(func(error, *reactive.Owner, string) { globals++ }))
	broken := &component.Definition{
		Name:   "Broken",
		Render: func(*component.Instance) *vdom.VNode { panic("nope") },
	}
	var captured []string
	parent := &component.Definition{
		Name: "App",
		Setup: func(c *component.Instance) {
			c.OnErrorCaptured(func(_ error, origin *reactive.Owner, info string) bool {
				captured = append(captured, origin.Name()+":"+info)
				return false
			})
		},
		Render: func(c *component.Instance) *vdom.VNode { return vdom.Div(c.Child(broken, nil)) },
	}
	e.mount(t, parent, nil)

	assert.Equal(t, []string{"Broken:render"}, captured)
	assert.Zero(t, globals)
	assert.Equal(t, "<div><!----></div>", e.html())
}

func TestOnlyChangedChildRerenders(t *testing.T) {
	renders := map[string]int{}
	item := &component.Definition{
		Name:  "Item",
		Props: []string{"id"},
		Data:  func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *component.Instance) *vdom.VNode {
			id := c.Prop("id").(string)
			renders[id]++
			return vdom.Li(vdom.Textf("%s=%d", id, c.State().Get("n")))
		},
	}
	list := &component.Definition{
		Name: "List",
		Render: func(c *component.Instance) *vdom.VNode {
			renders["list"]++
			return vdom.Ul(vdom.List([]string{"a", "b"}, func(id string, _ int) *vdom.VNode {
				return c.Child(item, map[string]any{"id": id}, component.WithKey(id))
			}))
		},
	}
	e := newEnv(t)
	root := e.mount(t, list, nil)
	b := root.Children()[1]

	b.State().Put("n", 5)
	e.rt.Tick()

	assert.Equal(t, "<ul><li>a=0</li><li>b=5</li></ul>", e.html())
	assert.Equal(t, map[string]int{"list": 1, "a": 1, "b": 2}, renders)
}

func TestKeepAlive(t *testing.T) {
	var log []string
	created := map[string]int{}
	tab := func(name string) *component.Definition {
		return &component.Definition{
			Name: name,
			Setup: func(c *component.Instance) {
				created[name]++
				logHooks(&log, name+":", component.Activated, component.Deactivated, component.Destroyed)(c)
			},
			Render: func(*component.Instance) *vdom.VNode { return vdom.P(vdom.Text(name)) },
		}
	}
	a, b := tab("A"), tab("B")
	tabs := &component.Definition{
		Name: "Tabs",
		Data: func() map[string]any { return map[string]any{"tab": "A"} },
		Render: func(c *component.Instance) *vdom.VNode {
			key := c.State().Get("tab").(string)
			def := a
			if key == "B" {
				def = b
			}
			return vdom.Div(c.KeepAlive(key, c.Child(def, nil)))
		},
	}
	e := newEnv(t)
	root := e.mount(t, tabs, nil)
	assert.Equal(t, []string{"A:activated"}, log)

	root.State().Put("tab", "B")
	e.rt.Tick()
	assert.Equal(t, "<div><p>B</p></div>", e.html())
	assert.Equal(t, []string{"A:activated", "A:deactivated", "B:activated"}, log)

	log = nil
	root.State().Put("tab", "A")
	e.rt.Tick()
	assert.Equal(t, "<div><p>A</p></div>", e.html())
	assert.Equal(t, []string{"B:deactivated", "A:activated"}, log)
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, created)

	log = nil
	root.Destroy()
	assert.Contains(t, log, "A:destroyed")
	assert.Contains(t, log, "B:destroyed")
}

func TestEmit(t *testing.T) {
	var picker *component.Instance
	pickerDef := &component.Definition{
		Name:  "Picker",
		Setup: func(c *component.Instance) { picker = c },
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Button(vdom.OnClick(func(any) { c.Emit("pick", 42) }), "pick")
		},
	}
	parent := &component.Definition{
		Name: "App",
		Data: func() map[string]any { return map[string]any{"picked": 0} },
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Div(
				c.Child(pickerDef, nil, component.WithListener("pick", func(v any) { c.State().Put("picked", v) })),
				vdom.Textf("%v", c.State().Get("picked")),
			)
		},
	}
	e := newEnv(t)
	e.mount(t, parent, nil)

	require.True(t, e.host.Dispatch(picker.Elm(), "click", nil))
	e.rt.Tick()

	assert.Equal(t, "<div><button>pick</button>42</div>", e.html())
	assert.False(t, picker.Emit("unbound", nil))
}

func TestForceUpdateAndNextTick(t *testing.T) {
	renders := 0
	def := &component.Definition{
		Name: "Static",
		Render: func(*component.Instance) *vdom.VNode {
			renders++
			return vdom.P()
		},
	}
	e := newEnv(t)
	c := e.mount(t, def, nil)

	ticked := false
	c.ForceUpdate()
	c.NextTick(func() { ticked = true })
	e.rt.Tick()

	assert.Equal(t, 2, renders)
	assert.True(t, ticked)
}

func TestSameNameDefinitionsAreDistinct(t *testing.T) {
	one := &component.Definition{Name: "X", Render: func(*component.Instance) *vdom.VNode { return vdom.P(vdom.Text("one")) }}
	two := &component.Definition{Name: "X", Render: func(*component.Instance) *vdom.VNode { return vdom.P(vdom.Text("two")) }}
	parent := &component.Definition{
		Name: "App",
		Data: func() map[string]any { return map[string]any{"second": false} },
		Render: func(c *component.Instance) *vdom.VNode {
			if c.State().Get("second").(bool) {
				return vdom.Div(c.Child(two, nil))
			}
			return vdom.Div(c.Child(one, nil))
		},
	}
	e := newEnv(t)
	root := e.mount(t, parent, nil)
	first := root.Children()[0]

	root.State().Put("second", true)
	e.rt.Tick()

	assert.Equal(t, "<div><p>two</p></div>", e.html())
	assert.True(t, first.Destroyed())
}

func TestDetachedMount(t *testing.T) {
	e := newEnv(t)
	def := &component.Definition{Name: "Bare", Render: func(*component.Instance) *vdom.VNode { return vdom.Em(vdom.Text("x")) }}

	c, err := e.app.Mount(def, 0, nil)
	require.NoError(t, err)
	assert.NotZero(t, c.Elm())
	assert.Zero(t, e.host.ParentNode(c.Elm()))
	assert.Equal(t, "<em>x</em>", e.host.Render(c.Elm()))
}
