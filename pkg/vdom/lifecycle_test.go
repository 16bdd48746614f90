package vdom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/vdom"
)

func TestDuplicateKeyWarning(t *testing.T) {
	f := newFixture(t)
	f.mount(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("b"))))

	require.Len(t, f.warnings, 1)
	assert.Equal(t, terrors.CodeDuplicateKey, f.warnings[0].Code)
	assert.Equal(t, "a", f.warnings[0].Subject)
}

func TestMissingKeyWarning(t *testing.T) {
	f := newFixture(t)
	items := []string{"x", "y"}
	f.mount(t, vdom.Ul(vdom.List(items, func(s string, _ int) *vdom.VNode {
		return vdom.Li(vdom.Text(s))
	})))

	require.Len(t, f.warnings, 1)
	assert.Equal(t, terrors.CodeMissingKey, f.warnings[0].Code)
	assert.Equal(t, "inside <ul>", f.warnings[0].Detail)
}

func TestKeyChecksOffOutsideDevMode(t *testing.T) {
	f := newFixture(t, vdom.WithDevMode(false))
	f.mount(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("a"))))
	f.update(t, vdom.Ul(vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("a"))))

	assert.Empty(t, f.warnings)
}

func TestRepeatNeedsNoKeys(t *testing.T) {
	f := newFixture(t)
	f.mount(t, vdom.Div(vdom.Repeat(3, func(i int) *vdom.VNode { return vdom.Span(vdom.Textf("%d", i)) })))

	assert.Empty(t, f.warnings)
	assert.Equal(t, "<div><span>0</span><span>1</span><span>2</span></div>", f.html())
}

func TestDelayedRemoval(t *testing.T) {
	var held *vdom.Removal
	fade := vdom.Module{
		Name:   "fade",
		Remove: func(_ *vdom.VNode, r *vdom.Removal) { held = r },
	}
	f := newFixture(t, vdom.WithModules(fade))
	f.mount(t, vdom.Div(vdom.Span(vdom.ID("leaving"))))
	span := f.tree.Children[0].Elm

	f.update(t, vdom.Div())

	require.NotNil(t, held)
	assert.Equal(t, 1, held.Pending())
	assert.Equal(t, span, held.Elm())
	assert.NotZero(t, f.host.ParentNode(span), "still attached while the hook runs")

	require.NoError(t, held.Done())
	assert.True(t, held.Completed())
	assert.Zero(t, f.host.ParentNode(span))

	// Extra calls are ignored.
	require.NoError(t, held.Done())
	assert.Equal(t, 1, f.host.Stats().Removed)
}

func TestCancelledRemoval(t *testing.T) {
	var held *vdom.Removal
	f := newFixture(t, vdom.WithModules(vdom.Module{
		Name:   "fade",
		Remove: func(_ *vdom.VNode, r *vdom.Removal) { held = r },
	}))
	f.mount(t, vdom.Div(vdom.Span(vdom.ID("leaving"))))
	span := f.tree.Children[0].Elm

	f.update(t, vdom.Div())
	held.Cancel()
	require.NoError(t, held.Done())

	assert.True(t, held.Cancelled())
	assert.True(t, held.Completed())
	assert.NotZero(t, f.host.ParentNode(span))
}

func TestNodeRemoveHookDelaysRemoval(t *testing.T) {
	var held *vdom.Removal
	hooks := &vdom.Hooks{Remove: func(_ *vdom.VNode, r *vdom.Removal) { held = r }}
	f := newFixture(t)
	f.mount(t, vdom.Div(vdom.P(hooks)))
	p := f.tree.Children[0].Elm

	f.update(t, vdom.Div())
	assert.NotZero(t, f.host.ParentNode(p))

	require.NoError(t, held.Done())
	assert.Zero(t, f.host.ParentNode(p))
}

func TestNodeHooksOrder(t *testing.T) {
	var events []string
	hooks := func(name string) *vdom.Hooks {
		return &vdom.Hooks{
			Create:    func(_, _ *vdom.VNode) { events = append(events, name+":create") },
			Insert:    func(*vdom.VNode) { events = append(events, name+":insert") },
			Prepatch:  func(_, _ *vdom.VNode) { events = append(events, name+":prepatch") },
			Update:    func(_, _ *vdom.VNode) { events = append(events, name+":update") },
			Postpatch: func(_, _ *vdom.VNode) { events = append(events, name+":postpatch") },
			Destroy:   func(*vdom.VNode) { events = append(events, name+":destroy") },
		}
	}
	f := newFixture(t)
	f.mount(t, vdom.Div(hooks("outer"), vdom.Span(hooks("inner"))))
	assert.Equal(t, []string{"inner:create", "outer:create", "inner:insert", "outer:insert"}, events)

	events = nil
	f.update(t, vdom.Div(hooks("outer"), vdom.Span(hooks("inner"))))
	assert.Equal(t, []string{
		"outer:prepatch", "outer:update",
		"inner:prepatch", "inner:update", "inner:postpatch",
		"outer:postpatch",
	}, events)

	events = nil
	f.update(t, vdom.Div(hooks("outer")))
	assert.Equal(t, []string{"outer:prepatch", "outer:update", "inner:destroy", "outer:postpatch"}, events)
}

type fakeInstance struct {
	root *vdom.VNode
}

func (c *fakeInstance) Elm() vdom.NodeID  { return c.root.Elm }
func (c *fakeInstance) Root() *vdom.VNode { return c.root }

func child(p *vdom.Patcher, label string, events *[]string) *vdom.VNode {
	v := &vdom.VNode{Kind: vdom.KindComponent, Tag: "Child"}
	v.Hooks = &vdom.Hooks{
		Init: func(v *vdom.VNode) error {
			inst := &fakeInstance{root: vdom.Span(vdom.Text(label))}
			inst.root.Parent = v
			if _, err := p.Patch(nil, inst.root); err != nil {
				return err
			}
			v.Instance = inst
			*events = append(*events, "init")
			return nil
		},
		Insert: func(*vdom.VNode) { *events = append(*events, "insert") },
		Prepatch: func(old, v *vdom.VNode) {
			v.Instance = old.Instance
			*events = append(*events, "prepatch")
		},
		Destroy: func(*vdom.VNode) { *events = append(*events, "destroy") },
	}
	return v
}

func TestComponentPlaceholder(t *testing.T) {
	var events []string
	f := newFixture(t)
	f.mount(t, vdom.Div(child(f.p, "child", &events)))

	assert.Equal(t, []string{"init", "insert"}, events)
	assert.Equal(t, "<div><span>child</span></div>", f.html())
	placeholder := f.tree.Children[0]
	assert.Equal(t, placeholder.Instance.Elm(), placeholder.Elm)

	events = nil
	f.update(t, vdom.Div(child(f.p, "ignored", &events)))
	assert.Equal(t, []string{"prepatch"}, events)
	assert.Equal(t, "<div><span>child</span></div>", f.html())

	events = nil
	f.update(t, vdom.Div())
	assert.Equal(t, []string{"destroy"}, events)
	assert.Equal(t, "<div></div>", f.html())
}

func TestComponentInitError(t *testing.T) {
	f := newFixture(t)
	boom := terrors.New(terrors.CodeLifecycleHook)
	v := &vdom.VNode{Kind: vdom.KindComponent, Tag: "Broken", Hooks: &vdom.Hooks{
		Init: func(*vdom.VNode) error { return boom },
	}}

	_, err := f.p.Patch(nil, vdom.Div(v))
	assert.ErrorIs(t, err, boom)
}

func TestComponentWithoutInstanceRendersComment(t *testing.T) {
	f := newFixture(t)
	v := &vdom.VNode{Kind: vdom.KindComponent, Tag: "Lazy", Hooks: &vdom.Hooks{
		Init: func(*vdom.VNode) error { return nil },
	}}
	f.mount(t, vdom.Div(v))

	assert.Equal(t, "<div><!----></div>", f.html())
}

func TestAsyncPlaceholder(t *testing.T) {
	factory := &vdom.AsyncFactory{}
	placeholder := func() *vdom.VNode {
		return &vdom.VNode{Kind: vdom.KindComment, AsyncFactory: factory, IsAsyncPlaceholder: true}
	}
	f := newFixture(t)
	f.mount(t, vdom.Div(placeholder()))
	comment := f.tree.Children[0].Elm

	f.update(t, vdom.Div(placeholder()))
	assert.Empty(t, f.rec.Ops())
	assert.True(t, f.tree.Children[0].IsAsyncPlaceholder)

	factory.Resolved = true
	resolved := vdom.Section(vdom.Text("loaded"))
	resolved.AsyncFactory = factory
	f.update(t, vdom.Div(resolved))

	assert.Equal(t, "<div><section>loaded</section></div>", f.html())
	assert.Zero(t, f.host.ParentNode(comment))
}

func TestStaticSubtreeIsReused(t *testing.T) {
	f := newFixture(t)
	static := vdom.Static(vdom.P(vdom.Key("s"), vdom.Text("fixed")))
	f.mount(t, vdom.Div(static))

	clone := static.Clone()
	clone.Children = []*vdom.VNode{vdom.Text("changed")}
	f.update(t, vdom.Div(clone))

	assert.Empty(t, f.rec.Ops())
	assert.Equal(t, "<div><p>fixed</p></div>", f.html())
}

func TestReusedVnodeIsCloned(t *testing.T) {
	f := newFixture(t)
	shared := vdom.Span(vdom.Text("x"))
	f.mount(t, vdom.Div(shared))

	next := vdom.Div(shared, shared)
	f.update(t, next)

	assert.Equal(t, "<div><span>x</span><span>x</span></div>", f.html())
	assert.NotEqual(t, next.Children[0].Elm, next.Children[1].Elm)
}
