package vtest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/vdom"
	"github.com/vango-dev/tether/pkg/vtest"
)

func TestRenderToString(t *testing.T) {
	node := vdom.Div(vdom.Class("card"),
		vdom.H1("Title"),
		vdom.P("Body <b>"),
	)
	assert.Equal(t, `<div class="card"><h1>Title</h1><p>Body &lt;b&gt;</p></div>`, vtest.RenderToString(node))
}

func TestExpectHelpersPass(t *testing.T) {
	node := vdom.Button(vdom.Class("btn-primary"), vdom.Disabled(true), "Save")
	vtest.ExpectContains(t, node, "Save")
	vtest.ExpectNotContains(t, node, "Cancel")
	vtest.ExpectElement(t, node, "button")
	vtest.ExpectAttribute(t, node, "class", "btn-primary")
}

func TestHarnessMountAndTick(t *testing.T) {
	h := vtest.New().Build(t)
	counter := &component.Definition{
		Name: "Counter",
		Data: func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *component.Instance) *vdom.VNode {
			return vdom.Button(
				vdom.OnClick(func(any) { c.State().Put("n", c.State().Get("n").(int)+1) }),
				vdom.Textf("%d", c.State().Get("n")),
			)
		},
	}
	c := h.Mount(t, counter, nil)
	vtest.ExpectHTML(t, h, "<button>0</button>")

	h.Reset()
	require.True(t, h.Host.Dispatch(c.Elm(), "click", nil))
	h.Tick()

	vtest.ExpectHTML(t, h, "<button>1</button>")
	require.Len(t, h.Ops(), 1)
	assert.Equal(t, vdom.OpSetText, h.Ops()[0].Kind)
}

func TestHarnessCapturesWarningsAndErrors(t *testing.T) {
	h := vtest.New().WithDevMode(true).Build(t)
	list := &component.Definition{
		Name: "List",
		Render: func(*component.Instance) *vdom.VNode {
			return vdom.Ul(vdom.List([]string{"a", "a"}, func(k string, _ int) *vdom.VNode {
				return vdom.Li(vdom.Key(k), k)
			}))
		},
		Setup: func(c *component.Instance) {
			c.On(component.Mounted, func() { panic(errors.New("mounted failed")) })
		},
	}
	h.Mount(t, list, nil)

	assert.True(t, h.HasWarning(terrors.CodeDuplicateKey))
	require.Len(t, h.Errors, 1)
	assert.Equal(t, "mounted hook", h.Errors[0].Info)

	h.Reset()
	assert.Empty(t, h.Warnings)
	assert.Empty(t, h.Errors)
}
