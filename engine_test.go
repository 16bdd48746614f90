package tether_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/tether"
	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/vdom"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingMetrics struct{ patches int }

func (m *countingMetrics) PatchCompleted(vdom.Stats, time.Duration, error) { m.patches++ }

var counter = &tether.Definition{
	Name: "Counter",
	Data: func() map[string]any { return map[string]any{"n": 0} },
	Render: func(c *tether.Instance) *tether.VNode {
		return vdom.Button(
			vdom.OnClick(func(any) { c.State().Put("n", c.State().Get("n").(int)+1) }),
			vdom.Textf("%d", c.State().Get("n")),
		)
	},
}

func TestEngineWithoutLoop(t *testing.T) {
	host := memhost.New()
	body := host.Container("body")
	target := host.Container("div")
	require.NoError(t, host.InsertBefore(body, target, 0))

	sink := &countingMetrics{}
	reg := prometheus.NewRegistry()
	eng := tether.New(host, nil, tether.WithLogger(quiet), tether.WithRegisterer(reg), tether.WithPatchMetrics(sink))

	c, err := eng.Mount(counter, target, nil)
	require.NoError(t, err)
	assert.Equal(t, "<button>0</button>", host.RenderChildren(body))

	host.Dispatch(c.Elm(), "click", nil)
	eng.Tick()
	assert.Equal(t, "<button>1</button>", host.RenderChildren(body))
	assert.Equal(t, 2, sink.patches)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families, "metrics are enabled by default")
}

func TestEnginesKeepSeparateRegistries(t *testing.T) {
	var engines []*tether.Engine
	require.NotPanics(t, func() {
		for range 2 {
			engines = append(engines, tether.New(memhost.New(), nil, tether.WithLogger(quiet)))
		}
	})

	for _, eng := range engines {
		require.NotNil(t, eng.Gatherer())
		families, err := eng.Gatherer().Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
	}
	assert.NotSame(t, engines[0].Gatherer(), engines[1].Gatherer())

	reg := prometheus.NewRegistry()
	eng := tether.New(memhost.New(), nil, tether.WithLogger(quiet), tether.WithRegisterer(reg))
	assert.Same(t, reg, eng.Gatherer())
}

func TestEngineOnLoop(t *testing.T) {
	for _, tick := range []string{tether.TickMicrotask, tether.TickMacrotask} {
		t.Run(tick, func(t *testing.T) {
			cfg := tether.DefaultConfig()
			cfg.Runtime.Tick = tick
			cfg.Metrics.Enabled = false

			host := memhost.New()
			body := host.Container("body")
			eng := tether.New(host, cfg, tether.WithLogger(quiet))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			go eng.Run(ctx)
			defer eng.Close()

			var (
				c        *tether.Instance
				mountErr error
			)
			require.NoError(t, eng.Settle(ctx, func() {
				target := host.Container("div")
				if mountErr = host.InsertBefore(body, target, 0); mountErr == nil {
					c, mountErr = eng.Mount(counter, target, nil)
				}
			}))
			require.NoError(t, mountErr)
			require.NoError(t, eng.Settle(ctx, func() {
				host.Dispatch(c.Elm(), "click", nil)
				host.Dispatch(c.Elm(), "click", nil)
			}))

			var html string
			require.NoError(t, eng.Settle(ctx, func() { html = host.RenderChildren(body) }))
			assert.Equal(t, "<button>2</button>", html)
		})
	}
}

func TestEngineDispatchAfterClose(t *testing.T) {
	cfg := tether.DefaultConfig()
	cfg.Metrics.Enabled = false
	eng := tether.New(memhost.New(), cfg, tether.WithLogger(quiet))
	eng.Close()
	assert.ErrorIs(t, eng.Dispatch(func() {}), tether.ErrLoopClosed)
}
