package main

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/tether"
	"github.com/vango-dev/tether/internal/config"
	"github.com/vango-dev/tether/internal/logging"
	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/vdom"
)

// patchTally sums patch stats between resets.
type patchTally struct {
	total   vdom.Stats
	patches int
	elapsed time.Duration
}

func (t *patchTally) PatchCompleted(s vdom.Stats, elapsed time.Duration, _ error) {
	t.total.Created += s.Created
	t.total.Removed += s.Removed
	t.total.Moved += s.Moved
	t.total.Patched += s.Patched
	t.patches++
	t.elapsed += elapsed
}

func (t *patchTally) reset() { *t = patchTally{} }

// stack is an engine over the in-memory host with its own registry.
type stack struct {
	*tether.Engine
	host     *memhost.Host
	registry *prometheus.Registry
	tally    *patchTally
}

func newStack(ctx context.Context, cfg *config.Config, logOut io.Writer) *stack {
	s := &stack{
		host:     memhost.New(),
		registry: prometheus.NewRegistry(),
		tally:    &patchTally{},
	}
	s.Engine = tether.New(s.host, cfg,
		tether.WithLogger(logging.New(logOut, cfg.Log)),
		tether.WithRegisterer(s.registry),
		tether.WithPatchMetrics(s.tally),
		tether.WithContext(ctx),
	)
	return s
}
