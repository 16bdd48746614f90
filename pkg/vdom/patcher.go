package vdom

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/tether/internal/config"
	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/tracing"
)

// Diagnostic is the structured warning type emitted by the patcher.
type Diagnostic = errors.Error

// ErrTreeTooDeep is returned when a tree exceeds the configured depth.
var ErrTreeTooDeep = errors.New(errors.CodeTreeTooDeep)

// Stats counts host mutations made by one Patch call.
type Stats struct {
	Created int
	Removed int
	Moved   int
	Patched int
}

// Metrics receives one report per Patch call.
type Metrics interface {
	PatchCompleted(stats Stats, elapsed time.Duration, err error)
}

// Patcher reconciles virtual trees against a host tree through NodeOps.
// A Patcher is not safe for concurrent use.
type Patcher struct {
	ops      NodeOps
	modules  []Module
	maxDepth int
	devMode  bool
	warn     func(d *Diagnostic)
	metrics  Metrics
	tracer   *tracing.Tracer
	ctx      context.Context

	create   []func(old, vnode *VNode) error
	activate []func(old, vnode *VNode) error
	update   []func(old, vnode *VNode) error
	remove   []func(vnode *VNode, r *Removal)
	destroy  []func(vnode *VNode)

	stats   Stats
	running int
}

// PatchOption configures a Patcher.
type PatchOption func(*Patcher)

// WithModules appends modules. Hooks run in module order.
func WithModules(mods ...Module) PatchOption {
	return func(p *Patcher) { p.modules = append(p.modules, mods...) }
}

// WithMaxDepth caps tree depth; deeper trees fail with ErrTreeTooDeep.
func WithMaxDepth(n int) PatchOption {
	return func(p *Patcher) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithDevMode enables duplicate and missing key checks.
func WithDevMode(dev bool) PatchOption {
	return func(p *Patcher) { p.devMode = dev }
}

// WithWarn installs the warning sink.
func WithWarn(fn func(d *Diagnostic)) PatchOption {
	return func(p *Patcher) { p.warn = fn }
}

// WithMetrics installs a metrics sink.
func WithMetrics(m Metrics) PatchOption {
	return func(p *Patcher) { p.metrics = m }
}

// WithTracer installs a tracer for patch spans.
func WithTracer(t *tracing.Tracer, ctx context.Context) PatchOption {
	return func(p *Patcher) {
		if t != nil {
			p.tracer = t
		}
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// FromConfig maps configuration onto patcher options.
func FromConfig(cfg config.PatchConfig, dev bool) []PatchOption {
	return []PatchOption{WithMaxDepth(cfg.MaxDepth), WithDevMode(dev)}
}

// NewPatcher creates a patcher over ops.
func NewPatcher(ops NodeOps, opts ...PatchOption) *Patcher {
	p := &Patcher{
		ops:      ops,
		maxDepth: config.DefaultMaxDepth,
		devMode:  true,
		tracer:   tracing.Noop(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, m := range p.modules {
		if m.Create != nil {
			p.create = append(p.create, m.Create)
		}
		if m.Activate != nil {
			p.activate = append(p.activate, m.Activate)
		}
		if m.Update != nil {
			p.update = append(p.update, m.Update)
		}
		if m.Remove != nil {
			p.remove = append(p.remove, m.Remove)
		}
		if m.Destroy != nil {
			p.destroy = append(p.destroy, m.Destroy)
		}
	}
	return p
}

// Ops returns the host interface.
func (p *Patcher) Ops() NodeOps { return p.ops }

// LastStats returns the counters of the most recent Patch or Mount.
func (p *Patcher) LastStats() Stats { return p.stats }

type insertQueue []*VNode

// Patch reconciles vnode against old and returns vnode's host node.
//
// A nil old creates vnode detached; insert hooks are deferred to the
// component placeholder when vnode is a component root. A nil vnode
// destroys old. Host errors abort the patch and are returned wrapped in a
// T053 error; the host tree may be partially updated.
func (p *Patcher) Patch(old, vnode *VNode) (NodeID, error) {
	return p.run("patch", func() error { return p.patch(old, vnode) }, vnode)
}

// Mount renders vnode in place of the host node elm.
func (p *Patcher) Mount(elm NodeID, vnode *VNode) (NodeID, error) {
	old := &VNode{Kind: KindElement, Elm: elm}
	return p.run("mount", func() error { return p.patch(old, vnode) }, vnode)
}

func (p *Patcher) run(op string, fn func() error, vnode *VNode) (NodeID, error) {
	// A component mounting its root from inside an Init hook re-enters the
	// patcher; the nested call counts toward the outer one.
	if p.running > 0 {
		return result(vnode, fn())
	}
	p.running++
	defer func() { p.running-- }()

	start := time.Now()
	p.stats = Stats{}
	_, end := p.tracer.Start(p.ctx, tracing.SpanPatch, attribute.String("tether.op", op))
	err := fn()
	end(err,
		attribute.Int("tether.created", p.stats.Created),
		attribute.Int("tether.removed", p.stats.Removed),
		attribute.Int("tether.moved", p.stats.Moved))
	if p.metrics != nil {
		p.metrics.PatchCompleted(p.stats, time.Since(start), err)
	}
	return result(vnode, err)
}

func result(vnode *VNode, err error) (NodeID, error) {
	if err != nil || vnode == nil {
		return 0, err
	}
	return vnode.Elm, nil
}

func (p *Patcher) patch(old, vnode *VNode) error {
	if vnode == nil {
		if old != nil {
			p.invokeDestroyHook(old)
		}
		return nil
	}

	isInitialPatch := false
	var queue insertQueue

	switch {
	case old == nil:
		isInitialPatch = true
		if err := p.createElm(vnode, &queue, 0, 0, false, nil, 0, 0); err != nil {
			return err
		}
	case sameVnode(old, vnode):
		if err := p.patchVnode(old, vnode, &queue, nil, 0, 0); err != nil {
			return err
		}
	default:
		oldElm := old.Elm
		parentElm := p.ops.ParentNode(oldElm)
		if err := p.createElm(vnode, &queue, parentElm, p.ops.NextSibling(oldElm), false, nil, 0, 0); err != nil {
			return err
		}
		if err := p.updateAncestors(vnode); err != nil {
			return err
		}
		if parentElm != 0 {
			if err := p.removeVnodes([]*VNode{old}, 0, 0); err != nil {
				return err
			}
		} else if old.Kind == KindElement || old.Kind == KindComponent {
			p.invokeDestroyHook(old)
		}
	}

	p.invokeInsertHook(vnode, queue, isInitialPatch)
	return nil
}

// updateAncestors points every placeholder above a replaced root at the new
// host node.
func (p *Patcher) updateAncestors(vnode *VNode) error {
	patchable := isPatchable(vnode)
	for ancestor := vnode.Parent; ancestor != nil; ancestor = ancestor.Parent {
		for _, fn := range p.destroy {
			fn(ancestor)
		}
		ancestor.Elm = vnode.Elm
		if !patchable {
			continue
		}
		for _, fn := range p.create {
			if err := fn(emptyNode, ancestor); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Patcher) invokeInsertHook(vnode *VNode, queue insertQueue, initial bool) {
	if initial && vnode.Parent != nil {
		vnode.Parent.PendingInsert = queue
		return
	}
	for _, n := range queue {
		if n.Hooks != nil && n.Hooks.Insert != nil {
			n.Hooks.Insert(n)
		}
	}
}

func (p *Patcher) warnf(code, subject, format string, args ...any) {
	if !p.devMode || p.warn == nil {
		return
	}
	d := errors.New(code).WithSubject(subject)
	if format != "" {
		d.WithDetail(fmt.Sprintf(format, args...))
	}
	p.warn(d)
}

func (p *Patcher) checkDepth(depth int, vnode *VNode) error {
	if depth > p.maxDepth {
		return errors.New(errors.CodeTreeTooDeep).
			WithSubject(vnode.Tag).
			WithDetail(fmt.Sprintf("depth %d exceeds limit %d", depth, p.maxDepth))
	}
	return nil
}

func hostError(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *errors.Error
	if errors.As(err, &te) {
		return err
	}
	return errors.New(errors.CodeAdapterFailed).WithSubject(op).Wrap(err)
}
