package vtest

import (
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// CapturedError is an error that reached the global handler.
type CapturedError struct {
	Err   error
	Owner *reactive.Owner
	Info  string
}

// Builder allows fluent construction of a Harness.
type Builder struct {
	devMode   bool
	rtOpts    []reactive.Option
	patchOpts []vdom.PatchOption
}

// New creates a new harness builder.
//
// Example:
//
//	h := vtest.New().WithDevMode(true).WithMaxUpdateCount(10).Build(t)
func New() *Builder {
	return &Builder{}
}

// WithDevMode enables development checks in both the runtime and the patcher.
func (b *Builder) WithDevMode(dev bool) *Builder {
	b.devMode = dev
	return b
}

// WithMaxUpdateCount sets the circular update limit.
func (b *Builder) WithMaxUpdateCount(n int) *Builder {
	b.rtOpts = append(b.rtOpts, reactive.WithMaxUpdateCount(n))
	return b
}

// WithRuntimeOptions appends raw runtime options.
func (b *Builder) WithRuntimeOptions(opts ...reactive.Option) *Builder {
	b.rtOpts = append(b.rtOpts, opts...)
	return b
}

// WithPatchOptions appends raw patcher options.
func (b *Builder) WithPatchOptions(opts ...vdom.PatchOption) *Builder {
	b.patchOpts = append(b.patchOpts, opts...)
	return b
}

// Harness is a wired runtime, host and component App.
type Harness struct {
	RT       *reactive.Runtime
	Host     *memhost.Host
	Recorder *vdom.Recorder
	Patcher  *vdom.Patcher
	App      *component.App

	// Body is the container that Mount attaches components to.
	Body vdom.NodeID

	Warnings []*reactive.Diagnostic
	Errors   []CapturedError
}

// Build returns the harness.
func (b *Builder) Build(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{Host: memhost.New()}
	h.Recorder = vdom.NewRecorder(h.Host)
	h.Body = h.Host.Container("body")

	rtOpts := []reactive.Option{
		reactive.WithDevMode(b.devMode),
		reactive.WithWarnHandler(func(d *reactive.Diagnostic, _ *reactive.Owner) {
			h.Warnings = append(h.Warnings, d)
		}),
		reactive.WithErrorHandler(func(err error, owner *reactive.Owner, info string) {
			h.Errors = append(h.Errors, CapturedError{Err: err, Owner: owner, Info: info})
		}),
	}
	h.RT = reactive.New(append(rtOpts, b.rtOpts...)...)

	patchOpts := []vdom.PatchOption{
		vdom.WithDevMode(b.devMode),
		vdom.WithModules(vdom.AttrsModule(h.Recorder), vdom.ListenersModule(h.Recorder)),
		vdom.WithWarn(func(d *vdom.Diagnostic) { h.Warnings = append(h.Warnings, d) }),
	}
	h.Patcher = vdom.NewPatcher(h.Recorder, append(patchOpts, b.patchOpts...)...)
	h.App = component.NewApp(h.RT, h.Patcher)
	return h
}

// Mount mounts def into a fresh element appended to Body.
func (h *Harness) Mount(t testing.TB, def *component.Definition, props map[string]any) *component.Instance {
	t.Helper()
	target := h.Host.Container("div")
	if err := h.Host.InsertBefore(h.Body, target, 0); err != nil {
		t.Fatalf("attach mount target: %v", err)
	}
	c, err := h.App.Mount(def, target, props)
	if err != nil {
		t.Fatalf("mount %s: %v", def.Name, err)
	}
	return c
}

// Tick drains pending callbacks and flushes.
func (h *Harness) Tick() int { return h.RT.Tick() }

// HTML renders the children of Body.
func (h *Harness) HTML() string { return h.Host.RenderChildren(h.Body) }

// Ops returns the host mutations recorded since the last Reset.
func (h *Harness) Ops() []vdom.Op { return h.Recorder.Ops() }

// Reset clears recorded ops, captured warnings and captured errors.
func (h *Harness) Reset() {
	h.Recorder.Reset()
	h.Warnings = nil
	h.Errors = nil
}

// HasWarning reports whether a warning with code was captured.
func (h *Harness) HasWarning(code string) bool {
	return slices.ContainsFunc(h.Warnings, func(d *reactive.Diagnostic) bool { return d.Code == code })
}

// RenderToString creates node on a fresh host and returns its markup.
// Creation errors render as an empty string.
//
// Example:
//
//	html := vtest.RenderToString(vdom.Div(vdom.Class("x")))
func RenderToString(node *vdom.VNode) string {
	host := memhost.New()
	p := vdom.NewPatcher(host, vdom.WithModules(vdom.AttrsModule(host), vdom.ListenersModule(host)))
	elm, err := p.Patch(nil, node)
	if err != nil {
		return ""
	}
	return host.Render(elm)
}

// ExpectHTML asserts that the harness body renders exactly expected.
func ExpectHTML(t testing.TB, h *Harness, expected string) {
	t.Helper()
	if got := h.HTML(); got != expected {
		t.Errorf("expected markup %q, got:\n%s", expected, truncate(got, 500))
	}
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, node, "Welcome Admin")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
