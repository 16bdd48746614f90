package reactive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/tether/internal/errors"
)

func TestOwnerDisposeTearsDownTree(t *testing.T) {
	rt := New()
	c := NewCell(rt, 0)

	root := NewOwner(nil, "App")
	child := NewOwner(root, "List")

	var log []string
	NewWatcher(rt, func() (any, error) { return c.Get(), nil }, nil, OwnedBy(child))
	child.OnCleanup(func() { log = append(log, "child") })
	root.OnCleanup(func() { log = append(log, "root") })
	require.Equal(t, 1, c.Dep().Subscribers())

	root.Dispose()
	assert.Equal(t, []string{"child", "root"}, log)
	assert.Equal(t, 0, c.Dep().Subscribers())
	assert.True(t, child.IsDisposed())
	assert.Empty(t, root.Children())

	ran := false
	root.OnCleanup(func() { ran = true })
	assert.True(t, ran)
}

func TestOwnerTraceAndInject(t *testing.T) {
	root := NewOwner(nil, "App")
	list := NewOwner(root, "TodoList")
	item := NewOwner(list, "")

	assert.Contains(t, item.Trace(), "<App> > <TodoList> > <Anonymous#")

	root.Provide("theme", "dark")
	v, ok := item.Inject("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
	_, ok = item.Inject("missing")
	assert.False(t, ok)
}

func TestGetterErrorKeepsPreviousValue(t *testing.T) {
	var handled []error
	rt := New(WithErrorHandler(func(err error, _ *Owner, _ string) { handled = append(handled, err) }))
	c := NewCell(rt, 1)

	var seen []any
	w := NewWatcher(rt, func() (any, error) {
		if c.Get() < 0 {
			return nil, errors.New("negative")
		}
		return c.Get(), nil
	}, recordChangesAny(&seen))

	c.Set(-1)
	rt.Tick()
	assert.Equal(t, 1, w.Value())
	assert.True(t, w.Failed())
	assert.Empty(t, seen)
	require.Len(t, handled, 1)
	assert.True(t, terrors.Is(handled[0], terrors.New(terrors.CodeEvaluation)))

	c.Set(3)
	rt.Tick()
	assert.Equal(t, []any{3}, seen, "the watcher stays subscribed after an error")
}

func TestPanicsAreRecovered(t *testing.T) {
	var infos []string
	rt := New(WithErrorHandler(func(_ error, _ *Owner, info string) { infos = append(infos, info) }))
	c := NewCell(rt, 0)

	NewWatcher(rt, func() (any, error) { return c.Get(), nil }, func(any, any) error {
		panic("callback exploded")
	}, Expression("boom"))

	c.Set(1)
	assert.NotPanics(t, func() { rt.Tick() })
	assert.Equal(t, []string{`callback for watcher "boom"`}, infos)
	assert.False(t, rt.Tracking(), "evaluation stack is balanced")
}

func TestErrorCapturedStopsPropagation(t *testing.T) {
	var global []error
	rt := New(WithErrorHandler(func(err error, _ *Owner, _ string) { global = append(global, err) }))

	root := NewOwner(nil, "App")
	parent := NewOwner(root, "Panel")
	child := NewOwner(parent, "Widget")

	var captured []string
	parent.OnErrorCaptured(func(err error, origin *Owner, info string) bool {
		captured = append(captured, origin.Name()+":"+info)
		return false
	})
	root.OnErrorCaptured(func(error, *Owner, string) bool {
		t.Fatal("propagation should have stopped")
		return true
	})

	rt.HandleError(errors.New("bad"), child, "render")
	assert.Equal(t, []string{"Widget:render"}, captured)
	assert.Empty(t, global)
}

func TestErrorCapturedSkipsOrigin(t *testing.T) {
	var global []error
	rt := New(WithErrorHandler(func(err error, _ *Owner, _ string) { global = append(global, err) }))

	o := NewOwner(nil, "Solo")
	o.OnErrorCaptured(func(error, *Owner, string) bool { return false })

	rt.HandleError(errors.New("bad"), o, "render")
	assert.Len(t, global, 1)
}

func TestFailingCaptureHookIsReported(t *testing.T) {
	var infos []string
	rt := New(WithErrorHandler(func(_ error, _ *Owner, info string) { infos = append(infos, info) }))

	parent := NewOwner(nil, "Parent")
	child := NewOwner(parent, "Child")
	parent.OnErrorCaptured(func(error, *Owner, string) bool { panic("hook failed") })

	rt.HandleError(errors.New("bad"), child, "render")
	assert.Equal(t, []string{"errorCaptured hook", "render"}, infos)
}

func TestNextTickRunsAfterFlush(t *testing.T) {
	rt := New()
	c := NewCell(rt, 0)

	var log []string
	NewWatcher(rt, func() (any, error) { return c.Get(), nil }, func(any, any) error {
		log = append(log, "watcher")
		return nil
	})

	c.Set(1)
	rt.NextTick(func() { log = append(log, "tick") })
	rt.NextTick(func() { panic("ignored") })
	rt.NextTick(func() { log = append(log, "tick2") })
	rt.Tick()

	assert.Equal(t, []string{"watcher", "tick", "tick2"}, log)
}

func TestLoopFlushesAfterDispatchedTask(t *testing.T) {
	rt := New()
	loop := NewLoop(rt, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCell(rt, 0)
	seen := make(chan int, 4)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = loop.Run(ctx)
	}()

	require.NoError(t, loop.Dispatch(func() {
		Watch(rt, c.Get, func(nv, _ int) { seen <- nv })
	}))
	require.NoError(t, loop.Dispatch(func() {
		c.Set(1)
		c.Set(2)
	}))

	select {
	case v := <-seen:
		assert.Equal(t, 2, v)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire")
	}

	loop.Close()
	wg.Wait()
	assert.ErrorIs(t, loop.Dispatch(func() {}), ErrLoopClosed)
}

func TestLoopAsMacrotaskTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := New()
	loop := NewLoop(rt, 1)
	loop.UseMacrotasks()
	go func() { _ = loop.Run(ctx) }()

	done := make(chan string, 1)
	require.NoError(t, loop.Dispatch(func() {
		c := NewCell(rt, "a")
		Watch(rt, c.Get, func(nv, _ string) { done <- nv })
		c.Set("b")
	}))

	select {
	case v := <-done:
		assert.Equal(t, "b", v)
	case <-time.After(2 * time.Second):
		t.Fatal("macrotask flush did not run")
	}
}
