package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectWarnings(dst *[]string) Option {
	return WithWarnHandler(func(d *Diagnostic, _ *Owner) {
		*dst = append(*dst, d.Code)
	})
}

func TestObserveConvertsNestedValues(t *testing.T) {
	rt := New()
	v := rt.Observe(map[string]any{
		"list": []any{map[string]any{"id": 1}, "x"},
		"n":    3,
	})

	obj, ok := v.(*Object)
	require.True(t, ok)
	list, ok := obj.Get("list").(*Array)
	require.True(t, ok)
	_, ok = list.At(0).(*Object)
	assert.True(t, ok)
	assert.Equal(t, "x", list.At(1))
	assert.NotNil(t, ObserverOf(list))
	assert.Same(t, obj, rt.Observe(obj))
}

func TestObserveSkipsRawAndDisabled(t *testing.T) {
	rt := New()
	raw := MarkRaw(map[string]any{"a": 1})
	assert.Equal(t, raw, rt.Observe(raw))

	prev := rt.ToggleObserving(false)
	assert.True(t, prev)
	m := map[string]any{"a": 1}
	_, isMap := rt.Observe(m).(map[string]any)
	assert.True(t, isMap)
	rt.ToggleObserving(prev)
	assert.True(t, rt.ShouldObserve())
}

func TestPutOnUnknownKeyIsNotReactive(t *testing.T) {
	rt := New()
	obj := rt.Reactive(map[string]any{})
	obj.Put("later", 1)

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return obj.Get("later"), nil
	}, nil)

	obj.Put("later", 2)
	rt.Tick()
	assert.Equal(t, 1, runs)
	assert.False(t, obj.IsReactive("later"))
}

func TestSetAddsReactiveProperty(t *testing.T) {
	rt := New()
	obj := rt.Reactive(map[string]any{})

	var seen []any
	NewWatcher(rt, func() (any, error) { return obj.Get("newKey"), nil }, recordChangesAny(&seen))

	rt.Set(obj, "newKey", "first")
	rt.Tick()
	require.Equal(t, []any{"first"}, seen)

	obj.Put("newKey", "second")
	rt.Tick()
	assert.Equal(t, []any{"first", "second"}, seen)
	assert.True(t, obj.IsReactive("newKey"))
}

func TestSetNotifiesNestedReaders(t *testing.T) {
	rt := New()
	state := rt.Reactive(map[string]any{"user": map[string]any{"name": "ann"}})

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return state.Get("user").(*Object).Keys(), nil
	}, nil)

	rt.Set(state.Get("user"), "age", 30)
	rt.Tick()
	assert.Equal(t, 2, runs)
}

func TestSetOnExistingKeyAssigns(t *testing.T) {
	rt := New()
	obj := rt.Reactive(map[string]any{"a": 1})
	assert.Equal(t, 5, rt.Set(obj, "a", 5))
	assert.Equal(t, 5, obj.Get("a"))
}

func TestSetOnArrayIndexSplices(t *testing.T) {
	rt := New()
	arr := rt.ReactiveArray([]any{"a", "b"})

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return arr.Len(), nil
	}, nil)

	rt.Set(arr, 1, "B")
	rt.Set(arr, 4, "E")
	rt.Tick()

	assert.Equal(t, 2, runs)
	assert.Equal(t, []any{"a", "B", nil, nil, "E"}, arr.ToSlice())
}

func TestSetWarnsOnRootAndFrozenTargets(t *testing.T) {
	var codes []string
	rt := New(collectWarnings(&codes))

	root := rt.Root(map[string]any{})
	rt.Set(root, "x", 1)
	assert.False(t, root.Has("x"))

	frozen := rt.Freeze(map[string]any{"a": 1})
	rt.Set(frozen, "b", 2)
	assert.False(t, frozen.Has("b"))

	rt.Set(42, "k", 1)
	plain := map[string]any{}
	rt.Set(plain, "k", 1)
	assert.Equal(t, 1, plain["k"])

	assert.Equal(t, []string{"T003", "T001", "T004", "T001"}, codes)
}

func TestSilentSuppressesWarnings(t *testing.T) {
	var codes []string
	rt := New(collectWarnings(&codes), WithSilent(true))
	rt.Set(rt.Root(map[string]any{}), "x", 1)
	assert.Empty(t, codes)
}

func TestDelRemovesAndNotifies(t *testing.T) {
	rt := New()
	obj := rt.Reactive(map[string]any{"a": 1, "b": 2})

	var seen []any
	NewWatcher(rt, func() (any, error) { return obj.Has("a"), nil }, recordChangesAny(&seen))

	rt.Del(obj, "a")
	rt.Tick()
	assert.Equal(t, []any{false}, seen)
	assert.Equal(t, []string{"b"}, obj.Keys())

	rt.Del(obj, "missing")
	rt.Tick()
	assert.Len(t, seen, 1)
}

func TestDelOnArray(t *testing.T) {
	rt := New()
	arr := rt.ReactiveArray([]any{1, 2, 3})
	rt.Del(arr, 1)
	assert.Equal(t, []any{1, 3}, arr.ToSlice())
}

func TestArrayMutatorsNotify(t *testing.T) {
	rt := New()
	arr := rt.ReactiveArray([]any{3, 1, 2})

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return arr.Items(), nil
	}, nil)

	steps := []func(){
		func() { arr.Push(4) },
		func() { arr.Pop() },
		func() { arr.Unshift(0) },
		func() { arr.Shift() },
		func() { arr.Splice(1, 1, 9, 8) },
		func() { arr.Sort(func(x, y any) bool { return x.(int) < y.(int) }) },
		func() { arr.Reverse() },
	}
	for i, step := range steps {
		step()
		rt.Tick()
		assert.Equal(t, i+2, runs)
	}
	assert.Equal(t, []any{9, 8, 3, 2}, arr.ToSlice())
}

func TestArraySpliceClamps(t *testing.T) {
	rt := New()
	arr := rt.ReactiveArray([]any{1, 2, 3})

	assert.Equal(t, []any{3}, arr.Splice(-1, 5))
	assert.Equal(t, []any{}, arr.Splice(10, 1, "x"))
	assert.Equal(t, []any{1, 2, "x"}, arr.ToSlice())
}

func TestArrayObservesInsertedValues(t *testing.T) {
	rt := New()
	arr := rt.ReactiveArray(nil)
	arr.Push(map[string]any{"done": false})

	item, ok := arr.At(0).(*Object)
	require.True(t, ok)

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return item.Get("done"), nil
	}, nil)
	item.Put("done", true)
	rt.Tick()
	assert.Equal(t, 2, runs)
}

func TestNestedArrayElementsAreDepended(t *testing.T) {
	rt := New()
	state := rt.Reactive(map[string]any{"rows": []any{[]any{1}}})

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return state.Get("rows"), nil
	}, nil)

	inner := state.Get("rows").(*Array).At(0).(*Array)
	inner.Push(2)
	rt.Tick()
	assert.Equal(t, 2, runs)
}

func TestReadonlyWarnsButWrites(t *testing.T) {
	var codes []string
	rt := New(collectWarnings(&codes))
	props := rt.Reactive(map[string]any{})
	props.DefineReadonly("title", "a", nil)

	props.Put("title", "b")
	assert.Equal(t, "b", props.Get("title"))
	assert.Equal(t, []string{"T002"}, codes)
}

func TestShallowDefineKeepsRawValue(t *testing.T) {
	rt := New()
	obj := rt.Reactive(map[string]any{})
	m := map[string]any{"a": 1}
	obj.Define("cfg", m, Shallow())

	_, isMap := obj.Get("cfg").(map[string]any)
	assert.True(t, isMap)
}

func TestTraverseHandlesCycles(t *testing.T) {
	rt := New()
	a := rt.Reactive(map[string]any{})
	b := rt.Reactive(map[string]any{"a": a})
	a.Define("b", b)

	w := NewWatcher(rt, func() (any, error) { return a, nil }, nil, Deep())
	assert.NotEmpty(t, w.Deps())
}

func TestToMapUnwraps(t *testing.T) {
	rt := New()
	in := map[string]any{"list": []any{map[string]any{"id": 1}}, "raw": MarkRaw(7)}
	obj := rt.Reactive(in)
	assert.Equal(t, map[string]any{"list": []any{map[string]any{"id": 1}}, "raw": 7}, obj.ToMap())
}
