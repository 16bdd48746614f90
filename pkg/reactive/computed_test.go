package reactive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputedIsLazyAndCached(t *testing.T) {
	rt := New()
	first := NewCell(rt, "ada")
	last := NewCell(rt, "lovelace")

	evals := 0
	full := NewComputed(rt, func() string {
		evals++
		return first.Get() + " " + last.Get()
	})
	assert.Equal(t, 0, evals)

	assert.Equal(t, "ada lovelace", full.Get())
	assert.Equal(t, "ada lovelace", full.Get())
	assert.Equal(t, 1, evals)

	first.Set("Ada")
	assert.True(t, full.Watcher().Dirty())
	assert.Equal(t, 1, evals)
	assert.Equal(t, "Ada lovelace", full.Get())
	assert.Equal(t, 2, evals)
}

func TestWatcherReadingComputedFollowsItsSources(t *testing.T) {
	rt := New()
	n := NewCell(rt, 2)
	double := NewComputed(rt, func() int { return n.Get() * 2 })

	var seen []int
	Watch(rt, double.Get, func(nv, _ int) { seen = append(seen, nv) })

	n.Set(5)
	rt.Tick()
	assert.Equal(t, []int{10}, seen)
}

func TestComputedChains(t *testing.T) {
	rt := New()
	words := rt.ReactiveArray([]any{"a", "b"})
	joined := NewComputed(rt, func() string {
		parts := make([]string, 0, words.Len())
		for _, w := range words.Items() {
			parts = append(parts, w.(string))
		}
		return strings.Join(parts, ",")
	})
	upper := NewComputed(rt, func() string { return strings.ToUpper(joined.Get()) })

	var seen []string
	Watch(rt, upper.Get, func(nv, _ string) { seen = append(seen, nv) })

	words.Push("c")
	rt.Tick()
	assert.Equal(t, []string{"A,B,C"}, seen)
}

func TestWatchCountScenario(t *testing.T) {
	rt := New()
	count := NewCell(rt, 0)

	type call struct{ nv, ov int }
	var calls []call
	Watch(rt, count.Get, func(nv, ov int) { calls = append(calls, call{nv, ov}) })

	count.Set(1)
	count.Set(2)
	rt.Tick()

	require.Len(t, calls, 1)
	assert.Equal(t, call{2, 0}, calls[0])
}

func TestWatchImmediateAndUnwatch(t *testing.T) {
	rt := New()
	c := NewCell(rt, "x")

	var seen []string
	stop := Watch(rt, c.Get, func(nv, ov string) { seen = append(seen, nv+"|"+ov) }, Immediate())
	assert.Equal(t, []string{"x|"}, seen)

	stop()
	c.Set("y")
	rt.Tick()
	assert.Len(t, seen, 1)
}

func TestCellCustomEquality(t *testing.T) {
	rt := New()
	c := NewCell(rt, "Hello").WithEquals(strings.EqualFold)

	runs := 0
	NewWatcher(rt, func() (any, error) {
		runs++
		return c.Get(), nil
	}, nil)

	c.Set("HELLO")
	rt.Tick()
	assert.Equal(t, 1, runs)

	c.Update(func(s string) string { return s + "!" })
	rt.Tick()
	assert.Equal(t, 2, runs)
	assert.Equal(t, "Hello!", c.Peek())
}

func TestMapTracksPerKey(t *testing.T) {
	rt := New()
	m := NewMap[string, int](rt)
	m.Set("a", 1)
	m.Set("b", 2)

	aRuns, lenRuns := 0, 0
	NewWatcher(rt, func() (any, error) {
		aRuns++
		v, _ := m.Get("a")
		return v, nil
	}, nil)
	NewWatcher(rt, func() (any, error) {
		lenRuns++
		return m.Len(), nil
	}, nil)

	m.Set("b", 20)
	rt.Tick()
	assert.Equal(t, 1, aRuns, "other keys do not wake a")
	assert.Equal(t, 1, lenRuns, "updates are not structural")

	m.Set("c", 3)
	rt.Tick()
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 2, lenRuns)

	m.Delete("a")
	rt.Tick()
	assert.Equal(t, 2, aRuns)
	assert.Equal(t, 3, lenRuns)
	assert.Equal(t, []string{"b", "c"}, m.Keys())
}

func TestMapMissingKeyWaitsForInsert(t *testing.T) {
	rt := New()
	m := NewMap[int, string](rt)

	var seen []any
	NewWatcher(rt, func() (any, error) {
		v, ok := m.Get(7)
		if !ok {
			return "missing", nil
		}
		return v, nil
	}, recordChangesAny(&seen))

	m.Set(7, "seven")
	rt.Tick()
	assert.Equal(t, []any{"seven"}, seen)

	collected := map[int]string{}
	m.Range(func(k int, v string) bool {
		collected[k] = v
		return true
	})
	assert.Equal(t, map[int]string{7: "seven"}, collected)
}
