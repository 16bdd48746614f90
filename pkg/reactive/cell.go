package reactive

// Cell is a single typed reactive slot.
type Cell[T any] struct {
	rt    *Runtime
	dep   *Dep
	value T
	equal func(a, b T) bool
}

// NewCell creates a cell holding v.
func NewCell[T any](rt *Runtime, v T) *Cell[T] {
	return &Cell[T]{rt: rt, dep: NewDep(rt), value: v}
}

// WithEquals replaces the equality used to skip redundant writes.
func (c *Cell[T]) WithEquals(eq func(a, b T) bool) *Cell[T] {
	c.equal = eq
	return c
}

// Get returns the value and tracks the cell. When the value is an observed
// Object or Array its collection is tracked too.
func (c *Cell[T]) Get() T {
	if c.rt.target() == nil {
		return c.value
	}
	c.dep.Depend()
	if ob := ObserverOf(any(c.value)); ob != nil {
		ob.dep.Depend()
		if arr, ok := any(c.value).(*Array); ok {
			dependArray(arr)
		}
	}
	return c.value
}

// Peek returns the value without tracking.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores v and notifies when it differs from the current value.
func (c *Cell[T]) Set(v T) {
	if c.same(c.value, v) {
		return
	}
	c.value = v
	c.dep.Notify()
}

// Update applies fn to the current value and stores the result.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}

// Dep returns the cell's Dep.
func (c *Cell[T]) Dep() *Dep { return c.dep }

func (c *Cell[T]) same(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return sameValue(any(a), any(b))
}
