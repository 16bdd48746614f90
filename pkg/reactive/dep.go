package reactive

import (
	"slices"
)

// Dep is a subscription point. Each reactive slot owns one; each observed
// collection owns one more for structural changes.
type Dep struct {
	id   uint64
	rt   *Runtime
	subs []*Watcher
}

// NewDep creates a Dep for a custom reactive source. Call Depend on read
// and Notify on write.
func NewDep(rt *Runtime) *Dep {
	return &Dep{id: nextDepID(), rt: rt}
}

// ID returns the Dep's unique id.
func (d *Dep) ID() uint64 { return d.id }

// Subscribers returns the number of subscribed watchers.
func (d *Dep) Subscribers() int { return len(d.subs) }

func (d *Dep) addSub(w *Watcher) {
	for _, s := range d.subs {
		if s.id == w.id {
			return
		}
	}
	d.subs = append(d.subs, w)
}

func (d *Dep) removeSub(w *Watcher) {
	if i := slices.Index(d.subs, w); i >= 0 {
		d.subs = slices.Delete(d.subs, i, i+1)
	}
}

// Depend records d as a dependency of the watcher currently evaluating.
// Outside an evaluation it does nothing.
func (d *Dep) Depend() {
	if w := d.rt.target(); w != nil {
		w.addDep(d)
	}
}

// Notify tells every subscriber that d changed. Subscribers are snapshotted
// first, so watchers that subscribe or unsubscribe while being notified do
// not affect this round.
func (d *Dep) Notify() {
	subs := slices.Clone(d.subs)
	if !d.rt.async {
		// Without a tick the queue is flushed as soon as it is filled, so
		// order has to come from here.
		slices.SortFunc(subs, func(a, b *Watcher) int { return compareIDs(a.id, b.id) })
	}
	for _, w := range subs {
		w.Update()
	}
}

func compareIDs(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
