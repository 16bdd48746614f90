package reactive

import (
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/tracing"
)

// ErrCircularUpdate is returned by Flush when a watcher keeps re-queueing
// itself.
var ErrCircularUpdate = errors.New(errors.CodeCircularUpdate)

// Activatable is queued by QueueActivated and activated after the flush
// that queued it.
type Activatable interface {
	Activate()
}

// Scheduler batches watcher runs into flushes. A watcher is queued at most
// once per flush; watchers queued during a flush are inserted by id after
// the running position.
type Scheduler struct {
	rt *Runtime

	queue     []*Watcher
	activated []Activatable
	has       map[uint64]bool
	circular  map[uint64]int

	waiting  bool
	flushing bool
	index    int

	flushes uint64
}

func newScheduler(rt *Runtime) *Scheduler {
	return &Scheduler{
		rt:       rt,
		has:      make(map[uint64]bool),
		circular: make(map[uint64]int),
	}
}

// QueueWatcher schedules w. Duplicate requests before w runs are ignored.
func (s *Scheduler) QueueWatcher(w *Watcher) {
	if s.has[w.id] {
		return
	}
	s.has[w.id] = true
	if !s.flushing {
		s.queue = append(s.queue, w)
	} else {
		i := len(s.queue) - 1
		for i > s.index && s.queue[i].id > w.id {
			i--
		}
		s.queue = slices.Insert(s.queue, i+1, w)
	}
	if s.waiting {
		return
	}
	s.waiting = true
	if !s.rt.async {
		s.Flush()
		return
	}
	s.rt.NextTick(func() { s.Flush() })
}

// QueueActivated schedules a.Activate for the end of the next flush.
func (s *Scheduler) QueueActivated(a Activatable) {
	s.activated = append(s.activated, a)
}

// Flushing reports whether a flush is in progress.
func (s *Scheduler) Flushing() bool { return s.flushing }

// Pending returns the number of watchers waiting to run.
func (s *Scheduler) Pending() int {
	if s.flushing {
		return len(s.queue) - s.index
	}
	return len(s.queue)
}

// Flushes returns how many flushes have completed.
func (s *Scheduler) Flushes() uint64 { return s.flushes }

// Flush runs every queued watcher in id order, then the activation and
// after hooks. If a watcher keeps re-queueing itself past the configured
// limit the flush stops and a T020 error is returned and warned.
func (s *Scheduler) Flush() error {
	start := time.Now()
	_, end := s.rt.tracer.Start(s.rt.ctx, tracing.SpanFlush,
		attribute.Int("tether.queued", len(s.queue)))

	s.flushing = true
	slices.SortFunc(s.queue, func(a, b *Watcher) int { return compareIDs(a.id, b.id) })

	var flushErr error
	ran := 0
	// The queue may grow while running, so its length is re-read each time.
	for s.index = 0; s.index < len(s.queue); s.index++ {
		w := s.queue[s.index]
		if w.before != nil && w.active {
			s.rt.Guard(w.owner, "before hook", func() error {
				w.before()
				return nil
			})
		}
		id := w.id
		delete(s.has, id)
		w.Run()
		ran++
		if s.has[id] {
			s.circular[id]++
			if s.circular[id] > s.rt.maxUpdateCount {
				d := errors.New(errors.CodeCircularUpdate).
					WithSubject(w.expression).
					WithDetail(fmt.Sprintf("watcher re-queued itself more than %d times in one flush", s.rt.maxUpdateCount))
				s.rt.metrics.CircularUpdate()
				s.rt.Warn(d, w.owner)
				flushErr = d
				break
			}
		}
	}

	activated := slices.Clone(s.activated)
	updated := slices.Clone(s.queue)
	s.reset()

	for _, a := range activated {
		s.rt.Guard(nil, "activated hook", func() error {
			a.Activate()
			return nil
		})
	}
	for i := len(updated) - 1; i >= 0; i-- {
		w := updated[i]
		if w.after != nil && w.active {
			s.rt.Guard(w.owner, "after hook", func() error {
				w.after()
				return nil
			})
		}
	}

	s.flushes++
	s.rt.metrics.FlushCompleted(ran, time.Since(start))
	end(flushErr, attribute.Int("tether.ran", ran))
	return flushErr
}

func (s *Scheduler) reset() {
	clear(s.queue)
	s.queue = s.queue[:0]
	s.activated = nil
	s.index = 0
	clear(s.has)
	clear(s.circular)
	s.waiting = false
	s.flushing = false
}
