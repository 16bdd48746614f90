package reactive

import "time"

// Metrics receives scheduler and error counters. Implementations must be
// cheap; they are called on the flush path.
type Metrics interface {
	// FlushCompleted is called once per flush with the number of watcher
	// runs and the elapsed time.
	FlushCompleted(ran int, elapsed time.Duration)
	WatcherRan(kind Kind)
	CircularUpdate()
	ErrorHandled(info string)
	Warned(code string)
}

type noopMetrics struct{}

func (noopMetrics) FlushCompleted(int, time.Duration) {}
func (noopMetrics) WatcherRan(Kind)                   {}
func (noopMetrics) CircularUpdate()                   {}
func (noopMetrics) ErrorHandled(string)               {}
func (noopMetrics) Warned(string)                     {}
