package reactive

import "sync/atomic"

var (
	depIDCounter     uint64
	watcherIDCounter uint64
	ownerIDCounter   uint64
)

// Watcher ids define flush order, so they are strictly increasing and never
// reused. Dep and Owner ids only need to be unique.
func nextDepID() uint64 {
	return atomic.AddUint64(&depIDCounter, 1)
}

func nextWatcherID() uint64 {
	return atomic.AddUint64(&watcherIDCounter, 1)
}

func nextOwnerID() uint64 {
	return atomic.AddUint64(&ownerIDCounter, 1)
}
