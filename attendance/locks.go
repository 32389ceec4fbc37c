package attendance

import (
	"sync"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// LOCK ARENA - Per-employee serialization for punch acceptance
// =============================================================================

// lockArena hands out one mutex per employee, created lazily. Entries
// with no holders are swept once the arena grows past sweepThreshold,
// so a long-running process does not accumulate a lock per employee
// ever seen.
type lockArena struct {
	mu    sync.Mutex
	locks map[punch.EmployeeID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

const sweepThreshold = 4096

func newLockArena() *lockArena {
	return &lockArena{locks: make(map[punch.EmployeeID]*lockEntry)}
}

// acquire blocks until the employee's lock is held and returns the
// release function.
func (a *lockArena) acquire(id punch.EmployeeID) func() {
	a.mu.Lock()
	e, ok := a.locks[id]
	if !ok {
		e = &lockEntry{}
		a.locks[id] = e
	}
	e.refs++
	a.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		a.mu.Lock()
		e.refs--
		if len(a.locks) > sweepThreshold {
			a.sweepLocked()
		}
		a.mu.Unlock()
	}
}

// sweepLocked drops entries nobody holds or waits on. Caller holds a.mu.
func (a *lockArena) sweepLocked() {
	for id, e := range a.locks {
		if e.refs == 0 {
			delete(a.locks, id)
		}
	}
}
