// Package ecosystem assembles one pool/timer-queue/binder/reaper
// quadruple (§4.8 Bootstrap: "two independent ecosystems"). The
// autocomplete and general-purpose pools are each built from their own
// Ecosystem so session-pinned and batch traffic never contend for the
// same Matchers (§4.8 step 3's rationale).
package ecosystem

import (
	"github.com/royludo/fuzzytaxosearch/internal/binder"
	"github.com/royludo/fuzzytaxosearch/internal/pool"
	"github.com/royludo/fuzzytaxosearch/internal/reaper"
	"github.com/royludo/fuzzytaxosearch/internal/timerqueue"
)

// timerBuffer sizes each Ecosystem's expiration channel; it only needs
// to absorb a burst between Reaper iterations, not to queue indefinitely.
const timerBuffer = 64

// Ecosystem bundles the three internally-synchronized components a pool
// of sessions shares, plus the background Reaper that ties them
// together (§2 data flow).
type Ecosystem struct {
	Pool   *pool.Pool
	Timer  *timerqueue.Queue
	Binder *binder.Binder
}

// New builds a pool of the given capacity, a fresh timer queue and
// binder, and starts the Reaper goroutine that drains expirations back
// into the pool.
func New(maxSize, minSize int, factory pool.Factory) *Ecosystem {
	e := &Ecosystem{
		Pool:   pool.New(maxSize, minSize, factory),
		Timer:  timerqueue.New(timerBuffer),
		Binder: binder.New(),
	}
	go reaper.Run(e.Timer, e.Binder, e.Pool)
	return e
}

// Close stops the Ecosystem's timer queue, which in turn lets its Reaper
// goroutine exit (§4.6 "Terminates on close() of the timer queue").
func (e *Ecosystem) Close() {
	e.Timer.Close()
}
