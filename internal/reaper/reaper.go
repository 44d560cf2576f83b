// Package reaper implements the Reaper (C6): a background loop that
// consumes TimerQueue expirations and returns reclaimed workers to their
// pool (§4.6).
package reaper

import (
	"github.com/royludo/fuzzytaxosearch/internal/binder"
	"github.com/royludo/fuzzytaxosearch/internal/pool"
	"github.com/royludo/fuzzytaxosearch/internal/timerqueue"
)

// Run drains queue.Receive() until the queue is closed. For every id that
// still has a Lease at the fired timer generation, the worker is
// released back to p. Reclaim returns ok=false both when the id was
// already reclaimed by a concurrent WithLease (§4.5's critical
// invariant) and when a Reset renewed the lease to a later generation
// after this firing was already queued (§4.4) — either way the firing is
// stale and is silently dropped.
//
// Run blocks; callers start it with `go reaper.Run(...)`.
func Run(queue *timerqueue.Queue, b *binder.Binder, p *pool.Pool) {
	for {
		id, version, ok := queue.Receive()
		if !ok {
			return
		}
		lease, ok := b.Reclaim(id, version)
		if !ok {
			continue
		}
		_ = p.Release(lease.Worker)
	}
}
