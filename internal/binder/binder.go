// Package binder implements the SessionBinder (C5): the map from session
// uuid to its leased Matcher and timer handle, with the remove-then-
// reinsert access pattern that keeps lease use and reaping race-free
// (§4.5).
package binder

import (
	"sync"

	"github.com/google/uuid"

	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/model"
	"github.com/royludo/fuzzytaxosearch/internal/timerqueue"
)

// Lease binds one session to one leased worker and its pending-expiry
// timer handle.
type Lease struct {
	Worker *matcher.Matcher
	Timer  timerqueue.Handle
}

// Binder owns the uuid -> Lease map (C5).
type Binder struct {
	mu     sync.Mutex
	leases map[uuid.UUID]Lease
}

// New constructs an empty Binder.
func New() *Binder {
	return &Binder{leases: make(map[uuid.UUID]Lease)}
}

// AttachNew stores a freshly-acquired worker and timer handle under id,
// to be written into the session cookie (§4.5, §4.7.1 step 2). id must be
// the same uuid the timer handle was registered under, so that the
// Reaper's expiry notification (keyed by that uuid) finds this lease.
func (b *Binder) AttachNew(id uuid.UUID, worker *matcher.Matcher, timer timerqueue.Handle) {
	b.mu.Lock()
	b.leases[id] = Lease{Worker: worker, Timer: timer}
	b.mu.Unlock()
}

// WithLease removes the Lease for id, hands it to fn outside the map
// lock, and reinserts whatever fn returns. Removing before calling fn is
// the synchronization primitive: a concurrent Reclaim for the same id
// finds it absent and returns false instead of racing with fn (§4.5's
// critical invariant). It returns model.ErrLeaseNotFound if id has no
// Lease — already reclaimed by the Reaper, or never attached.
func (b *Binder) WithLease(id uuid.UUID, fn func(Lease) Lease) error {
	b.mu.Lock()
	lease, ok := b.leases[id]
	if ok {
		delete(b.leases, id)
	}
	b.mu.Unlock()

	if !ok {
		return model.ErrLeaseNotFound
	}

	updated := fn(lease)

	b.mu.Lock()
	b.leases[id] = updated
	b.mu.Unlock()
	return nil
}

// Reclaim removes and returns the Lease for id if it is still waiting on
// the firing identified by version, used by the Reaper on timer expiry.
// ok is false if the id was already reclaimed, is currently checked out
// by WithLease, or — critically — has since been renewed to a later
// timer generation than version: a Reset that raced a timer firing
// already in flight leaves the firing undeliverable, and this check is
// what makes that firing inert instead of reclaiming a live lease
// (§4.4, §4.6).
func (b *Binder) Reclaim(id uuid.UUID, version uint64) (lease Lease, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lease, ok = b.leases[id]
	if !ok {
		return Lease{}, false
	}
	if lease.Timer.Version() != version {
		return Lease{}, false
	}
	delete(b.leases, id)
	return lease, true
}

// Active reports the number of leases currently held in the map — used
// by pool-accounting property tests (P1: available + active <= max_size).
func (b *Binder) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.leases)
}
