package binder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/model"
	"github.com/royludo/fuzzytaxosearch/internal/timerqueue"
)

func newWorker() *matcher.Matcher {
	return matcher.New([]model.Record{{String: "a"}})
}

func TestAttachThenReclaim(t *testing.T) {
	b := New()
	tq := timerqueue.New(4)
	defer tq.Close()

	w := newWorker()
	id := uuid.New()
	h := tq.Insert(id, time.Hour)
	b.AttachNew(id, w, h)
	assert.Equal(t, 1, b.Active())

	lease, ok := b.Reclaim(id, h.Version())
	require.True(t, ok)
	assert.Same(t, w, lease.Worker)
	assert.Equal(t, 0, b.Active())

	_, ok = b.Reclaim(id, h.Version())
	assert.False(t, ok, "reclaiming twice must report absent, not panic")
}

func TestWithLeaseRoundTrip(t *testing.T) {
	b := New()
	tq := timerqueue.New(4)
	defer tq.Close()

	w := newWorker()
	id := uuid.New()
	h := tq.Insert(id, time.Hour)
	b.AttachNew(id, w, h)

	err := b.WithLease(id, func(l Lease) Lease {
		l.Timer = l.Timer.Reset(time.Hour)
		return l
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Active())
}

func TestWithLeaseMissingReturnsNotFound(t *testing.T) {
	b := New()
	err := b.WithLease(uuid.New(), func(l Lease) Lease { return l })
	assert.ErrorIs(t, err, model.ErrLeaseNotFound)
}

// TestReclaimDuringWithLeaseFindsAbsent models the lease-vs-reap race
// from the critical invariant in §4.5: a concurrent Reclaim for an id
// currently checked out by WithLease must observe it missing, never a
// half-used Lease.
func TestReclaimDuringWithLeaseFindsAbsent(t *testing.T) {
	b := New()
	tq := timerqueue.New(4)
	defer tq.Close()

	w := newWorker()
	id := uuid.New()
	h := tq.Insert(id, time.Hour)
	b.AttachNew(id, w, h)

	inFlight := make(chan struct{})
	released := make(chan struct{})
	go func() {
		_ = b.WithLease(id, func(l Lease) Lease {
			close(inFlight)
			<-released
			return l
		})
	}()

	<-inFlight
	_, ok := b.Reclaim(id, h.Version())
	assert.False(t, ok, "reclaim must not observe a lease currently checked out by WithLease")
	close(released)
}

// TestReclaimRejectsStaleVersionAfterRenewal models §4.4's race: a timer
// firing for id is already queued when a concurrent WithLease renews the
// lease to a later timer generation. The Reaper must not reclaim a lease
// that has since moved on to a newer Handle.
func TestReclaimRejectsStaleVersionAfterRenewal(t *testing.T) {
	b := New()
	tq := timerqueue.New(4)
	defer tq.Close()

	w := newWorker()
	id := uuid.New()
	h := tq.Insert(id, time.Hour)
	staleVersion := h.Version()
	b.AttachNew(id, w, h)

	err := b.WithLease(id, func(l Lease) Lease {
		l.Timer = l.Timer.Reset(time.Hour)
		return l
	})
	require.NoError(t, err)

	_, ok := b.Reclaim(id, staleVersion)
	assert.False(t, ok, "a firing from before the renewal must not reclaim the renewed lease")
	assert.Equal(t, 1, b.Active(), "the renewed lease must still be present")
}
