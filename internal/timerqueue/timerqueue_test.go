package timerqueue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiresInDeadlineOrder(t *testing.T) {
	q := New(8)
	defer q.Close()

	late := uuid.New()
	early := uuid.New()
	mid := uuid.New()

	q.Insert(late, 60*time.Millisecond)
	q.Insert(early, 10*time.Millisecond)
	q.Insert(mid, 30*time.Millisecond)

	var order []uuid.UUID
	for i := 0; i < 3; i++ {
		id, _, ok := q.Receive()
		require.True(t, ok)
		order = append(order, id)
	}

	assert.Equal(t, []uuid.UUID{early, mid, late}, order)
}

func TestResetReschedulesWithoutStaleFiring(t *testing.T) {
	q := New(8)
	defer q.Close()

	id := uuid.New()
	h := q.Insert(id, 15*time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	h = h.Reset(60 * time.Millisecond)
	_ = h

	select {
	case fired := <-q.out:
		t.Fatalf("received stale firing for %s before the reset deadline", fired.id)
	case <-time.After(30 * time.Millisecond):
	}

	got, version, ok := q.Receive()
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, h.Version(), version)
}

// TestVersionDistinguishesFiringAfterReset models the race this package
// is built to survive: a deadline elapses and is already queued on out
// before a Reset for the same id is processed. The reset produces a new
// Handle with a higher version than the one that already fired, so a
// holder comparing Receive's version against its current Handle can tell
// the delivered firing is stale (§4.4).
func TestVersionDistinguishesFiringAfterReset(t *testing.T) {
	q := New(8)
	defer q.Close()

	id := uuid.New()
	h := q.Insert(id, 5*time.Millisecond)

	_, version, ok := q.Receive()
	require.True(t, ok)
	assert.Equal(t, h.Version(), version)

	h2 := h.Reset(time.Hour)
	assert.Greater(t, h2.Version(), version, "a reset after the original firing must bump the version")
}

func TestCloseEndsReceive(t *testing.T) {
	q := New(1)
	q.Close()

	_, _, ok := q.Receive()
	assert.False(t, ok)
}

func TestMultipleEntriesIndependentReset(t *testing.T) {
	q := New(8)
	defer q.Close()

	a := uuid.New()
	b := uuid.New()
	q.Insert(a, 10*time.Millisecond)
	hb := q.Insert(b, 10*time.Millisecond)
	hb.Reset(50 * time.Millisecond)

	id, _, ok := q.Receive()
	require.True(t, ok)
	assert.Equal(t, a, id)
}
