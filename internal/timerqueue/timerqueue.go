// Package timerqueue implements the TTL reaper's priority timer queue (C4):
// a monotonic-deadline min-heap that emits expiration events, with a
// reset/cancel contract that is atomic with respect to receive (§4.4).
//
// All heap mutation and deadline-firing happen on a single owning
// goroutine reached only through the command channel, which is the
// classic Go way to serialize access to a container/heap without a mutex
// — the same "one goroutine owns the data" shape the rest of this
// service's teacher-provided idioms favor for shared mutable state.
//
// A firing already sitting in the buffered output channel cannot be
// un-sent by a later Reset, so every firing carries the version it fired
// at; a holder of a newer Handle for the same id can recognize and
// discard it instead of acting on a stale expiration.
package timerqueue

import (
	"container/heap"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle is an opaque token for a pending TimerEntry. Handles returned to
// callers are not aliases of the internal entry (§3): resetting a Handle
// does not mutate anything the caller holds, it just re-schedules by id.
// version identifies which scheduling generation this handle belongs to,
// so a holder can tell a fresh reschedule apart from one that already
// fired (§4.4).
type Handle struct {
	id      uuid.UUID
	version uint64
	q       *Queue
}

// Reset cancels the pending firing for this handle's id and schedules a
// fresh one after newDelay, returning the handle for the new firing. The
// receiver handle becomes stale; callers should use the returned value
// (§4.4).
func (h Handle) Reset(newDelay time.Duration) Handle {
	return h.q.reset(h.id, newDelay)
}

// Version reports this handle's scheduling generation. A Receive result
// is only a live firing for a Lease if its version matches the version
// of the Handle the Lease currently holds — anything older already lost
// the race to a Reset (§4.4, §4.5).
func (h Handle) Version() uint64 {
	return h.version
}

// entry is a single pending expiration. index is maintained by entryHeap's
// Swap so heap.Remove can find an arbitrary entry in O(log n).
type entry struct {
	id       uuid.UUID
	version  uint64
	deadline time.Time
	index    int
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

type command struct {
	id    uuid.UUID
	delay time.Duration
	resp  chan Handle
}

// firedEvent is what the dispatcher emits when an entry's deadline
// elapses; version pins it to the scheduling generation that expired, so
// a receiver can recognize a firing made stale by a later Reset.
type firedEvent struct {
	id      uuid.UUID
	version uint64
}

// Queue is a monotonic-deadline priority timer queue (§4.4). Construct
// with New; it owns a background goroutine until Close is called.
type Queue struct {
	cmds chan command
	out  chan firedEvent
	done chan struct{}
	once sync.Once
}

// New starts a Queue's background dispatcher. outBuffer sizes the
// expiration channel; this service always pairs a Queue with one Reaper
// goroutine draining it continuously, so a small buffer is enough to
// absorb bursts without the dispatcher blocking on send.
func New(outBuffer int) *Queue {
	q := &Queue{
		cmds: make(chan command),
		out:  make(chan firedEvent, outBuffer),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Insert schedules id to fire after delay and returns its handle (§4.4).
func (q *Queue) Insert(id uuid.UUID, delay time.Duration) Handle {
	resp := make(chan Handle, 1)
	select {
	case q.cmds <- command{id: id, delay: delay, resp: resp}:
	case <-q.done:
		return Handle{id: id, q: q}
	}
	select {
	case h := <-resp:
		return h
	case <-q.done:
		return Handle{id: id, q: q}
	}
}

func (q *Queue) reset(id uuid.UUID, delay time.Duration) Handle {
	return q.Insert(id, delay)
}

// Receive suspends until the earliest pending entry's deadline elapses,
// then yields its id and the scheduling generation that fired. ok is
// false once the queue has been closed and drained (§4.4's end-of-stream).
func (q *Queue) Receive() (id uuid.UUID, version uint64, ok bool) {
	fired, ok := <-q.out
	return fired.id, fired.version, ok
}

// Close stops the dispatcher; subsequent Receive calls drain any entries
// already in flight and then return ok=false.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

func (q *Queue) run() {
	h := &entryHeap{}
	heap.Init(h)
	index := make(map[uuid.UUID]*entry)
	// versions never shrinks: an id's generation counter must survive its
	// entry firing and being removed from index, so a firedEvent sent
	// before a later reset can still be recognized as stale (§4.4).
	versions := make(map[uuid.UUID]uint64)

	defer close(q.out)

	for {
		var timerC <-chan time.Time
		var timer *time.Timer
		if h.Len() > 0 {
			d := time.Until((*h)[0].deadline)
			if d < 0 {
				d = 0
			}
			timer = time.NewTimer(d)
			timerC = timer.C
		}

		select {
		case cmd := <-q.cmds:
			if timer != nil {
				timer.Stop()
			}
			if old, exists := index[cmd.id]; exists {
				heap.Remove(h, old.index)
			}
			versions[cmd.id]++
			v := versions[cmd.id]
			e := &entry{id: cmd.id, version: v, deadline: time.Now().Add(cmd.delay)}
			heap.Push(h, e)
			index[cmd.id] = e
			select {
			case cmd.resp <- Handle{id: cmd.id, version: v, q: q}:
			case <-q.done:
				return
			}

		case <-timerC:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].deadline.After(now) {
				e := heap.Pop(h).(*entry)
				delete(index, e.id)
				select {
				case q.out <- firedEvent{id: e.id, version: e.version}:
				case <-q.done:
					return
				}
			}

		case <-q.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
