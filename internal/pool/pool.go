// Package pool implements the bounded, pre-warmed WorkerPool (C3): a
// fixed-capacity reservoir of fuzzy-match workers with non-blocking and
// blocking acquire, FIFO fairness among waiters, and release with
// double-release detection.
package pool

import (
	"context"
	"sync"

	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/model"
)

// Factory builds a fresh Matcher for lazy pool growth.
type Factory func() *matcher.Matcher

// Pool is a bounded reservoir of Matchers. The zero value is not usable;
// construct with New.
type Pool struct {
	ready   chan *matcher.Matcher
	factory Factory

	mu      sync.Mutex
	created int
	leased  map[*matcher.Matcher]bool
	maxSize int
}

// New constructs a Pool, synchronously pre-warming minSize Matchers
// (§4.3). Remaining capacity up to maxSize is created lazily on first
// Acquire that would otherwise suspend.
func New(maxSize, minSize int, factory Factory) *Pool {
	p := &Pool{
		ready:   make(chan *matcher.Matcher, maxSize),
		factory: factory,
		leased:  make(map[*matcher.Matcher]bool),
		maxSize: maxSize,
	}
	for i := 0; i < minSize; i++ {
		p.ready <- factory()
	}
	p.created = minSize
	return p
}

// TryAcquire is the non-suspending variant of Acquire: it returns ok=false
// immediately if no Matcher is available and the pool is already at
// capacity.
func (p *Pool) TryAcquire() (m *matcher.Matcher, ok bool) {
	select {
	case m = <-p.ready:
		p.markLeased(m)
		return m, true
	default:
	}

	if created := p.growIfRoom(); created != nil {
		p.markLeased(created)
		return created, true
	}
	return nil, false
}

// Acquire suspends until a Matcher is available, never creating beyond
// maxSize. Waiters are served in FIFO order because that is the order
// channel receives are serviced in (§4.3 Fairness). ctx cancellation
// surfaces as ctx.Err() — callers map this to §7's PoolExhaustion.
func (p *Pool) Acquire(ctx context.Context) (*matcher.Matcher, error) {
	if m, ok := p.TryAcquire(); ok {
		return m, nil
	}

	select {
	case m := <-p.ready:
		p.markLeased(m)
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// growIfRoom creates one more Matcher if the pool has not reached maxSize,
// returning nil if it is already at capacity.
func (p *Pool) growIfRoom() *matcher.Matcher {
	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return nil
	}
	p.created++
	p.mu.Unlock()
	return p.factory()
}

func (p *Pool) markLeased(m *matcher.Matcher) {
	p.mu.Lock()
	p.leased[m] = true
	p.mu.Unlock()
}

// Release returns a Matcher to the reservoir. Releasing a Matcher that was
// not currently leased from this pool is a usage bug; Release reports it
// via model.ErrDoubleRelease rather than corrupting pool state (§4.3).
func (p *Pool) Release(m *matcher.Matcher) error {
	p.mu.Lock()
	if !p.leased[m] {
		p.mu.Unlock()
		return model.ErrDoubleRelease
	}
	delete(p.leased, m)
	p.mu.Unlock()

	p.ready <- m
	return nil
}

// Status reports observability counters (§4.3).
type Status struct {
	Available int
	InUse     int
	Capacity  int
}

func (p *Pool) Status() Status {
	p.mu.Lock()
	inUse := len(p.leased)
	capacity := p.maxSize
	p.mu.Unlock()
	return Status{
		Available: len(p.ready),
		InUse:     inUse,
		Capacity:  capacity,
	}
}
