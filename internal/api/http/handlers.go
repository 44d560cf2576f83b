// Package http implements RequestHandlers (C7): the three endpoint
// handlers composing the Dataset, WorkerPools, TimerQueues and
// SessionBinders built at bootstrap (§4.7).
package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/royludo/fuzzytaxosearch/internal/api/session"
	"github.com/royludo/fuzzytaxosearch/internal/dataset"
	"github.com/royludo/fuzzytaxosearch/internal/ecosystem"
	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/pool"
)

// matcherRecord is the wire shape of a matched Record: `{"string":...,
// "data":...}` (§6 Record JSON).
type matcherRecord struct {
	String string          `json:"string"`
	Data   json.RawMessage `json:"data"`
}

// Handlers holds every collaborator the three endpoints need: the
// immutable dataset, the two independent pool/timer/binder ecosystems,
// and the session-cookie store.
type Handlers struct {
	dataset        *dataset.Dataset
	autocomplete   *ecosystem.Ecosystem
	generalPurpose *ecosystem.Ecosystem
	sessions       *session.Store
	engineTTL      time.Duration
	acquireTimeout time.Duration
}

// New builds a Handlers. acquireTimeout of 0 means Acquire suspends
// indefinitely (§7 PoolExhaustion's documented deviation only applies
// when this is set > 0).
func New(ds *dataset.Dataset, autocomplete, generalPurpose *ecosystem.Ecosystem, sessions *session.Store, engineTTL, acquireTimeout time.Duration) *Handlers {
	return &Handlers{
		dataset:        ds,
		autocomplete:   autocomplete,
		generalPurpose: generalPurpose,
		sessions:       sessions,
		engineTTL:      engineTTL,
		acquireTimeout: acquireTimeout,
	}
}

// acquireFrom applies h.acquireTimeout (if set) to ctx before acquiring
// from p — the single PoolExhaustion (§7) chokepoint both the
// autocomplete and batch-fuzzy handlers share.
func (h *Handlers) acquireFrom(ctx context.Context, p *pool.Pool) (*matcher.Matcher, error) {
	if h.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.acquireTimeout)
		defer cancel()
	}
	return p.Acquire(ctx)
}
