package model

import "errors"

var (
	// ErrValidation marks a request rejected for bad input (§7 InputValidation).
	ErrValidation = errors.New("validation error")
	// ErrPoolExhausted marks a worker pool that could not serve a request
	// before its acquire deadline elapsed (§7 PoolExhaustion).
	ErrPoolExhausted = errors.New("worker pool exhausted")
	// ErrDoubleRelease marks a Matcher released to a pool it was not leased from.
	ErrDoubleRelease = errors.New("double release of pooled worker")
	// ErrLeaseNotFound marks a session id with no corresponding Lease — either
	// it was never attached or the Reaper already reclaimed it (§7 SessionDesync).
	ErrLeaseNotFound = errors.New("no lease for session")
)
