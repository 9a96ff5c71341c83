// Package locking provides a striped mutual-exclusion pool keyed by string.
// A key always maps to the same stripe, so two critical sections for the same
// key never run concurrently, while keys on different stripes proceed in
// parallel. Distinct keys may share a stripe and then serialize against each
// other; that costs throughput, never correctness.
package locking

import (
	"context"
	"hash/fnv"
)

// DefaultStripes is the stripe count used when none is configured.
const DefaultStripes = 32

// Striped is a fixed pool of binary semaphores. Build it once at startup and
// inject it; it is never resized.
type Striped struct {
	stripes []chan struct{}
}

// NewStriped builds a pool with n stripes. Non-positive n falls back to
// DefaultStripes.
func NewStriped(n int) *Striped {
	if n <= 0 {
		n = DefaultStripes
	}
	stripes := make([]chan struct{}, n)
	for i := range stripes {
		stripes[i] = make(chan struct{}, 1)
	}
	return &Striped{stripes: stripes}
}

// Len returns the stripe count.
func (s *Striped) Len() int {
	return len(s.stripes)
}

// Do runs fn with the stripe for key held. The stripe is released on every
// exit path and fn's error is returned unchanged. Acquisition blocks until
// the stripe is free or ctx is done, which is the bounded-wait escape hatch;
// with a background context the wait is unbounded.
//
// fn must not call Do again for a key on the same stripe: the stripe is not
// reentrant and the nested acquire would deadlock.
func (s *Striped) Do(ctx context.Context, key string, fn func() error) error {
	stripe := s.stripes[s.index(key)]
	select {
	case stripe <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-stripe }()
	return fn()
}

func (s *Striped) index(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.stripes)))
}
