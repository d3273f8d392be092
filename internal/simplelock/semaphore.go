package simplelock

import (
	"context"
	"math"

	"golang.org/x/sync/semaphore"
)

// maxTokens bounds the number of outstanding posts a Semaphore can hold.
const maxTokens = math.MaxInt32

// Semaphore is a counting wake primitive. Release posts tokens and Acquire
// blocks until one is available. It starts with zero tokens.
//
// The underlying weighted semaphore is created fully acquired, so its
// available weight is exactly the number of posted tokens.
type Semaphore struct {
	w *semaphore.Weighted
}

// NewSemaphore returns a semaphore holding no tokens.
func NewSemaphore() *Semaphore {
	w := semaphore.NewWeighted(maxTokens)
	if !w.TryAcquire(maxTokens) {
		panic("simplelock: fresh semaphore could not be drained")
	}
	return &Semaphore{w: w}
}

// Release posts n tokens, waking up to n blocked Acquire calls.
func (s *Semaphore) Release(n int) {
	if n <= 0 {
		return
	}
	s.w.Release(int64(n))
}

// Acquire blocks until a token is available and consumes it.
func (s *Semaphore) Acquire() {
	// A background context never fails the acquire.
	_ = s.w.Acquire(context.Background(), 1)
}

// AcquireContext is Acquire with cancellation. It returns ctx.Err() if the
// context ends before a token is consumed.
func (s *Semaphore) AcquireContext(ctx context.Context) error {
	return s.w.Acquire(ctx, 1)
}

// TryAcquire consumes a token if one is available without blocking.
func (s *Semaphore) TryAcquire() bool {
	return s.w.TryAcquire(1)
}

// Drain consumes every currently available token and returns how many it took.
func (s *Semaphore) Drain() int {
	n := 0
	for s.w.TryAcquire(1) {
		n++
	}
	return n
}
