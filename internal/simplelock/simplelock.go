package simplelock

import "sync/atomic"

// SimpleLock is a mutual-exclusion lock with an atomic fast path.
//
// count holds the number of goroutines that own or want the lock. Lock
// increments it and only parks on the semaphore when the result shows another
// holder. Unlock decrements it and posts exactly one token when waiters remain.
type SimpleLock struct {
	count atomic.Int32
	sem   *Semaphore
}

// New returns an unlocked SimpleLock.
func New() *SimpleLock {
	return &SimpleLock{sem: NewSemaphore()}
}

// Lock acquires the lock, blocking (not spinning) under contention.
func (l *SimpleLock) Lock() {
	if l.count.Add(1) > 1 {
		l.sem.Acquire()
	}
}

// TryLock acquires the lock only if nobody holds or waits for it.
func (l *SimpleLock) TryLock() bool {
	return l.count.CompareAndSwap(0, 1)
}

// Unlock releases the lock and hands it to one waiter, if any.
func (l *SimpleLock) Unlock() {
	n := l.count.Add(-1)
	switch {
	case n < 0:
		panic("simplelock: unlock of unlocked SimpleLock")
	case n > 0:
		l.sem.Release(1)
	}
}
