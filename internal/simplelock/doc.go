// Package simplelock provides the two low-level blocking primitives used by the
// job scheduler: a counting Semaphore used to park and wake goroutines, and a
// SimpleLock that costs a single atomic add when uncontended and only falls
// back to the semaphore when another goroutine already holds it.
package simplelock
