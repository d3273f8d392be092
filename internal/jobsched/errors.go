package jobsched

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded reports a submit into a group that already holds the
	// number of jobs it was opened with.
	ErrCapacityExceeded = errors.New("group job capacity exceeded")
	// ErrAffinityViolation reports a submit that overlapped another submit into
	// the same group, or a Recycler submit by an owner that does not hold the slot.
	ErrAffinityViolation = errors.New("group submitted to by a non-owning producer")
	// ErrStaleGroup reports use of a GroupID whose slot was recycled or never issued.
	ErrStaleGroup = errors.New("stale group id")
	// ErrSchedulerCapacityExceeded reports BeginGroup with every slot in use.
	ErrSchedulerCapacityExceeded = errors.New("no free group slot")
	// ErrInvalidGroupSize reports BeginGroup with a non-positive or oversized job count.
	ErrInvalidGroupSize = errors.New("invalid group size")
	// ErrNilJob reports a submit without a job function.
	ErrNilJob = errors.New("nil job function")
	// ErrSchedulerClosed reports use of a scheduler after Close.
	ErrSchedulerClosed = errors.New("scheduler closed")
)

// UsageError is the panic value for scheduler misuse.
type UsageError struct {
	Op    string
	Group GroupID
	Err   error
}

func (e *UsageError) Error() string {
	if e.Group.IsZero() {
		return fmt.Sprintf("jobsched: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("jobsched: %s %s: %v", e.Op, e.Group, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func fatal(op string, id GroupID, err error) {
	panic(&UsageError{Op: op, Group: id, Err: err})
}
