package jobsched

import (
	"fmt"
	"sync/atomic"

	"github.com/vk/jobgridgo/internal/simplelock"
)

// Recycler hands out a bounded ring of group handles on top of a Scheduler.
// Opening a handle whose previous occupant is still running first waits for
// that occupant, so a producer can open groups without tracking how many are
// in flight: once the ring is full it is throttled by the oldest group.
//
// Handles are keyed by an owner identity chosen by the caller. Operations with
// an owner that no longer holds the handle are rejected (SubmitJob) or treated
// as already satisfied (WaitForGroup).
type Recycler[O comparable] struct {
	s     *Scheduler
	next  atomic.Uint32
	slots []recycledGroup[O]
}

type recycledGroup[O comparable] struct {
	lock     *simplelock.SimpleLock
	owner    O
	occupied bool
	id       GroupID
}

// NewRecycler returns a ring of maxGroups handles. maxGroups must not exceed
// the scheduler's slot table.
func NewRecycler[O comparable](s *Scheduler, maxGroups int) *Recycler[O] {
	if maxGroups <= 0 || maxGroups > s.MaxGroups() {
		panic(fmt.Sprintf("jobsched: recycler size %d outside 1..%d", maxGroups, s.MaxGroups()))
	}
	r := &Recycler[O]{s: s, slots: make([]recycledGroup[O], maxGroups)}
	for i := range r.slots {
		r.slots[i].lock = simplelock.New()
	}
	return r
}

// Size returns the number of handles in the ring.
func (r *Recycler[O]) Size() int {
	return len(r.slots)
}

// BeginGroup opens a group of at most maxJobs jobs for owner on the next
// handle of the ring and returns the handle's index. If the handle is still
// occupied, it first waits for the previous occupant's group to drain.
func (r *Recycler[O]) BeginGroup(owner O, maxJobs int) int {
	slot := int((r.next.Add(1) - 1) % uint32(len(r.slots)))
	rg := &r.slots[slot]

	rg.lock.Lock()
	defer rg.lock.Unlock()
	if rg.occupied {
		r.s.WaitForGroup(rg.id)
		rg.occupied = false
	}
	rg.id = r.s.BeginGroup(maxJobs)
	rg.owner = owner
	rg.occupied = true
	return slot
}

// SubmitJob forwards to Scheduler.SubmitJob for the group on the handle.
// It panics with ErrAffinityViolation if owner does not hold the handle.
func (r *Recycler[O]) SubmitJob(owner O, slot int, fn JobFunc, data any, result *any) bool {
	id, ok := r.groupOf(owner, slot)
	if !ok {
		fatal("Recycler.SubmitJob", id, ErrAffinityViolation)
	}
	return r.s.SubmitJob(id, fn, data, result)
}

// WaitForGroup waits for owner's group on the handle and frees the handle. If
// owner no longer holds it, someone already waited it out and this is a no-op.
func (r *Recycler[O]) WaitForGroup(owner O, slot int) {
	rg := r.slot(slot)
	rg.lock.Lock()
	defer rg.lock.Unlock()
	if !rg.occupied || rg.owner != owner {
		return
	}
	r.s.WaitForGroup(rg.id)
	var zero O
	rg.owner = zero
	rg.occupied = false
}

// IsGroupFinished reports whether owner's group on the handle has finished.
// A handle owner no longer holds is finished.
func (r *Recycler[O]) IsGroupFinished(owner O, slot int) bool {
	id, ok := r.groupOf(owner, slot)
	if !ok {
		return true
	}
	return r.s.IsGroupFinished(id)
}

func (r *Recycler[O]) groupOf(owner O, slot int) (GroupID, bool) {
	rg := r.slot(slot)
	rg.lock.Lock()
	defer rg.lock.Unlock()
	if !rg.occupied || rg.owner != owner {
		return rg.id, false
	}
	return rg.id, true
}

func (r *Recycler[O]) slot(slot int) *recycledGroup[O] {
	if slot < 0 || slot >= len(r.slots) {
		panic(fmt.Sprintf("jobsched: recycler slot %d outside 0..%d", slot, len(r.slots)-1))
	}
	return &r.slots[slot]
}
