// Package jobsched implements a fork-join job scheduler: a fixed pool of
// worker goroutines, each locked to its own OS thread, executing short
// data-parallel jobs that are organised into groups.
//
// # Model
//
// A producer opens a group with BeginGroup, which reserves one slot of a fixed
// slot table and returns a GroupID. It then submits up to the group's capacity
// of jobs with SubmitJob and finally blocks in WaitForGroup until every job has
// run. Returning from WaitForGroup establishes a happens-before edge from every
// job body (and its result write) to the waiting goroutine, and returns the slot
// to the free table.
//
//	group := s.BeginGroup(len(chunks))
//	for i := range chunks {
//	    s.SubmitJob(group, transform, &chunks[i], nil)
//	}
//	s.WaitForGroup(group)
//
// # Slots and generations
//
// Every reuse of a slot bumps its generation, and a GroupID carries the
// generation it was issued for. Submitting to or waiting on a GroupID whose
// slot has moved on is a programming error and panics with ErrStaleGroup.
//
// # Error policy
//
// Overflowing a group's capacity is the only recoverable failure and is
// reported by SubmitJob returning false. Every other misuse panics with a
// *UsageError wrapping one of the sentinel errors: stale ids, exhausting the
// slot table, using a closed scheduler, and a submit that overlaps another
// submit into the same group. A second goroutine submitting after the owner's
// submit has returned is not detected; goroutines carry no identity to check.
//
// # Restrictions on job bodies
//
// Jobs run to completion on a worker. They must not block on I/O, must not
// wait on another group and must not submit into their own group.
//
// Recycler wraps a Scheduler with a bounded ring of group handles that waits
// out a slot's previous occupant before reusing it, turning unbounded group
// creation into backpressured reuse.
package jobsched
