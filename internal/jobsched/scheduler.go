package jobsched

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/simplelock"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxGroups is the slot table size used when Options.MaxGroups is not set.
const DefaultMaxGroups = 64

// noPriority marks the priority hint as unset.
const noPriority = -1

// Options configures a Scheduler.
type Options struct {
	// Threads is the number of worker threads. Zero or less means runtime.NumCPU().
	Threads int
	// MaxGroups is the number of group slots, i.e. the maximum number of
	// concurrently open groups. Zero or less means DefaultMaxGroups.
	MaxGroups int
	// StartProcessor pins worker i to CPU (StartProcessor+i) % NumCPU where the
	// platform supports it. A negative value disables pinning.
	StartProcessor int
}

// Stats is a point-in-time snapshot of scheduler activity.
type Stats struct {
	Threads       int    `json:"threads"`
	MaxGroups     int    `json:"max_groups"`
	LiveGroups    int    `json:"live_groups"`
	IdleWorkers   int    `json:"idle_workers"`
	GroupsBegun   uint64 `json:"groups_begun"`
	JobsSubmitted uint64 `json:"jobs_submitted"`
	JobsExecuted  uint64 `json:"jobs_executed"`
}

// Scheduler owns a fixed pool of worker threads and a fixed table of group slots.
// It is safe for concurrent use by any number of producers, each submitting
// only into the groups it opened.
type Scheduler struct {
	logger  *slog.Logger
	threads int
	groups  []group

	// freeLock guards free, the stack of slot indices available to BeginGroup.
	freeLock *simplelock.SimpleLock
	free     []uint32

	// idleLock orders transitions into the idle state against wakes and shutdown.
	idleLock  *simplelock.SimpleLock
	idleCount atomic.Int32
	wake      *simplelock.Semaphore

	priority atomic.Int32
	quit     atomic.Bool

	workers   errgroup.Group
	closeOnce sync.Once
	closeErr  error

	groupsBegun   atomic.Uint64
	jobsSubmitted atomic.Uint64
	jobsExecuted  atomic.Uint64
}

// New starts a scheduler with the given options. The logger is taken from ctx.
func New(ctx context.Context, opts Options) (*Scheduler, error) {
	logger := ctxlog.Component(ctx, "jobsched")

	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	if opts.MaxGroups > math.MaxInt32 {
		return nil, &UsageError{Op: "New", Err: ErrInvalidGroupSize}
	}

	s := &Scheduler{
		logger:   logger,
		threads:  opts.Threads,
		groups:   make([]group, opts.MaxGroups),
		freeLock: simplelock.New(),
		free:     make([]uint32, 0, opts.MaxGroups),
		idleLock: simplelock.New(),
		wake:     simplelock.NewSemaphore(),
	}
	s.priority.Store(noPriority)
	// Lowest indices on top of the stack so early groups use early slots.
	for i := opts.MaxGroups - 1; i >= 0; i-- {
		s.groups[i].init(uint32(i))
		s.free = append(s.free, uint32(i))
	}

	logger.Debug("Starting worker threads.", "threads", opts.Threads, "maxGroups", opts.MaxGroups, "startProcessor", opts.StartProcessor)
	for i := 0; i < opts.Threads; i++ {
		w := &worker{s: s, id: i, cursor: i % opts.MaxGroups, cpu: -1}
		if opts.StartProcessor >= 0 {
			w.cpu = (opts.StartProcessor + i) % runtime.NumCPU()
		}
		s.workers.Go(w.loop)
	}
	logger.Info("Job scheduler started.", "threads", opts.Threads, "maxGroups", opts.MaxGroups)
	return s, nil
}

// ThreadCount returns the configured number of worker threads.
func (s *Scheduler) ThreadCount() int {
	return s.threads
}

// MaxGroups returns the size of the group slot table.
func (s *Scheduler) MaxGroups() int {
	return len(s.groups)
}

// BeginGroup reserves a free slot for a group of at most maxJobs jobs and
// makes the caller its producer. It never blocks. It panics with
// ErrSchedulerCapacityExceeded when every slot holds an open group.
func (s *Scheduler) BeginGroup(maxJobs int) GroupID {
	if s.quit.Load() {
		fatal("BeginGroup", GroupID{}, ErrSchedulerClosed)
	}
	if maxJobs <= 0 || uint64(maxJobs) > math.MaxUint32 {
		fatal("BeginGroup", GroupID{}, ErrInvalidGroupSize)
	}

	s.freeLock.Lock()
	n := len(s.free)
	if n == 0 {
		s.freeLock.Unlock()
		fatal("BeginGroup", GroupID{}, ErrSchedulerCapacityExceeded)
	}
	index := s.free[n-1]
	s.free = s.free[:n-1]
	s.freeLock.Unlock()

	g := &s.groups[index]
	gen := g.generation() + 1
	if gen == 0 {
		gen = 1
	}
	g.reset(gen, uint32(maxJobs))
	s.groupsBegun.Add(1)
	return GroupID{slot: index, gen: gen}
}

// SubmitJob enqueues fn(data) into the group. If result is non-nil the return
// value of fn is stored into it before the job counts as finished. It returns
// false, without enqueueing, when the group already holds maxJobs jobs.
func (s *Scheduler) SubmitJob(id GroupID, fn JobFunc, data any, result *any) bool {
	return s.Submit(id, Job{Fn: fn, Data: data, Result: result})
}

// Submit is SubmitJob taking a Job value.
func (s *Scheduler) Submit(id GroupID, job Job) bool {
	if job.Fn == nil {
		fatal("SubmitJob", id, ErrNilJob)
	}
	if s.quit.Load() {
		fatal("SubmitJob", id, ErrSchedulerClosed)
	}
	g := s.liveGroup("SubmitJob", id)
	if !g.submitting.CompareAndSwap(false, true) {
		fatal("SubmitJob", id, ErrAffinityViolation)
	}

	p := g.published.Load()
	_, n := unpack(p)
	if n >= g.capacity {
		g.submitting.Store(false)
		return false
	}
	g.jobs[n] = job
	g.remaining.Add(1)
	g.published.Store(p + 1)
	g.submitting.Store(false)

	s.jobsSubmitted.Add(1)
	s.awakeIdleWorkers()
	return true
}

// TrySubmit is Submit reporting a full group as ErrCapacityExceeded.
func (s *Scheduler) TrySubmit(id GroupID, job Job) error {
	if !s.Submit(id, job) {
		return &UsageError{Op: "SubmitJob", Group: id, Err: ErrCapacityExceeded}
	}
	return nil
}

// WaitForGroup blocks until every job submitted to the group has finished,
// then releases the group's slot. While waiting, the calling goroutine runs
// jobs of this group that no worker has claimed yet, and workers prefer this
// group over others. Any number of goroutines may wait on the same group.
//
// Waiting again on an id that was already waited for returns immediately as
// long as its slot has not been reused. Waiting on a reused slot panics with
// ErrStaleGroup.
func (s *Scheduler) WaitForGroup(id GroupID) {
	g := s.issuedGroup("WaitForGroup", id)

	g.waiters.Add(1)
	defer g.waiters.Add(-1)
	// Loaded before the live check: once the lifetime is seen open, the next
	// reset leaves this semaphore alone.
	done := g.done.Load()
	if !g.liveAt(id.gen) {
		return
	}

	if g.remaining.Load() != 0 {
		g.waitedOn.Store(true)
		s.priority.Store(int32(id.slot))

		for g.tryRunGen(id.gen, &s.jobsExecuted) {
		}
		for g.liveAt(id.gen) && g.remaining.Load() != 0 {
			done.Acquire()
		}
		s.priority.CompareAndSwap(int32(id.slot), noPriority)
	}
	s.release(g, id.gen)
	// Pass the wake on to other goroutines waiting on this lifetime. One that
	// enters after the release sees the lifetime closed and never parks.
	if g.waiters.Load() > 1 {
		done.Release(1)
	}
}

// IsGroupFinished reports, without blocking, whether every job submitted to
// the group so far has finished. A group whose slot was reused is finished.
func (s *Scheduler) IsGroupFinished(id GroupID) bool {
	if int(id.slot) >= len(s.groups) || id.IsZero() {
		fatal("IsGroupFinished", id, ErrStaleGroup)
	}
	g := &s.groups[id.slot]
	if g.generation() != id.gen {
		return true
	}
	return g.remaining.Load() == 0
}

// Stats returns a snapshot of scheduler counters.
func (s *Scheduler) Stats() Stats {
	live := 0
	for i := range s.groups {
		if s.groups[i].isLive() {
			live++
		}
	}
	return Stats{
		Threads:       s.threads,
		MaxGroups:     len(s.groups),
		LiveGroups:    live,
		IdleWorkers:   int(s.idleCount.Load()),
		GroupsBegun:   s.groupsBegun.Load(),
		JobsSubmitted: s.jobsSubmitted.Load(),
		JobsExecuted:  s.jobsExecuted.Load(),
	}
}

// Close stops the scheduler: workers finish every job already submitted, then
// exit and are joined. It is safe to call more than once.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Debug("Stopping worker threads.")
		s.idleLock.Lock()
		s.quit.Store(true)
		n := s.idleCount.Swap(0)
		s.idleLock.Unlock()
		s.wake.Release(int(n))

		s.closeErr = s.workers.Wait()
		st := s.Stats()
		s.logger.Info("Job scheduler stopped.", "groupsBegun", st.GroupsBegun, "jobsExecuted", st.JobsExecuted)
	})
	return s.closeErr
}

// issuedGroup resolves id to its slot, panicking if the slot has moved on to
// another generation.
func (s *Scheduler) issuedGroup(op string, id GroupID) *group {
	if int(id.slot) >= len(s.groups) || id.IsZero() {
		fatal(op, id, ErrStaleGroup)
	}
	g := &s.groups[id.slot]
	if g.generation() != id.gen {
		fatal(op, id, ErrStaleGroup)
	}
	return g
}

// liveGroup is issuedGroup that also rejects groups already waited for.
func (s *Scheduler) liveGroup(op string, id GroupID) *group {
	g := s.issuedGroup(op, id)
	if !g.liveAt(id.gen) {
		fatal(op, id, ErrStaleGroup)
	}
	return g
}

// release returns a finished slot to the free stack exactly once per lifetime.
func (s *Scheduler) release(g *group, gen uint32) {
	if !g.release(gen) {
		return
	}
	g.clearJobs()
	s.freeLock.Lock()
	s.free = append(s.free, g.index)
	s.freeLock.Unlock()
}

// awakeIdleWorkers wakes exactly one idle worker, if there is any.
func (s *Scheduler) awakeIdleWorkers() {
	if s.idleCount.Load() == 0 {
		return
	}
	s.idleLock.Lock()
	if s.idleCount.Load() > 0 {
		s.idleCount.Add(-1)
		s.idleLock.Unlock()
		s.wake.Release(1)
		return
	}
	s.idleLock.Unlock()
}

// hasWork reports whether any slot holds an unclaimed job.
func (s *Scheduler) hasWork() bool {
	for i := range s.groups {
		if s.groups[i].pending() {
			return true
		}
	}
	return false
}
