package jobsched

import (
	"sync/atomic"

	"github.com/vk/jobgridgo/internal/simplelock"
)

// pack combines a generation and a counter into one word so a single CAS can
// check both. A worker holding a value read under generation g can never
// claim an index that belongs to generation g+1.
func pack(gen, n uint32) uint64 {
	return uint64(gen)<<32 | uint64(n)
}

func unpack(v uint64) (gen, n uint32) {
	return uint32(v >> 32), uint32(v)
}

// group is one physical slot of the scheduler's group table.
type group struct {
	index uint32

	// jobs is the arena for the current generation. It is only grown, never
	// shrunk, so steady-state submission does not allocate.
	jobs     []Job
	capacity uint32

	// state is gen<<32 | 1 while the lifetime gen is open, gen<<32 once it
	// has been released. Release is a CAS on the full word.
	state atomic.Uint64
	// published is gen<<32 | submitted count. Only the owning producer stores it.
	published atomic.Uint64
	// claimed is gen<<32 | next index a worker may take.
	claimed   atomic.Uint64
	remaining atomic.Int64

	waitedOn   atomic.Bool
	submitting atomic.Bool

	// waiters counts goroutines inside WaitForGroup for this slot, of any
	// generation.
	waiters atomic.Int32
	// done is posted when remaining reaches zero while a waiter is parked.
	// A waiter keeps the semaphore it loaded for the whole wait.
	done atomic.Pointer[simplelock.Semaphore]
}

func (g *group) init(index uint32) {
	g.index = index
	g.done.Store(simplelock.NewSemaphore())
}

const liveBit = 1

// generation returns the generation of the slot's current or last lifetime.
func (g *group) generation() uint32 {
	gen, _ := unpack(g.state.Load())
	return gen
}

// isLive reports whether the slot holds an open lifetime of any generation.
func (g *group) isLive() bool {
	return g.state.Load()&liveBit != 0
}

// liveAt reports whether lifetime gen is still open.
func (g *group) liveAt(gen uint32) bool {
	return g.state.Load() == pack(gen, liveBit)
}

// release closes lifetime gen. It reports false if gen was already closed.
func (g *group) release(gen uint32) bool {
	return g.state.CompareAndSwap(pack(gen, liveBit), pack(gen, 0))
}

// reset prepares the slot for a new lifetime. The caller owns the slot: it
// came off the free stack, so no unclaimed job refers to it. Waiters of the
// previous lifetime may still be parked on done; they get to keep it.
func (g *group) reset(gen, capacity uint32) {
	if uint32(cap(g.jobs)) < capacity {
		g.jobs = make([]Job, capacity)
	} else {
		g.jobs = g.jobs[:capacity]
	}
	g.capacity = capacity
	g.remaining.Store(0)
	g.waitedOn.Store(false)
	g.submitting.Store(false)
	if g.waiters.Load() == 0 {
		g.done.Load().Drain()
	} else {
		g.done.Store(simplelock.NewSemaphore())
	}

	g.claimed.Store(pack(gen, 0))
	g.published.Store(pack(gen, 0))
	g.state.Store(pack(gen, liveBit))
}

// submitted returns the number of jobs published in the current generation.
func (g *group) submitted() uint32 {
	_, n := unpack(g.published.Load())
	return n
}

// pending reports whether the slot has a published job nobody has claimed.
func (g *group) pending() bool {
	pg, pn := unpack(g.published.Load())
	cg, cn := unpack(g.claimed.Load())
	return pg == cg && cn < pn
}

// tryRun claims one unclaimed job of the current generation and runs it on
// the calling goroutine. It returns false if there was nothing to claim.
// executed is bumped before the job counts as finished.
func (g *group) tryRun(executed *atomic.Uint64) bool {
	return g.tryRunGen(0, executed)
}

// tryRunGen is tryRun restricted to generation gen. Zero means any.
func (g *group) tryRunGen(gen uint32, executed *atomic.Uint64) bool {
	for {
		// published is read before claimed: a claimed word of the same
		// generation is then at least as new as the published count.
		p := g.published.Load()
		c := g.claimed.Load()
		pg, pn := unpack(p)
		cg, cn := unpack(c)
		if pg != cg || cn >= pn || (gen != 0 && pg != gen) {
			return false
		}
		if g.claimed.CompareAndSwap(c, c+1) {
			g.execute(cn, executed)
			return true
		}
	}
}

func (g *group) execute(i uint32, executed *atomic.Uint64) {
	job := g.jobs[i]
	job.run()
	executed.Add(1)
	if g.remaining.Add(-1) == 0 && g.waitedOn.Load() {
		g.done.Load().Release(1)
	}
}

// clearJobs drops the payload references of a finished lifetime.
func (g *group) clearJobs() {
	clear(g.jobs[:g.submitted()])
}
