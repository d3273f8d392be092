package jobsched

import "runtime"

// worker is the per-thread state of the work loop.
//
// A worker is Searching until it claims a job, Running for exactly one job,
// and Idle while parked on the scheduler's wake semaphore.
type worker struct {
	s  *Scheduler
	id int
	// cursor is the slot where the next scan starts, so workers spread across
	// groups instead of all contending on slot zero.
	cursor int
	// cpu is the processor to pin to, or -1.
	cpu int
}

// loop is the core processing loop for a single worker thread.
func (w *worker) loop() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	logger := w.s.logger.With("workerID", w.id)
	if w.cpu >= 0 {
		if err := pinThread(w.cpu); err != nil {
			logger.Warn("Could not pin worker thread.", "cpu", w.cpu, "error", err)
		} else {
			logger.Debug("Worker thread pinned.", "cpu", w.cpu)
		}
	}
	logger.Debug("Worker started.")

	for {
		if w.runOne() {
			continue
		}
		if !w.park() {
			break
		}
	}
	logger.Debug("Worker finished.")
	return nil
}

// runOne searches for a single job and runs it. The group some goroutine is
// blocked on is tried first.
func (w *worker) runOne() bool {
	s := w.s
	if p := s.priority.Load(); p != noPriority {
		if s.groups[p].tryRun(&s.jobsExecuted) {
			return true
		}
	}
	n := len(s.groups)
	for i := 0; i < n; i++ {
		idx := (w.cursor + i) % n
		if s.groups[idx].tryRun(&s.jobsExecuted) {
			w.cursor = idx
			return true
		}
	}
	return false
}

// park moves the worker to the idle state and blocks until it is woken. It
// returns false when the scheduler is shutting down and the worker should exit.
func (w *worker) park() bool {
	s := w.s

	s.idleLock.Lock()
	if s.quit.Load() {
		s.idleLock.Unlock()
		return false
	}
	s.idleCount.Add(1)
	s.idleLock.Unlock()

	// A job published before idleCount was raised may have skipped the wake.
	if s.hasWork() {
		s.idleLock.Lock()
		if s.idleCount.Load() > 0 {
			s.idleCount.Add(-1)
			s.idleLock.Unlock()
			return true
		}
		// A waker already took our count and posted a token for it.
		s.idleLock.Unlock()
	}

	s.wake.Acquire()
	return true
}
