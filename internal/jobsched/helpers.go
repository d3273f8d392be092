package jobsched

// SubmitFunc submits a typed job. The value returned by fn is stored into out,
// when out is non-nil, before the job counts as finished.
func SubmitFunc[T any](s *Scheduler, id GroupID, fn func() T, out *T) bool {
	return s.SubmitJob(id, func(any) any {
		v := fn()
		if out != nil {
			*out = v
		}
		return nil
	}, nil, nil)
}

// span is the payload of a ParallelFor range job.
type span struct {
	start, end int
	fn         func(start, end int)
}

func runSpan(data any) any {
	sp := data.(*span)
	sp.fn(sp.start, sp.end)
	return nil
}

// ParallelFor calls fn over [0, n) split into ranges of at most batch items,
// one job per range, and waits for all of them. A batch of zero or less picks
// a size giving every worker about four ranges.
func ParallelFor(s *Scheduler, n, batch int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batch <= 0 {
		batch = max(1, n/(s.ThreadCount()*4))
	}
	count := (n + batch - 1) / batch
	spans := make([]span, count)

	id := s.BeginGroup(count)
	for i := range spans {
		start := i * batch
		spans[i] = span{start: start, end: min(start+batch, n), fn: fn}
		s.SubmitJob(id, runSpan, &spans[i], nil)
	}
	s.WaitForGroup(id)
}
