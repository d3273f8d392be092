package counter

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
	"golang.org/x/sync/errgroup"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of a counter workload.
type Args struct {
	Groups int `jobgrid:"groups"`
	Jobs   int `jobgrid:"jobs"`
	Repeat int `jobgrid:"repeat"`
}

func increment(data any) any {
	data.(*atomic.Int64).Add(1)
	return nil
}

// Run opens Groups groups from concurrent producers, each with Jobs jobs that
// increment a shared counter, and checks every counter after the wait.
func Run(ctx context.Context, s *jobsched.Scheduler, raw any) (registry.Outcome, error) {
	args := raw.(*Args)
	if args.Groups <= 0 || args.Jobs <= 0 || args.Repeat <= 0 {
		return registry.Outcome{}, fmt.Errorf("groups, jobs and repeat must be positive, got %d, %d, %d", args.Groups, args.Jobs, args.Repeat)
	}
	if args.Groups > s.MaxGroups() {
		return registry.Outcome{}, fmt.Errorf("groups (%d) exceeds the scheduler's max_groups (%d)", args.Groups, s.MaxGroups())
	}
	logger := ctxlog.FromContext(ctx)

	var total int64
	for round := 0; round < args.Repeat; round++ {
		counters := make([]atomic.Int64, args.Groups)
		var g errgroup.Group
		for i := range counters {
			counter := &counters[i]
			g.Go(func() error {
				return countGroup(s, args.Jobs, args.Jobs, counter)
			})
		}
		if err := g.Wait(); err != nil {
			return registry.Outcome{}, err
		}
		for i := range counters {
			total += counters[i].Load()
		}
		logger.Debug("Counter round finished.", "round", round, "groups", args.Groups)
	}

	return registry.Outcome{
		Groups:   args.Groups * args.Repeat,
		Jobs:     args.Groups * args.Jobs * args.Repeat,
		Checksum: strconv.FormatInt(total, 10),
	}, nil
}

// Register registers the workload kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWorkload("counter", &registry.RegisteredWorkload{
		NewArgs:  func() any { return &Args{Groups: 1, Jobs: 100, Repeat: 1} },
		ArgsType: reflect.TypeOf(Args{}),
		Run:      Run,
	})
}

// countGroup opens a group of the given capacity, submits jobs increments into
// it and checks the counter. The group is waited on every path.
func countGroup(s *jobsched.Scheduler, capacity, jobs int, counter *atomic.Int64) error {
	id := s.BeginGroup(capacity)
	for j := 0; j < jobs; j++ {
		if !s.SubmitJob(id, increment, counter, nil) {
			s.WaitForGroup(id)
			return fmt.Errorf("%s rejected job %d", id, j)
		}
	}
	s.WaitForGroup(id)
	if got := counter.Load(); got != int64(jobs) {
		return fmt.Errorf("%s counted %d jobs, want %d", id, got, jobs)
	}
	return nil
}
