package recycle

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of a recycle workload.
type Args struct {
	Ring   int `jobgrid:"ring"`
	Groups int `jobgrid:"groups"`
	Jobs   int `jobgrid:"jobs"`
}

// owner identifies the producer on the recycler ring.
type owner string

func increment(data any) any {
	data.(*atomic.Int64).Add(1)
	return nil
}

// Run streams Groups groups through a recycler ring of Ring handles without
// waiting on them explicitly. Reopening a handle waits out its previous group,
// which is checked to have drained completely at that point.
func Run(ctx context.Context, s *jobsched.Scheduler, raw any) (registry.Outcome, error) {
	args := raw.(*Args)
	if args.Ring <= 0 || args.Groups <= 0 || args.Jobs <= 0 {
		return registry.Outcome{}, fmt.Errorf("ring, groups and jobs must be positive, got %d, %d, %d", args.Ring, args.Groups, args.Jobs)
	}
	if args.Ring > s.MaxGroups() {
		return registry.Outcome{}, fmt.Errorf("ring (%d) exceeds the scheduler's max_groups (%d)", args.Ring, s.MaxGroups())
	}
	logger := ctxlog.FromContext(ctx)

	const self owner = "recycle"
	ring := jobsched.NewRecycler[owner](s, args.Ring)
	counters := make([]atomic.Int64, ring.Size())
	opened := make([]bool, ring.Size())
	var total, throttled int64

	for i := 0; i < args.Groups; i++ {
		// The handle about to be reused is still in flight unless it finished on its own.
		next := i % ring.Size()
		if opened[next] && !ring.IsGroupFinished(self, next) {
			throttled++
		}

		slot := ring.BeginGroup(self, args.Jobs)
		if opened[slot] {
			if got := counters[slot].Load(); got != int64(args.Jobs) {
				return registry.Outcome{}, fmt.Errorf("handle %d reopened after %d of %d jobs", slot, got, args.Jobs)
			}
			total += counters[slot].Swap(0)
		}
		opened[slot] = true

		for j := 0; j < args.Jobs; j++ {
			if !ring.SubmitJob(self, slot, increment, &counters[slot], nil) {
				return registry.Outcome{}, fmt.Errorf("handle %d rejected job %d", slot, j)
			}
		}
	}

	for slot := range counters {
		if !opened[slot] {
			continue
		}
		ring.WaitForGroup(self, slot)
		total += counters[slot].Load()
	}
	if want := int64(args.Groups) * int64(args.Jobs); total != want {
		return registry.Outcome{}, fmt.Errorf("counted %d jobs, want %d", total, want)
	}
	logger.Debug("Recycler stream finished.", "ring", ring.Size(), "throttled", throttled)

	return registry.Outcome{
		Groups:   args.Groups,
		Jobs:     args.Groups * args.Jobs,
		Checksum: strconv.FormatInt(total, 10),
	}, nil
}

// Register registers the workload kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWorkload("recycle", &registry.RegisteredWorkload{
		NewArgs:  func() any { return &Args{Ring: 4, Groups: 32, Jobs: 16} },
		ArgsType: reflect.TypeOf(Args{}),
		Run:      Run,
	})
}
