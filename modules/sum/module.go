package sum

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of a sum workload.
type Args struct {
	Jobs  int `jobgrid:"jobs"`
	Items int `jobgrid:"items"`
}

type chunk struct {
	values []int64
}

func sumChunk(data any) any {
	var total int64
	for _, v := range data.(*chunk).values {
		total += v
	}
	return total
}

// Run sums 1..Items split across Jobs jobs. Every job stores its partial sum
// in its own result cell; the cells are folded after the wait and compared
// with the closed form.
func Run(_ context.Context, s *jobsched.Scheduler, raw any) (registry.Outcome, error) {
	args := raw.(*Args)
	if args.Jobs <= 0 || args.Items <= 0 {
		return registry.Outcome{}, fmt.Errorf("jobs and items must be positive, got %d, %d", args.Jobs, args.Items)
	}

	values := make([]int64, args.Items)
	for i := range values {
		values[i] = int64(i + 1)
	}

	size := (args.Items + args.Jobs - 1) / args.Jobs
	chunks := make([]chunk, 0, args.Jobs)
	for start := 0; start < args.Items; start += size {
		chunks = append(chunks, chunk{values: values[start:min(start+size, args.Items)]})
	}
	results := make([]any, len(chunks))

	id := s.BeginGroup(len(chunks))
	for i := range chunks {
		if !s.SubmitJob(id, sumChunk, &chunks[i], &results[i]) {
			return registry.Outcome{}, fmt.Errorf("%s rejected job %d", id, i)
		}
	}
	s.WaitForGroup(id)

	var total int64
	for i, r := range results {
		partial, ok := r.(int64)
		if !ok {
			return registry.Outcome{}, fmt.Errorf("job %d left no result", i)
		}
		total += partial
	}
	n := int64(args.Items)
	if want := n * (n + 1) / 2; total != want {
		return registry.Outcome{}, fmt.Errorf("sum is %d, want %d", total, want)
	}

	return registry.Outcome{Groups: 1, Jobs: len(chunks), Checksum: strconv.FormatInt(total, 10)}, nil
}

// Register registers the workload kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWorkload("sum", &registry.RegisteredWorkload{
		NewArgs:  func() any { return &Args{Jobs: 64, Items: 100000} },
		ArgsType: reflect.TypeOf(Args{}),
		Run:      Run,
	})
}
