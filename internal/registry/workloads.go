package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/jobgridgo/internal/jobsched"
)

// Outcome is what a workload reports after driving its jobs to completion.
type Outcome struct {
	// Groups is the number of groups the workload opened.
	Groups int
	// Jobs is the number of jobs it submitted.
	Jobs int
	// Checksum is a kind-specific digest of the computed data, already
	// verified by the workload against a sequential reference.
	Checksum string
}

// RunFunc drives one workload through the scheduler. args is the value
// returned by NewArgs after the workload's arguments were decoded into it.
type RunFunc func(ctx context.Context, s *jobsched.Scheduler, args any) (Outcome, error)

// RegisteredWorkload holds the compiled Go parts of a workload kind.
type RegisteredWorkload struct {
	// NewArgs returns a pointer to the argument struct, pre-filled with defaults.
	NewArgs func() any
	// ArgsType is the struct type NewArgs points to, used for validation.
	ArgsType reflect.Type
	Run      RunFunc
}

// RegisterWorkload registers the Go implementation of a workload kind.
func (r *Registry) RegisterWorkload(kind string, w *RegisteredWorkload) {
	if _, exists := r.Workloads[kind]; exists {
		panic(fmt.Sprintf("workload kind '%s' already registered", kind))
	}
	if w.NewArgs == nil || w.Run == nil {
		panic(fmt.Sprintf("workload kind '%s' registered without NewArgs or Run", kind))
	}
	r.Workloads[kind] = w
}
