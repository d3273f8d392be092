// Package executor drives the configured workloads through the job scheduler
// and publishes one Result per workload.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
)

// Result is the record of one workload run.
type Result struct {
	Workload string        `json:"workload"`
	Kind     string        `json:"kind"`
	Groups   int           `json:"groups"`
	Jobs     int           `json:"jobs"`
	Checksum string        `json:"checksum,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Publisher receives workload results as they are produced.
type Publisher interface {
	Publish(ctx context.Context, r Result) error
}

// Executor runs workloads one after another on a shared scheduler.
type Executor struct {
	scheduler *jobsched.Scheduler
	registry  *registry.Registry
	converter config.Converter
	publisher Publisher
}

// New creates an executor. publisher may be nil.
func New(s *jobsched.Scheduler, reg *registry.Registry, converter config.Converter, publisher Publisher) *Executor {
	return &Executor{
		scheduler: s,
		registry:  reg,
		converter: converter,
		publisher: publisher,
	}
}

// Run executes the workloads in order and returns their results. It stops at
// the first workload that fails or when ctx is cancelled between workloads;
// the failed workload's result is included in the returned slice.
func (e *Executor) Run(ctx context.Context, workloads []*config.Workload) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)
	results := make([]Result, 0, len(workloads))

	for _, wl := range workloads {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("execution interrupted before workload '%s': %w", wl.ID(), err)
		}

		res, err := e.runWorkload(ctx, wl)
		results = append(results, res)
		e.publish(ctx, res)
		if err != nil {
			logger.Error("Workload failed.", "workload", wl.ID(), "error", err)
			return results, fmt.Errorf("workload '%s' failed: %w", wl.ID(), err)
		}
	}
	return results, nil
}

func (e *Executor) runWorkload(ctx context.Context, wl *config.Workload) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("workload", wl.ID())
	ctx = ctxlog.WithLogger(ctx, logger)
	res := Result{Workload: wl.ID(), Kind: wl.Kind}

	reg, ok := e.registry.Lookup(wl.Kind)
	if !ok {
		err := fmt.Errorf("unknown workload kind '%s'", wl.Kind)
		res.Error = err.Error()
		return res, err
	}

	args := reg.NewArgs()
	if err := e.converter.DecodeArguments(ctx, args, wl.Arguments); err != nil {
		err = fmt.Errorf("failed to decode arguments: %w", err)
		res.Error = err.Error()
		return res, err
	}
	logger.Debug("Workload arguments decoded.", "args", argumentsForLogs(wl.Arguments))

	logger.Info("▶️ Starting workload.")
	start := time.Now()
	out, err := reg.Run(ctx, e.scheduler, args)
	res.Duration = time.Since(start)
	res.Groups, res.Jobs, res.Checksum = out.Groups, out.Jobs, out.Checksum
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	logger.Info("✅ Finished workload.", "groups", out.Groups, "jobs", out.Jobs, "duration", res.Duration, "checksum", out.Checksum)
	return res, nil
}

func (e *Executor) publish(ctx context.Context, res Result) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, res); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to publish workload result.", "workload", res.Workload, "error", err)
	}
}
