package app

import (
	"context"
	"fmt"

	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/executor"
	"github.com/vk/jobgridgo/internal/report"
)

// Run executes the configured workloads and returns their results.
func (a *App) Run(ctx context.Context) ([]executor.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if _, err := a.healthCheckServer(a.config.HealthcheckPort); err != nil {
			return nil, err
		}
	}

	sinks, err := report.New(ctx, a.model.Reports)
	if err != nil {
		return nil, fmt.Errorf("failed to set up reporting: %w", err)
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			a.logger.Warn("Failed to close report sinks.", "error", err)
		}
	}()

	if len(a.model.Workloads) == 0 {
		a.logger.Warn("No workloads found in configuration, execution not required.")
		return nil, nil
	}

	a.logger.Info("🚀 Starting workloads...", "count", len(a.model.Workloads), "threads", a.scheduler.ThreadCount(), "max_groups", a.scheduler.MaxGroups())
	exec := executor.New(a.scheduler, a.registry, a.converter, sinks)
	results, err := exec.Run(ctx, a.model.Workloads)
	if err != nil {
		return results, fmt.Errorf("execution failed: %w", err)
	}

	stats := a.scheduler.Stats()
	a.logger.Info("🏁 Execution finished.", "groups_begun", stats.GroupsBegun, "jobs_executed", stats.JobsExecuted)
	a.logger.Debug("App.Run method finished.")
	return results, nil
}
