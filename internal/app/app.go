package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
// It owns the job scheduler: the scheduler is created in NewApp and torn down
// in Close.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	model      *config.Model
	converter  config.Converter
	scheduler  *jobsched.Scheduler
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// running scheduler. Configuration that cannot be loaded or validated is a
// fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the registry with Go workloads.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	// This is a mismatch between code and config, so we panic.
	if err := reg.ValidateModel(ctx, cfgModel); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	opts := schedulerOptions(cfgModel.Scheduler, appConfig)
	scheduler, err := jobsched.New(ctx, opts)
	if err != nil {
		panic(fmt.Errorf("failed to start job scheduler: %w", err))
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		registry:  reg,
		model:     cfgModel,
		converter: converter,
		scheduler: scheduler,
	}
}

// schedulerOptions merges the file's scheduler block with the CLI overrides.
// Pinning is off unless start_processor is set.
func schedulerOptions(file *config.Scheduler, overrides *Config) jobsched.Options {
	opts := jobsched.Options{StartProcessor: -1}
	pick := func(dst *int, values ...*int) {
		for _, v := range values {
			if v != nil {
				*dst = *v
				return
			}
		}
	}
	if file == nil {
		file = &config.Scheduler{}
	}
	pick(&opts.Threads, overrides.Threads, file.Threads)
	pick(&opts.MaxGroups, overrides.MaxGroups, file.MaxGroups)
	pick(&opts.StartProcessor, overrides.StartProcessor, file.StartProcessor)
	return opts
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Scheduler returns the application's job scheduler.
func (a *App) Scheduler() *jobsched.Scheduler {
	return a.scheduler
}

// Close stops the health check server and the scheduler. The scheduler drains
// submitted work before its workers exit.
func (a *App) Close() error {
	a.logger.Debug("Closing application...")
	return errors.Join(
		a.closeHealthCheckServer(),
		a.scheduler.Close(),
	)
}
