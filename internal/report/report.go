package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/executor"
)

// Sink is an executor.Publisher holding resources that must be released.
type Sink interface {
	executor.Publisher
	Close() error
}

// Multi fans results out to several sinks.
type Multi []Sink

// Publish sends r to every sink, joining their errors.
func (m Multi) Publish(ctx context.Context, r executor.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, joining their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the sinks described by reports, always starting with a Log sink.
// Sinks opened before a failure are closed again.
func New(ctx context.Context, reports []*config.Report) (Multi, error) {
	sinks := Multi{NewLog(ctxlog.FromContext(ctx))}
	for _, rep := range reports {
		switch rep.Kind {
		case "socketio":
			s, err := DialSocketIO(ctx, rep)
			if err != nil {
				_ = sinks.Close()
				return nil, fmt.Errorf("report '%s': %w", rep.Kind, err)
			}
			sinks = append(sinks, s)
		default:
			_ = sinks.Close()
			return nil, fmt.Errorf("unknown report kind '%s'", rep.Kind)
		}
	}
	return sinks, nil
}

// payload is the wire form of a result.
func payload(r executor.Result) map[string]any {
	p := map[string]any{
		"workload":    r.Workload,
		"kind":        r.Kind,
		"groups":      r.Groups,
		"jobs":        r.Jobs,
		"duration_ms": float64(r.Duration.Microseconds()) / 1000,
	}
	if r.Checksum != "" {
		p["checksum"] = r.Checksum
	}
	if r.Error != "" {
		p["error"] = r.Error
	}
	return p
}
