package report

import (
	"context"
	"log/slog"

	"github.com/vk/jobgridgo/internal/executor"
)

// Log writes every result as a structured log record.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log sink writing to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "report")}
}

func (l *Log) Publish(ctx context.Context, r executor.Result) error {
	level := slog.LevelInfo
	if r.Error != "" {
		level = slog.LevelError
	}
	attrs := make([]any, 0, 12)
	for k, v := range payload(r) {
		attrs = append(attrs, k, v)
	}
	l.logger.Log(ctx, level, "Workload result.", attrs...)
	return nil
}

func (l *Log) Close() error { return nil }
