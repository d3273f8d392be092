package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/vk/jobgridgo/internal/ctxlog"
)

// LogsEnv enables dumping captured logs at the end of each test.
const LogsEnv = "JOBGRID_TEST_LOGS"

// NewContext returns a context carrying a debug-level logger that writes into
// the returned buffer. With JOBGRID_TEST_LOGS=true the buffer is dumped when
// the test finishes.
func NewContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Cleanup(func() {
		if os.Getenv(LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}
