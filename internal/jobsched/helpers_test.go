package jobsched

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/testutil"
)

// newTestScheduler starts a scheduler that is closed when the test ends.
func newTestScheduler(t *testing.T, opts Options) *Scheduler {
	t.Helper()
	ctx, _ := testutil.NewContext(t)
	s, err := New(ctx, opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// requireUsagePanic runs fn and asserts it panics with a *UsageError wrapping target.
func requireUsagePanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

// increment is a job body adding one to the *atomic counter it receives.
func increment(data any) any {
	data.(interface{ Add(int64) int64 }).Add(1)
	return nil
}
