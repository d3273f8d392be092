package skin

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/testutil"
)

func newTestScheduler(t *testing.T, threads, maxGroups int) (context.Context, *jobsched.Scheduler) {
	t.Helper()
	ctx, _ := testutil.NewContext(t)
	s, err := jobsched.New(ctx, jobsched.Options{Threads: threads, MaxGroups: maxGroups, StartProcessor: -1})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return ctx, s
}

func mustParse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}
