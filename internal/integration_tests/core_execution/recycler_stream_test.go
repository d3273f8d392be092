package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/app"
)

// TestCoreExecution_RecyclerStream validates that a stream of groups larger
// than the ring completes and leaves no group slot in use.
func TestCoreExecution_RecyclerStream(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
			scheduler {
				threads    = 2
				max_groups = 2
			}
			workload "recycle" "stream" {
				ring   = 2
				groups = 20
				jobs   = 8
			}
		`,
	}

	// --- Act ---
	result := app.RunIntegrationTest(context.Background(), t, &app.Config{}, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	app.AssertWorkloadRan(t, result, "recycle.stream")
	require.Equal(t, "160", result.Result(t, "recycle.stream").Checksum)

	stats := result.App.Scheduler().Stats()
	require.Zero(t, stats.LiveGroups)
	require.Equal(t, uint64(20), stats.GroupsBegun)
}
