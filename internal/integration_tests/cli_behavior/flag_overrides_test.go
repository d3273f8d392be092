package integration_tests

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/app"
	"github.com/vk/jobgridgo/internal/cli"
)

// TestCLI_FlagsOverrideSchedulerBlock validates that flags given on the
// command line win over the file, and flags left out do not.
func TestCLI_FlagsOverrideSchedulerBlock(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg, _, err := cli.Parse([]string{"-threads", "3", "placeholder.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	files := map[string]string{
		"main.hcl": `
			scheduler {
				threads    = 1
				max_groups = 6
			}
			workload "sum" "s" {}
		`,
	}

	// --- Act ---
	result := app.RunIntegrationTest(context.Background(), t, cfg, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, 3, result.App.Scheduler().ThreadCount())
	require.Equal(t, 6, result.App.Scheduler().MaxGroups())
}
