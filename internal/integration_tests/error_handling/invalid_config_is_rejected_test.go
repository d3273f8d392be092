package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/app"
)

// TestErrorHandling_InvalidConfig_IsRejected validates that configuration
// problems stop the app at startup, before any workload runs.
func TestErrorHandling_InvalidConfig_IsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		hcl     string
		wantErr string
	}{
		{
			name: "syntax error",
			hcl: `
				workload "sum" "A" {
				// Missing closing brace here
			`,
			wantErr: "failed to parse",
		},
		{
			name:    "unknown workload kind",
			hcl:     `workload "physics" "step" {}`,
			wantErr: "unknown kind 'physics'",
		},
		{
			name:    "unknown argument",
			hcl:     `workload "counter" "c" { gropus = 2 }`,
			wantErr: "unsupported argument 'gropus'",
		},
		{
			name:    "undefined variable",
			hcl:     `workload "counter" "c" { jobs = gpu_count }`,
			wantErr: "gpu_count",
		},
		{
			name:    "unknown scheduler attribute",
			hcl:     `scheduler { workers = 3 }`,
			wantErr: "failed to decode",
		},
		{
			name: "duplicate workload",
			hcl: `
				workload "sum" "twice" {}
				workload "sum" "twice" {}
			`,
			wantErr: "duplicate workload sum.twice",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Act ---
			result := app.RunIntegrationTest(context.Background(), t, &app.Config{}, map[string]string{"main.hcl": tc.hcl})

			// --- Assert ---
			require.Error(t, result.Err)
			require.Contains(t, result.Err.Error(), "application startup panicked")
			require.Contains(t, result.Err.Error(), tc.wantErr)
			require.Empty(t, result.Results)
		})
	}
}
