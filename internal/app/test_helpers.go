package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/executor"
	"github.com/vk/jobgridgo/internal/hcl"
	"github.com/vk/jobgridgo/internal/registry"
	"github.com/vk/jobgridgo/internal/testutil"
)

// SetupAppTest writes files into a temporary directory, points appConfig at
// it and creates an App for system testing. The app is closed when the test
// ends.
func SetupAppTest(t *testing.T, appConfig *Config, files map[string]string, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	appConfig.ConfigPath = testutil.WriteFiles(t, files)
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "text"

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if err := testApp.Close(); err != nil {
			t.Errorf("failed to close app: %v", err)
		}
		dumpLogs(t, logBuffer)
	})

	return testApp, logBuffer
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Results   []executor.Result
	Err       error
	App       *App
}

// RunIntegrationTest loads files as the configuration, runs every workload
// and closes the app. A startup panic is returned as Err.
func RunIntegrationTest(ctx context.Context, t *testing.T, appConfig *Config, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	appConfig.ConfigPath = testutil.WriteFiles(t, files)
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "text"
	logBuffer := &testutil.SafeBuffer{}
	t.Cleanup(func() { dumpLogs(t, logBuffer) })

	var testApp *App
	var panicErr any
	func() {
		defer func() {
			panicErr = recover()
		}()
		testApp = NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	results, runErr := testApp.Run(ctx)
	require.NoError(t, testApp.Close())

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Results:   results,
		Err:       runErr,
		App:       testApp,
	}
}

// Result returns the result of the workload with the given ID.
func (r *HarnessResult) Result(t *testing.T, workloadID string) executor.Result {
	t.Helper()
	for _, res := range r.Results {
		if res.Workload == workloadID {
			return res
		}
	}
	require.Failf(t, "workload did not run", "no result for %s in %d results", workloadID, len(r.Results))
	return executor.Result{}
}

// AssertWorkloadRan checks that the workload finished without error and
// that its completion was logged.
func AssertWorkloadRan(t *testing.T, r *HarnessResult, workloadID string) {
	t.Helper()
	res := r.Result(t, workloadID)
	require.Empty(t, res.Error, "workload %s failed", workloadID)
	require.True(t,
		strings.Contains(r.LogOutput, "workload="+workloadID) && strings.Contains(r.LogOutput, "✅ Finished workload."),
		"expected log output to show %s finished", workloadID)
}

func dumpLogs(t *testing.T, buf *testutil.SafeBuffer) {
	if os.Getenv(testutil.LogsEnv) == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
	}
}
