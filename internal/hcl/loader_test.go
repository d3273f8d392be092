package hcl

import (
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

var ctyComparer = cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })

func intPtr(v int) *int { return &v }

func TestLoader_LoadsAllBlocks(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"main.hcl": `
			scheduler {
			  threads         = 3
			  max_groups      = 16
			  start_processor = -1
			}

			workload "counter" "smoke" {
			  groups = 2
			  jobs   = 100
			}
		`,
		"more/report.hcl": `
			report "socketio" {
			  url   = "http://localhost:3000/socket.io/"
			  event = "workload_result"
			}
		`,
		"notes.txt": "ignored",
	})
	ctx, _ := testutil.NewContext(t)

	// --- Act ---
	model, conv, err := NewLoader().Load(ctx, dir)

	// --- Assert ---
	require.NoError(t, err)
	require.NotNil(t, conv)
	want := &config.Model{
		Scheduler: &config.Scheduler{
			Threads:        intPtr(3),
			MaxGroups:      intPtr(16),
			StartProcessor: intPtr(-1),
		},
		Workloads: []*config.Workload{{
			Kind: "counter",
			Name: "smoke",
			Arguments: map[string]cty.Value{
				"groups": cty.NumberIntVal(2),
				"jobs":   cty.NumberIntVal(100),
			},
		}},
		Reports: []*config.Report{{
			Kind:  "socketio",
			URL:   "http://localhost:3000/socket.io/",
			Event: "workload_result",
		}},
	}
	if diff := cmp.Diff(want, model, ctyComparer); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EvaluatesExpressions(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteFiles(t, map[string]string{
		"main.hcl": `
			scheduler {
			  threads = max(1, cpu_count - 1)
			}
			workload "sum" "big" {
			  items = 1000 * 10
			  jobs  = min(8, cpu_count * 2)
			}
		`,
	})
	ctx, _ := testutil.NewContext(t)

	model, _, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	require.NotNil(t, model.Scheduler.Threads)
	assert.Equal(t, max(1, runtime.NumCPU()-1), *model.Scheduler.Threads)
	assert.Nil(t, model.Scheduler.MaxGroups)
	require.Len(t, model.Workloads, 1)
	assert.True(t, model.Workloads[0].Arguments["items"].RawEquals(cty.NumberIntVal(10000)))
	assert.True(t, model.Workloads[0].Arguments["jobs"].RawEquals(cty.NumberIntVal(int64(min(8, runtime.NumCPU()*2)))))
}

func TestLoader_DefaultsWithoutSchedulerBlock(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteFiles(t, map[string]string{
		"main.hcl": `workload "counter" "a" {}`,
	})
	ctx, _ := testutil.NewContext(t)

	model, _, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	if diff := cmp.Diff(&config.Scheduler{}, model.Scheduler); diff != "" {
		t.Errorf("scheduler mismatch (-want +got):\n%s", diff)
	}
	want := []*config.Workload{{Kind: "counter", Name: "a"}}
	if diff := cmp.Diff(want, model.Workloads, ctyComparer, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("workloads mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"main.hcl": `scheduler {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute in scheduler",
			files:   map[string]string{"main.hcl": `scheduler { workers = 3 }`},
			wantErr: "failed to decode HCL file",
		},
		{
			name: "duplicate scheduler block",
			files: map[string]string{
				"a.hcl": `scheduler { threads = 1 }`,
				"b.hcl": `scheduler { threads = 2 }`,
			},
			wantErr: "duplicate scheduler block",
		},
		{
			name: "duplicate workload",
			files: map[string]string{
				"main.hcl": `
					workload "counter" "x" {}
					workload "counter" "x" {}
				`,
			},
			wantErr: "duplicate workload counter.x",
		},
		{
			name:    "undefined variable",
			files:   map[string]string{"main.hcl": `workload "counter" "x" { jobs = gpu_count }`},
			wantErr: "workload counter.x",
		},
		{
			name:    "no hcl files",
			files:   map[string]string{"readme.md": "# nothing"},
			wantErr: "no .hcl files found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := testutil.WriteFiles(t, tc.files)
			ctx, _ := testutil.NewContext(t)

			_, _, err := NewLoader().Load(ctx, dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_MissingPath(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	_, _, err := NewLoader().Load(ctx, "/definitely/not/here.hcl")
	assert.ErrorContains(t, err, "error accessing path")
}
