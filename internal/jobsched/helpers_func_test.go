package jobsched

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFunc_StoresTypedResults(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, Options{Threads: 3, MaxGroups: 1, StartProcessor: -1})
	out := make([]string, 4)
	words := []string{"job", "group", "worker", "slot"}

	group := s.BeginGroup(len(words))
	for i, w := range words {
		require.True(t, SubmitFunc(s, group, func() string { return w + "!" }, &out[i]))
	}
	s.WaitForGroup(group)

	assert.Equal(t, []string{"job!", "group!", "worker!", "slot!"}, out)
}

func TestParallelFor_CoversEveryIndexOnce(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, Options{Threads: 4, MaxGroups: 2, StartProcessor: -1})

	for _, tc := range []struct {
		name     string
		n, batch int
	}{
		{"exact batches", 1000, 100},
		{"ragged tail", 1001, 100},
		{"auto batch", 5000, 0},
		{"single item", 1, 0},
		{"batch larger than n", 10, 64},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hits := make([]atomic.Int32, tc.n)
			ParallelFor(s, tc.n, tc.batch, func(start, end int) {
				for i := start; i < end; i++ {
					hits[i].Add(1)
				}
			})
			for i := range hits {
				require.Equal(t, int32(1), hits[i].Load(), "index %d", i)
			}
		})
	}

	called := false
	ParallelFor(s, 0, 10, func(int, int) { called = true })
	assert.False(t, called)
}
