package skin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesh_IdentityBoneKeepsPositions(t *testing.T) {
	t.Parallel()
	// A single bone at index zero has no rotation and no offset.
	m := newMesh(50, 1)

	m.skin(0, len(m.vertices))

	for i, v := range m.vertices {
		assert.Equal(t, v.pos, m.out[i], "vertex %d", i)
	}
}

func TestMesh_WeightsAreNormalised(t *testing.T) {
	t.Parallel()
	m := newMesh(10, 6)

	for i, v := range m.vertices {
		require.Equal(t, maxInfluences, v.count)
		var total float64
		for k := 0; k < v.count; k++ {
			total += v.weights[k]
		}
		assert.InDelta(t, 1.0, total, 1e-12, "vertex %d", i)
	}
}

func TestRun_MatchesSequentialPass(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, s := newTestScheduler(t, 4, 1)

	// --- Act ---
	out, err := Run(ctx, s, &Args{Jobs: 7, Vertices: 1000, Bones: 5})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 1, out.Groups)
	assert.Equal(t, 7, out.Jobs)
	assert.NotEmpty(t, out.Checksum)
	assert.False(t, math.IsNaN(mustParse(t, out.Checksum)))
}

func TestRun_InvalidArgs(t *testing.T) {
	t.Parallel()
	ctx, s := newTestScheduler(t, 1, 1)

	_, err := Run(ctx, s, &Args{Jobs: 1, Vertices: 1, Bones: 0})
	assert.ErrorContains(t, err, "must be positive")
}
