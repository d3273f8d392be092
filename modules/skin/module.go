package skin

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/vk/jobgridgo/internal/jobsched"
	"github.com/vk/jobgridgo/internal/registry"
)

// maxInfluences is the number of bones that may affect a single vertex.
const maxInfluences = 4

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of a skin workload.
type Args struct {
	Jobs     int `jobgrid:"jobs"`
	Vertices int `jobgrid:"vertices"`
	Bones    int `jobgrid:"bones"`
}

type vec3 [3]float64

// mat34 is a row-major affine transform.
type mat34 [3][4]float64

func (m *mat34) apply(v vec3) vec3 {
	var out vec3
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]
	}
	return out
}

type vertex struct {
	pos     vec3
	bones   [maxInfluences]int
	weights [maxInfluences]float64
	count   int
}

type mesh struct {
	bones    []mat34
	vertices []vertex
	out      []vec3
}

func newMesh(vertices, bones int) *mesh {
	m := &mesh{
		bones:    make([]mat34, bones),
		vertices: make([]vertex, vertices),
		out:      make([]vec3, vertices),
	}
	for b := range m.bones {
		angle := float64(b) * math.Pi / 8
		sin, cos := math.Sincos(angle)
		m.bones[b] = mat34{
			{cos, -sin, 0, float64(b)},
			{sin, cos, 0, 0},
			{0, 0, 1, float64(b) / 2},
		}
	}
	influences := min(bones, maxInfluences)
	for i := range m.vertices {
		v := &m.vertices[i]
		v.pos = vec3{float64(i % 97), float64(i % 89), float64(i % 83)}
		v.count = influences
		var total float64
		for k := 0; k < influences; k++ {
			v.bones[k] = (i + k) % bones
			v.weights[k] = float64(k + 1)
			total += v.weights[k]
		}
		for k := 0; k < influences; k++ {
			v.weights[k] /= total
		}
	}
	return m
}

// skin blends the bone transforms of vertices [start, end) into out.
func (m *mesh) skin(start, end int) {
	for i := start; i < end; i++ {
		v := &m.vertices[i]
		var acc vec3
		for k := 0; k < v.count; k++ {
			p := m.bones[v.bones[k]].apply(v.pos)
			w := v.weights[k]
			acc[0] += w * p[0]
			acc[1] += w * p[1]
			acc[2] += w * p[2]
		}
		m.out[i] = acc
	}
}

// Run skins Vertices vertices against Bones bones with ParallelFor, split
// into about Jobs ranges, and compares the output with a sequential pass.
func Run(_ context.Context, s *jobsched.Scheduler, raw any) (registry.Outcome, error) {
	args := raw.(*Args)
	if args.Jobs <= 0 || args.Vertices <= 0 || args.Bones <= 0 {
		return registry.Outcome{}, fmt.Errorf("jobs, vertices and bones must be positive, got %d, %d, %d", args.Jobs, args.Vertices, args.Bones)
	}

	m := newMesh(args.Vertices, args.Bones)
	batch := (args.Vertices + args.Jobs - 1) / args.Jobs
	jobsched.ParallelFor(s, args.Vertices, batch, m.skin)
	parallel := m.out

	m.out = make([]vec3, args.Vertices)
	m.skin(0, args.Vertices)

	var checksum float64
	for i := range parallel {
		if parallel[i] != m.out[i] {
			return registry.Outcome{}, fmt.Errorf("vertex %d skinned to %v, want %v", i, parallel[i], m.out[i])
		}
		checksum += parallel[i][0] + parallel[i][1] + parallel[i][2]
	}

	return registry.Outcome{
		Groups:   1,
		Jobs:     (args.Vertices + batch - 1) / batch,
		Checksum: strconv.FormatFloat(checksum, 'f', 6, 64),
	}, nil
}

// Register registers the workload kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWorkload("skin", &registry.RegisteredWorkload{
		NewArgs:  func() any { return &Args{Jobs: 32, Vertices: 20000, Bones: 4} },
		ArgsType: reflect.TypeOf(Args{}),
		Run:      Run,
	})
}
