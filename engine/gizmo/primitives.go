package gizmo

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// unitCorners are the corners of the unit cube [0, 1]^3.
var unitCorners = [8]common.Vec3{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// cubeEdges pairs unitCorners into the twelve cube edges.
var cubeEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Cube returns the line list of the [-1, 1] cube: 12 segments, 24 points.
func Cube() []common.Vec3 {
	out := make([]common.Vec3, 0, len(cubeEdges)*2)
	for _, e := range cubeEdges {
		out = append(out,
			unitCorners[e[0]].Scale(2).Sub(common.V3(1, 1, 1)),
			unitCorners[e[1]].Scale(2).Sub(common.V3(1, 1, 1)),
		)
	}
	return out
}

// Circle returns the line list of a closed unit circle in the XY plane with n segments.
// n is raised to 3 when smaller.
func Circle(n int) []common.Vec3 {
	if n < 3 {
		n = 3
	}
	point := func(i int) common.Vec3 {
		a := 2 * math32.Pi * float32(i%n) / float32(n)
		return common.V3(math32.Cos(a), math32.Sin(a), 0)
	}
	out := make([]common.Vec3, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, point(i), point(i+1))
	}
	return out
}

// Octahedron returns the line list of a unit bipyramid: a triangle ring in the XZ plane joined
// to poles at y = ±1. It marks IK targets.
func Octahedron() []common.Vec3 {
	verts := [5]common.Vec3{{0, -1, 0}}
	for i := 0; i < 3; i++ {
		a := 2 * math32.Pi * float32(i) / 3
		verts[i+1] = common.V3(math32.Cos(a), 0, math32.Sin(a))
	}
	verts[4] = common.V3(0, 1, 0)

	edges := [9][2]int{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {2, 3}, {3, 1},
		{4, 1}, {4, 2}, {4, 3},
	}
	out := make([]common.Vec3, 0, len(edges)*2)
	for _, e := range edges {
		out = append(out, verts[e[0]], verts[e[1]])
	}
	return out
}
