package gizmo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

func pos(v model.GPULineVertex) common.Vec3 {
	return common.V3(v.Position[0], v.Position[1], v.Position[2])
}

func TestCube(t *testing.T) {
	lines := Cube()
	require.Len(t, lines, 24)
	for i := 0; i < len(lines); i += 2 {
		d := lines[i+1].Sub(lines[i]).Abs()
		assert.Equal(t, float32(2), d.X+d.Y+d.Z, "edge %d spans one axis", i/2)
		for _, p := range []common.Vec3{lines[i], lines[i+1]} {
			assert.Equal(t, common.V3(1, 1, 1), p.Abs())
		}
	}
}

func TestCircle(t *testing.T) {
	lines := Circle(32)
	require.Len(t, lines, 64)
	for _, p := range lines {
		assert.InDelta(t, 1, p.Length(), 1e-6)
		assert.Equal(t, float32(0), p.Z)
	}
	assert.Equal(t, lines[0], lines[len(lines)-1])
	assert.Len(t, Circle(1), 6)
}

func TestOctahedron(t *testing.T) {
	lines := Octahedron()
	require.Len(t, lines, 18)
	for _, p := range lines {
		assert.InDelta(t, 1, p.Length(), 1e-6)
	}
}

func TestAddAABB(t *testing.T) {
	var b LineBuffer
	lo, hi := common.V3(0, 1.2, 0), common.V3(.2, 1.5, .2)
	b.AddAABB(lo, hi, ColorYellow)

	require.Equal(t, 12, b.Len())
	var total float32
	for i := 0; i < len(b.Vertices); i += 2 {
		a, c := pos(b.Vertices[i]), pos(b.Vertices[i+1])
		total += c.Sub(a).Length()
		for _, p := range []common.Vec3{a, c} {
			assert.True(t, p.X >= lo.X && p.Y >= lo.Y && p.Z >= lo.Z)
			assert.True(t, p.X <= hi.X && p.Y <= hi.Y && p.Z <= hi.Z)
		}
		assert.Equal(t, ColorYellow.Array(), b.Vertices[i].Color)
	}
	assert.InDelta(t, 4*(.2+.3+.2), total, 1e-5)
}

func TestAddSphere(t *testing.T) {
	var b LineBuffer
	center := common.V3(1, 1.2, 0)
	b.AddSphere(center, .2, ColorWhite)

	require.Equal(t, 3*SphereSegments, b.Len())
	for _, v := range b.Vertices {
		assert.InDelta(t, .2, pos(v).Sub(center).Length(), 1e-5)
	}
}

func TestAddOBB(t *testing.T) {
	var b LineBuffer
	orient := common.M3(1, 0, 0, 0, 2, 0, 0, 0, 3)
	b.AddOBB(orient, common.V3(5, 0, 0), ColorWhite)

	require.Equal(t, 12, b.Len())
	for _, v := range b.Vertices {
		assert.Equal(t, common.V3(1, 2, 3), pos(v).Sub(common.V3(5, 0, 0)).Abs())
	}
}

func TestAddAxes(t *testing.T) {
	var b LineBuffer
	b.AddAxes(common.V3(1, 2, 3), common.RotateY(math32.Pi/2), .5)

	require.Equal(t, 3, b.Len())
	assert.Equal(t, ColorRed.Array(), b.Vertices[0].Color)
	assert.Equal(t, ColorBlue.Array(), b.Vertices[5].Color)
	for i := 0; i < 6; i += 2 {
		assert.InDelta(t, .5, pos(b.Vertices[i+1]).Sub(pos(b.Vertices[i])).Length(), 1e-5)
	}

	b.Reset()
	assert.Equal(t, 0, b.Len())
}

func TestAddSkeleton(t *testing.T) {
	r := rig.NewRig()
	require.NoError(t, r.Evaluate(0))
	skel := r.Skeleton()

	var b LineBuffer
	b.AddSkeleton(r.Pose(), ColorWhite)
	require.Equal(t, skel.Len()-1, b.Len())
	for i := 1; i < skel.Len(); i++ {
		seg := pos(b.Vertices[2*(i-1)+1]).Sub(pos(b.Vertices[2*(i-1)]))
		assert.InDelta(t, skel.BoneLength(rig.JointID(i)), seg.Length(), 1e-4, rig.JointID(i).String())
	}
}

func TestAddTargets(t *testing.T) {
	r := rig.NewRig(rig.WithDrivers(rig.HumanoidReach()))
	require.NoError(t, r.Evaluate(0))

	var b LineBuffer
	b.AddTargets(r.Pose(), .05, ColorGreen)
	assert.Equal(t, len(r.Pose().Targets())*9, b.Len())
	assert.Len(t, r.Pose().Targets(), 4)
}
