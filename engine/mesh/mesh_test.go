package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

func vec(a [3]float32) common.Vec3 {
	return common.V3(a[0], a[1], a[2])
}

func TestGenCubeMapCounts(t *testing.T) {
	b := &Buffer{}
	cmd := b.GenCubeMap(2, Cube)

	assert.Equal(t, model.GPUDrawCommand{IndexCount: 36}, cmd)
	assert.Len(t, b.Vertices, 24)
	assert.Len(t, b.Indices, 36)

	cmd = b.GenCubeMap(10, Sphere)
	assert.Equal(t, model.GPUDrawCommand{IndexCount: 6 * 9 * 9 * 6, FirstIndex: 36, BaseVertex: 24}, cmd)
	assert.Len(t, b.Vertices, 24+600)
	assert.Len(t, b.Commands, 2)
}

func TestGenCubeMapDeterministic(t *testing.T) {
	build := func() *Buffer {
		b := &Buffer{}
		b.GenCubeMap(2, HalfCube)
		b.GenCubeMap(7, RoundedBox(common.V3(.2, .5, .1)))
		return b
	}
	a, c := build(), build()
	assert.Equal(t, model.MarshalVertices(a.Vertices), model.MarshalVertices(c.Vertices))
	assert.Equal(t, model.MarshalIndices(a.Indices), model.MarshalIndices(c.Indices))
	assert.Equal(t, a.Commands, c.Commands)
}

func TestNormalsAreUnitLength(t *testing.T) {
	shapes := map[string]struct {
		n     int
		shape Shape
	}{
		"cube":        {2, Cube},
		"cube fine":   {5, Cube},
		"half cube":   {2, HalfCube},
		"sphere":      {10, Sphere},
		"rounded box": {6, RoundedBox(common.V3(0, .5, 0))},
		"capsule":     {8, Capsule},
	}
	for name, s := range shapes {
		t.Run(name, func(t *testing.T) {
			b := &Buffer{}
			b.GenCubeMap(s.n, s.shape)
			for i, v := range b.Vertices {
				assert.InDelta(t, 1, vec(v.Normal).Length(), 1e-4, "vertex %d", i)
			}
		})
	}
}

func TestCubeFaceNormalsAreAxisAligned(t *testing.T) {
	b := &Buffer{}
	b.GenCubeMap(2, Cube)

	want := []common.Vec3{
		common.V3(0, 0, 1), common.V3(0, 0, -1),
		common.V3(1, 0, 0), common.V3(-1, 0, 0),
		common.V3(0, 1, 0), common.V3(0, -1, 0),
	}
	for face, w := range want {
		for i := 0; i < 4; i++ {
			v := b.Vertices[face*4+i]
			assert.InDelta(t, 0, vec(v.Normal).Sub(w).Length(), 1e-6)
			assert.Equal(t, float32(1), vec(v.Position).Dot(w))
		}
	}
}

func TestTrianglesFaceOutwards(t *testing.T) {
	b := &Buffer{}
	cmd := b.GenCubeMap(6, Sphere)
	verts, idx := b.Primitive(cmd)
	for i := 0; i < len(idx); i += 3 {
		p0, p1, p2 := vec(verts[idx[i]].Position), vec(verts[idx[i+1]].Position), vec(verts[idx[i+2]].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p1))
		centroid := p0.Add(p1).Add(p2)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d", i/3)
	}
}

func TestShapes(t *testing.T) {
	b := &Buffer{}
	cmd := b.GenCubeMap(2, HalfCube)
	lo, hi := b.Bounds(cmd)
	assert.Equal(t, common.V3(-.5, 0, -.5), lo)
	assert.Equal(t, common.V3(.5, 1, .5), hi)

	cmd = b.GenCubeMap(10, Sphere)
	verts, _ := b.Primitive(cmd)
	for _, v := range verts {
		assert.InDelta(t, 1, vec(v.Position).Length(), 1e-5)
	}

	cmd = b.GenCubeMap(8, Capsule)
	verts, _ = b.Primitive(cmd)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Position[1], float32(-1e-6))
		assert.LessOrEqual(t, v.Position[1], float32(1+1e-6))
		assert.LessOrEqual(t, common.V3(v.Position[0], 0, v.Position[2]).Length(), float32(.25+1e-6))
	}

	pos, nor := RoundedBox(common.V3(1, 2, 3))(common.V3(1, -1, 1))
	assert.InDelta(t, 0, nor.Sub(common.V3(1, -1, 1).Normalize()).Length(), 1e-6)
	assert.InDelta(t, 0, pos.Sub(nor.Add(common.V3(1, -2, 3))).Length(), 1e-6)

	pos, _ = Transform(Cube, 2, common.V3(0, 1, 0))(common.V3(1, 1, 1))
	assert.Equal(t, common.V3(2, 3, 2), pos)
}

func TestGenCubeMapPanicsOnBadResolution(t *testing.T) {
	b := &Buffer{}
	assert.Panics(t, func() { b.GenCubeMap(1, Cube) })
	assert.Panics(t, func() { b.GenCubeMap(MaxResolution+1, Cube) })
	assert.NotPanics(t, func() { b.GenCubeMap(MaxResolution, Sphere) })
}

func TestNewPrimitives(t *testing.T) {
	b, err := NewPrimitives()
	require.NoError(t, err)
	require.Len(t, b.Commands, 3)

	seg := b.Commands[PrimitiveSegment]
	assert.Equal(t, uint32(36), seg.FirstIndex)
	assert.Equal(t, int32(24), seg.BaseVertex)
	assert.Equal(t, uint32(0), seg.InstanceCount)
	verts, idx := b.Primitive(seg)
	assert.Len(t, verts, 24)
	assert.Len(t, idx, 36)

	sphere := b.Commands[PrimitiveSphere]
	assert.Equal(t, uint32(72), sphere.FirstIndex)
	assert.Equal(t, int32(48), sphere.BaseVertex)

	b, err = NewPrimitives(WithSegmentShape(SegmentCapsule, 6), WithSphereResolution(4))
	require.NoError(t, err)
	assert.Equal(t, uint32(6*5*5*6), b.Commands[PrimitiveSegment].IndexCount)

	_, err = NewPrimitives(WithSegmentShape("cone", 4))
	assert.Error(t, err)
	_, err = NewPrimitives(WithSphereResolution(1))
	assert.Error(t, err)
}
