package mesh

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Shape maps a cube-map coordinate (a point on the surface of the [-1, 1] cube) to a vertex
// position and normal. A zero normal means the shape has no analytic normal at that point and
// the generator derives one from the faces around the vertex.
type Shape func(uv common.Vec3) (pos, nor common.Vec3)

// Cube leaves the cube-map coordinate unchanged.
func Cube(uv common.Vec3) (common.Vec3, common.Vec3) {
	return uv, common.Vec3{}
}

// HalfCube is the unit segment primitive: a cube of edge 1 spanning y in [0, 1], so an instance
// scale of (w, length, w) stretches it from a joint's parent to the joint.
func HalfCube(uv common.Vec3) (common.Vec3, common.Vec3) {
	return uv.Add(common.V3(0, 1, 0)).Scale(.5), common.Vec3{}
}

// Sphere projects the cube onto the unit sphere.
func Sphere(uv common.Vec3) (common.Vec3, common.Vec3) {
	nor := uv.Normalize()
	return nor, nor
}

// RoundedBox returns a sphere pushed outwards by half along each axis, which gives a box with
// rounded edges: nor = normalize(uv), pos = nor + sign(uv)*half.
//
// Parameters:
//   - half: per-axis extension of the flat sides
//
// Returns:
//   - Shape: the rounded box shape
func RoundedBox(half common.Vec3) Shape {
	return func(uv common.Vec3) (common.Vec3, common.Vec3) {
		nor := uv.Normalize()
		return nor.Add(uv.Sign().Mul(half)), nor
	}
}

// Capsule is a rounded box with only the Y sides extended, scaled and lifted to span y in
// [0, 1] like HalfCube. Its radius is 0.25.
func Capsule(uv common.Vec3) (common.Vec3, common.Vec3) {
	pos, nor := RoundedBox(common.V3(0, 1, 0))(uv)
	return pos.Scale(.25).Add(common.V3(0, .5, 0)), nor
}

// Transform wraps a shape with a uniform scale followed by a translation. Normals are kept.
func Transform(shape Shape, scale float32, offset common.Vec3) Shape {
	return func(uv common.Vec3) (common.Vec3, common.Vec3) {
		pos, nor := shape(uv)
		return pos.Scale(scale).Add(offset), nor
	}
}
