package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

// MaxResolution is the largest per-face grid that still addresses every vertex of a primitive
// with 16-bit indices (6 * 104 * 104 = 64896).
const MaxResolution = 104

// faceRotations orients the +Z grid onto each cube face: front, back, right, left, top, bottom.
// Grid points are multiplied as row vectors.
var faceRotations = [6]common.Mat3{
	common.M3(1, 0, 0, 0, 1, 0, 0, 0, 1),
	common.M3(-1, 0, 0, 0, 1, 0, 0, 0, -1),
	common.M3(0, 0, 1, 0, 1, 0, -1, 0, 0),
	common.M3(0, 0, -1, 0, 1, 0, 1, 0, 0),
	common.M3(1, 0, 0, 0, 0, 1, 0, -1, 0),
	common.M3(1, 0, 0, 0, 0, -1, 0, 1, 0),
}

// Buffer is the shared vertex/index storage of every primitive. Primitives are appended and
// never modified afterwards; each is addressed by its draw command.
type Buffer struct {
	Vertices []model.GPUVertex
	Indices  []uint16
	Commands []model.GPUDrawCommand
}

// GenCubeMap appends an n×n grid for each of the six cube faces, shaped by shape, and records
// a draw command for it. Each grid quad becomes two triangles wound counter-clockwise when seen
// from outside. Indices are relative to the primitive's base vertex.
//
// Normals come from the shape unless n <= 2 or the shape leaves any normal zero; then they are
// accumulated from the unnormalized face normals of every triangle touching a vertex and
// normalized.
//
// It panics when n is outside [2, MaxResolution].
//
// Parameters:
//   - n: grid resolution per face edge
//   - shape: the vertex shaping function
//
// Returns:
//   - model.GPUDrawCommand: {indexCount, 0, firstIndex, baseVertex, 0}
func (b *Buffer) GenCubeMap(n int, shape Shape) model.GPUDrawCommand {
	if n < 2 || n > MaxResolution {
		panic(fmt.Sprintf("mesh: cube map resolution %d outside [2, %d]", n, MaxResolution))
	}
	baseVertex := len(b.Vertices)
	firstIndex := len(b.Indices)
	analytic := true

	edge := float32(n - 1)
	for _, face := range faceRotations {
		for t := 0; t < n; t++ {
			for s := 0; s < n; s++ {
				uv := common.V3(float32(s)/edge*2-1, float32(t)/edge*2-1, 1).MulMat(face)
				idx := uint16(len(b.Vertices) - baseVertex)

				pos, nor := shape(uv)
				if nor.IsZero() {
					analytic = false
				}
				b.Vertices = append(b.Vertices, model.GPUVertex{Position: pos.Array(), Normal: nor.Array()})

				if s != n-1 && t != n-1 {
					w := uint16(n)
					b.Indices = append(b.Indices,
						idx, idx+1, idx+w,
						idx+w, idx+1, idx+1+w,
					)
				}
			}
		}
	}

	if n <= 2 || !analytic {
		accumulateNormals(b.Vertices[baseVertex:], b.Indices[firstIndex:])
	}

	cmd := model.GPUDrawCommand{
		IndexCount: uint32(len(b.Indices) - firstIndex),
		FirstIndex: uint32(firstIndex),
		BaseVertex: int32(baseVertex),
	}
	b.Commands = append(b.Commands, cmd)
	return cmd
}

// accumulateNormals replaces every normal with the normalized sum of cross(p1-p0, p2-p1) over
// the triangles that reference the vertex.
func accumulateNormals(vertices []model.GPUVertex, indices []uint16) {
	sums := make([]common.Vec3, len(vertices))
	pos := func(i uint16) common.Vec3 {
		p := vertices[i].Position
		return common.V3(p[0], p[1], p[2])
	}
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := pos(i0), pos(i1), pos(i2)
		nor := p1.Sub(p0).Cross(p2.Sub(p1))
		sums[i0] = sums[i0].Add(nor)
		sums[i1] = sums[i1].Add(nor)
		sums[i2] = sums[i2].Add(nor)
	}
	for i := range vertices {
		vertices[i].Normal = sums[i].Normalize().Array()
	}
}

// Primitive returns the vertices and indices of the primitive recorded by cmd, with indices
// rebased to the returned vertex slice.
func (b *Buffer) Primitive(cmd model.GPUDrawCommand) ([]model.GPUVertex, []uint16) {
	indices := b.Indices[cmd.FirstIndex : cmd.FirstIndex+cmd.IndexCount]
	maxIdx := uint16(0)
	for _, i := range indices {
		if i > maxIdx {
			maxIdx = i
		}
	}
	base := int(cmd.BaseVertex)
	return b.Vertices[base : base+int(maxIdx)+1], indices
}

// Bounds returns the axis-aligned bounds of the primitive recorded by cmd.
func (b *Buffer) Bounds(cmd model.GPUDrawCommand) (lo, hi common.Vec3) {
	verts, _ := b.Primitive(cmd)
	for i, v := range verts {
		p := common.V3(v.Position[0], v.Position[1], v.Position[2])
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = common.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = common.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	return lo, hi
}
