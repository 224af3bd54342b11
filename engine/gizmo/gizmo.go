// Package gizmo builds debug line lists (bounding volumes, axes, skeletons and IK targets)
// for the line pipeline.
package gizmo

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// Colors used by the helpers when the caller has no preference.
var (
	ColorWhite  = common.V3(1, 1, 1)
	ColorRed    = common.V3(1, 0, 0)
	ColorGreen  = common.V3(0, 1, 0)
	ColorBlue   = common.V3(0, 0, 1)
	ColorYellow = common.V3(1, 1, 0)
)

// SphereSegments is the number of segments of each great circle drawn by AddSphere.
const SphereSegments = 32

// LineBuffer accumulates line-list vertices. Every two consecutive vertices form one segment.
// The zero value is ready to use.
type LineBuffer struct {
	Vertices []model.GPULineVertex
}

// Reset empties the buffer and keeps its capacity.
func (b *LineBuffer) Reset() {
	b.Vertices = b.Vertices[:0]
}

// Len returns the number of segments in the buffer.
func (b *LineBuffer) Len() int {
	return len(b.Vertices) / 2
}

// AddSegment appends the segment from a to c.
func (b *LineBuffer) AddSegment(a, c, color common.Vec3) {
	col := color.Array()
	b.Vertices = append(b.Vertices,
		model.GPULineVertex{Position: a.Array(), Color: col},
		model.GPULineVertex{Position: c.Array(), Color: col},
	)
}

// AddLines appends a line list transformed as p*basis + offset.
//
// Parameters:
//   - points: line list, two points per segment
//   - basis: applied to each point as a row vector
//   - offset: translation added after the basis
//   - color: segment color
func (b *LineBuffer) AddLines(points []common.Vec3, basis common.Mat3, offset, color common.Vec3) {
	for i := 0; i+1 < len(points); i += 2 {
		b.AddSegment(points[i].MulMat(basis).Add(offset), points[i+1].MulMat(basis).Add(offset), color)
	}
}

// AddAABB appends the twelve edges of the axis-aligned box spanning lo to hi.
func (b *LineBuffer) AddAABB(lo, hi, color common.Vec3) {
	d := hi.Sub(lo)
	for _, e := range cubeEdges {
		b.AddSegment(unitCorners[e[0]].Mul(d).Add(lo), unitCorners[e[1]].Mul(d).Add(lo), color)
	}
}

// AddSphere appends three great circles of the sphere at center, one per axis plane.
func (b *LineBuffer) AddSphere(center common.Vec3, radius float32, color common.Vec3) {
	circle := Circle(SphereSegments)
	planes := [3]common.Mat3{
		common.M3(0, 0, 1, 0, 1, 0, -1, 0, 0), // YZ
		common.M3(1, 0, 0, 0, 0, 1, 0, -1, 0), // XZ
		common.Identity3(),                    // XY
	}
	for _, m := range planes {
		b.AddLines(circle, m.Scale(radius), center, color)
	}
}

// AddOBB appends the edges of an oriented box: the [-1, 1] cube mapped through orient
// (row-vector, so orient's columns carry the half extents) and moved to center.
func (b *LineBuffer) AddOBB(orient common.Mat3, center, color common.Vec3) {
	b.AddLines(Cube(), orient, center, color)
}

// AddAxes appends the three basis vectors of frame at origin, red X, green Y and blue Z,
// each size long. The basis vectors are the rows of frame.
func (b *LineBuffer) AddAxes(origin common.Vec3, frame common.Mat3, size float32) {
	colors := [3]common.Vec3{ColorRed, ColorGreen, ColorBlue}
	for i, c := range colors {
		b.AddSegment(origin, origin.Add(frame.Row(i).Normalize().Scale(size)), c)
	}
}

// AddSkeleton appends one segment per joint from its parent to the joint.
func (b *LineBuffer) AddSkeleton(pose *rig.Pose, color common.Vec3) {
	skel := pose.Skeleton()
	for i := 1; i < skel.Len(); i++ {
		id := rig.JointID(i)
		p := skel.Parent(id)
		if p == rig.Null {
			continue
		}
		b.AddSegment(pose.World[p], pose.World[id], color)
	}
}

// AddTargets appends a marker of the given size at every IK target queued on pose.
func (b *LineBuffer) AddTargets(pose *rig.Pose, size float32, color common.Vec3) {
	marker := Octahedron()
	for _, t := range pose.Targets() {
		b.AddLines(marker, common.Identity3().Scale(size), t.Position, color)
	}
}
