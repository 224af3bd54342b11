package mesh

import (
	"fmt"
	"log"
)

// Primitive slots in the shared buffer built by NewPrimitives.
const (
	PrimitiveCube = iota
	PrimitiveSegment
	PrimitiveSphere
)

// SegmentShape names the shape used for the skinned segment primitive.
type SegmentShape string

const (
	SegmentBox     SegmentShape = "box"
	SegmentCapsule SegmentShape = "capsule"
)

type primitivesConfig struct {
	sphereResolution  int
	segmentShape      SegmentShape
	segmentResolution int
}

type PrimitivesBuilderOption func(*primitivesConfig)

// WithSphereResolution sets the per-face grid resolution of the sphere primitive.
func WithSphereResolution(n int) PrimitivesBuilderOption {
	return func(c *primitivesConfig) {
		c.sphereResolution = n
	}
}

// WithSegmentShape selects the segment primitive shape and its resolution.
// A box is always built at resolution 2.
//
// Parameters:
//   - shape: SegmentBox or SegmentCapsule
//   - n: grid resolution for the capsule
//
// Returns:
//   - PrimitivesBuilderOption: a function that sets the segment shape
func WithSegmentShape(shape SegmentShape, n int) PrimitivesBuilderOption {
	return func(c *primitivesConfig) {
		c.segmentShape = shape
		c.segmentResolution = n
	}
}

// NewPrimitives builds the shared primitive buffer: a cube, the segment primitive drawn once per
// bone and a sphere, in the PrimitiveCube, PrimitiveSegment and PrimitiveSphere slots.
//
// Parameters:
//   - options: primitive options
//
// Returns:
//   - *Buffer: the populated buffer
//   - error: error if an option is out of range
func NewPrimitives(options ...PrimitivesBuilderOption) (*Buffer, error) {
	c := &primitivesConfig{
		sphereResolution:  10,
		segmentShape:      SegmentBox,
		segmentResolution: 2,
	}
	for _, opt := range options {
		opt(c)
	}

	segment := Shape(HalfCube)
	segmentN := 2
	switch c.segmentShape {
	case SegmentBox, "":
	case SegmentCapsule:
		segment = Capsule
		segmentN = c.segmentResolution
	default:
		return nil, fmt.Errorf("unknown segment shape %q", c.segmentShape)
	}
	for _, n := range []int{c.sphereResolution, segmentN} {
		if n < 2 || n > MaxResolution {
			return nil, fmt.Errorf("resolution %d outside [2, %d]", n, MaxResolution)
		}
	}

	b := &Buffer{}
	b.GenCubeMap(2, Cube)
	b.GenCubeMap(segmentN, segment)
	b.GenCubeMap(c.sphereResolution, Sphere)

	log.Printf("[Mesh] built %d primitives: %d vertices, %d indices", len(b.Commands), len(b.Vertices), len(b.Indices))
	return b, nil
}
