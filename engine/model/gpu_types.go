package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for the shared primitive mesh.
// Matches GPUVertex layout exactly (24 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU representation of a single vertex of the shared primitive mesh.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 24 bytes (tightly packed vertex attributes, no padding).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in primitive space (12 bytes)
	Normal   [3]float32 // offset 12: unit vertex normal (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 24)
	putFloats(buf, g.Position[:])
	putFloats(buf[12:], g.Normal[:])
	return buf
}

// GPUInstanceSource is the canonical WGSL definition of the InstanceInput struct consumed by the capsule pipeline.
// Matches GPUInstance layout exactly (60 bytes).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the per-bone instance record emitted by skinning.
// The rotation is stored column-major and applied to primitive vertices as a row vector, after the
// non-uniform scale: world = Position + (vertex * Scale) * Rotation.
// Size: 60 bytes (five vec3 attributes, no padding).
type GPUInstance struct {
	Scale    [3]float32 // offset  0: per-axis scale; Y carries the bone length (12 bytes)
	Position [3]float32 // offset 12: world position of the segment base (12 bytes)
	Rotation [9]float32 // offset 24: 3x3 rotation, column-major (36 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 60-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, 60)
	g.marshalInto(buf)
	return buf
}

func (g *GPUInstance) marshalInto(buf []byte) {
	putFloats(buf, g.Scale[:])
	putFloats(buf[12:], g.Position[:])
	putFloats(buf[24:], g.Rotation[:])
}

// GPUDrawCommand is one indexed-indirect draw record, laid out the way DrawIndexedIndirect reads it.
// Size: 20 bytes (five 32-bit fields, no padding).
type GPUDrawCommand struct {
	IndexCount    uint32 // offset  0: number of indices in the primitive (4 bytes)
	InstanceCount uint32 // offset  4: number of instances drawn this frame (4 bytes)
	FirstIndex    uint32 // offset  8: first index in the shared index buffer (4 bytes)
	BaseVertex    int32  // offset 12: value added to each index before fetching a vertex (4 bytes)
	BaseInstance  uint32 // offset 16: first instance in the instance buffer (4 bytes)
}

// Size returns the size of the GPUDrawCommand struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawCommand) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawCommand struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUDrawCommand) Marshal() []byte {
	buf := make([]byte, 20)
	g.marshalInto(buf)
	return buf
}

func (g *GPUDrawCommand) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:8], g.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:12], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(g.BaseVertex))
	binary.LittleEndian.PutUint32(buf[16:20], g.BaseInstance)
}

// GPULineVertexSource is the canonical WGSL definition of the LineInput struct for the gizmo line pipeline.
//
//go:embed assets/line_vertex.wgsl
var GPULineVertexSource string

// GPULineVertex is a single endpoint of a gizmo line segment.
// Size: 24 bytes.
type GPULineVertex struct {
	Position [3]float32 // offset  0: world position (12 bytes)
	Color    [3]float32 // offset 12: linear RGB color (12 bytes)
}

// Size returns the size of the GPULineVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULineVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULineVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPULineVertex) Marshal() []byte {
	buf := make([]byte, 24)
	putFloats(buf, g.Position[:])
	putFloats(buf[12:], g.Color[:])
	return buf
}

// MarshalVertices serializes a vertex slice into one contiguous upload buffer.
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, len(vertices)*24)
	for i := range vertices {
		putFloats(buf[i*24:], vertices[i].Position[:])
		putFloats(buf[i*24+12:], vertices[i].Normal[:])
	}
	return buf
}

// MarshalIndices serializes 16-bit indices, padding the result to a multiple of 4 bytes
// as WriteBuffer requires.
func MarshalIndices(indices []uint16) []byte {
	n := len(indices) * 2
	buf := make([]byte, (n+3)&^3)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// MarshalInstances serializes an instance slice into one contiguous upload buffer.
func MarshalInstances(instances []GPUInstance) []byte {
	buf := make([]byte, len(instances)*60)
	for i := range instances {
		instances[i].marshalInto(buf[i*60:])
	}
	return buf
}

// MarshalDrawCommands serializes draw commands into one contiguous indirect buffer.
func MarshalDrawCommands(commands []GPUDrawCommand) []byte {
	buf := make([]byte, len(commands)*20)
	for i := range commands {
		commands[i].marshalInto(buf[i*20:])
	}
	return buf
}

// MarshalLines serializes line vertices into one contiguous upload buffer.
func MarshalLines(lines []GPULineVertex) []byte {
	buf := make([]byte, len(lines)*24)
	for i := range lines {
		putFloats(buf[i*24:], lines[i].Position[:])
		putFloats(buf[i*24+12:], lines[i].Color[:])
	}
	return buf
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(v))
	}
}
