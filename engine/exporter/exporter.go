// Package exporter writes a rig frame to glTF binary so it can be inspected in any viewer.
package exporter

import (
	"fmt"
	"log"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Carmen-Shannon/oxy-rig/engine/mesh"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

// primitiveNames labels the meshes built from the standard primitive slots.
var primitiveNames = map[int]string{
	mesh.PrimitiveCube:    "cube",
	mesh.PrimitiveSegment: "segment",
	mesh.PrimitiveSphere:  "sphere",
}

// NewDocument converts static geometry and one frame into a glTF document.
// Every draw command becomes a mesh; every instance drawn by a command becomes a node
// referencing that mesh, its matrix reproducing the instance transform.
//
// Parameters:
//   - desc: the geometry returned by Setup
//   - frame: the frame whose instances become nodes
//
// Returns:
//   - *gltf.Document: the document
//   - error: error if a command addresses instances outside the frame
func NewDocument(desc module.DrawDescriptor, frame module.Frame) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	buf := &mesh.Buffer{Vertices: desc.Vertices, Indices: desc.Indices}

	commands := frame.Commands
	if len(commands) == 0 {
		commands = desc.Commands
	}
	for i, cmd := range commands {
		if cmd.IndexCount == 0 {
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: meshName(i)})
			continue
		}
		verts, indices := buf.Primitive(cmd)
		positions := make([][3]float32, len(verts))
		normals := make([][3]float32, len(verts))
		for j, v := range verts {
			positions[j] = v.Position
			normals[j] = v.Normal
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: meshName(i),
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(modeler.WriteIndices(doc, append([]uint16(nil), indices...))),
				Attributes: map[string]uint32{
					"POSITION": modeler.WritePosition(doc, positions),
					"NORMAL":   modeler.WriteNormal(doc, normals),
				},
			}},
		})

		end := int(cmd.BaseInstance) + int(cmd.InstanceCount)
		if end > len(frame.Instances) {
			return nil, fmt.Errorf("command %d draws instances [%d, %d) of %d", i, cmd.BaseInstance, end, len(frame.Instances))
		}
		for j := int(cmd.BaseInstance); j < end; j++ {
			doc.Nodes = append(doc.Nodes, &gltf.Node{
				Name:   fmt.Sprintf("%s_%d", meshName(i), j),
				Mesh:   gltf.Index(uint32(i)),
				Matrix: InstanceMatrix(frame.Instances[j]),
			})
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
		}
	}
	return doc, nil
}

// ExportGLB writes desc and frame to path as a binary glTF file.
//
// Parameters:
//   - path: the output file
//   - desc: the geometry returned by Setup
//   - frame: the frame to export
//
// Returns:
//   - error: error if the document cannot be built or written
func ExportGLB(path string, desc module.DrawDescriptor, frame module.Frame) error {
	doc, err := NewDocument(desc, frame)
	if err != nil {
		return fmt.Errorf("failed to build gltf document: %w", err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[Exporter] wrote %s: %d meshes, %d nodes", path, len(doc.Meshes), len(doc.Nodes))
	return nil
}

// InstanceMatrix returns the column-major 4x4 matrix mapping a primitive vertex v to
// Position + (v*Scale) * Rotation, the transform the instanced shader applies.
func InstanceMatrix(inst model.GPUInstance) [16]float32 {
	var m [16]float32
	r := inst.Rotation
	for j := 0; j < 3; j++ {
		// column j of the linear part is row j of the rotation, scaled by Scale[j]
		m[4*j+0] = r[0+j] * inst.Scale[j]
		m[4*j+1] = r[3+j] * inst.Scale[j]
		m[4*j+2] = r[6+j] * inst.Scale[j]
	}
	m[12], m[13], m[14] = inst.Position[0], inst.Position[1], inst.Position[2]
	m[15] = 1
	return m
}

func meshName(i int) string {
	if name, ok := primitiveNames[i]; ok {
		return name
	}
	return fmt.Sprintf("primitive_%d", i)
}
