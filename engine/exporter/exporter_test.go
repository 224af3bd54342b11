package exporter

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/mesh"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

func frame(t *testing.T) (module.DrawDescriptor, module.Frame) {
	t.Helper()
	m := module.NewIKRigModule()
	t.Cleanup(m.Close)
	desc, err := m.Setup()
	require.NoError(t, err)
	f, err := m.Update(.7)
	require.NoError(t, err)
	return desc, f
}

func TestInstanceMatrix(t *testing.T) {
	rot := common.RotationAlign(common.V3(1, 1, 0).Normalize(), common.V3(0, 1, 0))
	inst := model.GPUInstance{
		Scale:    [3]float32{.2, 1.5, .3},
		Position: [3]float32{1, 2, 3},
		Rotation: rot.Array(),
	}
	m := InstanceMatrix(inst)

	v := common.V3(.5, 1, -.5)
	want := v.Mul(common.V3(.2, 1.5, .3)).MulMat(rot).Add(common.V3(1, 2, 3))
	got := common.V3(
		m[0]*v.X+m[4]*v.Y+m[8]*v.Z+m[12],
		m[1]*v.X+m[5]*v.Y+m[9]*v.Z+m[13],
		m[2]*v.X+m[6]*v.Y+m[10]*v.Z+m[14],
	)
	assert.InDelta(t, 0, got.Sub(want).Length(), 1e-5)
	assert.Equal(t, float32(1), m[15])
}

func TestNewDocument(t *testing.T) {
	desc, f := frame(t)
	doc, err := NewDocument(desc, f)
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 3)
	assert.Equal(t, "segment", doc.Meshes[mesh.PrimitiveSegment].Name)
	assert.Len(t, doc.Nodes, len(f.Instances))
	assert.Len(t, doc.Scenes[0].Nodes, len(f.Instances))
	for i, n := range doc.Nodes {
		require.NotNil(t, n.Mesh)
		assert.Equal(t, uint32(mesh.PrimitiveSegment), *n.Mesh)
		assert.Equal(t, InstanceMatrix(f.Instances[i]), n.Matrix)
	}

	sphere := doc.Meshes[mesh.PrimitiveSphere].Primitives[0]
	assert.Equal(t, uint32(600), doc.Accessors[sphere.Attributes["POSITION"]].Count)
	assert.Equal(t, uint32(2916), doc.Accessors[*sphere.Indices].Count)
}

func TestNewDocumentRejectsShortFrame(t *testing.T) {
	desc, f := frame(t)
	f.Instances = f.Instances[:3]
	_, err := NewDocument(desc, f)
	assert.Error(t, err)
}

func TestExportGLB(t *testing.T) {
	desc, f := frame(t)
	path := filepath.Join(t.TempDir(), "rig.glb")
	require.NoError(t, ExportGLB(path, desc, f))

	doc, err := gltf.Open(path)
	require.NoError(t, err)
	assert.Len(t, doc.Meshes, 3)
	assert.Len(t, doc.Nodes, len(f.Instances))
	cube := doc.Meshes[mesh.PrimitiveCube].Primitives[0]
	assert.Equal(t, uint32(24), doc.Accessors[cube.Attributes["POSITION"]].Count)
}
