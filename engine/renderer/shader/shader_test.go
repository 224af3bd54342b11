package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRigSource = `
//@oxy:include vertex
//@oxy:include instance
//@oxy:include camera
//@oxy:group 0 0 storage_uniform camera camera

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput, inst: InstanceInput) -> VertexOutput {
    var out: VertexOutput;
    let rot = mat3x3<f32>(inst.rot0, inst.rot1, inst.rot2);
    let world = inst.position + (in.position * inst.scale) * rot;
    out.clip = camera.view_proj * vec4<f32>(world, 1.0);
    out.normal = in.normal * rot;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.normal * 0.5 + 0.5, 1.0);
}
`

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testRigSource)
	require.NoError(t, err)

	assert.NotContains(t, out, "@oxy:")
	assert.Contains(t, out, "struct VertexInput")
	assert.Contains(t, out, "struct InstanceInput")
	assert.Contains(t, out, "struct CameraUniform")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 0, *decls[0].Group)
	assert.Equal(t, 0, *decls[0].Binding)
	assert.Equal(t, AnnotationArgCamera, decls[0].Args[2])
	assert.Equal(t, 5, decls[0].Line)
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process(testRigSource)
	require.NoError(t, err)

	_, err = pp.Process("//@oxy:include line\n")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestAnnotationErrors(t *testing.T) {
	cases := map[string]string{
		"empty":           "//@oxy:",
		"unknown type":    "//@oxy:texture 0",
		"unknown struct":  "//@oxy:include material",
		"include arity":   "//@oxy:include vertex instance",
		"group arity":     "//@oxy:group 0 0 storage_uniform camera",
		"bad group":       "//@oxy:group a 0 storage_uniform camera camera",
		"bad binding":     "//@oxy:group 0 b storage_uniform camera camera",
		"bad space":       "//@oxy:group 0 0 storage_write camera camera",
		"bad group type":  "//@oxy:group 0 0 storage_uniform camera light",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseAnnotation(line, 7)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 7")
		})
	}
}

func TestAnnotationIgnoresPlainLines(t *testing.T) {
	for _, line := range []string{"", "let x = 1.0;", "// a comment", "let s = \"@oxy:include vertex\";"} {
		a, err := parseAnnotation(line, 1)
		assert.NoError(t, err)
		assert.Nil(t, a)
	}
}

func TestNewShaderVertexLayouts(t *testing.T) {
	s := NewShader("rig_vs", ShaderTypeVertex, testRigSource)

	assert.Equal(t, "rig_vs", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)

	vertex := layouts[0]
	assert.Equal(t, uint64(24), vertex.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vertex.StepMode)
	require.Len(t, vertex.Attributes, 2)
	assert.Equal(t, uint32(0), vertex.Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(1), vertex.Attributes[1].ShaderLocation)
	assert.Equal(t, uint64(12), vertex.Attributes[1].Offset)

	instance := layouts[1]
	assert.Equal(t, uint64(60), instance.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, instance.StepMode)
	require.Len(t, instance.Attributes, 5)
	for i, attr := range instance.Attributes {
		assert.Equal(t, uint32(2+i), attr.ShaderLocation)
		assert.Equal(t, uint64(12*i), attr.Offset)
		assert.Equal(t, wgpu.VertexFormatFloat32x3, attr.Format)
	}
}

func TestNewShaderBindGroups(t *testing.T) {
	s := NewShader("rig_vs", ShaderTypeVertex, testRigSource)

	groups := s.BindGroupLayoutDescriptors()
	require.Contains(t, groups, 0)
	entries := groups[0].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entries[0].Visibility)

	require.Len(t, s.Declarations(), 1)
}

func TestNewShaderFragment(t *testing.T) {
	s := NewShader("rig_fs", ShaderTypeFragment, testRigSource)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Equal(t, wgpu.ShaderStageFragment, s.BindGroupLayoutDescriptors()[0].Entries[0].Visibility)
}

func TestNewShaderPanics(t *testing.T) {
	assert.Panics(t, func() { NewShader("empty", ShaderTypeVertex, "") })
	assert.Panics(t, func() { NewShader("bad", ShaderTypeVertex, "//@oxy:include nope\n@vertex fn main() {}") })
	assert.Panics(t, func() { NewShader("no_entry", ShaderTypeFragment, "@vertex fn vs_main() {}") })
}

func TestLineLayout(t *testing.T) {
	s := NewShader("line_vs", ShaderTypeVertex, "//@oxy:include line\n@vertex\nfn vs_line(in: LineInput) -> @builtin(position) vec4<f32> { return vec4<f32>(in.position, 1.0); }")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, "vs_line", s.EntryPoint())
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Plane": {16, 16}}

	cases := []struct {
		typeName string
		want     wgslTypeLayout
		ok       bool
	}{
		{"f32", wgslTypeLayout{4, 4}, true},
		{"vec3<f32>", wgslTypeLayout{12, 16}, true},
		{"mat4x4<f32>", wgslTypeLayout{64, 16}, true},
		{"Plane", wgslTypeLayout{16, 16}, true},
		{"array<Plane, 6>", wgslTypeLayout{96, 16}, true},
		{"array<vec3<f32>, 2>", wgslTypeLayout{32, 16}, true},
		{"array<f32>", wgslTypeLayout{}, false},
		{"Unknown", wgslTypeLayout{}, false},
	}
	for _, c := range cases {
		got, ok := resolveTypeLayout(c.typeName, known)
		assert.Equal(t, c.ok, ok, c.typeName)
		assert.Equal(t, c.want, got, c.typeName)
	}
}

func TestComputeStructSizesNested(t *testing.T) {
	structs := parseStructBlocks(`
struct Outer { inner: Inner, scale: f32, }
struct Inner { a: vec3<f32>, b: f32, }
`)
	sizes := computeStructSizes(structs)
	assert.Equal(t, wgslTypeLayout{16, 16}, sizes["Inner"])
	assert.Equal(t, wgslTypeLayout{32, 16}, sizes["Outer"])
}

func TestStripComments(t *testing.T) {
	out := stripComments("a /* b /* c */ d */ e // f\ng")
	assert.Equal(t, "a  e \ng", strings.TrimSuffix(out, "\n"))
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: array<f32, 4>, b: f32")
	require.Len(t, parts, 2)
	assert.Equal(t, "a: array<f32, 4>", parts[0])
	assert.Equal(t, " b: f32", parts[1])
}
