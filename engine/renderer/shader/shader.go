package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	declarations               []Annotation
}

// Shader is a pre-processed WGSL stage with the layout metadata pipeline creation needs.
type Shader interface {
	// Key returns the unique identifier used for labels and lookups.
	Key() string

	// Source returns the expanded WGSL source.
	Source() string

	// ShaderType returns the stage this shader targets.
	ShaderType() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// VertexLayouts returns the vertex buffer layouts in slot order. Structs whose name
	// starts with "Instance" step per instance, every other input struct steps per vertex.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct, empty for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the buffer bindings declared by the source keyed
	// by group index, with MinBindingSize resolved from the bound struct.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Declarations returns the @oxy:group annotations of the source.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses WGSL source. Shader sources are embedded in the
// binary, so a malformed one is a programming error and panics.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the source is written for
//   - source: the WGSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, shaderType ShaderType, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s has no source", key))
	}
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %s: %v", key, err))
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		entryPoint:   parseEntryPoint(processed, shaderType),
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point for its stage", key))
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(processed)
		visibility = wgpu.ShaderStageVertex
	}
	s.bindGroupLayoutDescriptors = parseBindGroupLayouts(processed, visibility)
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
