package scene

import (
	_ "embed"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/rig_vertex.wgsl
var rigVertexSource string

//go:embed assets/rig_fragment.wgsl
var rigFragmentSource string

//go:embed assets/line_vertex.wgsl
var lineVertexSource string

//go:embed assets/line_fragment.wgsl
var lineFragmentSource string

const (
	// RigPipelineKey is the pipeline drawing instanced primitives.
	RigPipelineKey = "rig"
	// LinePipelineKey is the pipeline drawing gizmo line lists.
	LinePipelineKey = "line"
)

// Record strides of the per-frame buffers.
const (
	instanceStride = 60
	commandStride  = 20
	lineStride     = 24
)

// failureLogInterval throttles repeated update failures to one log line per this many frames.
const failureLogInterval = 120

// scene implements the Scene interface.
// It owns the module it drives and every GPU buffer the module's frames are copied into.
type scene struct {
	mu *sync.Mutex

	name   string
	active bool

	renderer renderer.Renderer
	camera   camera.Camera
	module   module.Module

	paused        bool
	speed         float32
	clock         float32
	cull          bool
	cullBackFaces bool
	failures      int

	cameraProvider bind_group_provider.BindGroupProvider
	meshProvider   bind_group_provider.BindGroupProvider

	instanceBuffer   *wgpu.Buffer
	instanceCapacity int
	indirectBuffer   *wgpu.Buffer
	commandCount     int
	lineBuffer       *wgpu.Buffer
	lineCapacity     int
	lineCount        int

	frame module.Frame
	ready bool
}

// Scene drives one animation module on the render loop. Each Update advances the scene
// clock, evaluates the module and copies the resulting frame into GPU buffers; DrawCalls
// records one indirect draw per primitive plus the gizmo lines.
type Scene interface {
	// Name returns the scene's label.
	Name() string

	// Active reports whether the engine renders this scene.
	Active() bool

	// SetActive enables or disables rendering.
	//
	// Parameters:
	//   - active: whether the scene is rendered
	SetActive(active bool)

	// Renderer returns the renderer the scene draws with.
	Renderer() renderer.Renderer

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Module returns the animation module the scene drives.
	Module() module.Module

	// Setup runs the module's Setup and uploads its static geometry.
	//
	// Returns:
	//   - error: error if the module or the upload fails
	Setup() error

	// Reload hands cfg to the module and re-uploads the rebuilt geometry.
	// The clock keeps running across reloads. On error the previous geometry stays bound.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: error if the module rejects cfg or the upload fails
	Reload(cfg config.Config) error

	// Update advances the clock by dt (unless paused), evaluates the module and uploads the frame.
	// A failed evaluation keeps the last good frame on the GPU.
	//
	// Parameters:
	//   - dt: wall-clock seconds since the previous Update
	Update(dt float32)

	// DrawCalls records the scene's draws into the renderer's open frame.
	//
	// Returns:
	//   - error: the first draw error
	DrawCalls() error

	// Paused reports whether the clock is stopped.
	Paused() bool

	// SetPaused stops or resumes the clock.
	SetPaused(paused bool)

	// Speed returns the clock multiplier.
	Speed() float32

	// SetSpeed sets the clock multiplier. Negative values are clamped to 0.
	SetSpeed(speed float32)

	// Clock returns the module time of the last Update.
	Clock() float32

	// Frame returns a copy of the last uploaded frame.
	Frame() module.Frame

	// Close releases the module and every GPU resource the scene owns.
	Close()
}

var _ Scene = &scene{}

// NewScene creates a Scene for the given module and builds the rig and line pipelines on r.
// Pipelines already registered on r under RigPipelineKey or LinePipelineKey are reused,
// so several scenes can share one renderer. Setup must be called before the first Update.
//
// The camera is given a camera.FollowController when it has none, so the view follows
// the camera each module frame requests.
//
// Parameters:
//   - name: the scene label used in logs and buffer labels
//   - cam: the scene camera
//   - r: the renderer to draw with
//   - mod: the animation module to drive
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, mod module.Module, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: camera is required")
	}
	if r == nil {
		panic("scene: renderer is required")
	}
	if mod == nil {
		panic("scene: module is required")
	}

	s := &scene{
		mu:             &sync.Mutex{},
		name:           name,
		active:         true,
		renderer:       r,
		camera:         cam,
		module:         mod,
		speed:          1,
		cull:           true,
		cameraProvider: bind_group_provider.NewBindGroupProvider(name + " Camera"),
		meshProvider:   bind_group_provider.NewBindGroupProvider(name + " Mesh"),
	}

	for _, opt := range options {
		opt(s)
	}

	if _, ok := cam.Controller().(camera.FollowController); !ok {
		cam.SetController(camera.NewFollowController())
	}

	rigVertex := shader.NewShader(RigPipelineKey+"_vertex", shader.ShaderTypeVertex, rigVertexSource)
	if err := s.registerPipelines(rigVertex); err != nil {
		panic(fmt.Sprintf("scene %q: %v", name, err))
	}

	descriptor, ok := rigVertex.BindGroupLayoutDescriptors()[0]
	if !ok {
		panic(fmt.Sprintf("scene %q: rig shader declares no camera group", name))
	}
	if err := r.InitBindGroup(s.cameraProvider, descriptor, nil, nil); err != nil {
		panic(fmt.Sprintf("scene %q: failed to create camera bind group: %v", name, err))
	}

	return s
}

// registerPipelines builds the rig and line pipelines unless r already holds them.
func (s *scene) registerPipelines(rigVertex shader.Shader) error {
	var pipelines []pipeline.Pipeline

	if s.renderer.Pipeline(RigPipelineKey) == nil {
		cullMode := wgpu.CullModeNone
		if s.cullBackFaces {
			cullMode = wgpu.CullModeBack
		}
		pipelines = append(pipelines, pipeline.NewPipeline(RigPipelineKey,
			pipeline.WithVertexShader(rigVertex),
			pipeline.WithFragmentShader(shader.NewShader(RigPipelineKey+"_fragment", shader.ShaderTypeFragment, rigFragmentSource)),
			pipeline.WithCullMode(cullMode),
		))
	}

	if s.renderer.Pipeline(LinePipelineKey) == nil {
		pipelines = append(pipelines, pipeline.NewPipeline(LinePipelineKey,
			pipeline.WithVertexShader(shader.NewShader(LinePipelineKey+"_vertex", shader.ShaderTypeVertex, lineVertexSource)),
			pipeline.WithFragmentShader(shader.NewShader(LinePipelineKey+"_fragment", shader.ShaderTypeFragment, lineFragmentSource)),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		))
	}

	return s.renderer.RegisterPipelines(pipelines...)
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Renderer() renderer.Renderer {
	return s.renderer
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Module() module.Module {
	return s.module
}

func (s *scene) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := s.module.Setup()
	if err != nil {
		return fmt.Errorf("scene %q setup: %w", s.name, err)
	}
	if err := s.upload(desc); err != nil {
		return fmt.Errorf("scene %q setup: %w", s.name, err)
	}
	if !s.cull {
		s.module.SetFrustum(nil)
	}
	log.Printf("[Scene] %s: %d primitives, %d vertices, %d instances max", s.name, len(desc.Commands), len(desc.Vertices), desc.MaxInstances)
	return nil
}

func (s *scene) Reload(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := s.module.Reload(cfg)
	if err != nil {
		return fmt.Errorf("scene %q reload: %w", s.name, err)
	}
	if err := s.upload(desc); err != nil {
		return fmt.Errorf("scene %q reload: %w", s.name, err)
	}
	s.failures = 0
	log.Printf("[Scene] %s: reloaded, %d primitives, %d instances max", s.name, len(desc.Commands), desc.MaxInstances)
	return nil
}

// upload replaces the mesh, instance and indirect buffers with ones sized for desc.
// The previous frame is dropped since its commands address the old geometry.
func (s *scene) upload(desc module.DrawDescriptor) error {
	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return fmt.Errorf("empty draw descriptor")
	}
	if err := s.renderer.InitMeshBuffers(s.meshProvider, model.MarshalVertices(desc.Vertices), model.MarshalIndices(desc.Indices), len(desc.Indices)); err != nil {
		return fmt.Errorf("failed to upload mesh: %w", err)
	}

	if s.indirectBuffer != nil {
		s.indirectBuffer.Release()
		s.indirectBuffer = nil
	}
	indirect, err := s.renderer.CreateBuffer(s.name+" Indirect Buffer", uint64(max(len(desc.Commands), 1))*commandStride, wgpu.BufferUsageIndirect)
	if err != nil {
		return fmt.Errorf("failed to create indirect buffer: %w", err)
	}
	s.indirectBuffer = indirect
	s.commandCount = len(desc.Commands)
	s.renderer.WriteBuffer(s.indirectBuffer, 0, model.MarshalDrawCommands(desc.Commands))

	s.releaseFrameBuffers()
	if err := s.ensureInstanceCapacity(desc.MaxInstances); err != nil {
		return err
	}
	if err := s.ensureLineCapacity(desc.MaxLines); err != nil {
		return err
	}

	s.frame = module.Frame{}
	s.lineCount = 0
	s.ready = true
	return nil
}

// releaseFrameBuffers drops the instance and line buffers so the next ensure call recreates them.
func (s *scene) releaseFrameBuffers() {
	if s.instanceBuffer != nil {
		s.instanceBuffer.Release()
	}
	if s.lineBuffer != nil {
		s.lineBuffer.Release()
	}
	s.instanceBuffer, s.lineBuffer = nil, nil
	s.instanceCapacity, s.lineCapacity = 0, 0
}

// ensureInstanceCapacity grows the instance buffer to hold at least n records.
func (s *scene) ensureInstanceCapacity(n int) error {
	if s.instanceCapacity > 0 && n <= s.instanceCapacity {
		return nil
	}
	capacity := max(n, 1)
	buf, err := s.renderer.CreateBuffer(s.name+" Instance Buffer", uint64(capacity)*instanceStride, wgpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("failed to create instance buffer: %w", err)
	}
	if s.instanceBuffer != nil {
		s.instanceBuffer.Release()
	}
	s.instanceBuffer = buf
	s.instanceCapacity = capacity
	return nil
}

// ensureLineCapacity grows the line buffer to hold at least n vertices, doubling to amortize growth.
func (s *scene) ensureLineCapacity(n int) error {
	if s.lineCapacity > 0 && n <= s.lineCapacity {
		return nil
	}
	capacity := max(n, s.lineCapacity*2, 64)
	buf, err := s.renderer.CreateBuffer(s.name+" Line Buffer", uint64(capacity)*lineStride, wgpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("failed to create line buffer: %w", err)
	}
	if s.lineBuffer != nil {
		s.lineBuffer.Release()
	}
	s.lineBuffer = buf
	s.lineCapacity = capacity
	return nil
}

func (s *scene) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	if !s.paused {
		s.clock += dt * s.speed
	}

	frame, err := s.module.Update(s.clock)
	if err != nil {
		s.failures++
		if s.failures == 1 || s.failures%failureLogInterval == 0 {
			log.Printf("[Scene] %s: update at t=%.3f failed (%d in a row): %v", s.name, s.clock, s.failures, err)
		}
		if !frame.Reused {
			return
		}
	} else {
		s.failures = 0
	}
	if len(frame.Commands) != s.commandCount {
		log.Printf("[Scene] %s: frame has %d commands, expected %d; keeping last frame", s.name, len(frame.Commands), s.commandCount)
		return
	}

	if ctrl, ok := s.camera.Controller().(camera.FollowController); ok {
		ctrl.Follow(frame.Camera)
	}
	s.camera.Update()
	if s.cull {
		frustum := s.camera.Frustum()
		s.module.SetFrustum(&frustum)
	}

	if err := s.ensureInstanceCapacity(len(frame.Instances)); err != nil {
		log.Printf("[Scene] %s: %v", s.name, err)
		return
	}
	if err := s.ensureLineCapacity(len(frame.Lines)); err != nil {
		log.Printf("[Scene] %s: %v", s.name, err)
		return
	}

	uniform := s.camera.Uniform()
	s.renderer.WriteBuffer(s.instanceBuffer, 0, model.MarshalInstances(frame.Instances))
	s.renderer.WriteBuffer(s.indirectBuffer, 0, model.MarshalDrawCommands(frame.Commands))
	s.renderer.WriteBuffer(s.lineBuffer, 0, model.MarshalLines(frame.Lines))
	s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(s.cameraProvider, 0, uniform.Marshal()),
	})

	s.frame = frame
	s.lineCount = len(frame.Lines)
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}

	groups := []bind_group_provider.BindGroupProvider{s.cameraProvider}
	for i, cmd := range s.frame.Commands {
		if cmd.InstanceCount == 0 || cmd.IndexCount == 0 {
			continue
		}
		if err := s.renderer.DrawIndexedIndirect(RigPipelineKey, s.meshProvider, s.instanceBuffer, s.indirectBuffer, uint64(i)*commandStride, groups); err != nil {
			return fmt.Errorf("scene %q primitive %d: %w", s.name, i, err)
		}
	}

	if err := s.renderer.DrawLines(LinePipelineKey, s.lineBuffer, uint32(s.lineCount), groups); err != nil {
		return fmt.Errorf("scene %q lines: %w", s.name, err)
	}
	return nil
}

func (s *scene) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *scene) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *scene) Speed() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

func (s *scene) SetSpeed(speed float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = max(speed, 0)
}

func (s *scene) Clock() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *scene) Frame() module.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.Clone()
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.module.Close()
	s.releaseFrameBuffers()
	if s.indirectBuffer != nil {
		s.indirectBuffer.Release()
		s.indirectBuffer = nil
	}
	s.cameraProvider.Release()
	s.meshProvider.Release()
	s.ready = false
}
