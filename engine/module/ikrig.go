package module

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/mesh"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// State is everything an IK rig module owns between calls. It is built by Setup and replaced
// as a whole by Reload.
type State struct {
	Config     config.Config
	Skeleton   rig.Skeleton
	Skinner    rig.Skinner
	Crowd      rig.Crowd
	Primitives *mesh.Buffer
	Lines      gizmo.LineBuffer

	// Previous is the last frame that evaluated cleanly.
	Previous Frame
	// Extent is the half width of the crowd grid, 0 for a single rig.
	Extent float32

	instances []model.GPUInstance
}

type ikRigModule struct {
	mu *sync.Mutex

	cfg      config.Config
	skeleton rig.Skeleton
	drivers  func(cfg config.Config, i int) []rig.Driver

	state   *State
	frustum *common.Frustum
}

var _ Module = &ikRigModule{}

// NewIKRigModule creates the IK rig module. Setup must be called before Update.
//
// Parameters:
//   - options: module options
//
// Returns:
//   - Module: the module
func NewIKRigModule(options ...ModuleBuilderOption) Module {
	m := &ikRigModule{
		mu:      &sync.Mutex{},
		cfg:     config.Default(),
		drivers: Drivers,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.skeleton == nil {
		m.skeleton = rig.NewHumanoid()
	}
	return m
}

// Drivers builds the driver stack selected by cfg.Animation.Mode for rig i.
func Drivers(cfg config.Config, i int) []rig.Driver {
	a := cfg.Animation
	drivers := []rig.Driver{rig.HipsBob{Joint: rig.Hips, Amplitude: a.BobHeight, Speed: a.BobSpeed}}

	reach := rig.HumanoidReach()
	for j := range reach.Reaches {
		if r := &reach.Reaches[j]; r.End == rig.WristR || r.End == rig.WristL {
			r.Scale = a.ReachScale
		}
	}
	gait := rig.HumanoidGait()
	gait.Lift = a.GaitLift
	gait.Speed = a.GaitSpeed
	gait.Keys = a.GaitKeys

	switch a.Mode {
	case "gait":
		drivers = append(drivers, gait)
	case "both":
		drivers = append(drivers, reach, gait)
	default:
		drivers = append(drivers, reach)
	}
	return drivers
}

func (m *ikRigModule) Setup() (DrawDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.build(m.cfg)
	if err != nil {
		return DrawDescriptor{}, err
	}
	if m.state != nil {
		m.state.Crowd.Close()
	}
	m.state = state
	return m.descriptor(), nil
}

func (m *ikRigModule) Reload(cfg config.Config) (DrawDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.build(cfg)
	if err != nil {
		return DrawDescriptor{}, fmt.Errorf("failed to reload module: %w", err)
	}
	if m.state != nil {
		m.state.Crowd.Close()
	}
	m.cfg = cfg
	m.state = state
	log.Printf("[Module] reloaded: %d rigs, mode %s", cfg.Crowd.Size, cfg.Animation.Mode)
	return m.descriptor(), nil
}

// build constructs a complete State from cfg without touching the module.
func (m *ikRigModule) build(cfg config.Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prims, err := mesh.NewPrimitives(
		mesh.WithSphereResolution(cfg.Mesh.SphereResolution),
		mesh.WithSegmentShape(mesh.SegmentShape(cfg.Mesh.SegmentShape), cfg.Mesh.SegmentResolution),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build primitives: %w", err)
	}

	thinAfter, err := m.joint(cfg.Skin.ThinAfter)
	if err != nil {
		return nil, err
	}
	thinParent, err := m.joint(cfg.Skin.ThinParent)
	if err != nil {
		return nil, err
	}
	axis, err := rig.ParseAxis(cfg.Skin.Axis)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	skinner := rig.NewSkinner(
		rig.WithThickness(cfg.Skin.Thickness, cfg.Skin.Jitter),
		rig.WithSeed(cfg.Skin.Seed),
		rig.WithThinning(thinAfter, thinParent, cfg.Skin.ThinScale),
		rig.WithAxis(axis.Vector()),
	)
	crowd := rig.NewCrowd(
		rig.WithCrowdSize(cfg.Crowd.Size),
		rig.WithColumns(cfg.Crowd.Columns),
		rig.WithSpacing(cfg.Crowd.Spacing),
		rig.WithPhaseStep(cfg.Crowd.PhaseStep),
		rig.WithCullRadius(cfg.Crowd.CullRadius),
		rig.WithWorkers(cfg.Crowd.Workers),
		rig.WithCrowdSkeleton(m.skeleton),
		rig.WithCrowdSkinner(skinner),
		rig.WithCrowdDrivers(func(i int) []rig.Driver { return m.drivers(cfg, i) }),
	)

	var extent float32
	for _, r := range crowd.Rigs() {
		o := r.Origin().Abs()
		extent = max(extent, o.X, o.Z)
	}

	return &State{
		Config:     cfg,
		Skeleton:   m.skeleton,
		Skinner:    skinner,
		Crowd:      crowd,
		Primitives: prims,
		Extent:     extent,
	}, nil
}

// joint resolves a configured joint name, the empty name resolving to rig.Null.
func (m *ikRigModule) joint(name string) (rig.JointID, error) {
	if name == "" {
		return rig.Null, nil
	}
	id, ok := m.skeleton.Lookup(name)
	if !ok {
		return rig.Null, fmt.Errorf("%w: unknown joint %q", config.ErrInvalid, name)
	}
	return id, nil
}

// descriptor snapshots the primitive buffer of the current state.
func (m *ikRigModule) descriptor() DrawDescriptor {
	prims := m.state.Primitives
	segments := 0
	for i := 0; i < m.skeleton.Len(); i++ {
		if m.skeleton.HasSegment(rig.JointID(i)) {
			segments++
		}
	}
	return DrawDescriptor{
		Vertices:     append([]model.GPUVertex(nil), prims.Vertices...),
		Indices:      append([]uint16(nil), prims.Indices...),
		Commands:     append([]model.GPUDrawCommand(nil), prims.Commands...),
		MaxInstances: segments * m.state.Config.Crowd.Size,
		MaxLines:     m.skeleton.Len() * 64,
	}
}

func (m *ikRigModule) Update(t float32) (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	if s == nil {
		return Frame{}, ErrNotSetup
	}
	t *= s.Config.Animation.TimeScale

	if s.Config.Crowd.Cull {
		s.Crowd.SetFrustum(m.frustum)
	} else {
		s.Crowd.SetFrustum(nil)
	}
	if err := s.Crowd.Evaluate(t); err != nil {
		prev := s.Previous.Clone()
		prev.Reused = true
		return prev, fmt.Errorf("failed to evaluate frame at t=%v: %w", t, err)
	}

	s.instances = s.Crowd.Instances(s.instances[:0])
	commands := append([]model.GPUDrawCommand(nil), s.Primitives.Commands...)
	commands[mesh.PrimitiveSegment].InstanceCount = uint32(len(s.instances))

	s.Lines.Reset()
	m.drawGizmos(s)

	frame := Frame{
		Time:      t,
		Instances: s.instances,
		Commands:  commands,
		Lines:     s.Lines.Vertices,
		Camera:    Orbit(s.Config.Camera, t),
	}
	if s.Config.Crowd.Size > 1 {
		frame.Camera = CrowdCamera(t, s.Extent)
		frame.Camera.Focal = s.Config.Camera.Focal
	}
	s.Previous = frame.Clone()
	return frame.Clone(), nil
}

// drawGizmos fills s.Lines with the overlays enabled in the configuration.
func (m *ikRigModule) drawGizmos(s *State) {
	g := s.Config.Gizmo
	for _, r := range s.Crowd.Rigs() {
		if g.Skeleton {
			s.Lines.AddSkeleton(r.Pose(), gizmo.ColorWhite)
		}
		if g.Targets {
			s.Lines.AddTargets(r.Pose(), .04, gizmo.ColorGreen)
		}
	}
	if g.Bounds {
		s.Lines.AddAABB(common.V3(0, 1.2, 0), common.V3(.2, 1.5, .2), gizmo.ColorYellow)
		s.Lines.AddSphere(common.V3(1, 1.2, 0), .2, gizmo.ColorYellow)
	}
}

func (m *ikRigModule) SetFrustum(f *common.Frustum) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frustum = f
}

func (m *ikRigModule) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Crowd.Close()
		m.state = nil
	}
}
