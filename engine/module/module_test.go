package module

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/mesh"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

const humanoidSegments = 18

var errStumble = errors.New("stumble")

type failAfter struct {
	at float32
}

func (d failAfter) Drive(_ *rig.Pose, t float32) error {
	if t >= d.at {
		return errStumble
	}
	return nil
}

func newModule(t *testing.T, options ...ModuleBuilderOption) (Module, DrawDescriptor) {
	t.Helper()
	m := NewIKRigModule(options...)
	t.Cleanup(m.Close)
	desc, err := m.Setup()
	require.NoError(t, err)
	return m, desc
}

func TestUpdateBeforeSetup(t *testing.T) {
	m := NewIKRigModule()
	_, err := m.Update(0)
	assert.ErrorIs(t, err, ErrNotSetup)
}

func TestSetupDescriptor(t *testing.T) {
	_, desc := newModule(t)

	require.Len(t, desc.Commands, 3)
	assert.Len(t, desc.Vertices, 24+24+600)
	assert.Equal(t, humanoidSegments, desc.MaxInstances)
	for _, c := range desc.Commands {
		assert.Zero(t, c.InstanceCount)
	}
}

func TestUpdateFrame(t *testing.T) {
	m, _ := newModule(t)

	f, err := m.Update(0)
	require.NoError(t, err)
	assert.False(t, f.Reused)
	assert.Len(t, f.Instances, humanoidSegments)
	assert.Equal(t, uint32(humanoidSegments), f.Commands[mesh.PrimitiveSegment].InstanceCount)
	assert.Zero(t, f.Commands[mesh.PrimitiveCube].InstanceCount)
	assert.Zero(t, f.Commands[mesh.PrimitiveSphere].InstanceCount)
	assert.Equal(t, OrbitCamera(0), f.Camera)
	assert.Empty(t, f.Lines)

	again, err := m.Update(0)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestFrameIsOwnedByCaller(t *testing.T) {
	m, _ := newModule(t)

	f, err := m.Update(.5)
	require.NoError(t, err)
	want := f.Instances[0]
	f.Instances[0].Scale[0] = 99
	f.Commands[mesh.PrimitiveSegment].InstanceCount = 0

	g, err := m.Update(.5)
	require.NoError(t, err)
	assert.Equal(t, want, g.Instances[0])
	assert.Equal(t, uint32(humanoidSegments), g.Commands[mesh.PrimitiveSegment].InstanceCount)
}

func TestFailedUpdateReusesPreviousFrame(t *testing.T) {
	m, _ := newModule(t, WithDrivers(func(cfg config.Config, i int) []rig.Driver {
		return append(Drivers(cfg, i), failAfter{at: 1})
	}))

	good, err := m.Update(.5)
	require.NoError(t, err)

	bad, err := m.Update(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStumble)
	assert.True(t, bad.Reused)
	assert.Equal(t, good.Time, bad.Time)
	assert.Equal(t, good.Instances, bad.Instances)
	assert.Equal(t, good.Commands, bad.Commands)
}

func TestReload(t *testing.T) {
	m, _ := newModule(t)

	cfg := config.Default()
	cfg.Crowd.Size = 4
	cfg.Animation.Mode = "both"
	desc, err := m.Reload(cfg)
	require.NoError(t, err)
	assert.Equal(t, 4*humanoidSegments, desc.MaxInstances)

	f, err := m.Update(1)
	require.NoError(t, err)
	assert.Len(t, f.Instances, 4*humanoidSegments)
	assert.Equal(t, CrowdCamera(1, 1), f.Camera)

	bad := cfg
	bad.Mesh.SphereResolution = 0
	_, err = m.Reload(bad)
	assert.ErrorIs(t, err, config.ErrInvalid)

	f, err = m.Update(1)
	require.NoError(t, err)
	assert.Len(t, f.Instances, 4*humanoidSegments)
}

func TestTimeScale(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.TimeScale = 2
	scaled, _ := newModule(t, WithConfig(cfg))
	plain, _ := newModule(t)

	a, err := scaled.Update(.25)
	require.NoError(t, err)
	b, err := plain.Update(.5)
	require.NoError(t, err)
	assert.Equal(t, b.Instances, a.Instances)
	assert.Equal(t, float32(.5), a.Time)
}

func TestGizmoLines(t *testing.T) {
	cfg := config.Default()
	cfg.Gizmo = config.Gizmo{Skeleton: true, Targets: true, Bounds: true}
	m, _ := newModule(t, WithConfig(cfg))

	f, err := m.Update(0)
	require.NoError(t, err)

	joints := rig.NewHumanoid().Len()
	segments := (joints - 1) + 4*9 + 12 + 3*gizmo.SphereSegments
	assert.Len(t, f.Lines, 2*segments)
}

func TestCrowdCulling(t *testing.T) {
	cfg := config.Default()
	cfg.Crowd.Size = 9
	cfg.Crowd.Cull = true
	m, _ := newModule(t, WithConfig(cfg))

	var view, proj, vp [16]float32
	common.LookAt(view[:], 0, 1, 20, 0, 1, 40, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1.0, .1, 100)
	common.Mul4(vp[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(vp[:])
	m.SetFrustum(&f)

	frame, err := m.Update(0)
	require.NoError(t, err)
	assert.Empty(t, frame.Instances)

	m.SetFrustum(nil)
	frame, err = m.Update(0)
	require.NoError(t, err)
	assert.Len(t, frame.Instances, 9*humanoidSegments)
}

func TestOrbitCamera(t *testing.T) {
	c := OrbitCamera(0)
	assert.Equal(t, common.V3(0, 1, 0), c.Target)
	assert.InDelta(t, 1.5*math32.Sqrt(1.25), c.Eye.Sub(c.Target).Length(), 1e-5)
	assert.InDelta(t, 1.5*math32.Sin(1.2), c.Eye.X, 1e-5)
	assert.Equal(t, float32(1.2), c.Focal)

	assert.Equal(t, OrbitCamera(3), CrowdCamera(3, 0))
}

func TestOrbitFromConfig(t *testing.T) {
	c := config.Default().Camera
	assert.Equal(t, OrbitCamera(.7), Orbit(c, .7))

	c.Distance = 3
	c.TargetHeight = 1.5
	c.Focal = 2
	far := Orbit(c, 0)
	assert.Equal(t, common.V3(0, 1.5, 0), far.Target)
	assert.InDelta(t, 3*math32.Sqrt(1.25), far.Eye.Sub(far.Target).Length(), 1e-5)
	assert.Equal(t, float32(2), far.Focal)
}

func TestConfiguredCamera(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Distance = 3
	cfg.Camera.Focal = 2
	m, _ := newModule(t, WithConfig(cfg))

	f, err := m.Update(.5)
	require.NoError(t, err)
	assert.Equal(t, Orbit(cfg.Camera, .5), f.Camera)
	assert.NotEqual(t, OrbitCamera(.5), f.Camera)

	cfg.Crowd.Size = 4
	_, err = m.Reload(cfg)
	require.NoError(t, err)
	f, err = m.Update(.5)
	require.NoError(t, err)
	assert.Equal(t, float32(2), f.Camera.Focal)
}

func TestConfiguredSkin(t *testing.T) {
	plain := config.Default()
	plain.Skin.ThinAfter = ""
	plain.Skin.ThinParent = ""
	m, _ := newModule(t, WithConfig(plain))
	thin, _ := newModule(t)

	w := m.(*ikRigModule).state.Skinner.Thickness(rig.WristR, rig.ElbowR)
	assert.InDelta(t, w*.5, thin.(*ikRigModule).state.Skinner.Thickness(rig.WristR, rig.ElbowR), 1e-6)

	a, err := m.Update(0)
	require.NoError(t, err)
	b, err := thin.Update(0)
	require.NoError(t, err)
	assert.NotEqual(t, a.Instances, b.Instances)

	zAxis := config.Default()
	zAxis.Skin.Axis = "z"
	z, _ := newModule(t, WithConfig(zAxis))
	c, err := z.Update(0)
	require.NoError(t, err)
	require.Len(t, c.Instances, len(b.Instances))
	assert.NotEqual(t, b.Instances[0].Rotation, c.Instances[0].Rotation)
}

func TestUnknownThinningJoint(t *testing.T) {
	cfg := config.Default()
	cfg.Skin.ThinParent = "Tail"
	m := NewIKRigModule(WithConfig(cfg))
	t.Cleanup(m.Close)

	_, err := m.Setup()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "Tail")
}

func TestConfiguredGaitKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Mode = "gait"
	flat := cfg
	flat.Animation.GaitKeys = []float32{0, 0, 0, 0}

	drivers := Drivers(flat, 0)
	gait, ok := drivers[len(drivers)-1].(rig.GaitDriver)
	require.True(t, ok)
	assert.Equal(t, flat.Animation.GaitKeys, gait.Keys)

	a, _ := newModule(t, WithConfig(cfg))
	b, _ := newModule(t, WithConfig(flat))
	fa, err := a.Update(.3)
	require.NoError(t, err)
	fb, err := b.Update(.3)
	require.NoError(t, err)
	assert.NotEqual(t, fa.Instances, fb.Instances)
}

func TestConfiguredPhaseStep(t *testing.T) {
	cfg := config.Default()
	cfg.Crowd.Size = 3
	cfg.Crowd.PhaseStep = 1
	m, _ := newModule(t, WithConfig(cfg))

	rigs := m.(*ikRigModule).state.Crowd.Rigs()
	require.Len(t, rigs, 3)
	assert.Equal(t, float32(2), rigs[2].Phase())
}
