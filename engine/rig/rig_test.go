package rig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

func assertVec(t *testing.T, want, got common.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
}

func TestHumanoidTables(t *testing.T) {
	s := NewHumanoid()
	require.Equal(t, int(HumanoidJointCount), s.Len())

	assert.Equal(t, Null, s.Parent(Root))
	assert.Equal(t, Spine2, s.Parent(Neck))
	assert.Equal(t, Spine2, s.Parent(ShoulderL))
	assert.Equal(t, Hips, s.Parent(LegR))
	assert.Equal(t, "Ankle_L", s.Name(AnkleL))

	id, ok := s.Lookup("Knee_R")
	assert.True(t, ok)
	assert.Equal(t, KneeR, id)

	segments := 0
	for i := Root; i < HumanoidJointCount; i++ {
		if i != Root {
			assert.Less(t, s.Parent(i), i, i.String())
		}
		if s.HasSegment(i) {
			segments++
		}
	}
	assert.Equal(t, 18, segments)

	rest := HumanoidRest()
	assert.Equal(t, common.V3(-.2, 1.6, 0), rest[ShoulderL])
	assert.Equal(t, rest[ToeR].Mul(common.V3(-1, 1, 1)), rest[ToeL])
	assertVec(t, common.V3(.45, 1.6, 0), rest[ElbowR], 1e-6)
	assertVec(t, common.V3(.15, .55, .001), rest[KneeR], 1e-6)
}

func TestBindPoseReproducesRest(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	p.EvaluateFK()

	assert.Equal(t, common.V3(0, 1.7, 0), p.World[Neck])
	assert.Equal(t, common.V3(0, 1, 0), p.World[Hips])
	for i := Root; i < HumanoidJointCount; i++ {
		assertVec(t, s.Joint(i).Rest, p.World[i], 1e-6, i.String())
	}
}

func TestFKPreservesBoneLengths(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	for i := Root; i < HumanoidJointCount; i++ {
		a := float32(i) * .37
		p.Local[i] = common.RotateX(a).Mul(common.RotateY(a * 1.3)).Mul(common.RotateZ(-a * .7))
	}
	p.Origin = common.V3(3, 0, -2)
	p.EvaluateFK()

	assertVec(t, common.V3(3, 0, -2), p.World[Root], 1e-6)
	for i := Hips; i < HumanoidJointCount; i++ {
		bone := p.World[i].Sub(p.World[s.Parent(i)])
		assert.InDelta(t, s.BoneLength(i), bone.Length(), 1e-5, i.String())
	}
}

func TestFKAppliesParentRotation(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	require.NoError(t, p.SetLocal(LegR, common.RotateX(0.5)))
	p.EvaluateFK()

	rest := HumanoidRest()
	assert.Equal(t, rest[LegR], p.World[LegR])
	want := p.World[LegR].Add(s.LocalOffset(KneeR).MulMat(common.RotateX(0.5)))
	assertVec(t, want, p.World[KneeR], 1e-6)
	assert.NotEqual(t, rest[KneeR], p.World[KneeR])
}

func TestResolveChainReachable(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	p.EvaluateFK()

	chain, err := ChainTo(s, AnkleR, common.V3(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, Chain{Root: LegR, Mid: KneeR, End: AnkleR, Hint: common.V3(1, 0, 0)}, chain)

	target := common.V3(.15, .3, .1)
	res, err := ResolveChain(p, chain, target)
	require.NoError(t, err)
	assert.True(t, res.Reachable)

	assert.Equal(t, target, p.World[AnkleR])
	assert.InDelta(t, s.BoneLength(KneeR), p.World[KneeR].Sub(p.World[LegR]).Length(), 1e-5)
	assert.InDelta(t, s.BoneLength(AnkleR), p.World[AnkleR].Sub(p.World[KneeR]).Length(), 1e-5)
	// knee bends forward, away from the target line
	assert.Greater(t, p.World[KneeR].Z, float32(.1))
}

func TestResolveChainUnreachableExtends(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	p.EvaluateFK()

	chain, err := ChainTo(s, WristR, common.V3(0, -1, 0))
	require.NoError(t, err)
	shoulder := p.World[ShoulderR]
	res, err := ResolveChain(p, chain, shoulder.Add(common.V3(5, 0, 0)))
	require.NoError(t, err)
	assert.False(t, res.Reachable)

	reach := s.BoneLength(ElbowR) + s.BoneLength(WristR)
	assertVec(t, shoulder.Add(common.V3(reach, 0, 0)), p.World[WristR], 1e-5)
	assertVec(t, shoulder.Add(common.V3(s.BoneLength(ElbowR), 0, 0)), p.World[ElbowR], 1e-5)
}

func TestResolveChainHintAlongTarget(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	p.EvaluateFK()

	chain, err := ChainTo(s, AnkleR, common.V3(0, -1, 0))
	require.NoError(t, err)
	leg := p.World[LegR]
	_, err = ResolveChain(p, chain, leg.Add(common.V3(0, -.8, 0)))
	require.NoError(t, err)

	assert.InDelta(t, s.BoneLength(KneeR), p.World[KneeR].Sub(leg).Length(), 1e-5)
	assert.InDelta(t, s.BoneLength(AnkleR), p.World[AnkleR].Sub(p.World[KneeR]).Length(), 1e-5)
}

func TestScaledBasisAtRestIsIdentity(t *testing.T) {
	rest := common.V3(0, -.55, .001)
	b := NewScaledBasis(rest, rest)
	m := b.Mat3()
	for c := 0; c < 3; c++ {
		assertVec(t, common.Identity3()[c], m[c], 1e-5)
	}
}

func TestResolveTargetsUpdatesDescendants(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	chain, err := ChainTo(s, AnkleR, common.V3(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, p.SetTarget(chain, common.V3(.15, .4, .2)))

	p.EvaluateFK()
	require.NoError(t, p.ResolveTargets())

	want := p.World[AnkleR].Add(s.LocalOffset(ToeR).MulMat(p.Rotation[AnkleR]))
	assert.Equal(t, want, p.World[ToeR])
	assert.Equal(t, common.V3(.15, .4, .2), p.World[AnkleR])
}

func TestSetTargetReplacesSameEnd(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	chain, err := ChainTo(s, AnkleL, common.V3(1, 0, 0))
	require.NoError(t, err)

	require.NoError(t, p.SetTarget(chain, common.V3(0, 0, 0)))
	require.NoError(t, p.SetTarget(chain, common.V3(0, 1, 0)))
	require.Len(t, p.Targets(), 1)
	assert.Equal(t, common.V3(0, 1, 0), p.Targets()[0].Position)
}

func TestRigEvaluateReach(t *testing.T) {
	r := NewRig(WithDrivers(HipsBob{Joint: Hips, Amplitude: .2, Speed: 1}, HumanoidReach()))
	require.NoError(t, r.Evaluate(0))

	p := r.Pose()
	rest := HumanoidRest()
	assertVec(t, rest[WristR].Scale(.8), p.World[WristR], 1e-6)
	assertVec(t, rest[WristL].Scale(.8), p.World[WristL], 1e-6)
	assertVec(t, rest[AnkleR], p.World[AnkleR], 1e-6)
	// sin(0)*0.5+0.5 lowers the hips by half the amplitude
	assertVec(t, common.V3(0, .9, 0), p.World[Hips], 1e-6)

	// mirrored hints bend both elbows backwards
	assert.Less(t, p.World[ElbowR].Z, float32(0))
	assert.Less(t, p.World[ElbowL].Z, float32(0))
}

func TestRigEvaluateGait(t *testing.T) {
	r := NewRig(WithDrivers(HumanoidReach(), HumanoidGait()))
	require.NoError(t, r.Evaluate(0))

	p := r.Pose()
	assert.InDelta(t, .01, p.World[AnkleR].Y, 1e-5)
	assert.InDelta(t, .41, p.World[AnkleL].Y, 1e-5)
}

func TestRigEvaluateIsDeterministic(t *testing.T) {
	a := NewRig(WithDrivers(HumanoidReach(), HumanoidGait()), WithPhase(.3))
	b := NewRig(WithDrivers(HumanoidReach(), HumanoidGait()), WithPhase(.3))
	require.NoError(t, a.Evaluate(1.7))
	require.NoError(t, b.Evaluate(1.7))
	assert.Equal(t, a.Pose().World, b.Pose().World)
}

func TestSkinner(t *testing.T) {
	r := NewRig(WithDrivers(HumanoidReach()))
	require.NoError(t, r.Evaluate(0.5))
	p := r.Pose()

	sk := NewSkinner()
	var cmd model.GPUDrawCommand
	inst, err := sk.SkinInto(p, nil, &cmd)
	require.NoError(t, err)
	require.Len(t, inst, 18)
	assert.Equal(t, uint32(18), cmd.InstanceCount)

	// first segment is Spine1 → Hips
	bone := p.World[Spine1].Sub(p.World[Hips])
	first := inst[0]
	assert.Equal(t, p.World[Hips].Array(), first.Position)
	assert.InDelta(t, bone.Length(), first.Scale[1], 1e-6)
	assert.InDelta(t, .2+common.Hash11(2+349)*.1, first.Scale[0], 1e-6)

	rot := common.M3(
		first.Rotation[0], first.Rotation[1], first.Rotation[2],
		first.Rotation[3], first.Rotation[4], first.Rotation[5],
		first.Rotation[6], first.Rotation[7], first.Rotation[8],
	)
	assertVec(t, bone.Normalize(), common.V3(0, 1, 0).MulMat(rot), 1e-5)
}

func TestSkinnerThinning(t *testing.T) {
	sk := NewSkinner()
	base := func(id JointID) float32 { return .2 + common.Hash11(float32(id)+349)*.1 }

	assert.Equal(t, base(Spine3), sk.Thickness(Spine3, Spine2))
	assert.Equal(t, base(ShoulderR), sk.Thickness(ShoulderR, Spine2))
	assert.Equal(t, base(Head)*.5, sk.Thickness(Head, Neck))
	assert.Equal(t, base(ElbowR)*.5, sk.Thickness(ElbowR, ShoulderR))

	custom := NewSkinner(WithThickness(.3, 0), WithThinning(HumanoidJointCount, Null, 1))
	assert.Equal(t, float32(.3), custom.Thickness(ToeL, AnkleL))
}

func TestSkinnerZeroLengthBone(t *testing.T) {
	s := NewHumanoid()
	p := NewPose(s)
	p.EvaluateFK()
	p.World[HeadEnd] = p.World[Head]

	_, err := NewSkinner().Skin(p, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroLengthBone))
	assert.Contains(t, err.Error(), "Head_End")
}

func TestSkinnerPoseMismatch(t *testing.T) {
	p := NewPose(NewHumanoid())
	p.EvaluateFK()
	p.World = p.World[:3]

	_, err := NewSkinner().Skin(p, nil)
	assert.ErrorIs(t, err, ErrPoseMismatch)
}

func TestSkeletonValidation(t *testing.T) {
	_, err := NewSkeleton(
		WithJoint("a", common.V3(0, 0, 0), Null, false),
		WithJoint("b", common.V3(0, 1, 0), 2, true),
		WithJoint("c", common.V3(0, 2, 0), 1, true),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParentOrder))
	var je *JointError
	require.True(t, errors.As(err, &je))
	assert.Equal(t, JointID(1), je.Joint)
	assert.Equal(t, "b", je.Name)

	_, err = NewSkeleton(
		WithJoint("a", common.V3(0, 1, 0), Null, false),
		WithJoint("b", common.V3(0, 1, 0), 0, true),
	)
	assert.True(t, errors.Is(err, ErrZeroLengthBone))

	_, err = NewSkeleton(
		WithJoint("a", common.V3(0, 1, 0), Null, false),
		WithJoint("a", common.V3(0, 2, 0), 0, true),
	)
	assert.Error(t, err)

	_, err = NewSkeleton(
		WithJoint("a", common.V3(0, 1, 0), Null, true),
		WithJoint("b", common.V3(0, 2, 0), 0, true),
	)
	assert.ErrorIs(t, err, ErrRootSegment)
	require.True(t, errors.As(err, &je))
	assert.Equal(t, "a", je.Name)
}

func TestChainValidation(t *testing.T) {
	s := NewHumanoid()

	_, err := ChainTo(s, Hips, common.V3(1, 0, 0))
	assert.True(t, errors.Is(err, ErrInvalidChain))

	_, err = ChainTo(s, JointID(99), common.V3(1, 0, 0))
	assert.True(t, errors.Is(err, ErrJointOutOfRange))

	bad := Chain{Root: Hips, Mid: KneeR, End: AnkleR, Hint: common.V3(1, 0, 0)}
	err = bad.Validate(s)
	assert.True(t, errors.Is(err, ErrInvalidChain))
	assert.Contains(t, err.Error(), "Knee_R")

	_, err = ChainTo(s, AnkleR, common.Vec3{})
	assert.True(t, errors.Is(err, ErrInvalidChain))

	p := NewPose(s)
	assert.True(t, errors.Is(p.SetLocal(-3, common.Identity3()), ErrJointOutOfRange))
}

func TestSwayDriver(t *testing.T) {
	r := NewRig(WithDrivers(Sway{Joint: Hips, Axis: AxisY, Amplitude: 1, Speed: 1}))
	require.NoError(t, r.Evaluate(0.5))
	p := r.Pose()

	assert.NotEqual(t, HumanoidRest()[LegR], p.World[LegR])
	assert.InDelta(t, HumanoidRest()[LegR].Y, p.World[LegR].Y, 1e-6)

	axis, err := ParseAxis("z")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, axis)
	_, err = ParseAxis("w")
	assert.Error(t, err)
}

func TestCrowd(t *testing.T) {
	c := NewCrowd(WithCrowdSize(4), WithWorkers(2), WithSpacing(2))
	defer c.Close()

	require.Len(t, c.Rigs(), 4)
	assert.Equal(t, common.V3(-1, 0, -1), c.Rigs()[0].Origin())
	assert.Equal(t, common.V3(1, 0, 1), c.Rigs()[3].Origin())

	require.NoError(t, c.Evaluate(1.25))
	inst := c.Instances(nil)
	require.Len(t, inst, 4*18)
	assert.Equal(t, 4, c.Visible())

	single := NewRig(
		WithOrigin(c.Rigs()[2].Origin()),
		WithPhase(c.Rigs()[2].Phase()),
		WithDrivers(c.Rigs()[2].Drivers()...),
	)
	require.NoError(t, single.Evaluate(1.25))
	want, err := NewSkinner().Skin(single.Pose(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, inst[2*18:3*18])
}

func TestCrowdFrustumCulling(t *testing.T) {
	c := NewCrowd(WithCrowdSize(9), WithWorkers(3))
	defer c.Close()

	var view, proj, vp [16]float32
	common.LookAt(view[:], 0, 1, 20, 0, 1, 40, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1.0, .1, 100)
	common.Mul4(vp[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(vp[:])

	c.SetFrustum(&f)
	require.NoError(t, c.Evaluate(0))
	assert.Equal(t, 0, c.Visible())
	assert.Empty(t, c.Instances(nil))

	c.SetFrustum(nil)
	require.NoError(t, c.Evaluate(0))
	assert.Equal(t, 9, c.Visible())
}
