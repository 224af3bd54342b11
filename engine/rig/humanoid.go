package rig

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Anchor points of the humanoid bind pose; the spine, elbow and knee are placed between them.
var (
	humanoidNeck  = common.V3(0, 1.7, 0)
	humanoidWrist = common.V3(.7, 1.6, 0)
	humanoidFoot  = common.V3(.15, 0, 0)
	mirrorX       = common.V3(-1, 1, 1)
)

// HumanoidRest returns the 24 bind-pose joint positions in JointID order.
// The body stands in a T-pose facing +Z with the right side on +X; the left side mirrors it.
func HumanoidRest() [HumanoidJointCount]common.Vec3 {
	var p [HumanoidJointCount]common.Vec3

	p[Hips] = common.V3(0, 1, 0)
	p[Spine1] = common.Mix(p[Hips], humanoidNeck, .25)
	p[Spine2] = common.Mix(p[Hips], humanoidNeck, .5)
	p[Spine3] = common.Mix(p[Hips], humanoidNeck, .75)
	p[Neck] = humanoidNeck
	p[Head] = common.V3(0, 1.75, 0)
	p[HeadEnd] = p[Head].Add(common.V3(0, .2, 0))

	p[ShoulderR] = common.V3(.2, 1.6, 0)
	p[ElbowR] = common.Mix(p[ShoulderR], humanoidWrist, .5)
	p[WristR] = humanoidWrist
	p[HandR] = p[WristR].Add(common.V3(.1, 0, 0))
	p[LegR] = common.V3(.15, 1.1, 0)
	// knee is nudged forward so the leg is never exactly straight
	p[KneeR] = common.Mix(p[LegR], humanoidFoot, .5).Add(common.V3(0, 0, .001))
	p[AnkleR] = humanoidFoot
	p[ToeR] = p[AnkleR].Add(common.V3(0, 0, .2))

	for i := ShoulderR; i <= ToeR; i++ {
		p[i+ShoulderL-ShoulderR] = p[i].Mul(mirrorX)
	}
	return p
}

// humanoidParents is the parent table in JointID order. Neck and both shoulders hang off Spine2.
var humanoidParents = [HumanoidJointCount]JointID{
	Null, Root, Hips, Spine1, Spine2, Spine2, Neck, Head,
	Spine2, ShoulderR, ElbowR, WristR, Hips, LegR, KneeR, AnkleR,
	Spine2, ShoulderL, ElbowL, WristL, Hips, LegL, KneeL, AnkleL,
}

// humanoidSegments marks the joints that draw a capsule to their parent. Root, Hips and the
// joints that attach a limb to the torso have none.
var humanoidSegments = [HumanoidJointCount]bool{
	false, false, true, true, true, true, true, true,
	false, true, true, true, false, true, true, true,
	false, true, true, true, false, true, true, true,
}

// HumanoidOptions returns the WithJoint options that describe the fixed humanoid skeleton,
// so callers can append extra joints before building.
func HumanoidOptions() []SkeletonBuilderOption {
	rest := HumanoidRest()
	opts := make([]SkeletonBuilderOption, 0, HumanoidJointCount)
	for i := Root; i < HumanoidJointCount; i++ {
		opts = append(opts, WithJoint(humanoidNames[i], rest[i], humanoidParents[i], humanoidSegments[i]))
	}
	return opts
}

// NewHumanoid builds the 24-joint humanoid skeleton.
// It panics if the built-in tables are inconsistent, which is a programming error.
//
// Returns:
//   - Skeleton: the humanoid skeleton
func NewHumanoid() Skeleton {
	s, err := NewSkeleton(HumanoidOptions()...)
	if err != nil {
		panic("rig: invalid humanoid table: " + err.Error())
	}
	return s
}
