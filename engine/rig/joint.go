package rig

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// JointID indexes a joint inside a Skeleton. Joints are stored parent-before-child, so a
// JointID is also the joint's position in a single forward FK pass.
type JointID int

// Null is the parent of the root joint.
const Null JointID = -1

// Humanoid joint order. Every parent precedes its children.
const (
	Root JointID = iota
	Hips
	Spine1
	Spine2
	Spine3
	Neck
	Head
	HeadEnd

	ShoulderR
	ElbowR
	WristR
	HandR
	LegR
	KneeR
	AnkleR
	ToeR

	ShoulderL
	ElbowL
	WristL
	HandL
	LegL
	KneeL
	AnkleL
	ToeL

	HumanoidJointCount
)

var humanoidNames = [HumanoidJointCount]string{
	"Root", "Hips", "Spine1", "Spine2", "Spine3", "Neck", "Head", "Head_End",
	"Shoulder_R", "Elbow_R", "Wrist_R", "Hand_R", "Leg_R", "Knee_R", "Ankle_R", "Toe_R",
	"Shoulder_L", "Elbow_L", "Wrist_L", "Hand_L", "Leg_L", "Knee_L", "Ankle_L", "Toe_L",
}

// String returns the humanoid name of the joint, or its index for joints outside the humanoid table.
func (id JointID) String() string {
	if id == Null {
		return "Null"
	}
	if id >= 0 && id < HumanoidJointCount {
		return humanoidNames[id]
	}
	return fmt.Sprintf("Joint(%d)", int(id))
}

// Joint is one record of a Skeleton.
type Joint struct {
	// Name identifies the joint in errors, dumps and exports.
	Name string
	// Rest is the joint position in the bind pose.
	Rest common.Vec3
	// Parent is the index of the parent joint, or Null for the root.
	Parent JointID
	// HasSegment marks joints that draw a capsule between themselves and their parent.
	HasSegment bool
}
