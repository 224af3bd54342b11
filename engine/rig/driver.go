package rig

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Driver writes animation inputs into a pose for time t: local rotations, translations and IK
// targets. Drivers run after Reset and before FK.
type Driver interface {
	Drive(pose *Pose, t float32) error
}

// Axis selects a principal rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Rotate returns the rotation of a radians about the axis.
func (a Axis) Rotate(angle float32) common.Mat3 {
	switch a {
	case AxisX:
		return common.RotateX(angle)
	case AxisZ:
		return common.RotateZ(angle)
	default:
		return common.RotateY(angle)
	}
}

// Vector returns the unit vector along the axis.
func (a Axis) Vector() common.Vec3 {
	switch a {
	case AxisX:
		return common.V3(1, 0, 0)
	case AxisZ:
		return common.V3(0, 0, 1)
	default:
		return common.V3(0, 1, 0)
	}
}

// ParseAxis maps "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y", "":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return AxisY, fmt.Errorf("unknown axis %q", s)
}

// HipsBob lowers a joint by Amplitude*(sin(t*Speed)*0.5+0.5), a crouch that oscillates between
// the rest height and Amplitude below it.
type HipsBob struct {
	Joint     JointID
	Amplitude float32
	Speed     float32
}

func (d HipsBob) Drive(pose *Pose, t float32) error {
	dy := d.Amplitude * (math32.Sin(t*d.Speed)*.5 + .5)
	return pose.SetTranslate(d.Joint, common.V3(0, -dy, 0))
}

// Reach pins an end effector to its rest position scaled by Scale about the pose origin.
type Reach struct {
	End   JointID
	Hint  common.Vec3
	Scale float32
}

// ReachDriver drives a set of fixed IK targets.
type ReachDriver struct {
	Reaches []Reach
}

func (d ReachDriver) Drive(pose *Pose, t float32) error {
	s := pose.Skeleton()
	for _, r := range d.Reaches {
		chain, err := ChainTo(s, r.End, r.Hint)
		if err != nil {
			return err
		}
		target := pose.Origin.Add(s.Joint(r.End).Rest.Scale(r.Scale))
		if err := pose.SetTarget(chain, target); err != nil {
			return err
		}
	}
	return nil
}

// GaitFoot is one foot driven by a GaitDriver.
type GaitFoot struct {
	End   JointID
	Hint  common.Vec3
	Phase float32
}

// GaitDriver lifts feet along a looping Catmull-Rom height curve. Each foot targets its rest
// position raised by Spline(Keys, fract(t*Speed+Phase)) + Lift.
type GaitDriver struct {
	Keys  []float32
	Lift  float32
	Speed float32
	Feet  []GaitFoot
}

func (d GaitDriver) Drive(pose *Pose, t float32) error {
	s := pose.Skeleton()
	for _, f := range d.Feet {
		chain, err := ChainTo(s, f.End, f.Hint)
		if err != nil {
			return err
		}
		h := common.Spline(d.Keys, common.Fract(t*d.Speed+f.Phase)) + d.Lift
		target := pose.Origin.Add(s.Joint(f.End).Rest).Add(common.V3(0, h, 0))
		if err := pose.SetTarget(chain, target); err != nil {
			return err
		}
	}
	return nil
}

// Sway rotates a joint about Axis by Amplitude*sin(t*Speed).
type Sway struct {
	Joint     JointID
	Axis      Axis
	Amplitude float32
	Speed     float32
}

func (d Sway) Drive(pose *Pose, t float32) error {
	return pose.SetLocal(d.Joint, d.Axis.Rotate(d.Amplitude*math32.Sin(t*d.Speed)))
}

// DefaultGaitKeys is the foot height curve of one stride.
var DefaultGaitKeys = []float32{-.2, -.2, -.1, 0, .15, .2, .15, 0, -.1, -.2, -.2}

// HumanoidReach holds both wrists at 0.8 of their rest position, elbows bending down and up
// respectively, and plants both feet at rest with knees bending towards +X.
func HumanoidReach() ReachDriver {
	knee := common.V3(1, 0, 0)
	return ReachDriver{Reaches: []Reach{
		{End: WristR, Hint: common.V3(0, -1, 0), Scale: .8},
		{End: WristL, Hint: common.V3(0, 1, 0), Scale: .8},
		{End: AnkleR, Hint: knee, Scale: 1},
		{End: AnkleL, Hint: knee, Scale: 1},
	}}
}

// HumanoidGait walks both feet half a stride apart.
func HumanoidGait() GaitDriver {
	knee := common.V3(1, 0, 0)
	return GaitDriver{
		Keys:  DefaultGaitKeys,
		Lift:  .21,
		Speed: 1,
		Feet: []GaitFoot{
			{End: AnkleR, Hint: knee},
			{End: AnkleL, Hint: knee, Phase: .5},
		},
	}
}
