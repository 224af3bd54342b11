package rig

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

type rigImpl struct {
	skeleton Skeleton
	pose     *Pose
	drivers  []Driver
	origin   common.Vec3
	phase    float32
}

// Rig evaluates one skeleton per frame: reset, drivers, forward kinematics, IK chains and
// forward kinematics below the chain ends. A Rig is not safe for concurrent use; independent
// rigs may be evaluated in parallel.
type Rig interface {
	// Skeleton returns the rig's skeleton.
	Skeleton() Skeleton

	// Pose returns the pose written by the last Evaluate.
	Pose() *Pose

	// Origin returns the world placement of the rig's root.
	Origin() common.Vec3

	// SetOrigin moves the rig.
	SetOrigin(origin common.Vec3)

	// Phase returns the time offset added to t before drivers run.
	Phase() float32

	// Drivers returns the rig's drivers in evaluation order.
	Drivers() []Driver

	// SetDrivers replaces the rig's drivers.
	SetDrivers(drivers ...Driver)

	// Evaluate computes the pose at time t.
	//
	// Parameters:
	//   - t: time in seconds
	//
	// Returns:
	//   - error: a driver, chain or non-finite result error; the pose is then unusable
	Evaluate(t float32) error
}

var _ Rig = &rigImpl{}

// NewRig creates a Rig. Without WithSkeleton the humanoid skeleton is used.
//
// Parameters:
//   - options: rig options
//
// Returns:
//   - Rig: the rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{}
	for _, opt := range options {
		opt(r)
	}
	if r.skeleton == nil {
		r.skeleton = NewHumanoid()
	}
	r.pose = NewPose(r.skeleton)
	r.pose.Origin = r.origin
	return r
}

func (r *rigImpl) Skeleton() Skeleton {
	return r.skeleton
}

func (r *rigImpl) Pose() *Pose {
	return r.pose
}

func (r *rigImpl) Origin() common.Vec3 {
	return r.origin
}

func (r *rigImpl) SetOrigin(origin common.Vec3) {
	r.origin = origin
	r.pose.Origin = origin
}

func (r *rigImpl) Phase() float32 {
	return r.phase
}

func (r *rigImpl) Drivers() []Driver {
	return r.drivers
}

func (r *rigImpl) SetDrivers(drivers ...Driver) {
	r.drivers = drivers
}

func (r *rigImpl) Evaluate(t float32) error {
	t += r.phase
	r.pose.Reset()
	for i, d := range r.drivers {
		if err := d.Drive(r.pose, t); err != nil {
			return fmt.Errorf("driver %d (%T): %w", i, d, err)
		}
	}
	r.pose.EvaluateFK()
	if err := r.pose.ResolveTargets(); err != nil {
		return fmt.Errorf("failed to resolve ik targets: %w", err)
	}
	return r.pose.Check()
}
