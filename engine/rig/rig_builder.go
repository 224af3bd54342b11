package rig

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

type RigBuilderOption func(*rigImpl)

// WithSkeleton sets the skeleton the rig evaluates.
//
// Parameters:
//   - s: the skeleton
//
// Returns:
//   - RigBuilderOption: a function that sets the skeleton
func WithSkeleton(s Skeleton) RigBuilderOption {
	return func(r *rigImpl) {
		r.skeleton = s
	}
}

// WithDrivers appends drivers, evaluated in the order given.
//
// Parameters:
//   - drivers: the drivers to append
//
// Returns:
//   - RigBuilderOption: a function that appends the drivers
func WithDrivers(drivers ...Driver) RigBuilderOption {
	return func(r *rigImpl) {
		r.drivers = append(r.drivers, drivers...)
	}
}

// WithOrigin places the rig's root in world space.
//
// Parameters:
//   - origin: world position of the root
//
// Returns:
//   - RigBuilderOption: a function that sets the origin
func WithOrigin(origin common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		r.origin = origin
	}
}

// WithPhase offsets the time passed to drivers, so rigs sharing drivers move out of step.
//
// Parameters:
//   - phase: time offset in seconds
//
// Returns:
//   - RigBuilderOption: a function that sets the phase
func WithPhase(phase float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.phase = phase
	}
}
