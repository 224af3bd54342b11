package rig

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

type SkinnerBuilderOption func(*skinnerImpl)

// WithThickness sets the base capsule thickness and the hashed jitter added to it.
//
// Parameters:
//   - base: minimum thickness
//   - jitter: scale of the per-joint hash
//
// Returns:
//   - SkinnerBuilderOption: a function that sets the thickness
func WithThickness(base, jitter float32) SkinnerBuilderOption {
	return func(s *skinnerImpl) {
		s.thickness = base
		s.jitter = jitter
	}
}

// WithSeed sets the value added to the joint index before hashing.
func WithSeed(seed float32) SkinnerBuilderOption {
	return func(s *skinnerImpl) {
		s.seed = seed
	}
}

// WithThinning sets which joints are thinned and by how much.
//
// Parameters:
//   - after: joints with a greater index are thinned, or Null to disable the rule
//   - parent: joints whose parent is this joint are thinned, or Null to disable the rule
//   - scale: the multiplier applied to thinned joints
//
// Returns:
//   - SkinnerBuilderOption: a function that sets the thinning rule
func WithThinning(after, parent JointID, scale float32) SkinnerBuilderOption {
	return func(s *skinnerImpl) {
		s.thinAfter = after
		s.thinParent = parent
		s.thinScale = scale
	}
}

// WithAxis sets the capsule's long axis in primitive space.
func WithAxis(axis common.Vec3) SkinnerBuilderOption {
	return func(s *skinnerImpl) {
		s.axis = axis.Normalize()
	}
}
