package rig

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

type SkeletonBuilderOption func(*skeletonImpl)

// WithJoint appends a joint to the skeleton. Joints are indexed in the order they are added.
//
// Parameters:
//   - name: unique joint name
//   - rest: bind-pose position
//   - parent: index of an earlier joint, or Null for the root
//   - hasSegment: whether a capsule is drawn between the joint and its parent
//
// Returns:
//   - SkeletonBuilderOption: a function that appends the joint
func WithJoint(name string, rest common.Vec3, parent JointID, hasSegment bool) SkeletonBuilderOption {
	return func(s *skeletonImpl) {
		s.joints = append(s.joints, Joint{
			Name:       name,
			Rest:       rest,
			Parent:     parent,
			HasSegment: hasSegment,
		})
	}
}

// WithJoints appends a prepared joint list, typically one produced by Skeleton.Joints.
func WithJoints(joints []Joint) SkeletonBuilderOption {
	return func(s *skeletonImpl) {
		s.joints = append(s.joints, joints...)
	}
}
