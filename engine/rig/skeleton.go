package rig

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

type skeletonImpl struct {
	joints  []Joint
	offsets []common.Vec3
	lengths []float32
	byName  map[string]JointID
}

// Skeleton is an immutable, ordered list of joints. Parent references are indices into the same
// list, and every joint's parent precedes it, which lets FK run as one forward pass.
// The rest-pose bone vectors (local offsets) are derived once when the skeleton is built.
type Skeleton interface {
	// Len returns the number of joints.
	Len() int

	// Joint returns the joint record at id.
	//
	// Parameters:
	//   - id: the joint index
	//
	// Returns:
	//   - Joint: a copy of the joint record
	Joint(id JointID) Joint

	// Joints returns a copy of every joint record in evaluation order.
	Joints() []Joint

	// Parent returns the parent index of id, or Null for the root.
	Parent(id JointID) JointID

	// Name returns the joint's name.
	Name(id JointID) string

	// LocalOffset returns the rest-pose vector from the parent to id.
	// The root's local offset is its rest position.
	LocalOffset(id JointID) common.Vec3

	// BoneLength returns |LocalOffset(id)|.
	BoneLength(id JointID) float32

	// HasSegment reports whether id draws a capsule towards its parent.
	HasSegment(id JointID) bool

	// Lookup resolves a joint by name.
	//
	// Parameters:
	//   - name: the joint name
	//
	// Returns:
	//   - JointID: the joint index
	//   - bool: false when no joint has that name
	Lookup(name string) (JointID, bool)

	// Check returns a JointError wrapping ErrJointOutOfRange when id does not index the skeleton.
	Check(id JointID) error
}

var _ Skeleton = &skeletonImpl{}

// NewSkeleton builds a Skeleton from WithJoint options applied in order.
// The joint list is validated: parents must precede children, names must be unique, roots
// cannot draw a segment and every joint that draws a segment must sit away from its parent.
//
// Parameters:
//   - options: joint and configuration options
//
// Returns:
//   - Skeleton: the validated skeleton
//   - error: a JointError naming the first offending joint
func NewSkeleton(options ...SkeletonBuilderOption) (Skeleton, error) {
	s := &skeletonImpl{
		byName: make(map[string]JointID),
	}
	for _, opt := range options {
		opt(s)
	}

	s.offsets = make([]common.Vec3, len(s.joints))
	s.lengths = make([]float32, len(s.joints))
	for i, j := range s.joints {
		id := JointID(i)
		if _, dup := s.byName[j.Name]; dup {
			return nil, jointError(s, id, fmt.Errorf("duplicate joint name %q", j.Name))
		}
		s.byName[j.Name] = id

		if j.Parent == Null {
			if j.HasSegment {
				return nil, jointError(s, id, ErrRootSegment)
			}
			s.offsets[i] = j.Rest
			s.lengths[i] = j.Rest.Length()
			continue
		}
		if j.Parent < 0 || j.Parent >= id {
			return nil, jointError(s, id, fmt.Errorf("%w: parent %d", ErrParentOrder, int(j.Parent)))
		}
		s.offsets[i] = j.Rest.Sub(s.joints[j.Parent].Rest)
		s.lengths[i] = s.offsets[i].Length()
		if j.HasSegment && s.lengths[i] == 0 {
			return nil, jointError(s, id, ErrZeroLengthBone)
		}
	}
	return s, nil
}

func (s *skeletonImpl) Len() int {
	return len(s.joints)
}

func (s *skeletonImpl) Joint(id JointID) Joint {
	return s.joints[id]
}

func (s *skeletonImpl) Joints() []Joint {
	out := make([]Joint, len(s.joints))
	copy(out, s.joints)
	return out
}

func (s *skeletonImpl) Parent(id JointID) JointID {
	return s.joints[id].Parent
}

func (s *skeletonImpl) Name(id JointID) string {
	return s.joints[id].Name
}

func (s *skeletonImpl) LocalOffset(id JointID) common.Vec3 {
	return s.offsets[id]
}

func (s *skeletonImpl) BoneLength(id JointID) float32 {
	return s.lengths[id]
}

func (s *skeletonImpl) HasSegment(id JointID) bool {
	return s.joints[id].HasSegment
}

func (s *skeletonImpl) Lookup(name string) (JointID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

func (s *skeletonImpl) Check(id JointID) error {
	if id < 0 || int(id) >= len(s.joints) {
		return &JointError{Joint: id, Name: id.String(), Err: ErrJointOutOfRange}
	}
	return nil
}
