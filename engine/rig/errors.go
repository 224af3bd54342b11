package rig

import (
	"errors"
	"fmt"
)

var (
	// ErrJointOutOfRange is returned when a JointID does not index the skeleton.
	ErrJointOutOfRange = errors.New("joint index out of range")
	// ErrParentOrder is returned when a joint's parent does not precede it.
	ErrParentOrder = errors.New("parent must precede child")
	// ErrZeroLengthBone is returned when a joint sits exactly on its parent.
	ErrZeroLengthBone = errors.New("zero-length bone")
	// ErrRootSegment is returned when a joint without a parent is marked as drawing a segment.
	ErrRootSegment = errors.New("root joint cannot draw a segment")
	// ErrInvalidChain is returned when an IK chain is not a root→mid→end parent chain.
	ErrInvalidChain = errors.New("invalid two-bone chain")
	// ErrPoseMismatch is returned when a pose was allocated for a different skeleton size.
	ErrPoseMismatch = errors.New("pose does not match skeleton")
	// ErrNonFinite is returned when evaluation produced NaN or Inf.
	ErrNonFinite = errors.New("non-finite joint position")
)

// JointError attaches the offending joint to one of the sentinel errors above.
type JointError struct {
	Joint JointID
	Name  string
	Err   error
}

func (e *JointError) Error() string {
	return fmt.Sprintf("joint %s (%d): %v", e.Name, int(e.Joint), e.Err)
}

func (e *JointError) Unwrap() error {
	return e.Err
}

func jointError(s Skeleton, id JointID, err error) error {
	name := id.String()
	if s != nil && id >= 0 && int(id) < s.Len() {
		name = s.Name(id)
	}
	return &JointError{Joint: id, Name: name, Err: err}
}
