package rig

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

type skinnerImpl struct {
	thickness  float32
	jitter     float32
	seed       float32
	thinAfter  JointID
	thinParent JointID
	thinScale  float32
	axis       common.Vec3
}

// Skinner turns an evaluated pose into one capsule instance per segment joint.
//
// For joint i with parent p the instance is
//
//	Scale    = (w, |bone|, w)
//	Position = World[p]
//	Rotation = RotationAlign(bone/|bone|, axis)
//
// where bone = World[i] - World[p] and w = thickness + Hash11(i+seed)*jitter, multiplied by the
// thin scale when i comes after the thin-after joint or p is the thin-parent joint. Either rule
// is disabled by setting its joint to Null.
type Skinner interface {
	// Thickness returns the thickness w of joint id before the bone length is known.
	Thickness(id JointID, parent JointID) float32

	// Skin appends the instances for pose to dst.
	//
	// Parameters:
	//   - pose: an evaluated pose
	//   - dst: the instance slice to append to
	//
	// Returns:
	//   - []model.GPUInstance: dst with the new instances appended
	//   - error: ErrPoseMismatch when the pose's slices were resized, or a JointError wrapping
	//     ErrZeroLengthBone when a segment collapsed
	Skin(pose *Pose, dst []model.GPUInstance) ([]model.GPUInstance, error)

	// SkinInto is Skin followed by setting cmd.InstanceCount to the length of the result.
	SkinInto(pose *Pose, dst []model.GPUInstance, cmd *model.GPUDrawCommand) ([]model.GPUInstance, error)
}

var _ Skinner = &skinnerImpl{}

// NewSkinner creates a Skinner with the humanoid defaults: thickness 0.2, jitter 0.1, seed 349,
// limbs after Shoulder_R and the head segment halved, capsules along +Y.
//
// Parameters:
//   - options: skinner options
//
// Returns:
//   - Skinner: the skinner
func NewSkinner(options ...SkinnerBuilderOption) Skinner {
	s := &skinnerImpl{
		thickness:  .2,
		jitter:     .1,
		seed:       349,
		thinAfter:  ShoulderR,
		thinParent: Neck,
		thinScale:  .5,
		axis:       common.V3(0, 1, 0),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *skinnerImpl) Thickness(id JointID, parent JointID) float32 {
	w := s.thickness + common.Hash11(float32(id)+s.seed)*s.jitter
	if (s.thinAfter != Null && id > s.thinAfter) || (s.thinParent != Null && parent == s.thinParent) {
		w *= s.thinScale
	}
	return w
}

func (s *skinnerImpl) Skin(pose *Pose, dst []model.GPUInstance) ([]model.GPUInstance, error) {
	skel := pose.Skeleton()
	if len(pose.World) != skel.Len() {
		return dst, fmt.Errorf("%w: %d positions for %d joints", ErrPoseMismatch, len(pose.World), skel.Len())
	}
	for i := 0; i < skel.Len(); i++ {
		id := JointID(i)
		if !skel.HasSegment(id) {
			continue
		}
		parent := skel.Parent(id)
		bone := pose.World[id].Sub(pose.World[parent])
		r := bone.Length()
		if r == 0 {
			return dst, jointError(skel, id, ErrZeroLengthBone)
		}
		w := s.Thickness(id, parent)

		dst = append(dst, model.GPUInstance{
			Scale:    [3]float32{w, r, w},
			Position: pose.World[parent].Array(),
			Rotation: common.RotationAlign(bone.Scale(1/r), s.axis).Array(),
		})
	}
	return dst, nil
}

func (s *skinnerImpl) SkinInto(pose *Pose, dst []model.GPUInstance, cmd *model.GPUDrawCommand) ([]model.GPUInstance, error) {
	out, err := s.Skin(pose, dst)
	if err != nil {
		return out, err
	}
	cmd.InstanceCount = uint32(len(out))
	return out, nil
}
