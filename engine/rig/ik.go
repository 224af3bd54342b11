package rig

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Chain describes a two-bone IK chain: Root → Mid → End, where Mid's parent is Root and End's
// parent is Mid. Hint is the bend direction handed to the solver.
type Chain struct {
	Root JointID
	Mid  JointID
	End  JointID
	Hint common.Vec3
}

// ChainTo builds the chain ending at end by walking two parents up the skeleton.
//
// Parameters:
//   - s: the skeleton
//   - end: the end effector joint
//   - hint: bend direction hint
//
// Returns:
//   - Chain: the two-bone chain
//   - error: a JointError when end has fewer than two ancestors
func ChainTo(s Skeleton, end JointID, hint common.Vec3) (Chain, error) {
	if err := s.Check(end); err != nil {
		return Chain{}, err
	}
	mid := s.Parent(end)
	if mid == Null || s.Parent(mid) == Null {
		return Chain{}, jointError(s, end, fmt.Errorf("%w: needs two ancestors", ErrInvalidChain))
	}
	c := Chain{Root: s.Parent(mid), Mid: mid, End: end, Hint: hint}
	return c, c.Validate(s)
}

// Validate checks the chain against s: indices in range, parent links intact, non-zero bones
// and a non-zero hint.
func (c Chain) Validate(s Skeleton) error {
	for _, id := range []JointID{c.Root, c.Mid, c.End} {
		if err := s.Check(id); err != nil {
			return err
		}
	}
	if s.Parent(c.Mid) != c.Root {
		return jointError(s, c.Mid, fmt.Errorf("%w: parent is not %s", ErrInvalidChain, s.Name(c.Root)))
	}
	if s.Parent(c.End) != c.Mid {
		return jointError(s, c.End, fmt.Errorf("%w: parent is not %s", ErrInvalidChain, s.Name(c.Mid)))
	}
	if s.BoneLength(c.Mid) == 0 {
		return jointError(s, c.Mid, ErrZeroLengthBone)
	}
	if s.BoneLength(c.End) == 0 {
		return jointError(s, c.End, ErrZeroLengthBone)
	}
	if c.Hint.IsZero() {
		return jointError(s, c.End, fmt.Errorf("%w: zero bend hint", ErrInvalidChain))
	}
	return nil
}

// Target is a queued IK request.
type Target struct {
	Chain    Chain
	Position common.Vec3
}

// ScaledBasis is the matrix IK stores for a resolved joint: the alignment of the rest bone
// vector onto the solved bone vector, computed from the unnormalized vectors and multiplied by
// 1/|rest|². It equals a rotation only when the bone has unit length, so it is kept distinct
// from rotation matrices and only converted explicitly.
type ScaledBasis struct {
	m common.Mat3
}

// NewScaledBasis aligns rest onto solved, both expected to have the same length.
//
// Parameters:
//   - solved: the bone vector after solving (child minus parent)
//   - rest: the rest-pose local offset of the bone
//
// Returns:
//   - ScaledBasis: RotationAlign(solved, rest) / dot(rest, rest)
func NewScaledBasis(solved, rest common.Vec3) ScaledBasis {
	return ScaledBasis{m: common.RotationAlign(solved, rest).Scale(1 / rest.Dot(rest))}
}

// Mat3 returns the underlying matrix.
func (b ScaledBasis) Mat3() common.Mat3 {
	return b.m
}

// ChainResult reports where a chain was placed.
type ChainResult struct {
	Mid       common.Vec3
	End       common.Vec3
	MidBasis  ScaledBasis
	EndBasis  ScaledBasis
	Reachable bool
}

// ResolveChain solves c towards target on a pose whose ancestors of c.Root are already evaluated.
// The mid joint is placed with SolveTwoBone, the end joint at the target (or at full extension
// along the target direction when out of reach), and both receive a ScaledBasis in Rotation.
// Descendants of c.End are not updated; call EvaluateDescendants afterwards.
//
// Parameters:
//   - pose: the pose to modify
//   - c: the chain
//   - target: world-space position for c.End
//
// Returns:
//   - ChainResult: the placed joints and bases
//   - error: the chain validation error, if any
func ResolveChain(pose *Pose, c Chain, target common.Vec3) (ChainResult, error) {
	s := pose.skeleton
	if err := c.Validate(s); err != nil {
		return ChainResult{}, err
	}
	r1, r2 := s.BoneLength(c.Mid), s.BoneLength(c.End)
	root := pose.World[c.Root]

	p := target.Sub(root)
	reachable := p.Length() <= r1+r2
	end := target
	if !reachable {
		end = root.Add(p.Normalize().Scale(r1 + r2))
	}

	mid := root.Add(common.SolveTwoBone(p, r1, r2, c.Hint))
	res := ChainResult{
		Mid:       mid,
		End:       end,
		MidBasis:  NewScaledBasis(mid.Sub(root), s.LocalOffset(c.Mid)),
		EndBasis:  NewScaledBasis(end.Sub(mid), s.LocalOffset(c.End)),
		Reachable: reachable,
	}

	pose.World[c.Mid] = res.Mid
	pose.World[c.End] = res.End
	pose.Rotation[c.Mid] = res.MidBasis.Mat3()
	pose.Rotation[c.End] = res.EndBasis.Mat3()
	pose.resolved[c.Mid] = true
	pose.resolved[c.End] = true
	return res, nil
}

// ResolveTargets resolves every queued target, ordered by chain root so a chain hanging below
// another chain sees its ancestors already solved, and re-runs FK below each chain end.
func (p *Pose) ResolveTargets() error {
	ordered := make([]Target, len(p.targets))
	copy(ordered, p.targets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Chain.Root < ordered[j].Chain.Root
	})
	for _, t := range ordered {
		if _, err := ResolveChain(p, t.Chain, t.Position); err != nil {
			return err
		}
		p.EvaluateDescendants(t.Chain.End)
	}
	return nil
}
