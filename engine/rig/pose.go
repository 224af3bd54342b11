package rig

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Pose is the per-evaluation state of one skeleton: driver inputs (Local, Translate, targets)
// and FK/IK outputs (World, Rotation). Every slice is indexed by JointID.
// Nothing in a Pose carries over between evaluations; Reset clears it.
type Pose struct {
	skeleton Skeleton

	// Origin places the root joint in world space.
	Origin common.Vec3
	// Local is the per-joint rotation delta applied before the parent's world rotation.
	Local []common.Mat3
	// Translate is added to a joint's local offset before it is rotated into the parent frame.
	Translate []common.Vec3

	// World is the world-space position of every joint.
	World []common.Vec3
	// Rotation is the accumulated world basis of every joint. Joints resolved by IK hold a
	// ScaledBasis here, which is not orthonormal.
	Rotation []common.Mat3

	targets  []Target
	resolved []bool
}

// NewPose allocates a pose for skel with identity local rotations.
//
// Parameters:
//   - skel: the skeleton the pose evaluates
//
// Returns:
//   - *Pose: a reset pose
func NewPose(skel Skeleton) *Pose {
	n := skel.Len()
	p := &Pose{
		skeleton:  skel,
		Local:     make([]common.Mat3, n),
		Translate: make([]common.Vec3, n),
		World:     make([]common.Vec3, n),
		Rotation:  make([]common.Mat3, n),
		resolved:  make([]bool, n),
	}
	p.Reset()
	return p
}

// Skeleton returns the skeleton this pose was allocated for.
func (p *Pose) Skeleton() Skeleton {
	return p.skeleton
}

// Reset restores identity local rotations, zero translations and clears IK targets.
// Origin is kept.
func (p *Pose) Reset() {
	for i := range p.Local {
		p.Local[i] = common.Identity3()
		p.Translate[i] = common.Vec3{}
		p.World[i] = common.Vec3{}
		p.Rotation[i] = common.Identity3()
		p.resolved[i] = false
	}
	p.targets = p.targets[:0]
}

// SetLocal sets the local rotation delta of id.
func (p *Pose) SetLocal(id JointID, m common.Mat3) error {
	if err := p.skeleton.Check(id); err != nil {
		return err
	}
	p.Local[id] = m
	return nil
}

// SetTranslate sets the additive local translation of id.
func (p *Pose) SetTranslate(id JointID, v common.Vec3) error {
	if err := p.skeleton.Check(id); err != nil {
		return err
	}
	p.Translate[id] = v
	return nil
}

// SetTarget requests that chain's end joint reach position. A later target for the same end
// joint replaces an earlier one.
//
// Parameters:
//   - chain: the two-bone chain to solve
//   - position: world-space target for chain.End
//
// Returns:
//   - error: the chain validation error, if any
func (p *Pose) SetTarget(chain Chain, position common.Vec3) error {
	if err := chain.Validate(p.skeleton); err != nil {
		return err
	}
	for i := range p.targets {
		if p.targets[i].Chain.End == chain.End {
			p.targets[i] = Target{Chain: chain, Position: position}
			return nil
		}
	}
	p.targets = append(p.targets, Target{Chain: chain, Position: position})
	return nil
}

// Targets returns the IK targets queued for this evaluation.
func (p *Pose) Targets() []Target {
	return p.targets
}

// EvaluateFK runs forward kinematics over every joint in index order:
//
//	Rotation[i] = Local[i] * Rotation[parent]
//	World[i]    = World[parent] + (LocalOffset[i] + Translate[i]) * Rotation[parent]
//
// The root is placed at Origin + LocalOffset[root] + Translate[root].
func (p *Pose) EvaluateFK() {
	for i := 0; i < len(p.World); i++ {
		p.evaluateJoint(JointID(i))
	}
}

// EvaluateDescendants re-runs FK for every joint below the given joints, skipping joints that
// IK already placed. The given joints themselves are left untouched.
//
// Parameters:
//   - ids: joints whose subtrees are re-evaluated
func (p *Pose) EvaluateDescendants(ids ...JointID) {
	dirty := make([]bool, len(p.World))
	for _, id := range ids {
		dirty[id] = true
	}
	for i := 0; i < len(p.World); i++ {
		id := JointID(i)
		parent := p.skeleton.Parent(id)
		if parent == Null || !dirty[parent] {
			continue
		}
		dirty[id] = true
		if !p.resolved[id] {
			p.evaluateJoint(id)
		}
	}
}

func (p *Pose) evaluateJoint(id JointID) {
	offset := p.skeleton.LocalOffset(id).Add(p.Translate[id])
	parent := p.skeleton.Parent(id)
	if parent == Null {
		p.World[id] = p.Origin.Add(offset)
		p.Rotation[id] = p.Local[id]
		return
	}
	p.World[id] = p.World[parent].Add(offset.MulMat(p.Rotation[parent]))
	p.Rotation[id] = p.Local[id].Mul(p.Rotation[parent])
}

// Check verifies every world position is finite and returns a JointError naming the first
// joint that is not.
func (p *Pose) Check() error {
	for i, w := range p.World {
		if !finite(w.X) || !finite(w.Y) || !finite(w.Z) {
			return jointError(p.skeleton, JointID(i), ErrNonFinite)
		}
	}
	return nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
