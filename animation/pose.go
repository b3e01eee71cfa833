package animation

import "cogentcore.org/core/math32"

// Transform is a local position/rotation/scale triple for a single target.
// Rotation is a unit quaternion stored as (x, y, z, w).
type Transform struct {
	Position math32.Vector3
	Rotation math32.Vector4
	Scale    math32.Vector3
}

// IdentityTransform returns a transform that leaves its target untouched.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math32.Vec4(0, 0, 0, 1),
		Scale:    math32.Vec3(1, 1, 1),
	}
}

// TargetPose is the accumulated blend contribution for one target. Position
// and scale sum linearly; rotation sums hemisphere-corrected quaternion
// components and is renormalized when the final transform is read out.
type TargetPose struct {
	Position math32.Vector3
	Rotation math32.Vector4
	Scale    math32.Vector3
	Weight   float32
}

func (tp *TargetPose) accumulate(t Transform, weight float32) {
	tp.Position = tp.Position.Add(t.Position.MulScalar(weight))
	tp.Scale = tp.Scale.Add(t.Scale.MulScalar(weight))

	// Keep contributions on the same hemisphere so opposite-sign encodings
	// of the same rotation reinforce instead of cancelling.
	q := t.Rotation
	if tp.Rotation.Dot(q) < 0 {
		q = q.Negate()
	}
	tp.Rotation = tp.Rotation.Add(q.MulScalar(weight))
	tp.Weight += weight
}

// Transform returns the blended transform with the rotation renormalized.
// A degenerate rotation sum falls back to identity.
func (tp *TargetPose) Transform() Transform {
	rot := math32.Vec4(0, 0, 0, 1)
	if tp.Rotation.LengthSquared() > 1e-12 {
		rot = tp.Rotation.Normal()
	}
	return Transform{
		Position: tp.Position,
		Rotation: rot,
		Scale:    tp.Scale,
	}
}

// Pose holds blended local transforms for a set of targets of type T.
type Pose[T comparable] struct {
	targets map[T]*TargetPose
}

// NewPose returns an empty pose.
func NewPose[T comparable]() *Pose[T] {
	return &Pose[T]{targets: make(map[T]*TargetPose)}
}

// Reset drops every target from the pose but keeps its storage.
func (p *Pose[T]) Reset() {
	for k := range p.targets {
		delete(p.targets, k)
	}
}

// Len returns the number of targets in the pose.
func (p *Pose[T]) Len() int {
	return len(p.targets)
}

// Target returns the accumulated contribution for a target, if present.
func (p *Pose[T]) Target(id T) (*TargetPose, bool) {
	tp, ok := p.targets[id]
	return tp, ok
}

// Add accumulates a transform for a target with the given weight, creating
// the target entry on first use.
func (p *Pose[T]) Add(id T, t Transform, weight float32) {
	tp, ok := p.targets[id]
	if !ok {
		tp = &TargetPose{}
		p.targets[id] = tp
	}
	tp.accumulate(t, weight)
}

// BlendWith accumulates other into p scaled by weight. Targets missing from
// p are inserted as weighted copies; targets already present sum their
// position and scale components and hemisphere-corrected rotations. Blending
// two poses each at weight 1.0 therefore yields the component-wise sum, not
// an average; callers that want an average pass normalized weights.
func (p *Pose[T]) BlendWith(other *Pose[T], weight float32) {
	for id, src := range other.targets {
		dst, ok := p.targets[id]
		if !ok {
			dst = &TargetPose{}
			p.targets[id] = dst
		}
		dst.Position = dst.Position.Add(src.Position.MulScalar(weight))
		dst.Scale = dst.Scale.Add(src.Scale.MulScalar(weight))
		q := src.Rotation
		if dst.Rotation.Dot(q) < 0 {
			q = q.Negate()
		}
		dst.Rotation = dst.Rotation.Add(q.MulScalar(weight))
		dst.Weight += src.Weight * weight
	}
}

// CopyFrom replaces p's contents with a copy of other.
func (p *Pose[T]) CopyFrom(other *Pose[T]) {
	p.Reset()
	for id, src := range other.targets {
		cp := *src
		p.targets[id] = &cp
	}
}

// Retain drops every target for which keep returns false.
func (p *Pose[T]) Retain(keep func(T) bool) {
	for id := range p.targets {
		if !keep(id) {
			delete(p.targets, id)
		}
	}
}

// Apply calls fn with the final blended transform of every target.
// Iteration order is unspecified.
func (p *Pose[T]) Apply(fn func(id T, t Transform)) {
	for id, tp := range p.targets {
		fn(id, tp.Transform())
	}
}
