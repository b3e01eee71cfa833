package machine

import (
	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

// PoseNode is a node in a layer's pose graph. EvalPose recomputes the node's
// output for the current tick and caches it; Pose returns the cached output
// without recomputing. Implementations live in this package only.
type PoseNode[T comparable] interface {
	// EvalPose produces the node's pose for this tick. It resolves child
	// handles through nodes, reads blend inputs from params, and ticks any
	// animations it owns by dt.
	EvalPose(nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T]

	// Pose returns the output cached by the last EvalPose.
	Pose() *animation.Pose[T]

	// Children returns the node's direct child handles.
	Children() []pool.Handle[PoseNode[T]]

	poseNode()
}

// evalChild evaluates the node behind h, or returns nil for a stale handle.
func evalChild[T comparable](h pool.Handle[PoseNode[T]], nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T] {
	n := nodes.Get(h)
	if n == nil {
		return nil
	}
	return (*n).EvalPose(nodes, params, animations, dt)
}

// PlayAnimation outputs the pose of a single animation, advancing its clock
// each tick. A stale animation handle yields an empty pose.
type PlayAnimation[T comparable] struct {
	Animation pool.Handle[animation.Animation[T]]

	output *animation.Pose[T]
}

// NewPlayAnimation returns a node playing the given animation.
func NewPlayAnimation[T comparable](h pool.Handle[animation.Animation[T]]) *PlayAnimation[T] {
	return &PlayAnimation[T]{Animation: h, output: animation.NewPose[T]()}
}

func (p *PlayAnimation[T]) EvalPose(nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T] {
	p.output.Reset()
	if a := animations.TryGet(p.Animation); a != nil {
		a.Tick(dt)
		p.output.CopyFrom(a.Pose())
	}
	return p.output
}

func (p *PlayAnimation[T]) Pose() *animation.Pose[T] {
	return p.output
}

func (p *PlayAnimation[T]) Children() []pool.Handle[PoseNode[T]] {
	return nil
}

func (p *PlayAnimation[T]) poseNode() {}
