package machine

import (
	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

// StateActionKind selects what a state action does to its animation.
type StateActionKind uint8

const (
	ActionRewindAnimation StateActionKind = iota
	ActionEnableAnimation
	ActionDisableAnimation
)

// StateAction mutates an animation when a state is entered or left. Actions
// with stale handles do nothing.
type StateAction[T comparable] struct {
	Kind      StateActionKind
	Animation pool.Handle[animation.Animation[T]]
}

func (sa StateAction[T]) apply(animations *animation.Container[T]) {
	a := animations.TryGet(sa.Animation)
	if a == nil {
		return
	}
	switch sa.Kind {
	case ActionRewindAnimation:
		a.Rewind()
	case ActionEnableAnimation:
		a.SetEnabled(true)
	case ActionDisableAnimation:
		a.SetEnabled(false)
	}
}

// State is a named position in a layer's state graph. Its pose comes from
// the pose node behind Root; a state with a stale root yields an empty pose.
type State[T comparable] struct {
	Name string
	Root pool.Handle[PoseNode[T]]

	// OnEnter runs when a transition into this state is armed, OnLeave when
	// a transition out of it is armed.
	OnEnter []StateAction[T]
	OnLeave []StateAction[T]
}

// NewState returns a state with the given name and root pose node.
func NewState[T comparable](name string, root pool.Handle[PoseNode[T]]) State[T] {
	return State[T]{Name: name, Root: root}
}

func (s *State[T]) update(nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) {
	if n := nodes.Get(s.Root); n != nil {
		(*n).EvalPose(nodes, params, animations, dt)
	}
}

// pose returns the root node's cached pose, or nil for a stale root.
func (s *State[T]) pose(nodes *pool.Pool[PoseNode[T]]) *animation.Pose[T] {
	n := nodes.Get(s.Root)
	if n == nil {
		return nil
	}
	return (*n).Pose()
}

func (s *State[T]) enter(animations *animation.Container[T]) {
	for _, a := range s.OnEnter {
		a.apply(animations)
	}
}

func (s *State[T]) leave(animations *animation.Container[T]) {
	for _, a := range s.OnLeave {
		a.apply(animations)
	}
}
