package machine

import (
	"cogentcore.org/core/math32"

	"github.com/milk9111/blendmachine/pool"
)

const transitionEpsilon = 1e-5

// Transition is a timed, condition-gated edge between two states. While
// active, the layer blends the source pose into the destination pose over
// TransitionTime seconds.
type Transition[T comparable] struct {
	Name      string
	Source    pool.Handle[State[T]]
	Dest      pool.Handle[State[T]]
	Condition Condition[T]

	// TransitionTime is the blend duration in seconds. Zero or negative
	// completes on the first tick.
	TransitionTime float32

	elapsed float32
	blend   float32
}

// NewTransition returns a transition gated by the named rule parameter.
func NewTransition[T comparable](name string, source, dest pool.Handle[State[T]], time float32, rule string) *Transition[T] {
	return &Transition[T]{
		Name:           name,
		Source:         source,
		Dest:           dest,
		TransitionTime: time,
		Condition:      RuleCondition[T]{Parameter: rule},
	}
}

// WithCondition replaces the transition's condition and returns the
// transition for chaining.
func (t *Transition[T]) WithCondition(c Condition[T]) *Transition[T] {
	t.Condition = c
	return t
}

// BlendFactor returns the transition's progress in [0, 1]: 0 is all source,
// 1 is all destination.
func (t *Transition[T]) BlendFactor() float32 {
	return t.blend
}

// IsDone reports whether the blend has run its full duration.
func (t *Transition[T]) IsDone() bool {
	return math32.Abs(t.TransitionTime-t.elapsed) <= transitionEpsilon
}

func (t *Transition[T]) update(dt float32) {
	t.elapsed += dt
	if t.elapsed > t.TransitionTime {
		t.elapsed = t.TransitionTime
	}
	if t.TransitionTime <= 0 {
		t.elapsed = t.TransitionTime
		t.blend = 1
		return
	}
	t.blend = t.elapsed / t.TransitionTime
}

func (t *Transition[T]) reset() {
	t.elapsed = 0
	t.blend = 0
}
