package machine

import (
	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

// Condition gates a transition. Conditions are re-evaluated every tick while
// their transition's source state is active.
type Condition[T comparable] interface {
	Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool
}

// RuleCondition reads a boolean rule parameter. A missing or wrongly-typed
// parameter reads as false (before inversion).
type RuleCondition[T comparable] struct {
	Parameter string
	Invert    bool
}

func (c RuleCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	v := params.RuleValue(c.Parameter)
	if c.Invert {
		return !v
	}
	return v
}

// AndCondition is true when both operands are true.
type AndCondition[T comparable] struct {
	Lhs, Rhs Condition[T]
}

func (c AndCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	return c.Lhs.Evaluate(params, animations) && c.Rhs.Evaluate(params, animations)
}

// OrCondition is true when either operand is true.
type OrCondition[T comparable] struct {
	Lhs, Rhs Condition[T]
}

func (c OrCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	return c.Lhs.Evaluate(params, animations) || c.Rhs.Evaluate(params, animations)
}

// XorCondition is true when exactly one operand is true.
type XorCondition[T comparable] struct {
	Lhs, Rhs Condition[T]
}

func (c XorCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	return c.Lhs.Evaluate(params, animations) != c.Rhs.Evaluate(params, animations)
}

// NotCondition negates its operand.
type NotCondition[T comparable] struct {
	Operand Condition[T]
}

func (c NotCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	return !c.Operand.Evaluate(params, animations)
}

// AnimationEndedCondition is true once a non-looped animation has played
// through. A stale handle counts as ended.
type AnimationEndedCondition[T comparable] struct {
	Animation pool.Handle[animation.Animation[T]]
}

func (c AnimationEndedCondition[T]) Evaluate(params *ParameterContainer, animations *animation.Container[T]) bool {
	a := animations.TryGet(c.Animation)
	if a == nil {
		return true
	}
	return a.HasEnded()
}
