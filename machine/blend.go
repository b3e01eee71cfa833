package machine

import (
	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

// PoseWeight is a blend input weight, either a constant or a reference to a
// weight parameter. A referenced parameter that is missing or not a weight
// resolves to 0.
type PoseWeight struct {
	Parameter string
	Constant  float32
}

// ConstantWeight returns a fixed blend weight.
func ConstantWeight(v float32) PoseWeight {
	return PoseWeight{Constant: v}
}

// ParameterWeight returns a blend weight driven by the named parameter.
func ParameterWeight(name string) PoseWeight {
	return PoseWeight{Parameter: name}
}

// Value resolves the weight against the parameter container.
func (w PoseWeight) Value(params *ParameterContainer) float32 {
	if w.Parameter == "" {
		return w.Constant
	}
	return params.WeightValue(w.Parameter)
}

// BlendPose is one input of a BlendAnimations node.
type BlendPose[T comparable] struct {
	Weight PoseWeight
	Source pool.Handle[PoseNode[T]]
}

// BlendAnimations mixes its inputs by normalized weight: each input
// contributes weight/total, so the output is a weighted average regardless
// of the raw weight scale. Inputs with non-positive weight are skipped; if
// no positive weight remains the output is empty.
type BlendAnimations[T comparable] struct {
	Inputs []BlendPose[T]

	output *animation.Pose[T]
}

// NewBlendAnimations returns a blend node over the given inputs.
func NewBlendAnimations[T comparable](inputs ...BlendPose[T]) *BlendAnimations[T] {
	return &BlendAnimations[T]{Inputs: inputs, output: animation.NewPose[T]()}
}

func (b *BlendAnimations[T]) EvalPose(nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T] {
	b.output.Reset()

	var total float32
	weights := make([]float32, len(b.Inputs))
	for i, in := range b.Inputs {
		w := in.Weight.Value(params)
		if w <= 0 {
			continue
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return b.output
	}

	for i, in := range b.Inputs {
		if weights[i] <= 0 {
			continue
		}
		child := evalChild(in.Source, nodes, params, animations, dt)
		if child == nil {
			continue
		}
		b.output.BlendWith(child, weights[i]/total)
	}
	return b.output
}

func (b *BlendAnimations[T]) Pose() *animation.Pose[T] {
	return b.output
}

func (b *BlendAnimations[T]) Children() []pool.Handle[PoseNode[T]] {
	out := make([]pool.Handle[PoseNode[T]], 0, len(b.Inputs))
	for _, in := range b.Inputs {
		out = append(out, in.Source)
	}
	return out
}

func (b *BlendAnimations[T]) poseNode() {}

// IndexedBlendInput is one input of a BlendAnimationsByIndex node.
// BlendTime is how long the cross-fade into this input takes when the index
// parameter switches to it.
type IndexedBlendInput[T comparable] struct {
	Source    pool.Handle[PoseNode[T]]
	BlendTime float32
}

// BlendAnimationsByIndex selects one input by an index parameter and
// cross-fades between the previous and current input when the index
// changes. A missing or wrongly-typed index parameter selects input 0;
// out-of-range indices clamp.
type BlendAnimationsByIndex[T comparable] struct {
	Parameter string
	Inputs    []IndexedBlendInput[T]

	prevIndex int32
	hasPrev   bool
	blendTime float32

	output *animation.Pose[T]
}

// NewBlendAnimationsByIndex returns an index-switched blend node driven by
// the named index parameter.
func NewBlendAnimationsByIndex[T comparable](parameter string, inputs ...IndexedBlendInput[T]) *BlendAnimationsByIndex[T] {
	return &BlendAnimationsByIndex[T]{
		Parameter: parameter,
		Inputs:    inputs,
		output:    animation.NewPose[T](),
	}
}

func (b *BlendAnimationsByIndex[T]) EvalPose(nodes *pool.Pool[PoseNode[T]], params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T] {
	b.output.Reset()
	if len(b.Inputs) == 0 {
		return b.output
	}

	index := params.IndexValue(b.Parameter)
	if index < 0 {
		index = 0
	}
	if index > int32(len(b.Inputs)-1) {
		index = int32(len(b.Inputs) - 1)
	}

	if !b.hasPrev {
		b.prevIndex = index
		b.hasPrev = true
	}

	if b.prevIndex == index {
		b.blendTime = 0
		child := evalChild(b.Inputs[index].Source, nodes, params, animations, dt)
		if child != nil {
			b.output.CopyFrom(child)
		}
		return b.output
	}

	// Cross-fade from the previous input into the current one.
	current := b.Inputs[index]
	b.blendTime += dt
	if b.blendTime > current.BlendTime {
		b.blendTime = current.BlendTime
	}
	k := float32(1)
	if current.BlendTime > 0 {
		k = b.blendTime / current.BlendTime
	}

	if prev := evalChild(b.Inputs[b.prevIndex].Source, nodes, params, animations, dt); prev != nil {
		b.output.BlendWith(prev, 1-k)
	}
	if cur := evalChild(current.Source, nodes, params, animations, dt); cur != nil {
		b.output.BlendWith(cur, k)
	}

	if k >= 1 {
		b.prevIndex = index
		b.blendTime = 0
	}
	return b.output
}

func (b *BlendAnimationsByIndex[T]) Pose() *animation.Pose[T] {
	return b.output
}

func (b *BlendAnimationsByIndex[T]) Children() []pool.Handle[PoseNode[T]] {
	out := make([]pool.Handle[PoseNode[T]], 0, len(b.Inputs))
	for _, in := range b.Inputs {
		out = append(out, in.Source)
	}
	return out
}

func (b *BlendAnimationsByIndex[T]) poseNode() {}
