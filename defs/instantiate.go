package defs

import (
	"fmt"

	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/machine"
	"github.com/milk9111/blendmachine/pool"
)

// UnknownReferenceError reports a name that resolves to nothing: an
// animation, node, state, or target referenced but never declared.
type UnknownReferenceError struct {
	Kind string
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// DuplicateNameError reports two declarations sharing a name.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
}

// UnknownKindError reports an unrecognized kind or action string.
type UnknownKindError struct {
	Field string
	Value string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// CycleError reports a pose node graph that loops back on itself.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("node graph cycle through %q", e.Node)
}

// TargetResolver maps target names from a definition file to target ids.
type TargetResolver[T comparable] func(name string) (T, bool)

// Instantiate builds a runnable machine from a parsed definition.
// Animations are looked up by name in anims; mask entries are resolved
// through resolve. All reference, duplicate, kind, and cycle errors are
// reported here so the returned machine evaluates without failure.
func Instantiate[T comparable](spec *MachineSpec, anims *animation.Container[T], resolve TargetResolver[T]) (*machine.Machine[T], error) {
	m := machine.New[T]()
	m.RemoveLayer(0)

	for _, p := range spec.Parameters {
		param, err := buildParameter(p)
		if err != nil {
			return nil, fmt.Errorf("defs: parameter %q: %w", p.Name, err)
		}
		if err := m.Parameters().Add(p.Name, param); err != nil {
			return nil, fmt.Errorf("defs: %w", &DuplicateNameError{Kind: "parameter", Name: p.Name})
		}
	}

	for _, l := range spec.Layers {
		layer, err := buildLayer(l, anims, resolve)
		if err != nil {
			return nil, fmt.Errorf("defs: layer %q: %w", l.Name, err)
		}
		m.AddLayer(layer)
	}
	return m, nil
}

func buildParameter(p ParameterSpec) (machine.Parameter, error) {
	switch p.Kind {
	case "rule":
		return machine.Rule(p.Rule), nil
	case "weight":
		return machine.Weight(p.Weight), nil
	case "index":
		return machine.Index(p.Index), nil
	default:
		return machine.Parameter{}, &UnknownKindError{Field: "parameter kind", Value: p.Kind}
	}
}

func buildLayer[T comparable](spec LayerSpec, anims *animation.Container[T], resolve TargetResolver[T]) (*machine.Layer[T], error) {
	layer := machine.NewLayer[T](spec.Name)
	if spec.Weight != nil {
		layer.SetWeight(*spec.Weight)
	}

	if len(spec.Mask) > 0 {
		mask := machine.NewLayerMask[T]()
		for _, name := range spec.Mask {
			target, ok := resolve(name)
			if !ok {
				return nil, &UnknownReferenceError{Kind: "target", Name: name}
			}
			mask.Add(target)
		}
		layer.SetMask(mask)
	}

	nodes, err := buildNodes(spec.Nodes, layer, anims)
	if err != nil {
		return nil, err
	}

	states := make(map[string]pool.Handle[machine.State[T]], len(spec.States))
	for _, s := range spec.States {
		if _, ok := states[s.Name]; ok {
			return nil, &DuplicateNameError{Kind: "state", Name: s.Name}
		}
		root, ok := nodes[s.Root]
		if !ok {
			return nil, &UnknownReferenceError{Kind: "node", Name: s.Root}
		}
		state := machine.NewState(s.Name, root)
		if state.OnEnter, err = buildActions(s.OnEnter, anims); err != nil {
			return nil, fmt.Errorf("state %q: %w", s.Name, err)
		}
		if state.OnLeave, err = buildActions(s.OnLeave, anims); err != nil {
			return nil, fmt.Errorf("state %q: %w", s.Name, err)
		}
		states[s.Name] = layer.AddState(state)
	}

	for _, t := range spec.Transitions {
		source, ok := states[t.Source]
		if !ok {
			return nil, &UnknownReferenceError{Kind: "state", Name: t.Source}
		}
		dest, ok := states[t.Dest]
		if !ok {
			return nil, &UnknownReferenceError{Kind: "state", Name: t.Dest}
		}
		tr := machine.NewTransition(t.Name, source, dest, t.Time, t.Rule)
		if t.Invert {
			tr.WithCondition(machine.RuleCondition[T]{Parameter: t.Rule, Invert: true})
		}
		layer.AddTransition(tr)
	}

	if spec.Entry != "" {
		entry, ok := states[spec.Entry]
		if !ok {
			return nil, &UnknownReferenceError{Kind: "state", Name: spec.Entry}
		}
		layer.SetEntryState(entry)
	}
	return layer, nil
}

// buildNodes instantiates a layer's pose nodes in dependency order, failing
// on duplicate names, dangling references, and cycles.
func buildNodes[T comparable](specs []NodeSpec, layer *machine.Layer[T], anims *animation.Container[T]) (map[string]pool.Handle[machine.PoseNode[T]], error) {
	byName := make(map[string]NodeSpec, len(specs))
	for _, n := range specs {
		if _, ok := byName[n.Name]; ok {
			return nil, &DuplicateNameError{Kind: "node", Name: n.Name}
		}
		byName[n.Name] = n
	}

	built := make(map[string]pool.Handle[machine.PoseNode[T]], len(specs))
	visiting := make(map[string]bool, len(specs))

	var build func(name string) (pool.Handle[machine.PoseNode[T]], error)
	build = func(name string) (pool.Handle[machine.PoseNode[T]], error) {
		var none pool.Handle[machine.PoseNode[T]]
		if h, ok := built[name]; ok {
			return h, nil
		}
		if visiting[name] {
			return none, &CycleError{Node: name}
		}
		spec, ok := byName[name]
		if !ok {
			return none, &UnknownReferenceError{Kind: "node", Name: name}
		}
		visiting[name] = true
		defer delete(visiting, name)

		var node machine.PoseNode[T]
		switch spec.Kind {
		case "play":
			clip, ok := anims.FindByName(spec.Animation)
			if !ok {
				return none, &UnknownReferenceError{Kind: "animation", Name: spec.Animation}
			}
			node = machine.NewPlayAnimation(clip)
		case "blend":
			inputs := make([]machine.BlendPose[T], 0, len(spec.Inputs))
			for _, in := range spec.Inputs {
				child, err := build(in.Node)
				if err != nil {
					return none, err
				}
				w := machine.ConstantWeight(in.Weight)
				if in.Parameter != "" {
					w = machine.ParameterWeight(in.Parameter)
				}
				inputs = append(inputs, machine.BlendPose[T]{Weight: w, Source: child})
			}
			node = machine.NewBlendAnimations(inputs...)
		case "blend_by_index":
			inputs := make([]machine.IndexedBlendInput[T], 0, len(spec.Inputs))
			for _, in := range spec.Inputs {
				child, err := build(in.Node)
				if err != nil {
					return none, err
				}
				inputs = append(inputs, machine.IndexedBlendInput[T]{Source: child, BlendTime: in.BlendTime})
			}
			node = machine.NewBlendAnimationsByIndex(spec.Parameter, inputs...)
		default:
			return none, &UnknownKindError{Field: "node kind", Value: spec.Kind}
		}

		h := layer.AddNode(node)
		built[name] = h
		return h, nil
	}

	for _, n := range specs {
		if _, err := build(n.Name); err != nil {
			return nil, err
		}
	}
	return built, nil
}

func buildActions[T comparable](specs []ActionSpec, anims *animation.Container[T]) ([]machine.StateAction[T], error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]machine.StateAction[T], 0, len(specs))
	for _, a := range specs {
		clip, ok := anims.FindByName(a.Animation)
		if !ok {
			return nil, &UnknownReferenceError{Kind: "animation", Name: a.Animation}
		}
		var kind machine.StateActionKind
		switch a.Action {
		case "rewind":
			kind = machine.ActionRewindAnimation
		case "enable":
			kind = machine.ActionEnableAnimation
		case "disable":
			kind = machine.ActionDisableAnimation
		default:
			return nil, &UnknownKindError{Field: "state action", Value: a.Action}
		}
		out = append(out, machine.StateAction[T]{Kind: kind, Animation: clip})
	}
	return out, nil
}
