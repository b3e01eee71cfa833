// Package machine implements an animation blending state machine: layered
// graphs of pose nodes connected to states, with rule-gated timed
// transitions between them. Evaluation never fails; missing parameters,
// stale handles, and empty graphs degrade to neutral values instead of
// errors.
package machine

import (
	"errors"
	"fmt"
)

// ErrDuplicateParameter is returned by ParameterContainer.Add when the name
// is already taken.
var ErrDuplicateParameter = errors.New("parameter already exists")

// ParameterKind discriminates the value stored in a Parameter.
type ParameterKind uint8

const (
	KindRule ParameterKind = iota
	KindWeight
	KindIndex
)

func (k ParameterKind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindWeight:
		return "weight"
	case KindIndex:
		return "index"
	default:
		return fmt.Sprintf("ParameterKind(%d)", uint8(k))
	}
}

// Parameter is a named external input to the machine: a boolean rule, a
// blend weight, or a pose index. Only the field matching Kind is meaningful.
type Parameter struct {
	Kind   ParameterKind
	Rule   bool
	Weight float32
	Index  int32
}

// Rule returns a boolean rule parameter.
func Rule(v bool) Parameter {
	return Parameter{Kind: KindRule, Rule: v}
}

// Weight returns a blend weight parameter.
func Weight(v float32) Parameter {
	return Parameter{Kind: KindWeight, Weight: v}
}

// Index returns a pose index parameter.
func Index(v int32) Parameter {
	return Parameter{Kind: KindIndex, Index: v}
}

// ParameterContainer maps names to parameters. Reads of missing or
// wrongly-typed parameters return the kind's neutral value, so evaluation
// can proceed with a partially configured machine.
type ParameterContainer struct {
	values map[string]Parameter
}

func (c *ParameterContainer) init() {
	if c.values == nil {
		c.values = make(map[string]Parameter)
	}
}

// Add inserts a new parameter and fails if the name is taken.
func (c *ParameterContainer) Add(name string, p Parameter) error {
	c.init()
	if _, ok := c.values[name]; ok {
		return fmt.Errorf("machine: add parameter %q: %w", name, ErrDuplicateParameter)
	}
	c.values[name] = p
	return nil
}

// Set inserts or replaces a parameter.
func (c *ParameterContainer) Set(name string, p Parameter) {
	c.init()
	c.values[name] = p
}

// Get returns the parameter and whether it exists.
func (c *ParameterContainer) Get(name string) (Parameter, bool) {
	p, ok := c.values[name]
	return p, ok
}

// Remove deletes a parameter if present.
func (c *ParameterContainer) Remove(name string) {
	delete(c.values, name)
}

// Len returns the number of parameters.
func (c *ParameterContainer) Len() int {
	return len(c.values)
}

// RuleValue returns the named rule, or false when the parameter is missing
// or not a rule.
func (c *ParameterContainer) RuleValue(name string) bool {
	p, ok := c.values[name]
	if !ok || p.Kind != KindRule {
		return false
	}
	return p.Rule
}

// WeightValue returns the named weight, or 0 when the parameter is missing
// or not a weight.
func (c *ParameterContainer) WeightValue(name string) float32 {
	p, ok := c.values[name]
	if !ok || p.Kind != KindWeight {
		return 0
	}
	return p.Weight
}

// IndexValue returns the named index, or 0 when the parameter is missing or
// not an index.
func (c *ParameterContainer) IndexValue(name string) int32 {
	p, ok := c.values[name]
	if !ok || p.Kind != KindIndex {
		return 0
	}
	return p.Index
}
