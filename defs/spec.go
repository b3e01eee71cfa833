// Package defs loads machine definitions from yaml and instantiates them
// into runnable machines. Definition errors are reported at build time;
// instantiated machines never fail at evaluation time.
package defs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MachineSpec is the root of a machine definition file.
type MachineSpec struct {
	Parameters []ParameterSpec `yaml:"parameters"`
	Layers     []LayerSpec     `yaml:"layers"`
}

// ParameterSpec declares an initial machine parameter. Kind selects which of
// the value fields applies: "rule", "weight", or "index".
type ParameterSpec struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"`
	Rule   bool    `yaml:"rule"`
	Weight float32 `yaml:"weight"`
	Index  int32   `yaml:"index"`
}

// LayerSpec declares one machine layer. A nil Weight defaults to 1. Mask
// lists targets the layer must not animate. Entry names the starting state;
// when empty, the first state listed is the entry.
type LayerSpec struct {
	Name        string           `yaml:"name"`
	Weight      *float32         `yaml:"weight"`
	Mask        []string         `yaml:"mask"`
	Entry       string           `yaml:"entry"`
	Nodes       []NodeSpec       `yaml:"nodes"`
	States      []StateSpec      `yaml:"states"`
	Transitions []TransitionSpec `yaml:"transitions"`
}

// NodeSpec declares a pose node. Kind is "play", "blend", or
// "blend_by_index". Play nodes name an animation; blend nodes list inputs;
// blend_by_index nodes additionally name their index parameter.
type NodeSpec struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	Animation string      `yaml:"animation"`
	Parameter string      `yaml:"parameter"`
	Inputs    []InputSpec `yaml:"inputs"`
}

// InputSpec declares one blend input. For "blend" nodes the weight is either
// the fixed Weight or, when Parameter is set, read from that weight
// parameter. For "blend_by_index" nodes BlendTime is the cross-fade
// duration into this input.
type InputSpec struct {
	Node      string  `yaml:"node"`
	Weight    float32 `yaml:"weight"`
	Parameter string  `yaml:"parameter"`
	BlendTime float32 `yaml:"blend_time"`
}

// StateSpec declares a state and its root node, plus animation actions run
// when the state is entered or left.
type StateSpec struct {
	Name    string       `yaml:"name"`
	Root    string       `yaml:"root"`
	OnEnter []ActionSpec `yaml:"on_enter"`
	OnLeave []ActionSpec `yaml:"on_leave"`
}

// ActionSpec declares a state action: "rewind", "enable", or "disable"
// applied to the named animation.
type ActionSpec struct {
	Action    string `yaml:"action"`
	Animation string `yaml:"animation"`
}

// TransitionSpec declares a timed transition between two states, gated on
// the named rule parameter (negated when Invert is set).
type TransitionSpec struct {
	Name   string  `yaml:"name"`
	Source string  `yaml:"source"`
	Dest   string  `yaml:"dest"`
	Time   float32 `yaml:"time"`
	Rule   string  `yaml:"rule"`
	Invert bool    `yaml:"invert"`
}

// Load reads and parses a machine definition file.
func Load(filename string) (*MachineSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("defs: load %s: %w", filename, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("defs: parse %s: %w", filename, err)
	}
	return spec, nil
}

// Parse parses a machine definition from yaml.
func Parse(data []byte) (*MachineSpec, error) {
	var spec MachineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("defs: unmarshal: %w", err)
	}
	return &spec, nil
}
