package defs

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/machine"
)

const fullDefinition = `
parameters:
  - name: walk
    kind: rule
  - name: speed
    kind: weight
    weight: 0.5
  - name: gait
    kind: index
    index: 1

layers:
  - name: locomotion
    entry: idle
    nodes:
      - name: idle_play
        kind: play
        animation: idle
      - name: walk_play
        kind: play
        animation: walk
      - name: run_play
        kind: play
        animation: run
      - name: gait_blend
        kind: blend_by_index
        parameter: gait
        inputs:
          - node: walk_play
            blend_time: 0.3
          - node: run_play
            blend_time: 0.3
      - name: moving
        kind: blend
        inputs:
          - node: gait_blend
            weight: 0.75
          - node: idle_play
            weight: 0.25
    states:
      - name: idle
        root: idle_play
      - name: moving
        root: moving
        on_enter:
          - action: rewind
            animation: walk
    transitions:
      - name: idle->moving
        source: idle
        dest: moving
        time: 0.5
        rule: walk
      - name: moving->idle
        source: moving
        dest: idle
        time: 0.5
        rule: walk
        invert: true
  - name: upper_body
    weight: 0.5
    mask: [leg]
    nodes:
      - name: wave_play
        kind: play
        animation: wave
    states:
      - name: wave
        root: wave_play
`

func testAnimations() *animation.Container[string] {
	anims := animation.NewContainer[string]()
	for _, name := range []string{"idle", "walk", "run", "wave"} {
		a := animation.New[string](name)
		a.AddTrack(animation.NewTrack("bone").AddPositionKey(1, math32.Vec3(1, 0, 0)))
		anims.Add(a)
	}
	return anims
}

func resolveAny(name string) (string, bool) { return name, true }

func TestInstantiateFullDefinition(t *testing.T) {
	spec, err := Parse([]byte(fullDefinition))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	anims := testAnimations()
	m, err := Instantiate(spec, anims, resolveAny)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	if len(m.Layers()) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(m.Layers()))
	}

	loco, ok := m.LayerByName("locomotion")
	if !ok {
		t.Fatal("expected locomotion layer")
	}
	if entry, ok := loco.FindStateByName("idle"); !ok || loco.EntryState() != entry {
		t.Error("expected idle as the entry state")
	}

	upper, ok := m.LayerByName("upper_body")
	if !ok {
		t.Fatal("expected upper_body layer")
	}
	if upper.Weight() != 0.5 {
		t.Errorf("expected upper_body weight 0.5, got %v", upper.Weight())
	}
	if upper.Mask().Len() != 1 || !upper.Mask().Contains("leg") {
		t.Error("expected leg in upper_body mask")
	}

	if m.Parameters().RuleValue("walk") {
		t.Error("expected walk rule to start false")
	}
	if got := m.Parameters().WeightValue("speed"); got != 0.5 {
		t.Errorf("expected speed 0.5, got %v", got)
	}
	if got := m.Parameters().IndexValue("gait"); got != 1 {
		t.Errorf("expected gait index 1, got %v", got)
	}

	// The machine must evaluate cleanly straight from the definition.
	out := m.EvaluatePose(anims, 0.25)
	if out.Len() == 0 {
		t.Error("expected a non-empty pose from the instantiated machine")
	}

	m.SetParameter("walk", machine.Rule(true))
	for i := 0; i < 4; i++ {
		m.EvaluatePose(anims, 0.25)
	}
	moving, _ := loco.FindStateByName("moving")
	if loco.ActiveState() != moving {
		t.Error("expected transition into moving after the rule held")
	}
}

func TestInstantiateErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown animation",
			yaml: `
layers:
  - name: base
    nodes:
      - name: n
        kind: play
        animation: missing
    states:
      - name: s
        root: n
`,
			check: func(t *testing.T, err error) {
				var refErr *UnknownReferenceError
				if !errors.As(err, &refErr) || refErr.Kind != "animation" {
					t.Errorf("expected unknown animation reference, got %v", err)
				}
			},
		},
		{
			name: "unknown root node",
			yaml: `
layers:
  - name: base
    states:
      - name: s
        root: missing
`,
			check: func(t *testing.T, err error) {
				var refErr *UnknownReferenceError
				if !errors.As(err, &refErr) || refErr.Kind != "node" {
					t.Errorf("expected unknown node reference, got %v", err)
				}
			},
		},
		{
			name: "unknown transition state",
			yaml: `
layers:
  - name: base
    nodes:
      - name: n
        kind: play
        animation: idle
    states:
      - name: s
        root: n
    transitions:
      - name: bad
        source: s
        dest: missing
        rule: go
`,
			check: func(t *testing.T, err error) {
				var refErr *UnknownReferenceError
				if !errors.As(err, &refErr) || refErr.Kind != "state" {
					t.Errorf("expected unknown state reference, got %v", err)
				}
			},
		},
		{
			name: "node cycle",
			yaml: `
layers:
  - name: base
    nodes:
      - name: a
        kind: blend
        inputs:
          - node: b
            weight: 1
      - name: b
        kind: blend
        inputs:
          - node: a
            weight: 1
`,
			check: func(t *testing.T, err error) {
				var cycleErr *CycleError
				if !errors.As(err, &cycleErr) {
					t.Errorf("expected cycle error, got %v", err)
				}
			},
		},
		{
			name: "duplicate parameter",
			yaml: `
parameters:
  - name: walk
    kind: rule
  - name: walk
    kind: weight
`,
			check: func(t *testing.T, err error) {
				var dupErr *DuplicateNameError
				if !errors.As(err, &dupErr) || dupErr.Kind != "parameter" {
					t.Errorf("expected duplicate parameter error, got %v", err)
				}
			},
		},
		{
			name: "duplicate node",
			yaml: `
layers:
  - name: base
    nodes:
      - name: n
        kind: play
        animation: idle
      - name: n
        kind: play
        animation: walk
`,
			check: func(t *testing.T, err error) {
				var dupErr *DuplicateNameError
				if !errors.As(err, &dupErr) || dupErr.Kind != "node" {
					t.Errorf("expected duplicate node error, got %v", err)
				}
			},
		},
		{
			name: "unknown node kind",
			yaml: `
layers:
  - name: base
    nodes:
      - name: n
        kind: warp
`,
			check: func(t *testing.T, err error) {
				var kindErr *UnknownKindError
				if !errors.As(err, &kindErr) {
					t.Errorf("expected unknown kind error, got %v", err)
				}
			},
		},
		{
			name: "unknown parameter kind",
			yaml: `
parameters:
  - name: p
    kind: toggle
`,
			check: func(t *testing.T, err error) {
				var kindErr *UnknownKindError
				if !errors.As(err, &kindErr) || kindErr.Field != "parameter kind" {
					t.Errorf("expected unknown parameter kind error, got %v", err)
				}
			},
		},
		{
			name: "unknown entry state",
			yaml: `
layers:
  - name: base
    entry: missing
    nodes:
      - name: n
        kind: play
        animation: idle
    states:
      - name: s
        root: n
`,
			check: func(t *testing.T, err error) {
				var refErr *UnknownReferenceError
				if !errors.As(err, &refErr) || refErr.Kind != "state" {
					t.Errorf("expected unknown state reference, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = Instantiate(spec, testAnimations(), resolveAny)
			if err == nil {
				t.Fatal("expected instantiate to fail")
			}
			tt.check(t, err)
		})
	}
}

func TestInstantiateUnknownMaskTarget(t *testing.T) {
	spec, err := Parse([]byte(`
layers:
  - name: base
    mask: [tail]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolveNone := func(string) (string, bool) { return "", false }
	_, err = Instantiate(spec, testAnimations(), resolveNone)
	var refErr *UnknownReferenceError
	if !errors.As(err, &refErr) || refErr.Kind != "target" {
		t.Errorf("expected unknown target reference, got %v", err)
	}
}

func TestParseRejectsMalformedYaml(t *testing.T) {
	if _, err := Parse([]byte("layers: [")); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}
