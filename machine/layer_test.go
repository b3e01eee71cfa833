package machine

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/milk9111/blendmachine/animation"
)

func TestLayerRestsInEntryState(t *testing.T) {
	f := newTwoStateFixture()

	out := f.tick(0.25)
	if got := poseX(t, out, "bone"); !near(got, 0) {
		t.Errorf("expected idle pose, got %v", got)
	}
	if f.layer.ActiveState() != f.idle {
		t.Error("expected active state to stay idle while the rule is false")
	}
	if !f.layer.ActiveTransition().IsNone() {
		t.Error("expected no active transition")
	}
}

func TestTransitionLifecycle(t *testing.T) {
	f := newTwoStateFixture()
	f.params.Set("walk", Rule(true))

	// First tick arms the transition and still outputs the source pose.
	f.tick(0.25)
	if f.layer.ActiveTransition().IsNone() {
		t.Fatal("expected transition to arm once the rule holds")
	}
	if !f.layer.ActiveState().IsNone() {
		t.Error("expected no active state while transitioning")
	}
	tr := f.layer.Transition(f.transition)
	if !near(tr.BlendFactor(), 0.25) {
		t.Errorf("expected blend factor 0.25 after first tick, got %v", tr.BlendFactor())
	}

	// Second tick blends with the pre-advance factor.
	out := f.tick(0.25)
	if got := poseX(t, out, "bone"); !near(got, 2.5) {
		t.Errorf("expected blended position 2.5, got %v", got)
	}
	if !near(tr.BlendFactor(), 0.5) {
		t.Errorf("expected blend factor 0.5, got %v", tr.BlendFactor())
	}

	f.tick(0.25)
	f.tick(0.25)

	if f.layer.ActiveState() != f.walk {
		t.Fatal("expected walk to become the active state")
	}
	if !f.layer.ActiveTransition().IsNone() {
		t.Error("expected transition cleared after completion")
	}
	if !near(tr.BlendFactor(), 0) {
		t.Errorf("expected transition reset for reuse, got blend factor %v", tr.BlendFactor())
	}

	out = f.tick(0.25)
	if got := poseX(t, out, "bone"); !near(got, 10) {
		t.Errorf("expected pure walk pose after transition, got %v", got)
	}
}

func TestTransitionEventOrder(t *testing.T) {
	f := newTwoStateFixture()
	f.params.Set("walk", Rule(true))

	for i := 0; i < 5; i++ {
		f.tick(0.25)
	}

	expected := []EventKind{
		EventStateLeave,
		EventStateEnter,
		EventActiveTransitionChanged,
		EventActiveStateChanged,
	}
	for i, want := range expected {
		e, ok := f.layer.PopEvent()
		if !ok {
			t.Fatalf("expected event %d (%s), queue was empty", i, want)
		}
		if e.Kind != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, e.Kind)
		}
		switch want {
		case EventStateLeave:
			if e.State != f.idle {
				t.Error("expected leave event for idle")
			}
		case EventStateEnter:
			if e.State != f.walk {
				t.Errorf("expected %s event for walk", want)
			}
		case EventActiveStateChanged:
			if e.State != f.walk {
				t.Errorf("expected %s event for walk", want)
			}
			if e.PrevState != f.idle {
				t.Errorf("expected previous state idle, got %v", e.PrevState)
			}
		case EventActiveTransitionChanged:
			if e.Transition != f.transition {
				t.Error("expected transition event for idle->walk")
			}
		}
	}
	if _, ok := f.layer.PopEvent(); ok {
		t.Error("expected no further events")
	}
}

func TestFirstMatchingTransitionWins(t *testing.T) {
	f := newTwoStateFixture()
	runClip := f.anims.Add(makeClip("run", "bone", 20))
	runNode := f.layer.AddNode(NewPlayAnimation(runClip))
	run := f.layer.AddState(NewState("run", runNode))

	// Both transitions out of idle are gated on the same rule; the one
	// added first (idle->walk from the fixture) must win.
	f.layer.AddTransition(NewTransition("idle->run", f.idle, run, 1.0, "walk"))
	f.params.Set("walk", Rule(true))

	f.tick(0.25)
	if got := f.layer.ActiveTransition(); got != f.transition {
		t.Errorf("expected first registered transition to arm, got %v", got)
	}
}

func TestZeroTimeTransitionCompletesImmediately(t *testing.T) {
	f := newTwoStateFixture()
	f.layer.Transition(f.transition).TransitionTime = 0
	f.params.Set("walk", Rule(true))

	f.tick(0.25)
	if f.layer.ActiveState() != f.walk {
		t.Error("expected zero-time transition to finish within one tick")
	}
}

func TestTransitionIgnoresOtherSourceStates(t *testing.T) {
	f := newTwoStateFixture()
	// walk -> idle transition must not arm while idle is active.
	f.layer.AddTransition(NewTransition("walk->idle", f.walk, f.idle, 1.0, "stop"))
	f.params.Set("stop", Rule(true))

	f.tick(0.25)
	if !f.layer.ActiveTransition().IsNone() {
		t.Error("expected transition from inactive source to stay idle")
	}
}

func TestLayerMaskDropsExcludedTargets(t *testing.T) {
	anims := animation.NewContainer[string]()
	layer := NewLayer[string]("upper")

	clip := animation.New[string]("wave")
	clip.AddTrack(animation.NewTrack("arm").AddPositionKey(1, math32.Vec3(1, 0, 0)))
	clip.AddTrack(animation.NewTrack("leg").AddPositionKey(1, math32.Vec3(2, 0, 0)))
	node := layer.AddNode(NewPlayAnimation(anims.Add(clip)))
	layer.AddState(NewState("wave", node))
	layer.SetMask(NewLayerMask("leg"))

	params := &ParameterContainer{}
	out := layer.EvaluatePose(params, anims, 0.25)

	if _, ok := out.Target("leg"); ok {
		t.Error("expected masked target to be dropped")
	}
	if _, ok := out.Target("arm"); !ok {
		t.Error("expected unmasked target to remain")
	}
}

func TestStateActionsRunOnTransition(t *testing.T) {
	f := newTwoStateFixture()

	walkClipHandle, _ := f.anims.FindByName("walk")
	idleClipHandle, _ := f.anims.FindByName("idle")

	walkState := f.layer.State(f.walk)
	walkState.OnEnter = []StateAction[string]{
		{Kind: ActionRewindAnimation, Animation: walkClipHandle},
		{Kind: ActionEnableAnimation, Animation: walkClipHandle},
	}
	idleState := f.layer.State(f.idle)
	idleState.OnLeave = []StateAction[string]{
		{Kind: ActionDisableAnimation, Animation: idleClipHandle},
	}

	// Push the walk clip's clock forward, then disable it so the rewind
	// and enable are observable.
	walkClip := f.anims.TryGet(walkClipHandle)
	walkClip.SetTimePosition(0.9)
	walkClip.SetEnabled(false)

	f.params.Set("walk", Rule(true))
	f.tick(0.25)

	// Enter actions run after the state update phase, so the rewound clock
	// does not advance until the next tick.
	if got := walkClip.TimePosition(); !near(got, 0) {
		t.Errorf("expected walk clip rewound, got clock %v", got)
	}
	if !walkClip.Enabled() {
		t.Error("expected enter action to enable the walk clip")
	}
	if f.anims.TryGet(idleClipHandle).Enabled() {
		t.Error("expected leave action to disable the idle clip")
	}
}

func TestLayerReset(t *testing.T) {
	f := newTwoStateFixture()
	f.params.Set("walk", Rule(true))
	f.tick(0.25)
	f.tick(0.25)

	f.layer.Reset()

	if f.layer.ActiveState() != f.idle {
		t.Error("expected reset to restore the entry state")
	}
	if !f.layer.ActiveTransition().IsNone() {
		t.Error("expected reset to clear the active transition")
	}
	if _, ok := f.layer.PopEvent(); ok {
		t.Error("expected reset to drop pending events")
	}

	f.params.Set("walk", Rule(false))
	out := f.tick(0.25)
	if got := poseX(t, out, "bone"); !near(got, 0) {
		t.Errorf("expected idle pose after reset, got %v", got)
	}
}

func TestEmptyLayerYieldsEmptyPose(t *testing.T) {
	layer := NewLayer[string]("empty")
	anims := animation.NewContainer[string]()

	out := layer.EvaluatePose(&ParameterContainer{}, anims, 0.25)
	if out.Len() != 0 {
		t.Errorf("expected empty pose from stateless layer, got %d targets", out.Len())
	}
}

func TestRemovedActiveStateYieldsEmptyPose(t *testing.T) {
	f := newTwoStateFixture()
	f.layer.RemoveState(f.idle)

	out := f.tick(0.25)
	if out.Len() != 0 {
		t.Errorf("expected empty pose for dangling active state, got %d targets", out.Len())
	}
}

func TestSetEntryStateSwitchesActive(t *testing.T) {
	f := newTwoStateFixture()
	f.layer.SetEntryState(f.walk)

	out := f.tick(0.25)
	if got := poseX(t, out, "bone"); !near(got, 10) {
		t.Errorf("expected walk pose after entry change, got %v", got)
	}
}

func TestFindStateByName(t *testing.T) {
	f := newTwoStateFixture()

	h, ok := f.layer.FindStateByName("walk")
	if !ok || h != f.walk {
		t.Errorf("expected to find walk state, got %v (ok=%v)", h, ok)
	}
	if _, ok := f.layer.FindStateByName("swim"); ok {
		t.Error("expected lookup of unknown state to fail")
	}
}
