package machine

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

const testEpsilon = 1e-4

// makeClip returns a one-second looped clip holding target at x on the X
// axis for its whole duration.
func makeClip(name, target string, x float32) *animation.Animation[string] {
	a := animation.New[string](name)
	a.AddTrack(animation.NewTrack(target).AddPositionKey(1, math32.Vec3(x, 0, 0)))
	return a
}

// poseX returns the blended X position of target, failing the test when the
// target is absent.
func poseX(t *testing.T, p *animation.Pose[string], target string) float32 {
	t.Helper()
	tp, ok := p.Target(target)
	if !ok {
		t.Fatalf("expected pose to contain %q", target)
	}
	return tp.Position.X
}

func near(a, b float32) bool {
	return math32.Abs(a-b) <= testEpsilon
}

// twoStateFixture is a layer with states "idle" (bone at x=0) and "walk"
// (bone at x=10) joined by a one-second transition gated on the "walk" rule.
type twoStateFixture struct {
	layer      *Layer[string]
	anims      *animation.Container[string]
	params     *ParameterContainer
	idle, walk pool.Handle[State[string]]
	transition pool.Handle[Transition[string]]
}

func newTwoStateFixture() *twoStateFixture {
	f := &twoStateFixture{
		anims:  animation.NewContainer[string](),
		params: &ParameterContainer{},
		layer:  NewLayer[string]("locomotion"),
	}

	idleClip := f.anims.Add(makeClip("idle", "bone", 0))
	walkClip := f.anims.Add(makeClip("walk", "bone", 10))

	idleNode := f.layer.AddNode(NewPlayAnimation(idleClip))
	walkNode := f.layer.AddNode(NewPlayAnimation(walkClip))

	f.idle = f.layer.AddState(NewState("idle", idleNode))
	f.walk = f.layer.AddState(NewState("walk", walkNode))
	f.transition = f.layer.AddTransition(NewTransition("idle->walk", f.idle, f.walk, 1.0, "walk"))

	f.params.Set("walk", Rule(false))
	return f
}

func (f *twoStateFixture) tick(dt float32) *animation.Pose[string] {
	return f.layer.EvaluatePose(f.params, f.anims, dt)
}
