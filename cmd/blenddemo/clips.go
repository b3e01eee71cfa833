package main

import (
	"cogentcore.org/core/math32"

	"github.com/milk9111/blendmachine/animation"
)

func key(x, y float32) math32.Vector3 {
	return math32.Vec3(x, y, 0)
}

// buildClips procedurally authors the demo's clips. Positions are pixel
// deltas from each joint's rest pose. The upper-body clips only touch the
// right arm so the wave layer can sit on top of locomotion.
func buildClips() *animation.Container[string] {
	anims := animation.NewContainer[string]()

	idle := animation.New[string]("idle")
	idle.AddTrack(animation.NewTrack("hips").
		AddPositionKey(0, key(0, 0)).
		AddPositionKey(1, key(0, 3)).
		AddPositionKey(2, key(0, 0)))
	idle.AddTrack(animation.NewTrack("arm_l").
		AddPositionKey(0, key(0, 0)).
		AddPositionKey(1, key(0, 2)).
		AddPositionKey(2, key(0, 0)))
	idle.AddTrack(animation.NewTrack("arm_r").
		AddPositionKey(0, key(0, 0)).
		AddPositionKey(1, key(0, 2)).
		AddPositionKey(2, key(0, 0)))
	anims.Add(idle)

	walk := animation.New[string]("walk")
	walk.AddTrack(animation.NewTrack("leg_l").
		AddPositionKey(0, key(-14, -4)).
		AddPositionKey(0.5, key(14, 0)).
		AddPositionKey(1, key(-14, -4)))
	walk.AddTrack(animation.NewTrack("leg_r").
		AddPositionKey(0, key(14, 0)).
		AddPositionKey(0.5, key(-14, -4)).
		AddPositionKey(1, key(14, 0)))
	walk.AddTrack(animation.NewTrack("arm_l").
		AddPositionKey(0, key(8, 0)).
		AddPositionKey(0.5, key(-8, 0)).
		AddPositionKey(1, key(8, 0)))
	walk.AddTrack(animation.NewTrack("arm_r").
		AddPositionKey(0, key(-8, 0)).
		AddPositionKey(0.5, key(8, 0)).
		AddPositionKey(1, key(-8, 0)))
	walk.AddTrack(animation.NewTrack("hips").
		AddPositionKey(0, key(0, 0)).
		AddPositionKey(0.25, key(0, 3)).
		AddPositionKey(0.5, key(0, 0)).
		AddPositionKey(0.75, key(0, 3)).
		AddPositionKey(1, key(0, 0)))
	anims.Add(walk)

	run := animation.New[string]("run")
	run.AddTrack(animation.NewTrack("leg_l").
		AddPositionKey(0, key(-26, -10)).
		AddPositionKey(0.3, key(26, 0)).
		AddPositionKey(0.6, key(-26, -10)))
	run.AddTrack(animation.NewTrack("leg_r").
		AddPositionKey(0, key(26, 0)).
		AddPositionKey(0.3, key(-26, -10)).
		AddPositionKey(0.6, key(26, 0)))
	run.AddTrack(animation.NewTrack("arm_l").
		AddPositionKey(0, key(16, -6)).
		AddPositionKey(0.3, key(-16, -6)).
		AddPositionKey(0.6, key(16, -6)))
	run.AddTrack(animation.NewTrack("arm_r").
		AddPositionKey(0, key(-16, -6)).
		AddPositionKey(0.3, key(16, -6)).
		AddPositionKey(0.6, key(-16, -6)))
	run.AddTrack(animation.NewTrack("torso").
		AddPositionKey(0, key(6, 0)).
		AddPositionKey(0.3, key(6, -4)).
		AddPositionKey(0.6, key(6, 0)))
	run.AddTrack(animation.NewTrack("hips").
		AddPositionKey(0, key(0, -2)).
		AddPositionKey(0.15, key(0, 4)).
		AddPositionKey(0.3, key(0, -2)).
		AddPositionKey(0.45, key(0, 4)).
		AddPositionKey(0.6, key(0, -2)))
	anims.Add(run)

	// Neutral upper-body clip: the wave layer's resting state adds nothing.
	armRest := animation.New[string]("arm_rest")
	armRest.AddTrack(animation.NewTrack("arm_r").AddPositionKey(1, key(0, 0)))
	anims.Add(armRest)

	wave := animation.New[string]("wave")
	wave.AddTrack(animation.NewTrack("arm_r").
		AddPositionKey(0, key(10, -55)).
		AddPositionKey(0.4, key(28, -68)).
		AddPositionKey(0.8, key(10, -55)))
	wave.AddSignal(animation.NewSignal("wave_apex", 0.4))
	anims.Add(wave)

	return anims
}
