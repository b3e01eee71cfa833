package main

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/blendmachine/animation"
)

// bone is a named joint with a rest offset relative to its parent. The
// machine's output pose contributes a positional delta per bone.
type bone struct {
	name   string
	parent string
	rest   math32.Vector2
}

// Rig is a stick figure whose joints are the animation targets.
type Rig struct {
	bones  []bone
	deltas map[string]math32.Vector3
	world  map[string]math32.Vector2
}

func NewRig() *Rig {
	return &Rig{
		bones: []bone{
			{name: "hips"},
			{name: "torso", parent: "hips", rest: math32.Vec2(0, -60)},
			{name: "head", parent: "torso", rest: math32.Vec2(0, -35)},
			{name: "arm_l", parent: "torso", rest: math32.Vec2(-35, 15)},
			{name: "arm_r", parent: "torso", rest: math32.Vec2(35, 15)},
			{name: "leg_l", parent: "hips", rest: math32.Vec2(-18, 60)},
			{name: "leg_r", parent: "hips", rest: math32.Vec2(18, 60)},
		},
		deltas: make(map[string]math32.Vector3),
		world:  make(map[string]math32.Vector2),
	}
}

// BoneNames returns every joint name, for resolving layer masks.
func (r *Rig) BoneNames() []string {
	out := make([]string, 0, len(r.bones))
	for _, b := range r.bones {
		out = append(out, b.name)
	}
	return out
}

// Has reports whether the rig contains the named joint.
func (r *Rig) Has(name string) bool {
	for _, b := range r.bones {
		if b.name == name {
			return true
		}
	}
	return false
}

// ApplyPose stores the machine's positional deltas and recomputes joint
// world positions down the parent chain from the given anchor.
func (r *Rig) ApplyPose(pose *animation.Pose[string], anchorX, anchorY float32) {
	for k := range r.deltas {
		delete(r.deltas, k)
	}
	pose.Apply(func(id string, t animation.Transform) {
		r.deltas[id] = t.Position
	})

	// Bones are listed parents-first, so a single pass resolves the chain.
	for _, b := range r.bones {
		pos := math32.Vec2(anchorX, anchorY)
		if b.parent != "" {
			pos = r.world[b.parent]
		}
		pos = pos.Add(b.rest)
		if d, ok := r.deltas[b.name]; ok {
			pos = pos.Add(math32.Vec2(d.X, d.Y))
		}
		r.world[b.name] = pos
	}
}

// Draw renders the rig as limb segments plus a head circle.
func (r *Rig) Draw(screen *ebiten.Image) {
	limb := color.RGBA{R: 220, G: 220, B: 220, A: 255}
	for _, b := range r.bones {
		if b.parent == "" {
			continue
		}
		from := r.world[b.parent]
		to := r.world[b.name]
		vector.StrokeLine(screen, from.X, from.Y, to.X, to.Y, 4, limb, true)
	}
	if head, ok := r.world["head"]; ok {
		vector.StrokeCircle(screen, head.X, head.Y, 12, 3, limb, true)
	}
}
