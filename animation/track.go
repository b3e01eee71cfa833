package animation

import "cogentcore.org/core/math32"

// VectorKey is a keyframe for a position or scale channel.
type VectorKey struct {
	Time  float32
	Value math32.Vector3
}

// RotationKey is a keyframe for a rotation channel. Value is a unit
// quaternion stored as (x, y, z, w).
type RotationKey struct {
	Time  float32
	Value math32.Vector4
}

// Track animates the local transform of a single target. Each channel is an
// independent keyframe list; a channel with no keys contributes its identity
// value. Keys must be added in ascending time order.
type Track[T comparable] struct {
	Target  T
	Enabled bool

	positions []VectorKey
	rotations []RotationKey
	scales    []VectorKey
}

// NewTrack returns an enabled track for the given target.
func NewTrack[T comparable](target T) *Track[T] {
	return &Track[T]{Target: target, Enabled: true}
}

func (t *Track[T]) AddPositionKey(time float32, v math32.Vector3) *Track[T] {
	t.positions = append(t.positions, VectorKey{Time: time, Value: v})
	return t
}

func (t *Track[T]) AddRotationKey(time float32, q math32.Vector4) *Track[T] {
	t.rotations = append(t.rotations, RotationKey{Time: time, Value: q})
	return t
}

func (t *Track[T]) AddScaleKey(time float32, v math32.Vector3) *Track[T] {
	t.scales = append(t.scales, VectorKey{Time: time, Value: v})
	return t
}

// Clone returns a deep copy of the track.
func (t *Track[T]) Clone() *Track[T] {
	return &Track[T]{
		Target:    t.Target,
		Enabled:   t.Enabled,
		positions: append([]VectorKey(nil), t.positions...),
		rotations: append([]RotationKey(nil), t.rotations...),
		scales:    append([]VectorKey(nil), t.scales...),
	}
}

// Length returns the time of the last key across all channels.
func (t *Track[T]) Length() float32 {
	var max float32
	if n := len(t.positions); n > 0 && t.positions[n-1].Time > max {
		max = t.positions[n-1].Time
	}
	if n := len(t.rotations); n > 0 && t.rotations[n-1].Time > max {
		max = t.rotations[n-1].Time
	}
	if n := len(t.scales); n > 0 && t.scales[n-1].Time > max {
		max = t.scales[n-1].Time
	}
	return max
}

// Sample returns the track's transform at the given time. Times outside the
// keyed range clamp to the first or last key.
func (t *Track[T]) Sample(time float32) Transform {
	out := IdentityTransform()
	if len(t.positions) > 0 {
		out.Position = sampleVector(t.positions, time)
	}
	if len(t.rotations) > 0 {
		out.Rotation = sampleRotation(t.rotations, time)
	}
	if len(t.scales) > 0 {
		out.Scale = sampleVector(t.scales, time)
	}
	return out
}

func sampleVector(keys []VectorKey, time float32) math32.Vector3 {
	if time <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if time >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		if time < keys[i].Time {
			a, b := keys[i-1], keys[i]
			k := (time - a.Time) / (b.Time - a.Time)
			return a.Value.Lerp(b.Value, k)
		}
	}
	return last.Value
}

func sampleRotation(keys []RotationKey, time float32) math32.Vector4 {
	if time <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if time >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		if time < keys[i].Time {
			a, b := keys[i-1].Value, keys[i].Value
			k := (time - keys[i-1].Time) / (keys[i].Time - keys[i-1].Time)
			if a.Dot(b) < 0 {
				b = b.Negate()
			}
			q := a.Lerp(b, k)
			if q.LengthSquared() > 1e-12 {
				return q.Normal()
			}
			return a
		}
	}
	return last.Value
}
