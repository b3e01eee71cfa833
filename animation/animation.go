// Package animation provides keyframed clips, playback clocks, and pose
// blending for targets of any comparable id type.
package animation

const defaultMaxEvents = 32

// Animation is a playable clip: a set of tracks plus a playback clock over a
// [start, end] time slice. Looped clips wrap the clock, non-looped clips
// clamp it. Speed scales the clock advance and may be negative to play in
// reverse.
type Animation[T comparable] struct {
	name    string
	tracks  []*Track[T]
	signals []Signal

	timePos    float32
	sliceStart float32
	sliceEnd   float32
	explicit   bool
	speed      float32
	looped     bool
	enabled    bool

	events    []Event
	maxEvents int

	pose *Pose[T]
}

// New returns an enabled, looped animation playing at speed 1.
func New[T comparable](name string) *Animation[T] {
	return &Animation[T]{
		name:      name,
		speed:     1,
		looped:    true,
		enabled:   true,
		maxEvents: defaultMaxEvents,
		pose:      NewPose[T](),
	}
}

func (a *Animation[T]) Name() string { return a.name }

// Clone returns a deep copy of the animation: tracks, signals, pending
// events, and the sampled pose are copied, so ticking the original and the
// clone stay independent.
func (a *Animation[T]) Clone() *Animation[T] {
	c := *a
	c.tracks = make([]*Track[T], len(a.tracks))
	for i, t := range a.tracks {
		c.tracks[i] = t.Clone()
	}
	c.signals = append([]Signal(nil), a.signals...)
	c.events = append([]Event(nil), a.events...)
	c.pose = NewPose[T]()
	c.pose.CopyFrom(a.pose)
	return &c
}

// AddTrack appends a track. Unless a time slice was set explicitly, the
// slice end grows to cover the track's last key.
func (a *Animation[T]) AddTrack(t *Track[T]) *Animation[T] {
	a.tracks = append(a.tracks, t)
	if !a.explicit {
		if l := t.Length(); l > a.sliceEnd {
			a.sliceEnd = l
		}
	}
	return a
}

func (a *Animation[T]) Tracks() []*Track[T] { return a.tracks }

// AddSignal registers a timeline signal.
func (a *Animation[T]) AddSignal(s Signal) *Animation[T] {
	a.signals = append(a.signals, s)
	return a
}

// SetTimeSlice pins the playable range. The current clock position is
// re-clamped into the new range.
func (a *Animation[T]) SetTimeSlice(start, end float32) {
	if end < start {
		start, end = end, start
	}
	a.sliceStart = start
	a.sliceEnd = end
	a.explicit = true
	a.timePos = clamp(a.timePos, start, end)
}

// TimeSlice returns the playable range of the clock.
func (a *Animation[T]) TimeSlice() (start, end float32) {
	return a.sliceStart, a.sliceEnd
}

// Length returns the duration of the playable range.
func (a *Animation[T]) Length() float32 {
	return a.sliceEnd - a.sliceStart
}

func (a *Animation[T]) SetSpeed(s float32) { a.speed = s }
func (a *Animation[T]) Speed() float32     { return a.speed }

func (a *Animation[T]) SetLooped(l bool) { a.looped = l }
func (a *Animation[T]) Looped() bool     { return a.looped }

func (a *Animation[T]) SetEnabled(e bool) { a.enabled = e }
func (a *Animation[T]) Enabled() bool     { return a.enabled }

func (a *Animation[T]) TimePosition() float32 { return a.timePos }

// SetTimePosition moves the clock, wrapping for looped clips and clamping
// otherwise. It does not emit signal events.
func (a *Animation[T]) SetTimePosition(t float32) {
	if a.looped {
		a.timePos = wrap(t, a.sliceStart, a.sliceEnd)
	} else {
		a.timePos = clamp(t, a.sliceStart, a.sliceEnd)
	}
}

// Rewind moves the clock back to the start of the slice, or to the end when
// playing in reverse.
func (a *Animation[T]) Rewind() {
	if a.speed < 0 {
		a.timePos = a.sliceEnd
	} else {
		a.timePos = a.sliceStart
	}
}

// HasEnded reports whether a non-looped clip has played through.
func (a *Animation[T]) HasEnded() bool {
	if a.looped {
		return false
	}
	if a.speed < 0 {
		return a.timePos <= a.sliceStart
	}
	return a.timePos >= a.sliceEnd
}

// Tick advances the clock by dt (scaled by speed), emits events for any
// enabled signals the clock crossed, and refreshes the output pose. Disabled
// animations do nothing.
func (a *Animation[T]) Tick(dt float32) {
	if !a.enabled {
		return
	}
	prev := a.timePos
	next := prev + dt*a.speed
	a.emitCrossed(prev, next)
	a.SetTimePosition(next)
	a.updatePose()
}

func (a *Animation[T]) updatePose() {
	a.pose.Reset()
	for _, t := range a.tracks {
		if !t.Enabled {
			continue
		}
		a.pose.Add(t.Target, t.Sample(a.timePos), 1)
	}
}

// Pose returns the clip's output pose as of the last Tick.
func (a *Animation[T]) Pose() *Pose[T] {
	return a.pose
}

// PopEvent removes and returns the oldest pending signal event.
func (a *Animation[T]) PopEvent() (Event, bool) {
	if len(a.events) == 0 {
		return Event{}, false
	}
	e := a.events[0]
	a.events = a.events[1:]
	return e, true
}

// TakeEvents returns all pending events and clears the queue.
func (a *Animation[T]) TakeEvents() []Event {
	out := a.events
	a.events = nil
	return out
}

func (a *Animation[T]) pushEvent(s Signal) {
	if len(a.events) >= a.maxEvents {
		return
	}
	a.events = append(a.events, Event{Signal: s.Name, Time: s.Time})
}

// emitCrossed emits events for enabled signals swept over between prev and
// next, in either playback direction. The interval excludes prev so a signal
// sitting exactly on a tick boundary fires once, not on consecutive ticks.
// A looped clock that runs past a slice boundary sweeps the remainder of the
// slice and then re-enters from the opposite end.
func (a *Animation[T]) emitCrossed(prev, next float32) {
	if a.looped && a.Length() > 0 {
		if next > a.sliceEnd {
			a.emitSwept(prev, a.sliceEnd, false, true)
			a.emitSwept(a.sliceStart, a.sliceStart+(next-a.sliceEnd), true, true)
			return
		}
		if next < a.sliceStart {
			a.emitSwept(a.sliceStart, prev, true, false)
			a.emitSwept(a.sliceEnd-(a.sliceStart-next), a.sliceEnd, true, true)
			return
		}
	}
	if next >= prev {
		a.emitSwept(prev, next, false, true)
	} else {
		a.emitSwept(next, prev, true, false)
	}
}

// emitSwept emits signals inside [lo, hi], with each bound included only
// when its flag is set. The prev end of a sweep is always exclusive; the
// slice boundary of a wrap re-entry segment is inclusive.
func (a *Animation[T]) emitSwept(lo, hi float32, incLo, incHi bool) {
	if hi < lo {
		return
	}
	for _, s := range a.signals {
		if !s.Enabled {
			continue
		}
		if s.Time < lo || s.Time > hi {
			continue
		}
		if s.Time == lo && !incLo {
			continue
		}
		if s.Time == hi && !incHi {
			continue
		}
		a.pushEvent(s)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, lo, hi float32) float32 {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	for v < lo {
		v += span
	}
	for v > hi {
		v -= span
	}
	return v
}
