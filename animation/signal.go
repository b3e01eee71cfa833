package animation

// Signal marks a point on an animation's timeline. When the playback clock
// crosses an enabled signal's time, the animation records an Event.
type Signal struct {
	Name    string
	Time    float32
	Enabled bool
}

// NewSignal returns an enabled signal.
func NewSignal(name string, time float32) Signal {
	return Signal{Name: name, Time: time, Enabled: true}
}

// Event records a signal crossing. Time is the signal's timeline position,
// not the wall-clock moment of the crossing.
type Event struct {
	Signal string
	Time   float32
}
