package machine

import (
	"log"

	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/pool"
)

const layerEventLimit = 2048

// Layer is one state graph of a machine: pools of pose nodes, states, and
// transitions, plus the bookkeeping of which state or transition is active.
// Layers are composed by the Machine with per-layer weights and masks.
type Layer[T comparable] struct {
	name   string
	weight float32
	mask   *LayerMask[T]
	debug  bool

	nodes       pool.Pool[PoseNode[T]]
	states      pool.Pool[State[T]]
	transitions pool.Pool[Transition[T]]

	entryState       pool.Handle[State[T]]
	activeState      pool.Handle[State[T]]
	activeTransition pool.Handle[Transition[T]]

	finalPose *animation.Pose[T]
	events    eventQueue[T]
}

// NewLayer returns an empty layer with weight 1.
func NewLayer[T comparable](name string) *Layer[T] {
	return &Layer[T]{
		name:      name,
		weight:    1,
		finalPose: animation.NewPose[T](),
		events:    eventQueue[T]{limit: layerEventLimit},
	}
}

func (l *Layer[T]) Name() string        { return l.name }
func (l *Layer[T]) SetName(name string) { l.name = name }

func (l *Layer[T]) Weight() float32     { return l.weight }
func (l *Layer[T]) SetWeight(w float32) { l.weight = w }

func (l *Layer[T]) Mask() *LayerMask[T]     { return l.mask }
func (l *Layer[T]) SetMask(m *LayerMask[T]) { l.mask = m }

// SetDebug enables transition logging.
func (l *Layer[T]) SetDebug(debug bool) { l.debug = debug }

// AddNode stores a pose node and returns its handle.
func (l *Layer[T]) AddNode(n PoseNode[T]) pool.Handle[PoseNode[T]] {
	return l.nodes.Spawn(n)
}

// Node returns the node behind the handle, or nil for a stale handle.
func (l *Layer[T]) Node(h pool.Handle[PoseNode[T]]) PoseNode[T] {
	n := l.nodes.Get(h)
	if n == nil {
		return nil
	}
	return *n
}

// RemoveNode frees a pose node. States still pointing at it produce empty
// poses.
func (l *Layer[T]) RemoveNode(h pool.Handle[PoseNode[T]]) bool {
	_, ok := l.nodes.Free(h)
	return ok
}

// AddState stores a state and returns its handle. The first state added
// becomes the entry and active state.
func (l *Layer[T]) AddState(s State[T]) pool.Handle[State[T]] {
	h := l.states.Spawn(s)
	if l.entryState.IsNone() {
		l.entryState = h
	}
	if l.activeState.IsNone() && l.activeTransition.IsNone() {
		l.activeState = h
	}
	return h
}

// State returns the state behind the handle, or nil for a stale handle.
func (l *Layer[T]) State(h pool.Handle[State[T]]) *State[T] {
	return l.states.Get(h)
}

// RemoveState frees a state. Transitions referencing it are skipped during
// evaluation; if it was active the layer outputs an empty pose until a
// transition or Reset installs a live state.
func (l *Layer[T]) RemoveState(h pool.Handle[State[T]]) bool {
	_, ok := l.states.Free(h)
	return ok
}

// FindStateByName returns the handle of the first state with the given name.
func (l *Layer[T]) FindStateByName(name string) (pool.Handle[State[T]], bool) {
	var found pool.Handle[State[T]]
	ok := false
	l.states.Each(func(h pool.Handle[State[T]], s *State[T]) bool {
		if s.Name == name {
			found, ok = h, true
			return false
		}
		return true
	})
	return found, ok
}

// AddTransition stores a transition and returns its handle. Transitions are
// scanned in insertion order; the first whose condition holds wins.
func (l *Layer[T]) AddTransition(t *Transition[T]) pool.Handle[Transition[T]] {
	return l.transitions.Spawn(*t)
}

// Transition returns the transition behind the handle, or nil for a stale
// handle.
func (l *Layer[T]) Transition(h pool.Handle[Transition[T]]) *Transition[T] {
	return l.transitions.Get(h)
}

// RemoveTransition frees a transition.
func (l *Layer[T]) RemoveTransition(h pool.Handle[Transition[T]]) bool {
	if h == l.activeTransition {
		l.activeTransition = pool.Handle[Transition[T]]{}
	}
	_, ok := l.transitions.Free(h)
	return ok
}

// SetEntryState sets the state the layer starts in and rests at after Reset.
// The active state follows immediately.
func (l *Layer[T]) SetEntryState(h pool.Handle[State[T]]) {
	l.entryState = h
	l.activeState = h
	l.activeTransition = pool.Handle[Transition[T]]{}
}

func (l *Layer[T]) EntryState() pool.Handle[State[T]]            { return l.entryState }
func (l *Layer[T]) ActiveState() pool.Handle[State[T]]           { return l.activeState }
func (l *Layer[T]) ActiveTransition() pool.Handle[Transition[T]] { return l.activeTransition }

// Pose returns the layer's output as of the last EvaluatePose.
func (l *Layer[T]) Pose() *animation.Pose[T] { return l.finalPose }

// PopEvent removes and returns the oldest pending layer event.
func (l *Layer[T]) PopEvent() (Event[T], bool) {
	return l.events.pop()
}

// Reset aborts any active transition, returns the layer to its entry state,
// and drops pending events.
func (l *Layer[T]) Reset() {
	if tr := l.transitions.Get(l.activeTransition); tr != nil {
		tr.reset()
	}
	l.activeTransition = pool.Handle[Transition[T]]{}
	l.activeState = l.entryState
	l.events.clear()
	l.finalPose.Reset()
}

// EvaluatePose advances the layer by dt and returns its blended, masked
// output pose. Every state's graph is updated first so transition blends
// read fresh poses; then transitions are armed, advanced, or the active
// state's pose is passed through.
func (l *Layer[T]) EvaluatePose(params *ParameterContainer, animations *animation.Container[T], dt float32) *animation.Pose[T] {
	l.finalPose.Reset()

	l.states.Each(func(_ pool.Handle[State[T]], s *State[T]) bool {
		s.update(&l.nodes, params, animations, dt)
		return true
	})

	if l.activeTransition.IsNone() {
		l.armTransition(params, animations)
	}

	if tr := l.transitions.Get(l.activeTransition); tr != nil {
		l.blendTransition(tr, dt)
	} else if st := l.states.Get(l.activeState); st != nil {
		if p := st.pose(&l.nodes); p != nil {
			l.finalPose.CopyFrom(p)
		}
	}

	if l.mask.Len() > 0 {
		l.finalPose.Retain(l.mask.ShouldAnimate)
	}
	return l.finalPose
}

// armTransition scans transitions in insertion order and activates the
// first one leaving the active state whose condition holds.
func (l *Layer[T]) armTransition(params *ParameterContainer, animations *animation.Container[T]) {
	l.transitions.Each(func(h pool.Handle[Transition[T]], tr *Transition[T]) bool {
		if tr.Source != l.activeState || tr.Dest == l.activeState {
			return true
		}
		if tr.Condition == nil || !tr.Condition.Evaluate(params, animations) {
			return true
		}

		if src := l.states.Get(tr.Source); src != nil {
			src.leave(animations)
			l.events.push(Event[T]{Kind: EventStateLeave, State: tr.Source})
			if l.debug {
				log.Printf("machine: layer %q: leaving state %q via %q", l.name, src.Name, tr.Name)
			}
		}
		if dst := l.states.Get(tr.Dest); dst != nil {
			dst.enter(animations)
			l.events.push(Event[T]{Kind: EventStateEnter, State: tr.Dest})
			if l.debug {
				log.Printf("machine: layer %q: entering state %q", l.name, dst.Name)
			}
		}

		l.activeState = pool.Handle[State[T]]{}
		l.activeTransition = h
		l.events.push(Event[T]{Kind: EventActiveTransitionChanged, Transition: h})
		return false
	})
}

// blendTransition mixes the cached source and destination poses by the
// transition's current blend factor, then advances it. A finished
// transition installs its destination as the active state.
func (l *Layer[T]) blendTransition(tr *Transition[T], dt float32) {
	k := tr.BlendFactor()
	if src := l.states.Get(tr.Source); src != nil {
		if p := src.pose(&l.nodes); p != nil {
			l.finalPose.BlendWith(p, 1-k)
		}
	}
	if dst := l.states.Get(tr.Dest); dst != nil {
		if p := dst.pose(&l.nodes); p != nil {
			l.finalPose.BlendWith(p, k)
		}
	}

	tr.update(dt)
	if tr.IsDone() {
		tr.reset()
		l.activeTransition = pool.Handle[Transition[T]]{}
		l.activeState = tr.Dest
		l.events.push(Event[T]{Kind: EventActiveStateChanged, State: tr.Dest, PrevState: tr.Source})
		if l.debug {
			if st := l.states.Get(tr.Dest); st != nil {
				log.Printf("machine: layer %q: active state is now %q", l.name, st.Name)
			}
		}
	}
}
