package machine

import "github.com/milk9111/blendmachine/pool"

// EventKind discriminates layer events.
type EventKind uint8

const (
	// EventStateEnter fires when a transition into a state is armed.
	EventStateEnter EventKind = iota
	// EventStateLeave fires when a transition out of a state is armed.
	EventStateLeave
	// EventActiveStateChanged fires when a transition finishes and the
	// destination becomes the active state.
	EventActiveStateChanged
	// EventActiveTransitionChanged fires when a transition is armed.
	EventActiveTransitionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventStateEnter:
		return "state enter"
	case EventStateLeave:
		return "state leave"
	case EventActiveStateChanged:
		return "active state changed"
	case EventActiveTransitionChanged:
		return "active transition changed"
	default:
		return "unknown"
	}
}

// Event describes a change in a layer's state graph. State is the subject
// state (the entered, left, or newly active state); PrevState is set for
// EventActiveStateChanged; Transition is set for
// EventActiveTransitionChanged.
type Event[T comparable] struct {
	Kind       EventKind
	State      pool.Handle[State[T]]
	PrevState  pool.Handle[State[T]]
	Transition pool.Handle[Transition[T]]
}

// eventQueue is a bounded FIFO; pushes past the limit are dropped so a
// consumer that stops draining cannot grow the layer without bound.
type eventQueue[T comparable] struct {
	items []Event[T]
	limit int
}

func (q *eventQueue[T]) push(e Event[T]) {
	if q.limit > 0 && len(q.items) >= q.limit {
		return
	}
	q.items = append(q.items, e)
}

func (q *eventQueue[T]) pop() (Event[T], bool) {
	if len(q.items) == 0 {
		return Event[T]{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

func (q *eventQueue[T]) clear() {
	q.items = nil
}
