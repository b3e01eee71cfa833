// Package pool provides a generational arena. Values are stored in slots and
// addressed by lightweight handles; freeing a slot bumps its generation so
// handles held elsewhere go stale instead of aliasing the next occupant.
package pool

import "fmt"

// Handle addresses a value stored in a Pool. The zero Handle points at
// nothing and fails every lookup.
type Handle[V any] struct {
	index      uint32
	generation uint32
}

// IsNone reports whether the handle points at nothing.
func (h Handle[V]) IsNone() bool {
	return h.generation == 0
}

func (h Handle[V]) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

type slot[V any] struct {
	value      V
	generation uint32
	live       bool
}

// Pool is a growable arena of V keyed by generational handles. Lookups with
// stale or zero handles return nil/false, they never panic.
type Pool[V any] struct {
	slots []slot[V]
	free  []uint32
	count int
}

// Spawn stores a value and returns its handle.
func (p *Pool[V]) Spawn(v V) Handle[V] {
	p.count++
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[idx]
		s.value = v
		s.live = true
		return Handle[V]{index: idx, generation: s.generation}
	}
	p.slots = append(p.slots, slot[V]{value: v, generation: 1, live: true})
	return Handle[V]{index: uint32(len(p.slots) - 1), generation: 1}
}

// Get returns a pointer to the value behind the handle, or nil if the handle
// is zero, stale, or freed.
func (p *Pool[V]) Get(h Handle[V]) *V {
	if h.IsNone() || int(h.index) >= len(p.slots) {
		return nil
	}
	s := &p.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil
	}
	return &s.value
}

// Contains reports whether the handle refers to a live value.
func (p *Pool[V]) Contains(h Handle[V]) bool {
	return p.Get(h) != nil
}

// Free removes the value behind the handle and returns it. Handles to the
// slot become stale immediately.
func (p *Pool[V]) Free(h Handle[V]) (V, bool) {
	var zero V
	v := p.Get(h)
	if v == nil {
		return zero, false
	}
	out := *v
	s := &p.slots[h.index]
	s.value = zero
	s.live = false
	s.generation++
	p.free = append(p.free, h.index)
	p.count--
	return out, true
}

// Len returns the number of live values.
func (p *Pool[V]) Len() int {
	return p.count
}

// Clear removes every value and invalidates all outstanding handles.
func (p *Pool[V]) Clear() {
	p.slots = nil
	p.free = nil
	p.count = 0
}

// Each calls fn for every live value in slot order, which matches insertion
// order as long as nothing was freed in between. Iteration stops early when
// fn returns false.
func (p *Pool[V]) Each(fn func(Handle[V], *V) bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle[V]{index: uint32(i), generation: s.generation}, &s.value) {
			return
		}
	}
}

// Handles returns the handles of all live values in slot order.
func (p *Pool[V]) Handles() []Handle[V] {
	out := make([]Handle[V], 0, p.count)
	p.Each(func(h Handle[V], _ *V) bool {
		out = append(out, h)
		return true
	})
	return out
}
