package animation

import "github.com/milk9111/blendmachine/pool"

// Container owns a set of animations keyed by generational handles. Pointers
// returned by TryGet stay valid until the container is modified.
type Container[T comparable] struct {
	pool pool.Pool[Animation[T]]
}

// NewContainer returns an empty container.
func NewContainer[T comparable]() *Container[T] {
	return &Container[T]{}
}

// Add stores a deep copy of the animation and returns its handle. The
// caller's animation is left untouched and ticking it does not affect the
// stored clip.
func (c *Container[T]) Add(a *Animation[T]) pool.Handle[Animation[T]] {
	return c.pool.Spawn(*a.Clone())
}

// TryGet returns the animation behind the handle, or nil if the handle is
// stale.
func (c *Container[T]) TryGet(h pool.Handle[Animation[T]]) *Animation[T] {
	return c.pool.Get(h)
}

// Remove frees the animation behind the handle. Outstanding handles to it
// become stale.
func (c *Container[T]) Remove(h pool.Handle[Animation[T]]) bool {
	_, ok := c.pool.Free(h)
	return ok
}

// Len returns the number of stored animations.
func (c *Container[T]) Len() int {
	return c.pool.Len()
}

// Clear removes every animation.
func (c *Container[T]) Clear() {
	c.pool.Clear()
}

// FindByName returns the handle of the first animation with the given name.
func (c *Container[T]) FindByName(name string) (pool.Handle[Animation[T]], bool) {
	var found pool.Handle[Animation[T]]
	ok := false
	c.pool.Each(func(h pool.Handle[Animation[T]], a *Animation[T]) bool {
		if a.name == name {
			found, ok = h, true
			return false
		}
		return true
	})
	return found, ok
}

// ClearEvents drops the pending signal events of every animation.
func (c *Container[T]) ClearEvents() {
	c.pool.Each(func(_ pool.Handle[Animation[T]], a *Animation[T]) bool {
		a.events = nil
		return true
	})
}

// Each visits every animation in insertion order.
func (c *Container[T]) Each(fn func(pool.Handle[Animation[T]], *Animation[T]) bool) {
	c.pool.Each(fn)
}
