package machine

// LayerMask excludes targets from a layer's output. Targets in the mask have
// their pose entries dropped after the layer blends, so lower layers keep
// authority over them. An empty mask animates everything.
type LayerMask[T comparable] struct {
	excluded map[T]struct{}
}

// NewLayerMask returns a mask excluding the given targets.
func NewLayerMask[T comparable](targets ...T) *LayerMask[T] {
	m := &LayerMask[T]{excluded: make(map[T]struct{}, len(targets))}
	for _, t := range targets {
		m.excluded[t] = struct{}{}
	}
	return m
}

// Add excludes a target.
func (m *LayerMask[T]) Add(target T) {
	if m.excluded == nil {
		m.excluded = make(map[T]struct{})
	}
	m.excluded[target] = struct{}{}
}

// Remove stops excluding a target.
func (m *LayerMask[T]) Remove(target T) {
	delete(m.excluded, target)
}

// Contains reports whether the target is excluded.
func (m *LayerMask[T]) Contains(target T) bool {
	_, ok := m.excluded[target]
	return ok
}

// ShouldAnimate reports whether the layer may animate the target. A nil
// mask animates everything.
func (m *LayerMask[T]) ShouldAnimate(target T) bool {
	if m == nil {
		return true
	}
	_, ok := m.excluded[target]
	return !ok
}

// Len returns the number of excluded targets.
func (m *LayerMask[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.excluded)
}
