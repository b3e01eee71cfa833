package machine

import "github.com/milk9111/blendmachine/animation"

// Machine composes layers into a single output pose. Each tick every layer
// evaluates independently against the shared parameter container, and the
// layer poses accumulate into the final pose scaled by their weights. Two
// layers at weight 1 therefore sum; callers wanting an average use
// normalized weights.
type Machine[T comparable] struct {
	parameters ParameterContainer
	layers     []*Layer[T]
	finalPose  *animation.Pose[T]
}

// New returns a machine with a single empty layer named "Base" at weight 1.
func New[T comparable]() *Machine[T] {
	return &Machine[T]{
		layers:    []*Layer[T]{NewLayer[T]("Base")},
		finalPose: animation.NewPose[T](),
	}
}

// Parameters returns the machine's parameter container.
func (m *Machine[T]) Parameters() *ParameterContainer {
	return &m.parameters
}

// SetParameter inserts or replaces a parameter.
func (m *Machine[T]) SetParameter(name string, p Parameter) *Machine[T] {
	m.parameters.Set(name, p)
	return m
}

// AddLayer appends a layer.
func (m *Machine[T]) AddLayer(l *Layer[T]) *Machine[T] {
	m.layers = append(m.layers, l)
	return m
}

// InsertLayer inserts a layer at index i, shifting later layers back.
func (m *Machine[T]) InsertLayer(i int, l *Layer[T]) {
	m.layers = append(m.layers, nil)
	copy(m.layers[i+1:], m.layers[i:])
	m.layers[i] = l
}

// RemoveLayer removes the layer at index i.
func (m *Machine[T]) RemoveLayer(i int) {
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
}

// PopLayer removes and returns the last layer, or nil when there is none.
func (m *Machine[T]) PopLayer() *Layer[T] {
	if len(m.layers) == 0 {
		return nil
	}
	l := m.layers[len(m.layers)-1]
	m.layers = m.layers[:len(m.layers)-1]
	return l
}

// Layers returns the machine's layers in evaluation order.
func (m *Machine[T]) Layers() []*Layer[T] {
	return m.layers
}

// Layer returns the layer at index i, or nil when out of range.
func (m *Machine[T]) Layer(i int) *Layer[T] {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i]
}

// LayerByName returns the first layer with the given name.
func (m *Machine[T]) LayerByName(name string) (*Layer[T], bool) {
	for _, l := range m.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// Reset returns every layer to its entry state.
func (m *Machine[T]) Reset() {
	for _, l := range m.layers {
		l.Reset()
	}
	m.finalPose.Reset()
}

// EvaluatePose advances the whole machine by dt and returns the composed
// pose. A machine with no layers yields an empty pose.
func (m *Machine[T]) EvaluatePose(animations *animation.Container[T], dt float32) *animation.Pose[T] {
	m.finalPose.Reset()
	for _, l := range m.layers {
		pose := l.EvaluatePose(&m.parameters, animations, dt)
		if w := l.Weight(); w != 0 {
			m.finalPose.BlendWith(pose, w)
		}
	}
	return m.finalPose
}

// Pose returns the composed pose as of the last EvaluatePose.
func (m *Machine[T]) Pose() *animation.Pose[T] {
	return m.finalPose
}
