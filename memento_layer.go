package ggdoc

import "fmt"

// LayerOp is the structural edit a LayerMemento reverts.
type LayerOp uint8

const (
	// LayerAdded: a layer was inserted at Index; undo removes it.
	LayerAdded LayerOp = iota
	// LayerDeleted: the held layer was removed from Index; undo re-inserts it.
	LayerDeleted
	// LayerSwapped: layers Index and Other were exchanged.
	LayerSwapped
	// LayerFlipped: the layer at Index was mirrored.
	LayerFlipped
	// LayerPropertiesChanged: name, visibility, opacity or blend mode changed.
	LayerPropertiesChanged
)

// String returns the op name.
func (op LayerOp) String() string {
	switch op {
	case LayerAdded:
		return "Added"
	case LayerDeleted:
		return "Deleted"
	case LayerSwapped:
		return "Swapped"
	case LayerFlipped:
		return "Flipped"
	case LayerPropertiesChanged:
		return "PropertiesChanged"
	default:
		return "Unknown"
	}
}

// FlipDirection selects the mirror axis of a flip.
type FlipDirection uint8

const (
	FlipHorizontal FlipDirection = iota
	FlipVertical
)

// LayerChange describes a structural edit for OnLayersChanged listeners.
type LayerChange struct {
	Op    LayerOp
	Index int
	Other int
}

// LayerMemento reverts one structural edit of the layer list.
type LayerMemento struct {
	base
	op    LayerOp
	index int
	other int
	layer *Layer
	flip  FlipDirection
	props LayerProperties
}

// NewAddLayer records that a layer was inserted at index.
func NewAddLayer(name, icon string, index int) *LayerMemento {
	return &LayerMemento{base: base{newInfo(name, icon)}, op: LayerAdded, index: index}
}

// NewDeleteLayer records that l was removed from index. The memento owns l.
func NewDeleteLayer(name, icon string, index int, l *Layer) *LayerMemento {
	return &LayerMemento{base: base{newInfo(name, icon)}, op: LayerDeleted, index: index, layer: l}
}

// NewSwapLayers records that layers i and j were exchanged.
func NewSwapLayers(name, icon string, i, j int) *LayerMemento {
	return &LayerMemento{base: base{newInfo(name, icon)}, op: LayerSwapped, index: i, other: j}
}

// NewFlipLayer records that the layer at index was mirrored.
func NewFlipLayer(name, icon string, index int, dir FlipDirection) *LayerMemento {
	return &LayerMemento{base: base{newInfo(name, icon)}, op: LayerFlipped, index: index, flip: dir}
}

// NewLayerProperties records the properties the layer at index had before.
func NewLayerProperties(name, icon string, index int, before LayerProperties) *LayerMemento {
	return &LayerMemento{base: base{newInfo(name, icon)}, op: LayerPropertiesChanged, index: index, props: before}
}

func (*LayerMemento) Kind() Kind { return KindLayer }

// Op returns the structural edit the memento reverts.
func (m *LayerMemento) Op() LayerOp { return m.op }

// Index returns the layer index the edit applies to.
func (m *LayerMemento) Index() int { return m.index }

func (m *LayerMemento) PerformUndo(ws *Workspace) (Memento, error) {
	inv := &LayerMemento{base: base{m.info}, op: m.op, index: m.index, other: m.other, flip: m.flip}
	var err error

	switch m.op {
	case LayerAdded:
		inv.op = LayerDeleted
		inv.layer, err = ws.RemoveLayer(m.index)
	case LayerDeleted:
		inv.op = LayerAdded
		if err = ws.InsertLayer(m.index, m.layer); err == nil {
			m.layer = nil
		}
	case LayerSwapped:
		err = ws.SwapLayers(m.index, m.other)
	case LayerFlipped:
		err = ws.FlipLayer(m.index, m.flip)
	case LayerPropertiesChanged:
		inv.props, err = ws.SetLayerProperties(m.index, m.props)
	default:
		err = fmt.Errorf("unknown layer op %d: %w", m.op, ErrInvariant)
	}
	if err != nil {
		return nil, fmt.Errorf("undo %s: %w", m.info.Name, err)
	}
	return inv, nil
}

func (m *LayerMemento) Release() {
	m.layer = nil
}
