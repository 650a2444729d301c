package ggdoc

import (
	"fmt"
	"image"

	"github.com/jinzhu/copier"

	"github.com/gogpu/ggdoc/internal/compose"
)

// BlendMode controls how a layer is composited onto the layers below it.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendAdditive
)

func (m BlendMode) compose() compose.Mode {
	switch m {
	case BlendMultiply:
		return compose.Multiply
	case BlendScreen:
		return compose.Screen
	case BlendAdditive:
		return compose.Additive
	default:
		return compose.Normal
	}
}

// Units names the physical unit used by the document resolution.
type Units uint8

const (
	UnitsPixels Units = iota
	UnitsInches
	UnitsCentimeters
)

// MetaData is the non-pixel state of a document.
type MetaData struct {
	DPIX  float64
	DPIY  float64
	Units Units
	Tags  map[string]string
}

// Clone returns a deep copy; the tag map is not shared.
func (m MetaData) Clone() MetaData {
	var out MetaData
	if err := copier.CopyWithOption(&out, &m, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, impossible for same-type copies.
		panic(fmt.Sprintf("ggdoc: metadata copy: %v", err))
	}
	return out
}

// LayerProperties are the per-layer settings other than pixels.
type LayerProperties struct {
	Name      string
	Visible   bool
	Opacity   float64
	BlendMode BlendMode
}

// Layer owns a pixel surface sized to its document. A layer has no identity
// beyond its position in Document.Layers.
type Layer struct {
	LayerProperties
	Surface *Pixmap
}

// NewLayer creates a visible, opaque, transparent-filled layer.
func NewLayer(name string, width, height int) *Layer {
	return &Layer{
		LayerProperties: LayerProperties{Name: name, Visible: true, Opacity: 1},
		Surface:         NewPixmap(width, height),
	}
}

// Clone deep-copies the layer including its pixels.
func (l *Layer) Clone() *Layer {
	return &Layer{LayerProperties: l.LayerProperties, Surface: l.Surface.Clone()}
}

// Bounds returns the layer bounds, equal to the document size.
func (l *Layer) Bounds() image.Rectangle {
	return l.Surface.Rect()
}

// Document is a layered raster image. Layers[0] is the bottom layer.
type Document struct {
	width    int
	height   int
	layers   []*Layer
	MetaData MetaData
	dirty    bool
}

// NewDocument creates an empty document with no layers.
func NewDocument(width, height int) (*Document, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Document{
		width:    width,
		height:   height,
		MetaData: MetaData{DPIX: 96, DPIY: 96, Units: UnitsInches},
	}, nil
}

// Width returns the document width in pixels.
func (d *Document) Width() int { return d.width }

// Height returns the document height in pixels.
func (d *Document) Height() int { return d.height }

// Bounds returns the document rectangle.
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Dirty reports whether the document changed since MarkClean.
func (d *Document) Dirty() bool { return d.dirty }

// SetDirty marks the document as modified.
func (d *Document) SetDirty() { d.dirty = true }

// MarkClean clears the dirty flag (after a save).
func (d *Document) MarkClean() { d.dirty = false }

// LayerCount returns the number of layers.
func (d *Document) LayerCount() int { return len(d.layers) }

// Layer returns the layer at index i.
func (d *Document) Layer(i int) (*Layer, bool) {
	if i < 0 || i >= len(d.layers) {
		return nil, false
	}
	return d.layers[i], true
}

// Layers returns a copy of the layer list.
func (d *Document) Layers() []*Layer {
	return append([]*Layer(nil), d.layers...)
}

// AddLayer appends a new transparent layer on top and returns its index.
func (d *Document) AddLayer(name string) int {
	d.layers = append(d.layers, NewLayer(name, d.width, d.height))
	return len(d.layers) - 1
}

// InsertLayer places l at index i (0 ≤ i ≤ LayerCount).
func (d *Document) InsertLayer(i int, l *Layer) error {
	if i < 0 || i > len(d.layers) {
		return staleLayer("insert layer", i, len(d.layers))
	}
	if l.Surface.Width() != d.width || l.Surface.Height() != d.height {
		return fmt.Errorf("insert layer: %dx%d layer into %dx%d document: %w",
			l.Surface.Width(), l.Surface.Height(), d.width, d.height, ErrInvalidDimensions)
	}
	d.layers = append(d.layers, nil)
	copy(d.layers[i+1:], d.layers[i:])
	d.layers[i] = l
	return nil
}

// RemoveLayer removes and returns the layer at index i.
func (d *Document) RemoveLayer(i int) (*Layer, error) {
	if i < 0 || i >= len(d.layers) {
		return nil, staleLayer("remove layer", i, len(d.layers))
	}
	l := d.layers[i]
	d.layers = append(d.layers[:i], d.layers[i+1:]...)
	return l, nil
}

// SwapLayers exchanges the layers at i and j.
func (d *Document) SwapLayers(i, j int) error {
	if i < 0 || j < 0 || i >= len(d.layers) || j >= len(d.layers) {
		return staleLayer("swap layers", max(i, j), len(d.layers))
	}
	d.layers[i], d.layers[j] = d.layers[j], d.layers[i]
	return nil
}

// Clone deep-copies the document, pixels included.
func (d *Document) Clone() *Document {
	c := &Document{width: d.width, height: d.height, MetaData: d.MetaData.Clone(), dirty: d.dirty}
	c.layers = make([]*Layer, len(d.layers))
	for i, l := range d.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// Flatten composites every visible layer, bottom first, into dst.
// dst must be the document size.
func (d *Document) Flatten(dst *Pixmap) {
	clear(dst.data)
	for _, l := range d.layers {
		l.Composite(dst)
	}
}

// Composite blends the layer onto dst with its opacity and blend mode.
// Hidden layers leave dst unchanged. dst must be the layer size.
func (l *Layer) Composite(dst *Pixmap) {
	if !l.Visible || l.Opacity <= 0 {
		return
	}
	opacity := byte(clamp255(l.Opacity*255 + 0.5))
	mode := l.BlendMode.compose()
	rowLen := l.Surface.width * 4
	for y := range l.Surface.height {
		off := y * rowLen
		compose.Row(dst.data[off:off+rowLen], l.Surface.data[off:off+rowLen], mode, opacity)
	}
}
