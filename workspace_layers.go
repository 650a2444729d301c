package ggdoc

// Structural edits of the layer list. Each one mutates the live document,
// marks it dirty, notifies OnLayersChanged listeners and invalidates the
// composite. They record no history; callers push the matching memento.

// InsertLayer places l at index i.
func (ws *Workspace) InsertLayer(i int, l *Layer) error {
	if err := ws.doc.InsertLayer(i, l); err != nil {
		return err
	}
	ws.structureChanged(LayerChange{Op: LayerAdded, Index: i})
	return nil
}

// RemoveLayer removes and returns the layer at index i.
func (ws *Workspace) RemoveLayer(i int) (*Layer, error) {
	l, err := ws.doc.RemoveLayer(i)
	if err != nil {
		return nil, err
	}
	ws.layerRemoved(i)
	ws.structureChanged(LayerChange{Op: LayerDeleted, Index: i})
	return l, nil
}

// SwapLayers exchanges the layers at i and j.
func (ws *Workspace) SwapLayers(i, j int) error {
	if err := ws.doc.SwapLayers(i, j); err != nil {
		return err
	}
	ws.structureChanged(LayerChange{Op: LayerSwapped, Index: i, Other: j})
	return nil
}

// FlipLayer mirrors the pixels of the layer at index i.
func (ws *Workspace) FlipLayer(i int, dir FlipDirection) error {
	l, ok := ws.doc.Layer(i)
	if !ok {
		return staleLayer("flip layer", i, ws.doc.LayerCount())
	}
	l.Surface.Flip(dir == FlipHorizontal)
	ws.structureChanged(LayerChange{Op: LayerFlipped, Index: i})
	return nil
}

// SetLayerProperties replaces the properties of the layer at index i and
// returns the previous ones.
func (ws *Workspace) SetLayerProperties(i int, props LayerProperties) (LayerProperties, error) {
	l, ok := ws.doc.Layer(i)
	if !ok {
		return LayerProperties{}, staleLayer("set layer properties", i, ws.doc.LayerCount())
	}
	prev := l.LayerProperties
	l.LayerProperties = props
	ws.structureChanged(LayerChange{Op: LayerPropertiesChanged, Index: i})
	return prev, nil
}

func (ws *Workspace) structureChanged(c LayerChange) {
	ws.doc.SetDirty()
	for _, fn := range ws.onLayersChanged {
		fn(c)
	}
	ws.InvalidateAll()
}
