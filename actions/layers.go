package actions

import (
	"fmt"

	"github.com/gogpu/ggdoc"
)

// AddLayer inserts a transparent layer above the active one and makes it
// active.
func AddLayer(ws *ggdoc.Workspace, name string) error {
	doc := ws.Document()
	index := 0
	if doc.LayerCount() > 0 {
		index = ws.ActiveLayer() + 1
	}
	if err := ws.InsertLayer(index, ggdoc.NewLayer(name, doc.Width(), doc.Height())); err != nil {
		return fmt.Errorf("add layer: %w", err)
	}
	if err := ws.SetActiveLayer(index); err != nil {
		return err
	}
	return ws.History().PushNewMemento(ggdoc.NewAddLayer("Add New Layer", "", index))
}

// DeleteLayer removes the layer at index.
func DeleteLayer(ws *ggdoc.Workspace, index int) error {
	l, err := ws.RemoveLayer(index)
	if err != nil {
		return fmt.Errorf("delete layer: %w", err)
	}
	return ws.History().PushNewMemento(ggdoc.NewDeleteLayer("Delete Layer", "", index, l))
}

// DuplicateLayer inserts a copy of the layer at index above it and makes
// the copy active.
func DuplicateLayer(ws *ggdoc.Workspace, index int) error {
	l, ok := ws.Document().Layer(index)
	if !ok {
		return fmt.Errorf("duplicate layer %d: %w", index, ggdoc.ErrStaleLayerIndex)
	}
	dup := l.Clone()
	dup.Name += " copy"
	if err := ws.InsertLayer(index+1, dup); err != nil {
		return fmt.Errorf("duplicate layer: %w", err)
	}
	if err := ws.SetActiveLayer(index + 1); err != nil {
		return err
	}
	return ws.History().PushNewMemento(ggdoc.NewAddLayer("Duplicate Layer", "", index+1))
}

// MergeLayerDown composites the layer at index onto the one below it and
// removes it. Both steps are one history entry.
func MergeLayerDown(ws *ggdoc.Workspace, index int) error {
	doc := ws.Document()
	upper, ok := doc.Layer(index)
	if !ok || index == 0 {
		return fmt.Errorf("merge layer down %d: %w", index, ggdoc.ErrStaleLayerIndex)
	}

	b := ggdoc.NewCompoundBuilder(ws)
	err := b.Apply(func() (ggdoc.Memento, error) {
		if err := ws.SetActiveLayer(index - 1); err != nil {
			return nil, err
		}
		c, err := ws.BeginCapture("merge")
		if err != nil {
			return nil, err
		}
		defer func() { _ = c.Close() }()

		c.SaveRegion(ggdoc.Region{}, doc.Bounds())
		upper.Composite(c.Surface())
		ws.Invalidate(index-1, ggdoc.NewRegion(doc.Bounds()))
		if p := c.Commit("Merge Pixels", ""); p != nil {
			return p, nil
		}
		return nil, nil
	})
	if err == nil {
		err = b.Apply(func() (ggdoc.Memento, error) {
			l, err := ws.RemoveLayer(index)
			if err != nil {
				return nil, err
			}
			return ggdoc.NewDeleteLayer("Delete Layer", "", index, l), nil
		})
	}
	if err != nil {
		return fmt.Errorf("merge layer down: %w", err)
	}
	return ws.History().PushNewMemento(b.Finish("Merge Layer Down", ""))
}

// MoveLayerUp swaps the layer at index with the one above it.
func MoveLayerUp(ws *ggdoc.Workspace, index int) error {
	return moveLayer(ws, index, index+1, "Move Layer Up")
}

// MoveLayerDown swaps the layer at index with the one below it.
func MoveLayerDown(ws *ggdoc.Workspace, index int) error {
	return moveLayer(ws, index, index-1, "Move Layer Down")
}

func moveLayer(ws *ggdoc.Workspace, from, to int, name string) error {
	if err := ws.SwapLayers(from, to); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if ws.ActiveLayer() == from {
		_ = ws.SetActiveLayer(to)
	}
	return ws.History().PushNewMemento(ggdoc.NewSwapLayers(name, "", from, to))
}

// FlipLayer mirrors the layer at index.
func FlipLayer(ws *ggdoc.Workspace, index int, dir ggdoc.FlipDirection) error {
	if err := ws.FlipLayer(index, dir); err != nil {
		return fmt.Errorf("flip layer: %w", err)
	}
	name := "Flip Layer Horizontal"
	if dir == ggdoc.FlipVertical {
		name = "Flip Layer Vertical"
	}
	return ws.History().PushNewMemento(ggdoc.NewFlipLayer(name, "", index, dir))
}

// SetLayerProperties replaces the properties of the layer at index.
func SetLayerProperties(ws *ggdoc.Workspace, index int, props ggdoc.LayerProperties) error {
	prev, err := ws.SetLayerProperties(index, props)
	if err != nil {
		return fmt.Errorf("layer properties: %w", err)
	}
	return ws.History().PushNewMemento(ggdoc.NewLayerProperties("Layer Properties", "", index, prev))
}

// SetMetaData replaces the document metadata.
func SetMetaData(ws *ggdoc.Workspace, md ggdoc.MetaData) error {
	doc := ws.Document()
	prev := doc.MetaData.Clone()
	doc.MetaData = md.Clone()
	doc.SetDirty()
	return ws.History().PushNewMemento(ggdoc.NewMetaDataPatch("Document Properties", "", prev))
}

// SelectRect combines r into the selection with mode.
func SelectRect(ws *ggdoc.Workspace, r ggdoc.Rect, mode ggdoc.CombineMode) error {
	sel := ws.Selection()
	before := sel.Snapshot()
	sel.SetContinuation([]ggdoc.Polygon{ggdoc.RectPolygon(r)}, mode)
	sel.CommitContinuation()
	ws.NotifySelectionChanged()
	return ws.History().PushNewMemento(ggdoc.NewSelectionPatch("Rectangle Select", "", before))
}

// Deselect clears the selection. It records nothing when nothing is
// selected.
func Deselect(ws *ggdoc.Workspace) error {
	sel := ws.Selection()
	if sel.IsEmpty() {
		return nil
	}
	before := sel.Snapshot()
	sel.Reset()
	ws.NotifySelectionChanged()
	return ws.History().PushNewMemento(ggdoc.NewSelectionPatch("Deselect", "", before))
}
