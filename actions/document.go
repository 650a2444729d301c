package actions

import (
	"context"
	"image"

	"github.com/gogpu/ggdoc"
)

// CropToSelectionFunction shrinks the canvas to the selection bounds.
// Pixels outside the selection outline become transparent and the
// selection is cleared. Nothing is recorded when nothing is selected.
type CropToSelectionFunction struct {
	ggdoc.FunctionBase
}

// Name implements ggdoc.Function.
func (f *CropToSelectionFunction) Name() string { return "crop to selection" }

// Execute implements ggdoc.Function.
func (f *CropToSelectionFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	sel := ws.Selection()
	old := ws.Document()
	if sel.IsEmpty() {
		return nil, nil
	}
	r := sel.ClipRect(old.Bounds())
	if r.Empty() {
		return nil, nil
	}

	next, err := copyCanvas(ctx, old, r.Dx(), r.Dy(), image.Point{}.Sub(r.Min), sel.HitTester())
	if err != nil {
		return nil, err
	}
	if next == nil {
		ws.Logger().Warn("actions: crop cancelled")
		return nil, nil
	}

	b := ggdoc.NewCompoundBuilder(ws)
	if err := b.Apply(func() (ggdoc.Memento, error) { return clearSelection(ws), nil }); err != nil {
		return nil, err
	}
	if err := b.Apply(func() (ggdoc.Memento, error) { return replaceDocument(ws, next), nil }); err != nil {
		return nil, err
	}
	return b.Finish("Crop to Selection", ""), nil
}

// CropToSelection runs a CropToSelectionFunction.
func CropToSelection(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &CropToSelectionFunction{})
}

// FlattenFunction merges every visible layer into one. The selection
// survives. Nothing is recorded for a single-layer document.
type FlattenFunction struct {
	ggdoc.FunctionBase
}

// Name implements ggdoc.Function.
func (f *FlattenFunction) Name() string { return "flatten" }

// Execute implements ggdoc.Function.
func (f *FlattenFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	old := ws.Document()
	if old.LayerCount() < 2 {
		return nil, nil
	}
	if ctx.Err() != nil {
		return nil, nil
	}

	next, err := ggdoc.NewDocument(old.Width(), old.Height())
	if err != nil {
		return nil, err
	}
	next.MetaData = old.MetaData.Clone()
	bottom, _ := old.Layer(0)
	flat := ggdoc.NewLayer(bottom.Name, old.Width(), old.Height())
	old.Flatten(flat.Surface)
	if err := next.InsertLayer(0, flat); err != nil {
		return nil, err
	}
	next.SetDirty()

	// Replacing the document resets the selection, so it is cleared first
	// and put back last; undo then restores it after the old document.
	before := ws.Selection().Snapshot()
	b := ggdoc.NewCompoundBuilder(ws)
	steps := []func() (ggdoc.Memento, error){
		func() (ggdoc.Memento, error) { return clearSelection(ws), nil },
		func() (ggdoc.Memento, error) { return replaceDocument(ws, next), nil },
		func() (ggdoc.Memento, error) { return restoreSelection(ws, before), nil },
	}
	for _, step := range steps {
		if err := b.Apply(step); err != nil {
			return nil, err
		}
	}
	return b.Finish("Flatten", ""), nil
}

// Flatten runs a FlattenFunction.
func Flatten(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &FlattenFunction{})
}

func clearSelection(ws *ggdoc.Workspace) ggdoc.Memento {
	sel := ws.Selection()
	before := sel.Snapshot()
	sel.Reset()
	ws.NotifySelectionChanged()
	return ggdoc.NewSelectionPatch("Deselect", "", before)
}

func restoreSelection(ws *ggdoc.Workspace, d ggdoc.SelectionData) ggdoc.Memento {
	sel := ws.Selection()
	before := sel.Snapshot()
	sel.Restore(d)
	ws.NotifySelectionChanged()
	return ggdoc.NewSelectionPatch("Select", "", before)
}

func replaceDocument(ws *ggdoc.Workspace, next *ggdoc.Document) ggdoc.Memento {
	old := ws.Document()
	ws.SetDocument(next)
	return ggdoc.NewReplaceDocument("Replace Document", "", old)
}
