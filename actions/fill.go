package actions

import (
	"context"

	"github.com/gogpu/ggdoc"
)

// FillSelectionFunction paints every selected pixel of the active layer
// with one color. With no selection the whole layer is filled.
type FillSelectionFunction struct {
	ggdoc.FunctionBase
	Color ggdoc.RGBA
	erase bool
}

// Name implements ggdoc.Function.
func (f *FillSelectionFunction) Name() string {
	if f.erase {
		return "erase selection"
	}
	return "fill selection"
}

// Execute implements ggdoc.Function. Rows are filled in bands on the
// workspace pool; when ctx is cancelled mid-fill the saved pixels are put
// back and nothing is recorded.
func (f *FillSelectionFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	c, err := ws.BeginCapture(f.Name())
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	sel := ws.Selection()
	clip := sel.ClipRect(ws.Document().Bounds())
	if clip.Empty() {
		return nil, nil
	}
	c.SaveRegion(ggdoc.Region{}, clip)

	surface := c.Surface()
	inside := sel.HitTester()
	err = ws.Pool().ExecuteBands(ctx, clip.Dy(), bandHeight, func(y0, y1 int) {
		for y := clip.Min.Y + y0; y < clip.Min.Y+y1; y++ {
			for x := clip.Min.X; x < clip.Max.X; x++ {
				if inside(x, y) {
					surface.SetPixel(x, y, f.Color)
				}
			}
		}
	})
	if err != nil {
		c.RestoreSavedRegion()
		c.ClearSavedMemory()
		ws.Logger().Warn("actions: fill cancelled", "err", err)
		return nil, nil
	}
	ws.Document().SetDirty()
	ws.Invalidate(c.Layer(), ggdoc.NewRegion(clip))

	name := "Fill Selection"
	if f.erase {
		name = "Erase Selection"
	}
	if p := c.Commit(name, ""); p != nil {
		return p, nil
	}
	return nil, nil
}

// FillSelection fills the selection on the active layer with color.
func FillSelection(ctx context.Context, ws *ggdoc.Workspace, color ggdoc.RGBA) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &FillSelectionFunction{Color: color})
}

// EraseSelection clears the selection on the active layer to transparent.
func EraseSelection(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &FillSelectionFunction{Color: ggdoc.Transparent, erase: true})
}
