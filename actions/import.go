package actions

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggdoc"
)

// ImportLayersFunction adds one layer per image. The canvas grows, anchored
// top-left, when an image does not fit. Either every image is imported as
// one history entry or the document is left untouched.
type ImportLayersFunction struct {
	ggdoc.FunctionBase
	Images []image.Image
	Names  []string
}

// Name implements ggdoc.Function.
func (f *ImportLayersFunction) Name() string { return "import layers" }

// Execute implements ggdoc.Function.
func (f *ImportLayersFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	b := ggdoc.NewCompoundBuilder(ws)
	for i, img := range f.Images {
		if ctx.Err() != nil {
			return f.cancel(ws, b, i)
		}
		if img == nil || img.Bounds().Empty() {
			err := b.Apply(func() (ggdoc.Memento, error) {
				return nil, fmt.Errorf("image %d: %w", i, ggdoc.ErrInvalidDimensions)
			})
			return nil, err
		}

		ib := img.Bounds()
		doc := ws.Document()
		if ib.Dx() > doc.Width() || ib.Dy() > doc.Height() {
			w, h := max(ib.Dx(), doc.Width()), max(ib.Dy(), doc.Height())
			m, err := growCanvas(ctx, ws, w, h)
			if m == nil && err == nil {
				return f.cancel(ws, b, i)
			}
			if err := b.Apply(func() (ggdoc.Memento, error) { return m, err }); err != nil {
				return nil, err
			}
		}

		name := fmt.Sprintf("Layer %d", ws.Document().LayerCount()+1)
		if i < len(f.Names) && f.Names[i] != "" {
			name = f.Names[i]
		}
		index := ws.Document().LayerCount()
		if err := b.Apply(func() (ggdoc.Memento, error) { return addLayer(ws, index, name) }); err != nil {
			return nil, err
		}
		if err := b.Apply(func() (ggdoc.Memento, error) { return blit(ws, index, img) }); err != nil {
			return nil, err
		}
	}
	if b.Len() == 0 {
		return nil, nil
	}
	return b.Finish(ggdoc.FormatName(ggdoc.NameImportLayers, len(f.Images)), ""), nil
}

// cancel rolls back the images imported so far. Cancellation records
// nothing and is not an error.
func (f *ImportLayersFunction) cancel(ws *ggdoc.Workspace, b *ggdoc.CompoundBuilder, imported int) (ggdoc.Memento, error) {
	ws.Logger().Warn("actions: import cancelled", "imported", imported)
	if err := b.Abort(); err != nil {
		f.EnterCriticalRegion()
		return nil, err
	}
	return nil, nil
}

// ImportLayers runs an ImportLayersFunction.
func ImportLayers(ctx context.Context, ws *ggdoc.Workspace, images []image.Image, names ...string) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &ImportLayersFunction{Images: images, Names: names})
}

// growCanvas returns a nil memento and no error when ctx is cancelled.
func growCanvas(ctx context.Context, ws *ggdoc.Workspace, width, height int) (ggdoc.Memento, error) {
	old := ws.Document()
	next, err := resizeCanvas(ctx, old, width, height, AnchorTopLeft)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}
	ws.SetDocument(next)
	return ggdoc.NewReplaceDocument(ggdoc.FormatName(ggdoc.NameCanvasSize, width, height), "", old), nil
}

func addLayer(ws *ggdoc.Workspace, index int, name string) (ggdoc.Memento, error) {
	doc := ws.Document()
	if err := ws.InsertLayer(index, ggdoc.NewLayer(name, doc.Width(), doc.Height())); err != nil {
		return nil, err
	}
	return ggdoc.NewAddLayer("Add Layer", "", index), nil
}

// blit draws img at the origin of layer index through a capture, so the
// step is recorded as a BitmapPatch.
func blit(ws *ggdoc.Workspace, index int, img image.Image) (ggdoc.Memento, error) {
	if err := ws.SetActiveLayer(index); err != nil {
		return nil, err
	}
	c, err := ws.BeginCapture("import")
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	ib := img.Bounds()
	r := image.Rect(0, 0, ib.Dx(), ib.Dy()).Intersect(c.Surface().Rect())
	c.SaveRegion(ggdoc.Region{}, r)
	draw.Draw(c.Surface().RGBAImage(), r, img, ib.Min, draw.Src)
	ws.Invalidate(index, ggdoc.NewRegion(r))

	if p := c.Commit("Import Pixels", ""); p != nil {
		return p, nil
	}
	return nil, nil
}
