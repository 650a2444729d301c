package actions

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggdoc"
)

// Resampling selects the interpolation kernel used to resize layers.
type Resampling uint8

const (
	ResampleNearest Resampling = iota
	ResampleApproxBilinear
	ResampleBilinear
	ResampleCatmullRom
)

// String returns the kernel name.
func (r Resampling) String() string {
	switch r {
	case ResampleNearest:
		return "NearestNeighbor"
	case ResampleApproxBilinear:
		return "ApproxBiLinear"
	case ResampleBilinear:
		return "BiLinear"
	case ResampleCatmullRom:
		return "CatmullRom"
	default:
		return "Unknown"
	}
}

func (r Resampling) interpolator() draw.Interpolator {
	switch r {
	case ResampleNearest:
		return draw.NearestNeighbor
	case ResampleApproxBilinear:
		return draw.ApproxBiLinear
	case ResampleBilinear:
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}

// bandHeight is the number of destination rows resampled per work item.
const bandHeight = 64

// ResizeImageFunction resamples every layer to a new size and records the
// change as a ReplaceDocument entry.
type ResizeImageFunction struct {
	ggdoc.FunctionBase
	Width      int
	Height     int
	Resampling Resampling
}

// Name implements ggdoc.Function.
func (f *ResizeImageFunction) Name() string { return "resize image" }

// Execute implements ggdoc.Function. The layers are resampled in row bands
// on the workspace pool; cancellation discards the partial result.
func (f *ResizeImageFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	old := ws.Document()
	next, err := ggdoc.NewDocument(f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	next.MetaData = old.MetaData.Clone()

	kernel := f.Resampling.interpolator()
	s2d := f64.Aff3{
		float64(f.Width) / float64(old.Width()), 0, 0,
		0, float64(f.Height) / float64(old.Height()), 0,
	}
	for i, l := range old.Layers() {
		nl := &ggdoc.Layer{LayerProperties: l.LayerProperties, Surface: ggdoc.NewPixmap(f.Width, f.Height)}
		dst := nl.Surface.RGBAImage()
		src := l.Surface.RGBAImage()
		err := ws.Pool().ExecuteBands(ctx, f.Height, bandHeight, func(y0, y1 int) {
			band := dst.SubImage(image.Rect(0, y0, f.Width, y1)).(*image.RGBA)
			kernel.Transform(band, s2d, src, src.Bounds(), draw.Src, nil)
		})
		if err != nil {
			ws.Logger().Warn("actions: resize cancelled", "layer", i, "err", err)
			return nil, nil
		}
		if err := next.InsertLayer(i, nl); err != nil {
			return nil, err
		}
	}
	if ctx.Err() != nil {
		ws.Logger().Warn("actions: resize cancelled", "err", ctx.Err())
		return nil, nil
	}

	next.SetDirty()
	ws.SetDocument(next)
	return ggdoc.NewReplaceDocument(ggdoc.FormatName(ggdoc.NameResizeImage, f.Width, f.Height), "", old), nil
}

// ResizeImage runs a ResizeImageFunction. It returns a nil memento when
// ctx was cancelled.
func ResizeImage(ctx context.Context, ws *ggdoc.Workspace, width, height int, r Resampling) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &ResizeImageFunction{Width: width, Height: height, Resampling: r})
}

// Anchor is the edge or corner the existing pixels stay attached to when
// the canvas is resized.
type Anchor uint8

const (
	AnchorTopLeft Anchor = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

// offset returns where the old canvas origin lands on the new canvas.
func (a Anchor) offset(oldW, oldH, newW, newH int) image.Point {
	col, row := int(a)%3, int(a)/3
	return image.Pt((newW-oldW)*col/2, (newH-oldH)*row/2)
}

// CanvasSizeFunction re-places every layer on a canvas of a new size,
// filling new area with transparency.
type CanvasSizeFunction struct {
	ggdoc.FunctionBase
	Width  int
	Height int
	Anchor Anchor
}

// Name implements ggdoc.Function.
func (f *CanvasSizeFunction) Name() string { return "canvas size" }

// Execute implements ggdoc.Function.
func (f *CanvasSizeFunction) Execute(ctx context.Context, ws *ggdoc.Workspace) (ggdoc.Memento, error) {
	old := ws.Document()
	next, err := resizeCanvas(ctx, old, f.Width, f.Height, f.Anchor)
	if err != nil {
		return nil, err
	}
	if next == nil {
		ws.Logger().Warn("actions: canvas size cancelled")
		return nil, nil
	}
	ws.SetDocument(next)
	return ggdoc.NewReplaceDocument(ggdoc.FormatName(ggdoc.NameCanvasSize, f.Width, f.Height), "", old), nil
}

// CanvasSize runs a CanvasSizeFunction.
func CanvasSize(ctx context.Context, ws *ggdoc.Workspace, width, height int, anchor Anchor) (ggdoc.Memento, error) {
	return ggdoc.RunFunction(ctx, ws, &CanvasSizeFunction{Width: width, Height: height, Anchor: anchor})
}

// resizeCanvas builds the re-placed copy of doc. It returns nil, nil when
// ctx is cancelled.
func resizeCanvas(ctx context.Context, doc *ggdoc.Document, width, height int, anchor Anchor) (*ggdoc.Document, error) {
	off := anchor.offset(doc.Width(), doc.Height(), width, height)
	return copyCanvas(ctx, doc, width, height, off, nil)
}

// copyCanvas copies every layer of doc onto a width×height canvas with the
// old origin at off. When keep is non-nil, pixels for which it reports
// false (in old coordinates) are left transparent.
func copyCanvas(ctx context.Context, doc *ggdoc.Document, width, height int, off image.Point, keep func(x, y int) bool) (*ggdoc.Document, error) {
	next, err := ggdoc.NewDocument(width, height)
	if err != nil {
		return nil, err
	}
	next.MetaData = doc.MetaData.Clone()

	for i, l := range doc.Layers() {
		if ctx.Err() != nil {
			return nil, nil
		}
		nl := &ggdoc.Layer{LayerProperties: l.LayerProperties, Surface: ggdoc.NewPixmap(width, height)}
		r := l.Bounds().Add(off).Intersect(nl.Bounds())
		draw.Draw(nl.Surface.RGBAImage(), r, l.Surface.RGBAImage(), r.Min.Sub(off), draw.Src)
		if keep != nil {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					if !keep(x-off.X, y-off.Y) {
						nl.Surface.SetPixel(x, y, ggdoc.Transparent)
					}
				}
			}
		}
		if err := next.InsertLayer(i, nl); err != nil {
			return nil, fmt.Errorf("canvas size: %w", err)
		}
	}
	next.SetDirty()
	return next, nil
}
