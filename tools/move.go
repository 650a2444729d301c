package tools

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggdoc"
)

// MoveTool lifts the pixels under the selection and moves them around.
//
// Lift copies the selected area into the Locker and records a Compound of
// the previous tool context and a payload BitmapPatch. Each drag opens a
// series: an empty Compound is pushed at once and every Drag call appends
// the context it replaced together with the pixels it overwrote, so the
// whole drag undoes in one step. Finish bakes the transform into the
// selection and drops the lift.
//
// The lifted area is the selection's clip rectangle.
type MoveTool struct {
	// Quality resamples the lifted pixels; draw.NearestNeighbor by default.
	Quality draw.Interpolator

	ws  *ggdoc.Workspace
	ctx *ggdoc.ToolContext

	capture  *ggdoc.Capture
	sentinel *ggdoc.Compound
}

// NewMoveTool returns an idle move tool.
func NewMoveTool() *MoveTool {
	return &MoveTool{Quality: draw.NearestNeighbor, ctx: ggdoc.NewToolContext()}
}

func (t *MoveTool) Name() string { return MoveName }

func (t *MoveTool) Activate(ws *ggdoc.Workspace) { t.ws = ws }

// Deactivate finishes a pending lift. While history is stepping nothing may
// be pushed, so the lift is dropped instead; its pixels are already on the
// layer.
func (t *MoveTool) Deactivate(ws *ggdoc.Workspace) {
	if ws.History().IsExecuting() {
		t.drop()
		return
	}
	if err := t.Finish(); err != nil {
		ws.Logger().Warn("move: finish on deactivate failed", "err", err)
		t.drop()
	}
}

func (t *MoveTool) DocumentReplaced(*ggdoc.Workspace) { t.drop() }

// Context returns the live context. It must not be modified.
func (t *MoveTool) Context() *ggdoc.ToolContext { return t.ctx }

// Lifted reports whether pixels are lifted.
func (t *MoveTool) Lifted() bool { return t.ctx.Lifted }

// SwapContext implements ggdoc.ContextTool.
func (t *MoveTool) SwapContext(ctx *ggdoc.ToolContext) *ggdoc.ToolContext {
	t.closeDrag()
	if ctx == nil {
		ctx = ggdoc.NewToolContext()
	}
	prev := t.ctx
	t.ctx = ctx
	if ctx.Lifted && t.ws != nil {
		t.ws.Selection().SetInterimTransform(ctx.DeltaTransform)
		t.ws.NotifySelectionChanged()
	}
	return prev
}

// Lift copies the selected pixels of the active layer into the Locker. It
// does nothing when pixels are already lifted or the selection misses the
// canvas.
func (t *MoveTool) Lift() error {
	if t.ws == nil {
		return errors.New("tools: move tool is not active")
	}
	if t.ctx.Lifted {
		return nil
	}
	surface, err := t.ws.ActiveLayerSurface()
	if err != nil {
		return err
	}
	clip := t.ws.Selection().ClipRect(t.ws.Document().Bounds())
	if clip.Empty() {
		return nil
	}

	l := t.ws.Locker()
	payload := l.Add(ggdoc.NewMaskedSurface(surface, ggdoc.NewRegion(clip)))
	backdrop := surface.Clone()
	backdrop.FillRect(clip, ggdoc.Transparent)
	backdropKey := l.Add(backdrop)

	prev := t.ctx.Clone()
	ctx := ggdoc.NewToolContext()
	ctx.Lifted = true
	ctx.LiftedBounds = ggdoc.RectFrom(clip)
	ctx.StartBounds = ctx.LiftedBounds
	ctx.StartPath = t.ws.Selection().Polygons()
	ctx.Payload = payload
	ctx.Backdrop = backdropKey

	l.Retain(payload)
	m := ggdoc.NewCompound("Lift", "",
		ggdoc.NewToolContextMemento("Lift", "", MoveName, t.ws.ActiveLayer(), prev, l),
		ggdoc.NewBitmapPatchFromPayload("Lift", "", t.ws.ActiveLayer(), l, payload),
	)
	t.release(t.ctx)
	t.ctx = ctx
	t.ws.Logger().Debug("move: lifted", "bounds", clip, "payload", payload)
	return t.ws.History().PushNewMemento(m)
}

// BeginDrag starts a drag, lifting first if needed.
func (t *MoveTool) BeginDrag() error {
	if err := t.Lift(); err != nil {
		return err
	}
	if !t.ctx.Lifted {
		return nil
	}
	t.closeDrag()
	c, err := t.ws.BeginCapture(MoveName)
	if err != nil {
		return err
	}
	series := ggdoc.NewSeries()
	sentinel := ggdoc.NewCompound(MoveName, "")
	ggdoc.SetSeries(sentinel, series)
	if err := t.ws.History().PushNewMemento(sentinel); err != nil {
		_ = c.Close()
		return err
	}
	t.ctx.Series = series
	t.ctx.BaseTransform = t.ctx.DeltaTransform
	t.capture, t.sentinel = c, sentinel
	return nil
}

// Drag moves the lifted pixels to m, a transform relative to where they
// were lifted from.
func (t *MoveTool) Drag(m ggdoc.Matrix) error {
	if t.capture == nil {
		return errors.New("tools: drag without BeginDrag")
	}
	if top, ok := t.ws.History().PeekUndo(); !ok || top != ggdoc.Memento(t.sentinel) {
		// The drag's entry was undone before anything was appended to it.
		t.closeDrag()
		return errors.New("tools: drag was undone")
	}
	l := t.ws.Locker()
	payload, ok := ggdoc.LockerGet[*ggdoc.MaskedSurface](l, t.ctx.Payload)
	if !ok || payload.Surface == nil {
		return errors.New("tools: lifted pixels were evicted")
	}
	backdrop, ok := ggdoc.LockerGet[*ggdoc.Pixmap](l, t.ctx.Backdrop)
	if !ok {
		return errors.New("tools: backdrop was evicted")
	}

	prev := t.ctx.Clone()
	area := transformedBounds(t.ctx.LiftedBounds, t.ctx.DeltaTransform).
		Union(transformedBounds(t.ctx.LiftedBounds, m)).
		Int().Intersect(t.ws.Document().Bounds())

	surface := t.capture.Surface()
	if !area.Empty() {
		t.capture.SaveRegion(ggdoc.Region{}, area)
		surface.CopyRect(backdrop, area)
		dst := surface.RGBAImage().SubImage(area).(*image.RGBA)
		s2d := m.Multiply(ggdoc.Translate(float64(payload.Origin.X), float64(payload.Origin.Y)))
		t.quality().Transform(dst, s2d.Aff3(), payload.Surface.RGBAImage(), payload.Surface.Rect(), draw.Over, nil)
		t.ws.Document().SetDirty()
		t.ws.Invalidate(t.capture.Layer(), ggdoc.NewRegion(area))
	}

	t.ctx.DeltaTransform = m
	t.sentinel.Append(ggdoc.NewToolContextMemento(MoveName, "", MoveName, t.capture.Layer(), prev, l))
	if patch := t.capture.CommitRegion(MoveName, "", ggdoc.NewRegion(area)); patch != nil {
		t.sentinel.Append(patch)
	}
	t.ws.Selection().SetInterimTransform(m)
	t.ws.NotifySelectionChanged()
	return nil
}

// EndDrag closes the drag series.
func (t *MoveTool) EndDrag() error {
	if t.capture == nil {
		return nil
	}
	err := t.capture.Close()
	t.capture, t.sentinel = nil, nil
	return err
}

// Finish bakes the transform into the selection and forgets the lift.
func (t *MoveTool) Finish() error {
	if err := t.EndDrag(); err != nil {
		return err
	}
	if !t.ctx.Lifted {
		return nil
	}
	sel := t.ws.Selection()
	before := sel.Snapshot()
	sel.CommitInterimTransform()
	t.ws.NotifySelectionChanged()

	m := ggdoc.NewCompound("Finish Pixels", "",
		ggdoc.NewToolContextMemento("Finish Pixels", "", MoveName, t.ws.ActiveLayer(), t.ctx.Clone(), t.ws.Locker()),
		ggdoc.NewSelectionPatch("Finish Pixels", "", before),
	)
	t.release(t.ctx)
	t.ctx = ggdoc.NewToolContext()
	return t.ws.History().PushNewMemento(m)
}

func (t *MoveTool) quality() draw.Interpolator {
	if t.Quality == nil {
		return draw.NearestNeighbor
	}
	return t.Quality
}

func (t *MoveTool) closeDrag() {
	if t.capture != nil {
		_ = t.capture.Close()
	}
	t.capture, t.sentinel = nil, nil
}

// drop forgets the live context without recording anything.
func (t *MoveTool) drop() {
	t.closeDrag()
	t.release(t.ctx)
	t.ctx = ggdoc.NewToolContext()
}

func (t *MoveTool) release(ctx *ggdoc.ToolContext) {
	if t.ws == nil || ctx == nil {
		return
	}
	for _, k := range ctx.Keys() {
		t.ws.Locker().Release(k)
	}
}

func transformedBounds(r ggdoc.Rect, m ggdoc.Matrix) ggdoc.Rect {
	return ggdoc.RectPolygon(r).Transform(m).Bounds()
}
