package tools

import (
	"errors"
	"image"

	"github.com/gogpu/ggdoc"
)

// RectangleTool paints filled rectangles on the active layer.
//
// Mouse-down pushes an empty Compound so the history shows the pending
// entry; every move erases the previous preview and draws the next one;
// mouse-up appends the BitmapPatch of the final rectangle. A cancelled
// gesture leaves the empty Compound, which undoes to nothing.
type RectangleTool struct {
	Color ggdoc.RGBA

	ws       *ggdoc.Workspace
	capture  *ggdoc.Capture
	sentinel *ggdoc.Compound
	start    image.Point
	last     image.Rectangle
}

// NewRectangleTool returns a tool painting with c.
func NewRectangleTool(c ggdoc.RGBA) *RectangleTool {
	return &RectangleTool{Color: c}
}

func (t *RectangleTool) Name() string { return RectangleName }

func (t *RectangleTool) Activate(ws *ggdoc.Workspace) { t.ws = ws }

func (t *RectangleTool) Deactivate(*ggdoc.Workspace) { t.Cancel() }

func (t *RectangleTool) DocumentReplaced(*ggdoc.Workspace) {
	// The preview pixels belong to the old document; just let go.
	if t.capture != nil {
		_ = t.capture.Close()
	}
	t.capture, t.sentinel = nil, nil
}

// Drawing reports whether a gesture is in progress.
func (t *RectangleTool) Drawing() bool { return t.capture != nil }

// MouseDown starts a rectangle at p.
func (t *RectangleTool) MouseDown(p image.Point) error {
	if t.ws == nil {
		return errors.New("tools: rectangle tool is not active")
	}
	c, err := t.ws.BeginCapture(RectangleName)
	if err != nil {
		return err
	}
	sentinel := ggdoc.NewCompound(RectangleName, "")
	if err := t.ws.History().PushNewMemento(sentinel); err != nil {
		_ = c.Close()
		return err
	}
	t.capture, t.sentinel = c, sentinel
	t.start, t.last = p, image.Rectangle{}
	return nil
}

// MouseMove redraws the preview with the opposite corner at p.
func (t *RectangleTool) MouseMove(p image.Point) {
	if t.capture == nil {
		return
	}
	t.capture.RestoreSavedRegion()

	doc := t.ws.Document()
	r := image.Rectangle{Min: t.start, Max: p}.Canon()
	r = r.Intersect(t.ws.Selection().ClipRect(doc.Bounds()))
	t.last = r
	if r.Empty() {
		return
	}
	t.capture.SaveRegion(ggdoc.Region{}, r)
	t.capture.Surface().FillRect(r, t.Color)
	t.ws.Invalidate(t.capture.Layer(), ggdoc.NewRegion(r))
}

// MouseUp finishes the rectangle at p and records it.
func (t *RectangleTool) MouseUp(p image.Point) error {
	if t.capture == nil {
		return nil
	}
	t.MouseMove(p)
	if patch := t.capture.CommitRegion(RectangleName, "", ggdoc.NewRegion(t.last)); patch != nil {
		t.sentinel.Append(patch)
		t.ws.Document().SetDirty()
	}
	err := t.capture.Close()
	t.capture, t.sentinel = nil, nil
	return err
}

// Cancel abandons the gesture and erases the preview.
func (t *RectangleTool) Cancel() {
	if t.capture == nil {
		return
	}
	t.capture.RestoreSavedRegion()
	t.capture.ClearSavedMemory()
	_ = t.capture.Close()
	t.capture, t.sentinel = nil, nil
}
