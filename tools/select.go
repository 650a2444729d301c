package tools

import (
	"errors"
	"image"
	"time"

	"github.com/gogpu/ggdoc"
)

// SelectRectTool drags out rectangular selections.
//
// The rectangle is staged as the selection continuation while the mouse
// moves. On release the gesture policy decides: a quick click restores the
// previous selection, a drag that misses the canvas records nothing, and
// anything else is committed as a SelectionPatch.
type SelectRectTool struct {
	Mode ggdoc.CombineMode
	Now  func() time.Time

	ws       *ggdoc.Workspace
	dragging bool
	start    image.Point
	began    time.Time
	before   ggdoc.SelectionData
}

// NewSelectRectTool returns a selector that replaces the selection.
func NewSelectRectTool() *SelectRectTool {
	return &SelectRectTool{Mode: ggdoc.CombineReplace}
}

func (t *SelectRectTool) Name() string { return SelectRectName }

func (t *SelectRectTool) Activate(ws *ggdoc.Workspace) { t.ws = ws }

func (t *SelectRectTool) Deactivate(*ggdoc.Workspace) { t.Cancel() }

func (t *SelectRectTool) DocumentReplaced(*ggdoc.Workspace) {
	// The workspace has already reset the selection.
	t.dragging = false
}

// Dragging reports whether a gesture is in progress.
func (t *SelectRectTool) Dragging() bool { return t.dragging }

// MouseDown starts a selection rectangle at p.
func (t *SelectRectTool) MouseDown(p image.Point) error {
	if t.ws == nil {
		return errors.New("tools: select tool is not active")
	}
	t.before = t.ws.Selection().Snapshot()
	t.start = p
	t.began = clock(t.Now).now()
	t.dragging = true
	return nil
}

// MouseMove stages the rectangle from the start point to p.
func (t *SelectRectTool) MouseMove(p image.Point) {
	if !t.dragging {
		return
	}
	r := image.Rectangle{Min: t.start, Max: p}.Canon()
	t.ws.Selection().SetContinuation([]ggdoc.Polygon{ggdoc.RectPolygon(ggdoc.RectFrom(r))}, t.Mode)
	t.ws.NotifySelectionChanged()
}

// MouseUp ends the gesture at p and reports what was done with it.
func (t *SelectRectTool) MouseUp(p image.Point) (ggdoc.Outcome, error) {
	if !t.dragging {
		return ggdoc.OutcomeNoOp, nil
	}
	t.MouseMove(p)
	t.dragging = false

	doc := t.ws.Document().Bounds()
	clipped := image.Rectangle{Min: t.start, Max: p}.Canon().Intersect(doc)
	elapsed := clock(t.Now).now().Sub(t.began)
	outcome := ggdoc.NewGesturePolicy(t.ws.Config()).Decide(elapsed, clipped.Empty(), ggdoc.GestureSelection)

	sel := t.ws.Selection()
	switch outcome {
	case ggdoc.OutcomeCommit:
		sel.CommitContinuation()
		t.ws.NotifySelectionChanged()
		return outcome, t.ws.History().PushNewMemento(ggdoc.NewSelectionPatch(SelectRectName, "", t.before))
	default:
		sel.Restore(t.before)
		t.ws.NotifySelectionChanged()
		return outcome, nil
	}
}

// Cancel abandons the gesture and restores the previous selection.
func (t *SelectRectTool) Cancel() {
	if !t.dragging {
		return
	}
	t.dragging = false
	t.ws.Selection().Restore(t.before)
	t.ws.NotifySelectionChanged()
}
