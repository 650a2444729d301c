package tools

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggdoc"
)

// liftSetup paints a red square at (4,4)-(12,12), selects it and activates
// the move tool.
func liftSetup(t *testing.T) (*ggdoc.Workspace, *MoveTool, *ggdoc.Pixmap) {
	t.Helper()
	ws := newWorkspace(t, 32, 32)
	s := layerSurface(t, ws)
	s.FillRect(image.Rect(4, 4, 12, 12), ggdoc.Red)

	sel := ws.Selection()
	sel.SetContinuation([]ggdoc.Polygon{ggdoc.RectPolygon(ggdoc.Rect{X: 4, Y: 4, W: 8, H: 8})}, ggdoc.CombineReplace)
	sel.CommitContinuation()

	require.NoError(t, ws.SetTool(MoveName))
	tool, ok := ws.ActiveTool().(*MoveTool)
	require.True(t, ok)
	return ws, tool, s
}

func TestMoveTool_DragUndoesInOneStep(t *testing.T) {
	ws, tool, s := liftSetup(t)
	original := s.Clone()
	h := ws.History()

	require.NoError(t, tool.BeginDrag())
	assert.True(t, tool.Lifted())
	for _, d := range []float64{1, 2, 5} {
		require.NoError(t, tool.Drag(ggdoc.Translate(d, d)))
	}
	require.NoError(t, tool.EndDrag())
	assert.Equal(t, "", ws.ScratchBorrower())

	assert.Equal(t, [4]uint8{}, s.PixelAt(4, 4), "the lifted area is cleared")
	assert.Equal(t, [4]uint8{}, s.PixelAt(5, 5))
	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(9, 9))
	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(16, 16))
	assert.Equal(t, ggdoc.White.Premul(), s.PixelAt(17, 17))
	moved := s.Clone()

	top, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, 1, h.SeriesLen(top.Info().Series))
	assert.Len(t, h.UndoStack(), 2, "lift and drag")
	assert.Equal(t, ggdoc.Translate(5, 5), ws.Selection().InterimTransform())

	require.NoError(t, h.StepBackward())
	assert.True(t, s.Equal(original))
	assert.True(t, tool.Lifted(), "undoing the drag keeps the lift")
	assert.Equal(t, ggdoc.Identity(), tool.Context().DeltaTransform)
	assert.Equal(t, ggdoc.Identity(), ws.Selection().InterimTransform())

	require.NoError(t, h.StepForward())
	assert.True(t, s.Equal(moved))
	assert.Equal(t, ggdoc.Translate(5, 5), tool.Context().DeltaTransform)
}

func TestMoveTool_UndoLift(t *testing.T) {
	ws, tool, s := liftSetup(t)
	original := s.Clone()
	l := ws.Locker()

	require.NoError(t, tool.Lift())
	assert.Equal(t, 2, l.Len(), "payload and backdrop")
	payload := tool.Context().Payload
	assert.Equal(t, 2, l.Refs(payload))

	require.NoError(t, ws.History().StepBackward())
	assert.False(t, tool.Lifted())
	assert.True(t, s.Equal(original))
	// The lifted context now lives in the redo entry.
	assert.Equal(t, 1, l.Refs(payload))

	require.NoError(t, ws.History().StepForward())
	assert.True(t, tool.Lifted())
	assert.Equal(t, payload, tool.Context().Payload)
}

func TestMoveTool_FinishBakesSelection(t *testing.T) {
	ws, tool, _ := liftSetup(t)
	h := ws.History()

	require.NoError(t, tool.BeginDrag())
	require.NoError(t, tool.Drag(ggdoc.Translate(3, 0)))
	require.NoError(t, tool.Finish())

	assert.False(t, tool.Lifted())
	sel := ws.Selection()
	assert.True(t, sel.InterimTransform().IsIdentity())
	assert.True(t, sel.Contains(14, 5))
	assert.False(t, sel.Contains(5, 5))
	top, _ := h.PeekUndo()
	assert.Equal(t, "Finish Pixels", top.Info().Name)

	require.NoError(t, h.StepBackward())
	assert.True(t, tool.Lifted())
	assert.Equal(t, ggdoc.Translate(3, 0), sel.InterimTransform())
	assert.True(t, sel.Contains(14, 5))

	h.ClearAll()
	tool.DocumentReplaced(ws)
	assert.Equal(t, 0, ws.Locker().Len(), "every payload reference was returned")
}

func TestMoveTool_UndoFromAnotherTool(t *testing.T) {
	ws, tool, s := liftSetup(t)
	require.NoError(t, tool.BeginDrag())
	require.NoError(t, tool.Drag(ggdoc.Translate(2, 2)))
	require.NoError(t, tool.EndDrag())

	require.NoError(t, ws.SetTool(RectangleName))
	assert.False(t, tool.Lifted(), "switching tools finishes the lift")
	finished, _ := ws.History().PeekUndo()
	assert.Equal(t, "Finish Pixels", finished.Info().Name)

	// Undoing the finish brings the move tool back with its lift.
	require.NoError(t, ws.History().StepBackward())
	assert.Equal(t, MoveName, ws.ToolName())
	again, ok := ws.ActiveTool().(*MoveTool)
	require.True(t, ok)
	assert.True(t, again.Lifted())
	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(13, 13))
}

func TestMoveTool_Errors(t *testing.T) {
	assert.Error(t, NewMoveTool().Lift())

	_, tool, _ := liftSetup(t)
	assert.Error(t, tool.Drag(ggdoc.Identity()), "drag without BeginDrag")
}

func TestMoveTool_NothingSelectedLiftsCanvas(t *testing.T) {
	ws := newWorkspace(t, 16, 16)
	require.NoError(t, ws.SetTool(MoveName))
	tool := ws.ActiveTool().(*MoveTool)

	require.NoError(t, tool.Lift())
	assert.True(t, tool.Lifted())
	assert.Equal(t, ggdoc.Rect{W: 16, H: 16}, tool.Context().LiftedBounds)
}

func TestMoveTool_DragAfterUndoneBeginDrag(t *testing.T) {
	ws, tool, _ := liftSetup(t)
	h := ws.History()

	require.NoError(t, tool.BeginDrag())
	require.Len(t, h.UndoStack(), 2)
	require.NoError(t, h.StepBackward())
	assert.Equal(t, MoveName, ws.ToolName(), "series entries keep the tool")

	assert.Error(t, tool.Drag(ggdoc.Translate(2, 2)))
	assert.Equal(t, "", ws.ScratchBorrower())
	assert.Len(t, h.UndoStack(), 1)
	require.Len(t, h.RedoStack(), 1)
	c, ok := h.RedoStack()[0].(*ggdoc.Compound)
	require.True(t, ok)
	assert.Equal(t, 0, c.Len(), "nothing was appended to the undone entry")
}
