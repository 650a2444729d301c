package tools

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggdoc"
)

func activeRectangle(t *testing.T, ws *ggdoc.Workspace) *RectangleTool {
	t.Helper()
	require.NoError(t, ws.SetTool(RectangleName))
	tool, ok := ws.ActiveTool().(*RectangleTool)
	require.True(t, ok)
	tool.Color = ggdoc.Red
	return tool
}

func TestRectangleTool_DrawUndoRedo(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	s := layerSurface(t, ws)
	original := s.Clone()
	tool := activeRectangle(t, ws)

	require.NoError(t, tool.MouseDown(image.Pt(2, 2)))
	assert.True(t, tool.Drawing())
	assert.Len(t, ws.History().UndoStack(), 1, "the pending entry is visible at once")

	tool.MouseMove(image.Pt(20, 20))
	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(15, 15))
	require.NoError(t, tool.MouseUp(image.Pt(6, 6)))
	assert.False(t, tool.Drawing())

	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(5, 5))
	assert.Equal(t, ggdoc.White.Premul(), s.PixelAt(15, 15), "earlier preview frames are erased")
	drawn := s.Clone()
	assert.Equal(t, "", ws.ScratchBorrower())

	require.NoError(t, ws.History().StepBackward())
	assert.True(t, s.Equal(original))
	require.NoError(t, ws.History().StepForward())
	assert.True(t, s.Equal(drawn))
}

func TestRectangleTool_CancelLeavesEmptyEntry(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	s := layerSurface(t, ws)
	original := s.Clone()
	tool := activeRectangle(t, ws)

	require.NoError(t, tool.MouseDown(image.Pt(4, 4)))
	tool.MouseMove(image.Pt(12, 12))
	tool.Cancel()

	assert.True(t, s.Equal(original))
	top, ok := ws.History().PeekUndo()
	require.True(t, ok)
	c, ok := top.(*ggdoc.Compound)
	require.True(t, ok)
	assert.Equal(t, 0, c.Len())

	require.NoError(t, ws.History().StepBackward())
	assert.True(t, s.Equal(original))
}

func TestRectangleTool_ClippedToSelection(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	ws.Selection().SetContinuation([]ggdoc.Polygon{ggdoc.RectPolygon(ggdoc.Rect{W: 8, H: 8})}, ggdoc.CombineReplace)
	ws.Selection().CommitContinuation()
	s := layerSurface(t, ws)
	tool := activeRectangle(t, ws)

	require.NoError(t, tool.MouseDown(image.Pt(4, 4)))
	require.NoError(t, tool.MouseUp(image.Pt(16, 16)))
	assert.Equal(t, ggdoc.Red.Premul(), s.PixelAt(7, 7))
	assert.Equal(t, ggdoc.White.Premul(), s.PixelAt(8, 8))
}

func TestRectangleTool_Inactive(t *testing.T) {
	assert.Error(t, NewRectangleTool(ggdoc.Red).MouseDown(image.Pt(0, 0)))
}

func TestRectangleTool_UndoDuringGesture(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	s := layerSurface(t, ws)
	original := s.Clone()
	tool := activeRectangle(t, ws)
	h := ws.History()

	require.NoError(t, tool.MouseDown(image.Pt(2, 2)))
	tool.MouseMove(image.Pt(10, 10))
	require.NoError(t, h.StepBackward())

	assert.False(t, tool.Drawing(), "undo cancels the gesture")
	assert.Equal(t, "", ws.ScratchBorrower())
	assert.True(t, s.Equal(original), "the preview is erased")
	assert.Equal(t, RectangleName, ws.ToolName())
	assert.NotSame(t, tool, ws.ActiveTool())

	// The late mouse-up of the old gesture records nothing.
	require.NoError(t, tool.MouseUp(image.Pt(10, 10)))
	for h.CanUndo() {
		require.NoError(t, h.StepBackward())
	}
	assert.True(t, s.Equal(original))
	assert.Len(t, h.RedoStack(), 1)
}
