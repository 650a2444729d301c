package ggdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_LayerEditsNotify(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	var changes []LayerChange
	ws.OnLayersChanged(func(c LayerChange) { changes = append(changes, c) })
	var layers []int
	ws.OnInvalidate(func(layer int, _ Region) { layers = append(layers, layer) })

	require.NoError(t, ws.InsertLayer(1, NewLayer("Top", 8, 8)))
	require.NoError(t, ws.SwapLayers(0, 1))
	require.NoError(t, ws.FlipLayer(0, FlipHorizontal))
	_, err := ws.SetLayerProperties(0, LayerProperties{Name: "Hidden"})
	require.NoError(t, err)
	_, err = ws.RemoveLayer(1)
	require.NoError(t, err)

	ops := make([]LayerOp, len(changes))
	for i, c := range changes {
		ops[i] = c.Op
	}
	assert.Equal(t, []LayerOp{LayerAdded, LayerSwapped, LayerFlipped, LayerPropertiesChanged, LayerDeleted}, ops)
	assert.Equal(t, []int{-1, -1, -1, -1, -1}, layers)
	assert.True(t, ws.Document().Dirty())
}

func TestWorkspace_LayerEditErrors(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	notified := 0
	ws.OnLayersChanged(func(LayerChange) { notified++ })

	assert.ErrorIs(t, ws.SwapLayers(0, 4), ErrStaleLayerIndex)
	assert.ErrorIs(t, ws.FlipLayer(2, FlipVertical), ErrStaleLayerIndex)
	_, err := ws.SetLayerProperties(-1, LayerProperties{})
	assert.ErrorIs(t, err, ErrStaleLayerIndex)
	assert.ErrorIs(t, ws.SetActiveLayer(3), ErrStaleLayerIndex)
	assert.Equal(t, 0, notified)
	assert.False(t, ws.Document().Dirty())
}

func TestWorkspace_ActiveLayerFollowsRemoval(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	require.NoError(t, ws.InsertLayer(1, NewLayer("A", 8, 8)))
	require.NoError(t, ws.InsertLayer(2, NewLayer("B", 8, 8)))
	require.NoError(t, ws.SetActiveLayer(2))

	_, err := ws.RemoveLayer(0)
	require.NoError(t, err)
	assert.Equal(t, 1, ws.ActiveLayer(), "the active layer keeps pointing at B")

	_, err = ws.RemoveLayer(1)
	require.NoError(t, err)
	assert.Equal(t, 0, ws.ActiveLayer())
}

func TestWorkspace_SetDocumentResetsSelection(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	ws.Selection().SetContinuation([]Polygon{RectPolygon(Rect{W: 2, H: 2})}, CombineReplace)
	ws.Selection().CommitContinuation()
	require.False(t, ws.Selection().IsEmpty())

	selChanged := 0
	ws.OnSelectionChanged(func() { selChanged++ })
	next, err := NewDocument(8, 8)
	require.NoError(t, err)
	ws.SetDocument(next)

	assert.True(t, ws.Selection().IsEmpty())
	assert.Equal(t, 1, selChanged)
	assert.Equal(t, 0, ws.ActiveLayer())
	_, err = ws.ActiveLayerSurface()
	assert.ErrorIs(t, err, ErrNoActiveLayer)
}

func TestWorkspace_PushPopNullTool(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	stub := newStubTool("Stub")
	ws.RegisterTool("Stub", func() Tool { return stub })
	require.NoError(t, ws.SetTool("Stub"))

	ws.PushNullTool()
	assert.Equal(t, 1, stub.deactivated, "the parked tool is deactivated")
	ws.PushNullTool()
	assert.Equal(t, NullToolName, ws.ToolName())
	ws.PopNullTool()
	assert.Equal(t, NullToolName, ws.ToolName())
	ws.PopNullTool()
	assert.Equal(t, "Stub", ws.ToolName())
	assert.Equal(t, 2, stub.activated, "restored through the factory")
	ws.PopNullTool() // unbalanced pops are ignored
	assert.Same(t, stub, ws.ActiveTool())
	assert.Equal(t, 1, stub.deactivated)
}

func TestWorkspace_PopNullToolCreatesNewInstance(t *testing.T) {
	ws := newTestWorkspace(t, 8, 8)
	var made []*stubTool
	ws.RegisterTool("Stub", func() Tool {
		s := newStubTool("Stub")
		made = append(made, s)
		return s
	})
	require.NoError(t, ws.SetTool("Stub"))

	ws.PushNullTool()
	ws.PopNullTool()
	require.Len(t, made, 2)
	assert.Equal(t, 1, made[0].deactivated)
	assert.Same(t, made[1], ws.ActiveTool())
	assert.Equal(t, 1, made[1].activated)
}
