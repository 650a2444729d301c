package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggdoc"
)

func TestResizeImage_UndoRestoresDocument(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	old := ws.Document()
	surface(t, ws).FillRect(old.Bounds(), ggdoc.Green)

	m, err := ResizeImage(context.Background(), ws, 16, 8, ResampleNearest)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Resize Image to 16 × 8", m.Info().Name)

	doc := ws.Document()
	assert.Equal(t, 16, doc.Width())
	assert.Equal(t, 8, doc.Height())
	l, _ := doc.Layer(0)
	assert.Equal(t, "Background", l.Name)
	assert.Equal(t, ggdoc.Green.Premul(), l.Surface.PixelAt(15, 7))

	require.NoError(t, Undo(ws))
	assert.Same(t, old, ws.Document())
	require.NoError(t, Redo(ws))
	assert.Same(t, doc, ws.Document())
}

func TestResizeImage_Cancelled(t *testing.T) {
	ws := newWorkspace(t, 32, 32)
	old := ws.Document()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := ResizeImage(ctx, ws, 64, 64, ResampleBilinear)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Same(t, old, ws.Document())
	assert.False(t, ws.History().CanUndo())
}

func TestResizeImage_InvalidSize(t *testing.T) {
	ws := newWorkspace(t, 8, 8)
	_, err := ResizeImage(context.Background(), ws, 0, 8, ResampleNearest)
	assert.ErrorIs(t, err, ggdoc.ErrInvalidDimensions)
	var nf *ggdoc.NonFatalError
	assert.ErrorAs(t, err, &nf)
}

func TestCanvasSize_Anchors(t *testing.T) {
	tests := []struct {
		anchor Anchor
		at     [2]int // where the old top-left pixel lands
	}{
		{AnchorTopLeft, [2]int{0, 0}},
		{AnchorCenter, [2]int{2, 3}},
		{AnchorBottomRight, [2]int{4, 6}},
		{AnchorRight, [2]int{4, 3}},
	}
	for _, tt := range tests {
		ws := newWorkspace(t, 8, 8)
		surface(t, ws).SetPixel(0, 0, ggdoc.Red)

		m, err := CanvasSize(context.Background(), ws, 12, 14, tt.anchor)
		require.NoError(t, err)
		require.NotNil(t, m)
		l, _ := ws.Document().Layer(0)
		assert.Equal(t, ggdoc.Red.Premul(), l.Surface.PixelAt(tt.at[0], tt.at[1]), "anchor %d", tt.anchor)
	}
}

func TestCanvasSize_ShrinkAndUndo(t *testing.T) {
	ws := newWorkspace(t, 8, 8)
	old := ws.Document()
	_, err := CanvasSize(context.Background(), ws, 4, 4, AnchorCenter)
	require.NoError(t, err)

	l, _ := ws.Document().Layer(0)
	assert.Equal(t, ggdoc.White.Premul(), l.Surface.PixelAt(3, 3))
	require.NoError(t, Undo(ws))
	assert.Same(t, old, ws.Document())
}

func TestResampling_String(t *testing.T) {
	assert.Equal(t, "CatmullRom", ResampleCatmullRom.String())
	assert.Equal(t, "Unknown", Resampling(42).String())
}
