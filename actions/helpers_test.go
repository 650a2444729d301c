package actions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggdoc"
)

func newWorkspace(t *testing.T, w, h int) *ggdoc.Workspace {
	t.Helper()
	doc, err := ggdoc.NewDocument(w, h)
	require.NoError(t, err)
	l, _ := doc.Layer(doc.AddLayer("Background"))
	l.Surface.Clear(ggdoc.White)
	ws := ggdoc.NewWorkspace(doc, ggdoc.WithLocker(ggdoc.NewLocker()), ggdoc.WithWorkers(2))
	t.Cleanup(ws.Close)
	return ws
}

func surface(t *testing.T, ws *ggdoc.Workspace) *ggdoc.Pixmap {
	t.Helper()
	s, err := ws.ActiveLayerSurface()
	require.NoError(t, err)
	return s
}
