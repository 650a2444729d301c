package tools

import (
	"testing"
	"time"

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
	Register(ws)
	t.Cleanup(ws.Close)
	return ws
}

func layerSurface(t *testing.T, ws *ggdoc.Workspace) *ggdoc.Pixmap {
	t.Helper()
	s, err := ws.ActiveLayerSurface()
	require.NoError(t, err)
	return s
}

// fakeClock advances only when told to.
type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1700000000, 0)} }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
