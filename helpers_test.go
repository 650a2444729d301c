package ggdoc

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestWorkspace opens a w×h document with one opaque white layer and a
// private locker.
func newTestWorkspace(t *testing.T, w, h int) *Workspace {
	t.Helper()
	doc, err := NewDocument(w, h)
	require.NoError(t, err)
	l, _ := doc.Layer(doc.AddLayer("Background"))
	l.Surface.Clear(White)
	ws := NewWorkspace(doc, WithLocker(NewLocker()), WithWorkers(2))
	t.Cleanup(ws.Close)
	return ws
}

func activeSurface(t *testing.T, ws *Workspace) *Pixmap {
	t.Helper()
	s, err := ws.ActiveLayerSurface()
	require.NoError(t, err)
	return s
}

// paint fills r with c on the active layer and returns the patch that
// reverts it.
func paint(t *testing.T, ws *Workspace, r image.Rectangle, c RGBA) *BitmapPatch {
	t.Helper()
	capt, err := ws.BeginCapture("paint")
	require.NoError(t, err)
	defer func() { require.NoError(t, capt.Close()) }()
	capt.SaveRegion(Region{}, r)
	capt.Surface().FillRect(r, c)
	p := capt.Commit("Paint", "")
	require.NotNil(t, p)
	return p
}

// testMemento logs its undos by name and counts releases.
type testMemento struct {
	base
	log      *[]string
	released *int
	err      error
}

func newTestMemento(name string, log *[]string) *testMemento {
	return &testMemento{base: base{newInfo(name, "")}, log: log}
}

func (*testMemento) Kind() Kind { return KindNull }

func (m *testMemento) PerformUndo(*Workspace) (Memento, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.log != nil {
		*m.log = append(*m.log, m.info.Name)
	}
	return &testMemento{base: base{m.info}, log: m.log, released: m.released}, nil
}

func (m *testMemento) Release() {
	if m.released != nil {
		*m.released++
	}
}

// stubTool is a ContextTool that records activations.
type stubTool struct {
	name        string
	ctx         *ToolContext
	activated   int
	deactivated int
	replaced    int
}

func newStubTool(name string) *stubTool {
	return &stubTool{name: name, ctx: NewToolContext()}
}

func (s *stubTool) Name() string                { return s.name }
func (s *stubTool) Activate(*Workspace)         { s.activated++ }
func (s *stubTool) Deactivate(*Workspace)       { s.deactivated++ }
func (s *stubTool) DocumentReplaced(*Workspace) { s.replaced++ }

func (s *stubTool) SwapContext(ctx *ToolContext) *ToolContext {
	prev := s.ctx
	s.ctx = ctx
	return prev
}
