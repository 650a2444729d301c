package ggdoc

import (
	"bytes"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseCounter struct{ n int }

func (r *releaseCounter) Release() { r.n++ }

func TestLocker_RefCounting(t *testing.T) {
	l := NewLocker()
	obj := &releaseCounter{}
	id := l.Add(obj)
	assert.Equal(t, 1, l.Refs(id))

	require.True(t, l.Retain(id))
	assert.Equal(t, 2, l.Refs(id))

	l.Release(id)
	got, ok := LockerGet[*releaseCounter](l, id)
	require.True(t, ok)
	assert.Same(t, obj, got)
	assert.Equal(t, 0, obj.n)

	l.Release(id)
	_, ok = l.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, obj.n, "payload released with the last reference")
	assert.Equal(t, 0, l.Len())

	// Unknown keys are ignored.
	l.Release(id)
	assert.False(t, l.Retain(id))
	assert.Equal(t, 1, obj.n)
}

func TestLockerGet_WrongType(t *testing.T) {
	l := NewLocker()
	id := l.Add("text")
	_, ok := LockerGet[*Pixmap](l, id)
	assert.False(t, ok)
	_, ok = LockerGet[*Pixmap](l, uuid.New())
	assert.False(t, ok)
}

func TestLocker_Concurrent(t *testing.T) {
	l := NewLocker()
	id := l.Add(&releaseCounter{})
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Retain(id)
			_, _ = l.Get(id)
			l.Release(id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, l.Refs(id))
}

func TestMaskedSurface_DrawRestoresPixels(t *testing.T) {
	src := NewPixmap(16, 16)
	src.Clear(Red)
	r := image.Rect(4, 4, 10, 8)
	ms := NewMaskedSurface(src, NewRegion(r))
	assert.Equal(t, r.Min, ms.Origin)
	assert.Equal(t, 6, ms.Surface.Width())

	src.Clear(Blue)
	ms.Draw(src)
	assert.Equal(t, Red.Premul(), src.PixelAt(5, 5))
	assert.Equal(t, Blue.Premul(), src.PixelAt(0, 0))

	ms.Release()
	assert.Nil(t, ms.Surface)
	ms.Draw(src) // no-op once released
}

func TestBitmapPatch_FromPayload(t *testing.T) {
	ws := newTestWorkspace(t, 32, 32)
	surface := activeSurface(t, ws)
	original := surface.Clone()
	r := image.Rect(8, 8, 16, 16)

	l := ws.Locker()
	id := l.Add(NewMaskedSurface(surface, NewRegion(r)))
	surface.FillRect(r, Green)
	edited := surface.Clone()

	p := NewBitmapPatchFromPayload("Lift", "", 0, l, id)
	assert.Equal(t, r, p.Region().Bounds())
	require.NoError(t, ws.History().PushNewMemento(p))

	require.NoError(t, ws.History().StepBackward())
	assert.True(t, surface.Equal(original))
	assert.Equal(t, 0, l.Len(), "the consumed patch gave its reference back")

	require.NoError(t, ws.History().StepForward())
	assert.True(t, surface.Equal(edited))
}

func TestBitmapPatch_EvictedPayloadBecomesNull(t *testing.T) {
	ws := newTestWorkspace(t, 16, 16)
	surface := activeSurface(t, ws)
	before := surface.Clone()

	l := ws.Locker()
	id := l.Add(NewMaskedSurface(surface, NewRegion(image.Rect(0, 0, 4, 4))))
	p := NewBitmapPatchFromPayload("Lift", "", 0, l, id)
	l.Release(id)

	inv, err := p.PerformUndo(ws)
	require.NoError(t, err)
	assert.Equal(t, KindNull, inv.Kind())
	assert.Equal(t, p.Info().ID, inv.Info().ID)
	assert.True(t, surface.Equal(before))
	p.Release()
}

func TestBitmapPatch_EvictionUsesWorkspaceLogger(t *testing.T) {
	var buf bytes.Buffer
	doc, err := NewDocument(8, 8)
	require.NoError(t, err)
	doc.AddLayer("Background")
	ws := NewWorkspace(doc, WithLocker(NewLocker()), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	t.Cleanup(ws.Close)

	l := ws.Locker()
	id := l.Add(NewMaskedSurface(activeSurface(t, ws), NewRegion(image.Rect(0, 0, 2, 2))))
	p := NewBitmapPatchFromPayload("Lift", "", 0, l, id)
	l.Release(id)

	_, err = p.PerformUndo(ws)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "payload evicted")
	p.Release()
}

func TestHistory_ClearAllReleasesPayloads(t *testing.T) {
	ws := newTestWorkspace(t, 16, 16)
	surface := activeSurface(t, ws)
	l := ws.Locker()
	h := ws.History()

	for _, r := range []image.Rectangle{image.Rect(0, 0, 4, 4), image.Rect(8, 8, 12, 12)} {
		id := l.Add(NewMaskedSurface(surface, NewRegion(r)))
		ctx := NewToolContext()
		ctx.Payload = id
		m := NewCompound("Lift", "",
			NewToolContextMemento("Lift", "", "Stub", 0, ctx, l),
			NewBitmapPatchFromPayload("Lift", "", 0, l, id),
		)
		require.NoError(t, h.PushNewMemento(m))
	}
	assert.Equal(t, 2, l.Len())

	h.ClearAll()
	assert.Equal(t, 0, l.Len(), "no payload outlives the history that cites it")
}
