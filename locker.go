package ggdoc

import (
	"image"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Releaser is implemented by payloads that hold memory worth freeing as soon
// as the last reference goes away.
type Releaser interface {
	Release()
}

type lockerEntry struct {
	obj  any
	refs int
}

// Locker is a registry of large payloads keyed by uuid. Mementos store only
// the key, so cloning a snapshot that cites a payload costs nothing.
//
// An entry lives exactly as long as its reference count is positive: every
// memento or live tool state that cites a key holds one reference and gives
// it back with Release. Lookups of a released key report absence.
//
// Locker is safe for concurrent use.
type Locker struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*lockerEntry
}

// DefaultLocker is the process-wide locker used by workspaces that are not
// given one with WithLocker.
var DefaultLocker = NewLocker()

// NewLocker returns an empty locker.
func NewLocker() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*lockerEntry)}
}

// Add registers obj and returns its key. The caller owns one reference.
func (l *Locker) Add(obj any) uuid.UUID {
	id := uuid.New()
	l.mu.Lock()
	l.entries[id] = &lockerEntry{obj: obj, refs: 1}
	l.mu.Unlock()
	Logger().Debug("locker: add", "id", id)
	return id
}

// Retain adds a reference to id. It reports false when id is not present.
func (l *Locker) Retain(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[id]
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Release drops one reference to id. The entry is removed, and its payload
// released, when the count reaches zero. Unknown keys are ignored.
func (l *Locker) Release(id uuid.UUID) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		l.mu.Unlock()
		return
	}
	delete(l.entries, id)
	l.mu.Unlock()

	Logger().Debug("locker: evict", "id", id)
	if r, ok := e.obj.(Releaser); ok {
		r.Release()
	}
}

// Get returns the payload for id.
func (l *Locker) Get(id uuid.UUID) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[id]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

// Refs returns the reference count of id, 0 when absent.
func (l *Locker) Refs(id uuid.UUID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if e, ok := l.entries[id]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live entries.
func (l *Locker) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// LockerGet returns the payload for id if present and of type T.
func LockerGet[T any](l *Locker, id uuid.UUID) (T, bool) {
	obj, ok := l.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := obj.(T)
	return v, ok
}

// MaskedSurface is a block of pixels lifted out of a layer: a pixmap covering
// the bounds of Region, positioned at Origin in document space.
type MaskedSurface struct {
	Surface *Pixmap
	Origin  image.Point
	Region  Region
}

// NewMaskedSurface copies the pixels of rgn out of src.
func NewMaskedSurface(src *Pixmap, rgn Region) *MaskedSurface {
	rgn = rgn.Intersect(src.Rect())
	b := rgn.Bounds()
	m := &MaskedSurface{Surface: NewPixmap(b.Dx(), b.Dy()), Origin: b.Min, Region: rgn}
	dst := m.Surface.RGBAImage()
	for _, r := range rgn.rects {
		draw.Draw(dst, r.Sub(b.Min), src.RGBAImage(), r.Min, draw.Src)
	}
	return m
}

// Draw writes the lifted pixels back into dst at their original position.
func (m *MaskedSurface) Draw(dst *Pixmap) {
	if m.Surface == nil {
		return
	}
	img := dst.RGBAImage()
	for _, r := range m.Region.rects {
		r = r.Intersect(dst.Rect())
		draw.Draw(img, r, m.Surface.RGBAImage(), r.Min.Sub(m.Origin), draw.Src)
	}
}

// Release drops the pixel buffer.
func (m *MaskedSurface) Release() {
	m.Surface = nil
}
