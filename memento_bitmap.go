package ggdoc

import (
	"github.com/google/uuid"
)

// BitmapPatch restores the pixels of a region on one layer.
//
// The saved pixels are either owned, one packed slab per rectangle of the
// region, or cited by key from a Locker as a *MaskedSurface. A cited payload
// that has been evicted turns the step into a no-op.
type BitmapPatch struct {
	base
	layer  int
	region Region
	slabs  [][]uint8

	locker  *Locker
	payload uuid.UUID
}

// newBitmapPatch copies region out of src. Every rectangle of region must
// lie inside src.
func newBitmapPatch(name, icon string, layer int, region Region, src *Pixmap) *BitmapPatch {
	p := &BitmapPatch{base: base{newInfo(name, icon)}, layer: layer, region: region}
	p.slabs = readSlabs(src, region)
	return p
}

// NewBitmapPatchFromPayload cites a *MaskedSurface already registered in l.
// The patch takes over one reference to id from the caller.
func NewBitmapPatchFromPayload(name, icon string, layer int, l *Locker, id uuid.UUID) *BitmapPatch {
	p := &BitmapPatch{base: base{newInfo(name, icon)}, layer: layer, locker: l, payload: id}
	if ms, ok := LockerGet[*MaskedSurface](l, id); ok {
		p.region = ms.Region.Clone()
	}
	return p
}

func (*BitmapPatch) Kind() Kind { return KindBitmap }

// Layer returns the index of the layer the patch applies to.
func (p *BitmapPatch) Layer() int { return p.layer }

// Region returns the area the patch restores.
func (p *BitmapPatch) Region() Region { return p.region.Clone() }

// Bytes returns the size of the owned pixel data.
func (p *BitmapPatch) Bytes() int {
	n := 0
	for _, s := range p.slabs {
		n += len(s)
	}
	return n
}

func (p *BitmapPatch) PerformUndo(ws *Workspace) (Memento, error) {
	doc := ws.Document()
	l, ok := doc.Layer(p.layer)
	if !ok {
		return nil, staleLayer("undo "+p.info.Name, p.layer, doc.LayerCount())
	}

	inv := &BitmapPatch{base: base{p.info}, layer: p.layer, region: p.region}
	if p.payload != uuid.Nil {
		ms, ok := LockerGet[*MaskedSurface](p.locker, p.payload)
		if !ok || ms.Surface == nil {
			ws.logger().Warn("bitmap patch: payload evicted, skipping step",
				"name", p.info.Name, "payload", p.payload)
			return &Null{base{p.info}}, nil
		}
		inv.slabs = readSlabs(l.Surface, p.region)
		ms.Draw(l.Surface)
	} else {
		inv.slabs = readSlabs(l.Surface, p.region)
		for i, r := range p.region.rects {
			l.Surface.WriteRect(r, p.slabs[i])
		}
		p.slabs = nil
	}

	doc.SetDirty()
	ws.Invalidate(p.layer, p.region)
	return inv, nil
}

func (p *BitmapPatch) Release() {
	p.slabs = nil
	if p.payload != uuid.Nil {
		p.locker.Release(p.payload)
		p.payload = uuid.Nil
	}
}

// readSlabs reads every rectangle before anything is written, so
// overlapping rectangles see the same source pixels.
func readSlabs(src *Pixmap, region Region) [][]uint8 {
	slabs := make([][]uint8, len(region.rects))
	for i, r := range region.rects {
		slabs[i] = src.ReadRect(r)
	}
	return slabs
}
