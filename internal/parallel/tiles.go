package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// TileSet records which fixed-size tiles of a surface have been saved.
//
// One bit per tile, packed into uint64 words. Claim is an atomic
// test-and-set, so bands running on different workers can share a set.
type TileSet struct {
	words    []atomic.Uint64
	tileSize int
	tilesX   int
	tilesY   int
	bounds   image.Rectangle
}

// NewTileSet covers a width×height surface with square tiles of tileSize
// pixels. Returns nil for non-positive arguments.
func NewTileSet(width, height, tileSize int) *TileSet {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil
	}
	tx := (width + tileSize - 1) / tileSize
	ty := (height + tileSize - 1) / tileSize
	return &TileSet{
		words:    make([]atomic.Uint64, (tx*ty+63)/64),
		tileSize: tileSize,
		tilesX:   tx,
		tilesY:   ty,
		bounds:   image.Rect(0, 0, width, height),
	}
}

// TileSize returns the tile edge length in pixels.
func (s *TileSet) TileSize() int { return s.tileSize }

// TilesX returns the number of tile columns.
func (s *TileSet) TilesX() int { return s.tilesX }

// TilesY returns the number of tile rows.
func (s *TileSet) TilesY() int { return s.tilesY }

func (s *TileSet) index(tx, ty int) (word int, bit uint64, ok bool) {
	if tx < 0 || tx >= s.tilesX || ty < 0 || ty >= s.tilesY {
		return 0, 0, false
	}
	idx := ty*s.tilesX + tx
	return idx / 64, 1 << (idx & 63), true
}

// Claim marks tile (tx, ty) and reports whether this call was the one that
// set it. Out-of-range tiles are never claimed.
func (s *TileSet) Claim(tx, ty int) bool {
	w, bit, ok := s.index(tx, ty)
	if !ok {
		return false
	}
	return s.words[w].Or(bit)&bit == 0
}

// IsSet reports whether tile (tx, ty) has been claimed.
func (s *TileSet) IsSet(tx, ty int) bool {
	w, bit, ok := s.index(tx, ty)
	if !ok {
		return false
	}
	return s.words[w].Load()&bit != 0
}

// TileRect returns the pixel rectangle of tile (tx, ty), clipped to the
// surface.
func (s *TileSet) TileRect(tx, ty int) image.Rectangle {
	r := image.Rect(tx*s.tileSize, ty*s.tileSize, (tx+1)*s.tileSize, (ty+1)*s.tileSize)
	return r.Intersect(s.bounds)
}

// Span returns the inclusive tile range touched by the pixel rectangle r.
// ok is false when r does not overlap the surface.
func (s *TileSet) Span(r image.Rectangle) (tx0, ty0, tx1, ty1 int, ok bool) {
	r = r.Intersect(s.bounds)
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	return r.Min.X / s.tileSize, r.Min.Y / s.tileSize,
		(r.Max.X - 1) / s.tileSize, (r.Max.Y - 1) / s.tileSize, true
}

// ClaimRect claims every unclaimed tile under r and returns, per tile row,
// the runs of newly claimed tiles merged into single rectangles. Those are
// exactly the areas the caller still has to copy.
func (s *TileSet) ClaimRect(r image.Rectangle) []image.Rectangle {
	tx0, ty0, tx1, ty1, ok := s.Span(r)
	if !ok {
		return nil
	}
	var runs []image.Rectangle
	for ty := ty0; ty <= ty1; ty++ {
		var acc image.Rectangle
		for tx := tx0; tx <= tx1; tx++ {
			if s.Claim(tx, ty) {
				acc = acc.Union(s.TileRect(tx, ty))
				continue
			}
			if !acc.Empty() {
				runs = append(runs, acc)
				acc = image.Rectangle{}
			}
		}
		if !acc.Empty() {
			runs = append(runs, acc)
		}
	}
	return runs
}

// Clear releases every tile.
func (s *TileSet) Clear() {
	for i := range s.words {
		s.words[i].Store(0)
	}
}

// IsEmpty reports whether no tile is claimed.
func (s *TileSet) IsEmpty() bool {
	for i := range s.words {
		if s.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of claimed tiles.
func (s *TileSet) Count() int {
	n := 0
	for i := range s.words {
		n += bits.OnesCount64(s.words[i].Load())
	}
	return n
}
