package ggdoc

import (
	"image"
	"slices"
)

// Region is an ordered set of integer rectangles. Rectangles may overlap;
// Simplify produces a compact, merged form. The zero Region is empty.
type Region struct {
	rects []image.Rectangle
}

// NewRegion returns a region made of the non-empty rectangles given.
func NewRegion(rects ...image.Rectangle) Region {
	var rgn Region
	for _, r := range rects {
		rgn.Add(r)
	}
	return rgn
}

// Add appends r to the region. Empty rectangles are ignored.
func (rgn *Region) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	rgn.rects = append(rgn.rects, r.Canon())
}

// Union returns a region covering both rgn and o.
func (rgn Region) Union(o Region) Region {
	out := Region{rects: make([]image.Rectangle, 0, len(rgn.rects)+len(o.rects))}
	out.rects = append(out.rects, rgn.rects...)
	out.rects = append(out.rects, o.rects...)
	return out
}

// Intersect clips every rectangle to r.
func (rgn Region) Intersect(r image.Rectangle) Region {
	var out Region
	for _, x := range rgn.rects {
		out.Add(x.Intersect(r))
	}
	return out
}

// Translate offsets every rectangle.
func (rgn Region) Translate(dx, dy int) Region {
	out := Region{rects: make([]image.Rectangle, len(rgn.rects))}
	for i, r := range rgn.rects {
		out.rects[i] = r.Add(image.Pt(dx, dy))
	}
	return out
}

// Bounds returns the smallest rectangle containing the region.
func (rgn Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, r := range rgn.rects {
		b = b.Union(r)
	}
	return b
}

// IsEmpty reports whether the region covers no pixel.
func (rgn Region) IsEmpty() bool {
	return len(rgn.rects) == 0
}

// Contains reports whether pixel (x, y) is inside the region.
func (rgn Region) Contains(x, y int) bool {
	p := image.Pt(x, y)
	for _, r := range rgn.rects {
		if p.In(r) {
			return true
		}
	}
	return false
}

// Rects returns a copy of the rectangles.
func (rgn Region) Rects() []image.Rectangle {
	return slices.Clone(rgn.rects)
}

// Len returns the number of rectangles.
func (rgn Region) Len() int {
	return len(rgn.rects)
}

// Clone returns an independent copy.
func (rgn Region) Clone() Region {
	return Region{rects: slices.Clone(rgn.rects)}
}

// Area returns the summed area of the rectangles; overlaps count twice.
func (rgn Region) Area() int {
	n := 0
	for _, r := range rgn.rects {
		n += r.Dx() * r.Dy()
	}
	return n
}

// Simplify merges overlapping or edge-adjacent rectangles, then, while more
// than maxRects remain, merges the pair whose bounding box wastes the least
// area. Finally every rectangle is inflated by margin, clipped to clip, and
// touching rectangles are merged once more so the result never overlaps.
//
// The result always covers rgn ∩ clip.
func (rgn Region) Simplify(margin, maxRects int, clip image.Rectangle) Region {
	rects := rgn.Intersect(clip).Rects()
	if len(rects) == 0 {
		return Region{}
	}
	if maxRects < 1 {
		maxRects = 1
	}

	rects = mergeTouching(rects)
	for len(rects) > maxRects {
		i, j := cheapestPair(rects)
		rects[i] = rects[i].Union(rects[j])
		rects = slices.Delete(rects, j, j+1)
		rects = mergeTouching(rects)
	}

	for i, r := range rects {
		rects[i] = r.Inset(-margin).Intersect(clip)
	}
	return Region{rects: mergeTouching(rects)}
}

// touches reports whether a and b overlap or share an edge.
func touches(a, b image.Rectangle) bool {
	xOverlap := a.Min.X < b.Max.X && b.Min.X < a.Max.X
	yOverlap := a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
	xTouch := a.Min.X <= b.Max.X && b.Min.X <= a.Max.X
	yTouch := a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
	return (xOverlap && yTouch) || (yOverlap && xTouch)
}

// mergeTouching repeatedly replaces touching pairs by their bounding box
// until no pair touches.
func mergeTouching(rects []image.Rectangle) []image.Rectangle {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				if touches(rects[i], rects[j]) {
					rects[i] = rects[i].Union(rects[j])
					rects = slices.Delete(rects, j, j+1)
					merged = true
					j = i
				}
			}
		}
	}
	return rects
}

// cheapestPair returns the pair whose union adds the least uncovered area.
func cheapestPair(rects []image.Rectangle) (int, int) {
	bi, bj, best := 0, 1, -1
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			u := rects[i].Union(rects[j])
			waste := u.Dx()*u.Dy() - rects[i].Dx()*rects[i].Dy() - rects[j].Dx()*rects[j].Dy()
			if best < 0 || waste < best {
				bi, bj, best = i, j, waste
			}
		}
	}
	return bi, bj
}
