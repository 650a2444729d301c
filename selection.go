package ggdoc

import (
	"image"
	"math"
)

// CombineMode says how a continuation merges into the committed selection.
type CombineMode uint8

const (
	CombineReplace CombineMode = iota
	CombineUnion
	CombineExclude
	CombineIntersect
	CombineXor
)

// String returns the mode name.
func (m CombineMode) String() string {
	switch m {
	case CombineReplace:
		return "Replace"
	case CombineUnion:
		return "Union"
	case CombineExclude:
		return "Exclude"
	case CombineIntersect:
		return "Intersect"
	case CombineXor:
		return "Xor"
	default:
		return "Unknown"
	}
}

// SelectionData is a value snapshot of a Selection. Clone it before sharing;
// the polygon slices are otherwise aliased.
type SelectionData struct {
	Polygons     []Polygon
	Interim      Matrix
	Continuation []Polygon
	Mode         CombineMode
}

// Clone returns a deep copy.
func (d SelectionData) Clone() SelectionData {
	return SelectionData{
		Polygons:     clonePolygons(d.Polygons),
		Interim:      d.Interim,
		Continuation: clonePolygons(d.Continuation),
		Mode:         d.Mode,
	}
}

// Selection is the committed selection outline plus the interim transform
// and continuation used by in-progress edits.
type Selection struct {
	data SelectionData
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{data: SelectionData{Interim: Identity()}}
}

// Reset clears everything, leaving a "select all" (empty) selection.
func (s *Selection) Reset() {
	s.data = SelectionData{Interim: Identity()}
}

// IsEmpty reports whether nothing is selected, neither committed nor staged.
func (s *Selection) IsEmpty() bool {
	return len(s.data.Polygons) == 0 && len(s.data.Continuation) == 0
}

// Polygons returns the committed outline with the interim transform applied.
func (s *Selection) Polygons() []Polygon {
	out := make([]Polygon, 0, len(s.data.Polygons))
	for _, p := range s.data.Polygons {
		out = append(out, p.Transform(s.data.Interim))
	}
	return out
}

// SetContinuation stages polys to be combined with mode on the next commit.
func (s *Selection) SetContinuation(polys []Polygon, mode CombineMode) {
	s.data.Continuation = clonePolygons(polys)
	s.data.Mode = mode
}

// CommitContinuation folds the staged continuation into the committed
// outline. Intersect and Exclude work on bounding boxes; polygon clipping
// belongs to the rasterizer.
func (s *Selection) CommitContinuation() {
	s.CommitInterimTransform()
	cont := s.data.Continuation
	s.data.Continuation = nil
	switch s.data.Mode {
	case CombineReplace:
		s.data.Polygons = cont
	case CombineUnion, CombineXor:
		s.data.Polygons = append(s.data.Polygons, cont...)
	case CombineIntersect:
		r := intersectRect(polygonsBounds(s.data.Polygons), polygonsBounds(cont))
		if r.Empty() {
			s.data.Polygons = nil
			break
		}
		s.data.Polygons = []Polygon{RectPolygon(r)}
	case CombineExclude:
		if covers(polygonsBounds(cont), polygonsBounds(s.data.Polygons)) {
			s.data.Polygons = nil
		}
	}
	s.data.Mode = CombineReplace
}

// SetInterimTransform sets the transform applied on top of the committed
// outline, as during a drag.
func (s *Selection) SetInterimTransform(m Matrix) {
	s.data.Interim = m
}

// InterimTransform returns the current interim transform.
func (s *Selection) InterimTransform() Matrix {
	return s.data.Interim
}

// CommitInterimTransform bakes the interim transform into the outline.
func (s *Selection) CommitInterimTransform() {
	if s.data.Interim.IsIdentity() {
		return
	}
	s.data.Polygons = s.Polygons()
	s.data.Interim = Identity()
}

// Bounds returns the bounding box of the transformed outline and the
// continuation.
func (s *Selection) Bounds() Rect {
	return polygonsBounds(s.Polygons()).Union(polygonsBounds(s.data.Continuation))
}

// ClipRect returns the rectangle pixel mutations are confined to: the
// selection bounds clipped to doc, or doc itself when nothing is selected.
func (s *Selection) ClipRect(doc image.Rectangle) image.Rectangle {
	if s.IsEmpty() {
		return doc
	}
	return s.Bounds().Int().Intersect(doc)
}

// Contains reports whether the pixel center of (x, y) lies inside the
// committed outline, using the nonzero winding rule. An empty selection
// contains every pixel.
func (s *Selection) Contains(x, y int) bool {
	return s.HitTester()(x, y)
}

// HitTester returns Contains bound to the current outline, transformed
// once. The returned func is safe to call from several goroutines as long
// as the selection is not modified.
func (s *Selection) HitTester() func(x, y int) bool {
	if len(s.data.Polygons) == 0 {
		return func(int, int) bool { return true }
	}
	polys := s.Polygons()
	return func(x, y int) bool {
		pt := Pt(float64(x)+0.5, float64(y)+0.5)
		winding := 0
		for _, p := range polys {
			winding += windingNumber(p, pt)
		}
		return winding != 0
	}
}

// Snapshot returns an independent copy of the selection state.
func (s *Selection) Snapshot() SelectionData {
	return s.data.Clone()
}

// Restore replaces the selection state with a copy of d.
func (s *Selection) Restore(d SelectionData) {
	s.data = d.Clone()
}

func windingNumber(p Polygon, pt Point) int {
	wn := 0
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		cross := (b.X-a.X)*(pt.Y-a.Y) - (pt.X-a.X)*(b.Y-a.Y)
		if a.Y <= pt.Y {
			if b.Y > pt.Y && cross > 0 {
				wn++
			}
		} else if b.Y <= pt.Y && cross < 0 {
			wn--
		}
	}
	return wn
}

func polygonsBounds(ps []Polygon) Rect {
	var r Rect
	for _, p := range ps {
		r = r.Union(p.Bounds())
	}
	return r
}

func intersectRect(a, b Rect) Rect {
	x0, y0 := math.Max(a.X, b.X), math.Max(a.Y, b.Y)
	x1, y1 := math.Min(a.X+a.W, b.X+b.W), math.Min(a.Y+a.H, b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func covers(outer, inner Rect) bool {
	if inner.Empty() {
		return true
	}
	return outer.X <= inner.X && outer.Y <= inner.Y &&
		outer.X+outer.W >= inner.X+inner.W && outer.Y+outer.H >= inner.Y+inner.H
}
