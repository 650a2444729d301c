package ggdoc

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func selectRect(s *Selection, r Rect, mode CombineMode) {
	s.SetContinuation([]Polygon{RectPolygon(r)}, mode)
	s.CommitContinuation()
}

func TestSelection_EmptySelectsEverything(t *testing.T) {
	s := NewSelection()
	doc := image.Rect(0, 0, 40, 30)
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Contains(0, 0))
	assert.True(t, s.Contains(39, 29))
	assert.Equal(t, doc, s.ClipRect(doc))
}

func TestSelection_CombineModes(t *testing.T) {
	base := Rect{X: 2, Y: 2, W: 10, H: 10}

	tests := []struct {
		name    string
		second  Rect
		mode    CombineMode
		inside  []image.Point
		outside []image.Point
		empty   bool
	}{
		{
			name:    "replace",
			second:  Rect{X: 20, Y: 20, W: 5, H: 5},
			mode:    CombineReplace,
			inside:  []image.Point{{21, 21}},
			outside: []image.Point{{5, 5}},
		},
		{
			name:    "union",
			second:  Rect{X: 20, Y: 20, W: 5, H: 5},
			mode:    CombineUnion,
			inside:  []image.Point{{5, 5}, {21, 21}},
			outside: []image.Point{{15, 15}},
		},
		{
			name:    "intersect",
			second:  Rect{X: 5, Y: 5, W: 20, H: 20},
			mode:    CombineIntersect,
			inside:  []image.Point{{6, 6}, {11, 11}},
			outside: []image.Point{{3, 3}, {13, 13}},
		},
		{
			name:   "intersect disjoint",
			second: Rect{X: 30, Y: 30, W: 2, H: 2},
			mode:   CombineIntersect,
			empty:  true,
		},
		{
			name:   "exclude covering",
			second: Rect{X: 0, Y: 0, W: 50, H: 50},
			mode:   CombineExclude,
			empty:  true,
		},
		{
			name:    "exclude partial keeps outline",
			second:  Rect{X: 0, Y: 0, W: 4, H: 4},
			mode:    CombineExclude,
			inside:  []image.Point{{8, 8}},
			outside: []image.Point{{1, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection()
			selectRect(s, base, CombineReplace)
			selectRect(s, tt.second, tt.mode)

			assert.Equal(t, tt.empty, s.IsEmpty())
			for _, p := range tt.inside {
				assert.True(t, s.Contains(p.X, p.Y), "%v should be selected", p)
			}
			for _, p := range tt.outside {
				assert.False(t, s.Contains(p.X, p.Y), "%v should not be selected", p)
			}
		})
	}
}

func TestSelection_PixelCenters(t *testing.T) {
	s := NewSelection()
	selectRect(s, Rect{X: 2, Y: 2, W: 10, H: 10}, CombineReplace)
	assert.True(t, s.Contains(2, 2))
	assert.True(t, s.Contains(11, 11))
	assert.False(t, s.Contains(12, 5))
	assert.False(t, s.Contains(1, 5))
}

func TestSelection_InterimTransform(t *testing.T) {
	s := NewSelection()
	selectRect(s, Rect{X: 0, Y: 0, W: 10, H: 10}, CombineReplace)

	s.SetInterimTransform(Translate(20, 0))
	assert.True(t, s.Contains(25, 5))
	assert.False(t, s.Contains(5, 5))
	assert.Equal(t, 20.0, s.Bounds().X)
	assert.Equal(t, image.Rect(20, 0, 30, 10), s.ClipRect(image.Rect(0, 0, 100, 100)))

	s.CommitInterimTransform()
	assert.True(t, s.InterimTransform().IsIdentity())
	assert.True(t, s.Contains(25, 5))
	assert.Equal(t, 20.0, s.Snapshot().Polygons[0][0].X)
}

func TestSelection_ContinuationIsStaged(t *testing.T) {
	s := NewSelection()
	s.SetContinuation([]Polygon{RectPolygon(Rect{X: 4, Y: 4, W: 2, H: 2})}, CombineUnion)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, Rect{X: 4, Y: 4, W: 2, H: 2}, s.Bounds())
	// Hit testing sees the committed outline only.
	assert.True(t, s.Contains(0, 0))
}

func TestSelection_SnapshotRestore(t *testing.T) {
	s := NewSelection()
	selectRect(s, Rect{X: 1, Y: 1, W: 3, H: 3}, CombineReplace)
	snap := s.Snapshot()

	s.Reset()
	assert.True(t, s.IsEmpty())

	s.Restore(snap)
	assert.True(t, s.Contains(2, 2))

	// The snapshot is not aliased by the live selection.
	snap.Polygons[0][0] = Pt(-100, -100)
	assert.Equal(t, 1.0, s.Snapshot().Polygons[0][0].X)
}

func TestSelection_ClipRectClipsToDocument(t *testing.T) {
	s := NewSelection()
	selectRect(s, Rect{X: -5, Y: 10, W: 20, H: 50}, CombineReplace)
	assert.Equal(t, image.Rect(0, 10, 15, 30), s.ClipRect(image.Rect(0, 0, 30, 30)))

	selectRect(s, Rect{X: 40, Y: 40, W: 5, H: 5}, CombineReplace)
	assert.True(t, s.ClipRect(image.Rect(0, 0, 30, 30)).Empty())
}

func TestCombineMode_String(t *testing.T) {
	assert.Equal(t, "Xor", CombineXor.String())
	assert.Equal(t, "Unknown", CombineMode(42).String())
}
