package ggdoc

import (
	"image"

	"github.com/gogpu/ggdoc/internal/parallel"
)

// Capture snapshots pre-mutation pixels of the active layer into the
// workspace scratch surface, so an edit can later be committed as a
// BitmapPatch or rolled back between preview frames.
//
// The typical flow for an edit is:
//
//	c, err := ws.BeginCapture("fill")
//	defer c.Close()
//	c.SaveRegion(ggdoc.Region{}, r) // before touching r
//	surface.FillRect(r, color)
//	if patch := c.Commit("Fill", ""); patch != nil {
//		ws.History().PushNewMemento(patch)
//	}
//
// A Capture holds the scratch surface until Close.
type Capture struct {
	ws      *Workspace
	tag     string
	layer   int
	surface *Pixmap
	scratch *Pixmap
	tiles   *parallel.TileSet

	saved   Region
	touched Region
	closed  bool
}

// BeginCapture borrows the scratch surface under tag and starts capturing
// the active layer.
func (ws *Workspace) BeginCapture(tag string) (*Capture, error) {
	surface, err := ws.ActiveLayerSurface()
	if err != nil {
		return nil, err
	}
	scratch, err := ws.BorrowScratchSurface(tag)
	if err != nil {
		return nil, err
	}
	return &Capture{
		ws:      ws,
		tag:     tag,
		layer:   ws.activeLayer,
		surface: surface,
		scratch: scratch,
		tiles:   parallel.NewTileSet(surface.Width(), surface.Height(), ws.cfg.TileSize),
	}, nil
}

// Layer returns the index of the captured layer.
func (c *Capture) Layer() int { return c.layer }

// Surface returns the live pixels of the captured layer, the surface to draw
// on after SaveRegion.
func (c *Capture) Surface() *Pixmap { return c.surface }

// SaveRegion records the pixels about to be mutated: region clipped to
// bounds, or all of bounds when region is empty. Tiles already saved since
// the last ClearSavedMemory are not copied again, so the scratch surface
// always holds the pixels as they were before the first mutation.
func (c *Capture) SaveRegion(region Region, bounds image.Rectangle) {
	var rgn Region
	if region.IsEmpty() {
		rgn = NewRegion(bounds)
	} else {
		rgn = region.Intersect(bounds)
	}
	rgn = rgn.Intersect(c.surface.Rect())

	c.saveTiles(rgn)
	c.saved = rgn
	c.touched = c.touched.Union(rgn)
}

// saveTiles copies every not-yet-saved tile under rgn into scratch on the
// worker pool and waits for the copies.
func (c *Capture) saveTiles(rgn Region) {
	var work []func()
	for _, r := range rgn.rects {
		for _, run := range c.tiles.ClaimRect(r) {
			work = append(work, func() { c.scratch.CopyRect(c.surface, run) })
		}
	}
	if len(work) == 0 {
		return
	}
	c.ws.pool.ExecuteAll(work)
	c.ws.logger().Debug("capture: saved tiles",
		"tag", c.tag, "runs", len(work), "tiles", c.tiles.Count())
}

// RestoreSavedRegion copies the saved pixels back over the region given to
// the last SaveRegion. Interactive tools call it to erase the previous
// preview frame.
func (c *Capture) RestoreSavedRegion() {
	if c.saved.IsEmpty() {
		return
	}
	c.surface.CopyRegion(c.scratch, c.saved)
	c.ws.Invalidate(c.layer, c.saved)
}

// Touched returns every area saved since the last ClearSavedMemory.
func (c *Capture) Touched() Region { return c.touched.Clone() }

// ClearSavedMemory forgets the saved pixels.
func (c *Capture) ClearSavedMemory() {
	c.tiles.Clear()
	c.saved = Region{}
	c.touched = Region{}
}

// Commit builds a BitmapPatch restoring everything touched since the last
// ClearSavedMemory, then clears the saved memory. It returns nil when
// nothing was touched.
func (c *Capture) Commit(name, icon string) *BitmapPatch {
	return c.CommitRegion(name, icon, c.touched)
}

// CommitRegion is Commit for an explicit region. The region is simplified
// (merged and inflated by the configured margin) before the pixels are
// copied out; pixels in the inflated margin were never mutated, so their
// live values are saved as-is.
func (c *Capture) CommitRegion(name, icon string, rgn Region) *BitmapPatch {
	simple := rgn.Simplify(c.ws.cfg.InflateMargin, c.ws.cfg.MaxRects, c.surface.Rect())
	if simple.IsEmpty() {
		c.ClearSavedMemory()
		return nil
	}
	c.saveTiles(simple)
	p := newBitmapPatch(name, icon, c.layer, simple, c.scratch)
	c.ws.logger().Debug("capture: commit",
		"tag", c.tag, "name", name, "rects", simple.Len(), "bytes", p.Bytes())
	c.ClearSavedMemory()
	return p
}

// Close returns the scratch surface. It is safe to call more than once.
func (c *Capture) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.ReturnScratchSurface(c.scratch)
}
