package ggdoc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap is a rectangular RGBA8 pixel surface with premultiplied alpha.
// Layer surfaces, the scratch surface and lifted pixels are all Pixmaps.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // 4 bytes per pixel, row-major
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// newPixmapFrom wraps an existing slab; len(data) must be width*height*4.
func newPixmapFrom(width, height int, data []uint8) *Pixmap {
	return &Pixmap{width: width, height: height, data: data}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw premultiplied RGBA bytes.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Rect returns the pixmap bounds as an image.Rectangle at the origin.
func (p *Pixmap) Rect() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// SetPixel sets one pixel; out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	px := c.Premul()
	copy(p.data[(y*p.width+x)*4:], px[:])
}

// PixelAt returns the premultiplied bytes of one pixel, zero when out of
// bounds.
func (p *Pixmap) PixelAt(x, y int) [4]uint8 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return [4]uint8{}
	}
	i := (y*p.width + x) * 4
	return [4]uint8{p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	p.FillRect(p.Rect(), c)
}

// FillRect fills r (clipped to the pixmap) with c, replacing what is there.
func (p *Pixmap) FillRect(r image.Rectangle, c RGBA) {
	r = r.Intersect(p.Rect())
	if r.Empty() {
		return
	}
	px := c.Premul()
	row := make([]uint8, r.Dx()*4)
	for i := 0; i < len(row); i += 4 {
		copy(row[i:i+4], px[:])
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := (y*p.width + r.Min.X) * 4
		copy(p.data[off:off+len(row)], row)
	}
}

// RGBAImage returns an *image.RGBA sharing this pixmap's memory.
func (p *Pixmap) RGBAImage() *image.RGBA {
	return &image.RGBA{Pix: p.data, Stride: p.width * 4, Rect: p.Rect()}
}

// CopyRect copies the pixels of r from src into p at the same coordinates.
// Both surfaces are addressed in document space; r is clipped to both.
func (p *Pixmap) CopyRect(src *Pixmap, r image.Rectangle) {
	r = r.Intersect(p.Rect()).Intersect(src.Rect())
	if r.Empty() {
		return
	}
	draw.Draw(p.RGBAImage(), r, src.RGBAImage(), r.Min, draw.Src)
}

// CopyRegion copies every rectangle of rgn from src into p.
func (p *Pixmap) CopyRegion(src *Pixmap, rgn Region) {
	for _, r := range rgn.rects {
		p.CopyRect(src, r)
	}
}

// ReadRect returns a packed copy of the pixels in r, which must lie inside
// the pixmap.
func (p *Pixmap) ReadRect(r image.Rectangle) []uint8 {
	out := make([]uint8, r.Dx()*r.Dy()*4)
	rowLen := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := (y*p.width + r.Min.X) * 4
		copy(out[(y-r.Min.Y)*rowLen:], p.data[off:off+rowLen])
	}
	return out
}

// WriteRect stores packed pixels previously produced by ReadRect for r.
func (p *Pixmap) WriteRect(r image.Rectangle, pix []uint8) {
	rowLen := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := (y*p.width + r.Min.X) * 4
		copy(p.data[off:off+rowLen], pix[(y-r.Min.Y)*rowLen:])
	}
}

// Clone returns an independent copy of p.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.width, p.height)
	copy(c.data, p.data)
	return c
}

// Equal reports whether p and o have the same size and bytes.
func (p *Pixmap) Equal(o *Pixmap) bool {
	return p.width == o.width && p.height == o.height && bytes.Equal(p.data, o.data)
}

// EqualRect reports whether p and o hold the same bytes inside r.
func (p *Pixmap) EqualRect(o *Pixmap, r image.Rectangle) bool {
	r = r.Intersect(p.Rect()).Intersect(o.Rect())
	if r.Empty() {
		return true
	}
	return bytes.Equal(p.ReadRect(r), o.ReadRect(r))
}

// Flip mirrors the pixmap in place.
func (p *Pixmap) Flip(horizontal bool) {
	rowLen := p.width * 4
	if horizontal {
		for y := range p.height {
			row := p.data[y*rowLen : (y+1)*rowLen]
			for l, r := 0, p.width-1; l < r; l, r = l+1, r-1 {
				for k := range 4 {
					row[l*4+k], row[r*4+k] = row[r*4+k], row[l*4+k]
				}
			}
		}
		return
	}
	tmp := make([]uint8, rowLen)
	for t, b := 0, p.height-1; t < b; t, b = t+1, b-1 {
		top := p.data[t*rowLen : (t+1)*rowLen]
		bot := p.data[b*rowLen : (b+1)*rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

// FromImage creates a pixmap from any image, converting to premultiplied
// RGBA.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	draw.Draw(pm.RGBAImage(), pm.Rect(), img, b.Min, draw.Src)
	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, p.RGBAImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	px := p.PixelAt(x, y)
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return p.Rect()
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
