package matte

import (
	"fmt"
	"image"
	"image/color"

	intImage "github.com/gogpu/matte/internal/image"
)

// Pixmap is an 8-bit RGBA pixel buffer: 4 bytes per pixel, row-major, no
// row padding.
//
// Pixmap implements image.Image with the NRGBA color model, so the stored
// bytes are handed to encoders unchanged.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromImage copies any image into a new pixmap.
func FromImage(img image.Image) *Pixmap {
	n := intImage.ToNRGBA(img)
	if n == img {
		n = cloneNRGBA(n)
	}
	return fromNRGBA(n)
}

// fromNRGBA wraps a tight, origin-aligned NRGBA without copying.
func fromNRGBA(n *image.NRGBA) *Pixmap {
	return &Pixmap{width: n.Rect.Dx(), height: n.Rect.Dy(), data: n.Pix}
}

func cloneNRGBA(n *image.NRGBA) *image.NRGBA {
	c := image.NewNRGBA(n.Rect)
	copy(c.Pix, n.Pix)
	return c
}

// Load reads an image file into a new pixmap.
func Load(path string) (*Pixmap, error) {
	img, err := intImage.Load(path)
	if err != nil {
		return nil, err
	}
	if img.Rect.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return fromNRGBA(img), nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Empty reports whether the pixmap has no pixels.
func (p *Pixmap) Empty() bool {
	return p == nil || p.width <= 0 || p.height <= 0
}

// Data returns the raw pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Row returns the bytes of row y.
func (p *Pixmap) Row(y int) []uint8 {
	stride := p.width * 4
	return p.data[y*stride : (y+1)*stride]
}

// Pixel returns the stored bytes of one pixel. Out-of-bounds coordinates
// return zeros.
func (p *Pixmap) Pixel(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetPixel stores one pixel. Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = r, g, b, a
}

// Fill sets every pixel to one value.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = r, g, b, a
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, data: make([]uint8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// ToImage returns an *image.NRGBA sharing the pixmap's memory.
func (p *Pixmap) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.data,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// AlphaBounds returns the smallest rectangle holding every pixel with
// nonzero alpha. It is empty when the pixmap is fully transparent.
func (p *Pixmap) AlphaBounds() image.Rectangle {
	minX, minY := p.width, p.height
	maxX, maxY := -1, -1
	for y := range p.height {
		row := p.Row(y)
		for x := range p.width {
			if row[x*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Crop returns the rect portion of the pixmap as a new pixmap.
func (p *Pixmap) Crop(rect image.Rectangle) *Pixmap {
	return fromNRGBA(intImage.Crop(p.ToImage(), rect))
}

// Thumbnail returns a copy scaled down to fit inside maxWidth x maxHeight.
// A pixmap that already fits is copied at its own size.
func (p *Pixmap) Thumbnail(maxWidth, maxHeight int) *Pixmap {
	return fromNRGBA(intImage.Thumbnail(p.ToImage(), maxWidth, maxHeight))
}

// SavePNG writes the pixmap to path as PNG. A failed save leaves no file
// behind and never modifies the pixmap.
func (p *Pixmap) SavePNG(path string) error {
	return intImage.SavePNG(path, p.ToImage())
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.Pixel(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
