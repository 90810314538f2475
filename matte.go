package matte

import (
	"image"
	"math"

	intImage "github.com/gogpu/matte/internal/image"
)

// Role says how a matte combines with the key.
type Role int

const (
	// RoleGarbage mattes subtract from the raw key mask: white forces a
	// pixel out.
	RoleGarbage Role = iota

	// RoleCore mattes add to the raw key mask: white forces a pixel in.
	RoleCore

	// RoleEraser mattes multiply the final alpha: black erases.
	RoleEraser
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleGarbage:
		return "garbage"
	case RoleCore:
		return "core"
	case RoleEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// filter returns the resampling filter for the role. Eraser strokes are
// hard-edged, so they are resampled without blending.
func (r Role) filter() intImage.Filter {
	if r == RoleEraser {
		return intImage.Nearest
	}
	return intImage.Bilinear
}

// Matte is a single-channel 8-bit buffer used as a garbage, core or eraser
// mask. Values range from 0 to 255.
type Matte struct {
	role   Role
	width  int
	height int
	data   []uint8
}

// NewMatte creates a matte filled with value.
func NewMatte(width, height int, role Role, value uint8) *Matte {
	m := &Matte{
		role:   role,
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
	if value != 0 {
		m.Fill(value)
	}
	return m
}

// NewEraser creates a fully opaque eraser matte that keeps every pixel.
func NewEraser(width, height int) *Matte {
	return NewMatte(width, height, RoleEraser, 255)
}

// MatteFromImage converts any image into a matte, reducing color to luma.
func MatteFromImage(img image.Image, role Role) *Matte {
	g := intImage.ToGray(img)
	if g == img {
		c := image.NewGray(g.Rect)
		copy(c.Pix, g.Pix)
		g = c
	}
	return fromGray(g, role)
}

// LoadMatte reads a matte from an image file.
func LoadMatte(path string, role Role) (*Matte, error) {
	g, err := intImage.LoadGray(path)
	if err != nil {
		return nil, err
	}
	return fromGray(g, role), nil
}

func fromGray(g *image.Gray, role Role) *Matte {
	return &Matte{role: role, width: g.Rect.Dx(), height: g.Rect.Dy(), data: g.Pix}
}

// Role returns how the matte combines with the key.
func (m *Matte) Role() Role { return m.role }

// Width returns the matte width.
func (m *Matte) Width() int { return m.width }

// Height returns the matte height.
func (m *Matte) Height() int { return m.height }

// Bounds returns the matte dimensions as an image.Rectangle.
func (m *Matte) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Data returns the underlying sample slice.
func (m *Matte) Data() []uint8 {
	return m.data
}

// Row returns the samples of row y.
func (m *Matte) Row(y int) []uint8 {
	return m.data[y*m.width : (y+1)*m.width]
}

// At returns the sample at (x, y).
// Returns 0 for coordinates outside the matte bounds.
func (m *Matte) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set sets the sample at (x, y).
// Coordinates outside the matte bounds are ignored.
func (m *Matte) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Fill fills the entire matte with a value.
func (m *Matte) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Clone creates a copy of the matte.
func (m *Matte) Clone() *Matte {
	c := &Matte{role: m.role, width: m.width, height: m.height, data: make([]uint8, len(m.data))}
	copy(c.data, m.data)
	return c
}

func (m *Matte) toGray() *image.Gray {
	return &image.Gray{Pix: m.data, Stride: m.width, Rect: m.Bounds()}
}

// Resized returns the matte scaled to width x height. Garbage and core
// mattes are interpolated bilinearly; eraser mattes use nearest neighbour.
// If the size already matches, the matte itself is returned.
func (m *Matte) Resized(width, height int) *Matte {
	if m.width == width && m.height == height {
		return m
	}
	return fromGray(intImage.ResizeGray(m.toGray(), width, height, m.role.filter()), m.role)
}

// Crop returns the rect portion of the matte as a new matte.
func (m *Matte) Crop(rect image.Rectangle) *Matte {
	return fromGray(intImage.CropGray(m.toGray(), rect), m.role)
}

// FillEllipse sets every sample whose position lies inside the ellipse
// centered at (cx, cy) with radii rx and ry. Radii at or below zero mark the
// single sample under the center.
func (m *Matte) FillEllipse(cx, cy, rx, ry float64, value uint8) {
	if rx <= 0 || ry <= 0 {
		m.Set(int(math.Floor(cx)), int(math.Floor(cy)), value)
		return
	}

	y0 := max(int(math.Ceil(cy-ry)), 0)
	y1 := min(int(math.Floor(cy+ry)), m.height-1)
	for y := y0; y <= y1; y++ {
		dy := (float64(y) - cy) / ry
		span := 1 - dy*dy
		if span < 0 {
			continue
		}
		half := rx * math.Sqrt(span)
		x0 := max(int(math.Ceil(cx-half)), 0)
		x1 := min(int(math.Floor(cx+half)), m.width-1)
		if x0 > x1 {
			continue
		}
		row := m.Row(y)
		for x := x0; x <= x1; x++ {
			row[x] = value
		}
	}
}
