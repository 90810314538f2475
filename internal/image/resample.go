package image

import (
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Filter selects the interpolation used when a single-channel buffer is
// resampled to new dimensions.
type Filter int

const (
	// Bilinear interpolates between the four nearest samples.
	Bilinear Filter = iota

	// Nearest picks the closest sample with no blending.
	Nearest
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case Bilinear:
		return "bilinear"
	case Nearest:
		return "nearest"
	default:
		return "unknown"
	}
}

func (f Filter) interpolator() xdraw.Interpolator {
	if f == Nearest {
		return xdraw.NearestNeighbor
	}
	return xdraw.BiLinear
}

// ResizeGray scales src to width x height using filter.
// Sample positions are aligned on pixel centers. If the size already
// matches, a copy of src is returned.
func ResizeGray(src *image.Gray, width, height int, filter Filter) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst
	}
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		xdraw.Copy(dst, image.Point{}, src, src.Bounds(), xdraw.Src, nil)
		return dst
	}
	filter.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// FitSize returns the dimensions of a width x height image scaled to fit
// inside maxWidth x maxHeight with its aspect ratio kept. Images that already
// fit are left at their size. Each side is at least 1.
func FitSize(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	srcAspect := float64(width) / float64(height)
	maxAspect := float64(maxWidth) / float64(maxHeight)

	var w, h int
	if srcAspect > maxAspect {
		w = maxWidth
		h = int(float64(maxWidth)/srcAspect + 0.5)
	} else {
		h = maxHeight
		w = int(float64(maxHeight)*srcAspect + 0.5)
	}
	return max(w, 1), max(h, 1)
}

// Thumbnail scales src down to fit inside maxWidth x maxHeight with a
// Lanczos filter. A source that already fits is cloned unchanged.
func Thumbnail(src *image.NRGBA, maxWidth, maxHeight int) *image.NRGBA {
	w, h := FitSize(src.Bounds().Dx(), src.Bounds().Dy(), maxWidth, maxHeight)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, w, h, imaging.Lanczos)
}

// Crop returns the rect portion of src as a new image with origin (0, 0).
func Crop(src *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(src, rect)
}

// CropGray returns the rect portion of src as a new single-channel image
// with origin (0, 0).
func CropGray(src *image.Gray, rect image.Rectangle) *image.Gray {
	rect = rect.Intersect(src.Bounds())
	dst := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := range rect.Dy() {
		off := src.PixOffset(rect.Min.X, rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[off:off+rect.Dx()])
	}
	return dst
}
