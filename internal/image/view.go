package image

import "image"

// Backdrop selects what a keyed image is displayed over.
type Backdrop int

const (
	// BackdropChecker is a two-tone gray checkerboard.
	BackdropChecker Backdrop = iota

	// BackdropBlack is solid black.
	BackdropBlack

	// BackdropWhite is solid white.
	BackdropWhite

	// BackdropAlpha shows the alpha channel itself as opaque grayscale.
	BackdropAlpha
)

// Checkerboard colors and the default tile edge in pixels.
const (
	CheckerLight    = 204
	CheckerDark     = 153
	CheckerTileSize = 20
)

// String returns the backdrop name.
func (b Backdrop) String() string {
	switch b {
	case BackdropChecker:
		return "checker"
	case BackdropBlack:
		return "black"
	case BackdropWhite:
		return "white"
	case BackdropAlpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// Compose renders src over backdrop b and returns an opaque image of the
// same size. tile is the checker edge length; values below 1 use
// CheckerTileSize.
func Compose(src *image.NRGBA, b Backdrop, tile int) *image.NRGBA {
	if tile < 1 {
		tile = CheckerTileSize
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := range h {
		srow := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride:]
		for x := range w {
			i := x * 4
			a := srow[i+3]
			if b == BackdropAlpha {
				drow[i], drow[i+1], drow[i+2], drow[i+3] = a, a, a, 255
				continue
			}
			bg := backdropValue(b, x, y, tile)
			drow[i] = over(srow[i], a, bg)
			drow[i+1] = over(srow[i+1], a, bg)
			drow[i+2] = over(srow[i+2], a, bg)
			drow[i+3] = 255
		}
	}
	return dst
}

func backdropValue(b Backdrop, x, y, tile int) uint8 {
	switch b {
	case BackdropBlack:
		return 0
	case BackdropWhite:
		return 255
	default:
		if (x/tile+y/tile)%2 == 0 {
			return CheckerDark
		}
		return CheckerLight
	}
}

// over is Porter-Duff source-over of a straight-alpha sample onto an opaque
// gray backdrop.
func over(c, a, bg uint8) uint8 {
	switch a {
	case 255:
		return c
	case 0:
		return bg
	}
	v := uint32(c)*uint32(a) + uint32(bg)*(255-uint32(a))
	return uint8((v + 127) / 255)
}
