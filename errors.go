package matte

import "errors"

// Errors returned by matte.
var (
	// ErrEmptyImage is returned when an image has no pixels.
	ErrEmptyImage = errors.New("matte: empty image")

	// ErrNoImage is returned by Session operations before an image is loaded.
	ErrNoImage = errors.New("matte: no image loaded")

	// ErrSuperseded is returned by a pipeline run abandoned because a newer
	// generation was scheduled. It never reaches the display sink.
	ErrSuperseded = errors.New("matte: superseded")

	// ErrInvalidKeyColor is returned when a key color string cannot be parsed.
	ErrInvalidKeyColor = errors.New("matte: invalid key color")

	// ErrUnknownMode is returned when a mode name is not recognized.
	ErrUnknownMode = errors.New("matte: unknown mode")

	// ErrUnknownScreen is returned when a screen name is not recognized.
	ErrUnknownScreen = errors.New("matte: unknown screen")

	// ErrUnknownMethod is returned when a despill method name is not recognized.
	ErrUnknownMethod = errors.New("matte: unknown despill method")

	// ErrUnknownView is returned when a view name is not recognized.
	ErrUnknownView = errors.New("matte: unknown view")

	// ErrFullyTransparent is returned by AutoCrop when no pixel survives keying.
	ErrFullyTransparent = errors.New("matte: result is fully transparent")

	// ErrOutOfBounds is returned when a coordinate lies outside the image.
	ErrOutOfBounds = errors.New("matte: coordinate out of bounds")
)
