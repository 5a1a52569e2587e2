// Package palette turns user-supplied hex colors into the softened stroke and
// fill colors used for guide patterns.
//
// Guide lines are drawn on top of a background photo, so a saturated color
// would bury the image. [Lighten] blends every channel halfway toward white,
// which keeps each channel at or above 0.5.
//
// Unvalidated user input never fails: an unparsable color yields [Fallback].
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/handbook/pkg/errors"
)

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// RGB8 is a color with 8-bit channels, as written in a hex string.
type RGB8 struct {
	R, G, B uint8
}

// Fallback is returned by Lighten when the input cannot be parsed.
var Fallback = RGB{R: 0.85, G: 0.85, B: 0.85}

// Parse decodes "#rgb", "rgb", "#rrggbb" or "rrggbb".
// The shorthand form is expanded by doubling each digit.
func Parse(hex string) (RGB8, error) {
	s := strings.TrimLeft(hex, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return RGB8{}, errors.New(errors.ErrCodeInvalidColor, "color %q must have 3 or 6 hex digits", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB8{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "color %q is not hexadecimal", hex)
	}
	return RGB8{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Lighten parses hex and blends it 50% toward white.
// Any parse error falls back to a light gray.
func Lighten(hex string) RGB {
	c, err := Parse(hex)
	if err != nil {
		return Fallback
	}
	return c.Lighten()
}

// Lighten blends c 50% toward white.
func (c RGB8) Lighten() RGB {
	return RGB{
		R: lightenChannel(c.R),
		G: lightenChannel(c.G),
		B: lightenChannel(c.B),
	}
}

func lightenChannel(v uint8) float64 {
	return (float64(v) + 255) / 2 / 255
}

// Color converts c to an opaque 8-bit color for drawing backends.
func (c RGB) Color() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 0xff}
}

// Hex renders c as "#rrggbb".
func (c RGB) Hex() string {
	n := c.Color()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
