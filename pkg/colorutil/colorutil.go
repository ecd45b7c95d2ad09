// Package colorutil provides shared color utilities for element stroke and
// fill attributes, which are stored as CSS-style hex strings.
package colorutil

import (
	"image/color"
	"strconv"
	"strings"
)

// None is the sentinel fill value meaning "no fill".
const None = "none"

// Common UI colors.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Selection = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	Ghost     = color.RGBA{R: 37, G: 99, B: 235, A: 120}
	BoxSelect = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// IsNone reports whether a fill value is the transparent sentinel.
func IsNone(s string) bool {
	return s == "" || strings.EqualFold(s, None)
}

// ParseHex parses a "#rgb" or "#rrggbb" color string. Unparseable values
// fall back to black so a bad color never breaks rendering.
func ParseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		r := hexNibble(s[0])
		g := hexNibble(s[1])
		b := hexNibble(s[2])
		return color.RGBA{R: r*16 + r, G: g*16 + g, B: b*16 + b, A: 255}
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return Black
		}
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}
	default:
		return Black
	}
}

// FormatHex formats a color as a "#rrggbb" string.
func FormatHex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		'#',
		digits[c.R>>4], digits[c.R&0xf],
		digits[c.G>>4], digits[c.G&0xf],
		digits[c.B>>4], digits[c.B&0xf],
	})
}

// WithOpacity returns the color with its alpha scaled by opacity in [0,1].
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}

// Blend alpha-blends src over dst using the src alpha channel.
func Blend(dst, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255.0
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}

func hexNibble(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
