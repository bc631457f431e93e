// Package render implements the software rasterization pipeline for softrast.
package render

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color is a 32-bit ARGB color with explicit channels.
type Color struct {
	A, R, G, B uint8
}

// ARGB unpacks a 0xAARRGGBB value into a Color.
func ARGB(v uint32) Color {
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Pack returns the color as a 0xAARRGGBB value.
func (c Color) Pack() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGB creates an opaque color from RGB channels.
func RGB(r, g, b uint8) Color {
	return Color{A: 255, R: r, G: g, B: b}
}

// RGBA creates a color from all four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{A: a, R: r, G: g, B: b}
}

// ScaleIntensity multiplies the color channels by intensity, which is
// clamped to [0,1]. Alpha is preserved.
func (c Color) ScaleIntensity(intensity float32) Color {
	intensity = math32.Min(math32.Max(intensity, 0), 1)
	return Color{
		A: c.A,
		R: uint8(float32(c.R) * intensity),
		G: uint8(float32(c.G) * intensity),
		B: uint8(float32(c.B) * intensity),
	}
}

// Modulate multiplies two colors channel-wise (texture * face color).
func (c Color) Modulate(o Color) Color {
	return Color{
		A: uint8(int(c.A) * int(o.A) / 255),
		R: uint8(int(c.R) * int(o.R) / 255),
		G: uint8(int(c.G) * int(o.G) / 255),
		B: uint8(int(c.B) * int(o.B) / 255),
	}
}

// Std returns the color as a standard library color.RGBA.
func (c Color) Std() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromStd converts any color.Color to a Color.
func FromStd(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		A: uint8(a >> 8),
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Colors for convenience.
var (
	ColorBlack   = RGB(0, 0, 0)
	ColorWhite   = RGB(255, 255, 255)
	ColorRed     = RGB(255, 0, 0)
	ColorGreen   = RGB(0, 255, 0)
	ColorBlue    = RGB(0, 0, 255)
	ColorYellow  = RGB(255, 255, 0)
	ColorCyan    = RGB(0, 255, 255)
	ColorMagenta = RGB(255, 0, 255)
	ColorGray    = RGB(128, 128, 128)
)
