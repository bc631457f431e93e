package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/chewxy/math32"
)

// Texture holds a decoded image as ARGB texels for sampling during
// rasterization.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes an image file (PNG or JPEG) into a texture.
// Ownership of the texel array transfers to the caller.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts any image.Image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			tex.SetTexel(x, y, FromStd(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard, used as a fallback
// when no texture file is supplied.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetTexel(x, y, c1)
			} else {
				tex.SetTexel(x, y, c2)
			}
		}
	}
	return tex
}

// SetTexel sets the texel at (x, y).
func (t *Texture) SetTexel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Texel returns the texel at (x, y) with bounds checking.
func (t *Texture) Texel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texel for texture coordinates (u, v) in [0,1].
// Coordinates are clamped, and v is flipped: images store row 0 at the top
// while v grows upward. The texel is the nearest at (⌊u·(W-1)⌋, ⌊(1-v)·(H-1)⌋).
func (t *Texture) Sample(u, v float32) Color {
	u = math32.Min(math32.Max(u, 0), 1)
	v = math32.Min(math32.Max(v, 0), 1)
	x := int(u * float32(t.Width-1))
	y := int((1 - v) * float32(t.Height-1))
	return t.Texel(x, y)
}
