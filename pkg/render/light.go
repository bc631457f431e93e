package render

import (
	"github.com/softrast/softrast/pkg/math3d"
)

// Light is a directional light.
type Light struct {
	Direction math3d.Vec3
}

// NewLight creates a directional light; the direction is normalized.
func NewLight(direction math3d.Vec3) Light {
	return Light{Direction: direction.Normalize()}
}

// Intensity returns the flat-shading intensity for a face normal, remapping
// the alignment of the inverse light direction from [-1,1] to [0,1].
func (l Light) Intensity(normal math3d.Vec3) float32 {
	alignment := l.Direction.Negate().Dot(normal)
	intensity := 0.5*alignment + 0.5
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return intensity
}
