package render

// DepthClearValue is strictly greater than the valid depth range [0,1], so
// the first write at a pixel always wins.
const DepthClearValue = 1.1

// depthEpsilon bounds the precision slop tolerated on interpolated depth
// just outside [0,1]; values within it clamp, values beyond drop the pixel.
const depthEpsilon = 1e-4

// DepthBuffer is a W×H row-major buffer of normalized depth values.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float32
}

// NewDepthBuffer creates a depth buffer, cleared.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}
	db.Clear()
	return db
}

// Clear resets every cell to DepthClearValue.
func (db *DepthBuffer) Clear() {
	for i := range db.Values {
		db.Values[i] = DepthClearValue
	}
}

// At returns the depth at (x, y); out-of-bounds reads return the clear
// value so they never win a depth test.
func (db *DepthBuffer) At(x, y int) float32 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return DepthClearValue
	}
	return db.Values[y*db.Width+x]
}

// Set writes the depth at (x, y).
func (db *DepthBuffer) Set(x, y int, z float32) {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return
	}
	db.Values[y*db.Width+x] = z
}
