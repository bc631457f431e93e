package render

import (
	"github.com/chewxy/math32"

	"github.com/softrast/softrast/pkg/math3d"
)

// edgeBias is the coverage threshold applied to edges that are not top or
// left edges, so pixels exactly on a shared edge are owned by exactly one of
// the two adjacent triangles.
const edgeBias = 1e-4

// screenVertex is a vertex after perspective divide and viewport mapping.
// W keeps the clip-space w for perspective-correct interpolation.
type screenVertex struct {
	X, Y float32
	Z    float32 // normalized depth in [0,1]
	W    float32
	UV   math3d.Vec2
}

// screenTriangle is the rasterizer input.
type screenTriangle struct {
	V [3]screenVertex
}

// edgeFunction is the signed parallelogram area of (p-a) against (b-a):
// positive on the interior side of the directed edge a→b for clockwise
// screen-space winding.
func edgeFunction(ax, ay, bx, by, px, py float32) float32 {
	return (py-ay)*(bx-ax) - (px-ax)*(by-ay)
}

// topLeftBias returns the coverage threshold for a directed edge (dx, dy):
// zero for top edges (horizontal, pointing right) and left edges (pointing
// up in screen coordinates, y decreasing), edgeBias otherwise.
func topLeftBias(dx, dy float32) float32 {
	if (dy == 0 && dx > 0) || dy < 0 {
		return 0
	}
	return edgeBias
}

// clampDepth absorbs precision slop on an interpolated depth value: inputs
// within depthEpsilon outside [0,1] clamp, anything further is rejected.
func clampDepth(z float32) (float32, bool) {
	if z < 0 {
		return 0, z > -depthEpsilon
	}
	if z > 1 {
		return 1, z < 1+depthEpsilon
	}
	return z, true
}

// canonicalize orients the triangle so its screen-space signed area is
// positive, returning twice the area. A zero return means the triangle is
// degenerate and must be skipped.
func (t *screenTriangle) canonicalize() float32 {
	a, b, c := t.V[0], t.V[1], t.V[2]
	area2 := edgeFunction(a.X, a.Y, b.X, b.Y, c.X, c.Y)
	if area2 < 0 {
		t.V[1], t.V[2] = t.V[2], t.V[1]
		area2 = -area2
	}
	return area2
}

// fillTriangle rasterizes a solid triangle with the edge-function fill:
// top-left coverage rule, perspective-correct depth, strict-less depth test.
func (r *Renderer) fillTriangle(t screenTriangle, c Color) {
	area2 := t.canonicalize()
	if area2 == 0 {
		return
	}
	a, b, cv := t.V[0], t.V[1], t.V[2]

	minX := int(math32.Ceil(min3(a.X, b.X, cv.X)))
	maxX := int(math32.Floor(max3(a.X, b.X, cv.X)))
	minY := int(math32.Ceil(min3(a.Y, b.Y, cv.Y)))
	maxY := int(math32.Floor(max3(a.Y, b.Y, cv.Y)))
	minX, maxX = clampRange(minX, maxX, r.fb.Width)
	minY, maxY = clampRange(minY, maxY, r.fb.Height)

	biasAB := topLeftBias(b.X-a.X, b.Y-a.Y)
	biasBC := topLeftBias(cv.X-b.X, cv.Y-b.Y)
	biasCA := topLeftBias(a.X-cv.X, a.Y-cv.Y)

	invWA, invWB, invWC := reciprocalW(a.W), reciprocalW(b.W), reciprocalW(cv.W)
	zOverWA, zOverWB, zOverWC := a.Z*invWA, b.Z*invWB, cv.Z*invWC

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x), float32(y)

			eAB := edgeFunction(a.X, a.Y, b.X, b.Y, px, py)
			eBC := edgeFunction(b.X, b.Y, cv.X, cv.Y, px, py)
			eCA := edgeFunction(cv.X, cv.Y, a.X, a.Y, px, py)
			if eAB < biasAB || eBC < biasBC || eCA < biasCA {
				continue
			}

			wA, wB, wC := eBC/area2, eCA/area2, eAB/area2

			oneOverW := wA*invWA + wB*invWB + wC*invWC
			if oneOverW == 0 {
				continue
			}
			z, ok := clampDepth((wA*zOverWA + wB*zOverWB + wC*zOverWC) / oneOverW)
			if !ok {
				continue
			}

			if z >= r.depth.At(x, y) {
				continue
			}
			r.depth.Set(x, y, z)
			r.fb.SetPixel(x, y, c)
		}
	}
}

// texturedTriangle rasterizes a textured triangle with perspective-correct
// texture coordinates, modulated by the flat-shading intensity.
func (r *Renderer) texturedTriangle(t screenTriangle, tex *Texture, intensity float32) {
	area2 := t.canonicalize()
	if area2 == 0 {
		return
	}
	a, b, cv := t.V[0], t.V[1], t.V[2]

	minX := int(math32.Ceil(min3(a.X, b.X, cv.X)))
	maxX := int(math32.Floor(max3(a.X, b.X, cv.X)))
	minY := int(math32.Ceil(min3(a.Y, b.Y, cv.Y)))
	maxY := int(math32.Floor(max3(a.Y, b.Y, cv.Y)))
	minX, maxX = clampRange(minX, maxX, r.fb.Width)
	minY, maxY = clampRange(minY, maxY, r.fb.Height)

	biasAB := topLeftBias(b.X-a.X, b.Y-a.Y)
	biasBC := topLeftBias(cv.X-b.X, cv.Y-b.Y)
	biasCA := topLeftBias(a.X-cv.X, a.Y-cv.Y)

	invWA, invWB, invWC := reciprocalW(a.W), reciprocalW(b.W), reciprocalW(cv.W)
	zOverWA, zOverWB, zOverWC := a.Z*invWA, b.Z*invWB, cv.Z*invWC
	uOverWA, uOverWB, uOverWC := a.UV.X*invWA, b.UV.X*invWB, cv.UV.X*invWC
	vOverWA, vOverWB, vOverWC := a.UV.Y*invWA, b.UV.Y*invWB, cv.UV.Y*invWC

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x), float32(y)

			eAB := edgeFunction(a.X, a.Y, b.X, b.Y, px, py)
			eBC := edgeFunction(b.X, b.Y, cv.X, cv.Y, px, py)
			eCA := edgeFunction(cv.X, cv.Y, a.X, a.Y, px, py)
			if eAB < biasAB || eBC < biasBC || eCA < biasCA {
				continue
			}

			wA, wB, wC := eBC/area2, eCA/area2, eAB/area2

			oneOverW := wA*invWA + wB*invWB + wC*invWC
			if oneOverW == 0 {
				continue
			}
			z, ok := clampDepth((wA*zOverWA + wB*zOverWB + wC*zOverWC) / oneOverW)
			if !ok {
				continue
			}
			if z >= r.depth.At(x, y) {
				continue
			}

			u := (wA*uOverWA + wB*uOverWB + wC*uOverWC) / oneOverW
			v := (wA*vOverWA + wB*vOverWB + wC*vOverWC) / oneOverW

			r.depth.Set(x, y, z)
			r.fb.SetPixel(x, y, tex.Sample(u, v).ScaleIntensity(intensity))
		}
	}
}

// scanlineTriangle is the flat-top/flat-bottom scanline fill, kept as an
// alternative to the edge-function fill. It splits the triangle at the
// middle vertex and advances the left and right edges by their inverse
// slopes, recovering depth per pixel through the shared barycentric routine.
func (r *Renderer) scanlineTriangle(t screenTriangle, c Color) {
	v := t.V

	// Reject triangles collapsed to a point or a line.
	ab := math3d.V2(v[1].X-v[0].X, v[1].Y-v[0].Y)
	ac := math3d.V2(v[2].X-v[0].X, v[2].Y-v[0].Y)
	if (ab.X == 0 && ab.Y == 0) || (ac.X == 0 && ac.Y == 0) {
		return
	}
	if math32.Abs(ab.Normalize().Dot(ac.Normalize())) > 1-1e-4 {
		return
	}

	// Sort by y ascending.
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}
	if v[0].Y > v[2].Y {
		v[0], v[2] = v[2], v[0]
	}
	if v[1].Y > v[2].Y {
		v[1], v[2] = v[2], v[1]
	}

	x0, y0 := int(v[0].X), int(v[0].Y)
	x1, y1 := int(v[1].X), int(v[1].Y)
	x2, y2 := int(v[2].X), int(v[2].Y)

	a := math3d.V2(float32(x0), float32(y0))
	b := math3d.V2(float32(x1), float32(y1))
	cc := math3d.V2(float32(x2), float32(y2))

	invWA, invWB, invWC := reciprocalW(v[0].W), reciprocalW(v[1].W), reciprocalW(v[2].W)
	zOverWA, zOverWB, zOverWC := v[0].Z*invWA, v[1].Z*invWB, v[2].Z*invWC

	shade := func(x, y int) {
		p := math3d.V2(float32(x), float32(y))
		weights := barycentricWeights(a, b, cc, p)
		if weights.X == 0 && weights.Y == 0 && weights.Z == 0 {
			return
		}

		oneOverW := invWA*weights.X + invWB*weights.Y + invWC*weights.Z
		if oneOverW == 0 {
			return
		}
		z, ok := clampDepth((zOverWA*weights.X + zOverWB*weights.Y + zOverWC*weights.Z) / oneOverW)
		if !ok {
			return
		}
		if z >= r.depth.At(x, y) {
			return
		}
		r.depth.Set(x, y, z)
		r.fb.SetPixel(x, y, c)
	}

	// Flat-bottom half, walked top down.
	if y1 != y0 {
		invL := float32(x1-x0) / float32(y1-y0)
		invR := float32(x2-x0) / float32(y2-y0)
		if invL > invR {
			invL, invR = invR, invL
		}
		xStart, xEnd := float32(x0), float32(x0)
		for y := y0; y <= y1; y++ {
			for x := int(xStart); x <= int(xEnd); x++ {
				shade(x, y)
			}
			xStart += invL
			xEnd += invR
		}
	}

	// Flat-top half, walked bottom up.
	if y1 != y2 {
		invL := float32(x2-x0) / float32(y2-y0)
		invR := float32(x2-x1) / float32(y2-y1)
		if invL < invR {
			invL, invR = invR, invL
		}
		xStart, xEnd := float32(x2), float32(x2)
		for y := y2; y > y1; y-- {
			for x := int(xStart); x <= int(xEnd); x++ {
				shade(x, y)
			}
			xStart -= invL
			xEnd -= invR
		}
	}
}

// barycentricWeights returns the barycentric weights of p in triangle abc.
// The zero triple is returned when p falls outside the triangle, which can
// happen at edge pixels due to the scanline walk's precision loss.
func barycentricWeights(a, b, c, p math3d.Vec2) math3d.Vec3 {
	ac := c.Sub(a)
	ab := b.Sub(a)
	pc := c.Sub(p)
	pb := b.Sub(p)
	ap := p.Sub(a)

	areaABC := ab.Cross(ac)
	if areaABC == 0 {
		return math3d.Zero3()
	}

	alpha := pb.Cross(pc) / areaABC
	beta := ap.Cross(ac) / areaABC
	gamma := 1 - (alpha + beta)
	if alpha < 0 || beta < 0 || gamma < 0 {
		return math3d.Zero3()
	}
	return math3d.V3(alpha, beta, gamma)
}

// drawTriangleOutline draws the triangle's three edges.
func (r *Renderer) drawTriangleOutline(t screenTriangle, c Color) {
	x0, y0 := int(t.V[0].X), int(t.V[0].Y)
	x1, y1 := int(t.V[1].X), int(t.V[1].Y)
	x2, y2 := int(t.V[2].X), int(t.V[2].Y)
	r.fb.DrawLine(x0, y0, x1, y1, c)
	r.fb.DrawLine(x1, y1, x2, y2, c)
	r.fb.DrawLine(x2, y2, x0, y0, c)
}

// drawVertexMarkers draws a small dot at each vertex.
func (r *Renderer) drawVertexMarkers(t screenTriangle, c Color) {
	for i := range 3 {
		r.fb.DrawRect(int(t.V[i].X)-1, int(t.V[i].Y)-1, 4, 4, c)
	}
}

// reciprocalW returns 1/w, or 0 for a degenerate w so the pixel drops out of
// the interpolation instead of producing infinities.
func reciprocalW(w float32) float32 {
	if w == 0 {
		return 0
	}
	return 1 / w
}

func clampRange(lo, hi, size int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > size-1 {
		hi = size - 1
	}
	return lo, hi
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
