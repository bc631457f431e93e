package render

import (
	"github.com/chewxy/math32"

	"github.com/softrast/softrast/pkg/math3d"
)

// MaxPolygonVertices bounds the clip intermediate: a triangle clipped by six
// planes can gain at most one vertex per plane.
const MaxPolygonVertices = 10

// Triangle is a per-frame transient: three homogeneous points with their
// texture coordinates and a face color. Points hold view-space positions;
// clipping runs on them and projection happens afterwards, per vertex.
type Triangle struct {
	Points [3]math3d.Vec4
	UVs    [3]math3d.Vec2
	Color  Color
}

// Plane is a half-space boundary described by a point on the plane and its
// inward normal.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// SignedDistance returns the signed distance from v to the plane; positive
// means inside (same side as the normal).
func (p Plane) SignedDistance(v math3d.Vec3) float32 {
	return v.Sub(p.Point).Dot(p.Normal)
}

// Frustum plane indices.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

// Frustum is the set of six view-space half-spaces bounding the visible
// volume. All normals point inward.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum builds the view-space frustum for a symmetric perspective
// volume with vertical field of view fov and width/height aspect ratio.
// The side planes pass through the origin; their normals are derived from
// the actual half-angles, with the horizontal half-angle widened by the
// aspect ratio.
func NewFrustum(fov, aspect, zn, zf float32) Frustum {
	halfV := fov / 2
	halfH := math32.Atan(math32.Tan(halfV) * aspect)

	cosV, sinV := math32.Cos(halfV), math32.Sin(halfV)
	cosH, sinH := math32.Cos(halfH), math32.Sin(halfH)

	var f Frustum
	f.Planes[PlaneNear] = Plane{Point: math3d.V3(0, 0, zn), Normal: math3d.V3(0, 0, 1)}
	f.Planes[PlaneFar] = Plane{Point: math3d.V3(0, 0, zf), Normal: math3d.V3(0, 0, -1)}
	f.Planes[PlaneLeft] = Plane{Normal: math3d.V3(cosH, 0, sinH)}
	f.Planes[PlaneRight] = Plane{Normal: math3d.V3(-cosH, 0, sinH)}
	f.Planes[PlaneTop] = Plane{Normal: math3d.V3(0, -cosV, sinV)}
	f.Planes[PlaneBottom] = Plane{Normal: math3d.V3(0, cosV, sinV)}
	return f
}

// Polygon is the clip intermediate: a convex vertex loop with parallel
// texture coordinates. Winding order is preserved across clip passes.
type Polygon struct {
	Vertices [MaxPolygonVertices]math3d.Vec4
	UVs      [MaxPolygonVertices]math3d.Vec2
	Color    Color
	N        int
}

// polygonFromTriangle seeds the clip intermediate from a triangle.
func polygonFromTriangle(t Triangle) Polygon {
	p := Polygon{Color: t.Color, N: 3}
	copy(p.Vertices[:3], t.Points[:])
	copy(p.UVs[:3], t.UVs[:])
	return p
}

// clipAgainst runs one Sutherland–Hodgman pass: for each edge (Qi, Qi+1),
// vertices strictly inside are kept, and edges straddling the plane emit the
// intersection point at t = di / (di - di+1) with linearly interpolated
// texture coordinates. Perspective correction is not applied here; attributes
// stay linear until rasterization.
func (p *Polygon) clipAgainst(plane Plane) {
	if p.N == 0 {
		return
	}

	var outV [MaxPolygonVertices]math3d.Vec4
	var outUV [MaxPolygonVertices]math3d.Vec2
	c := 0

	currD := plane.SignedDistance(p.Vertices[0].Vec3())
	for i := 0; i < p.N; i++ {
		next := (i + 1) % p.N
		nextD := plane.SignedDistance(p.Vertices[next].Vec3())

		if currD > 0 {
			if c >= MaxPolygonVertices {
				panic("render: clip polygon overflow")
			}
			outV[c] = p.Vertices[i]
			outUV[c] = p.UVs[i]
			c++
		}

		if currD*nextD < 0 {
			if c >= MaxPolygonVertices {
				panic("render: clip polygon overflow")
			}
			t := currD / (currD - nextD)
			outV[c] = p.Vertices[i].Lerp(p.Vertices[next], t)
			outUV[c] = p.UVs[i].Lerp(p.UVs[next], t)
			c++
		}

		currD = nextD
	}

	p.N = c
	copy(p.Vertices[:], outV[:c])
	copy(p.UVs[:], outUV[:c])
}

// triangles fans the convex polygon from vertex 0 and appends the resulting
// triangles to out.
func (p *Polygon) triangles(out []Triangle) []Triangle {
	for i := 1; i < p.N-1; i++ {
		out = append(out, Triangle{
			Points: [3]math3d.Vec4{p.Vertices[0], p.Vertices[i], p.Vertices[i+1]},
			UVs:    [3]math3d.Vec2{p.UVs[0], p.UVs[i], p.UVs[i+1]},
			Color:  p.Color,
		})
	}
	return out
}

// ClipTriangle clips a view-space triangle against all six planes and
// appends the surviving triangles to out. A triangle fully inside comes back
// unchanged; one fully outside any plane contributes nothing.
func (f Frustum) ClipTriangle(t Triangle, out []Triangle) []Triangle {
	p := polygonFromTriangle(t)
	for i := range f.Planes {
		p.clipAgainst(f.Planes[i])
		if p.N == 0 {
			return out
		}
	}
	return p.triangles(out)
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// TransformAABB returns an AABB bounding the original box after
// transformation, computed from its eight transformed corners.
func TransformAABB(b AABB, m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	out := AABB{Min: m.MulVec3(corners[0]), Max: m.MulVec3(corners[0])}
	for _, c := range corners[1:] {
		v := m.MulVec3(c)
		out.Min = out.Min.Min(v)
		out.Max = out.Max.Max(v)
	}
	return out
}

// IntersectsAABB reports whether any part of a view-space AABB is inside the
// frustum, using the positive-vertex rejection test.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.SignedDistance(pVertex) < 0 {
			return false
		}
	}
	return true
}

// selectComponent is a branchless conditional selection helper.
func selectComponent(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}
