package render

import (
	"github.com/softrast/softrast/pkg/math3d"
	"github.com/softrast/softrast/pkg/models"
)

// RenderMode selects how triangles reach the framebuffer.
type RenderMode int

const (
	ModeWire         RenderMode = iota // wireframe only
	ModeWireVertex                     // wireframe plus vertex dots
	ModeSolid                          // filled with the lit face color
	ModeSolidWire                      // filled plus wireframe
	ModeTextured                       // textured
	ModeTexturedWire                   // textured plus wireframe
)

// FillRule selects the triangle fill implementation.
type FillRule int

const (
	FillEdgeFunction FillRule = iota // bounding-box edge-function fill
	FillScanline                     // flat-top/flat-bottom scanline fill
)

// Projection selects the projection matrix.
type Projection int

const (
	ProjPerspective Projection = iota
	ProjOrthographic
)

// Options configures a Renderer's projection volume.
type Options struct {
	FOV   float32 // vertical field of view in radians
	ZNear float32
	ZFar  float32
}

// FrameStats counts per-frame pipeline work, reset by BeginFrame.
type FrameStats struct {
	MeshesCulled   int // meshes rejected by the bounds pre-test
	FacesCulled    int // faces rejected by backface culling
	FacesClipped   int // faces whose clip did not yield exactly one triangle (split or fully rejected); a face trimmed to one smaller triangle is not counted
	TrianglesDrawn int // triangles handed to a fill after clipping
}

// Renderer owns the color and depth buffers and drives the per-face
// pipeline: world/view transform, backface cull, flat shade, frustum clip,
// perspective divide, viewport map, rasterize.
type Renderer struct {
	fb    *Framebuffer
	depth *DepthBuffer

	Camera *Camera
	Light  Light

	Mode RenderMode
	Fill FillRule
	Cull bool

	Stats FrameStats

	fov, zn, zf float32
	projKind    Projection
	proj        math3d.Mat4
	frustum     Frustum

	clipScratch []Triangle
}

// New creates a renderer with its own buffers, perspective projection, and
// backface culling enabled.
func New(width, height int, opts Options) *Renderer {
	r := &Renderer{
		fb:     NewFramebuffer(width, height),
		depth:  NewDepthBuffer(width, height),
		Camera: NewCamera(),
		Light:  NewLight(math3d.V3(0, 0, 1)),
		Mode:   ModeSolidWire,
		Cull:   true,
		fov:    opts.FOV,
		zn:     opts.ZNear,
		zf:     opts.ZFar,
	}
	r.frustum = NewFrustum(r.fov, float32(width)/float32(height), r.zn, r.zf)
	r.SetProjection(ProjPerspective)
	return r
}

// Framebuffer returns the color buffer the renderer draws into.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// DepthBuffer returns the depth buffer.
func (r *Renderer) DepthBuffer() *DepthBuffer {
	return r.depth
}

// SetProjection switches between perspective and orthographic projection
// and rebuilds the projection matrix.
func (r *Renderer) SetProjection(kind Projection) {
	r.projKind = kind
	if kind == ProjOrthographic {
		r.proj = math3d.Orthographic(r.fov, r.fb.Width, r.fb.Height, r.zn, r.zf)
	} else {
		r.proj = math3d.Perspective(r.fov, r.fb.Width, r.fb.Height, r.zn, r.zf)
	}
}

// Projection returns the active projection kind.
func (r *Renderer) Projection() Projection {
	return r.projKind
}

// BeginFrame clears the color and depth buffers and resets the frame stats.
func (r *Renderer) BeginFrame(background Color) {
	r.fb.Clear(background)
	r.depth.Clear()
	r.Stats = FrameStats{}
}

// DrawMesh runs the full pipeline for one mesh under the given view matrix,
// dispatching each surviving triangle according to the render mode. tex may
// be nil unless a textured mode is active.
func (r *Renderer) DrawMesh(mesh *models.Mesh, view math3d.Mat4, tex *Texture) {
	mv := view.Mul(mesh.WorldMatrix())

	// Whole-mesh rejection: if the view-space bounds miss the frustum, no
	// face can survive clipping.
	min, max := mesh.Bounds()
	if !r.frustum.IntersectsAABB(TransformAABB(AABB{Min: min, Max: max}, mv)) {
		r.Stats.MeshesCulled++
		return
	}

	for i := range mesh.Faces {
		face := mesh.Faces[i]
		oa, ob, oc := mesh.FaceVertices(i)

		a := mv.MulVec4(math3d.V4FromV3(oa, 1))
		b := mv.MulVec4(math3d.V4FromV3(ob, 1))
		c := mv.MulVec4(math3d.V4FromV3(oc, 1))

		// View-space face normal; clockwise winding faces the camera.
		ab := b.Vec3().Sub(a.Vec3()).Normalize()
		ac := c.Vec3().Sub(a.Vec3()).Normalize()
		normal := ab.Cross(ac).Normalize()
		if normal == math3d.Zero3() {
			continue // degenerate face
		}

		if r.Cull {
			// The eye sits at the view-space origin, so the camera ray
			// from the face is just the negated vertex.
			cameraRay := a.Vec3().Negate().Normalize()
			if cameraRay.Dot(normal) <= 0 {
				r.Stats.FacesCulled++
				continue
			}
		}

		intensity := r.Light.Intensity(normal)
		litColor := ARGB(face.Color).ScaleIntensity(intensity)

		tri := Triangle{
			Points: [3]math3d.Vec4{a, b, c},
			UVs:    [3]math3d.Vec2{face.AUV, face.BUV, face.CUV},
			Color:  litColor,
		}

		r.clipScratch = r.frustum.ClipTriangle(tri, r.clipScratch[:0])
		if len(r.clipScratch) != 1 {
			r.Stats.FacesClipped++
		}

		for _, clipped := range r.clipScratch {
			st, ok := r.toScreen(clipped)
			if !ok {
				continue
			}
			r.Stats.TrianglesDrawn++
			r.dispatch(st, clipped.Color, tex, intensity)
		}
	}
}

// toScreen projects a clipped view-space triangle, performs the perspective
// divide, and maps normalized device coordinates onto the viewport, with y
// mirrored so screen y grows downward.
func (r *Renderer) toScreen(t Triangle) (screenTriangle, bool) {
	halfW := float32(r.fb.Width) / 2
	halfH := float32(r.fb.Height) / 2

	var st screenTriangle
	for i := range 3 {
		p := r.proj.MulVec4(t.Points[i])
		if p.W == 0 {
			return st, false
		}
		p = p.PerspectiveDivide()

		x := p.X*halfW + halfW
		y := -p.Y*halfH + halfH

		// Clip-boundary precision can push a coordinate a hair negative.
		if x < 0 && x > -0.01 {
			x = 0
		}
		if y < 0 && y > -0.01 {
			y = 0
		}

		st.V[i] = screenVertex{X: x, Y: y, Z: p.Z, W: p.W, UV: t.UVs[i]}
	}
	return st, true
}

// dispatch hands one screen triangle to the fills requested by the render
// mode.
func (r *Renderer) dispatch(st screenTriangle, lit Color, tex *Texture, intensity float32) {
	switch r.Mode {
	case ModeSolid, ModeSolidWire:
		if r.Fill == FillScanline {
			r.scanlineTriangle(st, lit)
		} else {
			r.fillTriangle(st, lit)
		}
	case ModeTextured, ModeTexturedWire:
		if tex != nil {
			r.texturedTriangle(st, tex, intensity)
		} else {
			r.fillTriangle(st, lit)
		}
	}

	switch r.Mode {
	case ModeWire, ModeWireVertex, ModeSolidWire, ModeTexturedWire:
		r.drawTriangleOutline(st, lit)
	}

	if r.Mode == ModeWireVertex {
		r.drawVertexMarkers(st, ColorWhite)
	}
}
