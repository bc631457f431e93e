package render

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/softrast/softrast/pkg/math3d"
	"github.com/softrast/softrast/pkg/models"
)

// centeredTriangleMesh is a single triangle two units in front of the eye,
// wound to face the camera.
func centeredTriangleMesh(color uint32) *models.Mesh {
	m := models.NewMesh("tri")
	m.Vertices = []math3d.Vec3{
		{X: -1, Y: -1, Z: 2},
		{X: 0, Y: 1, Z: 2},
		{X: 1, Y: -1, Z: 2},
	}
	m.Faces = []models.Face{{A: 1, B: 2, C: 3, Color: color}}
	return m
}

func TestPipelineSingleTriangleCentered(t *testing.T) {
	r := New(800, 600, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid

	mesh := centeredTriangleMesh(0xFF00FF00)
	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	// The face normal points straight back at the light, so the flat-shade
	// intensity is 1 and the color survives unchanged.
	if got := r.fb.GetPixel(400, 300); got != RGB(0, 255, 0) {
		t.Errorf("center pixel = %v, want pure green", got)
	}

	// Bounding box: the projected vertices land at (250,450), (400,150),
	// (550,450); pixels outside stay background.
	for _, p := range [][2]int{{100, 100}, {700, 500}, {400, 100}, {240, 300}} {
		if got := r.fb.GetPixel(p[0], p[1]); got != ColorBlack {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}

	// Depth at the center was written and sits in [0,1].
	z := r.depth.At(400, 300)
	if z < 0 || z > 1 {
		t.Errorf("depth = %v, want within [0,1]", z)
	}
	if z >= DepthClearValue {
		t.Error("depth never written at the triangle center")
	}

	if r.Stats.TrianglesDrawn != 1 {
		t.Errorf("TrianglesDrawn = %d, want 1", r.Stats.TrianglesDrawn)
	}
}

func TestBackfaceCullSymmetry(t *testing.T) {
	front := centeredTriangleMesh(0xFFFFFFFF)

	back := models.NewMesh("tri-reversed")
	back.Vertices = front.Vertices
	back.Faces = []models.Face{{A: 1, B: 3, C: 2, Color: 0xFFFFFFFF}}

	// The reversed face turns its normal along the light, so it is shaded
	// black; a blue background keeps those pixels distinguishable.
	renderCount := func(m *models.Mesh, cull bool) int {
		r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
		r.Mode = ModeSolid
		r.Cull = cull
		r.BeginFrame(ColorBlue)
		r.DrawMesh(m, math3d.Identity(), nil)
		return len(coverage(r.fb, ColorBlue))
	}

	frontPixels := renderCount(front, true)
	backPixels := renderCount(back, true)

	// With culling on, exactly one of the pair renders.
	if frontPixels == 0 {
		t.Error("front-facing triangle was culled")
	}
	if backPixels != 0 {
		t.Errorf("back-facing triangle rendered %d pixels with culling on", backPixels)
	}

	// With culling off, both render.
	if n := renderCount(back, false); n == 0 {
		t.Error("back-facing triangle skipped with culling off")
	}
}

func TestProjectionToggleKeepsCullFlag(t *testing.T) {
	r := New(100, 100, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Cull = true
	r.SetProjection(ProjOrthographic)
	if !r.Cull {
		t.Error("switching projection must not change the culling flag")
	}
	if r.Projection() != ProjOrthographic {
		t.Error("projection kind not updated")
	}
	r.SetProjection(ProjPerspective)
	if r.Projection() != ProjPerspective {
		t.Error("projection kind not restored")
	}
}

func TestOrthographicRenders(t *testing.T) {
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid
	r.SetProjection(ProjOrthographic)

	mesh := centeredTriangleMesh(0xFFFF0000)
	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	if len(coverage(r.fb, ColorBlack)) == 0 {
		t.Error("orthographic projection rendered nothing")
	}
	// Depth stays normalized under the orthographic path too.
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			z := r.depth.At(x, y)
			if z != DepthClearValue && (z < 0 || z > 1) {
				t.Fatalf("depth at (%d,%d) = %v", x, y, z)
			}
		}
	}
}

func TestMeshBehindCameraCulled(t *testing.T) {
	r := New(100, 100, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid

	mesh := centeredTriangleMesh(0xFFFFFFFF)
	mesh.Translation = math3d.V3(0, 0, -20)

	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	if r.Stats.MeshesCulled != 1 {
		t.Errorf("MeshesCulled = %d, want 1", r.Stats.MeshesCulled)
	}
	if n := len(coverage(r.fb, ColorBlack)); n != 0 {
		t.Errorf("culled mesh wrote %d pixels", n)
	}
}

func TestNearPlaneClippingPipeline(t *testing.T) {
	// A triangle straddling the near plane must be cut, not dropped, and
	// every written depth stays normalized.
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid
	r.Cull = false

	m := models.NewMesh("straddle")
	m.Vertices = []math3d.Vec3{
		{X: -1, Y: 0, Z: 5},
		{X: 1, Y: 0, Z: 5},
		{X: 0, Y: 0.5, Z: 0.5},
	}
	m.Faces = []models.Face{{A: 1, B: 2, C: 3, Color: 0xFFFFFFFF}}

	r.BeginFrame(ColorBlack)
	r.DrawMesh(m, math3d.Identity(), nil)

	if r.Stats.FacesClipped == 0 {
		t.Error("straddling face not counted as clipped")
	}
	if r.Stats.TrianglesDrawn != 2 {
		t.Errorf("TrianglesDrawn = %d, want 2 (near-plane quad)", r.Stats.TrianglesDrawn)
	}
	if len(coverage(r.fb, ColorBlack)) == 0 {
		t.Error("clipped triangle rendered nothing")
	}
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			z := r.depth.At(x, y)
			if z != DepthClearValue && (z < 0 || z > 1) {
				t.Fatalf("invalid depth %v at (%d,%d)", z, x, y)
			}
		}
	}
}

func TestTexturedModeWithoutTextureFallsBack(t *testing.T) {
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeTextured

	mesh := centeredTriangleMesh(0xFF0000FF)
	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	if len(coverage(r.fb, ColorBlack)) == 0 {
		t.Error("textured mode with nil texture rendered nothing")
	}
}

func TestWireModeDrawsEdgesOnly(t *testing.T) {
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeWire

	mesh := centeredTriangleMesh(0xFFFFFFFF)
	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	cov := coverage(r.fb, ColorBlack)
	if len(cov) == 0 {
		t.Fatal("wireframe rendered nothing")
	}

	// The screen center lies inside the triangle and stays hollow in wire mode.
	if r.fb.GetPixel(100, 75) != ColorBlack {
		t.Error("wire mode filled the triangle interior")
	}
}

func TestSolidWireMatchesSolidCoverage(t *testing.T) {
	draw := func(mode RenderMode) map[[2]int]bool {
		r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
		r.Mode = mode
		r.BeginFrame(ColorBlack)
		r.DrawMesh(centeredTriangleMesh(0xFFFFFFFF), math3d.Identity(), nil)
		return coverage(r.fb, ColorBlack)
	}

	solid := draw(ModeSolid)
	solidWire := draw(ModeSolidWire)

	for p := range solid {
		if !solidWire[p] {
			t.Fatalf("pixel %v present in solid but missing in solid+wire", p)
		}
	}
}

func TestScanlineFillRule(t *testing.T) {
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid
	r.Fill = FillScanline

	mesh := centeredTriangleMesh(0xFF00FF00)
	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	if got := r.fb.GetPixel(100, 75); got != RGB(0, 255, 0) {
		t.Errorf("scanline fill center pixel = %v, want green", got)
	}
}

func TestFlatShadingDarkensAngledFaces(t *testing.T) {
	// Tilt the triangle so its normal no longer opposes the light; the
	// rendered color must dim accordingly.
	r := New(200, 150, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid
	r.Cull = false

	mesh := centeredTriangleMesh(0xFFFFFFFF)
	mesh.Rotation = math3d.V3(0.9, 0, 0)
	mesh.Translation = math3d.V3(0, 0, 2)
	for i := range mesh.Vertices {
		mesh.Vertices[i].Z = 0 // keep the triangle local, placement via Translation
	}

	r.BeginFrame(ColorBlack)
	r.DrawMesh(mesh, math3d.Identity(), nil)

	cov := coverage(r.fb, ColorBlack)
	if len(cov) == 0 {
		t.Fatal("angled triangle rendered nothing")
	}
	for p := range cov {
		c := r.fb.GetPixel(p[0], p[1])
		if c.R == 255 {
			t.Fatalf("angled face rendered at full intensity at %v", p)
		}
		break
	}
}

func TestBeginFrameResets(t *testing.T) {
	r := New(50, 50, Options{FOV: math32.Pi / 2, ZNear: 1, ZFar: 300})
	r.Mode = ModeSolid
	r.BeginFrame(ColorBlack)
	r.DrawMesh(centeredTriangleMesh(0xFFFFFFFF), math3d.Identity(), nil)

	r.BeginFrame(ColorBlue)
	if r.Stats.TrianglesDrawn != 0 {
		t.Error("stats not reset by BeginFrame")
	}
	if r.fb.GetPixel(25, 25) != ColorBlue {
		t.Error("framebuffer not cleared to background")
	}
	if r.depth.At(25, 25) != DepthClearValue {
		t.Error("depth buffer not cleared")
	}
}
