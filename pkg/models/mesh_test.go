package models

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/softrast/softrast/pkg/math3d"
)

func TestWorldMatrixOrder(t *testing.T) {
	m := NewMesh("test")
	m.Scale = math3d.V3(2, 2, 2)
	m.Translation = math3d.V3(0, 0, 8)

	// Scale must apply before translation: (1,0,0) → (2,0,8), not (2,0,16).
	got := m.WorldMatrix().MulVec4(math3d.V4(1, 0, 0, 1))
	want := math3d.V4(2, 0, 8, 1)
	if math32.Abs(got.X-want.X) > 1e-5 || math32.Abs(got.Z-want.Z) > 1e-5 {
		t.Errorf("world · (1,0,0,1) = %v, want %v", got, want)
	}
}

func TestWorldMatrixRotation(t *testing.T) {
	m := NewMesh("test")
	m.Rotation = math3d.V3(0, math32.Pi/2, 0)

	// Rotation happens about the origin before translation.
	m.Translation = math3d.V3(0, 0, 5)
	got := m.WorldMatrix().MulVec4(math3d.V4(0, 0, 1, 1)).Vec3()
	want := math3d.V3(1, 0, 5)
	if got.Distance(want) > 1e-5 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh("test")
	m.Vertices = []math3d.Vec3{
		{X: -1, Y: 0, Z: 2},
		{X: 3, Y: -2, Z: 4},
		{X: 0, Y: 5, Z: 3},
	}

	min, max := m.Bounds()
	if min != math3d.V3(-1, -2, 2) {
		t.Errorf("min = %v", min)
	}
	if max != math3d.V3(3, 5, 4) {
		t.Errorf("max = %v", max)
	}
	if c := m.Center(); c != math3d.V3(1, 1.5, 3) {
		t.Errorf("center = %v", c)
	}
	if s := m.Size(); s != math3d.V3(4, 7, 2) {
		t.Errorf("size = %v", s)
	}
}

func TestCubeMesh(t *testing.T) {
	m := NewCubeMesh(0xFFABCDEF)
	if m.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", m.VertexCount())
	}
	if m.FaceCount() != 12 {
		t.Errorf("faces = %d, want 12", m.FaceCount())
	}

	for i, f := range m.Faces {
		for _, idx := range []int{f.A, f.B, f.C} {
			if idx < 1 || idx > 8 {
				t.Fatalf("face %d has out-of-range index %d", i, idx)
			}
		}
		if f.Color != 0xFFABCDEF {
			t.Fatalf("face %d color = %#x", i, f.Color)
		}
	}

	min, max := m.Bounds()
	if min != math3d.V3(-1, -1, -1) || max != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v, want unit cube", min, max)
	}
}

func TestFaceVertices(t *testing.T) {
	m := NewCubeMesh(DefaultFaceColor)
	a, b, c := m.FaceVertices(0)
	// First face is 1-2-3 in the table, 1-based.
	if a != m.Vertices[0] || b != m.Vertices[1] || c != m.Vertices[2] {
		t.Errorf("FaceVertices(0) = %v %v %v", a, b, c)
	}
}
