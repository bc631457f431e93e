package math3d

import (
	"testing"

	"github.com/chewxy/math32"
)

const testEpsilon = 1e-5

func nearEq(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func vec3NearEq(a, b Vec3, eps float32) bool {
	return nearEq(a.X, b.X, eps) && nearEq(a.Y, b.Y, eps) && nearEq(a.Z, b.Z, eps)
}

func vec4NearEq(a, b Vec4, eps float32) bool {
	return nearEq(a.X, b.X, eps) && nearEq(a.Y, b.Y, eps) &&
		nearEq(a.Z, b.Z, eps) && nearEq(a.W, b.W, eps)
}

func TestIdentityMulVec4(t *testing.T) {
	id := Identity()
	vectors := []Vec4{
		{0, 0, 0, 1},
		{1, 2, 3, 1},
		{-4.5, 0.25, 1e6, 0},
		{0.1, -0.2, 0.3, -0.4},
	}
	for _, v := range vectors {
		if got := id.MulVec4(v); got != v {
			t.Errorf("Identity · %v = %v, want bit-exact input", v, got)
		}
	}
}

func TestTranslateScale(t *testing.T) {
	v := V4(1, 2, 3, 1)

	got := Translate(10, -5, 2).MulVec4(v)
	if !vec4NearEq(got, V4(11, -3, 5, 1), testEpsilon) {
		t.Errorf("Translate: got %v", got)
	}

	got = Scale(2, 3, 4).MulVec4(v)
	if !vec4NearEq(got, V4(2, 6, 12, 1), testEpsilon) {
		t.Errorf("Scale: got %v", got)
	}

	// Scale applies before translation in T·S.
	got = Translate(1, 0, 0).Mul(Scale(2, 2, 2)).MulVec4(v)
	if !vec4NearEq(got, V4(3, 4, 6, 1), testEpsilon) {
		t.Errorf("T·S: got %v", got)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec4
		want Vec4
	}{
		{"x 90° sends y to z", RotateX(math32.Pi / 2), V4(0, 1, 0, 1), V4(0, 0, 1, 1)},
		{"y 90° sends z to x", RotateY(math32.Pi / 2), V4(0, 0, 1, 1), V4(1, 0, 0, 1)},
		{"z 90° sends x to y", RotateZ(math32.Pi / 2), V4(1, 0, 0, 1), V4(0, 1, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.MulVec4(tc.in); !vec4NearEq(got, tc.want, testEpsilon) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	m := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	mt := m.Transpose()
	for row := range 4 {
		for col := range 4 {
			if mt.Get(row, col) != m.Get(col, row) {
				t.Fatalf("transpose mismatch at (%d,%d)", row, col)
			}
		}
	}
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should restore the matrix")
	}
}

func TestLookAtIdentityCase(t *testing.T) {
	v := LookAt(V3(0, 0, 1), Zero3(), Up())
	id := Identity()
	for i := range v {
		if !nearEq(v[i], id[i], testEpsilon) {
			t.Fatalf("LookAt((0,0,1), origin, up) = %v, want identity", v)
		}
	}
}

func TestLookAtPlacesTargetAhead(t *testing.T) {
	// Eye at (0,0,5) looking back at the origin: the origin ends up 5 units
	// down the forward axis.
	v := LookAt(Zero3(), V3(0, 0, 5), Up())
	got := v.MulVec4(V4(0, 0, 0, 1))
	if !vec4NearEq(got, V4(0, 0, 5, 1), testEpsilon) {
		t.Errorf("V · origin = %v, want (0,0,5,1)", got)
	}

	// The eye itself maps to the view-space origin.
	got = v.MulVec4(V4(0, 0, 5, 1))
	if !vec4NearEq(got, V4(0, 0, 0, 1), testEpsilon) {
		t.Errorf("V · eye = %v, want origin", got)
	}
}

func TestLookAtRotationOrthonormal(t *testing.T) {
	eyes := []Vec3{
		{X: 0, Y: 0, Z: 5},
		{X: 3, Y: 2, Z: -4},
		{X: -1, Y: 7, Z: 0.5},
	}
	for _, eye := range eyes {
		v := LookAt(Zero3(), eye, Up())

		// Extract the rotation rows and verify R·Rᵀ = I.
		rows := [3]Vec3{
			{X: v[0], Y: v[1], Z: v[2]},
			{X: v[4], Y: v[5], Z: v[6]},
			{X: v[8], Y: v[9], Z: v[10]},
		}
		for i := range 3 {
			for j := range 3 {
				want := float32(0)
				if i == j {
					want = 1
				}
				if got := rows[i].Dot(rows[j]); !nearEq(got, want, testEpsilon) {
					t.Errorf("eye %v: row%d · row%d = %v, want %v", eye, i, j, got, want)
				}
			}
		}
	}
}

func TestLookAtDegeneratePivot(t *testing.T) {
	// Forward parallel to the pivot: the fallback basis must keep the
	// matrix finite.
	v := LookAt(V3(0, 10, 0), Zero3(), Up())
	for i, x := range v {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			t.Fatalf("element %d is not finite: %v", i, x)
		}
	}

	// The rotation should still be orthonormal.
	rows := [3]Vec3{
		{X: v[0], Y: v[1], Z: v[2]},
		{X: v[4], Y: v[5], Z: v[6]},
		{X: v[8], Y: v[9], Z: v[10]},
	}
	for i := range 3 {
		if !nearEq(rows[i].Len(), 1, testEpsilon) {
			t.Errorf("row %d length = %v, want 1", i, rows[i].Len())
		}
	}
}

func TestPerspectiveRoundTrip(t *testing.T) {
	const (
		w, h = 800, 600
		zn   = float32(1)
		zf   = float32(300)
	)
	fov := math32.Pi / 2
	p := Perspective(fov, w, h, zn, zf)

	aspect := float32(w) / float32(h)
	tanV := math32.Tan(fov / 2)

	// Sample points across the visible volume, staying slightly inside the
	// boundary planes.
	for _, zFrac := range []float32{0.001, 0.25, 0.5, 0.999} {
		z := zn + zFrac*(zf-zn)
		for _, xf := range []float32{-0.99, 0, 0.99} {
			for _, yf := range []float32{-0.99, 0, 0.99} {
				view := V4(xf*z*tanV*aspect, yf*z*tanV, z, 1)
				clip := p.MulVec4(view)
				if clip.W == 0 {
					t.Fatalf("w = 0 for %v", view)
				}
				ndc := clip.PerspectiveDivide()

				const eps = 1e-4
				if ndc.X < -1-eps || ndc.X > 1+eps || ndc.Y < -1-eps || ndc.Y > 1+eps {
					t.Errorf("view %v: ndc xy (%v, %v) out of [-1,1]", view, ndc.X, ndc.Y)
				}
				if ndc.Z < -eps || ndc.Z > 1+eps {
					t.Errorf("view %v: ndc z %v out of [0,1]", view, ndc.Z)
				}
			}
		}
	}

	// Near plane maps to 0, far plane to 1.
	near := p.MulVec4(V4(0, 0, zn, 1)).PerspectiveDivide()
	if !nearEq(near.Z, 0, 1e-4) {
		t.Errorf("z(zn) = %v, want 0", near.Z)
	}
	far := p.MulVec4(V4(0, 0, zf, 1)).PerspectiveDivide()
	if !nearEq(far.Z, 1, 1e-4) {
		t.Errorf("z(zf) = %v, want 1", far.Z)
	}
}

func TestOrthographicDepthRange(t *testing.T) {
	p := Orthographic(math32.Pi/2, 800, 600, 1, 300)

	near := p.MulVec4(V4(0, 0, 1, 1))
	if near.W != 1 {
		t.Fatalf("orthographic w = %v, want 1", near.W)
	}
	if !nearEq(near.Z, 0, 1e-5) {
		t.Errorf("z(zn) = %v, want 0", near.Z)
	}

	far := p.MulVec4(V4(0, 0, 300, 1))
	if !nearEq(far.Z, 1, 1e-5) {
		t.Errorf("z(zf) = %v, want 1", far.Z)
	}
}

func TestRotateAround(t *testing.T) {
	pivot := V3(0, 0, 8)
	m := RotateAround(pivot, 0, math32.Pi, 0)

	// A point at the pivot stays put.
	got := m.MulVec4(V4FromV3(pivot, 1)).Vec3()
	if !vec3NearEq(got, pivot, 1e-4) {
		t.Errorf("pivot moved to %v", got)
	}

	// A point offset along +x swings to -x on the far side.
	got = m.MulVec4(V4(1, 0, 8, 1)).Vec3()
	if !vec3NearEq(got, V3(-1, 0, 8), 1e-4) {
		t.Errorf("got %v, want (-1, 0, 8)", got)
	}
}

func TestMulAssociativity(t *testing.T) {
	a := RotateX(0.3)
	b := Translate(1, 2, 3)
	c := Scale(2, 2, 2)
	v := V4(0.5, -1, 2, 1)

	left := a.Mul(b).Mul(c).MulVec4(v)
	right := a.MulVec4(b.MulVec4(c.MulVec4(v)))
	if !vec4NearEq(left, right, 1e-4) {
		t.Errorf("(A·B·C)·v = %v, A·(B·(C·v)) = %v", left, right)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := RotateY(0.5).Mul(Translate(1, 2, 3))
	m2 := RotateX(0.25).Mul(Scale(2, 2, 2))
	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Perspective(math32.Pi/2, 800, 600, 1, 300)
	v := V4(1, 2, 5, 1)
	for b.Loop() {
		_ = m.MulVec4(v)
	}
}
