package math3d

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix stored in row-major order. Vectors are treated as
// columns and transformed by left-multiplication: out = M · v.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(sx, sy, sz float32) Mat4 {
	m := Identity()
	m[0] = sx
	m[5] = sy
	m[10] = sz
	return m
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float32) Mat4 {
	return Scale(s, s, s)
}

// Translate creates a translation matrix.
func Translate(tx, ty, tz float32) Mat4 {
	m := Identity()
	m[3] = tx
	m[7] = ty
	m[11] = tz
	return m
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	m := Identity()
	m[5] = c
	m[6] = -s
	m[9] = s
	m[10] = c
	return m
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	m := Identity()
	m[0] = c
	m[2] = s
	m[8] = -s
	m[10] = c
	return m
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	m := Identity()
	m[0] = c
	m[1] = -s
	m[4] = s
	m[5] = c
	return m
}

// lookAtEpsilon guards the basis construction in LookAt: when the forward
// axis is this close to parallel with the pivot, the cross product degenerates.
const lookAtEpsilon = 1e-4

// LookAt creates a view matrix placing the eye at eye and aiming the forward
// axis at target. pivot is the approximate up direction used to derive the
// camera basis; when forward is (near-)parallel to it, the world Z axis is
// substituted so the basis stays well-formed.
//
// The rotation part is orthonormal, so its inverse is its transpose; the view
// matrix is built as Rᵀ · T(-eye).
func LookAt(target, eye, pivot Vec3) Mat4 {
	z := target.Sub(eye).Normalize() // forward
	if math32.Abs(z.Dot(pivot)) >= 1-lookAtEpsilon {
		pivot = Forward()
	}
	x := pivot.Cross(z).Normalize() // right
	y := z.Cross(x)                 // up

	t := Translate(-eye.X, -eye.Y, -eye.Z)

	// Rᵀ: basis vectors as rows.
	rInv := Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		0, 0, 0, 1,
	}
	return rInv.Mul(t)
}

// Orthographic creates an orthographic projection matrix for a symmetric
// frustum with vertical field of view fov and a w×h viewport. It maps the
// visible volume to x,y in [-1,1] and z in [0,1], with zn mapping to 0 and
// zf mapping to 1.
func Orthographic(fov float32, w, h int, zn, zf float32) Mat4 {
	r := float32(h) / float32(w)
	f := 1 / math32.Tan(fov/2)
	d := 1 / (zf - zn)

	var m Mat4
	m[0] = r * f
	m[5] = f
	m[10] = d
	m[11] = -zn * d
	m[15] = 1
	return m
}

// Perspective creates a perspective projection matrix as Ortho · Shear, where
// the shear copies z into w (the w row is (0,0,1,0)) and contributes
// (zn+zf)·z - zn·zf to the z row. After dividing by w, visible points land in
// x,y ∈ [-1,1] and z ∈ [0,1].
func Perspective(fov float32, w, h int, zn, zf float32) Mat4 {
	var shear Mat4
	shear[0] = 1
	shear[5] = 1
	shear[10] = zn + zf
	shear[11] = -zn * zf
	shear[14] = 1

	return Orthographic(fov, w, h, zn, zf).Mul(shear)
}

// RotateAround creates a matrix rotating by (rx, ry, rz) about the point
// pivot instead of the origin.
func RotateAround(pivot Vec3, rx, ry, rz float32) Mat4 {
	m := Translate(pivot.X, pivot.Y, pivot.Z)
	m = m.Mul(RotateX(rx))
	m = m.Mul(RotateY(ry))
	m = m.Mul(RotateZ(rz))
	return m.Mul(Translate(-pivot.X, -pivot.Y, -pivot.Z))
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4: out = M · v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a Vec3 as a point (w=1), dividing out any projective w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]) / w,
		(m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]) / w,
		(m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]) / w,
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float32 {
	return m[row*4+col]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float32) {
	m[row*4+col] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}
