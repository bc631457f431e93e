package render

import (
	"github.com/softrast/softrast/pkg/math3d"
)

// Camera holds the eye position and orientation angles.
type Camera struct {
	Position math3d.Vec3
	Yaw      float32 // rotation around Y (look left/right)
	Pitch    float32 // rotation around X (look up/down)
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{}
}

// LookAtView builds a view matrix aiming the camera at target, with the
// world up vector as pivot.
func (c *Camera) LookAtView(target math3d.Vec3) math3d.Mat4 {
	return math3d.LookAt(target, c.Position, math3d.Up())
}

// AnglesView builds a view matrix from the yaw/pitch angles: the camera
// basis is the world basis rotated by yaw around Y and pitch around X, and
// the view matrix is its transpose composed with the translation by
// -Position.
func (c *Camera) AnglesView() math3d.Mat4 {
	yawRot := math3d.RotateY(c.Yaw)
	pitchRot := math3d.RotateX(c.Pitch)

	i := yawRot.MulVec3Dir(math3d.Right())
	j := pitchRot.MulVec3Dir(math3d.Up())
	k := pitchRot.MulVec3Dir(yawRot.MulVec3Dir(math3d.Forward()))

	rInv := math3d.Mat4{
		i.X, i.Y, i.Z, 0,
		j.X, j.Y, j.Z, 0,
		k.X, k.Y, k.Z, 0,
		0, 0, 0, 1,
	}
	t := math3d.Translate(-c.Position.X, -c.Position.Y, -c.Position.Z)
	return rInv.Mul(t)
}

// OrbitAround rotates the camera position around a pivot point by the given
// yaw and pitch deltas, keeping the distance to the pivot constant. Used for
// mouse-drag orbiting.
func (c *Camera) OrbitAround(pivot math3d.Vec3, dYaw, dPitch float32) {
	mYaw := math3d.RotateAround(pivot, 0, dYaw, 0)
	mPitch := math3d.RotateAround(pivot, dPitch, 0, 0)
	m := mYaw.Mul(mPitch)
	c.Position = m.MulVec4(math3d.V4FromV3(c.Position, 1)).Vec3()
}
