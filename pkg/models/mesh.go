// Package models provides mesh storage and loading for softrast.
package models

import (
	"github.com/softrast/softrast/pkg/math3d"
)

// DefaultFaceColor is the ARGB color assigned to faces whose source carries
// no material information.
const DefaultFaceColor uint32 = 0xFFFFFFFF

// Face is a triangle: three 1-based indices into the mesh vertex array,
// a texture coordinate per corner, and an ARGB face color.
type Face struct {
	A, B, C       int
	AUV, BUV, CUV math3d.Vec2
	Color         uint32
}

// Mesh holds an indexed triangle mesh together with its mutable placement.
// Vertices and Faces are filled at load time and not modified afterwards;
// Scale, Rotation and Translation are driven by input between frames.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	Scale       math3d.Vec3
	Rotation    math3d.Vec3
	Translation math3d.Vec3
}

// NewMesh creates an empty mesh with unit scale.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:  name,
		Scale: math3d.V3(1, 1, 1),
	}
}

// WorldMatrix builds the object-to-world transform T · Rz · Ry · Rx · S,
// so scale applies first and translation last.
func (m *Mesh) WorldMatrix() math3d.Mat4 {
	w := math3d.Scale(m.Scale.X, m.Scale.Y, m.Scale.Z)
	w = math3d.RotateX(m.Rotation.X).Mul(w)
	w = math3d.RotateY(m.Rotation.Y).Mul(w)
	w = math3d.RotateZ(m.Rotation.Z).Mul(w)
	return math3d.Translate(m.Translation.X, m.Translation.Y, m.Translation.Z).Mul(w)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangle faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// FaceVertices returns the three corner positions of face i.
// Face indices are 1-based.
func (m *Mesh) FaceVertices(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f.A-1], m.Vertices[f.B-1], m.Vertices[f.C-1]
}

// Bounds returns the axis-aligned bounding box of the vertex array in
// object space.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	min, max := m.Bounds()
	return max.Sub(min)
}

// Cube vertex/face tables for the built-in demo mesh. Winding is clockwise
// when viewed from outside, matching the pipeline's culling convention.
var cubeVertices = []math3d.Vec3{
	{X: -1, Y: -1, Z: -1}, // 1
	{X: -1, Y: 1, Z: -1},  // 2
	{X: 1, Y: 1, Z: -1},   // 3
	{X: 1, Y: -1, Z: -1},  // 4
	{X: 1, Y: 1, Z: 1},    // 5
	{X: 1, Y: -1, Z: 1},   // 6
	{X: -1, Y: 1, Z: 1},   // 7
	{X: -1, Y: -1, Z: 1},  // 8
}

var cubeFaces = [][3]int{
	{1, 2, 3}, {1, 3, 4}, // front
	{4, 3, 5}, {4, 5, 6}, // right
	{6, 5, 7}, {6, 7, 8}, // back
	{8, 7, 2}, {8, 2, 1}, // left
	{2, 7, 5}, {2, 5, 3}, // top
	{6, 8, 1}, {6, 1, 4}, // bottom
}

// NewCubeMesh returns the built-in unit cube with per-face UVs, used when no
// model file is given.
func NewCubeMesh(color uint32) *Mesh {
	m := NewMesh("cube")
	m.Vertices = append(m.Vertices, cubeVertices...)

	uv0 := math3d.V2(0, 0)
	uv1 := math3d.V2(0, 1)
	uv2 := math3d.V2(1, 1)
	uv3 := math3d.V2(1, 0)
	for i, f := range cubeFaces {
		face := Face{A: f[0], B: f[1], C: f[2], Color: color}
		if i%2 == 0 {
			face.AUV, face.BUV, face.CUV = uv0, uv1, uv2
		} else {
			face.AUV, face.BUV, face.CUV = uv0, uv2, uv3
		}
		m.Faces = append(m.Faces, face)
	}
	return m
}
