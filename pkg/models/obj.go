package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/softrast/softrast/pkg/math3d"
)

// LoadOBJ parses a Wavefront OBJ file into a Mesh. Only "v", "vt" and "f"
// lines are consumed; normal indices in face triplets are ignored. Texture
// coordinates are clamped to [0,1] at load (exporters occasionally emit
// values like 1.054287).
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh := NewMesh(filepath.Base(path))
	var uvs []math3d.Vec2

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "v "):
			var x, y, z float32
			if _, err := fmt.Sscanf(line[2:], "%f %f %f", &x, &y, &z); err != nil {
				return nil, fmt.Errorf("obj line %d: vertex: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, math3d.V3(x, y, z))

		case strings.HasPrefix(line, "vt "):
			var u, v float32
			if _, err := fmt.Sscanf(line[3:], "%f %f", &u, &v); err != nil {
				return nil, fmt.Errorf("obj line %d: texcoord: %w", lineNo, err)
			}
			uvs = append(uvs, math3d.V2(u, v).Clamp(0, 1))

		case strings.HasPrefix(line, "f "):
			face, err := parseFace(line[2:], uvs)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("obj %s: no vertices", path)
	}
	return mesh, nil
}

// parseFace parses three "v/vt/vn" corner references. The normal index is
// discarded; a missing texture index leaves the corner UV at (0,0).
func parseFace(s string, uvs []math3d.Vec2) (Face, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Face{}, fmt.Errorf("face: want 3 corners, got %d", len(fields))
	}

	var vi [3]int
	var uv [3]math3d.Vec2
	for i, field := range fields {
		parts := strings.Split(field, "/")
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return Face{}, fmt.Errorf("face corner %q: %w", field, err)
		}
		vi[i] = v

		if len(parts) > 1 && parts[1] != "" {
			t, err := strconv.Atoi(parts[1])
			if err != nil {
				return Face{}, fmt.Errorf("face corner %q: %w", field, err)
			}
			if t < 1 || t > len(uvs) {
				return Face{}, fmt.Errorf("face corner %q: texcoord index out of range", field)
			}
			uv[i] = uvs[t-1]
		}
	}

	return Face{
		A: vi[0], B: vi[1], C: vi[2],
		AUV: uv[0], BUV: uv[1], CUV: uv[2],
		Color: DefaultFaceColor,
	}, nil
}
