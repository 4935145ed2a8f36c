package meshio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// LoadOBJ reads a Wavefront OBJ mesh, mirroring
// original_source/src/shapes/mesh.cpp's Mesh::loadOBJ: every face
// corner becomes its own MeshVertex (no index-sharing across faces),
// matching tinyobj_loader's per-corner vertex push there. Triangulates
// any polygonal face by fanning from its first corner. No OBJ library
// turned up anywhere in the example pack (the teacher's own stack
// reaches for a glTF library, not an OBJ one), so this is hand-rolled
// line-oriented parsing, same register as LoadOFF.
func LoadOBJ(path string) (*shape.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterror.NewIO(path, err)
	}
	defer f.Close()

	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var texcoords []math3d.Vec2

	m := shape.NewMesh(filepath.Base(path))
	haveNormals := false

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: %v", path, lineNo, err), nil)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: %v", path, lineNo, err), nil)
			}
			normals = append(normals, n)
		case "vt":
			if len(fields) < 3 {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: malformed texcoord", path, lineNo), nil)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: malformed texcoord", path, lineNo), nil)
			}
			texcoords = append(texcoords, math3d.V2(u, v))
		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: face needs at least 3 vertices", path, lineNo), nil)
			}
			base := len(m.Vertices)
			for _, c := range corners {
				vtx, hasNormal, err := resolveCorner(c, positions, normals, texcoords)
				if err != nil {
					return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s:%d: %v", path, lineNo, err), nil)
				}
				haveNormals = haveNormals || hasNormal
				m.Vertices = append(m.Vertices, vtx)
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Faces = append(m.Faces, shape.Face{V: [3]int{base, base + i, base + i + 1}})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, rterror.NewIO(path, err)
	}

	if !haveNormals {
		m.CalculateSmoothNormals()
	}
	return m, nil
}

// resolveCorner parses an OBJ face-corner token ("v", "v/vt", or
// "v/vt/vn", 1-indexed, negative indices counting from the end) into a
// fully-populated MeshVertex.
func resolveCorner(tok string, positions, normals []math3d.Vec3, texcoords []math3d.Vec2) (shape.MeshVertex, bool, error) {
	parts := strings.Split(tok, "/")
	vi, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return shape.MeshVertex{}, false, fmt.Errorf("vertex index: %w", err)
	}
	vtx := shape.MeshVertex{Position: positions[vi]}

	hasNormal := false
	if len(parts) >= 2 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(texcoords))
		if err != nil {
			return shape.MeshVertex{}, false, fmt.Errorf("texcoord index: %w", err)
		}
		vtx.UV = texcoords[ti]
	}
	if len(parts) >= 3 && parts[2] != "" {
		ni, err := resolveIndex(parts[2], len(normals))
		if err != nil {
			return shape.MeshVertex{}, false, fmt.Errorf("normal index: %w", err)
		}
		vtx.Normal = normals[ni]
		hasNormal = true
	}
	return vtx, hasNormal, nil
}

// resolveIndex converts a 1-based (or negative, relative-to-end) OBJ
// index string into a 0-based slice index.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = count + n
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index %s out of range (count %d)", s, count)
	}
	return n, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return math3d.Vec3{}, fmt.Errorf("malformed vector %v", fields[:3])
	}
	return math3d.V3(x, y, z), nil
}
