// Package meshio loads triangle meshes from OBJ, OFF, and glTF/GLB
// files into shape.Mesh, mirroring
// original_source/src/shapes/mesh.cpp's loadOBJ/loadOFF dispatch (by
// file extension) while reusing the teacher's glTF stack
// (github.com/qmuntal/gltf) for the binary format it already knows how
// to read.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/pathtrace/pkg/accel"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// Load dispatches on path's extension, mirroring Mesh::loadFromFile's
// OFF/OBJ branch plus the glTF/GLB case the teacher's stack adds. The
// returned mesh has Xfm set to the identity and Build already called
// with split; callers that need a non-identity placement should set
// Xfm and call Build again themselves.
func Load(path string, split accel.SplitMethod) (*shape.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var m *shape.Mesh
	var err error

	switch ext {
	case ".off":
		m, err = LoadOFF(path)
	case ".obj":
		m, err = LoadOBJ(path)
	case ".gltf", ".glb":
		m, err = LoadGLTF(path)
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("mesh: unsupported extension %q", ext), nil)
	}
	if err != nil {
		return nil, err
	}

	if len(m.Faces) == 0 {
		return nil, shape.ErrDegenerateMesh
	}
	m.Build(split)
	return m, nil
}
