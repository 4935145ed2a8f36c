package meshio

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// LoadGLTF reads a glTF or GLB file's triangle geometry into a
// shape.Mesh, reusing the teacher's github.com/qmuntal/gltf dependency
// (pkg/models/gltf.go) for document/accessor access but retargeting
// the accumulation into shape.MeshVertex/Face instead of
// models.Mesh, and dropping the rasterizer-specific winding reversal
// and screen-space Y-flip that existed only to match that renderer's
// clip-space convention — a path-traced shape.Mesh has no such
// convention to satisfy.
func LoadGLTF(path string) (*shape.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, rterror.NewIO(path, err)
	}

	m := shape.NewMesh(filepath.Base(path))
	haveNormals := false

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: positions: %v", path, err), nil)
			}

			var normals []math3d.Vec3
			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = readVec3Accessor(doc, idx)
				if err != nil {
					return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: normals: %v", path, err), nil)
				}
			}

			var uvs []math3d.Vec2
			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = readVec2Accessor(doc, idx)
				if err != nil {
					return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: texcoords: %v", path, err), nil)
				}
			}

			base := len(m.Vertices)
			for i := range positions {
				v := shape.MeshVertex{Position: positions[i]}
				if i < len(normals) {
					v.Normal = normals[i]
					haveNormals = true
				}
				if i < len(uvs) {
					// glTF's UV origin is top-left (v=0 at the top);
					// pkg/texture's Sample expects v=0 at the bottom.
					v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
				}
				m.Vertices = append(m.Vertices, v)
			}

			var indices []int
			if prim.Indices != nil {
				indices, err = readIndexAccessor(doc, *prim.Indices)
				if err != nil {
					return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: indices: %v", path, err), nil)
				}
			} else {
				indices = make([]int, len(positions))
				for i := range indices {
					indices[i] = i
				}
			}
			for i := 0; i+2 < len(indices); i += 3 {
				m.Faces = append(m.Faces, shape.Face{V: [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]}})
			}
		}
	}

	if !haveNormals {
		m.CalculateSmoothNormals()
	}
	return m, nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", acc.Type)
	}
	raw, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := i * stride
		out[i] = math3d.V3(
			float64(readFloat32(raw[off:])),
			float64(readFloat32(raw[off+4:])),
			float64(readFloat32(raw[off+8:])),
		)
	}
	return out, nil
}

func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", acc.Type)
	}
	raw, stride, err := accessorBytes(doc, acc, 8)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := i * stride
		out[i] = math3d.V2(float64(readFloat32(raw[off:])), float64(readFloat32(raw[off+4:])))
	}
	return out, nil
}

func readIndexAccessor(doc *gltf.Document, accessorIdx int) ([]int, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR, got %v", acc.Type)
	}

	var compSize int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		compSize = 1
	case gltf.ComponentUshort:
		compSize = 2
	case gltf.ComponentUint:
		compSize = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", acc.ComponentType)
	}

	raw, stride, err := accessorBytes(doc, acc, compSize)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := i * stride
		switch compSize {
		case 1:
			out[i] = int(raw[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(raw[off:]))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(raw[off:]))
		}
	}
	return out, nil
}

// accessorBytes resolves accessor's backing buffer view and returns
// the raw bytes from its first element onward plus its element
// stride (falling back to defaultElemSize when the buffer view is
// tightly packed, per glTF's byteStride-omitted convention).
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, defaultElemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("external glTF buffers are not supported")
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = defaultElemSize
	}
	start := bv.ByteOffset + acc.ByteOffset
	return buf.Data[start:], stride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
