package geom

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/math3d"
)

// ShapeRef is an opaque back-reference to the shape that produced a
// Hit. It is stored as an index into the scene's shape table rather
// than a pointer, per the "represent cyclic relationships as indices"
// guidance: the BVH/shape layer doesn't know about the scene, and the
// scene is the only thing that can resolve a ShapeRef into a shape,
// its BSDF, and (if any) its attached area light.
type ShapeRef int

// NoShape is the sentinel ShapeRef meaning "no intersection" (the zero
// value, 0, is the first shape in the table).
const NoShape ShapeRef = -1

// Hit records the result of a ray/shape intersection query: the
// parametric distance, the shading UV, the orthonormal local frame at
// the intersection, and which shape produced it.
type Hit struct {
	T     float64
	UV    math3d.Vec2
	Frame math3d.Frame
	Shape ShapeRef
}

// NewHit returns a Hit with no intersection recorded (t = +Inf).
func NewHit() Hit {
	return Hit{T: math.Inf(1), Shape: NoShape}
}

// Found reports whether an intersection has been recorded.
func (h Hit) Found() bool {
	return h.Shape != NoShape
}

// Position returns the world-space hit position given the ray that
// produced it.
func (h Hit) Position(r Ray) math3d.Vec3 {
	return r.At(h.T)
}
