package geom

import "github.com/taigrr/pathtrace/pkg/math3d"

// Transform is a cached affine transform pair: the forward matrix plus
// its precomputed inverse, so that world<->local conversions never
// repeat a 4x4 inverse. Adapted from the teacher's math3d.Mat4, which
// already implements the cofactor-expansion Inverse used here once at
// construction time.
type Transform struct {
	M    math3d.Mat4
	MInv math3d.Mat4
}

// NewTransform wraps m, computing and caching its inverse.
func NewTransform(m math3d.Mat4) Transform {
	return Transform{M: m, MInv: m.Inverse()}
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: math3d.Identity(), MInv: math3d.Identity()}
}

// Inverse returns the transform with forward/inverse swapped, so that
// Inverse().Point == the original's InversePoint.
func (t Transform) Inverse() Transform {
	return Transform{M: t.MInv, MInv: t.M}
}

// Compose returns a transform equivalent to applying t first, then o
// (o.M * t.M), matching the column-major Mat4.Mul convention.
func (t Transform) Compose(o Transform) Transform {
	return Transform{M: o.M.Mul(t.M), MInv: t.MInv.Mul(o.MInv)}
}

// Point transforms a point by the forward matrix (applies translation).
func (t Transform) Point(p math3d.Vec3) math3d.Vec3 {
	return t.M.MulVec3(p)
}

// InversePoint transforms a point by the inverse matrix.
func (t Transform) InversePoint(p math3d.Vec3) math3d.Vec3 {
	return t.MInv.MulVec3(p)
}

// Vector transforms a direction by the forward matrix (no translation).
func (t Transform) Vector(v math3d.Vec3) math3d.Vec3 {
	return t.M.MulVec3Dir(v)
}

// InverseVector transforms a direction by the inverse matrix.
func (t Transform) InverseVector(v math3d.Vec3) math3d.Vec3 {
	return t.MInv.MulVec3Dir(v)
}

// Normal transforms a surface normal correctly under non-uniform
// scale: by the inverse-transpose of the forward matrix, i.e. the
// transpose of the cached inverse.
func (t Transform) Normal(n math3d.Vec3) math3d.Vec3 {
	return t.MInv.Transpose().MulVec3Dir(n)
}

// Ray transforms a ray into the space defined by t (applies the
// forward matrix to the origin and direction, preserving MinT/MaxT).
func (t Transform) Ray(r Ray) Ray {
	r.Origin = t.Point(r.Origin)
	r.Direction = t.Vector(r.Direction)
	return r
}

// InverseRay transforms a ray by the inverse matrix.
func (t Transform) InverseRay(r Ray) Ray {
	r.Origin = t.InversePoint(r.Origin)
	r.Direction = t.InverseVector(r.Direction)
	return r
}

// Box returns the axis-aligned bounding box of b after transformation,
// computed by transforming all eight corners and taking their union —
// the standard technique since an OBB doesn't fit the BVH's AABB nodes.
func (t Transform) Box(b BoundingBox3f) BoundingBox3f {
	out := EmptyBox()
	for i := range 8 {
		corner := math3d.V3(
			pick(i&1 != 0, b.Min.X, b.Max.X),
			pick(i&2 != 0, b.Min.Y, b.Max.Y),
			pick(i&4 != 0, b.Min.Z, b.Max.Z),
		)
		out = out.UnionPoint(t.Point(corner))
	}
	return out
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return b
	}
	return a
}
