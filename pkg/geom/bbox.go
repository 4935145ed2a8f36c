package geom

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/math3d"
)

// BoundingBox3f is an axis-aligned bounding box, adapted from the
// teacher's render.AABB (pkg/render/frustum.go) which tested boxes
// against frustum planes; here the same min/max representation is
// tested against ray slabs instead.
type BoundingBox3f struct {
	Min, Max math3d.Vec3
}

// EmptyBox returns a box with Min = +Inf and Max = -Inf, the identity
// element for UnionPoint/UnionBox.
func EmptyBox() BoundingBox3f {
	inf := math.Inf(1)
	return BoundingBox3f{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// BoxFromPoint returns a zero-volume box at p.
func BoxFromPoint(p math3d.Vec3) BoundingBox3f {
	return BoundingBox3f{Min: p, Max: p}
}

// Valid reports whether the box contains any volume (Min <= Max on
// every axis).
func (b BoundingBox3f) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// UnionPoint returns the box expanded to contain p.
func (b BoundingBox3f) UnionPoint(p math3d.Vec3) BoundingBox3f {
	return BoundingBox3f{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// UnionBox returns the box expanded to contain o.
func (b BoundingBox3f) UnionBox(o BoundingBox3f) BoundingBox3f {
	return BoundingBox3f{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Extent returns Max - Min.
func (b BoundingBox3f) Extent() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Centroid returns the box's geometric center.
func (b BoundingBox3f) Centroid() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// SurfaceArea returns the total surface area of the box (0 for a
// degenerate/empty box).
func (b BoundingBox3f) SurfaceArea() float64 {
	e := b.Extent()
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return 0
	}
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LongestAxis returns 0, 1, or 2 for the box's longest dimension.
func (b BoundingBox3f) LongestAxis() int {
	e := b.Extent()
	if e.X > e.Y && e.X > e.Z {
		return 0
	}
	if e.Y > e.Z {
		return 1
	}
	return 2
}

// Axis returns the min/max component along the given axis (0=X,1=Y,2=Z).
func (b BoundingBox3f) Axis(axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

// Component returns the given axis component of v (0=X,1=Y,2=Z).
func Component(v math3d.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// RayIntersect performs the standard slab test, returning the
// intersected parametric interval [tMin, tMax] clipped to the ray's
// own [MinT, MaxT] range. ok is false if the ray misses the box
// entirely. A ray origin inside the box clamps tMin to the ray's MinT
// rather than going negative.
func (b BoundingBox3f) RayIntersect(r Ray) (tMin, tMax float64, ok bool) {
	tMin, tMax = r.MinT, r.MaxT
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	bmin := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	bmax := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := range 3 {
		if d[axis] == 0 {
			if o[axis] < bmin[axis] || o[axis] > bmax[axis] {
				return 0, 0, false
			}
			continue
		}
		invD := 1 / d[axis]
		t0 := (bmin[axis] - o[axis]) * invD
		t1 := (bmax[axis] - o[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, tMax, true
}
