// Package geom holds the core geometric data types shared by every
// shape, the BVH, the scene intersector, and the integrators: rays,
// hits, bounding boxes, affine transforms, and discrete PDFs over
// weighted items (used for area-proportional face sampling).
package geom

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Epsilon is the small tolerance used throughout the renderer to
// reject below-horizon samples, near-zero PDFs, and self-intersection
// at ray origins.
const Epsilon = 1e-4

// Ray is a camera or secondary ray in world (or shape-local) space.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
	// MinT/MaxT bound the valid parametric range, mirroring the
	// teacher's near/far clip planes but for ray-geometry intersection
	// rather than rasterizer clipping.
	MinT, MaxT float64
	Depth      int
	ShadowRay  bool
}

// NewRay builds a ray with the default [Epsilon, +Inf) parametric range.
func NewRay(origin, direction math3d.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, MinT: Epsilon, MaxT: math.Inf(1)}
}

// At evaluates the ray at parameter t.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// WithDepth returns a copy of r with an updated recursion depth.
func (r Ray) WithDepth(depth int) Ray {
	r.Depth = depth
	return r
}

// AsShadowRay returns a copy of r marked as an occlusion-only query.
func (r Ray) AsShadowRay(maxT float64) Ray {
	r.ShadowRay = true
	r.MaxT = maxT
	return r
}
