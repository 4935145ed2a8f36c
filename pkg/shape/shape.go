// Package shape implements the renderable primitives — meshes,
// spheres, quads, disks — each able to intersect a ray in its own
// local space, report its world-space bounding box, and draw a
// uniform-area sample of its surface for direct lighting.
package shape

import (
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// SurfaceSample is the result of sampling a point on a shape's
// surface proportional to area, used by area lights.
type SurfaceSample struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
	Pdf    float64 // with respect to surface area
}

// Shape is anything a scene can intersect rays against and, for area
// lights, sample a point from. Grounded on original_source's
// shape.h (intersect/sample/area/getBoundingBox).
type Shape interface {
	// Intersect tests the shape against a world-space ray, updating
	// hit in place if a closer intersection is found and returning
	// true in that case. Shadow rays (r.ShadowRay) may skip computing
	// the shading frame/UV once occlusion is established.
	Intersect(r geom.Ray, hit *geom.Hit) bool

	// BoundingBox returns the shape's world-space AABB.
	BoundingBox() geom.BoundingBox3f

	// Area returns the shape's total world-space surface area.
	Area() float64

	// Sample draws a uniform-area point on the shape's surface.
	Sample(u math3d.Vec2) SurfaceSample
}
