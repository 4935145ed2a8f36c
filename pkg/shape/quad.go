package shape

import (
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Quad is a rectangle (or, if Infinite is set, an unbounded plane)
// lying in the local Z=0 plane with normal +Z, sized Size.X by
// Size.Y and centered at the local origin. Grounded on
// original_source/src/shapes/quad.cpp.
type Quad struct {
	Size     math3d.Vec2
	Infinite bool
	Xfm      geom.Transform
}

func NewQuad(size math3d.Vec2, xfm geom.Transform) *Quad {
	return &Quad{Size: size, Xfm: xfm}
}

func NewInfiniteQuad(xfm geom.Transform) *Quad {
	return &Quad{Infinite: true, Xfm: xfm}
}

func (q *Quad) Intersect(r geom.Ray, hit *geom.Hit) bool {
	local := q.Xfm.InverseRay(r)
	if local.Direction.Z == 0 {
		return false
	}
	t := -local.Origin.Z / local.Direction.Z
	if t <= geom.Epsilon {
		return false
	}

	localPoint := local.At(t)
	u, v := localPoint.X, localPoint.Y
	if !q.Infinite && (u < -q.Size.X*0.5 || v < -q.Size.Y*0.5 || u > q.Size.X*0.5 || v > q.Size.Y*0.5) {
		return false
	}

	worldPoint := q.Xfm.Point(localPoint)
	tWorld := worldT(r, worldPoint)
	if tWorld < geom.Epsilon || tWorld >= hit.T {
		return false
	}

	hit.T = tWorld
	if r.ShadowRay {
		return true
	}

	n := q.Xfm.Normal(math3d.V3(0, 0, 1)).Normalize()
	hit.Frame = math3d.FrameFromNormal(n)
	if q.Infinite {
		hit.UV = math3d.V2(u, v)
	} else {
		hit.UV = math3d.V2(u/q.Size.X+0.5, v/q.Size.Y+0.5)
	}
	return true
}

func (q *Quad) BoundingBox() geom.BoundingBox3f {
	if q.Infinite {
		return geom.EmptyBox() // infinite planes never participate in the BVH
	}
	local := geom.BoundingBox3f{
		Min: math3d.V3(-q.Size.X*0.5, -q.Size.Y*0.5, -1e-5),
		Max: math3d.V3(q.Size.X*0.5, q.Size.Y*0.5, 1e-5),
	}
	return q.Xfm.Box(local)
}

func (q *Quad) Area() float64 {
	scaleX := q.Xfm.Vector(math3d.V3(1, 0, 0)).Len()
	scaleY := q.Xfm.Vector(math3d.V3(0, 1, 0)).Len()
	return q.Size.X * q.Size.Y * scaleX * scaleY
}

func (q *Quad) Sample(u math3d.Vec2) SurfaceSample {
	local := math3d.V3((u.X-0.5)*q.Size.X, (u.Y-0.5)*q.Size.Y, 0)
	worldPos := q.Xfm.Point(local)
	worldNormal := q.Xfm.Normal(math3d.V3(0, 0, 1)).Normalize()
	return SurfaceSample{Point: worldPos, Normal: worldNormal, Pdf: 1 / q.Area()}
}
