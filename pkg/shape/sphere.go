package shape

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Sphere is a sphere of radius Radius, centered at the origin, in
// its own local space, placed in the scene by Xfm. Grounded on
// original_source/src/shapes/sphere.cpp.
type Sphere struct {
	Radius float64
	Xfm    geom.Transform
}

// NewSphere returns a sphere of the given radius under xfm.
func NewSphere(radius float64, xfm geom.Transform) *Sphere {
	return &Sphere{Radius: radius, Xfm: xfm}
}

func (s *Sphere) Intersect(r geom.Ray, hit *geom.Hit) bool {
	local := s.Xfm.InverseRay(r)

	b := 2 * local.Direction.Dot(local.Origin)
	c := local.Origin.Dot(local.Origin) - s.Radius*s.Radius
	discr := b*b - 4*c
	if discr < 0 {
		return false
	}
	sq := math.Sqrt(discr)
	t := 0.5 * (-b - sq)
	if t < geom.Epsilon {
		t = 0.5 * (-b + sq)
	}
	if t < geom.Epsilon {
		return false
	}

	localPoint := local.At(t)
	worldPoint := s.Xfm.Point(localPoint)
	tWorld := worldT(r, worldPoint)
	if tWorld < geom.Epsilon || tWorld >= hit.T {
		return false
	}

	hit.T = tWorld
	if r.ShadowRay {
		return true
	}

	n := s.Xfm.Normal(localPoint).Normalize()
	x := math3d.V3(0, 1, 0).Sub(math3d.V3(0, 1, 0).Scale(math3d.V3(0, 1, 0).Dot(n))).Normalize()
	y := n.Cross(x)
	hit.Frame = math3d.NewFrame(x, y, n)

	phi := math.Atan2(localPoint.Y, localPoint.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(clamp(localPoint.Z/s.Radius, -1, 1))
	hit.UV = math3d.V2(phi/(2*math.Pi), theta/math.Pi)
	return true
}

func (s *Sphere) BoundingBox() geom.BoundingBox3f {
	r := math3d.V3(s.Radius, s.Radius, s.Radius)
	local := geom.BoundingBox3f{Min: r.Scale(-1), Max: r}
	return s.Xfm.Box(local)
}

func (s *Sphere) Area() float64 {
	// Scales 4*pi*r^2 by the squared length of the transformed X axis
	// only, which is exact when Xfm is rigid or uniformly scaled; a
	// non-uniform scale is not accounted for.
	scale := s.Xfm.Vector(math3d.V3(1, 0, 0)).Len()
	return 4 * math.Pi * s.Radius * s.Radius * scale * scale
}

func (s *Sphere) Sample(u math3d.Vec2) SurfaceSample {
	pos := math3d.SquareToUniformSphere(u)
	pdf := 1 / s.Area()
	pos = pos.Scale(s.Radius)
	worldPos := s.Xfm.Point(pos)
	worldNormal := s.Xfm.Normal(pos).Normalize()
	return SurfaceSample{Point: worldPos, Normal: worldNormal, Pdf: pdf}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// worldT recovers the ray parameter t along r (in world space) that
// reaches worldPoint, without ever comparing against another shape's
// inverse-transformed hit — each shape resolves its own t independently
// so no shape's local parametrization leaks into another's.
func worldT(r geom.Ray, worldPoint math3d.Vec3) float64 {
	d := r.Direction
	denom := d.Dot(d)
	if denom == 0 {
		return math.Inf(1)
	}
	return worldPoint.Sub(r.Origin).Dot(d) / denom
}
