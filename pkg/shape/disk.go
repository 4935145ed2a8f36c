package shape

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Disk lies in the local Z=0 plane, normal +Z, centered at the local
// origin. Grounded on original_source/src/shapes/disk.cpp.
type Disk struct {
	Radius float64
	Xfm    geom.Transform
}

func NewDisk(radius float64, xfm geom.Transform) *Disk {
	return &Disk{Radius: radius, Xfm: xfm}
}

func (d *Disk) Intersect(r geom.Ray, hit *geom.Hit) bool {
	local := d.Xfm.InverseRay(r)
	if local.Direction.Z == 0 {
		return false
	}
	t := -local.Origin.Z / local.Direction.Z
	if t <= geom.Epsilon {
		return false
	}

	localPoint := local.At(t)
	dist2 := localPoint.X*localPoint.X + localPoint.Y*localPoint.Y
	if dist2 > d.Radius*d.Radius {
		return false
	}

	worldPoint := d.Xfm.Point(localPoint)
	tWorld := worldT(r, worldPoint)
	if tWorld < geom.Epsilon || tWorld >= hit.T {
		return false
	}

	hit.T = tWorld
	if r.ShadowRay {
		return true
	}

	n := d.Xfm.Normal(math3d.V3(0, 0, 1)).Normalize()
	hit.Frame = math3d.FrameFromNormal(n)

	phi := math.Atan2(localPoint.Y, localPoint.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	u := phi / (2 * math.Pi)
	rHit := math.Sqrt(dist2)
	v := (d.Radius - rHit) / d.Radius
	hit.UV = math3d.V2(u, v)
	return true
}

func (d *Disk) BoundingBox() geom.BoundingBox3f {
	local := geom.BoundingBox3f{
		Min: math3d.V3(-d.Radius, -d.Radius, -1e-5),
		Max: math3d.V3(d.Radius, d.Radius, 1e-5),
	}
	return d.Xfm.Box(local)
}

func (d *Disk) Area() float64 {
	scaleX := d.Xfm.Vector(math3d.V3(1, 0, 0)).Len()
	scaleY := d.Xfm.Vector(math3d.V3(0, 1, 0)).Len()
	return math.Pi * d.Radius * d.Radius * scaleX * scaleY
}

func (d *Disk) Sample(u math3d.Vec2) SurfaceSample {
	pos := math3d.SquareToUniformDisk(u)
	pdf := math3d.SquareToUniformDiskPdf(pos) / d.Area()
	local := math3d.V3(pos.X*d.Radius, pos.Y*d.Radius, 0)
	worldPos := d.Xfm.Point(local)
	worldNormal := d.Xfm.Normal(math3d.V3(0, 0, 1)).Normalize()
	return SurfaceSample{Point: worldPos, Normal: worldNormal, Pdf: pdf}
}
