package light

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/texture"
)

// Infinite is an environment light sampled from a LightProbe,
// uniform over the sphere of directions by (theta, phi). Grounded on
// original_source/src/lights/infiniteLight.cpp, whose sample() sets
// pdf=0 near the poles (sinTheta <= Epsilon) without the caller ever
// checking that before using it as a divisor — here Pdf is returned
// explicitly and SampleLi's caller (the direct/whitted integrators)
// must skip the contribution whenever Pdf is at or below 0, the fix
// spec.md §9 calls for instead of silently producing Inf/NaN.
type Infinite struct {
	Xfm    geom.Transform
	Envmap *texture.LightProbe
}

func NewInfinite(xfm geom.Transform, envmap *texture.LightProbe) *Infinite {
	return &Infinite{Xfm: xfm, Envmap: envmap}
}

// sphericalDirection converts spherical angles to a unit direction in
// the probe's local frame, matching the original's sphericalDirection
// helper (theta measured from +Y, phi around Y).
func sphericalDirection(theta, phi float64) math3d.Vec3 {
	sinTheta := math.Sin(theta)
	return math3d.V3(sinTheta*math.Cos(phi), math.Cos(theta), sinTheta*math.Sin(phi))
}

func (inf *Infinite) SampleLi(x math3d.Vec3, u math3d.Vec2) Sample {
	theta := u.Y * math.Pi
	phi := u.X * 2 * math.Pi
	localDir := sphericalDirection(theta, phi)
	wi := inf.Xfm.Vector(localDir).Normalize()

	sinTheta := math.Sin(theta)
	pdf := 0.0
	if sinTheta > geom.Epsilon {
		pdf = 1 / (2 * math.Pi * math.Pi * sinTheta)
	}

	return Sample{
		Wi:       wi,
		Distance: math.MaxFloat64,
		Pdf:      pdf,
		Radiance: inf.Envmap.Eval(localDir),
	}
}

func (inf *Infinite) IsDelta() bool { return false }

// Intensity returns the radiance arriving from world-space direction
// d for a ray that escapes the scene, converting to the probe's local
// frame first.
func (inf *Infinite) Intensity(d math3d.Vec3) color.RGB {
	return inf.Envmap.Eval(inf.Xfm.InverseVector(d))
}
