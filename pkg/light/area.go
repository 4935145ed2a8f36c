package light

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// Area emits from one face of a shape's surface, with radiance
// visible only from the side the normal faces unless TwoSided is set.
// Grounded on original_source/src/lights/areaLight.cpp — whose
// sample() declared a shadowing local "float pdf" that masked the
// out-parameter and never actually returned the converted solid-angle
// pdf (or anything else). The fix here does what that function was
// clearly meant to: sample the shape once for an area-measure pdf,
// then convert it to the solid-angle measure this interface uses
// everywhere else, exactly once.
type Area struct {
	Shape     shape.Shape
	Intensity color.RGB
	TwoSided  bool
}

func NewArea(s shape.Shape, intensity color.RGB, twoSided bool) *Area {
	return &Area{Shape: s, Intensity: intensity, TwoSided: twoSided}
}

func (a *Area) SampleLi(x math3d.Vec3, u math3d.Vec2) Sample {
	s := a.Shape.Sample(u)

	toX := x.Sub(s.Point)
	dist2 := toX.Dot(toX)
	if dist2 <= 0 {
		return Sample{}
	}
	dist := math.Sqrt(dist2)
	wi := toX.Scale(-1 / dist) // from x toward the light

	cosAtLight := s.Normal.Dot(toX.Scale(1 / dist))
	if cosAtLight <= 0 && !a.TwoSided {
		return Sample{Wi: wi, Distance: dist, Pdf: 0, Radiance: color.Black}
	}

	// Convert the shape's area-measure pdf to the solid-angle measure:
	// pdf_solid = pdf_area * dist^2 / |cos(theta_light)|.
	absCos := cosAtLight
	if absCos < 0 {
		absCos = -absCos
	}
	if absCos < 1e-9 || s.Pdf <= 0 {
		return Sample{Wi: wi, Distance: dist, Pdf: 0, Radiance: color.Black}
	}
	pdfSolid := s.Pdf * dist2 / absCos

	return Sample{Wi: wi, Distance: dist, Pdf: pdfSolid, Radiance: a.Intensity}
}

func (a *Area) IsDelta() bool { return false }

// Radiance returns the emitted radiance leaving the light's surface
// at normal n in outgoing direction w, for a ray that hit the
// light's shape directly. Grounded on AreaLight::intensity(uv,n,w).
func (a *Area) Radiance(n, w math3d.Vec3) color.RGB {
	if n.Dot(w) <= 0 && !a.TwoSided {
		return color.Black
	}
	return a.Intensity
}
