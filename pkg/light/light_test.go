package light

import (
	"math"
	"testing"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/shape"
	"github.com/taigrr/pathtrace/pkg/texture"
)

func TestPointLightFalloff(t *testing.T) {
	p := NewPoint(color.White, math3d.V3(0, 2, 0))
	s := p.SampleLi(math3d.V3(0, 0, 0), math3d.Zero2())
	if math.Abs(s.Distance-2) > 1e-9 {
		t.Fatalf("got distance=%v, want 2", s.Distance)
	}
	want := 1.0 / 4.0 // 1/d^2
	if math.Abs(s.Radiance.R-want) > 1e-9 {
		t.Fatalf("got radiance=%v, want %v", s.Radiance.R, want)
	}
	if !p.IsDelta() {
		t.Fatal("point light must be a delta light")
	}
}

func TestDirectionalLightNoFalloff(t *testing.T) {
	d := NewDirectional(color.White, math3d.V3(0, -1, 0))
	s := d.SampleLi(math3d.V3(100, 100, 100), math3d.Zero2())
	if s.Radiance != color.White {
		t.Fatalf("got %+v, want full intensity regardless of distance", s.Radiance)
	}
	if s.Wi.Y <= 0 {
		t.Fatalf("got wi=%+v, want it pointing back toward the source (+Y)", s.Wi)
	}
}

func TestAreaLightBacksideIsBlack(t *testing.T) {
	q := shape.NewQuad(math3d.V2(2, 2), geom.Identity()) // normal +Z in local/world space
	a := NewArea(q, color.White, false)

	// Reference point behind the quad (at -Z): the light's normal points
	// away from it, so a one-sided area light should contribute nothing.
	behind := math3d.V3(0, 0, -5)
	total := color.Black
	for i := range 64 {
		u := math3d.V2(float64(i)/64, math.Mod(float64(i)*0.37, 1))
		s := a.SampleLi(behind, u)
		total = total.Add(s.Radiance.Scale(boolToFloat(s.Pdf > 0)))
	}
	if !total.IsBlack() {
		t.Fatalf("expected a one-sided area light to contribute nothing from behind, got %+v", total)
	}
}

func TestAreaLightFrontsideContributes(t *testing.T) {
	q := shape.NewQuad(math3d.V2(2, 2), geom.Identity())
	a := NewArea(q, color.White, false)

	front := math3d.V3(0, 0, 5)
	anyPositivePdf := false
	for i := range 64 {
		u := math3d.V2(float64(i)/64, math.Mod(float64(i)*0.37, 1))
		s := a.SampleLi(front, u)
		if s.Pdf > 0 {
			anyPositivePdf = true
		}
	}
	if !anyPositivePdf {
		t.Fatal("expected at least one sample with positive pdf from the front side")
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func TestInfiniteLightPdfZeroNearPoles(t *testing.T) {
	tex := texture.New(4, 4)
	probe := texture.NewLightProbe(tex)
	inf := NewInfinite(geom.Identity(), probe)

	// u.Y near 0 or 1 drives theta near 0 or pi, where sinTheta -> 0.
	// theta = pi*u.Y, so u.Y = 1e-5 gives sinTheta ~3.1e-5, below
	// geom.Epsilon (1e-4).
	s := inf.SampleLi(math3d.V3(0, 0, 0), math3d.V2(0.5, 0.00001))
	if s.Pdf != 0 {
		t.Fatalf("got pdf=%v near a pole, want exactly 0 (caller must skip rather than divide)", s.Pdf)
	}
}

func TestInfiniteLightPdfPositiveAtEquator(t *testing.T) {
	tex := texture.New(4, 4)
	probe := texture.NewLightProbe(tex)
	inf := NewInfinite(geom.Identity(), probe)

	s := inf.SampleLi(math3d.V3(0, 0, 0), math3d.V2(0.5, 0.5))
	if s.Pdf <= 0 {
		t.Fatalf("got pdf=%v at the equator, want > 0", s.Pdf)
	}
}
