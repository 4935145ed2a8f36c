package bsdf

import (
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
)

// Microfacet conforms to the BSDF interface so a scene file can
// reference it, but Eval/Pdf/Sample are left unimplemented exactly as
// original_source/src/bsdfs/microfacet.cpp throws on all three — only
// its parameters and IsDiffuse() classification carry over.
type Microfacet struct {
	Alpha          float64
	IntIOR, ExtIOR float64
	Kd             color.RGB
	Ks             float64
}

// NewMicrofacet returns a Microfacet with Ks derived from Kd the same
// way the original does: 1 - max(kd channel), so energy is
// conserved between the (unimplemented) specular lobe and kd.
func NewMicrofacet(alpha, intIOR, extIOR float64, kd color.RGB) *Microfacet {
	return &Microfacet{Alpha: alpha, IntIOR: intIOR, ExtIOR: extIOR, Kd: kd, Ks: 1 - kd.MaxComponent()}
}

func (m *Microfacet) Eval(q Query) color.RGB {
	panic(rterror.NewUnimplemented("Microfacet.Eval"))
}

func (m *Microfacet) Pdf(q Query) float64 {
	panic(rterror.NewUnimplemented("Microfacet.Pdf"))
}

func (m *Microfacet) Sample(q *Query, u math3d.Vec2) color.RGB {
	panic(rterror.NewUnimplemented("Microfacet.Sample"))
}

// IsDiffuse returns true: microfacet BRDFs are handled by the same
// sampling strategies as diffuse/non-specular materials even though
// they aren't perfectly Lambertian, matching the original's rationale.
func (m *Microfacet) IsDiffuse() bool { return true }
