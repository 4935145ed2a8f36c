package bsdf

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/texture"
)

// Diffuse is a Lambertian BRDF, f(wi,wo) = albedo/pi, sampled with a
// cosine-weighted hemisphere distribution so Sample's f*cos/pdf
// collapses to the albedo itself. Not present in the teacher or the
// kept original_source files (diffuse.cpp wasn't retained); grounded
// on the Lambertian formula spec.md §4.4 states directly and the
// Query/Sample contract shared with every other BSDF here.
type Diffuse struct {
	Albedo *texture.Texture // nil means a flat albedo color below
	Flat   color.RGB
}

// NewDiffuse returns a flat-colored diffuse BSDF.
func NewDiffuse(albedo color.RGB) *Diffuse {
	return &Diffuse{Flat: albedo}
}

// NewTexturedDiffuse returns a diffuse BSDF whose albedo is looked up
// per-shading-point from tex.
func NewTexturedDiffuse(tex *texture.Texture) *Diffuse {
	return &Diffuse{Albedo: tex}
}

func (d *Diffuse) lookup(uv math3d.Vec2) color.RGB {
	if d.Albedo == nil {
		return d.Flat
	}
	return d.Albedo.Sample(uv.X, uv.Y)
}

func (d *Diffuse) Eval(q Query) color.RGB {
	if q.Measure != SolidAngle || math3d.CosTheta(q.Wi) <= 0 || math3d.CosTheta(q.Wo) <= 0 {
		return color.Black
	}
	return d.lookup(q.UV).Scale(1 / math.Pi)
}

func (d *Diffuse) Pdf(q Query) float64 {
	if q.Measure != SolidAngle || math3d.CosTheta(q.Wi) <= 0 || math3d.CosTheta(q.Wo) <= 0 {
		return 0
	}
	return math3d.SquareToCosineHemispherePdf(q.Wo)
}

func (d *Diffuse) Sample(q *Query, u math3d.Vec2) color.RGB {
	if math3d.CosTheta(q.Wi) <= 0 {
		return color.Black
	}
	q.Wo = math3d.SquareToCosineHemisphere(u)
	q.Measure = SolidAngle
	q.Eta = 1
	return d.lookup(q.UV)
}

func (d *Diffuse) IsDiffuse() bool { return true }
