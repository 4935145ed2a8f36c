package bsdf

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/texture"
)

// Phong is an energy-conserving diffuse+specular BRDF: a cosine-
// hemisphere diffuse lobe plus a Phong specular lobe around the
// mirror direction, whose relative sampling weight is ks.mean /
// (kd.mean + ks.mean). Grounded on
// original_source/src/bsdfs/phong.cpp.
type Phong struct {
	Kd, Ks             color.RGB
	Exponent           float64
	Albedo             *texture.Texture // overrides Kd's texture lookup when set
	specularSampleProb float64
}

// NewPhong returns a Phong BRDF; exponent controls specular tightness
// (larger = tighter highlight).
func NewPhong(kd, ks color.RGB, exponent float64) *Phong {
	p := &Phong{Kd: kd, Ks: ks, Exponent: exponent}
	p.specularSampleProb = specularWeight(kd, ks)
	return p
}

func specularWeight(kd, ks color.RGB) float64 {
	denom := kd.Mean() + ks.Mean()
	if denom <= 0 {
		return 0
	}
	return ks.Mean() / denom
}

func (p *Phong) lookupKd(uv math3d.Vec2) color.RGB {
	if p.Albedo == nil {
		return p.Kd
	}
	return p.Albedo.Sample(uv.X, uv.Y)
}

func (p *Phong) Eval(q Query) color.RGB {
	if q.Measure != SolidAngle || math3d.CosTheta(q.Wi) <= 0 || math3d.CosTheta(q.Wo) <= 0 {
		return color.Black
	}
	alpha := q.Wo.Dot(math3d.Reflect(q.Wi))

	c := p.lookupKd(q.UV).Scale(1 / math.Pi)
	if alpha > 0 {
		spec := p.Ks.Scale((p.Exponent + 2) * math.Pow(alpha, p.Exponent) / (2 * math.Pi))
		c = c.Add(spec)
	}
	return c
}

func (p *Phong) Pdf(q Query) float64 {
	if q.Measure != SolidAngle || math3d.CosTheta(q.Wi) <= 0 || math3d.CosTheta(q.Wo) <= 0 {
		return 0
	}
	alpha := q.Wo.Dot(math3d.Reflect(q.Wi))
	specProb := 0.0
	if alpha > 0 {
		specProb = math.Pow(alpha, p.Exponent) * (p.Exponent + 1) / (2 * math.Pi)
	}
	diffuseProb := math3d.SquareToCosineHemispherePdf(q.Wo)
	return p.specularSampleProb*specProb + (1-p.specularSampleProb)*diffuseProb
}

func (p *Phong) Sample(q *Query, u math3d.Vec2) color.RGB {
	if math3d.CosTheta(q.Wi) <= 0 {
		return color.Black
	}
	q.Measure = SolidAngle
	q.Eta = 1

	uu, vv := u.X, u.Y
	chooseSpecular := true
	if uu <= p.specularSampleProb && p.specularSampleProb > 0 {
		uu /= p.specularSampleProb
	} else {
		if p.specularSampleProb < 1 {
			uu = (uu - p.specularSampleProb) / (1 - p.specularSampleProb)
		}
		chooseSpecular = false
	}

	if chooseSpecular {
		r := math3d.Reflect(q.Wi)
		frame := math3d.FrameFromNormal(r)
		phi := 2 * math.Pi * uu
		cosTheta := math.Pow(vv, 1/(p.Exponent+1))
		sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
		local := math3d.V3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, cosTheta)
		q.Wo = frame.ToWorld(local)
	} else {
		q.Wo = math3d.SquareToCosineHemisphere(math3d.V2(uu, vv))
	}

	eval := p.Eval(*q)
	if eval.IsBlack() {
		return color.Black
	}
	pdf := p.Pdf(*q)
	if pdf <= 0 {
		return color.Black
	}
	return eval.Scale(math3d.CosTheta(q.Wo) / pdf)
}

func (p *Phong) IsDiffuse() bool { return true }
