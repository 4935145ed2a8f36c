package integrator

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/scene"
)

// AO estimates ambient occlusion: the fraction of the hemisphere
// above a surface point that reaches the background unobstructed,
// estimated by Monte Carlo integration over SampleCount hemisphere
// rays. Grounded on original_source/src/integrators/ao.cpp.
type AO struct {
	SampleCount    int
	CosineWeighted bool
}

func NewAO(sampleCount int, cosineWeighted bool) *AO {
	return &AO{SampleCount: sampleCount, CosineWeighted: cosineWeighted}
}

func (AO) Preprocess(*scene.Scene, sampler.Sampler) {}

func (a *AO) Li(s *scene.Scene, samp sampler.Sampler, ray geom.Ray) color.RGB {
	hit := s.Intersect(ray)
	if !hit.Found() {
		return s.Background
	}
	return a.liAt(s, samp, hit.Position(ray), hit.Frame.N)
}

// liAt estimates occlusion at an already-resolved surface point and
// normal, factored out of Li so it can be driven directly (from a
// point known by construction rather than one recovered by tracing a
// primary ray through a possibly self-occluding neighbor shape).
func (a *AO) liAt(s *scene.Scene, samp sampler.Sampler, pos, normal math3d.Vec3) color.RGB {
	frame := math3d.FrameFromNormal(normal)
	sum := 0.0
	for i := 0; i < a.SampleCount; i++ {
		u := samp.Next2D()
		var wiLocal math3d.Vec3
		var pdf float64
		if a.CosineWeighted {
			wiLocal = math3d.SquareToCosineHemisphere(u)
			pdf = math3d.SquareToCosineHemispherePdf(wiLocal)
		} else {
			wiLocal = math3d.SquareToUniformHemisphere(u)
			pdf = math3d.SquareToUniformHemispherePdf(wiLocal)
		}
		wiWorld := frame.ToWorld(wiLocal).Normalize()

		if pdf <= 0 {
			continue
		}
		r := geom.NewRay(pos.Add(normal.Scale(geom.Epsilon)), wiWorld).AsShadowRay(math.Inf(1))
		if s.Intersect(r).Found() {
			continue
		}
		sum += cosTerm(wiWorld, normal) / pdf
	}

	v := sum / (math.Pi * float64(a.SampleCount))
	return color.New(v, v, v)
}
