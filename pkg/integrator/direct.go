package integrator

import (
	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/scene"
)

// Direct estimates only the one-bounce direct-lighting term: sample
// every light once per shading point and sum its unoccluded
// contribution. Grounded on
// original_source/src/integrators/direct.cpp, which compared a
// shadow ray's hit distance against the light sample's distance as
// `shadowHit.t > dist` — valid only if shadowHit.t is already in the
// same (world) space as dist, which the original's re-projected
// Scene::intersect did not guarantee. Here Scene.Intersect always
// returns a world-space T (see pkg/scene's REDESIGN FLAG fix), so the
// comparison in sampleLight (Occluded, which rejects exactly the
// dist-Epsilon range the light sample itself sits in) is sound
// without any extra space-tracking.
type Direct struct{}

func NewDirect() *Direct { return &Direct{} }

func (Direct) Preprocess(*scene.Scene, sampler.Sampler) {}

func (Direct) Li(s *scene.Scene, samp sampler.Sampler, ray geom.Ray) color.RGB {
	hit := s.Intersect(ray)
	if !hit.Found() {
		return s.Background
	}

	mat, normal, pos := shadeHit(s, ray, hit)
	radiance := color.Black

	for _, l := range s.Lights {
		ls, visible := sampleLight(s, l, pos, normal, samp.Next2D())
		if !visible {
			continue
		}
		brdf := mat.Eval(bsdf.Query{
			Wi:      hit.Frame.ToLocal(ray.Direction.Negate()),
			Wo:      hit.Frame.ToLocal(ls.Wi),
			UV:      hit.UV,
			Measure: bsdf.SolidAngle,
		})
		radiance = radiance.Add(ls.Radiance.Scale(cosTerm(ls.Wi, normal) / ls.Pdf).Mul(brdf))
	}
	return radiance
}
