package integrator

import (
	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/scene"
)

// Whitted recursively traces specular (mirror/dielectric) bounces and
// terminates each path with next-event-estimated direct lighting at
// the first diffuse surface hit, up to MaxRecursion bounces. Grounded
// on original_source/src/integrators/whitted.cpp.
type Whitted struct {
	MaxRecursion int
}

func NewWhitted(maxRecursion int) *Whitted {
	return &Whitted{MaxRecursion: maxRecursion}
}

func (Whitted) Preprocess(*scene.Scene, sampler.Sampler) {}

func (w *Whitted) Li(s *scene.Scene, samp sampler.Sampler, ray geom.Ray) color.RGB {
	return w.li(s, samp, ray, 0)
}

func (w *Whitted) li(s *scene.Scene, samp sampler.Sampler, ray geom.Ray, depth int) color.RGB {
	if depth >= w.MaxRecursion {
		return color.Black
	}

	hit := s.Intersect(ray)
	if !hit.Found() {
		return s.Miss(ray.Direction)
	}

	mat, normal, pos := shadeHit(s, ray, hit)

	if !mat.IsDiffuse() {
		q := bsdf.NewQuery(hit.Frame.ToLocal(ray.Direction.Negate()), hit.UV)
		weight := mat.Sample(&q, samp.Next2D())
		if weight.IsBlack() {
			return color.Black
		}
		sampleDir := hit.Frame.ToWorld(q.Wo)

		var origin math3d.Vec3
		if sampleDir.Dot(normal) < 0 {
			origin = pos.Sub(normal.Scale(geom.Epsilon)) // transmission
		} else {
			origin = pos.Add(normal.Scale(geom.Epsilon)) // reflection
		}
		next := geom.NewRay(origin, sampleDir).WithDepth(depth + 1)
		return weight.Mul(w.li(s, samp, next, depth+1))
	}

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
