package integrator

import (
	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/scene"
)

// Flat shades a hit with its raw albedo and nothing else — no
// lighting, no shadows — useful for checking geometry and UVs.
// Grounded on original_source/src/integrators/flat.cpp.
type Flat struct{}

func NewFlat() *Flat { return &Flat{} }

func (Flat) Preprocess(*scene.Scene, sampler.Sampler) {}

func (Flat) Li(s *scene.Scene, _ sampler.Sampler, ray geom.Ray) color.RGB {
	hit := s.Intersect(ray)
	if !hit.Found() {
		return color.Black
	}
	prim := s.ResolvePrimitive(hit.Shape)
	q := bsdf.NewQuery(hit.Frame.ToLocal(ray.Direction.Negate()), hit.UV)
	return prim.BSDF.Sample(&q, math3d.Zero2())
}
