// Package scene owns every object a render needs — shapes, lights,
// camera, sampler, integrator, optional environment map — and
// provides the world-space nearest-intersection query the integrators
// run against. Grounded on original_source/src/core/scene.cpp.
package scene

import (
	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/camera"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/light"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// Primitive pairs a shape with the material/emission it was built
// with. A Primitive may be an ordinary surface (BSDF only), an area
// light's emitter geometry (AreaLight set), or both — matching
// original_source's mesh/sphere/quad/disk nodes optionally carrying a
// nested `areaLight`.
type Primitive struct {
	Shape     shape.Shape
	BSDF      bsdf.BSDF
	AreaLight *light.Area // nil unless this shape emits
}

// Integrator is the contract pkg/integrator's Flat/AO/Direct/Whitted
// types satisfy. Declared here, rather than imported from
// pkg/integrator, because the integrators need *Scene as an argument —
// importing that package from here would cycle; defining the shape of
// the dependency locally (the classic accept-an-interface pattern)
// breaks the cycle the way the teacher's own small-interface style
// does wherever two packages would otherwise need each other.
type Integrator interface {
	// Li estimates the radiance arriving along ray from the scene.
	Li(s *Scene, samp sampler.Sampler, ray geom.Ray) color.RGB
	// Preprocess runs once before rendering begins (e.g. building
	// light-sampling acceleration data); most integrators no-op here.
	Preprocess(s *Scene, samp sampler.Sampler)
}

// Scene exclusively owns its shapes, lights, camera, sampler, and
// environment map, per spec.md §9's scene-graph-ownership guidance.
// Invariant: at most one camera, one integrator, one sampler, one
// environment light (enforced by pkg/sceneio's scene builder, not
// here).
type Scene struct {
	Primitives []Primitive
	Lights     []light.Light
	Camera     *camera.Camera
	Sampler    sampler.Sampler
	Integrator Integrator
	EnvMap     *light.Infinite
	Background color.RGB
}

// New creates an empty scene with the given background color, ready
// to have primitives and lights appended.
func New(background color.RGB) *Scene {
	return &Scene{Background: background}
}

// Miss returns the radiance for a ray that escapes the scene along
// direction, preferring the environment map when one is attached.
// Mirrors Scene::backgroundColor(direction)'s env-map branch.
func (s *Scene) Miss(direction math3d.Vec3) color.RGB {
	if s.EnvMap != nil {
		return s.EnvMap.Intensity(direction)
	}
	return s.Background
}

// Intersect finds the nearest shape hit along r. Grounded on
// Scene::intersect, but resolves the REDESIGN FLAG in spec.md §9: the
// original re-projects the running-best world-space hit point through
// each new shape's inverse transform to seed that shape's local
// search bound, which loses precision (and is outright wrong) under
// non-rigid transforms, since distance is not preserved by a
// non-uniform scale or shear. Here every shape.Shape.Intersect
// implementation already converts its own local hit back to a
// world-space t independently (see pkg/shape's worldT helpers), so
// the loop only ever compares world-space distances against a single
// shared running best — no shape's local parametrization ever leaks
// into another's comparison.
func (s *Scene) Intersect(r geom.Ray) geom.Hit {
	hit := geom.NewHit()
	hit.T = r.MaxT // bounds the search to the ray's valid range (e.g. a shadow ray's distance to its light)
	for i := range s.Primitives {
		if s.Primitives[i].Shape.Intersect(r, &hit) {
			hit.Shape = geom.ShapeRef(i)
			if r.ShadowRay {
				return hit
			}
		}
	}
	return hit
}

// Occluded is a convenience wrapper for shadow-ray queries: true if
// anything blocks r before maxDistance.
func (s *Scene) Occluded(origin, dir math3d.Vec3, maxDistance float64) bool {
	r := geom.NewRay(origin, dir).AsShadowRay(maxDistance - geom.Epsilon)
	hit := s.Intersect(r)
	return hit.Found()
}

// ResolvePrimitive resolves a ShapeRef recorded in a Hit back to its
// Primitive (shape, BSDF, optional area light).
func (s *Scene) ResolvePrimitive(ref geom.ShapeRef) *Primitive {
	if ref == geom.NoShape || int(ref) >= len(s.Primitives) {
		return nil
	}
	return &s.Primitives[ref]
}
