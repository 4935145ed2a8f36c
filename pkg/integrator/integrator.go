// Package integrator implements the light transport estimators: flat
// shading, ambient occlusion, direct lighting via next-event
// estimation, and recursive Whitted ray tracing. Each type satisfies
// pkg/scene's Integrator interface so scene.Scene can hold one without
// this package importing scene back.
package integrator

import (
	"fmt"
	"math"

	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/light"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/scene"
)

// New builds an integrator from a class tag and its PropertyList,
// the same builder-map dispatch pkg/scene/factory.go uses for its own
// object classes. Lives here, rather than in pkg/scene, because it
// needs the concrete integrator types that satisfy scene.Integrator.
func New(tag string, props *scene.PropertyList) (scene.Integrator, error) {
	switch tag {
	case "flat":
		return NewFlat(), nil
	case "ao":
		return NewAO(props.Int("sampleCount", 32), props.Bool("cosineWeighted", true)), nil
	case "direct":
		return NewDirect(), nil
	case "whitted":
		return NewWhitted(props.Int("maxRecursion", 4)), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown integrator class %q", tag), nil)
	}
}

// shadeHit resolves the primitive, BSDF, local frame, and world-space
// position for a found hit, saving each integrator from repeating the
// same four lines.
func shadeHit(s *scene.Scene, r geom.Ray, hit geom.Hit) (bsdf.BSDF, math3d.Vec3, math3d.Vec3) {
	prim := s.ResolvePrimitive(hit.Shape)
	pos := hit.Position(r)
	return prim.BSDF, hit.Frame.N, pos
}

// sampleLight evaluates next-event estimation against a single light
// from a shading point, returning the light's raw sample (radiance,
// direction, distance, pdf; no cosine term or 1/pdf division applied)
// and whether it is usable: false when the pdf is not positive, the
// radiance is black, or the shadow ray is occluded. Direct and Whitted
// share this shadow-ray logic and both weight the sample by
// cos/pdf themselves (delta lights report pdf 1; area and infinite
// lights report a solid-angle pdf).
func sampleLight(s *scene.Scene, l light.Light, pos, normal math3d.Vec3, u math3d.Vec2) (light.Sample, bool) {
	ls := l.SampleLi(pos, u)
	if ls.Pdf <= 0 || ls.Radiance.IsBlack() {
		return ls, false
	}
	if s.Occluded(pos.Add(normal.Scale(geom.Epsilon)), ls.Wi, ls.Distance) {
		return ls, false
	}
	return ls, true
}

func cosTerm(wi, normal math3d.Vec3) float64 {
	return math.Max(0, wi.Dot(normal))
}
