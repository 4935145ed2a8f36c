// Package bsdf implements the surface scattering models: diffuse,
// mirror, dielectric, and energy-conserving Phong, all sharing the
// same local-frame Query/Sample/Eval/Pdf contract.
package bsdf

import (
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Measure distinguishes a discrete (delta) scattering event from a
// continuous, solid-angle-measured one. Grounded on
// original_source/src/core/bsdf.h's EMeasure.
type Measure int

const (
	UnknownMeasure Measure = iota
	SolidAngle
	Discrete
)

// Query carries the incident/outgoing directions (both in the local
// shading frame, +Z along the normal), the shading UV, and the
// relative index of refraction produced by a transmissive sample.
// Grounded on original_source/src/core/bsdf.h's BSDFQueryRecord.
type Query struct {
	Wi, Wo  math3d.Vec3
	UV      math3d.Vec2
	Eta     float64
	Measure Measure
}

// NewQuery builds a query for an incident direction wi (the only
// field needed before calling Sample).
func NewQuery(wi math3d.Vec3, uv math3d.Vec2) Query {
	return Query{Wi: wi, UV: uv, Eta: 1}
}

// BSDF is the scattering contract every material implements.
// Grounded on original_source/src/core/bsdf.h's BSDF abstract class.
type BSDF interface {
	// Sample draws an outgoing direction (writing it into q.Wo, along
	// with Measure/Eta) given two uniform random numbers, and returns
	// the throughput weight f(wi,wo)*|cos(wo)|/pdf(wo) already divided
	// through — i.e. the factor a path tracer multiplies into its
	// running throughput. Returns color.Black for an invalid sample
	// (e.g. wi below the horizon).
	Sample(q *Query, u math3d.Vec2) color.RGB

	// Eval returns the BRDF value f(wi,wo) for a solid-angle query;
	// always color.Black for a purely discrete (specular) BSDF.
	Eval(q Query) color.RGB

	// Pdf returns the solid-angle density of Sample producing q.Wo
	// given q.Wi; always 0 for a purely discrete BSDF.
	Pdf(q Query) float64

	// IsDiffuse reports whether this BSDF should be treated as a
	// non-specular surface by integrators that branch on it (e.g.
	// next-event estimation only lights diffuse surfaces).
	IsDiffuse() bool
}
