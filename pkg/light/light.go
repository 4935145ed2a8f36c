// Package light implements point, directional, area, and infinite
// light sources, each able to sample an incident direction from a
// reference point and report whether it is a delta (zero-measure)
// light that a BSDF-sampling strategy can never hit by chance.
package light

import (
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Sample is the result of sampling a light from a reference point:
// the incident direction, distance (for a shadow ray's max-t), the
// solid-angle PDF of having drawn that direction, and the radiance
// arriving along it.
type Sample struct {
	Wi       math3d.Vec3
	Distance float64
	Pdf      float64 // solid angle; 1 for a delta light by convention
	Radiance color.RGB
}

// Light is the sampling contract every light source implements.
// Grounded on original_source/src/core/light.h.
type Light interface {
	// SampleLi samples an incident direction toward the light from
	// world-space reference point x using the 2D sample u.
	SampleLi(x math3d.Vec3, u math3d.Vec2) Sample

	// IsDelta reports whether the light occupies zero measure (point
	// or directional), meaning a BSDF-sampling strategy has zero
	// probability of ever hitting it and next-event estimation is the
	// only way to account for it.
	IsDelta() bool
}
