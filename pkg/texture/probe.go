package texture

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// LightProbe is an equirectangular environment map: a single Texture
// addressed by direction rather than surface UV, used by an infinite
// light and for camera rays that escape the scene. Grounded on
// original_source/src/core/lightProbe.h's direction-to-UV mapping
// (longitude/latitude), not present in the teacher (a terminal
// rasterizer has no environment lighting), so the formula itself
// follows spec.md §4.5/§4.6 rather than any pack source.
type LightProbe struct {
	Tex *Texture
}

// NewLightProbe wraps tex (expected to use WrapRepeat/WrapClamp and
// FilterBilinear) as an environment map.
func NewLightProbe(tex *Texture) *LightProbe {
	tex.WrapU, tex.WrapV = WrapRepeat, WrapClamp
	return &LightProbe{Tex: tex}
}

// Eval returns the radiance arriving from world-space direction d
// (need not be normalized).
func (p *LightProbe) Eval(d math3d.Vec3) color.RGB {
	d = d.Normalize()
	phi := math.Atan2(d.X, -d.Z)
	u := (phi + math.Pi) / (2 * math.Pi)
	theta := math.Acos(clamp(d.Y, -1, 1))
	v := theta / math.Pi
	return p.Tex.Sample(u, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
