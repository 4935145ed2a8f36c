package light

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Directional emits parallel rays from an infinitely distant source
// along Direction, with no distance falloff. Grounded on
// original_source/src/lights/directionalLight.cpp.
type Directional struct {
	Intensity color.RGB
	Direction math3d.Vec3 // direction the light travels
}

func NewDirectional(intensity color.RGB, direction math3d.Vec3) *Directional {
	return &Directional{Intensity: intensity, Direction: direction.Normalize()}
}

func (d *Directional) SampleLi(x math3d.Vec3, u math3d.Vec2) Sample {
	return Sample{
		Wi:       d.Direction.Scale(-1),
		Distance: math.MaxFloat64,
		Pdf:      1,
		Radiance: d.Intensity,
	}
}

func (d *Directional) IsDelta() bool { return true }
