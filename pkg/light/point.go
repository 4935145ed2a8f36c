package light

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Point emits uniformly in all directions from a single world-space
// position, falling off as 1/distance^2. Grounded on
// original_source/src/lights/pointLight.cpp.
type Point struct {
	Intensity color.RGB
	Position  math3d.Vec3
}

func NewPoint(intensity color.RGB, position math3d.Vec3) *Point {
	return &Point{Intensity: intensity, Position: position}
}

func (p *Point) SampleLi(x math3d.Vec3, u math3d.Vec2) Sample {
	wi := p.Position.Sub(x)
	d2 := wi.Dot(wi)
	dist := math.Sqrt(d2)
	wi = wi.Scale(1 / dist)
	return Sample{Wi: wi, Distance: dist, Pdf: 1, Radiance: p.Intensity.Scale(1 / d2)}
}

func (p *Point) IsDelta() bool { return true }
