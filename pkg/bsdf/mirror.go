package bsdf

import (
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/texture"
)

// Mirror is an ideal specular reflector. Grounded on
// original_source/src/bsdfs/mirror.cpp.
type Mirror struct {
	Albedo *texture.Texture
	Flat   color.RGB
}

func NewMirror(albedo color.RGB) *Mirror {
	return &Mirror{Flat: albedo}
}

func (m *Mirror) lookup(uv math3d.Vec2) color.RGB {
	if m.Albedo == nil {
		return m.Flat
	}
	return m.Albedo.Sample(uv.X, uv.Y)
}

func (m *Mirror) Eval(q Query) color.RGB { return color.Black }
func (m *Mirror) Pdf(q Query) float64    { return 0 }

func (m *Mirror) Sample(q *Query, u math3d.Vec2) color.RGB {
	if math3d.CosTheta(q.Wi) <= 0 {
		return color.Black
	}
	q.Wo = math3d.Reflect(q.Wi)
	q.Measure = Discrete
	q.Eta = 1
	return m.lookup(q.UV)
}

func (m *Mirror) IsDiffuse() bool { return false }
