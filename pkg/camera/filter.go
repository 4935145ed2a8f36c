package camera

import "math"

// Filter is a separable tensor-product reconstruction filter: the
// 2D weight at offset (x, y) from a sample is Eval1D(x) * Eval1D(y).
// Grounded on spec.md §4.7/§6's box/tent/gaussian/mitchell family and
// the teacher's ImageBlock.put, which already multiplies two 1D
// weights per axis rather than evaluating a true 2D kernel.
type Filter interface {
	// Radius is the half-width, in pixels, beyond which the filter is
	// zero on both axes.
	Radius() float64
	// Eval1D evaluates the one-dimensional kernel at offset x.
	Eval1D(x float64) float64
}

// Box is a constant filter over [-radius, radius].
type Box struct{ R float64 }

func NewBox(radius float64) Box { return Box{R: radius} }

func (b Box) Radius() float64 { return b.R }

func (b Box) Eval1D(x float64) float64 {
	if math.Abs(x) <= b.R {
		return 1
	}
	return 0
}

// Tent is a linear (triangle) filter over [-radius, radius].
type Tent struct{ R float64 }

func NewTent(radius float64) Tent { return Tent{R: radius} }

func (t Tent) Radius() float64 { return t.R }

func (t Tent) Eval1D(x float64) float64 {
	ax := math.Abs(x)
	if ax >= t.R {
		return 0
	}
	return t.R - ax
}

// Gaussian is a Gaussian filter truncated at radius and re-based so
// it reaches exactly zero at the edge (avoiding a visible seam).
type Gaussian struct {
	R      float64
	StdDev float64
	alpha  float64
	expR   float64
}

func NewGaussian(radius, stddev float64) Gaussian {
	alpha := 1 / (2 * stddev * stddev)
	return Gaussian{R: radius, StdDev: stddev, alpha: alpha, expR: math.Exp(-alpha * radius * radius)}
}

func (g Gaussian) Radius() float64 { return g.R }

func (g Gaussian) Eval1D(x float64) float64 {
	v := math.Exp(-g.alpha*x*x) - g.expR
	if v < 0 {
		return 0
	}
	return v
}

// Mitchell is the Mitchell-Netravali cubic filter parameterized by
// (B, C), matching the classic piecewise-cubic reconstruction kernel
// used throughout production renderers.
type Mitchell struct {
	R    float64
	B, C float64
}

func NewMitchell(radius, b, c float64) Mitchell {
	return Mitchell{R: radius, B: b, C: c}
}

func (m Mitchell) Radius() float64 { return m.R }

func (m Mitchell) Eval1D(x float64) float64 {
	ax := math.Abs(x) / m.R * 2 // map radius to the canonical [-2,2] support
	b, c := m.B, m.C
	switch {
	case ax < 1:
		return ((12-9*b-6*c)*ax*ax*ax + (-18+12*b+6*c)*ax*ax + (6 - 2*b)) / 6
	case ax < 2:
		return ((-b-6*c)*ax*ax*ax + (6*b+30*c)*ax*ax + (-12*b-48*c)*ax + (8*b + 24*c)) / 6
	default:
		return 0
	}
}
