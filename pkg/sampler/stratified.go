package sampler

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/math3d"
)

// oneMinusEpsilon clamps a stratified sample strictly below 1, the
// same guard original_source/src/samplers/stratified.cpp applies so a
// sample never lands exactly on the next cell's boundary.
const oneMinusEpsilon = 1 - 1e-7

// Stratified divides each pixel's samples into a jittered xPixelSamples
// x yPixelSamples grid for the first maxDimension 2D/1D dimensions,
// falling back to plain PCG32 noise past that dimension. Grounded
// directly on original_source/src/samplers/stratified.cpp.
type Stratified struct {
	XPixelSamples int
	YPixelSamples int
	Jitter        bool
	MaxDimension  int

	sampleCount int
	rng         *math3d.PCG32

	samples1D [][]float64
	samples2D [][]math3d.Vec2

	sampleIndex              int
	dimension1D, dimension2D int
}

// NewStratified creates a Stratified sampler. sampleCount is
// xPixelSamples*yPixelSamples.
func NewStratified(xPixelSamples, yPixelSamples int, jitter bool, maxDimension int) *Stratified {
	s := &Stratified{
		XPixelSamples: xPixelSamples,
		YPixelSamples: yPixelSamples,
		Jitter:        jitter,
		MaxDimension:  maxDimension,
		sampleCount:   xPixelSamples * yPixelSamples,
		rng:           math3d.NewPCG32(0, 0),
	}
	s.allocate()
	return s
}

func (s *Stratified) allocate() {
	s.samples1D = make([][]float64, s.MaxDimension)
	s.samples2D = make([][]math3d.Vec2, s.MaxDimension)
	for i := range s.MaxDimension {
		s.samples1D[i] = make([]float64, s.sampleCount)
		s.samples2D[i] = make([]math3d.Vec2, s.sampleCount)
	}
}

func (s *Stratified) SampleCount() int { return s.sampleCount }

// Prepare seeds the stream from the block offset, matching
// m_random.seed(block.getOffset().x(), block.getOffset().y()).
func (s *Stratified) Prepare(offset BlockOffset) {
	s.rng = math3d.NewPCG32(uint64(int64(offset.X)), uint64(int64(offset.Y)))
}

func (s *Stratified) stratifiedSample1D(samp []float64) {
	invN := 1 / float64(s.sampleCount)
	for i := range samp {
		delta := 0.5
		if s.Jitter {
			delta = s.rng.Next1D()
		}
		samp[i] = math.Min((float64(i)+delta)*invN, oneMinusEpsilon)
	}
}

func (s *Stratified) stratifiedSample2D(samp []math3d.Vec2) {
	dx := 1 / float64(s.XPixelSamples)
	dy := 1 / float64(s.YPixelSamples)
	i := 0
	for y := range s.YPixelSamples {
		for x := range s.XPixelSamples {
			jx, jy := 0.5, 0.5
			if s.Jitter {
				jx, jy = s.rng.Next1D(), s.rng.Next1D()
			}
			samp[i] = math3d.V2(
				math.Min((float64(x)+jx)*dx, oneMinusEpsilon),
				math.Min((float64(y)+jy)*dy, oneMinusEpsilon),
			)
			i++
		}
	}
}

func (s *Stratified) shuffle1D(samp []float64) {
	for i := len(samp) - 1; i > 0; i-- {
		j := int(s.rng.NextUintN(uint32(i + 1)))
		samp[i], samp[j] = samp[j], samp[i]
	}
}

func (s *Stratified) shuffle2D(samp []math3d.Vec2) {
	for i := len(samp) - 1; i > 0; i-- {
		j := int(s.rng.NextUintN(uint32(i + 1)))
		samp[i], samp[j] = samp[j], samp[i]
	}
}

// Generate regenerates stratified samples for every tracked dimension
// of the current pixel and resets the sample index and dimension
// counters.
func (s *Stratified) Generate() {
	for i := range s.samples1D {
		s.stratifiedSample1D(s.samples1D[i])
		if s.Jitter {
			s.shuffle1D(s.samples1D[i])
		}
	}
	for i := range s.samples2D {
		s.stratifiedSample2D(s.samples2D[i])
		if s.Jitter {
			s.shuffle2D(s.samples2D[i])
		}
	}
	s.sampleIndex = 0
	s.dimension1D, s.dimension2D = 0, 0
}

func (s *Stratified) Advance() {
	s.sampleIndex++
	s.dimension1D, s.dimension2D = 0, 0
}

func (s *Stratified) Next1D() float64 {
	if s.dimension1D < s.MaxDimension {
		v := s.samples1D[s.dimension1D][s.sampleIndex]
		s.dimension1D++
		return v
	}
	return s.rng.Next1D()
}

func (s *Stratified) Next2D() math3d.Vec2 {
	if s.dimension2D < s.MaxDimension {
		v := s.samples2D[s.dimension2D][s.sampleIndex]
		s.dimension2D++
		return v
	}
	return s.rng.Next2D()
}

func (s *Stratified) Clone() Sampler {
	c := NewStratified(s.XPixelSamples, s.YPixelSamples, s.Jitter, s.MaxDimension)
	return c
}
