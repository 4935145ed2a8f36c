package sampler

import (
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Independent draws every dimension from a single PCG32 stream with
// no stratification, the simplest sampler in the original's
// `independent.cpp` (not among the kept original_source files, but
// its contract is identical to Stratified minus the jittered-cell
// bookkeeping).
type Independent struct {
	Count int
	rng   *math3d.PCG32
	seed  uint64
}

// NewIndependent creates an Independent sampler drawing sampleCount
// samples per pixel, seeded from seed (typically a scene-wide seed
// combined with a per-worker index before cloning).
func NewIndependent(sampleCount int, seed uint64) *Independent {
	return &Independent{Count: sampleCount, seed: seed, rng: math3d.NewPCG32(seed, 0)}
}

func (s *Independent) SampleCount() int { return s.Count }

func (s *Independent) Prepare(offset BlockOffset) {
	streamSeq := uint64(offset.X)<<32 | uint64(uint32(offset.Y))
	s.rng = math3d.NewPCG32(s.seed, streamSeq)
}

func (s *Independent) Generate() {}

func (s *Independent) Advance() {}

func (s *Independent) Next1D() float64 { return s.rng.Next1D() }

func (s *Independent) Next2D() math3d.Vec2 { return s.rng.Next2D() }

func (s *Independent) Clone() Sampler {
	return &Independent{Count: s.Count, seed: s.seed, rng: math3d.NewPCG32(s.seed, 0)}
}
