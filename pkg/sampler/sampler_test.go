package sampler

import "testing"

// TestStratifiedCellCoverage exercises the scenario from spec.md §8:
// with nx=ny=4 and maxDim=2, each of the 16 2D cells
// [i/4,(i+1)/4] x [j/4,(j+1)/4] contains exactly one sample.
func TestStratifiedCellCoverage(t *testing.T) {
	s := NewStratified(4, 4, true, 2)
	s.Prepare(BlockOffset{X: 3, Y: 7})
	s.Generate()

	seen := make(map[[2]int]int)
	for i := 0; i < s.SampleCount(); i++ {
		p := s.Next2D()
		cellX := int(p.X * 4)
		cellY := int(p.Y * 4)
		if cellX < 0 || cellX > 3 || cellY < 0 || cellY > 3 {
			t.Fatalf("sample %+v fell outside [0,1)^2", p)
		}
		seen[[2]int{cellX, cellY}]++
		s.Advance()
	}
	if len(seen) != 16 {
		t.Fatalf("expected all 16 cells covered, got %d distinct cells", len(seen))
	}
	for cell, count := range seen {
		if count != 1 {
			t.Fatalf("cell %v got %d samples, want exactly 1", cell, count)
		}
	}
}

func TestStratifiedDeterministicGivenSameOffset(t *testing.T) {
	a := NewStratified(2, 2, true, 1)
	a.Prepare(BlockOffset{X: 5, Y: 9})
	a.Generate()

	b := NewStratified(2, 2, true, 1)
	b.Prepare(BlockOffset{X: 5, Y: 9})
	b.Generate()

	for i := 0; i < a.SampleCount(); i++ {
		pa := a.Next1D()
		pb := b.Next1D()
		if pa != pb {
			t.Fatalf("samplers seeded with the same block offset diverged: %v vs %v", pa, pb)
		}
		a.Advance()
		b.Advance()
	}
}

func TestStratifiedFallsBackPastMaxDimension(t *testing.T) {
	s := NewStratified(2, 2, true, 1)
	s.Prepare(BlockOffset{X: 0, Y: 0})
	s.Generate()

	_ = s.Next1D() // dimension 0, stratified
	v1 := s.Next1D()
	v2 := s.Next1D()
	if v1 == v2 {
		t.Skip("PCG32 fallback draws happened to collide; not a correctness signal on its own")
	}
}

func TestIndependentClonesAreIndependentStreams(t *testing.T) {
	base := NewIndependent(16, 42)
	base.Prepare(BlockOffset{X: 1, Y: 1})

	c1 := base.Clone()
	c2 := base.Clone()
	c1.Prepare(BlockOffset{X: 2, Y: 3})
	c2.Prepare(BlockOffset{X: 9, Y: 4})

	a := c1.Next1D()
	b := c2.Next1D()
	if a == b {
		t.Fatal("clones prepared with different offsets should not produce identical first draws")
	}
}

func TestIndependentSampleCount(t *testing.T) {
	s := NewIndependent(64, 1)
	if s.SampleCount() != 64 {
		t.Fatalf("got %d, want 64", s.SampleCount())
	}
}
