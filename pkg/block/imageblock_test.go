package block

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/pathtrace/pkg/camera"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// TestSplatWeightConservation exercises the scenario from spec.md §8:
// for a filter with integral 1, summing put(pos_i, 1) for uniformly
// random pos_i and dividing by weight should approach 1 per pixel.
func TestSplatWeightConservation(t *testing.T) {
	f := camera.NewBox(0.5)
	b := New(8, 8, f)

	rng := rand.New(rand.NewSource(1))
	const n = 20000
	for i := 0; i < n; i++ {
		pos := math3d.V2(rng.Float64()*8, rng.Float64()*8)
		b.Put(pos, color.New(1, 1, 1))
	}

	bmp := b.ToBitmap()
	for _, c := range bmp {
		if math.Abs(c.R-1) > 0.05 {
			t.Fatalf("expected splatted weight to converge to 1, got %v", c.R)
		}
	}
}

func TestPutOutsideBlockIsDropped(t *testing.T) {
	f := camera.NewBox(0.5)
	b := New(4, 4, f)
	b.Put(math3d.V2(1000, 1000), color.New(1, 0, 0))
	for _, c := range b.ToBitmap() {
		if !c.IsBlack() {
			t.Fatal("a sample far outside the block should not affect any pixel")
		}
	}
}

func TestMergeAddsOffsetBlocks(t *testing.T) {
	f := camera.NewBox(0.5)
	a := New(4, 4, f)
	a.SetOffset(Offset{X: 0, Y: 0})
	a.Put(math3d.V2(1.5, 1.5), color.New(1, 0, 0))

	c := New(4, 4, f)
	c.SetOffset(Offset{X: 0, Y: 0})
	c.Put(math3d.V2(2.5, 2.5), color.New(0, 1, 0))

	a.Merge(c)
	bmp := a.ToBitmap()
	nonBlack := 0
	for _, px := range bmp {
		if !px.IsBlack() {
			nonBlack++
		}
	}
	if nonBlack < 2 {
		t.Fatalf("expected contributions from both blocks to be present after merge, got %d non-black pixels", nonBlack)
	}
}

func TestGeneratorHandsOutEveryTileExactlyOnce(t *testing.T) {
	f := camera.NewBox(0.5)
	g := NewGenerator(100, 70, f)

	covered := make([]bool, 100*70)
	count := 0
	for {
		blk, done := g.Next()
		if done {
			break
		}
		count++
		for y := 0; y < blk.Height; y++ {
			for x := 0; x < blk.Width; x++ {
				idx := (blk.Offset.Y+y)*100 + (blk.Offset.X + x)
				if covered[idx] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", blk.Offset.X+x, blk.Offset.Y+y)
				}
				covered[idx] = true
			}
		}
	}
	if count != g.Total() {
		t.Fatalf("got %d tiles handed out, want %d", count, g.Total())
	}
	for i, c := range covered {
		if !c {
			t.Fatalf("pixel index %d never covered by any tile", i)
		}
	}
}

func TestGeneratorExhausts(t *testing.T) {
	f := camera.NewBox(0.5)
	g := NewGenerator(10, 10, f)
	for {
		_, done := g.Next()
		if done {
			break
		}
	}
	if _, done := g.Next(); !done {
		t.Fatal("generator should stay exhausted after all tiles are handed out")
	}
}
