package camera

import (
	"math"
	"testing"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

func TestCenterSampleLooksStraightAhead(t *testing.T) {
	c := New(geom.Identity(), math.Pi/2, 200, 100, 1e-4, 0, NewBox(0.5))
	r := c.SampleRay(math3d.V2(100, 50))
	if math.Abs(r.Direction.X) > 1e-9 || math.Abs(r.Direction.Y) > 1e-9 {
		t.Fatalf("center sample should point straight down -Z, got %+v", r.Direction)
	}
	if r.Direction.Z >= 0 {
		t.Fatalf("camera should look down -Z, got direction %+v", r.Direction)
	}
}

func TestSampleRayIsNormalized(t *testing.T) {
	c := New(geom.Identity(), math.Pi/3, 64, 48, 1e-4, 0, NewBox(0.5))
	for _, p := range []math3d.Vec2{{X: 0, Y: 0}, {X: 64, Y: 48}, {X: 32, Y: 10}} {
		r := c.SampleRay(p)
		length := math.Sqrt(r.Direction.Dot(r.Direction))
		if math.Abs(length-1) > 1e-9 {
			t.Fatalf("direction at %+v not normalized: len=%v", p, length)
		}
	}
}

func TestCornerSamplesDivergeInSign(t *testing.T) {
	c := New(geom.Identity(), math.Pi/2, 200, 100, 1e-4, 0, NewBox(0.5))
	topLeft := c.SampleRay(math3d.V2(0, 0))
	bottomRight := c.SampleRay(math3d.V2(200, 100))
	if topLeft.Direction.X >= 0 || topLeft.Direction.Y <= 0 {
		t.Fatalf("top-left sample should point left and up, got %+v", topLeft.Direction)
	}
	if bottomRight.Direction.X <= 0 || bottomRight.Direction.Y >= 0 {
		t.Fatalf("bottom-right sample should point right and down, got %+v", bottomRight.Direction)
	}
}

func TestBoxFilterSupport(t *testing.T) {
	f := NewBox(1.5)
	if f.Eval1D(1.0) != 1 {
		t.Fatal("expected full weight inside the box radius")
	}
	if f.Eval1D(2.0) != 0 {
		t.Fatal("expected zero weight outside the box radius")
	}
}

func TestTentFilterPeaksAtZero(t *testing.T) {
	f := NewTent(2)
	if f.Eval1D(0) <= f.Eval1D(1) {
		t.Fatal("tent filter should peak at the center")
	}
	if f.Eval1D(2) != 0 {
		t.Fatal("tent filter should reach zero at its radius")
	}
}

func TestGaussianFilterReachesZeroAtEdge(t *testing.T) {
	f := NewGaussian(2, 0.5)
	if f.Eval1D(2) != 0 {
		t.Fatalf("gaussian should be re-based to exactly zero at the radius, got %v", f.Eval1D(2))
	}
	if f.Eval1D(0) <= 0 {
		t.Fatal("gaussian should be positive at the center")
	}
}

func TestMitchellFilterSymmetric(t *testing.T) {
	f := NewMitchell(2, 1.0/3, 1.0/3)
	a := f.Eval1D(1.3)
	b := f.Eval1D(-1.3)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("mitchell filter should be symmetric, got %v vs %v", a, b)
	}
	if f.Eval1D(2.5) != 0 {
		t.Fatal("mitchell filter should be zero beyond its support")
	}
}
