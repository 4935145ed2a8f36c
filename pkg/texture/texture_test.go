package texture

import (
	"math"
	"testing"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

func TestNearestSampleReturnsExactPixel(t *testing.T) {
	tex := New(2, 2)
	tex.FilterMode = FilterNearest
	tex.SetPixel(0, 0, color.New(1, 0, 0))
	tex.SetPixel(1, 0, color.New(0, 1, 0))
	tex.SetPixel(0, 1, color.New(0, 0, 1))
	tex.SetPixel(1, 1, color.White)

	// Sample() flips V (image row 0 is top, UV v=0 is bottom), so the
	// bottom-left UV sample should land on stored row y=1 (0,0,1).
	got := tex.Sample(0.1, 0.1)
	if got.B != 1 || got.R != 0 {
		t.Fatalf("got %+v, want row y=1 pixel (0,0,1)", got)
	}
}

func TestBilinearIdentityAtTexelCenter(t *testing.T) {
	tex := New(4, 4)
	tex.FilterMode = FilterBilinear
	for i := range tex.Pixels {
		tex.Pixels[i] = color.Gray(float64(i) / float64(len(tex.Pixels)))
	}
	// Bilinear sampling exactly at a texel center should reproduce that
	// texel (no surrounding contribution). Sample flips V, so v =
	// 1-(1.5/4) lands on the center of stored row y=1.
	want := tex.GetPixel(2, 1)
	got := tex.Sample(2.5/4, 1-(1.5/4))
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Fatalf("got %v, want %v", got.R, want.R)
	}
}

func TestModulateVsReplace(t *testing.T) {
	tex := New(1, 1)
	tex.SetPixel(0, 0, color.New(0.5, 0.5, 0.5))
	base := color.New(0.2, 0.4, 0.6)

	mod := tex.Combine(Modulate, base, 0, 0)
	want := base.Mul(color.New(0.5, 0.5, 0.5))
	if mod != want {
		t.Fatalf("got %+v, want %+v", mod, want)
	}

	rep := tex.Combine(Replace, base, 0, 0)
	if rep != color.New(0.5, 0.5, 0.5) {
		t.Fatalf("got %+v, want texture color unchanged", rep)
	}
}

func TestWrapRepeatVsClamp(t *testing.T) {
	tex := New(2, 1)
	tex.FilterMode = FilterNearest
	tex.SetPixel(0, 0, color.New(1, 0, 0))
	tex.SetPixel(1, 0, color.New(0, 1, 0))

	tex.WrapU = WrapRepeat
	a := tex.Sample(1.25, 0) // wraps to u=0.25 -> pixel 0
	if a.R != 1 {
		t.Fatalf("repeat wrap: got %+v, want red", a)
	}

	tex.WrapU = WrapClamp
	b := tex.Sample(1.25, 0) // clamps to u=1 -> pixel 1
	if b.G != 1 {
		t.Fatalf("clamp wrap: got %+v, want green", b)
	}
}

func TestLightProbeFrontDirection(t *testing.T) {
	tex := New(8, 4)
	tex.FilterMode = FilterNearest
	for i := range tex.Pixels {
		tex.Pixels[i] = color.Gray(float64(i) / float64(len(tex.Pixels)))
	}
	probe := NewLightProbe(tex)
	c := probe.Eval(math3d.V3(0, 0, -1))
	if c.R < 0 || c.R > 1 {
		t.Fatalf("probe eval out of range: %+v", c)
	}
}
