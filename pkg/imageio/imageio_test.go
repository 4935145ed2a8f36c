package imageio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	rtcolor "github.com/taigrr/pathtrace/pkg/color"
)

func TestSavePNGRejectsMismatchedLength(t *testing.T) {
	dir := t.TempDir()
	err := SavePNG(filepath.Join(dir, "out.png"), make([]rtcolor.RGB, 4), 3, 3)
	if err == nil {
		t.Fatal("expected an error for a bitmap that doesn't match width*height")
	}
}

func TestSavePNGWritesDecodableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	bitmap := []rtcolor.RGB{
		rtcolor.Black, rtcolor.White,
		rtcolor.New(1, 0, 0), rtcolor.Gray(0.5),
	}
	if err := SavePNG(path, bitmap, 2, 2); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("expected a 2x2 image, got %dx%d", b.Dx(), b.Dy())
	}

	// Black stays black. White (1.0) is not saturated: Reinhard maps it
	// to 0.5, and gamma 2.2 encodes that as 186 (0xBABA in 16 bits).
	r, g, bch, a := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || bch != 0 || a != 0xffff {
		t.Fatalf("expected opaque black at (0,0), got %v %v %v %v", r, g, bch, a)
	}
	r, g, bch, _ = img.At(1, 0).RGBA()
	if r != 0xbaba || g != 0xbaba || bch != 0xbaba {
		t.Fatalf("expected tonemapped white 0xbaba at (1,0), got %v %v %v", r, g, bch)
	}
}

func TestSaveLoadHDRRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hdr")

	const w, h = 3, 2
	bitmap := make([]rtcolor.RGB, w*h)
	for i := range bitmap {
		bitmap[i] = rtcolor.New(float64(i)*1.25, float64(i)*0.5+10, 3.75)
	}

	if err := SaveHDR(path, bitmap, w, h); err != nil {
		t.Fatalf("SaveHDR: %v", err)
	}

	got, gotW, gotH, err := LoadHDR(path)
	if err != nil {
		t.Fatalf("LoadHDR: %v", err)
	}
	if gotW != w || gotH != h {
		t.Fatalf("expected %dx%d, got %dx%d", w, h, gotW, gotH)
	}
	for i := range bitmap {
		want := bitmap[i]
		c := got[i]
		// float32 round-trip: exact for these small integer-ish values.
		if float32(want.R) != float32(c.R) || float32(want.G) != float32(c.G) || float32(want.B) != float32(c.B) {
			t.Fatalf("pixel %d: want %+v, got %+v", i, want, c)
		}
	}
}

func TestLoadHDRRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hdr")
	if err := os.WriteFile(path, []byte("not an hdr file at all, long enough"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, _, err := LoadHDR(path); err == nil {
		t.Fatal("expected an error for a file with a bad magic header")
	}
}

func TestResizeProducesRequestedDimensions(t *testing.T) {
	src := make([]color.RGBA, 4*4)
	for i := range src {
		src[i] = color.RGBA{R: 200, G: 100, B: 50, A: 255}
	}
	out := Resize(src, 4, 4, 2, 2)
	if len(out) != 4 {
		t.Fatalf("expected a 2x2 result (4 pixels), got %d", len(out))
	}
	// A uniform-color source resizes to the same uniform color.
	for i, c := range out {
		if c.R != 200 || c.G != 100 || c.B != 50 {
			t.Fatalf("pixel %d: expected uniform (200,100,50), got %+v", i, c)
		}
	}
}

func TestResizeBitmapToneMapsBeforeScaling(t *testing.T) {
	bitmap := []rtcolor.RGB{rtcolor.White, rtcolor.White, rtcolor.White, rtcolor.White}
	out := ResizeBitmap(bitmap, 2, 2, 1, 1)
	if len(out) != 1 {
		t.Fatalf("expected a single pixel, got %d", len(out))
	}
	// White tonemaps to 186 per channel (Reinhard 0.5, then gamma 2.2).
	if out[0].R != 186 || out[0].G != 186 || out[0].B != 186 {
		t.Fatalf("expected tonemapped white (186,186,186), got %+v", out[0])
	}
}
