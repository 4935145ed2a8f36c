package imageio

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	rtcolor "github.com/taigrr/pathtrace/pkg/color"
)

// Resize scales src (already-tonemapped 8-bit pixels, width x height)
// to dstW x dstH using golang.org/x/image/draw's bilinear filter, for
// the HUD's live terminal preview: a render tile's pixel grid rarely
// lines up with the terminal's half-block grid, and nearest-neighbor
// sampling flickers as tiles at different resolutions complete.
// Grounded on the pack's golang.org/x/image dependency (pulled in
// elsewhere in the pack for font rasterization); BiLinear is its
// cheapest quality scaler, appropriate for a preview refreshed many
// times per second rather than a final output image.
func Resize(src []color.RGBA, srcW, srcH, dstW, dstH int) []color.RGBA {
	srcImg := image.NewRGBA(image.Rect(0, 0, srcW, srcH))
	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			srcImg.SetRGBA(x, y, src[y*srcW+x])
		}
	}

	dstImg := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.BiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Over, nil)

	out := make([]color.RGBA, dstW*dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			out[y*dstW+x] = dstImg.RGBAAt(x, y)
		}
	}
	return out
}

// ResizeBitmap scales a linear-radiance bitmap directly, tonemapping
// each source pixel before the filter runs so gradients are blended in
// display space rather than linear space (matching how the final PNG
// looks once written).
func ResizeBitmap(src []rtcolor.RGB, srcW, srcH, dstW, dstH int) []color.RGBA {
	rgba := make([]color.RGBA, len(src))
	for i, c := range src {
		rgba[i] = rtcolor.ToRGBA(c, true)
	}
	return Resize(rgba, srcW, srcH, dstW, dstH)
}
