// Package imageio writes a rendered bitmap (linear-radiance RGB pixel
// grid) out to disk as PNG or the module's stand-in HDR format, and
// resizes bitmaps for the terminal HUD's live preview. Texture/scene
// asset loading is pkg/texture and pkg/meshio's job, not this
// package's. Adapted from the teacher's Framebuffer.SavePNG
// (pkg/render/framebuffer.go): same image.NewRGBA-plus-image/png.Encode
// shape, generalized from the teacher's pre-quantized color.RGBA
// framebuffer to the renderer's linear-radiance pkg/color.RGB output,
// tonemapped at write time instead of at accumulation time.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/rterror"
)

// SavePNG tonemaps bitmap (Reinhard plus gamma 2.2, via color.ToRGBA)
// and writes it to path as an 8-bit PNG.
func SavePNG(path string, bitmap []color.RGB, width, height int) error {
	if len(bitmap) != width*height {
		return rterror.NewConfig(fmt.Sprintf("imageio: bitmap length %d does not match %dx%d", len(bitmap), width, height), nil)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.ToRGBA(bitmap[y*width+x], true))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return rterror.NewIO(path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return rterror.NewIO(path, err)
	}
	return nil
}
