// Package texture provides image-backed and procedural textures for
// BSDF albedo lookups, plus the equirectangular light probe used by
// infinite lights and environment backgrounds.
package texture

import (
	"image"
	_ "image/jpeg"
	"math"
	"os"

	"github.com/taigrr/pathtrace/pkg/color"
)

// WrapMode determines how texture coordinates outside [0,1] are
// handled. Grounded on the teacher's render.WrapMode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode determines how texture sampling is performed. Grounded
// on the teacher's render.FilterMode.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// CombineMode controls how a sampled texture combines with the BSDF's
// base reflectance: MODULATE multiplies the two, REPLACE discards the
// base and uses the texture alone.
type CombineMode int

const (
	Modulate CombineMode = iota
	Replace
)

// Texture holds a 2D grid of linear-radiance pixels, adapted from the
// teacher's render.Texture but generalized from byte Color to
// color.RGB so sampled albedos can be used directly in floating-point
// shading math without a decode step.
type Texture struct {
	Width, Height int
	Pixels        []color.RGB
	WrapU, WrapV  WrapMode
	FilterMode    FilterMode
	// ScaleU/ScaleV tile the texture across a shape's UV range before
	// wrapping, e.g. a ScaleU of 4 repeats the texture four times
	// across u in [0,1].
	ScaleU, ScaleV float64
}

// New creates an empty texture with the given dimensions.
func New(width, height int) *Texture {
	return &Texture{
		Width: width, Height: height,
		Pixels:     make([]color.RGB, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterBilinear,
		ScaleU:     1, ScaleV: 1,
	}
}

// Load reads an image file (PNG/JPEG, via the stdlib decoders) and
// converts it to linear radiance.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image.Image into a Texture.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	tex := New(width, height)
	for y := range height {
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			_ = a
			c := colorFromRGBA16(r, g, b)
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

func colorFromRGBA16(r, g, b uint32) color.RGB {
	const gamma = 2.2
	return color.RGB{
		R: math.Pow(float64(r)/65535, gamma),
		G: math.Pow(float64(g)/65535, gamma),
		B: math.Pow(float64(b)/65535, gamma),
	}
}

// NewChecker returns a procedural checkerboard texture, grounded on
// the teacher's render.NewCheckerTexture.
func NewChecker(width, height, checkSize int, c1, c2 color.RGB) *Texture {
	tex := New(width, height)
	for y := range height {
		for x := range width {
			if ((x/checkSize)+(y/checkSize))%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradient returns a horizontal gradient texture, grounded on the
// teacher's render.NewGradientTexture.
func NewGradient(width, height int, left, right color.RGB) *Texture {
	tex := New(width, height)
	for y := range height {
		for x := range width {
			t := float64(x) / float64(max(width-1, 1))
			tex.SetPixel(x, y, left.Lerp(right, t))
		}
	}
	return tex
}

func (t *Texture) SetPixel(x, y int, c color.RGB) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

func (t *Texture) GetPixel(x, y int) color.RGB {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return color.Black
	}
	return t.Pixels[y*t.Width+x]
}

// Sample looks up the texture at UV coordinates, applying the tiling
// scale, wrap mode, and filter.
func (t *Texture) Sample(u, v float64) color.RGB {
	su, sv := t.ScaleU, t.ScaleV
	if su == 0 {
		su = 1
	}
	if sv == 0 {
		sv = 1
	}
	u, v = u*su, v*sv

	u = t.wrapCoord(u, t.WrapU)
	v = t.wrapCoord(v, t.WrapV)
	v = 1 - v

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

// Combine applies this texture's sample at (u,v) to the base
// reflectance according to mode.
func (t *Texture) Combine(mode CombineMode, base color.RGB, u, v float64) color.RGB {
	s := t.Sample(u, v)
	if mode == Replace {
		return s
	}
	return base.Mul(s)
}

func (t *Texture) wrapCoord(c float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		return c - math.Floor(c)
	default:
		return clamp01(c)
	}
}

func (t *Texture) sampleNearest(u, v float64) color.RGB {
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) color.RGB {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1, y1 := x0+1, y0+1

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0 = t.wrapPixelCoord(x0, t.Width, t.WrapU)
	x1 = t.wrapPixelCoord(x1, t.Width, t.WrapU)
	y0 = t.wrapPixelCoord(y0, t.Height, t.WrapV)
	y1 = t.wrapPixelCoord(y1, t.Height, t.WrapV)

	c00 := t.GetPixel(x0, y0)
	c10 := t.GetPixel(x1, y0)
	c01 := t.GetPixel(x0, y1)
	c11 := t.GetPixel(x1, y1)

	top := c00.Lerp(c10, tx)
	bot := c01.Lerp(c11, tx)
	return top.Lerp(bot, ty)
}

func (t *Texture) wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	default:
		if x < 0 {
			x = 0
		} else if x >= size {
			x = size - 1
		}
	}
	return x
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
