package color

import (
	"image/color"
	"math"
)

// Reinhard applies the simple Reinhard tonemap c/(1+c) channel-wise,
// compressing unbounded radiance into [0,1) before gamma correction.
func Reinhard(c RGB) RGB {
	return RGB{
		c.R / (1 + c.R),
		c.G / (1 + c.G),
		c.B / (1 + c.B),
	}
}

// GammaEncode applies the sRGB-approximating power-law gamma (2.2) to
// an already-tonemapped, [0,1]-range color.
func GammaEncode(c RGB) RGB {
	const invGamma = 1.0 / 2.2
	return RGB{
		math.Pow(clamp01(c.R), invGamma),
		math.Pow(clamp01(c.G), invGamma),
		math.Pow(clamp01(c.B), invGamma),
	}
}

// ToRGBA converts a linear radiance value to a display-ready
// image/color.RGBA, applying the Reinhard tonemap and gamma encode
// when tonemap is true, or a plain clamp otherwise (used for a
// debug/flat render that is already in display range).
func ToRGBA(c RGB, tonemap bool) color.RGBA {
	if c.HasNaN() {
		c = Black
	}
	if tonemap {
		c = GammaEncode(Reinhard(c))
	} else {
		c = c.Clamp01()
	}
	return color.RGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: 255,
	}
}

// FromRGBA converts a display color back into linear radiance,
// inverting the gamma encode, for loading textures stored as PNG/JPEG.
func FromRGBA(c color.RGBA) RGB {
	const gamma = 2.2
	return RGB{
		math.Pow(float64(c.R)/255, gamma),
		math.Pow(float64(c.G)/255, gamma),
		math.Pow(float64(c.B)/255, gamma),
	}
}
