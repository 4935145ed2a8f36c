package render

import (
	"image/color"
)

// rgbaToColor converts color.RGBA to Go's color.Color interface, with a
// fully transparent pixel mapping to nil so ultraviolet leaves the
// terminal's own background showing through rather than painting black.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// ColorWhite and ColorBlack are the HUD status line's fixed fg/bg —
// the live preview's own pixels come from the rendered image, so the
// only other colors a path tracer's HUD ever needs are the two this
// status line is drawn in.
var (
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorBlack = color.RGBA{0, 0, 0, 255}
)
