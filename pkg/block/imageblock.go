// Package block implements the bounded rectangular accumulator tiles
// the renderer splats samples into, and the work-queue that hands
// them out to worker goroutines in a cache-friendly order.
package block

import (
	"math"
	"sync"

	"github.com/taigrr/pathtrace/pkg/camera"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Offset identifies a block's top-left pixel in the full image.
type Offset struct {
	X, Y int
}

// pixel is a weighted-color accumulator, adapted from the teacher's
// Framebuffer.Pixels but generalized from a plain color.RGBA to a
// (sum, weight) pair so many filtered sample splats can be merged
// before a final divide in ToBitmap.
type pixel struct {
	sum    color.RGB
	weight float64
}

// ImageBlock is a (width+2*border) x (height+2*border) grid of pixel
// accumulators, where border is the reconstruction filter's radius
// rounded up. Adapted from the teacher's Framebuffer
// (pkg/render/framebuffer.go): same row-major Pixels-plus-bounds-
// checked-SetPixel/GetPixel shape, generalized to splatting rather
// than single-pixel writes.
type ImageBlock struct {
	Offset Offset
	Width  int
	Height int
	Border int
	Filter camera.Filter

	mu     sync.Mutex
	pixels []pixel
}

// New creates a block of the given interior size, with a border wide
// enough to hold filter's support.
func New(width, height int, filter camera.Filter) *ImageBlock {
	border := int(math.Ceil(filter.Radius()))
	w, h := width+2*border, height+2*border
	return &ImageBlock{
		Width:  width,
		Height: height,
		Border: border,
		Filter: filter,
		pixels: make([]pixel, w*h),
	}
}

func (b *ImageBlock) stride() int { return b.Width + 2*b.Border }

// Clear zeroes every accumulator.
func (b *ImageBlock) Clear() {
	for i := range b.pixels {
		b.pixels[i] = pixel{}
	}
}

// SetOffset repositions the block within the full image.
func (b *ImageBlock) SetOffset(o Offset) { b.Offset = o }

// index converts block-local pixel coordinates (including the
// border) to a flat Pixels index, or -1 if out of range.
func (b *ImageBlock) index(x, y int) int {
	if x < 0 || y < 0 || x >= b.stride() || y >= b.Height+2*b.Border {
		return -1
	}
	return y*b.stride() + x
}

// Put splats value at block-local sample position pos (in units of
// pixels, origin at the block's un-bordered top-left corner) across
// every pixel within the filter's support, weighted by the
// tensor-product 1D kernel. Grounded on spec.md §4.9's ImageBlock.put:
// compute the filter bounding box around pos clipped to the block,
// iterate its pixels, accumulate w*value and w.
func (b *ImageBlock) Put(pos math3d.Vec2, value color.RGB) {
	if value.HasNaN() {
		return
	}
	r := b.Filter.Radius()

	// Shift into border-inclusive pixel space: pixel (0,0) of the
	// accumulator array corresponds to sample position (-Border,-Border).
	sx := pos.X + float64(b.Border)
	sy := pos.Y + float64(b.Border)

	minX := int(math.Ceil(sx - r - 0.5))
	maxX := int(math.Floor(sx + r - 0.5))
	minY := int(math.Ceil(sy - r - 0.5))
	maxY := int(math.Floor(sy + r - 0.5))

	b.mu.Lock()
	defer b.mu.Unlock()
	for y := minY; y <= maxY; y++ {
		wy := b.Filter.Eval1D(sy - 0.5 - float64(y))
		if wy == 0 {
			continue
		}
		for x := minX; x <= maxX; x++ {
			wx := b.Filter.Eval1D(sx - 0.5 - float64(x))
			if wx == 0 {
				continue
			}
			idx := b.index(x, y)
			if idx < 0 {
				continue
			}
			w := wx * wy
			b.pixels[idx].sum = b.pixels[idx].sum.Add(value.Scale(w))
			b.pixels[idx].weight += w
		}
	}
}

// Merge adds other's accumulators into b at other's offset relative
// to b's own offset, under b's lock. Grounded on spec.md §4.9's
// put(block): merge another image block into this one at its offset
// under an exclusive lock.
func (b *ImageBlock) Merge(other *ImageBlock) {
	dx := other.Offset.X - b.Offset.X
	dy := other.Offset.Y - b.Offset.Y

	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < other.Height+2*other.Border; y++ {
		for x := 0; x < other.Width+2*other.Border; x++ {
			srcIdx := y*other.stride() + x
			dstIdx := b.index(x+dx+b.Border-other.Border, y+dy+b.Border-other.Border)
			if dstIdx < 0 {
				continue
			}
			b.pixels[dstIdx].sum = b.pixels[dstIdx].sum.Add(other.pixels[srcIdx].sum)
			b.pixels[dstIdx].weight += other.pixels[srcIdx].weight
		}
	}
}

// ToBitmap produces the final width x height color grid, dividing
// each interior pixel's accumulated color by its accumulated weight.
// Takes b's lock, so it's safe to call on a block other goroutines may
// still be merging into (e.g. a live HUD preview of the renderer's
// shared output block).
func (b *ImageBlock) ToBitmap() []color.RGB {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]color.RGB, b.Width*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			idx := b.index(x+b.Border, y+b.Border)
			p := b.pixels[idx]
			if p.weight > 0 {
				out[y*b.Width+x] = p.sum.Scale(1 / p.weight)
			}
		}
	}
	return out
}
