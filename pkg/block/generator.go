package block

import (
	"sync/atomic"

	"github.com/taigrr/pathtrace/pkg/camera"
)

// tileSize is the edge length, in pixels, of each block handed out by
// the generator.
const tileSize = 32

// Generator hands out image blocks in Morton (Z-order) tile sequence
// so that spatially adjacent tiles tend to be processed near in time,
// improving cache locality across a worker pool versus a naive
// row-major scan. Enriched from the atomic-counter work-queue idiom in
// other_examples' progressive ray tracer renderer, adapted to a
// precomputed Morton order over a regular tile grid rather than a
// simple incrementing row index.
type Generator struct {
	width, height int
	filter        camera.Filter
	tiles         []Offset
	next          atomic.Int64
}

// NewGenerator creates a generator over an image of the given size.
func NewGenerator(width, height int, filter camera.Filter) *Generator {
	g := &Generator{width: width, height: height, filter: filter}
	g.buildTileOrder()
	return g
}

func (g *Generator) buildTileOrder() {
	cols := (g.width + tileSize - 1) / tileSize
	rows := (g.height + tileSize - 1) / tileSize

	type tile struct {
		morton uint64
		off    Offset
	}
	tiles := make([]tile, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			tiles = append(tiles, tile{morton: interleave(uint32(tx), uint32(ty)), off: Offset{X: tx * tileSize, Y: ty * tileSize}})
		}
	}
	// Simple insertion sort by Morton code so the
	// traversal visits spatially adjacent tiles close together in time.
	for i := 1; i < len(tiles); i++ {
		j := i
		for j > 0 && tiles[j-1].morton > tiles[j].morton {
			tiles[j-1], tiles[j] = tiles[j], tiles[j-1]
			j--
		}
	}

	g.tiles = make([]Offset, len(tiles))
	for i, t := range tiles {
		g.tiles[i] = t.off
	}
}

// interleave bit-interleaves x and y into a Morton (Z-order) code.
func interleave(x, y uint32) uint64 {
	return spread(x) | (spread(y) << 1)
}

func spread(v uint32) uint64 {
	x := uint64(v)
	x = (x | (x << 16)) & 0x0000FFFF0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x << 2)) & 0x3333333333333333
	x = (x | (x << 1)) & 0x5555555555555555
	return x
}

// Next pulls the next block to render, sized to the generator's tile
// size (clipped against the image edges), or reports done=true once
// every tile has been handed out. Safe for concurrent use by many
// worker goroutines: the only critical section is the atomic
// increment.
func (g *Generator) Next() (b *ImageBlock, done bool) {
	i := g.next.Add(1) - 1
	if int(i) >= len(g.tiles) {
		return nil, true
	}
	off := g.tiles[i]
	w := min(tileSize, g.width-off.X)
	h := min(tileSize, g.height-off.Y)

	blk := New(w, h, g.filter)
	blk.SetOffset(off)
	return blk, false
}

// Total returns the number of tiles this generator will hand out.
func (g *Generator) Total() int { return len(g.tiles) }
