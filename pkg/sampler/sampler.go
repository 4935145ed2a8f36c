// Package sampler provides the per-pixel sample-stream contracts used
// by the renderer and integrators: Independent (plain PCG32 noise)
// and Stratified (pre-jittered low-discrepancy cells), matching
// spec.md §4.7.
package sampler

import "github.com/taigrr/pathtrace/pkg/math3d"

// BlockOffset identifies the image block a sampler is about to render,
// used to seed per-worker streams deterministically.
type BlockOffset struct {
	X, Y int
}

// Sampler draws 1D/2D sample streams for each sub-pixel sample of a
// render, following original_source/src/core/sampler.h's
// prepare/generate/next1D/next2D/advance/clone contract.
type Sampler interface {
	// SampleCount returns the number of samples drawn per pixel.
	SampleCount() int
	// Prepare seeds the sampler's stream from the block it is about to
	// render, so that results are deterministic given a fixed seed and
	// block partitioning.
	Prepare(offset BlockOffset)
	// Generate readies a new set of per-pixel sample streams (called
	// once per pixel, before the per-sample loop).
	Generate()
	// Advance moves to the next sample within the current pixel,
	// resetting the per-sample dimension counters.
	Advance()
	// Next1D returns the next scalar sample in the current stream.
	Next1D() float64
	// Next2D returns the next 2D sample in the current stream.
	Next2D() math3d.Vec2
	// Clone returns an independent copy suitable for a different
	// worker goroutine; its stream is uncorrelated with the original's
	// once both are Prepare'd with different offsets.
	Clone() Sampler
}
