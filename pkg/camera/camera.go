// Package camera provides the perspective camera used to turn a
// film-space sample position into a world-space ray, plus the
// reconstruction filters used to splat those samples back into an
// image block.
package camera

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// Camera is a pinhole perspective camera. Adapted from the teacher's
// pkg/render/camera.go: it keeps the same dirty-cache idiom (the
// ray-space constants tanHalfFOV and aspect are recomputed only after
// SetFOV or SetOutputSize mark them dirty, like the teacher's
// viewDirty/projDirty pair) but trades WorldToScreen's projection
// direction for SampleRay's inverse one — film space to a world ray
// rather than world point to screen pixel.
type Camera struct {
	ToWorld  geom.Transform
	FOV      float64 // vertical field of view, radians
	Width    int
	Height   int
	NearClip float64
	FarClip  float64
	Filter   Filter

	dirty      bool
	tanHalfFOV float64
	aspect     float64
}

// New creates a camera looking down -Z in its own space (matching the
// teacher's Forward() convention), placed in the world by toWorld.
func New(toWorld geom.Transform, fov float64, width, height int, near, far float64, filter Filter) *Camera {
	c := &Camera{
		ToWorld:  toWorld,
		FOV:      fov,
		Width:    width,
		Height:   height,
		NearClip: near,
		FarClip:  far,
		Filter:   filter,
		dirty:    true,
	}
	c.prepare()
	return c
}

func (c *Camera) prepare() {
	c.tanHalfFOV = math.Tan(c.FOV / 2)
	c.aspect = float64(c.Width) / float64(c.Height)
	c.dirty = false
}

// SampleRay importance-samples a ray through film-space position
// samplePosition (fractional pixel coordinates, (0,0) at the top-left
// corner of the image). Mirrors Camera.sampleRay in
// original_source/src/core/camera.h, generalized from Nori's cached
// sampleToCamera matrix into a direct per-axis NDC computation.
func (c *Camera) SampleRay(samplePosition math3d.Vec2) geom.Ray {
	if c.dirty {
		c.prepare()
	}

	ndcX := (2*samplePosition.X/float64(c.Width) - 1)
	ndcY := (1 - 2*samplePosition.Y/float64(c.Height))

	dirCamera := math3d.V3(
		ndcX*c.tanHalfFOV*c.aspect,
		ndcY*c.tanHalfFOV,
		-1,
	)

	origin := c.ToWorld.Point(math3d.Zero3())
	dir := c.ToWorld.Vector(dirCamera).Normalize()

	r := geom.NewRay(origin, dir)
	r.MinT = c.NearClip
	if c.FarClip > 0 {
		r.MaxT = c.FarClip
	}
	return r
}

// SetFOV updates the field of view, re-deriving cached ray-space
// constants on the next SampleRay call.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetOutputSize updates the output resolution.
func (c *Camera) SetOutputSize(width, height int) {
	c.Width = width
	c.Height = height
	c.dirty = true
}

// OutputSize returns the camera's configured image dimensions.
func (c *Camera) OutputSize() (width, height int) {
	return c.Width, c.Height
}
