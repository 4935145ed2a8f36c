package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/camera"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/light"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/sampler"
	"github.com/taigrr/pathtrace/pkg/shape"
	"github.com/taigrr/pathtrace/pkg/texture"
)

// The source's object system dispatches on a macro-registered class
// name (NORI_REGISTER_CLASS) and builds each node from its parsed
// PropertyList. Here that registry becomes an explicit builder map
// keyed by the same class tags used in scene files, each entry a small
// func(*PropertyList) (T, error) — grounded on
// original_source/src/core/object.h's class-tag dispatch, without the
// macro machinery. Mesh, area light, infinite light, and integrator
// construction are handled by pkg/sceneio and pkg/integrator directly,
// since they need file I/O or the Scene/Integrator types that would
// otherwise cycle back into this package.

// BuildShape constructs a non-mesh shape (sphere, quad, disk) from tag
// and props.
func BuildShape(tag string, props *PropertyList) (shape.Shape, error) {
	xfm := props.Transform("toWorld")
	switch tag {
	case "sphere":
		radius := props.Float("radius", 1)
		center := props.Vector("center", math3d.V3(0, 0, 0))
		xfm = geom.NewTransform(math3d.Translate(center)).Compose(xfm)
		return shape.NewSphere(radius, xfm), nil
	case "quad":
		size := math3d.V2(props.Float("width", 1), props.Float("height", 1))
		return shape.NewQuad(size, xfm), nil
	case "disk":
		return shape.NewDisk(props.Float("radius", 1), xfm), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown shape class %q", tag), nil)
	}
}

// BuildBSDF constructs a BSDF from tag and props. tex, when non-nil,
// overrides a "diffuse" node's albedo with a texture lookup (the
// nested <texture> child in the source's material nodes).
func BuildBSDF(tag string, props *PropertyList, tex *texture.Texture) (bsdf.BSDF, error) {
	switch tag {
	case "diffuse":
		if tex != nil {
			return bsdf.NewTexturedDiffuse(tex), nil
		}
		return bsdf.NewDiffuse(props.Color("albedo", color.New(0.5, 0.5, 0.5))), nil
	case "mirror":
		return bsdf.NewMirror(props.Color("albedo", color.White)), nil
	case "dielectric":
		return bsdf.NewDielectric(props.Float("intIOR", 1.5046), props.Float("extIOR", 1.000277), props.Color("albedo", color.White)), nil
	case "phong":
		return bsdf.NewPhong(props.Color("kd", color.New(0.5, 0.5, 0.5)), props.Color("ks", color.New(0.2, 0.2, 0.2)), props.Float("exponent", 20)), nil
	case "microfacet":
		return bsdf.NewMicrofacet(props.Float("alpha", 0.1), props.Float("intIOR", 1.5046), props.Float("extIOR", 1.000277), props.Color("kd", color.New(0.5, 0.5, 0.5))), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown bsdf class %q", tag), nil)
	}
}

// BuildDeltaLight constructs a point or directional light, the two
// light types that need no shape or texture to attach to. Area and
// infinite lights are built alongside their shape/texture in
// pkg/sceneio.
func BuildDeltaLight(tag string, props *PropertyList) (light.Light, error) {
	switch tag {
	case "pointLight":
		xfm := props.Transform("toWorld")
		position := xfm.Point(math3d.V3(0, 0, 0))
		return light.NewPoint(props.Color("radiance", color.White), position), nil
	case "directionalLight":
		xfm := props.Transform("toWorld")
		direction := xfm.Vector(props.Vector("direction", math3d.V3(0, -1, 0)))
		return light.NewDirectional(props.Color("radiance", color.White), direction), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown delta light class %q", tag), nil)
	}
}

// BuildFilter constructs a reconstruction filter from tag and props.
func BuildFilter(tag string, props *PropertyList) (camera.Filter, error) {
	switch tag {
	case "box":
		return camera.NewBox(props.Float("radius", 0.5)), nil
	case "tent":
		return camera.NewTent(props.Float("radius", 1)), nil
	case "gaussian":
		return camera.NewGaussian(props.Float("radius", 2), props.Float("stddev", 0.5)), nil
	case "mitchell":
		return camera.NewMitchell(props.Float("radius", 2), props.Float("B", 1.0/3), props.Float("C", 1.0/3)), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown filter class %q", tag), nil)
	}
}

// BuildSampler constructs a sampler from tag and props.
func BuildSampler(tag string, props *PropertyList) (sampler.Sampler, error) {
	count := props.Int("sampleCount", 1)
	switch tag {
	case "independent":
		return sampler.NewIndependent(count, uint64(props.Int("seed", 0))), nil
	case "stratified":
		side := props.Int("sampleCount", 1)
		return sampler.NewStratified(side, side, props.Bool("jitter", true), props.Int("maxDimension", 4)), nil
	default:
		return nil, rterror.NewConfig(fmt.Sprintf("unknown sampler class %q", tag), nil)
	}
}

// BuildCamera constructs a perspective camera from props, given the
// already-built filter it owns.
func BuildCamera(props *PropertyList, filter camera.Filter) *camera.Camera {
	xfm := props.Transform("toWorld")
	fovDeg := props.Float("fov", 30)
	width := props.Int("width", 1280)
	height := props.Int("height", 720)
	near := props.Float("nearClip", 1e-4)
	far := props.Float("farClip", 1e4)
	return camera.New(xfm, fovDeg*math.Pi/180, width, height, near, far, filter)
}
