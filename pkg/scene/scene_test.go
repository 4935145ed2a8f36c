package scene

import (
	"math"
	"testing"

	"github.com/taigrr/pathtrace/pkg/bsdf"
	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/shape"
)

func TestIntersectPicksNearestAcrossDifferentTransforms(t *testing.T) {
	near := shape.NewSphere(1, geom.NewTransform(math3d.Translate(math3d.V3(0, 0, -5))))
	// Far sphere scaled non-uniformly, exercising the precision-loss
	// REDESIGN FLAG fix: no shape's local t ever bounds another's search.
	far := shape.NewSphere(1, geom.NewTransform(math3d.Scale(math3d.V3(1, 1, 3)).Mul(math3d.Translate(math3d.V3(0, 0, -20)))))

	sc := New(color.Black)
	sc.Primitives = []Primitive{
		{Shape: far, BSDF: bsdf.NewDiffuse(color.White)},
		{Shape: near, BSDF: bsdf.NewDiffuse(color.White)},
	}

	r := geom.NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1))
	hit := sc.Intersect(r)
	if !hit.Found() {
		t.Fatal("expected an intersection")
	}
	if hit.Shape != 1 {
		t.Fatalf("expected the nearer sphere (index 1) to win, got shape index %d at t=%v", hit.Shape, hit.T)
	}
	if math.Abs(hit.T-4) > 1e-6 {
		t.Fatalf("got t=%v, want ~4 (sphere surface at z=-4)", hit.T)
	}
}

func TestIntersectMissReturnsNotFound(t *testing.T) {
	sc := New(color.New(0.1, 0.2, 0.3))
	sc.Primitives = []Primitive{
		{Shape: shape.NewSphere(1, geom.NewTransform(math3d.Translate(math3d.V3(10, 10, 10)))), BSDF: bsdf.NewDiffuse(color.White)},
	}
	r := geom.NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1))
	hit := sc.Intersect(r)
	if hit.Found() {
		t.Fatal("expected no intersection")
	}
}

func TestOccludedByIntermediateShape(t *testing.T) {
	blocker := shape.NewSphere(1, geom.NewTransform(math3d.Translate(math3d.V3(0, 0, -3))))
	sc := New(color.Black)
	sc.Primitives = []Primitive{
		{Shape: blocker, BSDF: bsdf.NewDiffuse(color.White)},
	}
	if !sc.Occluded(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1), 10) {
		t.Fatal("expected the sphere to occlude a ray passing through it")
	}
	if sc.Occluded(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), 10) {
		t.Fatal("expected no occlusion along a direction that misses the sphere")
	}
}

func TestResolvePrimitiveOutOfRange(t *testing.T) {
	sc := New(color.Black)
	if sc.ResolvePrimitive(geom.NoShape) != nil {
		t.Fatal("NoShape should resolve to nil")
	}
	if sc.ResolvePrimitive(geom.ShapeRef(5)) != nil {
		t.Fatal("out-of-range ShapeRef should resolve to nil")
	}
}

func TestMissFallsBackToBackground(t *testing.T) {
	bg := color.New(0.2, 0.4, 0.6)
	sc := New(bg)
	if sc.Miss(math3d.V3(0, 1, 0)) != bg {
		t.Fatalf("expected background color with no env map, got %+v", sc.Miss(math3d.V3(0, 1, 0)))
	}
}
