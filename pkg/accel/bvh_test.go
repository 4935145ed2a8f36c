package accel

import (
	"math"
	"testing"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// spherePrims places n small spheres on a line along X, each
// implemented as a single "primitive" whose Intersect does a direct
// analytic ray-sphere test, so BVH correctness can be checked against
// a brute-force linear scan over the same primitives.
type spherePrims struct {
	centers []math3d.Vec3
	radius  float64
}

func (s spherePrims) Len() int { return len(s.centers) }

func (s spherePrims) Bounds(i int) geom.BoundingBox3f {
	r := math3d.V3(s.radius, s.radius, s.radius)
	return geom.BoundingBox3f{Min: s.centers[i].Sub(r), Max: s.centers[i].Add(r)}
}

func (s spherePrims) Centroid(i int) math3d.Vec3 { return s.centers[i] }

func (s spherePrims) Intersect(i int, r geom.Ray, maxT float64) (t, u, v float64, ok bool) {
	oc := r.Origin.Sub(s.centers[i])
	a := r.Direction.Dot(r.Direction)
	bq := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := bq*bq - 4*a*c
	if disc < 0 {
		return 0, 0, 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-bq - sq) / (2 * a)
	t1 := (-bq + sq) / (2 * a)
	for _, cand := range []float64{t0, t1} {
		if cand > r.MinT && cand < maxT {
			return cand, 0, 0, true
		}
	}
	return 0, 0, 0, false
}

func bruteForce(set spherePrims, r geom.Ray) (int, float64, bool) {
	best := -1
	bestT := r.MaxT
	for i := range set.Len() {
		if t, _, _, ok := set.Intersect(i, r, bestT); ok {
			bestT = t
			best = i
		}
	}
	return best, bestT, best >= 0
}

func makeSpheres(n int) spherePrims {
	centers := make([]math3d.Vec3, n)
	for i := range n {
		centers[i] = math3d.V3(float64(i)*2, 0, 0)
	}
	return spherePrims{centers: centers, radius: 0.4}
}

func TestBVHMatchesBruteForce(t *testing.T) {
	set := makeSpheres(200)
	for _, split := range []SplitMethod{SplitMiddle, SplitEqualCounts, SplitSAH} {
		bvh := Build(set, split, 4, 32)

		rays := []geom.Ray{
			geom.NewRay(math3d.V3(0, 5, 0), math3d.V3(0, -1, 0)),
			geom.NewRay(math3d.V3(-10, 0, 0), math3d.V3(1, 0, 0)),
			geom.NewRay(math3d.V3(400, 0, 0), math3d.V3(1, 0, 0)),
			geom.NewRay(math3d.V3(10.4, 5, 0), math3d.V3(0, -1, 0)),
		}
		for ri, r := range rays {
			wantIdx, wantT, wantOK := bruteForce(set, r)
			gotIdx, gotT, _, _, gotOK := bvh.Intersect(set, r)

			if gotOK != wantOK {
				t.Fatalf("split=%v ray=%d: ok=%v, want %v", split, ri, gotOK, wantOK)
			}
			if !wantOK {
				continue
			}
			if gotIdx != wantIdx || math.Abs(gotT-wantT) > 1e-9 {
				t.Fatalf("split=%v ray=%d: got (idx=%d,t=%v), want (idx=%d,t=%v)", split, ri, gotIdx, gotT, wantIdx, wantT)
			}
		}
	}
}

func TestBVHEmptySet(t *testing.T) {
	set := makeSpheres(0)
	bvh := Build(set, SplitSAH, 4, 32)
	_, _, _, _, ok := bvh.Intersect(set, geom.NewRay(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)))
	if ok {
		t.Fatalf("expected no intersection against an empty BVH")
	}
}

func TestBVHSingleLeaf(t *testing.T) {
	set := makeSpheres(3)
	bvh := Build(set, SplitMiddle, 10, 32) // leafSize >= count: whole tree is one leaf
	idx, _, _, _, ok := bvh.Intersect(set, geom.NewRay(math3d.V3(2, 5, 0), math3d.V3(0, -1, 0)))
	if !ok || idx != 1 {
		t.Fatalf("got idx=%d ok=%v, want idx=1 ok=true", idx, ok)
	}
}

func TestBoundingBoxRayIntersect(t *testing.T) {
	box := geom.BoundingBox3f{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	r := geom.NewRay(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1))
	tMin, tMax, ok := box.RayIntersect(r)
	if !ok || math.Abs(tMin-4) > 1e-9 || math.Abs(tMax-6) > 1e-9 {
		t.Fatalf("got tMin=%v tMax=%v ok=%v, want 4,6,true", tMin, tMax, ok)
	}

	miss := geom.NewRay(math3d.V3(5, 5, -5), math3d.V3(0, 0, 1))
	if _, _, ok := box.RayIntersect(miss); ok {
		t.Fatalf("expected miss")
	}
}
