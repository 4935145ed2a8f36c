// Package accel builds and traverses a bounding volume hierarchy over
// a mesh's triangles, the same two-phase build/intersect split the
// teacher uses for its camera frustum (build once, query many times)
// but generalized from plane-vs-box culling to ray-vs-triangle search.
package accel

import (
	"sort"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// PrimitiveSet is the minimal view a BVH needs of the geometry it
// indexes. A mesh's triangles satisfy it directly; the BVH never
// otherwise assumes anything about what a primitive "is".
type PrimitiveSet interface {
	Len() int
	Bounds(i int) geom.BoundingBox3f
	Centroid(i int) math3d.Vec3
	// Intersect tests primitive i against r, returning the hit
	// distance and its two barycentric-ish parameters (u, v) on
	// success. maxT bounds the search so the BVH can shrink the
	// interval as it finds closer hits.
	Intersect(i int, r geom.Ray, maxT float64) (t, u, v float64, ok bool)
}

// SplitMethod selects how an internal node partitions its primitives.
type SplitMethod int

const (
	SplitMiddle SplitMethod = iota
	SplitEqualCounts
	SplitSAH
)

const nBuckets = 12

// node is stored by index into BVH.nodes, never by pointer, so the
// whole tree is one contiguous slice — cheap to build per-mesh and
// friendly to the allocator under concurrent rendering.
type node struct {
	Bounds       geom.BoundingBox3f
	Start, Count int // into BVH.prims; Count == 0 for interior nodes
	RightChild   int // index of the right child; left child is always this node + 1
	Axis         int
}

func (n *node) isLeaf() bool { return n.Count > 0 }

// BVH is a flat-array bounding volume hierarchy over a PrimitiveSet.
type BVH struct {
	nodes []node
	prims []int // permuted primitive indices, leaves reference a contiguous run
}

// Build constructs a BVH over every primitive in set using split,
// starting a leaf once a node holds leafSize or fewer primitives or
// maxDepth is reached. Mirrors the original bvh.h build(mesh,
// targetCellSize, maxDepth) contract.
func Build(set PrimitiveSet, split SplitMethod, leafSize, maxDepth int) *BVH {
	n := set.Len()
	b := &BVH{prims: make([]int, n)}
	for i := range b.prims {
		b.prims[i] = i
	}
	if n == 0 {
		b.nodes = append(b.nodes, node{Bounds: geom.EmptyBox()})
		return b
	}

	centroids := make([]math3d.Vec3, n)
	for i := range n {
		centroids[i] = set.Centroid(i)
	}

	b.nodes = make([]node, 0, 2*n)
	b.build(set, centroids, 0, n, 0, split, leafSize, maxDepth)
	return b
}

// build recursively partitions prims[start:end] in place, appending
// nodes to b.nodes, and returns the index of the node it created.
func (b *BVH) build(set PrimitiveSet, centroids []math3d.Vec3, start, end, depth int, split SplitMethod, leafSize, maxDepth int) int {
	bounds := geom.EmptyBox()
	centroidBounds := geom.EmptyBox()
	for i := start; i < end; i++ {
		bounds = bounds.UnionBox(set.Bounds(b.prims[i]))
		centroidBounds = centroidBounds.UnionPoint(centroids[b.prims[i]])
	}

	nodeIdx := len(b.nodes)
	b.nodes = append(b.nodes, node{Bounds: bounds})
	count := end - start

	makeLeaf := func() int {
		b.nodes[nodeIdx].Start = start
		b.nodes[nodeIdx].Count = count
		return nodeIdx
	}

	if count <= leafSize || depth >= maxDepth || !centroidBounds.Valid() {
		return makeLeaf()
	}

	axis := centroidBounds.LongestAxis()
	lo, hi := centroidBounds.Axis(axis)
	if hi-lo < 1e-12 {
		return makeLeaf()
	}

	mid := b.partition(set, centroids, start, end, axis, split, lo, hi)
	if mid == start || mid == end {
		return makeLeaf()
	}

	b.nodes[nodeIdx].Axis = axis
	b.build(set, centroids, start, mid, depth+1, split, leafSize, maxDepth)
	rightChild := b.build(set, centroids, mid, end, depth+1, split, leafSize, maxDepth)
	b.nodes[nodeIdx].RightChild = rightChild
	return nodeIdx
}

// partition reorders b.prims[start:end] into a left run and a right
// run according to split, returning the boundary index.
func (b *BVH) partition(set PrimitiveSet, centroids []math3d.Vec3, start, end, axis int, split SplitMethod, lo, hi float64) int {
	prims := b.prims[start:end]

	switch split {
	case SplitEqualCounts:
		mid := len(prims) / 2
		sort.Slice(prims, func(i, j int) bool {
			return geom.Component(centroids[prims[i]], axis) < geom.Component(centroids[prims[j]], axis)
		})
		return start + mid

	case SplitSAH:
		if len(prims) <= 4 {
			mid := len(prims) / 2
			sort.Slice(prims, func(i, j int) bool {
				return geom.Component(centroids[prims[i]], axis) < geom.Component(centroids[prims[j]], axis)
			})
			return start + mid
		}
		return start + b.sahPartition(set, centroids, prims, axis, lo, hi)

	default: // SplitMiddle
		mid := lo + (hi-lo)*0.5
		i, j := 0, len(prims)-1
		for i <= j {
			for i <= j && geom.Component(centroids[prims[i]], axis) < mid {
				i++
			}
			for i <= j && geom.Component(centroids[prims[j]], axis) >= mid {
				j--
			}
			if i < j {
				prims[i], prims[j] = prims[j], prims[i]
				i++
				j--
			}
		}
		if i == 0 || i == len(prims) {
			// Degenerate middle split (all centroids on one side):
			// fall back to an equal-count split instead of making an
			// oversized leaf.
			mid := len(prims) / 2
			sort.Slice(prims, func(a, bb int) bool {
				return geom.Component(centroids[prims[a]], axis) < geom.Component(centroids[prims[bb]], axis)
			})
			return start + mid
		}
		return start + i
	}
}

// sahPartition buckets primitives' centroids along axis into nBuckets
// equal-width buckets and picks the split minimizing the surface-area
// heuristic cost, per original_source's BucketInfo{count, bounds}.
func (b *BVH) sahPartition(set PrimitiveSet, centroids []math3d.Vec3, prims []int, axis int, lo, hi float64) int {
	type bucket struct {
		count  int
		bounds geom.BoundingBox3f
	}
	var buckets [nBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = geom.EmptyBox()
	}

	bucketOf := func(i int) int {
		off := (geom.Component(centroids[i], axis) - lo) / (hi - lo)
		k := int(off * nBuckets)
		if k < 0 {
			k = 0
		}
		if k >= nBuckets {
			k = nBuckets - 1
		}
		return k
	}

	for _, i := range prims {
		k := bucketOf(i)
		buckets[k].count++
		buckets[k].bounds = buckets[k].bounds.UnionBox(set.Bounds(i))
	}

	bestCost := -1.0
	bestSplit := nBuckets / 2
	for split := 1; split < nBuckets; split++ {
		var leftBounds, rightBounds = geom.EmptyBox(), geom.EmptyBox()
		leftCount, rightCount := 0, 0
		for i := 0; i < split; i++ {
			leftBounds = leftBounds.UnionBox(buckets[i].bounds)
			leftCount += buckets[i].count
		}
		for i := split; i < nBuckets; i++ {
			rightBounds = rightBounds.UnionBox(buckets[i].bounds)
			rightCount += buckets[i].count
		}
		if leftCount == 0 || rightCount == 0 {
			continue
		}
		cost := float64(leftCount)*leftBounds.SurfaceArea() + float64(rightCount)*rightBounds.SurfaceArea()
		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			bestSplit = split
		}
	}

	sort.Slice(prims, func(i, j int) bool {
		return bucketOf(prims[i]) < bucketOf(prims[j])
	})

	// Re-derive the boundary index after sorting: count how many
	// primitives fall in buckets < bestSplit.
	boundary := 0
	for _, i := range prims {
		if bucketOf(i) >= bestSplit {
			break
		}
		boundary++
	}
	if boundary == 0 || boundary == len(prims) {
		return len(prims) / 2
	}
	return boundary
}

// Bounds returns the world-space bounding box of the whole tree.
func (b *BVH) Bounds() geom.BoundingBox3f {
	if len(b.nodes) == 0 {
		return geom.EmptyBox()
	}
	return b.nodes[0].Bounds
}

// Intersect finds the closest primitive along r, testing only nodes
// whose bounding box the ray can reach and pruning whenever a closer
// hit has already been found. Returns ok=false if nothing is hit
// within r's [MinT, MaxT] range.
func (b *BVH) Intersect(set PrimitiveSet, r geom.Ray) (primIndex int, t, u, v float64, ok bool) {
	if len(b.nodes) == 0 {
		return -1, 0, 0, 0, false
	}
	maxT := r.MaxT
	primIndex = -1

	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		idx := stack[sp]
		n := &b.nodes[idx]

		if _, _, hitBox := n.Bounds.RayIntersect(geom.Ray{Origin: r.Origin, Direction: r.Direction, MinT: r.MinT, MaxT: maxT}); !hitBox {
			continue
		}

		if n.isLeaf() {
			for i := n.Start; i < n.Start+n.Count; i++ {
				p := b.prims[i]
				if ht, hu, hv, hok := set.Intersect(p, r, maxT); hok {
					maxT = ht
					t, u, v = ht, hu, hv
					primIndex = p
					ok = true
				}
			}
			continue
		}

		left := idx + 1
		right := n.RightChild
		stack[sp] = left
		sp++
		stack[sp] = right
		sp++
	}

	return primIndex, t, u, v, ok
}

