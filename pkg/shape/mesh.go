package shape

import (
	"math"

	"github.com/taigrr/pathtrace/pkg/accel"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
)

// MeshVertex holds all per-vertex attributes, kept in local (object)
// space; Mesh.Xfm places the whole mesh in the scene. Field set
// adapted from the teacher's models.MeshVertex.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle given as three indices into Mesh.Vertices,
// adapted from the teacher's models.Face.
type Face struct {
	V [3]int
}

// Mesh is a triangle mesh accelerated by a BVH over its own faces, and
// sampleable proportional to the world-space area of each face via a
// DiscretePDF. Grounded on original_source/src/shapes/mesh.cpp
// (Mesh::intersect/intersectFace/sample/activate) and adapted from the
// teacher's pkg/models.Mesh for vertex/face field names and bounds
// bookkeeping.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face
	Xfm      geom.Transform

	bvh       *accel.BVH
	faces     meshFaces
	pdf       *geom.DiscretePDF
	totalArea float64
	localBox  geom.BoundingBox3f
}

// meshFaces adapts Mesh's triangle storage to accel.PrimitiveSet. It
// is a distinct type (rather than Mesh itself) because Mesh's own
// Shape.Intersect and the per-face ray test it needs from the BVH
// necessarily share the name "Intersect" at the call site but not the
// signature — Go methods can't be overloaded, so the BVH-facing view
// is split out here.
type meshFaces struct {
	m *Mesh
}

// NewMesh returns an empty mesh with the identity transform; callers
// append to Vertices/Faces and then call Build.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Xfm: geom.Identity()}
}

// CalculateFlatNormals assigns each face's own normal to its three
// vertices, duplicating across faces (flat shading). Mirrors the
// teacher's Mesh.CalculateNormals.
func (m *Mesh) CalculateFlatNormals() {
	for _, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f.V[0]].Position, m.Vertices[f.V[1]].Position, m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Vertices[f.V[0]].Normal = n
		m.Vertices[f.V[1]].Normal = n
		m.Vertices[f.V[2]].Normal = n
	}
}

// CalculateSmoothNormals accumulates area-weighted face normals into
// each vertex and normalizes, for smooth (Gouraud) shading. Mirrors
// the teacher's Mesh.CalculateSmoothNormals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f.V[0]].Position, m.Vertices[f.V[1]].Position, m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		m.Vertices[f.V[0]].Normal = m.Vertices[f.V[0]].Normal.Add(n)
		m.Vertices[f.V[1]].Normal = m.Vertices[f.V[1]].Normal.Add(n)
		m.Vertices[f.V[2]].Normal = m.Vertices[f.V[2]].Normal.Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Build computes the local-space bounding box, the face BVH (leaf
// size 10, max depth 100 — the same constants original_source passes
// to BVH::build), and the area-proportional DiscretePDF over faces
// (areas computed in world space via Xfm, per activate()). Call this
// once after Vertices/Faces/Xfm are final and any normal pass has run.
func (m *Mesh) Build(split accel.SplitMethod) {
	m.localBox = geom.EmptyBox()
	for _, v := range m.Vertices {
		m.localBox = m.localBox.UnionPoint(v.Position)
	}

	m.faces = meshFaces{m: m}
	m.bvh = accel.Build(m.faces, split, 10, 100)

	m.pdf = geom.NewDiscretePDF(len(m.Faces))
	for _, f := range m.Faces {
		v0 := m.Xfm.Point(m.Vertices[f.V[0]].Position)
		v1 := m.Xfm.Point(m.Vertices[f.V[1]].Position)
		v2 := m.Xfm.Point(m.Vertices[f.V[2]].Position)
		area := v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5
		m.pdf.Append(area)
	}
	m.totalArea = m.pdf.Normalize()
}

// --- accel.PrimitiveSet, over faces in local space ---

func (mf meshFaces) Len() int { return len(mf.m.Faces) }

func (mf meshFaces) Bounds(i int) geom.BoundingBox3f {
	m := mf.m
	f := m.Faces[i]
	b := geom.BoxFromPoint(m.Vertices[f.V[0]].Position)
	b = b.UnionPoint(m.Vertices[f.V[1]].Position)
	b = b.UnionPoint(m.Vertices[f.V[2]].Position)
	return b
}

func (mf meshFaces) Centroid(i int) math3d.Vec3 {
	m := mf.m
	f := m.Faces[i]
	return m.Vertices[f.V[0]].Position.Add(m.Vertices[f.V[1]].Position).Add(m.Vertices[f.V[2]].Position).Scale(1.0 / 3.0)
}

// Intersect tests face i (in local space) against local-space ray r,
// solving the linear system [-d, e1, e2] * (t,u,v)^T = o - v0 via the
// Möller–Trumbore formulation of that same Cramer's-rule solve.
func (mf meshFaces) Intersect(i int, r geom.Ray, maxT float64) (t, u, v float64, ok bool) {
	m := mf.m
	f := m.Faces[i]
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(v0)
	uu := tvec.Dot(pvec) * invDet
	if uu < 0 || uu > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	vv := r.Direction.Dot(qvec) * invDet
	if vv < 0 || uu+vv > 1 {
		return 0, 0, 0, false
	}

	tt := e2.Dot(qvec) * invDet
	if tt < r.MinT || tt >= maxT {
		return 0, 0, 0, false
	}
	return tt, uu, vv, true
}

// Intersect implements shape.Shape: transforms r to local space, walks
// the BVH, and (on a hit closer than the caller's running best)
// interpolates the shading frame/UV and converts the local hit
// distance to a world-space t independent of any other shape's
// transform.
func (m *Mesh) Intersect(r geom.Ray, hit *geom.Hit) bool {
	local := m.Xfm.InverseRay(r)
	faceIdx, t, u, v, found := m.bvh.Intersect(m.faces, local)
	if !found {
		return false
	}

	localPoint := local.At(t)
	worldPoint := m.Xfm.Point(localPoint)
	tWorld := worldT(r, worldPoint)
	if tWorld < geom.Epsilon || tWorld >= hit.T {
		return false
	}

	hit.T = tWorld
	if r.ShadowRay {
		return true
	}

	f := m.Faces[faceIdx]
	v0, v1, v2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
	w0, w1, w2 := 1-u-v, u, v

	localNormal := v1.Normal.Scale(w1).Add(v2.Normal.Scale(w2)).Add(v0.Normal.Scale(w0))
	if localNormal.LenSq() < 1e-20 {
		localNormal = v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position))
	}
	worldNormal := m.Xfm.Normal(localNormal).Normalize()
	hit.Frame = math3d.FrameFromNormal(worldNormal)

	hit.UV = v1.UV.Scale(w1).Add(v2.UV.Scale(w2)).Add(v0.UV.Scale(w0))
	return true
}

func (m *Mesh) BoundingBox() geom.BoundingBox3f {
	return m.Xfm.Box(m.localBox)
}

func (m *Mesh) Area() float64 {
	return m.totalArea
}

// Sample draws a face proportional to its world-space area (via the
// mesh's DiscretePDF), then a uniform point within that face via
// Warp's uniform-triangle map, recycling the DiscretePDF's remainder
// sample for the second dimension exactly as original_source's
// Mesh::sample does with sampleReuse/squareToUniformTriangle.
func (m *Mesh) Sample(u math3d.Vec2) SurfaceSample {
	faceIdx, _, reused := m.pdf.SampleReuse(u.X)
	bary := math3d.SquareToUniformTriangle(math3d.V2(reused, u.Y))
	b0, b1 := bary.X, bary.Y
	b2 := 1 - b0 - b1

	f := m.Faces[faceIdx]
	v0, v1, v2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]

	localPoint := v0.Position.Scale(b0).Add(v1.Position.Scale(b1)).Add(v2.Position.Scale(b2))
	localNormal := v0.Normal.Scale(b0).Add(v1.Normal.Scale(b1)).Add(v2.Normal.Scale(b2))

	worldPoint := m.Xfm.Point(localPoint)
	worldNormal := m.Xfm.Normal(localNormal).Normalize()

	if m.totalArea <= 0 {
		return SurfaceSample{Point: worldPoint, Normal: worldNormal, Pdf: 0}
	}
	return SurfaceSample{Point: worldPoint, Normal: worldNormal, Pdf: 1 / m.totalArea}
}

// ErrDegenerateMesh is returned by loaders when a mesh has no faces to
// render, which would otherwise silently produce a zero-area light or
// an always-miss shape.
var ErrDegenerateMesh = rterror.NewGeometry("mesh has zero faces")
