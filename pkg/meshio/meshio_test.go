package meshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/pathtrace/pkg/accel"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// TestLoadOFFSingleTriangle exercises the minimal OFF case: one
// triangle, three vertices, one face line.
func TestLoadOFFSingleTriangle(t *testing.T) {
	path := writeTemp(t, "tri.off", `OFF
3 1 0
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
3 0 1 2
`)

	m, err := LoadOFF(path)
	if err != nil {
		t.Fatalf("LoadOFF: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(m.Vertices))
	}
	if len(m.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(m.Faces))
	}
	if m.Faces[0].V != [3]int{0, 1, 2} {
		t.Fatalf("unexpected face indices: %v", m.Faces[0].V)
	}
	// All three vertices belong to the same single face, so the
	// smooth-normal accumulation degenerates to that face's own
	// normal: (1,0,0) x (0,1,0) = (0,0,1), already unit length.
	for i, v := range m.Vertices {
		if v.Normal.Z < 0.999 {
			t.Fatalf("vertex %d: expected +Z normal, got %+v", i, v.Normal)
		}
	}
}

// TestLoadOFFRejectsNonTriangularFace exercises loadOFF's historical
// assert(nb==3): a quad face line should be reported as unsupported
// rather than silently misparsed.
func TestLoadOFFRejectsNonTriangularFace(t *testing.T) {
	path := writeTemp(t, "quad.off", `OFF
4 1 0
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`)

	if _, err := LoadOFF(path); err == nil {
		t.Fatal("expected an error for a non-triangular face")
	}
}

// TestLoadOFFRejectsBadHeader exercises the header check.
func TestLoadOFFRejectsBadHeader(t *testing.T) {
	path := writeTemp(t, "bad.off", "NOTOFF\n3 1 0\n")
	if _, err := LoadOFF(path); err == nil {
		t.Fatal("expected an error for a missing OFF header")
	}
}

// TestLoadOBJTriangleWithExplicitNormal exercises the v/vn form: a
// single triangle whose per-corner normal is given explicitly, so no
// smooth-normal pass should run (and if it incorrectly did, it would
// still reduce to the same single-face value here).
func TestLoadOBJTriangleWithExplicitNormal(t *testing.T) {
	path := writeTemp(t, "tri.obj", `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`)

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Fatalf("expected 3 vertices (no dedup across corners), got %d", len(m.Vertices))
	}
	if len(m.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(m.Faces))
	}
	for i, v := range m.Vertices {
		if v.Normal.Z < 0.999 {
			t.Fatalf("vertex %d: expected explicit +Z normal to survive unchanged, got %+v", i, v.Normal)
		}
	}
}

// TestLoadOBJQuadIsFanTriangulated exercises n-gon support beyond the
// original's strict triangle-only assertion: a 4-vertex face should
// split into 2 triangles sharing the first corner.
func TestLoadOBJQuadIsFanTriangulated(t *testing.T) {
	path := writeTemp(t, "quad.obj", `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Faces) != 2 {
		t.Fatalf("expected 2 triangles from a fan-triangulated quad, got %d", len(m.Faces))
	}
	if m.Faces[0].V != [3]int{0, 1, 2} || m.Faces[1].V != [3]int{0, 2, 3} {
		t.Fatalf("unexpected fan triangulation: %v / %v", m.Faces[0].V, m.Faces[1].V)
	}
}

// TestLoadOBJWithoutNormalsComputesThem exercises the needNormals
// fallback: a bare "f v v v" triangle gets a computed normal.
func TestLoadOBJWithoutNormalsComputesThem(t *testing.T) {
	path := writeTemp(t, "nonorm.obj", `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.Vertices[0].Normal.LenSq() < 0.5 {
		t.Fatal("expected a computed, normalized normal when the file supplies none")
	}
}

// TestLoadRejectsUnknownExtension exercises Load's dispatch-by-
// extension guard.
func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeTemp(t, "mesh.stl", "not a real mesh")
	if _, err := Load(path, accel.SplitMiddle); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

// TestLoadBuildsAndBoundsATriangle exercises the full Load path: OFF
// parse, Build (BVH + area PDF), and a sane BoundingBox.
func TestLoadBuildsAndBoundsATriangle(t *testing.T) {
	path := writeTemp(t, "tri.off", `OFF
3 1 0
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
3 0 1 2
`)

	m, err := Load(path, accel.SplitMiddle)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	box := m.BoundingBox()
	if box.Min.X != 0 || box.Max.X != 1 || box.Max.Y != 1 {
		t.Fatalf("unexpected bounding box: %+v", box)
	}
	if m.Area() <= 0 {
		t.Fatalf("expected positive area, got %v", m.Area())
	}
}
