package meshio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
	"github.com/taigrr/pathtrace/pkg/shape"
)

// LoadOFF reads an OFF mesh file: a header line "OFF", a counts line
// "nVertices nFaces nEdges", nVertices "x y z" lines, then nFaces
// "3 i0 i1 i2" lines. Grounded line-for-line on
// original_source/src/shapes/mesh.cpp's Mesh::loadOFF, reimplemented
// with a bufio.Scanner token stream in place of istream's >>
// operator — no OFF-parsing library appears anywhere in the example
// pack, so this is stdlib-only by necessity.
func LoadOFF(path string) (*shape.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterror.NewIO(path, err)
	}
	defer f.Close()

	toks := newTokenizer(f)

	header, ok := toks.next()
	if !ok || header != "OFF" {
		return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: expected OFF header, got %q", path, header), nil)
	}

	nVertices, err := toks.nextInt()
	if err != nil {
		return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: reading vertex count: %v", path, err), nil)
	}
	nFaces, err := toks.nextInt()
	if err != nil {
		return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: reading face count: %v", path, err), nil)
	}
	if _, err := toks.nextInt(); err != nil { // edge count, unused
		return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: reading edge count: %v", path, err), nil)
	}

	m := shape.NewMesh(filepath.Base(path))
	m.Vertices = make([]shape.MeshVertex, nVertices)
	for i := 0; i < nVertices; i++ {
		x, err := toks.nextFloat()
		if err != nil {
			return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: vertex %d: %v", path, i, err), nil)
		}
		y, err := toks.nextFloat()
		if err != nil {
			return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: vertex %d: %v", path, i, err), nil)
		}
		z, err := toks.nextFloat()
		if err != nil {
			return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: vertex %d: %v", path, i, err), nil)
		}
		m.Vertices[i].Position = math3d.V3(x, y, z)
	}

	m.Faces = make([]shape.Face, nFaces)
	for i := 0; i < nFaces; i++ {
		n, err := toks.nextInt()
		if err != nil {
			return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: face %d: %v", path, i, err), nil)
		}
		if n != 3 {
			return nil, rterror.NewUnimplemented(fmt.Sprintf("mesh: %s: non-triangular face (%d verts)", path, n))
		}
		var idx [3]int
		for j := 0; j < 3; j++ {
			idx[j], err = toks.nextInt()
			if err != nil {
				return nil, rterror.NewConfig(fmt.Sprintf("mesh: %s: face %d: %v", path, i, err), nil)
			}
		}
		m.Faces[i] = shape.Face{V: idx}
	}

	m.CalculateSmoothNormals()
	return m, nil
}

// tokenizer splits a text file into whitespace-separated tokens across
// line boundaries, matching the behavior of C++'s istream >> operator
// that loadOFF relies on.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(f *os.File) *tokenizer {
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.sc.Text()), true
}

func (t *tokenizer) nextInt() (int, error) {
	s, ok := t.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file")
	}
	return strconv.Atoi(s)
}

func (t *tokenizer) nextFloat() (float64, error) {
	s, ok := t.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file")
	}
	return strconv.ParseFloat(s, 64)
}
