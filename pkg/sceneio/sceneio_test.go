package sceneio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/pathtrace/pkg/integrator"
	"github.com/taigrr/pathtrace/pkg/shape"
)

func TestLexerTokenizesTagsAndAttributes(t *testing.T) {
	l := newLexer([]byte(`<scene background="0 0 0"><sphere radius="1"/></scene>`))

	tok, err := l.next()
	if err != nil || tok.kind != tokenOpen || tok.name != "scene" {
		t.Fatalf("first token: %+v, err=%v", tok, err)
	}
	if tok.attrs["background"] != "0 0 0" {
		t.Fatalf("unexpected background attr: %q", tok.attrs["background"])
	}

	tok, err = l.next()
	if err != nil || tok.kind != tokenOpen || tok.name != "sphere" || !tok.selfClose {
		t.Fatalf("second token: %+v, err=%v", tok, err)
	}

	tok, err = l.next()
	if err != nil || tok.kind != tokenClose || tok.name != "scene" {
		t.Fatalf("third token: %+v, err=%v", tok, err)
	}

	tok, err = l.next()
	if err != nil || tok.kind != tokenEOF {
		t.Fatalf("expected EOF, got %+v, err=%v", tok, err)
	}
}

func TestLexerSkipsComments(t *testing.T) {
	l := newLexer([]byte(`<!-- a comment --><scene/>`))
	tok, err := l.next()
	if err != nil || tok.kind != tokenOpen || tok.name != "scene" {
		t.Fatalf("expected scene tag after comment, got %+v, err=%v", tok, err)
	}
}

func TestParseBuildsNodeTree(t *testing.T) {
	root, err := parse([]byte(`
		<scene background="1 1 1">
			<sphere radius="2">
				<diffuse albedo="0.8 0.2 0.2"/>
			</sphere>
		</scene>
	`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if root.Tag != "scene" {
		t.Fatalf("expected root tag scene, got %q", root.Tag)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "sphere" {
		t.Fatalf("expected one sphere child, got %+v", root.Children)
	}
	sphere := root.Children[0]
	if sphere.Attrs["radius"] != "2" {
		t.Fatalf("unexpected radius attr: %q", sphere.Attrs["radius"])
	}
	if len(sphere.Children) != 1 || sphere.Children[0].Tag != "diffuse" {
		t.Fatalf("expected one diffuse child, got %+v", sphere.Children)
	}
}

func TestParseRejectsMismatchedCloseTag(t *testing.T) {
	_, err := parse([]byte(`<scene><sphere radius="1"></quad></scene>`))
	if err == nil {
		t.Fatal("expected an error for a mismatched close tag")
	}
}

func writeSceneFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TestLoadBuildsFullSceneValid exercises the complete parse+build
// path: a camera, a sampler, a direct integrator, a mesh with a
// diffuse BSDF, an emitting sphere, and a point light — checking each
// ends up in the right scene.Scene slot. Samplers and integrators are
// top-level tags named after their own variant (no wrapper element),
// matching spec.md §6's enumerated class tags.
func TestLoadBuildsFullSceneValid(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "cube.obj", `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	scenePath := writeSceneFile(t, dir, "cornell.scn", `
<scene background="0.05 0.05 0.05">
	<perspectiveCamera fov="40" width="64" height="48" nearClip="0.01" farClip="100">
		<transform name="toWorld">
			<translate value="0 1 5"/>
		</transform>
		<gaussian radius="2" stddev="0.5"/>
	</perspectiveCamera>
	<independent sampleCount="16"/>
	<direct/>
	<mesh filename="cube.obj">
		<transform name="toWorld">
			<scale value="2 2 2"/>
		</transform>
		<diffuse albedo="0.7 0.1 0.1"/>
	</mesh>
	<sphere radius="0.5" center="0 2 0">
		<diffuse albedo="0.9 0.9 0.9"/>
		<areaLight radiance="12 12 12" twoSided="false"/>
	</sphere>
	<pointLight radiance="3 3 3">
		<transform name="toWorld">
			<translate value="0 4 0"/>
		</transform>
	</pointLight>
</scene>
`)

	sc, err := Load(scenePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sc.Camera == nil {
		t.Fatal("expected a camera")
	}
	w, h := sc.Camera.OutputSize()
	if w != 64 || h != 48 {
		t.Fatalf("expected 64x48 output, got %dx%d", w, h)
	}

	if _, ok := sc.Integrator.(*integrator.Direct); !ok {
		t.Fatalf("expected *integrator.Direct, got %T", sc.Integrator)
	}
	if sc.Sampler == nil || sc.Sampler.SampleCount() != 16 {
		t.Fatalf("expected a 16-spp sampler, got %+v", sc.Sampler)
	}

	if len(sc.Primitives) != 2 {
		t.Fatalf("expected 2 primitives (mesh + sphere), got %d", len(sc.Primitives))
	}

	var sawMesh, sawSphere bool
	for _, p := range sc.Primitives {
		switch p.Shape.(type) {
		case *shape.Mesh:
			sawMesh = true
			if p.AreaLight != nil {
				t.Fatal("mesh primitive should not have an area light")
			}
		case *shape.Sphere:
			sawSphere = true
			if p.AreaLight == nil {
				t.Fatal("sphere primitive should carry its areaLight")
			}
		}
	}
	if !sawMesh || !sawSphere {
		t.Fatalf("expected both a mesh and a sphere primitive, mesh=%v sphere=%v", sawMesh, sawSphere)
	}

	// One area light (from the sphere) plus one point light.
	if len(sc.Lights) != 2 {
		t.Fatalf("expected 2 lights (area + point), got %d", len(sc.Lights))
	}
}

func TestLoadRejectsSceneWithoutCamera(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeSceneFile(t, dir, "nocam.scn", `
<scene background="0 0 0">
	<independent sampleCount="4"/>
	<direct/>
</scene>
`)
	if _, err := Load(scenePath); err == nil {
		t.Fatal("expected an error for a scene with no camera")
	}
}

func TestLoadOverridesMissingSidecarReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeSceneFile(t, dir, "bare.scn", `<scene background="0 0 0"/>`)

	o, err := LoadOverrides(scenePath)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if o.Threads != 0 || o.SampleCount != 0 || o.Output != "" {
		t.Fatalf("expected zero-value overrides, got %+v", o)
	}
}

func TestLoadOverridesParsesSidecar(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeSceneFile(t, dir, "withyaml.scn", `<scene background="0 0 0"/>`)
	writeSceneFile(t, dir, "withyaml.render.yaml", "threads: 8\nsampleCount: 32\noutput: preview\n")

	o, err := LoadOverrides(scenePath)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if o.Threads != 8 || o.SampleCount != 32 || o.Output != "preview" {
		t.Fatalf("unexpected overrides: %+v", o)
	}
}
