package sceneio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
)

// parseTransform builds a geom.Transform from a <transform> node's
// children, composing them in document order — translate/scale/
// rotate/lookAt/matrix — the same left-to-right composition
// original_source's XML transform blocks use. A bare <transform/>
// (no children) is the identity.
func parseTransform(n *Node) (geom.Transform, error) {
	xfm := geom.Identity()
	for _, c := range n.Children {
		step, err := parseTransformStep(c)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("line %d: %w", c.Line, err)
		}
		xfm = xfm.Compose(step)
	}
	return xfm, nil
}

func parseTransformStep(n *Node) (geom.Transform, error) {
	switch n.Tag {
	case "translate":
		v, err := requireVec3Attr(n, "value")
		if err != nil {
			return geom.Transform{}, err
		}
		return geom.NewTransform(math3d.Translate(v)), nil
	case "scale":
		if raw, ok := n.attr("value"); ok {
			fields := strings.Fields(raw)
			if len(fields) == 1 {
				s, err := strconv.ParseFloat(fields[0], 64)
				if err != nil {
					return geom.Transform{}, fmt.Errorf("scale: %w", err)
				}
				return geom.NewTransform(math3d.ScaleUniform(s)), nil
			}
		}
		v, err := requireVec3Attr(n, "value")
		if err != nil {
			return geom.Transform{}, err
		}
		return geom.NewTransform(math3d.Scale(v)), nil
	case "rotate":
		axis, err := requireVec3Attr(n, "axis")
		if err != nil {
			return geom.Transform{}, err
		}
		angleStr, ok := n.attr("angle")
		if !ok {
			return geom.Transform{}, fmt.Errorf("rotate: missing \"angle\"")
		}
		deg, err := strconv.ParseFloat(angleStr, 64)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("rotate: angle: %w", err)
		}
		return geom.NewTransform(math3d.Rotate(axis, deg*math.Pi/180)), nil
	case "lookAt":
		origin, err := requireVec3Attr(n, "origin")
		if err != nil {
			return geom.Transform{}, err
		}
		target, err := requireVec3Attr(n, "target")
		if err != nil {
			return geom.Transform{}, err
		}
		up, ok := n.attr("up")
		upVec := math3d.V3(0, 1, 0)
		if ok {
			upVec, err = parseVec3(up)
			if err != nil {
				return geom.Transform{}, fmt.Errorf("lookAt: up: %w", err)
			}
		}
		// math3d.LookAt returns a view (world-to-camera) matrix, the
		// inverse of the camera-to-world placement toWorld needs here;
		// Transform.Inverse() swaps the already-cached forward/inverse
		// pair rather than recomputing anything.
		return geom.NewTransform(math3d.LookAt(origin, target, upVec)).Inverse(), nil
	case "matrix":
		raw, ok := n.attr("value")
		if !ok {
			return geom.Transform{}, fmt.Errorf("matrix: missing \"value\"")
		}
		floats, err := parseFloats(raw)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("matrix: %w", err)
		}
		if len(floats) != 16 {
			return geom.Transform{}, fmt.Errorf("matrix: expected 16 values, got %d", len(floats))
		}
		// floats is given row-major (the natural reading order for a
		// human-authored scene file); Mat4 itself is stored
		// column-major, so transpose on the way in.
		var m math3d.Mat4
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				m[col*4+row] = floats[row*4+col]
			}
		}
		return geom.NewTransform(m), nil
	default:
		return geom.Transform{}, fmt.Errorf("unknown transform step <%s>", n.Tag)
	}
}

func requireVec3Attr(n *Node, name string) (math3d.Vec3, error) {
	raw, ok := n.attr(name)
	if !ok {
		return math3d.Vec3{}, fmt.Errorf("<%s>: missing %q", n.Tag, name)
	}
	v, err := parseVec3(raw)
	if err != nil {
		return math3d.Vec3{}, fmt.Errorf("<%s>: %s: %w", n.Tag, name, err)
	}
	return v, nil
}

func parseFloats(raw string) ([]float64, error) {
	fields := strings.Fields(raw)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(raw string) (math3d.Vec3, error) {
	floats, err := parseFloats(raw)
	if err != nil {
		return math3d.Vec3{}, err
	}
	switch len(floats) {
	case 1:
		return math3d.V3(floats[0], floats[0], floats[0]), nil
	case 3:
		return math3d.V3(floats[0], floats[1], floats[2]), nil
	default:
		return math3d.Vec3{}, fmt.Errorf("expected 1 or 3 components, got %d", len(floats))
	}
}

func parseVec2(raw string) (math3d.Vec2, error) {
	floats, err := parseFloats(raw)
	if err != nil {
		return math3d.Vec2{}, err
	}
	switch len(floats) {
	case 1:
		return math3d.V2(floats[0], floats[0]), nil
	case 2:
		return math3d.V2(floats[0], floats[1]), nil
	default:
		return math3d.Vec2{}, fmt.Errorf("expected 1 or 2 components, got %d", len(floats))
	}
}
