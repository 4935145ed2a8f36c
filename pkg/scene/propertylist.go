package scene

import (
	"fmt"

	"github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/geom"
	"github.com/taigrr/pathtrace/pkg/math3d"
	"github.com/taigrr/pathtrace/pkg/rterror"
)

// PropertyList is a typed name->value mapping parsed from a scene
// file node's attributes, replacing the source's macro-based
// PropertyList::getXXX(name, default) accessors with Go methods that
// return (value, error) instead of throwing. Grounded on
// original_source/src/core/proplist.h.
type PropertyList struct {
	values map[string]any
}

// NewPropertyList creates an empty property list.
func NewPropertyList() *PropertyList {
	return &PropertyList{values: make(map[string]any)}
}

// Set stores a raw property value; the accessors below do the type
// assertion at lookup time.
func (p *PropertyList) Set(name string, value any) {
	p.values[name] = value
}

func (p *PropertyList) get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Float returns a float64 property, or def if absent.
func (p *PropertyList) Float(name string, def float64) float64 {
	if v, ok := p.get(name); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// Int returns an int property, or def if absent.
func (p *PropertyList) Int(name string, def int) int {
	if v, ok := p.get(name); ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return def
}

// Bool returns a bool property, or def if absent.
func (p *PropertyList) Bool(name string, def bool) bool {
	if v, ok := p.get(name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// String returns a string property, or def if absent.
func (p *PropertyList) String(name, def string) string {
	if v, ok := p.get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Color returns an RGB property, or def if absent.
func (p *PropertyList) Color(name string, def color.RGB) color.RGB {
	if v, ok := p.get(name); ok {
		if c, ok := v.(color.RGB); ok {
			return c
		}
	}
	return def
}

// Vector returns a Vec3 property, or def if absent.
func (p *PropertyList) Vector(name string, def math3d.Vec3) math3d.Vec3 {
	if v, ok := p.get(name); ok {
		if vec, ok := v.(math3d.Vec3); ok {
			return vec
		}
	}
	return def
}

// Transform returns a geom.Transform property, or Identity if absent.
func (p *PropertyList) Transform(name string) geom.Transform {
	if v, ok := p.get(name); ok {
		if xfm, ok := v.(geom.Transform); ok {
			return xfm
		}
	}
	return geom.Identity()
}

// RequireString returns a required string property, or a ConfigError
// if it is missing.
func (p *PropertyList) RequireString(name string) (string, error) {
	v, ok := p.get(name)
	if !ok {
		return "", rterror.NewConfig(fmt.Sprintf("missing required property %q", name), nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", rterror.NewConfig(fmt.Sprintf("property %q is not a string (got %v)", name, v), nil)
	}
	return s, nil
}

// RequireInt returns a required int property, or a ConfigError if
// missing or of the wrong type.
func (p *PropertyList) RequireInt(name string) (int, error) {
	v, ok := p.get(name)
	if !ok {
		return 0, rterror.NewConfig(fmt.Sprintf("missing required property %q", name), nil)
	}
	i, ok := v.(int)
	if !ok {
		return 0, rterror.NewConfig(fmt.Sprintf("property %q is not an int (got %v)", name, v), nil)
	}
	return i, nil
}
