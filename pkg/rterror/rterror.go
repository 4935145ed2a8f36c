// Package rterror defines the typed error kinds used across the
// renderer: configuration mistakes, I/O failures, degenerate geometry,
// unimplemented features, and cooperative render cancellation.
package rterror

import "fmt"

// ConfigError reports a bad or missing scene property, a duplicate
// scene singleton (two cameras, two samplers, ...), or an incompatible
// shape/light attachment.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfig wraps an inner error (or nil) as a ConfigError.
func NewConfig(msg string, err error) error {
	return &ConfigError{Msg: msg, Err: err}
}

// IOError reports a missing mesh/texture file or an unsupported file
// extension.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIO wraps an inner error as an IOError for the given path.
func NewIO(path string, err error) error {
	return &IOError{Path: path, Err: err}
}

// GeometryError reports a degenerate mesh or an unsupported sampling
// request (e.g. area-sampling an infinite quad).
type GeometryError struct {
	Msg string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s", e.Msg)
}

// NewGeometry builds a GeometryError.
func NewGeometry(msg string) error {
	return &GeometryError{Msg: msg}
}

// Unimplemented reports a feature the spec deliberately leaves
// unimplemented (e.g. the microfacet BSDF).
type Unimplemented struct {
	Feature string
}

func (e *Unimplemented) Error() string {
	return fmt.Sprintf("unimplemented: %s", e.Feature)
}

// NewUnimplemented builds an Unimplemented error.
func NewUnimplemented(feature string) error {
	return &Unimplemented{Feature: feature}
}

// RenderCancelled indicates the render loop stopped early because the
// render's context was cancelled.
type RenderCancelled struct{}

func (e *RenderCancelled) Error() string { return "render cancelled" }

// ErrRenderCancelled is the sentinel value returned when a worker
// observes that the render's context was cancelled.
var ErrRenderCancelled error = &RenderCancelled{}
