// Package main searches physics parameters that keep a reactor board active and
// diverse, using CMA-ES.
package main

import (
	"github.com/pthm-cable/reactor/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Column name in the log
	Path string  // Config path
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of tunable physics parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the tunable physics parameters. maxRadius bounds the
// profile breakpoints and should not exceed the cell size of the base config.
func NewParamVector(maxRadius float64) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "touching_pushing_acc", Path: "physics.touching_pushing_acc", Min: 0.1, Max: 2.0},
			{Name: "resistance", Path: "physics.resistance", Min: 0.05, Max: 1.0},
			{Name: "max_field_pulling_acc", Path: "physics.max_field_pulling_acc", Min: 0, Max: 0.01},
			{Name: "max_field_pushing_acc", Path: "physics.max_field_pushing_acc", Min: 0, Max: 0.02},
			{Name: "max_radius", Path: "physics.max_radius", Min: min(2, maxRadius), Max: maxRadius},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// FromConfig reads the current parameter values out of cfg, clamped to bounds.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	return pv.Clamp([]float64{
		cfg.Physics.TouchingPushingAcc,
		cfg.Physics.Resistance,
		cfg.Physics.MaxFieldPullingAcc,
		cfg.Physics.MaxFieldPushingAcc,
		cfg.Physics.MaxRadius,
	})
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		if span := spec.Max - spec.Min; span > 0 {
			normalized[i] = (raw[i] - spec.Min) / span
		}
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp limits every value to its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Physics.TouchingPushingAcc = clamped[0]
	cfg.Physics.Resistance = clamped[1]
	cfg.Physics.MaxFieldPullingAcc = clamped[2]
	cfg.Physics.MaxFieldPushingAcc = clamped[3]
	cfg.Physics.MaxRadius = clamped[4]
}
