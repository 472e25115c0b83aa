// Package main searches for rule thresholds that keep both populations alive.
package main

import (
	"math"

	"github.com/pthm-cable/doodlebugs/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// All of them are integers in the config; the optimizer works on a
// continuous relaxation and values are rounded when applied.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "prey_breed_steps", Path: "prey.breed_steps", Min: 1, Max: 10, Default: 3},
			{Name: "pred_breed_steps", Path: "predator.breed_steps", Min: 3, Max: 20, Default: 8},
			{Name: "pred_starve_steps", Path: "predator.starve_steps", Min: 1, Max: 12, Default: 3},
			{Name: "initial_prey", Path: "population.initial_prey", Min: 10, Max: 200, Default: 100},
			{Name: "initial_predators", Path: "population.initial_predators", Min: 1, Max: 40, Default: 5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
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

// Clamp bounds every value and rounds it to the integer the config will hold.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Round(math.Max(spec.Min, math.Min(spec.Max, v[i])))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Prey.BreedSteps = int(c[0])
	cfg.Predator.BreedSteps = int(c[1])
	cfg.Predator.StarveSteps = int(c[2])
	cfg.Population.InitialPrey = int(c[3])
	cfg.Population.InitialPredators = int(c[4])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Prey.BreedSteps),
		float64(cfg.Predator.BreedSteps),
		float64(cfg.Predator.StarveSteps),
		float64(cfg.Population.InitialPrey),
		float64(cfg.Population.InitialPredators),
	}
}
