// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Prey       PreyConfig       `yaml:"prey"`
	Predator   PredatorConfig   `yaml:"predator"`
	Rules      RulesConfig      `yaml:"rules"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions.
type WorldConfig struct {
	Size int `yaml:"size"` // side length of the square grid
}

// PopulationConfig holds initial seeding counts.
type PopulationConfig struct {
	InitialPrey      int `yaml:"initial_prey"`
	InitialPredators int `yaml:"initial_predators"`
}

// PreyConfig holds ant thresholds.
type PreyConfig struct {
	BreedSteps int `yaml:"breed_steps"`
}

// PredatorConfig holds doodlebug thresholds.
type PredatorConfig struct {
	BreedSteps  int `yaml:"breed_steps"`
	StarveSteps int `yaml:"starve_steps"`
}

// RulesConfig holds behaviour compatibility switches.
type RulesConfig struct {
	PredatorStepChecksOccupancy bool `yaml:"predator_step_checks_occupancy"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // epochs per window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells int // World.Size squared
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every parameter that cannot drive a simulation.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Size < 1 {
		errs = append(errs, fmt.Errorf("world.size must be positive, got %d", c.World.Size))
	}
	if c.Population.InitialPrey < 0 {
		errs = append(errs, fmt.Errorf("population.initial_prey must not be negative, got %d", c.Population.InitialPrey))
	}
	if c.Population.InitialPredators < 0 {
		errs = append(errs, fmt.Errorf("population.initial_predators must not be negative, got %d", c.Population.InitialPredators))
	}
	if total := c.Population.InitialPrey + c.Population.InitialPredators; total > c.World.Size*c.World.Size {
		errs = append(errs, fmt.Errorf("initial population %d does not fit a %dx%d grid", total, c.World.Size, c.World.Size))
	}
	if c.Prey.BreedSteps < 1 {
		errs = append(errs, fmt.Errorf("prey.breed_steps must be positive, got %d", c.Prey.BreedSteps))
	}
	if c.Predator.BreedSteps < 1 {
		errs = append(errs, fmt.Errorf("predator.breed_steps must be positive, got %d", c.Predator.BreedSteps))
	}
	if c.Predator.StarveSteps < 1 {
		errs = append(errs, fmt.Errorf("predator.starve_steps must be positive, got %d", c.Predator.StarveSteps))
	}
	if c.Telemetry.StatsWindow < 1 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.World.Size * c.World.Size
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
