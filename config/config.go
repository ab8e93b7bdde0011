// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Population   PopulationConfig   `yaml:"population"`
	Entity       EntityConfig       `yaml:"entity"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Resource     ResourceConfig     `yaml:"resource"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
}

// WorldConfig holds simulation world dimensions in world units (pixels).
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationConfig holds tick pacing parameters.
type SimulationConfig struct {
	DT        float64 `yaml:"dt"`         // seconds per tick at speed 1.0
	Speed     float64 `yaml:"speed"`      // default speed multiplier
	MinSpeed  float64 `yaml:"min_speed"`  // lower bound for speed multiplier
	MaxSpeed  float64 `yaml:"max_speed"`  // upper bound for speed multiplier
	TargetTPS int     `yaml:"target_tps"` // scheduler ticks per second
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"` // founders spawned on init/reset
	Max     int `yaml:"max"`     // hard cap on reproduction
	Min     int `yaml:"min"`     // respawn floor (0 = no respawn)
}

// EntityConfig holds organism creation parameters.
type EntityConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"`
	MinRadius     float64 `yaml:"min_radius"` // body radius at bodySize 0
	MaxRadius     float64 `yaml:"max_radius"` // body radius at bodySize 1
}

// CapabilitiesConfig maps normalized phenotype traits to world units.
type CapabilitiesConfig struct {
	SensorScale float64 `yaml:"sensor_scale"` // detection radius = sensorRange * this
	SpeedScale  float64 `yaml:"speed_scale"`  // velocity magnitude = speed * this
	TurnScale   float64 `yaml:"turn_scale"`   // max turn = turnRate * this * dt
}

// EnergyConfig holds energy economics parameters.
type EnergyConfig struct {
	MoveCost float64 `yaml:"move_cost"` // base metabolic + movement cost multiplier
	SizeCost float64 `yaml:"size_cost"` // upkeep per unit bodySize per second
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	EnergyThreshold float64 `yaml:"energy_threshold"` // hard trigger: energy >= this
	TransferRatio   float64 `yaml:"transfer_ratio"`   // fraction of parent energy to child
	SpawnOffset     float64 `yaml:"spawn_offset"`     // base radial offset for offspring
	SpawnJitter     float64 `yaml:"spawn_jitter"`     // extra random radial offset
	VelocityDamping float64 `yaml:"velocity_damping"` // inherited velocity scale
	VelocityJitter  float64 `yaml:"velocity_jitter"`  // random velocity added to child
}

// MutationConfig holds mutation parameters.
// Rate is the global multiplier; per-gene rates live in the genome itself.
type MutationConfig struct {
	Rate    float64 `yaml:"rate"`     // global mutation-rate multiplier
	MaxRate float64 `yaml:"max_rate"` // upper bound accepted by SetMutationRate
}

// ResourceConfig holds resource spawn and regeneration parameters.
type ResourceConfig struct {
	Max       int     `yaml:"max"`        // environment capacity
	RegenRate float64 `yaml:"regen_rate"` // Bernoulli spawn probability per second
	Value     float64 `yaml:"value"`      // energy per resource
	Initial   int     `yaml:"initial"`    // resources present at init/reset
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // window length in simulation seconds
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
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges the simulation depends on.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: world dimensions must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("config: simulation.dt must be positive, got %g", c.Simulation.DT)
	}
	if c.Population.Initial < 1 || c.Population.Initial > c.Population.Max {
		return fmt.Errorf("config: population.initial must be in [1, %d], got %d", c.Population.Max, c.Population.Initial)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > c.Mutation.MaxRate {
		return fmt.Errorf("config: mutation.rate must be in [0, %g], got %g", c.Mutation.MaxRate, c.Mutation.Rate)
	}
	if c.Reproduction.TransferRatio <= 0 || c.Reproduction.TransferRatio >= 1 {
		return fmt.Errorf("config: reproduction.transfer_ratio must be in (0, 1), got %g", c.Reproduction.TransferRatio)
	}
	if c.Resource.Max < 0 || c.Resource.Initial > c.Resource.Max {
		return fmt.Errorf("config: resource.initial (%d) must not exceed resource.max (%d)", c.Resource.Initial, c.Resource.Max)
	}
	return nil
}

// WriteYAML writes the effective configuration to a file.
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
