// Package sim wires the simulation together: an ECS world of organisms, the
// resource environment, the per-tick update pipeline, and the scheduler that
// drives it. It is the only interface the rendering, UI, and data layers see.
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/microcosm/components"
	"github.com/pthm-cable/microcosm/config"
	"github.com/pthm-cable/microcosm/genome"
	"github.com/pthm-cable/microcosm/systems"
	"github.com/pthm-cable/microcosm/telemetry"
)

// gridCellSize is the spatial index cell size in world units.
const gridCellSize = 64.0

// Options holds runtime settings not covered by the config file.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // CSV telemetry destination, empty = disabled
}

// Simulation owns all mutable simulation state. All writes happen inside
// Step, which the scheduler runs one tick at a time; the mutex exists so
// snapshot readers on other goroutines never observe a half-updated world.
type Simulation struct {
	mu sync.Mutex

	cfg  *config.Config
	opts Options

	world *ecs.World
	rng   *rand.Rand

	entityMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Genotype,
		components.Organism,
	]
	entityFilter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Genotype,
		components.Organism,
	]

	env     *systems.Environment
	index   *systems.ResourceIndex
	mutator *genome.Mutator

	collector *telemetry.Collector
	output    *telemetry.OutputManager

	sched *Scheduler

	// State
	initialized bool
	tick        int64
	runTime     float64 // accumulated simulation seconds
	generation  int     // incremented on every reproduction event
	aliveCount  int
	pressure    float64 // environmental pressure knob in [0, 1]
	speed       float64 // current speed multiplier
}

// New creates a simulation from the given configuration. Call Initialize
// before stepping or starting it.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:   cfg,
		opts:  opts,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		entityMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Genotype,
			components.Organism,
		](world),
		entityFilter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Genotype,
			components.Organism,
		](world),
		collector: telemetry.NewCollector(statsWindow, cfg.Simulation.DT),
		output:    output,
		sched:     NewScheduler(cfg.Simulation.TargetTPS),
		speed:     cfg.Simulation.Speed,
	}
	return s, nil
}

// Initialize builds the environment and the founder population. Safe to
// call again after a failure; returns an error when already initialized.
func (s *Simulation) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return fmt.Errorf("sim: already initialized")
	}
	s.initializeLocked()
	return nil
}

// initializeLocked seeds the environment and population. Caller holds mu.
func (s *Simulation) initializeLocked() {
	cfg := s.cfg
	bounds := systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height}

	s.env = systems.NewEnvironment(bounds, systems.EnvironmentParams{
		RegenRate:    cfg.Resource.RegenRate,
		MaxResources: cfg.Resource.Max,
		Value:        cfg.Resource.Value,
	})
	s.env.Seed(s.rng, cfg.Resource.Initial)

	s.index = systems.NewResourceIndex(bounds, gridCellSize)
	s.index.Rebuild(s.env.Resources())

	s.mutator = genome.NewMutator(cfg.Mutation.Rate, s.rng)

	for i := 0; i < cfg.Population.Initial; i++ {
		s.spawnFounder()
	}

	s.tick = 0
	s.runTime = 0
	s.generation = 0
	s.collector.Reset()
	s.initialized = true
}

// spawnFounder creates an organism with a fresh random genome at a uniform
// random position.
func (s *Simulation) spawnFounder() {
	cfg := s.cfg
	g := genome.NewRandom(s.rng)

	pos := components.Position{
		X: s.rng.Float64() * cfg.World.Width,
		Y: s.rng.Float64() * cfg.World.Height,
	}
	heading := s.rng.Float64() * 2 * math.Pi

	s.spawnOrganism(pos, components.Velocity{}, heading, cfg.Entity.InitialEnergy, g, 0)
}

// spawnOrganism creates an entity from a genome, expressing the phenotype
// and deriving the body radius from it.
func (s *Simulation) spawnOrganism(
	pos components.Position,
	vel components.Velocity,
	heading float64,
	energy float64,
	g *genome.Genome,
	generation int,
) ecs.Entity {
	cfg := s.cfg

	phen := genome.Express(g)
	rot := components.Rotation{Heading: heading}
	body := components.Body{
		Radius: systems.BodyRadius(phen.BodySize, cfg.Entity.MinRadius, cfg.Entity.MaxRadius),
	}
	eng := components.Energy{Value: energy, Alive: true}
	genotype := components.Genotype{Genome: g, Phenotype: phen}
	org := components.Organism{ID: uuid.NewString(), Generation: generation}

	entity := s.entityMapper.NewEntity(&pos, &vel, &rot, &body, &eng, &genotype, &org)
	s.aliveCount++
	return entity
}

// Start runs the scheduler at the given speed multiplier, transitioning the
// simulation from Stopped to Running. Calling Start while running only
// updates the speed; the change takes effect on the next tick.
func (s *Simulation) Start(speed float64) {
	s.mu.Lock()
	s.speed = clampSpeed(speed, s.cfg)
	s.mu.Unlock()

	s.sched.Start(func(elapsed float64) {
		s.mu.Lock()
		mult := s.speed
		s.mu.Unlock()
		s.Step(elapsed * mult)
	})
}

// Stop halts the scheduler. No further tick runs after Stop returns.
func (s *Simulation) Stop() {
	s.sched.Stop()
}

// Reset stops the scheduler and fully reinitializes environment and
// population with the same configuration and RNG stream.
func (s *Simulation) Reset() {
	s.sched.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop all entities: collect first, queries must finish before removal.
	var entities []ecs.Entity
	query := s.entityFilter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	for _, e := range entities {
		s.entityMapper.Remove(e)
	}
	s.aliveCount = 0

	s.initializeLocked()
}

// SetMutationRate sets the simulation-wide mutation-rate multiplier,
// clamped to [0, mutation.max_rate].
func (s *Simulation) SetMutationRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rate < 0 {
		rate = 0
	}
	if rate > s.cfg.Mutation.MaxRate {
		rate = s.cfg.Mutation.MaxRate
	}
	if s.mutator != nil {
		s.mutator.Rate = rate
	}
	s.cfg.Mutation.Rate = rate
}

// SetEnvironmentalPressure sets the pressure knob in [0, 1]. Higher
// pressure suppresses resource regeneration, starving the population.
func (s *Simulation) SetEnvironmentalPressure(pressure float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pressure < 0 {
		pressure = 0
	}
	if pressure > 1 {
		pressure = 1
	}
	s.pressure = pressure
}

// Running reports whether the scheduler is active.
func (s *Simulation) Running() bool {
	return s.sched.Running()
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Close stops the simulation and flushes telemetry output.
func (s *Simulation) Close() error {
	s.sched.Stop()
	return s.output.Close()
}

// clampSpeed bounds the speed multiplier to the configured range.
func clampSpeed(speed float64, cfg *config.Config) float64 {
	if speed < cfg.Simulation.MinSpeed {
		return cfg.Simulation.MinSpeed
	}
	if speed > cfg.Simulation.MaxSpeed {
		return cfg.Simulation.MaxSpeed
	}
	return speed
}
