package sim

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/microcosm/genome"
	"github.com/pthm-cable/microcosm/systems"
	"github.com/pthm-cable/microcosm/telemetry"
)

// birth is an offspring queued during the reproduction pass. Entities are
// created only after the query finishes iterating.
type birth struct {
	seed       systems.OffspringSeed
	genome     *genome.Genome
	generation int
}

// Step advances the simulation by dt seconds. The pass order matters:
// energy decay uses the previous tick's velocity, foraging follows movement
// so food reached this tick can save a starving organism, and dead organisms
// are removed in a batch after everything has updated.
func (s *Simulation) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || dt <= 0 {
		return
	}

	cfg := s.cfg
	bounds := s.env.Bounds()

	// Environment first: throttled regeneration under the pressure knob,
	// then the spatial index is rebuilt once for the whole tick.
	s.env.Regenerate(s.rng, dt, s.pressure)
	s.index.Rebuild(s.env.Resources())

	costs := systems.EnergyCosts{
		MoveCost: cfg.Energy.MoveCost,
		SizeCost: cfg.Energy.SizeCost,
	}
	scales := systems.MovementScales{
		SensorScale: cfg.Capabilities.SensorScale,
		SpeedScale:  cfg.Capabilities.SpeedScale,
		TurnScale:   cfg.Capabilities.TurnScale,
	}
	repro := systems.ReproductionParams{
		EnergyThreshold: cfg.Reproduction.EnergyThreshold,
		TransferRatio:   cfg.Reproduction.TransferRatio,
		SpawnOffset:     cfg.Reproduction.SpawnOffset,
		SpawnJitter:     cfg.Reproduction.SpawnJitter,
		VelocityDamping: cfg.Reproduction.VelocityDamping,
		VelocityJitter:  cfg.Reproduction.VelocityJitter,
	}

	// Aging and metabolic decay, using last tick's velocity.
	query := s.entityFilter.Query()
	for query.Next() {
		_, vel, _, _, energy, genotype, _ := query.Get()
		systems.UpdateEnergy(energy, *vel, &genotype.Phenotype, costs, dt)
	}

	// Sensor-guided or random movement, Euler integration, boundary reflection.
	query = s.entityFilter.Query()
	for query.Next() {
		pos, vel, rot, body, energy, genotype, _ := query.Get()
		if !energy.Alive {
			continue
		}
		systems.UpdateMovement(s.rng, pos, vel, rot, *body, &genotype.Phenotype, s.index, bounds, scales, dt)
	}

	// Foraging. Consumption is immediate, so the iteration order decides
	// contested resources.
	query = s.entityFilter.Query()
	for query.Next() {
		pos, _, _, body, energy, _, _ := query.Get()
		gained, consumed := systems.Forage(*pos, *body, energy, s.env)
		if consumed > 0 {
			s.collector.RecordForage(consumed, gained)
		}
	}

	// Fitness scoring and reproduction. Births are collected and applied
	// after the query; the world cannot change shape mid-iteration.
	density := s.env.Density()
	var births []birth
	query = s.entityFilter.Query()
	for query.Next() {
		pos, vel, _, _, energy, genotype, org := query.Get()

		org.Fitness = systems.Fitness(systems.FitnessInputs{
			Phenotype:       &genotype.Phenotype,
			Energy:          *energy,
			EnergyThreshold: repro.EnergyThreshold,
			ResourceDensity: density,
		})

		if s.aliveCount+len(births) >= cfg.Population.Max {
			continue
		}
		seed, ok := systems.Reproduce(s.rng, *pos, *vel, energy, repro, bounds)
		if !ok {
			continue
		}
		births = append(births, birth{
			seed:       seed,
			genome:     s.mutator.Mutate(genotype.Genome),
			generation: org.Generation + 1,
		})
	}

	for _, b := range births {
		s.spawnOrganism(b.seed.Pos, b.seed.Vel, b.seed.Heading, b.seed.Energy, b.genome, b.generation)
		s.generation++
		s.collector.RecordBirth()
	}

	// Batch removal of the starved.
	var dead []ecs.Entity
	query = s.entityFilter.Query()
	for query.Next() {
		_, _, _, _, energy, _, _ := query.Get()
		if energy.Alive && energy.Value <= 0 {
			energy.Alive = false
			dead = append(dead, query.Entity())
		}
	}
	for _, e := range dead {
		s.entityMapper.Remove(e)
		s.aliveCount--
		s.collector.RecordDeath()
	}

	// Keep the world inhabited when the population collapses.
	for s.aliveCount < cfg.Population.Min {
		s.spawnFounder()
	}

	s.tick++
	s.runTime += dt

	if s.collector.WindowComplete(s.tick) {
		s.flushWindow()
	}
}

// flushWindow aggregates population state into a WindowStats row, writes it
// to the CSV output if enabled, and optionally logs it. Caller holds mu.
func (s *Simulation) flushWindow() {
	var stats telemetry.WindowStats
	s.collector.Flush(s.tick, &stats)

	var (
		energies, fitnesses               []float64
		bodySizes, metabolisms            []float64
		sensors, speeds, turns, appendage []float64
	)
	query := s.entityFilter.Query()
	for query.Next() {
		_, _, _, _, energy, genotype, org := query.Get()
		p := &genotype.Phenotype
		energies = append(energies, energy.Value)
		fitnesses = append(fitnesses, org.Fitness)
		bodySizes = append(bodySizes, p.BodySize)
		metabolisms = append(metabolisms, p.Metabolism)
		sensors = append(sensors, p.SensorRange)
		speeds = append(speeds, p.Speed)
		turns = append(turns, p.TurnRate)
		appendage = append(appendage, float64(len(p.Appendages)))
	}

	stats.Population = len(energies)
	stats.Generation = s.generation
	stats.ResourceCount = s.env.Count()
	stats.ResourceDensity = s.env.Density()

	energyDist := telemetry.ComputeDistribution(energies)
	stats.EnergyMean = energyDist.Mean
	stats.EnergyP10 = energyDist.P10
	stats.EnergyP50 = energyDist.P50
	stats.EnergyP90 = energyDist.P90

	fitnessDist := telemetry.ComputeDistribution(fitnesses)
	stats.FitnessMean = fitnessDist.Mean
	stats.FitnessStd = fitnessDist.Std

	stats.BodySizeMean = telemetry.Mean(bodySizes)
	metaDist := telemetry.ComputeDistribution(metabolisms)
	stats.MetabolismMean = metaDist.Mean
	stats.MetabolismStd = metaDist.Std
	stats.SensorRangeMean = telemetry.Mean(sensors)
	speedDist := telemetry.ComputeDistribution(speeds)
	stats.SpeedMean = speedDist.Mean
	stats.SpeedStd = speedDist.Std
	stats.TurnRateMean = telemetry.Mean(turns)
	stats.AppendageMean = telemetry.Mean(appendage)

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}

	if s.opts.LogStats {
		slog.Info("window",
			"tick", stats.WindowEndTick,
			"sim_time", stats.SimTimeSec,
			"population", stats.Population,
			"generation", stats.Generation,
			"births", stats.Births,
			"deaths", stats.Deaths,
			"resources", stats.ResourceCount,
			"energy_mean", stats.EnergyMean,
			"fitness_mean", stats.FitnessMean,
		)
	}
}
