package sim

import "github.com/pthm-cable/microcosm/telemetry"

// Averages holds population-wide means for the live organisms.
type Averages struct {
	Energy         float64
	Age            float64
	Fitness        float64
	BodySize       float64
	BodyShape      float64
	Metabolism     float64
	SensorRange    float64
	Speed          float64
	TurnRate       float64
	AppendageCount float64
}

// Statistics is the aggregate view of the running simulation.
type Statistics struct {
	TPS        float64 // measured tick rate while running, zero when stopped
	Population int
	Generation int     // reproduction events since the last reset
	RunTime    float64 // accumulated simulation seconds
	Averages   Averages
}

// Statistics computes the current aggregate statistics in one pass over the
// live population.
func (s *Simulation) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		Generation: s.generation,
		RunTime:    s.runTime,
	}
	if s.sched.Running() {
		stats.TPS = s.sched.TPS()
	}
	if !s.initialized {
		return stats
	}

	var (
		energies, ages, fitnesses          []float64
		bodySizes, bodyShapes, metabolisms []float64
		sensors, speeds, turns, appendages []float64
	)
	query := s.entityFilter.Query()
	for query.Next() {
		_, _, _, _, energy, genotype, org := query.Get()
		p := &genotype.Phenotype
		energies = append(energies, energy.Value)
		ages = append(ages, energy.Age)
		fitnesses = append(fitnesses, org.Fitness)
		bodySizes = append(bodySizes, p.BodySize)
		bodyShapes = append(bodyShapes, p.BodyShape)
		metabolisms = append(metabolisms, p.Metabolism)
		sensors = append(sensors, p.SensorRange)
		speeds = append(speeds, p.Speed)
		turns = append(turns, p.TurnRate)
		appendages = append(appendages, float64(len(p.Appendages)))
	}

	stats.Population = len(energies)
	stats.Averages = Averages{
		Energy:         telemetry.Mean(energies),
		Age:            telemetry.Mean(ages),
		Fitness:        telemetry.Mean(fitnesses),
		BodySize:       telemetry.Mean(bodySizes),
		BodyShape:      telemetry.Mean(bodyShapes),
		Metabolism:     telemetry.Mean(metabolisms),
		SensorRange:    telemetry.Mean(sensors),
		Speed:          telemetry.Mean(speeds),
		TurnRate:       telemetry.Mean(turns),
		AppendageCount: telemetry.Mean(appendages),
	}
	return stats
}
