package systems

import (
	"math"

	"github.com/pthm-cable/microcosm/components"
	"github.com/pthm-cable/microcosm/genome"
)

// Fitness component weights. The composite is informational in this design:
// reproduction is gated by the hard energy threshold, not ranked by fitness.
const (
	weightEnergy     = 0.35
	weightMetabolism = 0.15
	weightSensor     = 0.10
	weightMovement   = 0.15
	weightAge        = 0.10
	weightAppendage  = 0.05
	weightEnvFit     = 0.10

	// ageScoreHorizon is the age at which the age score saturates.
	ageScoreHorizon = 100.0

	// Environment-fit density bands.
	densityHigh = 0.7
	densityLow  = 0.3

	// neutralScore substitutes for any component that cannot be computed
	// from malformed data. A bad entity degrades, it never halts the tick.
	neutralScore = 0.5
)

// FitnessInputs carries everything the scoring needs for one organism.
type FitnessInputs struct {
	Phenotype       *genome.Phenotype
	Energy          components.Energy
	EnergyThreshold float64 // reproduction threshold used to normalize energy
	ResourceDensity float64 // resource count / capacity, in [0, 1]
}

// Fitness computes the weighted composite adaptedness score in ≈[0, 1].
func Fitness(in FitnessInputs) float64 {
	metabolism := safeTrait(in.Phenotype, func(p *genome.Phenotype) float64 { return p.Metabolism })
	sensor := safeTrait(in.Phenotype, func(p *genome.Phenotype) float64 { return p.SensorRange })
	speed := safeTrait(in.Phenotype, func(p *genome.Phenotype) float64 { return p.Speed })
	turnRate := safeTrait(in.Phenotype, func(p *genome.Phenotype) float64 { return p.TurnRate })

	energyScore := neutralScore
	if in.EnergyThreshold > 0 && !math.IsNaN(in.Energy.Value) {
		energyScore = clamp01(in.Energy.Value / in.EnergyThreshold)
	}

	ageScore := neutralScore
	if !math.IsNaN(in.Energy.Age) && in.Energy.Age >= 0 {
		ageScore = math.Min(1, in.Energy.Age/ageScoreHorizon)
	}

	return weightEnergy*energyScore +
		weightMetabolism*(1-metabolism) +
		weightSensor*sensor +
		weightMovement*speed*(1-metabolism) +
		weightAge*ageScore +
		weightAppendage*appendageScore(in.Phenotype, speed, turnRate) +
		weightEnvFit*environmentFitScore(in.ResourceDensity, speed, metabolism, sensor)
}

// appendageScore averages per-appendage efficiency (fins favor speed,
// flagella favor turn rate) and applies a diminishing-returns factor: more
// than two appendages are increasingly penalized as a drag proxy.
func appendageScore(p *genome.Phenotype, speed, turnRate float64) float64 {
	if p == nil || len(p.Appendages) == 0 {
		return neutralScore
	}

	var sum float64
	for _, a := range p.Appendages {
		switch a.Type {
		case genome.Fin:
			sum += speed
		case genome.Flagella:
			sum += turnRate
		default:
			sum += neutralScore
		}
	}
	avg := sum / float64(len(p.Appendages))

	excess := float64(len(p.Appendages) - 2)
	factor := math.Max(0, 1-math.Max(0, excess)*0.2)
	return avg * factor
}

// environmentFitScore rewards traits matched to current resource density:
// abundance favors fast, hot-running metabolisms; scarcity favors efficient
// wide-ranging sensors; in between, balance between speed and efficiency.
func environmentFitScore(density, speed, metabolism, sensor float64) float64 {
	switch {
	case math.IsNaN(density):
		return neutralScore
	case density > densityHigh:
		return (speed + metabolism) / 2
	case density < densityLow:
		return ((1 - metabolism) + sensor) / 2
	default:
		return 1 - math.Abs(speed-(1-metabolism))
	}
}

// safeTrait extracts a trait, substituting the neutral score when the
// phenotype is missing or the value is unusable.
func safeTrait(p *genome.Phenotype, get func(*genome.Phenotype) float64) float64 {
	if p == nil {
		return neutralScore
	}
	v := get(p)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return neutralScore
	}
	return clamp01(v)
}
