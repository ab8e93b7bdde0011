// Package genome defines the heritable representation of an organism and
// the mutation engine that produces offspring genomes.
package genome

import "math/rand"

// Gene is an atomic evolvable scalar. Value stays clamped to [0, 1] after
// every mutation; MutationRate is the gene's own volatility knob, multiplied
// by the simulation-wide rate to give the per-call trigger probability.
type Gene struct {
	Value        float64
	MutationRate float64
}

// Founder gene initialization ranges. Mutation rates start mid-range so the
// global multiplier stays the dominant knob for fresh populations.
const (
	founderRateMin = 0.3
	founderRateMax = 0.7
)

// NewRandomGene returns a gene with a uniform random value in [0, 1).
func NewRandomGene(rng *rand.Rand) Gene {
	return Gene{
		Value:        rng.Float64(),
		MutationRate: founderRateMin + rng.Float64()*(founderRateMax-founderRateMin),
	}
}

// newBiasedGene returns a gene with a value in the biased starting range used
// for structural additions, avoiding extreme morphology on a single mutation.
func newBiasedGene(rng *rand.Rand, lo, hi float64) Gene {
	return Gene{
		Value:        lo + rng.Float64()*(hi-lo),
		MutationRate: founderRateMin + rng.Float64()*(founderRateMax-founderRateMin),
	}
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
