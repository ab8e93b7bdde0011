package genome

import "math/rand"

// Mutation model constants. A rare jump mutation layers occasional large
// morphological innovation on top of the usual small drift; every trigger
// probability below is multiplied by the global rate.
const (
	// JumpChance times the global rate gives the per-call probability of a
	// jump mutation.
	JumpChance = 0.05

	// Gaussian perturbation magnitudes for scalar genes.
	scalarSigma     = 0.1
	scalarJumpSigma = 0.3

	// Gaussian perturbation magnitudes for appendage sub-genes.
	appendageSigma     = 0.1
	appendageJumpSigma = 0.25

	// Appendage type flip probabilities (times global rate).
	typeFlipChance     = 0.1
	typeFlipJumpChance = 0.3

	// Jump-only specialization: one appendage's length gets a large-sigma
	// perturbation.
	specializationChance = 0.2
	specializationSigma  = 0.4

	// Structural mutation probabilities (times global rate).
	addChance        = 0.2
	addJumpChance    = 0.4
	removeChance     = 0.1
	removeJumpChance = 0.15
)

// Mutator produces mutated genome copies. Rate is the simulation-wide
// mutation-rate multiplier; per-gene rates come from the genome itself,
// giving two independent knobs (gene-specific volatility vs global
// intensity).
type Mutator struct {
	Rate float64
	rng  *rand.Rand
}

// NewMutator creates a mutation engine with the given global rate.
func NewMutator(rate float64, rng *rand.Rand) *Mutator {
	return &Mutator{Rate: rate, rng: rng}
}

// Mutate returns a new, independent genome derived from g. The input genome
// is never modified or aliased.
func (m *Mutator) Mutate(g *Genome) *Genome {
	child := g.Clone()
	rate := m.Rate

	// One roll per call decides whether this is a jump mutation.
	jump := m.rng.Float64() < JumpChance*rate

	sigma := scalarSigma
	appSigma := appendageSigma
	flipChance := typeFlipChance
	addP := addChance
	removeP := removeChance
	if jump {
		sigma = scalarJumpSigma
		appSigma = appendageJumpSigma
		flipChance = typeFlipJumpChance
		addP = addJumpChance
		removeP = removeJumpChance
	}

	for _, gene := range child.scalarGenes() {
		m.perturb(gene, rate, sigma)
	}

	for i := range child.Appendages {
		a := &child.Appendages[i]
		m.perturb(&a.Length, rate, appSigma)
		m.perturb(&a.Position, rate, appSigma)
		m.perturb(&a.Angle, rate, appSigma)

		if m.rng.Float64() < flipChance*rate {
			if a.Type == Fin {
				a.Type = Flagella
			} else {
				a.Type = Fin
			}
		}
	}

	// Specialization event: a jump occasionally reshapes one appendage's
	// length far beyond the usual drift.
	if jump && len(child.Appendages) > 0 && m.rng.Float64() < specializationChance*rate {
		a := &child.Appendages[m.rng.Intn(len(child.Appendages))]
		a.Length.Value = clamp01(a.Length.Value + m.rng.NormFloat64()*specializationSigma)
	}

	if len(child.Appendages) < MaxAppendages && m.rng.Float64() < addP*rate {
		child.Appendages = append(child.Appendages, newRandomAppendage(m.rng))
	}

	if len(child.Appendages) > 0 && m.rng.Float64() < removeP*rate {
		idx := m.rng.Intn(len(child.Appendages))
		child.Appendages = append(child.Appendages[:idx], child.Appendages[idx+1:]...)
	}

	return child
}

// perturb applies the probabilistic-Gaussian rule to a single gene:
// trigger with probability MutationRate*rate, then add a zero-mean Gaussian
// perturbation and clamp to [0, 1].
func (m *Mutator) perturb(g *Gene, rate, sigma float64) {
	if m.rng.Float64() < g.MutationRate*rate {
		g.Value = clamp01(g.Value + m.rng.NormFloat64()*sigma)
	}
}
