package genome

import "math/rand"

// AppendageType selects the kind of morphological sub-feature.
type AppendageType uint8

const (
	Fin AppendageType = iota
	Flagella
)

// String returns the display name for an appendage type.
func (t AppendageType) String() string {
	switch t {
	case Fin:
		return "fin"
	case Flagella:
		return "flagella"
	default:
		return "unknown"
	}
}

// Appendage is a morphological sub-feature with evolvable geometry.
type Appendage struct {
	Type     AppendageType
	Length   Gene
	Position Gene
	Angle    Gene
}

// MaxAppendages is the soft cap on appendage count enforced by the mutation
// policy. Add mutations never fire at or above this count.
const MaxAppendages = 3

// Genome is the heritable, mutable description of an organism's traits:
// a fixed set of normalized scalar genes plus a variable appendage list.
// A genome is owned exclusively by one organism and never shared.
type Genome struct {
	BodySize    Gene
	BodyShape   Gene
	Metabolism  Gene
	SensorRange Gene
	Speed       Gene
	TurnRate    Gene
	Appendages  []Appendage
}

// NewRandom returns a founder genome with uniform random scalar genes and
// at most one randomly initialized appendage.
func NewRandom(rng *rand.Rand) *Genome {
	g := &Genome{
		BodySize:    NewRandomGene(rng),
		BodyShape:   NewRandomGene(rng),
		Metabolism:  NewRandomGene(rng),
		SensorRange: NewRandomGene(rng),
		Speed:       NewRandomGene(rng),
		TurnRate:    NewRandomGene(rng),
	}
	if rng.Float64() < 0.5 {
		g.Appendages = append(g.Appendages, newRandomAppendage(rng))
	}
	return g
}

// newRandomAppendage builds an appendage with sub-gene values drawn from a
// biased starting range rather than the full [0, 1].
func newRandomAppendage(rng *rand.Rand) Appendage {
	t := Fin
	if rng.Float64() < 0.5 {
		t = Flagella
	}
	return Appendage{
		Type:     t,
		Length:   newBiasedGene(rng, 0.25, 0.75),
		Position: newBiasedGene(rng, 0.0, 1.0),
		Angle:    newBiasedGene(rng, 0.25, 0.75),
	}
}

// Clone returns a deep copy. The copy owns its own appendage slice, so
// mutating either genome never aliases the other.
func (g *Genome) Clone() *Genome {
	c := *g
	c.Appendages = make([]Appendage, len(g.Appendages))
	copy(c.Appendages, g.Appendages)
	return &c
}

// scalarGenes returns pointers to the fixed scalar genes for uniform
// iteration by the mutation engine.
func (g *Genome) scalarGenes() [6]*Gene {
	return [6]*Gene{
		&g.BodySize,
		&g.BodyShape,
		&g.Metabolism,
		&g.SensorRange,
		&g.Speed,
		&g.TurnRate,
	}
}
