package genome

// Phenotype is the derived, directly-usable trait snapshot of a genome.
// It is recomputed whenever a genome is replaced and never patched in
// place; keeping it a separate struct is the hook for future non-identity
// trait expression (sigmoid response curves, trait interactions).
type Phenotype struct {
	BodySize    float64
	BodyShape   float64
	Metabolism  float64
	SensorRange float64
	Speed       float64
	TurnRate    float64
	Appendages  []PhenotypeAppendage
}

// PhenotypeAppendage is the expressed form of an appendage gene group.
type PhenotypeAppendage struct {
	Type     AppendageType
	Length   float64
	Position float64
	Angle    float64
}

// Express maps a genome to its phenotype. The mapping is currently the
// identity on gene values: direct, linear, no epistasis. Pure function,
// no side effects.
func Express(g *Genome) Phenotype {
	p := Phenotype{
		BodySize:    g.BodySize.Value,
		BodyShape:   g.BodyShape.Value,
		Metabolism:  g.Metabolism.Value,
		SensorRange: g.SensorRange.Value,
		Speed:       g.Speed.Value,
		TurnRate:    g.TurnRate.Value,
	}
	if len(g.Appendages) > 0 {
		p.Appendages = make([]PhenotypeAppendage, len(g.Appendages))
		for i, a := range g.Appendages {
			p.Appendages[i] = PhenotypeAppendage{
				Type:     a.Type,
				Length:   a.Length.Value,
				Position: a.Position.Value,
				Angle:    a.Angle.Value,
			}
		}
	}
	return p
}

// Clone returns a deep copy of the phenotype, for snapshot isolation.
func (p Phenotype) Clone() Phenotype {
	c := p
	if len(p.Appendages) > 0 {
		c.Appendages = make([]PhenotypeAppendage, len(p.Appendages))
		copy(c.Appendages, p.Appendages)
	}
	return c
}
