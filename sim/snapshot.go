package sim

import (
	"github.com/pthm-cable/microcosm/genome"
	"github.com/pthm-cable/microcosm/systems"
)

// OrganismSnapshot is a read-only copy of one organism's full state.
// The genome and phenotype are deep copies; mutating a snapshot never
// touches the live simulation.
type OrganismSnapshot struct {
	ID         string
	Generation int

	X, Y    float64
	VX, VY  float64
	Heading float64
	Radius  float64

	Energy  float64
	Age     float64
	Fitness float64

	Genome    genome.Genome
	Phenotype genome.Phenotype
}

// EnvironmentSnapshot is a read-only copy of the resource environment.
type EnvironmentSnapshot struct {
	Width, Height float64
	RegenRate     float64
	MaxResources  int
	Resources     []systems.Resource
}

// Organisms returns deep-copied snapshots of every living organism,
// consistent as of a single tick boundary.
func (s *Simulation) Organisms() []OrganismSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	snapshots := make([]OrganismSnapshot, 0, s.aliveCount)
	query := s.entityFilter.Query()
	for query.Next() {
		pos, vel, rot, body, energy, genotype, org := query.Get()
		snapshots = append(snapshots, OrganismSnapshot{
			ID:         org.ID,
			Generation: org.Generation,
			X:          pos.X,
			Y:          pos.Y,
			VX:         vel.X,
			VY:         vel.Y,
			Heading:    rot.Heading,
			Radius:     body.Radius,
			Energy:     energy.Value,
			Age:        energy.Age,
			Fitness:    org.Fitness,
			Genome:     *genotype.Genome.Clone(),
			Phenotype:  genotype.Phenotype.Clone(),
		})
	}
	return snapshots
}

// Environment returns a deep-copied snapshot of the resource environment.
func (s *Simulation) Environment() EnvironmentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return EnvironmentSnapshot{}
	}

	bounds := s.env.Bounds()
	params := s.env.Params()
	resources := make([]systems.Resource, len(s.env.Resources()))
	copy(resources, s.env.Resources())
	return EnvironmentSnapshot{
		Width:        bounds.Width,
		Height:       bounds.Height,
		RegenRate:    params.RegenRate,
		MaxResources: params.MaxResources,
		Resources:    resources,
	}
}
