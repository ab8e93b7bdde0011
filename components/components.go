// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/microcosm/genome"

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Rotation represents an entity's heading in radians.
// Kept alongside velocity so stationary organisms retain a facing.
type Rotation struct {
	Heading float64
}

// Body holds physical properties of an entity. Radius is derived from the
// bodySize trait at birth and on every genome change.
type Body struct {
	Radius float64
}

// Energy tracks an entity's metabolic state. Value is clamped at zero after
// every decrement; Alive flips false when it reaches zero at the tick's
// death check.
type Energy struct {
	Value float64
	Age   float64 // seconds alive
	Alive bool
}

// Genotype bundles an organism's genome with its expressed phenotype.
// The phenotype is re-expressed whenever the genome is replaced, never
// patched incrementally.
type Genotype struct {
	Genome    *genome.Genome
	Phenotype genome.Phenotype
}

// Organism bundles identity and lineage state.
type Organism struct {
	ID         string  // unique, assigned at birth
	Generation int     // lineage depth: parent's generation + 1
	Fitness    float64 // composite score from the last selection pass
}
