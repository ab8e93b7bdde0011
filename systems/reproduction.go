package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/microcosm/components"
)

// ReproductionParams holds the energy economics of asexual reproduction.
type ReproductionParams struct {
	EnergyThreshold float64 // hard trigger: reproduce every tick energy >= this
	TransferRatio   float64 // fraction of parent energy given to the child
	SpawnOffset     float64 // base radial offset for the child's position
	SpawnJitter     float64 // extra random radial offset
	VelocityDamping float64 // inherited velocity scale
	VelocityJitter  float64 // random velocity added to the child
}

// OffspringSeed is the physical starting state of a newborn, computed before
// the entity exists. The genome is mutated separately by the caller.
type OffspringSeed struct {
	Pos     components.Position
	Vel     components.Velocity
	Heading float64
	Energy  float64
}

// CanReproduce reports whether the organism qualifies this tick.
// Fitness is informational; the actual trigger is the hard threshold.
func CanReproduce(energy components.Energy, params ReproductionParams) bool {
	return energy.Alive && energy.Value >= params.EnergyThreshold
}

// Reproduce computes the offspring seed and the parent's remaining energy.
// The parent survives in place with energy*(1-transferRatio); the child
// spawns at a random radial offset with damped inherited velocity plus
// jitter and energy*transferRatio. Returns ok=false when the parent does not
// qualify, which callers skip silently.
func Reproduce(
	rng *rand.Rand,
	pos components.Position,
	vel components.Velocity,
	energy *components.Energy,
	params ReproductionParams,
	bounds Bounds,
) (OffspringSeed, bool) {
	if !CanReproduce(*energy, params) {
		return OffspringSeed{}, false
	}

	childEnergy := energy.Value * params.TransferRatio
	energy.Value *= 1 - params.TransferRatio

	// Random radial placement around the parent.
	angle := rng.Float64() * 2 * math.Pi
	offset := params.SpawnOffset + rng.Float64()*params.SpawnJitter
	childX := clampFloat(pos.X+math.Cos(angle)*offset, 0, bounds.Width)
	childY := clampFloat(pos.Y+math.Sin(angle)*offset, 0, bounds.Height)

	childVel := components.Velocity{
		X: vel.X*params.VelocityDamping + (rng.Float64()-0.5)*2*params.VelocityJitter,
		Y: vel.Y*params.VelocityDamping + (rng.Float64()-0.5)*2*params.VelocityJitter,
	}

	heading := math.Atan2(childVel.Y, childVel.X)

	return OffspringSeed{
		Pos:     components.Position{X: childX, Y: childY},
		Vel:     childVel,
		Heading: heading,
		Energy:  childEnergy,
	}, true
}
