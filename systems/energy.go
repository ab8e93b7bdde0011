package systems

import (
	"github.com/pthm-cable/microcosm/components"
	"github.com/pthm-cable/microcosm/genome"
)

// EnergyCosts holds the metabolic cost multipliers for one tick.
type EnergyCosts struct {
	MoveCost float64 // baseline metabolism and movement cost multiplier
	SizeCost float64 // upkeep per unit bodySize per second
}

// UpdateEnergy ages the organism and applies metabolic decay:
// baseline metabolism, movement proportional to current speed, and body-size
// upkeep. Energy is clamped at zero; the death check happens after foraging
// so a starving organism can still be saved by food reached this tick.
// Returns the total cost applied.
func UpdateEnergy(
	energy *components.Energy,
	vel components.Velocity,
	phen *genome.Phenotype,
	costs EnergyCosts,
	dt float64,
) float64 {
	if !energy.Alive {
		return 0
	}

	energy.Age += dt

	speed := velocityMagnitude(vel.X, vel.Y)
	cost := phen.Metabolism*costs.MoveCost*dt +
		speed*costs.MoveCost*dt +
		phen.BodySize*costs.SizeCost*dt

	energy.Value -= cost
	if energy.Value < 0 {
		cost += energy.Value // report only what was actually drained
		energy.Value = 0
	}
	return cost
}

// BodyRadius maps the normalized bodySize trait linearly to world units.
func BodyRadius(bodySize, minRadius, maxRadius float64) float64 {
	return lerp(minRadius, maxRadius, clamp01(bodySize))
}
