package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/microcosm/components"
	"github.com/pthm-cable/microcosm/genome"
)

// MovementScales maps normalized phenotype traits to world units.
type MovementScales struct {
	SensorScale float64 // detection radius = sensorRange * this
	SpeedScale  float64 // velocity magnitude = speed * this
	TurnScale   float64 // max turn per second = turnRate * this
}

// Random-walk speed band: organisms without a target cruise at a fraction
// of their full speed.
const (
	wanderSpeedMin = 0.8
	wanderSpeedMax = 1.0
)

// UpdateMovement runs the per-tick movement decision and integration:
// seek the nearest sensed resource with bounded turning, or random-walk when
// nothing is in range; then Euler-integrate and reflect off world bounds
// inset by the body radius.
func UpdateMovement(
	rng *rand.Rand,
	pos *components.Position,
	vel *components.Velocity,
	rot *components.Rotation,
	body components.Body,
	phen *genome.Phenotype,
	index *ResourceIndex,
	bounds Bounds,
	scales MovementScales,
	dt float64,
) {
	maxTurn := phen.TurnRate * scales.TurnScale * dt
	fullSpeed := phen.Speed * scales.SpeedScale

	detection := phen.SensorRange * scales.SensorScale
	if target, ok := index.Nearest(pos.X, pos.Y, detection); ok {
		// Steer toward the target: shortest signed angular difference,
		// turn rate bounded per tick.
		targetHeading := math.Atan2(target.Y-pos.Y, target.X-pos.X)
		diff := normalizeAngle(targetHeading - rot.Heading)
		rot.Heading = normalizeAngle(rot.Heading + clampFloat(diff, -maxTurn, maxTurn))

		vel.X = math.Cos(rot.Heading) * fullSpeed
		vel.Y = math.Sin(rot.Heading) * fullSpeed
	} else {
		// Bounded random walk.
		rot.Heading = normalizeAngle(rot.Heading + (rng.Float64()-0.5)*maxTurn)
		speed := lerp(wanderSpeedMin, wanderSpeedMax, rng.Float64()) * fullSpeed

		vel.X = math.Cos(rot.Heading) * speed
		vel.Y = math.Sin(rot.Heading) * speed
	}

	// Euler step.
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt

	constrainToBounds(pos, vel, rot, body.Radius, bounds)
}

// constrainToBounds reflects the velocity component and clamps the position
// at each boundary edge, inset by the organism's body radius.
func constrainToBounds(
	pos *components.Position,
	vel *components.Velocity,
	rot *components.Rotation,
	radius float64,
	bounds Bounds,
) {
	bounced := false

	if pos.X < radius {
		pos.X = radius
		vel.X = -vel.X
		bounced = true
	} else if pos.X > bounds.Width-radius {
		pos.X = bounds.Width - radius
		vel.X = -vel.X
		bounced = true
	}

	if pos.Y < radius {
		pos.Y = radius
		vel.Y = -vel.Y
		bounced = true
	} else if pos.Y > bounds.Height-radius {
		pos.Y = bounds.Height - radius
		vel.Y = -vel.Y
		bounced = true
	}

	if bounced {
		rot.Heading = math.Atan2(vel.Y, vel.X)
	}
}
