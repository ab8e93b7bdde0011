package systems

import "math/rand"

// ResourceType selects the kind of a resource.
type ResourceType uint8

const (
	Food ResourceType = iota
	Poison              // reserved, never spawned yet
)

// String returns the display name for a resource type.
func (t ResourceType) String() string {
	switch t {
	case Food:
		return "food"
	case Poison:
		return "poison"
	default:
		return "unknown"
	}
}

// Resource is a consumable energy source owned by the environment.
// Destroyed on consumption, created by regeneration.
type Resource struct {
	ID    uint64
	Type  ResourceType
	X, Y  float64
	Value float64
}

// Bounds represents the simulation world bounds.
type Bounds struct {
	Width, Height float64
}

// EnvironmentParams holds the tunable resource economics.
type EnvironmentParams struct {
	RegenRate    float64 // Bernoulli spawn probability per second
	MaxResources int     // capacity; resource count never exceeds this
	Value        float64 // energy per spawned resource
}

// Environment owns the resource pool and world bounds for one simulation
// run. It is reset wholesale on simulation reset.
type Environment struct {
	resources []Resource
	bounds    Bounds
	params    EnvironmentParams
	nextID    uint64
}

// NewEnvironment creates an empty environment with the given bounds and
// parameters.
func NewEnvironment(bounds Bounds, params EnvironmentParams) *Environment {
	return &Environment{
		resources: make([]Resource, 0, params.MaxResources),
		bounds:    bounds,
		params:    params,
	}
}

// Bounds returns the world bounds.
func (e *Environment) Bounds() Bounds {
	return e.bounds
}

// Params returns the current resource parameters.
func (e *Environment) Params() EnvironmentParams {
	return e.params
}

// Count returns the number of live resources.
func (e *Environment) Count() int {
	return len(e.resources)
}

// Density returns resource count / capacity in [0, 1].
func (e *Environment) Density() float64 {
	if e.params.MaxResources <= 0 {
		return 0
	}
	return float64(len(e.resources)) / float64(e.params.MaxResources)
}

// Resources exposes the live resource slice for read-only iteration within
// a tick. Callers building snapshots must copy.
func (e *Environment) Resources() []Resource {
	return e.resources
}

// Seed spawns n resources at uniform random positions, respecting capacity.
func (e *Environment) Seed(rng *rand.Rand, n int) {
	for i := 0; i < n && len(e.resources) < e.params.MaxResources; i++ {
		e.spawn(rng)
	}
}

// Regenerate runs one stochastic regeneration step: a single Bernoulli trial
// with probability regenRate*dt, spawning exactly one resource on success.
// Growth is capped at one resource per tick regardless of deficit size,
// which throttles bursts after heavy depletion. The pressure knob in [0, 1]
// scales spawning down toward zero.
func (e *Environment) Regenerate(rng *rand.Rand, dt, pressure float64) {
	if len(e.resources) >= e.params.MaxResources {
		return
	}
	p := e.params.RegenRate * dt * (1 - clamp01(pressure))
	if rng.Float64() < p {
		e.spawn(rng)
	}
}

// spawn adds one resource at a uniform random position.
func (e *Environment) spawn(rng *rand.Rand) {
	e.nextID++
	e.resources = append(e.resources, Resource{
		ID:    e.nextID,
		Type:  Food,
		X:     rng.Float64() * e.bounds.Width,
		Y:     rng.Float64() * e.bounds.Height,
		Value: e.params.Value,
	})
}

// ConsumeWithin removes every resource within radius of (x, y) and returns
// the total value removed plus the count consumed. First-come consumption:
// when two organisms could reach the same resource in one tick, whichever is
// processed first gets it (iteration order, a documented nondeterminism).
func (e *Environment) ConsumeWithin(x, y, radius float64) (gained float64, consumed int) {
	radiusSq := radius * radius
	kept := e.resources[:0]
	for _, r := range e.resources {
		if distanceSq(x, y, r.X, r.Y) <= radiusSq {
			gained += r.Value
			consumed++
			continue
		}
		kept = append(kept, r)
	}
	e.resources = kept
	return gained, consumed
}
