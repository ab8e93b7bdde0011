package systems

import "github.com/pthm-cable/microcosm/components"

// Forage consumes every resource within the organism's body radius,
// transferring the full resource value to its energy. Resources are removed
// from the environment immediately, so organisms processed later this tick
// cannot eat them (first-come consumption). Returns energy gained and the
// number of resources consumed.
func Forage(
	pos components.Position,
	body components.Body,
	energy *components.Energy,
	env *Environment,
) (gained float64, consumed int) {
	if !energy.Alive {
		return 0, 0
	}
	gained, consumed = env.ConsumeWithin(pos.X, pos.Y, body.Radius)
	energy.Value += gained
	return gained, consumed
}
