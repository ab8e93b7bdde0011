package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	// Event counters for the current window
	births            int
	deaths            int
	resourcesConsumed int
	energyForaged     float64
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick, used for tick-to-time conversion.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records one reproduction event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records one starvation death.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordForage records resources consumed by one organism this tick.
func (c *Collector) RecordForage(count int, energy float64) {
	c.resourcesConsumed += count
	c.energyForaged += energy
}

// WindowComplete reports whether the current window ends at this tick.
func (c *Collector) WindowComplete(tick int64) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush fills the event fields of stats from the current window and starts
// the next window. Population/trait fields are the caller's responsibility.
func (c *Collector) Flush(tick int64, stats *WindowStats) {
	stats.WindowEndTick = tick
	stats.SimTimeSec = float64(tick) * c.dt
	stats.Births = c.births
	stats.Deaths = c.deaths
	stats.ResourcesConsumed = c.resourcesConsumed
	stats.EnergyForaged = c.energyForaged

	c.births = 0
	c.deaths = 0
	c.resourcesConsumed = 0
	c.energyForaged = 0
	c.windowStartTick = tick
}

// Reset clears all counters and restarts the window at tick zero.
func (c *Collector) Reset() {
	c.births = 0
	c.deaths = 0
	c.resourcesConsumed = 0
	c.energyForaged = 0
	c.windowStartTick = 0
}
