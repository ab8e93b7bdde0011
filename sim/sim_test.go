package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/microcosm/config"
)

// testConfig returns the embedded defaults with a deterministic, compact
// setup for stepping by hand.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Initial = 10
	cfg.Population.Min = 0
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config) *Simulation {
	t.Helper()
	s, err := New(cfg, Options{Seed: 42})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitializeSpawnsFounders(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	orgs := s.Organisms()
	if len(orgs) != cfg.Population.Initial {
		t.Fatalf("population = %d, want %d", len(orgs), cfg.Population.Initial)
	}

	seen := map[string]bool{}
	for _, o := range orgs {
		if o.Energy != cfg.Entity.InitialEnergy {
			t.Errorf("founder energy = %g, want %g", o.Energy, cfg.Entity.InitialEnergy)
		}
		if o.Generation != 0 {
			t.Errorf("founder generation = %d, want 0", o.Generation)
		}
		if o.X < 0 || o.X > cfg.World.Width || o.Y < 0 || o.Y > cfg.World.Height {
			t.Errorf("founder at (%g, %g) outside world", o.X, o.Y)
		}
		if seen[o.ID] {
			t.Errorf("duplicate organism ID %s", o.ID)
		}
		seen[o.ID] = true
	}

	env := s.Environment()
	if len(env.Resources) != cfg.Resource.Initial {
		t.Errorf("seeded resources = %d, want %d", len(env.Resources), cfg.Resource.Initial)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	s := newTestSim(t, testConfig(t))
	if err := s.Initialize(); err == nil {
		t.Fatal("second Initialize succeeded, want error")
	}
}

func TestStepAgesAndDrainsEnergy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Resource.Initial = 0 // no foraging gains to mask the decay
	cfg.Resource.RegenRate = 0
	s := newTestSim(t, cfg)

	before := s.Organisms()
	s.Step(cfg.Simulation.DT)
	after := s.Organisms()

	if len(after) == 0 {
		t.Fatal("population vanished after one tick")
	}
	for i, o := range after {
		if o.Age <= before[i].Age {
			t.Errorf("organism %d age did not advance: %g -> %g", i, before[i].Age, o.Age)
		}
		if o.Energy >= before[i].Energy {
			t.Errorf("organism %d energy did not decay: %g -> %g", i, before[i].Energy, o.Energy)
		}
	}
	if s.Tick() != 1 {
		t.Errorf("tick = %d, want 1", s.Tick())
	}
}

func TestStepKeepsOrganismsInBounds(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	for i := 0; i < 500; i++ {
		s.Step(cfg.Simulation.DT)
	}
	for _, o := range s.Organisms() {
		if o.X < 0 || o.X > cfg.World.Width || o.Y < 0 || o.Y > cfg.World.Height {
			t.Fatalf("organism escaped to (%g, %g)", o.X, o.Y)
		}
	}
}

func TestReproductionSplitsEnergy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.Initial = 1
	cfg.Entity.InitialEnergy = 200 // above the threshold from tick one
	cfg.Resource.Initial = 0
	cfg.Resource.RegenRate = 0
	s := newTestSim(t, cfg)

	s.Step(cfg.Simulation.DT)

	orgs := s.Organisms()
	if len(orgs) != 2 {
		t.Fatalf("population after reproduction = %d, want 2", len(orgs))
	}

	var parent, child *OrganismSnapshot
	for i := range orgs {
		if orgs[i].Generation == 0 {
			parent = &orgs[i]
		} else {
			child = &orgs[i]
		}
	}
	if parent == nil || child == nil {
		t.Fatalf("expected one generation-0 parent and one descendant, got %+v", orgs)
	}

	if child.Generation != 1 {
		t.Errorf("child generation = %d, want 1", child.Generation)
	}
	// Child gets transfer_ratio of the parent's post-decay energy; the split
	// must be exact: child = 4x parent remainder at ratio 0.8.
	if ratio := child.Energy / parent.Energy; math.Abs(ratio-4) > 1e-9 {
		t.Errorf("energy split child/parent = %g, want 4", ratio)
	}

	dist := math.Hypot(child.X-parent.X, child.Y-parent.Y)
	maxOffset := cfg.Reproduction.SpawnOffset + cfg.Reproduction.SpawnJitter
	if dist > maxOffset+1 { // parent moved during the same tick
		t.Errorf("child spawned %g away, want <= %g", dist, maxOffset+1)
	}

	stats := s.Statistics()
	if stats.Generation != 1 {
		t.Errorf("generation counter = %d, want 1", stats.Generation)
	}
}

func TestReproductionRespectsPopulationCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.Initial = 4
	cfg.Population.Max = 4
	cfg.Entity.InitialEnergy = 500
	s := newTestSim(t, cfg)

	s.Step(cfg.Simulation.DT)
	if got := len(s.Organisms()); got != 4 {
		t.Fatalf("population = %d, want capped at 4", got)
	}
}

func TestStarvedOrganismsAreRemoved(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.Initial = 5
	cfg.Entity.InitialEnergy = 0.0001
	cfg.Energy.MoveCost = 1e6
	cfg.Resource.Initial = 0
	cfg.Resource.RegenRate = 0
	s := newTestSim(t, cfg)

	s.Step(cfg.Simulation.DT)
	if got := len(s.Organisms()); got != 0 {
		t.Fatalf("population after starvation tick = %d, want 0", got)
	}
}

func TestPopulationFloorRespawns(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.Initial = 5
	cfg.Population.Min = 3
	cfg.Entity.InitialEnergy = 0.0001
	cfg.Energy.MoveCost = 1e6
	cfg.Resource.Initial = 0
	cfg.Resource.RegenRate = 0
	s := newTestSim(t, cfg)

	s.Step(cfg.Simulation.DT)
	// Originals starve; fresh founders spawned after the death pass keep
	// the floor.
	if got := len(s.Organisms()); got != 3 {
		t.Fatalf("population after collapse = %d, want floor 3", got)
	}
}

func TestFullPressureBlocksRegeneration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Resource.Initial = 0
	cfg.Resource.RegenRate = 1000
	s := newTestSim(t, cfg)

	s.SetEnvironmentalPressure(1.0)
	for i := 0; i < 100; i++ {
		s.Step(cfg.Simulation.DT)
	}
	if got := len(s.Environment().Resources); got != 0 {
		t.Fatalf("resources regenerated under full pressure: %d", got)
	}
}

func TestSetMutationRateClamps(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	s.SetMutationRate(-1)
	if s.mutator.Rate != 0 {
		t.Errorf("negative rate clamped to %g, want 0", s.mutator.Rate)
	}
	s.SetMutationRate(5)
	if s.mutator.Rate != cfg.Mutation.MaxRate {
		t.Errorf("oversized rate clamped to %g, want %g", s.mutator.Rate, cfg.Mutation.MaxRate)
	}
	s.SetMutationRate(0.1)
	if s.mutator.Rate != 0.1 {
		t.Errorf("rate = %g, want 0.1", s.mutator.Rate)
	}
}

func TestResetReinitializes(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	for i := 0; i < 50; i++ {
		s.Step(cfg.Simulation.DT)
	}
	s.Reset()

	if s.Tick() != 0 {
		t.Errorf("tick after reset = %d, want 0", s.Tick())
	}
	if got := len(s.Organisms()); got != cfg.Population.Initial {
		t.Errorf("population after reset = %d, want %d", got, cfg.Population.Initial)
	}
	stats := s.Statistics()
	if stats.Generation != 0 {
		t.Errorf("generation after reset = %d, want 0", stats.Generation)
	}
	if stats.RunTime != 0 {
		t.Errorf("run time after reset = %g, want 0", stats.RunTime)
	}
	for _, o := range s.Organisms() {
		if o.Age != 0 || o.Energy != cfg.Entity.InitialEnergy {
			t.Errorf("reset organism not pristine: age=%g energy=%g", o.Age, o.Energy)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	orgs := s.Organisms()
	orgs[0].Genome.BodySize.Value = -99
	orgs[0].Phenotype.Speed = -99
	orgs[0].Energy = -99

	again := s.Organisms()
	if again[0].Genome.BodySize.Value == -99 {
		t.Error("snapshot genome aliases live genome")
	}
	if again[0].Phenotype.Speed == -99 {
		t.Error("snapshot phenotype aliases live phenotype")
	}
	if again[0].Energy == -99 {
		t.Error("snapshot energy aliases live energy")
	}

	env := s.Environment()
	if len(env.Resources) > 0 {
		env.Resources[0].X = -99
		if s.Environment().Resources[0].X == -99 {
			t.Error("environment snapshot aliases live resources")
		}
	}
}

func TestStatisticsAverages(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	stats := s.Statistics()
	if stats.Population != cfg.Population.Initial {
		t.Fatalf("population = %d, want %d", stats.Population, cfg.Population.Initial)
	}
	if stats.Averages.Energy != cfg.Entity.InitialEnergy {
		t.Errorf("mean energy = %g, want %g", stats.Averages.Energy, cfg.Entity.InitialEnergy)
	}
	for name, v := range map[string]float64{
		"body_size":  stats.Averages.BodySize,
		"metabolism": stats.Averages.Metabolism,
		"sensor":     stats.Averages.SensorRange,
		"speed":      stats.Averages.Speed,
		"turn_rate":  stats.Averages.TurnRate,
	} {
		if v < 0 || v > 1 {
			t.Errorf("mean %s = %g outside [0, 1]", name, v)
		}
	}
	if stats.Averages.AppendageCount < 0 || stats.Averages.AppendageCount > 3 {
		t.Errorf("mean appendage count = %g outside [0, 3]", stats.Averages.AppendageCount)
	}
}

func TestZeroDTIsNoOp(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg)

	s.Step(0)
	if s.Tick() != 0 {
		t.Errorf("tick advanced on zero dt: %d", s.Tick())
	}
}
