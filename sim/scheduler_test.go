package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/microcosm/config"
)

func TestSchedulerStartStop(t *testing.T) {
	sc := NewScheduler(200)

	var ticks atomic.Int64
	sc.Start(func(elapsed float64) {
		if elapsed <= 0 {
			t.Errorf("elapsed = %g, want > 0", elapsed)
		}
		ticks.Add(1)
	})
	if !sc.Running() {
		t.Fatal("scheduler not running after Start")
	}

	time.Sleep(100 * time.Millisecond)
	sc.Stop()
	if sc.Running() {
		t.Fatal("scheduler still running after Stop")
	}

	got := ticks.Load()
	if got == 0 {
		t.Fatal("no ticks ran")
	}

	// No tick may run once Stop has returned.
	time.Sleep(50 * time.Millisecond)
	if after := ticks.Load(); after != got {
		t.Fatalf("ticks advanced after Stop: %d -> %d", got, after)
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	sc := NewScheduler(100)
	sc.Stop() // never started
	sc.Start(func(float64) {})
	sc.Stop()
	sc.Stop()
	if sc.Running() {
		t.Fatal("scheduler running after double Stop")
	}
}

func TestSchedulerStartWhileRunningIsNoOp(t *testing.T) {
	sc := NewScheduler(100)
	defer sc.Stop()

	var first, second atomic.Int64
	sc.Start(func(float64) { first.Add(1) })
	sc.Start(func(float64) { second.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if second.Load() != 0 {
		t.Fatal("second Start replaced the running loop")
	}
	if first.Load() == 0 {
		t.Fatal("original loop stopped ticking")
	}
}

func TestSimulationStartStopLifecycle(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Initial = 5

	s, err := New(cfg, Options{Seed: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if s.Running() {
		t.Fatal("running before Start")
	}
	s.Start(1.0)
	if !s.Running() {
		t.Fatal("not running after Start")
	}

	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if s.Running() {
		t.Fatal("running after Stop")
	}

	ticked := s.Tick()
	if ticked == 0 {
		t.Fatal("no ticks while running")
	}
	time.Sleep(50 * time.Millisecond)
	if s.Tick() != ticked {
		t.Fatalf("ticks advanced after Stop: %d -> %d", ticked, s.Tick())
	}

	// Restart picks up where it left off.
	s.Start(2.0)
	time.Sleep(60 * time.Millisecond)
	s.Stop()
	if s.Tick() <= ticked {
		t.Fatal("restart did not resume ticking")
	}
}

func TestSpeedMultiplierClamped(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if got := clampSpeed(100, cfg); got != cfg.Simulation.MaxSpeed {
		t.Errorf("clampSpeed(100) = %g, want %g", got, cfg.Simulation.MaxSpeed)
	}
	if got := clampSpeed(0, cfg); got != cfg.Simulation.MinSpeed {
		t.Errorf("clampSpeed(0) = %g, want %g", got, cfg.Simulation.MinSpeed)
	}
	if got := clampSpeed(1.5, cfg); got != 1.5 {
		t.Errorf("clampSpeed(1.5) = %g, want 1.5", got)
	}
}
