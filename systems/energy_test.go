package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/microcosm/components"
	"github.com/pthm-cable/microcosm/genome"
)

var testCosts = EnergyCosts{MoveCost: 0.5, SizeCost: 0.01}

func testPhenotype(metabolism, bodySize float64) *genome.Phenotype {
	return &genome.Phenotype{
		BodySize:    bodySize,
		Metabolism:  metabolism,
		SensorRange: 0.5,
		Speed:       0.5,
		TurnRate:    0.5,
	}
}

func TestUpdateEnergy_DeadEntityNoOp(t *testing.T) {
	e := components.Energy{Value: 50, Alive: false}
	cost := UpdateEnergy(&e, components.Velocity{}, testPhenotype(0.5, 0.5), testCosts, 1.0/60)

	if cost != 0 {
		t.Errorf("expected 0 cost for dead entity, got %f", cost)
	}
	if e.Value != 50 {
		t.Errorf("dead entity energy should not change, got %f", e.Value)
	}
}

func TestUpdateEnergy_AgeIncreases(t *testing.T) {
	dt := 1.0 / 60.0
	e := components.Energy{Value: 50, Age: 10, Alive: true}

	UpdateEnergy(&e, components.Velocity{}, testPhenotype(0.5, 0.5), testCosts, dt)

	if math.Abs(e.Age-(10+dt)) > 1e-9 {
		t.Errorf("expected age %.6f, got %.6f", 10+dt, e.Age)
	}
}

func TestUpdateEnergy_DecayComponents(t *testing.T) {
	dt := 1.0
	phen := testPhenotype(0.4, 0.6)
	e := components.Energy{Value: 100, Alive: true}
	vel := components.Velocity{X: 3, Y: 4} // |v| = 5

	cost := UpdateEnergy(&e, vel, phen, testCosts, dt)

	// metabolism*moveCost + |v|*moveCost + bodySize*sizeCost
	want := 0.4*0.5 + 5*0.5 + 0.6*0.01
	if math.Abs(cost-want) > 1e-9 {
		t.Errorf("cost = %f, want %f", cost, want)
	}
	if math.Abs(e.Value-(100-want)) > 1e-9 {
		t.Errorf("energy = %f, want %f", e.Value, 100-want)
	}
}

func TestUpdateEnergy_ClampsAtZero(t *testing.T) {
	e := components.Energy{Value: 0.001, Alive: true}
	vel := components.Velocity{X: 100, Y: 0}

	cost := UpdateEnergy(&e, vel, testPhenotype(1, 1), testCosts, 1.0)

	if e.Value != 0 {
		t.Errorf("energy should clamp at 0, got %f", e.Value)
	}
	if math.Abs(cost-0.001) > 1e-9 {
		t.Errorf("reported cost should equal actual drain 0.001, got %f", cost)
	}
}

func TestUpdateEnergy_NonNegativeAfterRepeatedTicks(t *testing.T) {
	e := components.Energy{Value: 1, Alive: true}
	vel := components.Velocity{X: 10, Y: 10}
	for i := 0; i < 1000; i++ {
		UpdateEnergy(&e, vel, testPhenotype(1, 1), testCosts, 1.0/60)
		if e.Value < 0 {
			t.Fatalf("tick %d: energy went negative: %f", i, e.Value)
		}
	}
}

func TestBodyRadiusLinearMap(t *testing.T) {
	tests := []struct {
		bodySize float64
		want     float64
	}{
		{0, 3},
		{1, 10},
		{0.5, 6.5},
		{-0.2, 3},  // clamped
		{1.5, 10},  // clamped
	}
	for _, tt := range tests {
		got := BodyRadius(tt.bodySize, 3, 10)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("BodyRadius(%v) = %v, want %v", tt.bodySize, got, tt.want)
		}
	}
}
