package genome

import (
	"math/rand"
	"testing"
)

func uniformGenome(value float64) *Genome {
	g := &Genome{}
	for _, gene := range g.scalarGenes() {
		gene.Value = value
		gene.MutationRate = 1.0
	}
	g.Appendages = []Appendage{
		{
			Type:     Fin,
			Length:   Gene{Value: value, MutationRate: 1.0},
			Position: Gene{Value: value, MutationRate: 1.0},
			Angle:    Gene{Value: value, MutationRate: 1.0},
		},
	}
	return g
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMutator(0, rng)
	parent := uniformGenome(0.5)

	child := m.Mutate(parent)

	for i, gene := range child.scalarGenes() {
		if gene.Value != 0.5 {
			t.Errorf("scalar gene %d mutated at rate 0: got %v, want 0.5", i, gene.Value)
		}
	}
	if len(child.Appendages) != 1 {
		t.Fatalf("appendage count changed at rate 0: got %d, want 1", len(child.Appendages))
	}
	a := child.Appendages[0]
	if a.Type != Fin || a.Length.Value != 0.5 || a.Position.Value != 0.5 || a.Angle.Value != 0.5 {
		t.Errorf("appendage mutated at rate 0: %+v", a)
	}
}

func TestMutateNeverAliasesParent(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := NewMutator(0.2, rng)
	parent := uniformGenome(0.5)

	child := m.Mutate(parent)
	if child == parent {
		t.Fatal("Mutate returned the input genome")
	}

	// Scribble over the child; the parent must be untouched.
	for _, gene := range child.scalarGenes() {
		gene.Value = -99
	}
	for i := range child.Appendages {
		child.Appendages[i].Length.Value = -99
	}

	for i, gene := range parent.scalarGenes() {
		if gene.Value != 0.5 {
			t.Errorf("parent scalar gene %d aliased by child: got %v", i, gene.Value)
		}
	}
	if len(parent.Appendages) == 1 && parent.Appendages[0].Length.Value != 0.5 {
		t.Errorf("parent appendage aliased by child: got %v", parent.Appendages[0].Length.Value)
	}
}

func TestMutateRangeInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMutator(0.2, rng)

	g := NewRandom(rng)
	for i := 0; i < 2000; i++ {
		g = m.Mutate(g)

		for j, gene := range g.scalarGenes() {
			if gene.Value < 0 || gene.Value > 1 {
				t.Fatalf("iteration %d: scalar gene %d out of range: %v", i, j, gene.Value)
			}
		}
		for j, a := range g.Appendages {
			for name, v := range map[string]float64{
				"length":   a.Length.Value,
				"position": a.Position.Value,
				"angle":    a.Angle.Value,
			} {
				if v < 0 || v > 1 {
					t.Fatalf("iteration %d: appendage %d %s out of range: %v", i, j, name, v)
				}
			}
		}
	}
}

func TestMutateAppendageBound(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	// Max rate makes structural mutations as frequent as the policy allows.
	m := NewMutator(0.2, rng)

	g := NewRandom(rng)
	for i := 0; i < 5000; i++ {
		g = m.Mutate(g)
		if n := len(g.Appendages); n < 0 || n > MaxAppendages {
			t.Fatalf("iteration %d: appendage count %d outside [0, %d]", i, n, MaxAppendages)
		}
	}
}

func TestMutateEventuallyChangesGenes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := NewMutator(0.2, rng)
	parent := uniformGenome(0.5)

	changed := false
	g := parent
	for i := 0; i < 500 && !changed; i++ {
		g = m.Mutate(g)
		for _, gene := range g.scalarGenes() {
			if gene.Value != 0.5 {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Error("no scalar gene changed after 500 mutations at max rate")
	}
}

func TestNewRandomWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 100; i++ {
		g := NewRandom(rng)
		for j, gene := range g.scalarGenes() {
			if gene.Value < 0 || gene.Value > 1 {
				t.Fatalf("founder scalar gene %d out of range: %v", j, gene.Value)
			}
			if gene.MutationRate < 0 || gene.MutationRate > 1 {
				t.Fatalf("founder mutation rate %d out of range: %v", j, gene.MutationRate)
			}
		}
		if len(g.Appendages) > MaxAppendages {
			t.Fatalf("founder appendage count %d exceeds cap", len(g.Appendages))
		}
	}
}
