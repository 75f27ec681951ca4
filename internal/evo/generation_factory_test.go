package evo

import (
	"context"
	"math/rand"
	"testing"
)

func TestGenerationFactoryBuildIsDeterministicAcrossWorkerCounts(t *testing.T) {
	pop := seededPopulation(8, 11)
	scorePopulation(pop, 8, 7, 6, 5, 4, 3, 2, 1)
	selection := newSelection(t, TruncationConfig{ElitePercentage: 0.25, EliteMutationChance: 0.5})

	build := func(workers int) *Population {
		next := NewGenerationFactory(pop.Encoding(), pop.Size(), 1)
		if err := selection.CreateNextGeneration(rand.New(rand.NewSource(99)), pop, next); err != nil {
			t.Fatalf("create next generation: %v", err)
		}
		built, err := next.Build(context.Background(), workers)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return built
	}

	serial := build(1)
	parallel := build(8)
	for i := 0; i < serial.Size(); i++ {
		if !serial.Genotype(i).Equal(parallel.Genotype(i)) {
			t.Fatalf("slot %d differs between serial and parallel builds", i)
		}
	}
}

func TestGenerationFactoryCapacity(t *testing.T) {
	pop := seededPopulation(1, 1)
	next := NewGenerationFactory(pop.Encoding(), 1, 1)
	if _, err := next.Build(context.Background(), 1); err == nil {
		t.Fatal("expected incomplete generation error")
	}
	if err := next.AddElite(pop.Genotype(0), false, 1); err != nil {
		t.Fatalf("add elite: %v", err)
	}
	if err := next.AddOffspring(pop.Genotype(0), pop.Genotype(0), 0.5, 2); err == nil {
		t.Fatal("expected full generation error")
	}
	if next.Remaining() != 0 {
		t.Fatalf("remaining got=%d want=0", next.Remaining())
	}
	built, err := next.Build(context.Background(), 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !built.Genotype(0).Equal(pop.Genotype(0)) {
		t.Fatal("unmutated elite should equal its parent")
	}
}

func TestGenerationFactoryBuildHonorsCancellation(t *testing.T) {
	pop := seededPopulation(2, 1)
	next := NewGenerationFactory(pop.Encoding(), 2, 1)
	_ = next.AddElite(pop.Genotype(0), false, 1)
	_ = next.AddElite(pop.Genotype(1), false, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := next.Build(ctx, 1); err == nil {
		t.Fatal("expected cancellation error")
	}
}
