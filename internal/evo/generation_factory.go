package evo

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

type pendingGenotype struct {
	seed  int64
	build func(rng *rand.Rand) Genotype
}

// GenerationFactory accumulates the slots of the next generation. Slots are
// recorded sequentially, each with its own rng seed, and materialized by
// Build, possibly in parallel.
type GenerationFactory struct {
	encoding   Encoding
	generation int
	size       int
	pending    []pendingGenotype
}

func NewGenerationFactory(encoding Encoding, size, generation int) *GenerationFactory {
	return &GenerationFactory{
		encoding:   encoding,
		generation: generation,
		size:       size,
		pending:    make([]pendingGenotype, 0, size),
	}
}

func (f *GenerationFactory) Size() int {
	return f.size
}

func (f *GenerationFactory) Generation() int {
	return f.generation
}

func (f *GenerationFactory) Remaining() int {
	return f.size - len(f.pending)
}

// AddElite carries parent into the next generation, optionally with a light mutation.
func (f *GenerationFactory) AddElite(parent Genotype, mutate bool, seed int64) error {
	return f.add(seed, func(rng *rand.Rand) Genotype {
		clone := parent.Clone()
		if mutate {
			f.encoding.MutateElite(rng, clone)
		}
		return clone
	})
}

// AddOffspring schedules a child reproduced from two ranked parents.
func (f *GenerationFactory) AddOffspring(parentA, parentB Genotype, preference float64, seed int64) error {
	return f.add(seed, func(rng *rand.Rand) Genotype {
		return f.encoding.Reproduce(rng, parentA, parentB, preference)
	})
}

func (f *GenerationFactory) add(seed int64, build func(rng *rand.Rand) Genotype) error {
	if f.Remaining() <= 0 {
		return fmt.Errorf("next generation is full: size=%d", f.size)
	}
	f.pending = append(f.pending, pendingGenotype{seed: seed, build: build})
	return nil
}

// Build materializes every scheduled slot into a new unscored population.
// workers bounds the number of concurrent constructions.
func (f *GenerationFactory) Build(ctx context.Context, workers int) (*Population, error) {
	if f.Remaining() != 0 {
		return nil, fmt.Errorf("next generation incomplete: have=%d want=%d", len(f.pending), f.size)
	}
	if workers <= 0 {
		workers = 1
	}

	genotypes := make([]Genotype, len(f.pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range f.pending {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			genotypes[i] = item.build(rand.New(rand.NewSource(item.seed)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newPopulationFromGenotypes(f.encoding, f.generation, genotypes), nil
}
