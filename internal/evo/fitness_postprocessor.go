package evo

import (
	"fmt"
	"math"
	"strings"
)

const sizeProportionalEfficiency = 0.05

// Sized is implemented by genotypes that can report their structural size.
type Sized interface {
	Complexity() int
}

// FitnessPostprocessor adjusts raw domain fitness before it is written into
// the population.
type FitnessPostprocessor interface {
	Name() string
	Process(scored []ScoredGenotype) []ScoredGenotype
}

type NoopFitnessPostprocessor struct{}

func (NoopFitnessPostprocessor) Name() string {
	return "none"
}

func (NoopFitnessPostprocessor) Process(scored []ScoredGenotype) []ScoredGenotype {
	return cloneScored(scored)
}

// SizeProportionalPostprocessor penalizes larger genotypes by complexity.
// Only positive fitness is scaled, so the penalty never flips its sign.
type SizeProportionalPostprocessor struct{}

func (SizeProportionalPostprocessor) Name() string {
	return "size_proportional"
}

func (SizeProportionalPostprocessor) Process(scored []ScoredGenotype) []ScoredGenotype {
	out := cloneScored(scored)
	for i := range out {
		sized, ok := out[i].Genotype.(Sized)
		if !ok || out[i].Fitness <= 0 {
			continue
		}
		complexity := float64(sized.Complexity())
		if complexity < 1 {
			complexity = 1
		}
		out[i].Fitness = out[i].Fitness / math.Pow(complexity, sizeProportionalEfficiency)
	}
	return out
}

func FitnessPostprocessorByName(name string) (FitnessPostprocessor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return NoopFitnessPostprocessor{}, nil
	case "size_proportional":
		return SizeProportionalPostprocessor{}, nil
	default:
		return nil, fmt.Errorf("unsupported fitness postprocessor: %s", name)
	}
}

func cloneScored(scored []ScoredGenotype) []ScoredGenotype {
	out := make([]ScoredGenotype, len(scored))
	copy(out, scored)
	return out
}
