package evo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	ErrFitnessAlreadySet = errors.New("fitness already set for this generation")
	ErrUnscored          = errors.New("population has unscored genotypes")
)

// ScoredGenotype is one ranked population slot.
type ScoredGenotype struct {
	Index    int
	Genotype Genotype
	Fitness  float64
}

type individual struct {
	genotype Genotype
	fitness  float64
	scored   bool
}

// Population is one generation of genotypes and their fitness values.
type Population struct {
	encoding    Encoding
	generation  int
	individuals []individual
}

// NewPopulation allocates size empty genotypes for generation 0.
func NewPopulation(encoding Encoding, size int) (*Population, error) {
	if encoding == nil {
		return nil, fmt.Errorf("encoding is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	individuals := make([]individual, size)
	for i := range individuals {
		individuals[i].genotype = encoding.NewGenotype()
	}
	return &Population{encoding: encoding, individuals: individuals}, nil
}

func newPopulationFromGenotypes(encoding Encoding, generation int, genotypes []Genotype) *Population {
	individuals := make([]individual, len(genotypes))
	for i, g := range genotypes {
		individuals[i].genotype = g
	}
	return &Population{encoding: encoding, generation: generation, individuals: individuals}
}

// CreatePrimordialGeneration seeds every slot with a random genotype.
func (p *Population) CreatePrimordialGeneration(rng *rand.Rand) {
	for i := range p.individuals {
		p.individuals[i].genotype.CreatePrimordialSeed(rng)
		p.individuals[i].fitness = 0
		p.individuals[i].scored = false
	}
	p.generation = 0
}

func (p *Population) Encoding() Encoding {
	return p.encoding
}

func (p *Population) Size() int {
	return len(p.individuals)
}

func (p *Population) Generation() int {
	return p.generation
}

func (p *Population) Genotype(i int) Genotype {
	return p.individuals[i].genotype
}

// Fitness returns the slot fitness and whether it has been written.
func (p *Population) Fitness(i int) (float64, bool) {
	ind := p.individuals[i]
	return ind.fitness, ind.scored
}

// SetFitness records the fitness of slot i. Each slot is written once per
// generation. Distinct slots may be written concurrently.
func (p *Population) SetFitness(i int, fitness float64) error {
	if i < 0 || i >= len(p.individuals) {
		return fmt.Errorf("population index out of range: %d", i)
	}
	if math.IsNaN(fitness) {
		return fmt.Errorf("fitness for slot %d is NaN", i)
	}
	ind := &p.individuals[i]
	if ind.scored {
		return fmt.Errorf("%w: slot %d", ErrFitnessAlreadySet, i)
	}
	ind.fitness = fitness
	ind.scored = true
	return nil
}

func (p *Population) Scored() bool {
	for _, ind := range p.individuals {
		if !ind.scored {
			return false
		}
	}
	return true
}

// Ranked orders the population by fitness, descending. Ties keep population order.
func (p *Population) Ranked() ([]ScoredGenotype, error) {
	ranked := make([]ScoredGenotype, 0, len(p.individuals))
	for i, ind := range p.individuals {
		if !ind.scored {
			return nil, fmt.Errorf("%w: slot %d", ErrUnscored, i)
		}
		ranked = append(ranked, ScoredGenotype{Index: i, Genotype: ind.genotype, Fitness: ind.fitness})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})
	return ranked, nil
}

// Champion returns the best scored genotype.
func (p *Population) Champion() (ScoredGenotype, error) {
	ranked, err := p.Ranked()
	if err != nil {
		return ScoredGenotype{}, err
	}
	return ranked[0], nil
}
