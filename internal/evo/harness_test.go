package evo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// vectorGenotype is a minimal encoding used to exercise the generation machinery.
type vectorGenotype struct {
	values []float64
}

func (g *vectorGenotype) CreatePrimordialSeed(rng *rand.Rand) {
	g.values = make([]float64, 3)
	for i := range g.values {
		g.values[i] = rng.Float64()*2 - 1
	}
}

func (g *vectorGenotype) Grow() Brain {
	if len(g.values) == 0 {
		panic("grow on empty vector genotype")
	}
	return sumBrain{values: append([]float64(nil), g.values...)}
}

func (g *vectorGenotype) Clone() Genotype {
	return &vectorGenotype{values: append([]float64(nil), g.values...)}
}

func (g *vectorGenotype) Reset() {
	g.values = nil
}

func (g *vectorGenotype) Save() (json.RawMessage, error) {
	return json.Marshal(g.values)
}

func (g *vectorGenotype) Load(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return &LoadError{Encoding: "vector", Err: err}
	}
	g.values = values
	return nil
}

func (g *vectorGenotype) Equal(other Genotype) bool {
	o, ok := other.(*vectorGenotype)
	if !ok || len(o.values) != len(g.values) {
		return false
	}
	for i := range g.values {
		if g.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (g *vectorGenotype) Complexity() int {
	return len(g.values)
}

type sumBrain struct {
	values []float64
}

func (b sumBrain) Evaluate(inputs []float64) []float64 {
	total := 0.0
	for _, v := range b.values {
		total += v
	}
	return []float64{total}
}

func (sumBrain) ResetState() {}

type vectorDomain struct{}

func (vectorDomain) Inputs() int  { return 1 }
func (vectorDomain) Outputs() int { return 1 }

type vectorEncoding struct {
	stdDev float64
}

func (vectorEncoding) Name() string {
	return "vector"
}

func (vectorEncoding) Domain() Domain {
	return vectorDomain{}
}

func (vectorEncoding) NewGenotype() Genotype {
	return &vectorGenotype{}
}

func (e vectorEncoding) Reproduce(rng *rand.Rand, parentA, parentB Genotype, preference float64) Genotype {
	a := parentA.(*vectorGenotype)
	b := parentB.(*vectorGenotype)
	child := &vectorGenotype{values: make([]float64, len(a.values))}
	for i := range child.values {
		if rng.Float64() < preference {
			child.values[i] = a.values[i]
		} else {
			child.values[i] = b.values[i]
		}
		child.values[i] += rng.NormFloat64() * e.stdDev
	}
	return child
}

func (e vectorEncoding) MutateElite(rng *rand.Rand, genotype Genotype) {
	g := genotype.(*vectorGenotype)
	for i := range g.values {
		g.values[i] += rng.NormFloat64() * e.stdDev
	}
}

// targetSumEvaluator rewards brains whose output is close to target.
type targetSumEvaluator struct {
	target float64
}

func (e targetSumEvaluator) Evaluate(ctx context.Context, brain Brain) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out := brain.Evaluate([]float64{0})
	return -math.Abs(out[0] - e.target), nil
}

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(context.Context, Brain) (float64, error) {
	return 0, fmt.Errorf("domain failure")
}

func seededPopulation(size int, seed int64) *Population {
	pop, err := NewPopulation(vectorEncoding{stdDev: 0.1}, size)
	if err != nil {
		panic(err)
	}
	pop.CreatePrimordialGeneration(rand.New(rand.NewSource(seed)))
	return pop
}

func scorePopulation(pop *Population, fitness ...float64) {
	for i, f := range fitness {
		if err := pop.SetFitness(i, f); err != nil {
			panic(err)
		}
	}
}
