package evo

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Domain is the narrow view of a task domain the core needs: the arity of
// the brain it drives.
type Domain interface {
	Inputs() int
	Outputs() int
}

// Brain is the executable phenotype grown from a genotype. Recurrent brains
// carry state across Evaluate calls until ResetState.
type Brain interface {
	Evaluate(inputs []float64) []float64
	ResetState()
}

// Genotype is the shared contract every encoding implements.
//
// A freshly constructed genotype is empty until CreatePrimordialSeed or Load
// populates it. Grow on an empty genotype panics.
type Genotype interface {
	CreatePrimordialSeed(rng *rand.Rand)
	Grow() Brain
	Clone() Genotype
	Reset()
	Save() (json.RawMessage, error)
	// Load replaces the genotype only after the whole document validates.
	// Failures are reported as *LoadError and leave the receiver unchanged.
	Load(data []byte) error
	Equal(other Genotype) bool
}

// Encoding builds and reproduces genotypes of one encoding kind for one domain.
// Reproduce and MutateElite must only read the parents, so they can run
// concurrently as long as each call gets its own rng.
type Encoding interface {
	Name() string
	Domain() Domain
	NewGenotype() Genotype
	Reproduce(rng *rand.Rand, parentA, parentB Genotype, preference float64) Genotype
	MutateElite(rng *rand.Rand, genotype Genotype)
}

// LoadError reports malformed external genotype data.
type LoadError struct {
	Encoding string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s genotype: %v", e.Encoding, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
