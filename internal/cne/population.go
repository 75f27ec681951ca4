package cne

import (
	"fmt"
	"math/rand"

	"neurogen/internal/ann"
	"neurogen/internal/evo"
)

// Population is a weight-vector encoding of one kind bound to one domain.
type Population struct {
	kind       Kind
	cfg        Config
	domain     evo.Domain
	activation ann.ActivationFunc
	gate       ann.ActivationFunc
}

func NewPopulation(kind Kind, cfg Config, domain evo.Domain) (*Population, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, fmt.Errorf("domain is required")
	}
	if domain.Inputs() <= 0 || domain.Outputs() <= 0 {
		return nil, fmt.Errorf("domain arity must be positive: inputs=%d outputs=%d", domain.Inputs(), domain.Outputs())
	}

	cfg.HiddenLayers = append([]int(nil), cfg.HiddenLayers...)
	cfg.CrossoverMode, _ = ann.ParseCrossoverMode(string(cfg.CrossoverMode))
	activation, _ := ann.GetActivation(cfg.Activation)
	gate, _ := ann.GetActivation(cfg.GateActivation)
	return &Population{
		kind:       kind,
		cfg:        cfg,
		domain:     domain,
		activation: activation,
		gate:       gate,
	}, nil
}

func (p *Population) Name() string {
	return "cne." + string(p.kind)
}

func (p *Population) Kind() Kind {
	return p.kind
}

func (p *Population) Config() Config {
	return p.cfg
}

func (p *Population) Domain() evo.Domain {
	return p.domain
}

func (p *Population) NewGenotype() evo.Genotype {
	return NewGenotype(p)
}

// Reproduce blends both parents into a new child and perturbs its weights.
func (p *Population) Reproduce(rng *rand.Rand, parentA, parentB evo.Genotype, preference float64) evo.Genotype {
	a := parentA.(*Genotype)
	child := a.clone()
	child.Crossover(a, parentB.(*Genotype), preference, rng)
	child.Mutate(p.cfg.MutationStdDev, rng)
	return child
}

func (p *Population) MutateElite(rng *rand.Rand, genotype evo.Genotype) {
	genotype.(*Genotype).Mutate(p.cfg.MutationStdDev, rng)
}
