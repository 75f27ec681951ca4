package cgp

import (
	"fmt"
	"math/rand"

	"neurogen/internal/evo"
)

// Population is the graph encoding bound to one domain: it creates empty
// genotypes and implements reproduction for the generation factory.
type Population struct {
	cfg       Config
	domain    evo.Domain
	functions []FunctionID
}

// NewPopulation validates the configuration against the domain. Domains that
// implement FunctionCatalog restrict the primitives; others get the whole catalogue.
func NewPopulation(cfg Config, domain evo.Domain) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, fmt.Errorf("domain is required")
	}
	if domain.Inputs() <= 0 || domain.Outputs() <= 0 {
		return nil, fmt.Errorf("domain arity must be positive: inputs=%d outputs=%d", domain.Inputs(), domain.Outputs())
	}

	functions := AllFunctions()
	if catalog, ok := domain.(FunctionCatalog); ok {
		functions = append([]FunctionID(nil), catalog.AvailableFunctions()...)
	}
	if len(functions) == 0 {
		return nil, fmt.Errorf("domain exposes no cgp functions")
	}
	for _, fn := range functions {
		if !fn.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidFunction, int(fn))
		}
	}

	return &Population{cfg: cfg, domain: domain, functions: functions}, nil
}

func (p *Population) Name() string {
	return "cgp"
}

func (p *Population) Config() Config {
	return p.cfg
}

func (p *Population) Domain() evo.Domain {
	return p.domain
}

// AvailableFunctions is the ordered primitive set mutation samples from.
func (p *Population) AvailableFunctions() []FunctionID {
	return append([]FunctionID(nil), p.functions...)
}

func (p *Population) NewGenotype() evo.Genotype {
	return NewGenotype(p)
}

// Reproduce copies one parent, chosen with probability preference for
// parentA, and mutates the copy. Graph genotypes do not recombine.
func (p *Population) Reproduce(rng *rand.Rand, parentA, parentB evo.Genotype, preference float64) evo.Genotype {
	parent := parentA
	if rng.Float64() >= preference {
		parent = parentB
	}
	child := parent.(*Genotype).clone()
	child.Mutate(p.cfg.ConnectionMutationChance, p.cfg.FunctionMutationChance, rng)
	return child
}

func (p *Population) MutateElite(rng *rand.Rand, genotype evo.Genotype) {
	genotype.(*Genotype).Mutate(p.cfg.ConnectionMutationChance, p.cfg.FunctionMutationChance, rng)
}
