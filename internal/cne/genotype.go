package cne

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"neurogen/internal/ann"
	"neurogen/internal/evo"
)

// Genotype is a stack of hidden layer genes followed by a feedforward output
// layer gene.
type Genotype struct {
	population *Population
	hidden     []Gene
	output     Gene
}

func NewGenotype(population *Population) *Genotype {
	if population == nil {
		panic("cne genotype requires a population")
	}
	return &Genotype{population: population}
}

func (g *Genotype) empty() bool {
	return g.output.W.Empty()
}

func (g *Genotype) HiddenLayers() []Gene {
	return append([]Gene(nil), g.hidden...)
}

func (g *Genotype) OutputLayer() Gene {
	return g.output
}

// CreatePrimordialSeed allocates every layer for the domain arity and
// randomizes all weights.
func (g *Genotype) CreatePrimordialSeed(rng *rand.Rand) {
	p := g.population
	gates := p.kind.GateWeights()
	inputs := p.domain.Inputs()
	g.hidden = make([]Gene, len(p.cfg.HiddenLayers))
	for i, size := range p.cfg.HiddenLayers {
		g.hidden[i] = NewGene(inputs, size, gates)
		inputs = size
	}
	g.output = NewGene(inputs, p.domain.Outputs(), 0)
	g.Randomize(rng)
}

func (g *Genotype) Randomize(rng *rand.Rand) {
	for _, gene := range g.hidden {
		gene.Randomize(rng)
	}
	g.output.Randomize(rng)
}

func (g *Genotype) Mutate(stdDev float64, rng *rand.Rand) {
	for _, gene := range g.hidden {
		gene.Mutate(stdDev, rng)
	}
	g.output.Mutate(stdDev, rng)
}

// Crossover overwrites g with a layer-by-layer blend of the parents, which
// must share g's shape.
func (g *Genotype) Crossover(parentA, parentB *Genotype, preference float64, rng *rand.Rand) {
	if len(parentA.hidden) != len(g.hidden) || len(parentB.hidden) != len(g.hidden) {
		panic(fmt.Sprintf("cne crossover layer count mismatch: child=%d a=%d b=%d",
			len(g.hidden), len(parentA.hidden), len(parentB.hidden)))
	}
	mode := g.population.cfg.CrossoverMode
	for i, gene := range g.hidden {
		gene.Crossover(parentA.hidden[i], parentB.hidden[i], preference, mode, rng)
	}
	g.output.Crossover(parentA.output, parentB.output, preference, mode, rng)
}

// Complexity is the total number of weights.
func (g *Genotype) Complexity() int {
	n := g.output.weightCount()
	for _, gene := range g.hidden {
		n += gene.weightCount()
	}
	return n
}

func (g *Genotype) Grow() evo.Brain {
	return newBrain(g)
}

func (g *Genotype) Clone() evo.Genotype {
	return g.clone()
}

func (g *Genotype) clone() *Genotype {
	out := &Genotype{population: g.population, output: g.output.Clone()}
	if g.hidden != nil {
		out.hidden = make([]Gene, len(g.hidden))
		for i, gene := range g.hidden {
			out.hidden[i] = gene.Clone()
		}
	}
	return out
}

func (g *Genotype) Reset() {
	g.hidden = nil
	g.output = Gene{}
}

func (g *Genotype) Equal(other evo.Genotype) bool {
	o, ok := other.(*Genotype)
	if !ok || len(g.hidden) != len(o.hidden) {
		return false
	}
	for i := range g.hidden {
		if !g.hidden[i].Equal(o.hidden[i]) {
			return false
		}
	}
	return g.output.Equal(o.output)
}

type geneDoc struct {
	W  ann.Matrix  `json:"w"`
	LW *ann.Matrix `json:"lw,omitempty"`
}

type genotypeDoc struct {
	HiddenLayers []geneDoc `json:"hidden_layers"`
	OutputLayer  *geneDoc  `json:"output_layer"`
}

func toGeneDoc(gene Gene) geneDoc {
	doc := geneDoc{W: gene.W}
	if !gene.LW.Empty() {
		lw := gene.LW
		doc.LW = &lw
	}
	return doc
}

func (g *Genotype) Save() (json.RawMessage, error) {
	doc := genotypeDoc{HiddenLayers: make([]geneDoc, len(g.hidden))}
	for i, gene := range g.hidden {
		doc.HiddenLayers[i] = toGeneDoc(gene)
	}
	if !g.empty() {
		out := toGeneDoc(g.output)
		doc.OutputLayer = &out
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Load replaces the genotype with a saved one after checking every layer
// against the domain arity and the configured hidden layers.
func (g *Genotype) Load(data []byte) error {
	var doc genotypeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return g.loadError(err)
	}

	p := g.population
	if len(doc.HiddenLayers) != len(p.cfg.HiddenLayers) {
		return g.loadError(fmt.Errorf("%w: hidden layers=%d want=%d", ErrLayerShape, len(doc.HiddenLayers), len(p.cfg.HiddenLayers)))
	}
	if doc.OutputLayer == nil {
		return g.loadError(fmt.Errorf("%w: output_layer is required", ErrLayerShape))
	}

	gates := p.kind.GateWeights()
	inputs := p.domain.Inputs()
	hidden := make([]Gene, len(doc.HiddenLayers))
	for i, layer := range doc.HiddenLayers {
		gene, err := geneFromDoc(layer, inputs, p.cfg.HiddenLayers[i], gates)
		if err != nil {
			return g.loadError(fmt.Errorf("hidden layer %d: %w", i, err))
		}
		hidden[i] = gene
		inputs = p.cfg.HiddenLayers[i]
	}
	output, err := geneFromDoc(*doc.OutputLayer, inputs, p.domain.Outputs(), 0)
	if err != nil {
		return g.loadError(fmt.Errorf("output layer: %w", err))
	}

	g.hidden = hidden
	g.output = output
	return nil
}

func geneFromDoc(doc geneDoc, inputs, outputs, gates int) (Gene, error) {
	if doc.W.Rows() != inputs+1 || doc.W.Cols() != outputs {
		return Gene{}, fmt.Errorf("%w: w is %dx%d, want %dx%d", ErrLayerShape, doc.W.Rows(), doc.W.Cols(), inputs+1, outputs)
	}
	gene := Gene{W: doc.W}
	switch {
	case gates == 0 && doc.LW != nil:
		return Gene{}, fmt.Errorf("%w: unexpected lw on a feedforward layer", ErrGateShape)
	case gates > 0 && doc.LW == nil:
		return Gene{}, fmt.Errorf("%w: lw is required", ErrGateShape)
	case gates > 0:
		if doc.LW.Rows() != outputs || doc.LW.Cols() != gates {
			return Gene{}, fmt.Errorf("%w: lw is %dx%d, want %dx%d", ErrGateShape, doc.LW.Rows(), doc.LW.Cols(), outputs, gates)
		}
		gene.LW = *doc.LW
	}
	return gene, nil
}

func (g *Genotype) loadError(err error) error {
	return &evo.LoadError{Encoding: g.population.Name(), Err: err}
}
