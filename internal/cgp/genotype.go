package cgp

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"neurogen/internal/evo"
)

// FunctionGene is one grid node. Only the first Arity() connections are read.
type FunctionGene struct {
	Function    FunctionID
	Connections [MaxArity]int
}

// OutputGene selects the value slot reported as one brain output.
type OutputGene struct {
	Connection int
}

// Genotype is a rows x columns grid of function genes stored column-major
// (index = row + column*rows). Value slots number the domain inputs first,
// then the grid nodes in gene order.
type Genotype struct {
	population    *Population
	functionGenes []FunctionGene
	outputGenes   []OutputGene
}

func NewGenotype(population *Population) *Genotype {
	if population == nil {
		panic("cgp genotype requires a population")
	}
	return &Genotype{population: population}
}

func (g *Genotype) config() Config {
	return g.population.cfg
}

func (g *Genotype) inputs() int {
	return g.population.domain.Inputs()
}

func (g *Genotype) outputs() int {
	return g.population.domain.Outputs()
}

func (g *Genotype) FunctionGenes() []FunctionGene {
	return append([]FunctionGene(nil), g.functionGenes...)
}

func (g *Genotype) OutputGenes() []OutputGene {
	return append([]OutputGene(nil), g.outputGenes...)
}

func (g *Genotype) empty() bool {
	return len(g.functionGenes) == 0
}

// CreatePrimordialSeed sizes the grid and randomizes every gene.
func (g *Genotype) CreatePrimordialSeed(rng *rand.Rand) {
	cfg := g.config()
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		panic(fmt.Sprintf("cgp grid must be non-empty: rows=%d columns=%d", cfg.Rows, cfg.Columns))
	}
	g.functionGenes = make([]FunctionGene, cfg.Rows*cfg.Columns)
	g.outputGenes = make([]OutputGene, g.outputs())
	g.Mutate(1, 1, rng)
}

// Mutate resamples each connection with probability connectionRate and each
// function with probability functionRate. Resampled connections stay inside
// the range of their layer.
func (g *Genotype) Mutate(connectionRate, functionRate float64, rng *rand.Rand) {
	cfg := g.config()
	functions := g.population.functions
	for idx := range g.functionGenes {
		gene := &g.functionGenes[idx]
		lo, hi := g.ConnectionRange(idx/cfg.Rows+1, cfg.LevelsBack)
		for c := range gene.Connections {
			if rng.Float64() < connectionRate {
				gene.Connections[c] = lo + rng.Intn(hi-lo+1)
			}
		}
		if rng.Float64() < functionRate {
			gene.Function = functions[rng.Intn(len(functions))]
		}
	}

	lo, hi := g.OutputConnectionRange()
	for idx := range g.outputGenes {
		if rng.Float64() < connectionRate {
			g.outputGenes[idx].Connection = lo + rng.Intn(hi-lo+1)
		}
	}
}

// ConnectionRange returns the inclusive slot range a node of the given layer
// may read. Layer 0 is the input layer, layers 1..columns are grid columns and
// columns+1 is the output layer.
func (g *Genotype) ConnectionRange(layer, levelsBack int) (int, int) {
	cfg := g.config()
	if layer <= 0 || layer > cfg.Columns+1 {
		panic(fmt.Sprintf("cgp layer %d out of range (0, %d]", layer, cfg.Columns+1))
	}
	if levelsBack <= 0 {
		panic(fmt.Sprintf("cgp levels back must be positive, got %d", levelsBack))
	}
	first := layer - levelsBack
	if first < 0 {
		first = 0
	}
	return g.layerBase(first), g.layerBase(layer) - 1
}

// OutputConnectionRange is the range output genes sample from. Unless outputs
// honor levels back, every input and grid node is reachable.
func (g *Genotype) OutputConnectionRange() (int, int) {
	cfg := g.config()
	layer := cfg.Columns + 1
	levelsBack := layer
	if cfg.OutputsUseLevelsBack {
		levelsBack = cfg.LevelsBack
	}
	return g.ConnectionRange(layer, levelsBack)
}

func (g *Genotype) layerBase(layer int) int {
	if layer == 0 {
		return 0
	}
	return g.inputs() + (layer-1)*g.config().Rows
}

// ActiveNodes marks the grid nodes reachable from any output gene.
func (g *Genotype) ActiveNodes() []bool {
	active := make([]bool, len(g.functionGenes))
	if g.empty() {
		return active
	}

	inputs := g.inputs()
	slots := int64(inputs + len(g.functionGenes))
	dg := simple.NewDirectedGraph()
	for idx, gene := range g.functionGenes {
		from := simple.Node(int64(inputs + idx))
		for c := 0; c < gene.Function.Arity(); c++ {
			dg.SetEdge(dg.NewEdge(from, simple.Node(int64(gene.Connections[c]))))
		}
	}
	for idx, gene := range g.outputGenes {
		dg.SetEdge(dg.NewEdge(simple.Node(slots+int64(idx)), simple.Node(int64(gene.Connection))))
	}

	walker := traverse.DepthFirst{
		Visit: func(n graph.Node) {
			id := n.ID()
			if id >= int64(inputs) && id < slots {
				active[id-int64(inputs)] = true
			}
		},
	}
	for idx := range g.outputGenes {
		walker.Walk(dg, simple.Node(slots+int64(idx)), nil)
	}
	return active
}

// Complexity counts active grid nodes.
func (g *Genotype) Complexity() int {
	n := 0
	for _, on := range g.ActiveNodes() {
		if on {
			n++
		}
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
	return &Genotype{
		population:    g.population,
		functionGenes: append([]FunctionGene(nil), g.functionGenes...),
		outputGenes:   append([]OutputGene(nil), g.outputGenes...),
	}
}

func (g *Genotype) Reset() {
	g.functionGenes = nil
	g.outputGenes = nil
}

func (g *Genotype) Equal(other evo.Genotype) bool {
	o, ok := other.(*Genotype)
	if !ok {
		return false
	}
	if len(g.functionGenes) != len(o.functionGenes) || len(g.outputGenes) != len(o.outputGenes) {
		return false
	}
	for i := range g.functionGenes {
		if g.functionGenes[i] != o.functionGenes[i] {
			return false
		}
	}
	for i := range g.outputGenes {
		if g.outputGenes[i] != o.outputGenes[i] {
			return false
		}
	}
	return true
}

type functionGeneDoc struct {
	Function    int   `json:"fn"`
	Connections []int `json:"c"`
}

type outputGeneDoc struct {
	Connection int `json:"c"`
}

type genotypeDoc struct {
	FunctionGenes []functionGeneDoc `json:"function_genes"`
	OutputGenes   []outputGeneDoc   `json:"output_genes"`
}

func (g *Genotype) Save() (json.RawMessage, error) {
	doc := genotypeDoc{
		FunctionGenes: make([]functionGeneDoc, len(g.functionGenes)),
		OutputGenes:   make([]outputGeneDoc, len(g.outputGenes)),
	}
	for i, gene := range g.functionGenes {
		doc.FunctionGenes[i] = functionGeneDoc{
			Function:    int(gene.Function),
			Connections: append([]int(nil), gene.Connections[:]...),
		}
	}
	for i, gene := range g.outputGenes {
		doc.OutputGenes[i] = outputGeneDoc{Connection: gene.Connection}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Load replaces the genotype with a saved one. Nothing changes unless the
// whole document is valid for this population.
func (g *Genotype) Load(data []byte) error {
	var doc genotypeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return g.loadError(err)
	}
	if doc.FunctionGenes == nil || doc.OutputGenes == nil {
		return g.loadError(fmt.Errorf("%w: function_genes and output_genes are required", ErrGeneCount))
	}

	cfg := g.config()
	if want := cfg.Rows * cfg.Columns; len(doc.FunctionGenes) != want {
		return g.loadError(fmt.Errorf("%w: function genes=%d want=%d", ErrGeneCount, len(doc.FunctionGenes), want))
	}
	if want := g.outputs(); len(doc.OutputGenes) != want {
		return g.loadError(fmt.Errorf("%w: output genes=%d want=%d", ErrGeneCount, len(doc.OutputGenes), want))
	}

	functionGenes := make([]FunctionGene, len(doc.FunctionGenes))
	for idx, fd := range doc.FunctionGenes {
		fn := FunctionID(fd.Function)
		if !fn.Valid() {
			return g.loadError(fmt.Errorf("%w: gene %d has function %d", ErrInvalidFunction, idx, fd.Function))
		}
		if len(fd.Connections) != MaxArity {
			return g.loadError(fmt.Errorf("%w: gene %d has %d connections", ErrInvalidConnection, idx, len(fd.Connections)))
		}
		lo, hi := g.ConnectionRange(idx/cfg.Rows+1, cfg.LevelsBack)
		gene := FunctionGene{Function: fn}
		for c, conn := range fd.Connections {
			if conn < lo || conn > hi {
				return g.loadError(fmt.Errorf("%w: gene %d connection %d outside [%d, %d]", ErrInvalidConnection, idx, conn, lo, hi))
			}
			gene.Connections[c] = conn
		}
		functionGenes[idx] = gene
	}

	lo, hi := g.OutputConnectionRange()
	outputGenes := make([]OutputGene, len(doc.OutputGenes))
	for idx, od := range doc.OutputGenes {
		if od.Connection < lo || od.Connection > hi {
			return g.loadError(fmt.Errorf("%w: output %d connection %d outside [%d, %d]", ErrInvalidConnection, idx, od.Connection, lo, hi))
		}
		outputGenes[idx] = OutputGene{Connection: od.Connection}
	}

	g.functionGenes = functionGenes
	g.outputGenes = outputGenes
	return nil
}

func (g *Genotype) loadError(err error) error {
	return &evo.LoadError{Encoding: g.population.Name(), Err: err}
}
