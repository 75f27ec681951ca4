package cgp

import "fmt"

// Brain evaluates the active part of a graph genotype. It reads the genotype
// it was grown from, which must not change while the brain is in use.
type Brain struct {
	genotype *Genotype
	inputs   int
	active   []bool
	values   []float64
}

func newBrain(g *Genotype) *Brain {
	if g.empty() {
		panic("cgp: grow called on an empty genotype")
	}
	inputs := g.inputs()
	return &Brain{
		genotype: g,
		inputs:   inputs,
		active:   g.ActiveNodes(),
		values:   make([]float64, inputs+len(g.functionGenes)),
	}
}

// Evaluate computes nodes in column order, so every connection reads a slot
// that is already filled.
func (b *Brain) Evaluate(inputs []float64) []float64 {
	if len(inputs) != b.inputs {
		panic(fmt.Sprintf("cgp brain expects %d inputs, got %d", b.inputs, len(inputs)))
	}
	copy(b.values, inputs)
	for idx, gene := range b.genotype.functionGenes {
		if !b.active[idx] {
			continue
		}
		var x, y float64
		switch gene.Function.Arity() {
		case 2:
			y = b.values[gene.Connections[1]]
			fallthrough
		case 1:
			x = b.values[gene.Connections[0]]
		}
		b.values[b.inputs+idx] = gene.Function.Apply(x, y)
	}

	out := make([]float64, len(b.genotype.outputGenes))
	for i, gene := range b.genotype.outputGenes {
		out[i] = b.values[gene.Connection]
	}
	return out
}

// ResetState is a no-op: graph brains keep no state between evaluations.
func (b *Brain) ResetState() {}

// ActiveCount is the number of grid nodes the brain evaluates.
func (b *Brain) ActiveCount() int {
	n := 0
	for _, on := range b.active {
		if on {
			n++
		}
	}
	return n
}
