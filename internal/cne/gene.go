package cne

import (
	"math/rand"

	"neurogen/internal/ann"
)

// Gene holds the weights of one layer. W is (inputs+1) x outputs with the
// bias in the last row. LW is outputs x gate weights for recurrent layers and
// empty otherwise.
type Gene struct {
	W  ann.Matrix
	LW ann.Matrix
}

func NewGene(inputs, outputs, gateWeights int) Gene {
	gene := Gene{W: ann.NewMatrix(inputs+1, outputs)}
	if gateWeights > 0 {
		gene.LW = ann.NewMatrix(outputs, gateWeights)
	}
	return gene
}

func (g Gene) Inputs() int {
	return g.W.Rows() - 1
}

func (g Gene) Outputs() int {
	return g.W.Cols()
}

func (g Gene) Clone() Gene {
	return Gene{W: g.W.Clone(), LW: g.LW.Clone()}
}

func (g Gene) Equal(other Gene) bool {
	return g.W.Equal(other.W) && g.LW.Equal(other.LW)
}

func (g Gene) weightCount() int {
	return g.W.Rows()*g.W.Cols() + g.LW.Rows()*g.LW.Cols()
}

// Crossover overwrites g with a blend of parentA and parentB.
func (g Gene) Crossover(parentA, parentB Gene, preference float64, mode ann.CrossoverMode, rng *rand.Rand) {
	ann.Crossover(g.W, parentA.W, parentB.W, preference, mode, rng)
	if !g.LW.Empty() {
		ann.Crossover(g.LW, parentA.LW, parentB.LW, preference, mode, rng)
	}
}

func (g Gene) Mutate(stdDev float64, rng *rand.Rand) {
	ann.Mutate(g.W, stdDev, rng)
	if !g.LW.Empty() {
		ann.Mutate(g.LW, stdDev, rng)
	}
}

func (g Gene) Randomize(rng *rand.Rand) {
	ann.Randomize(g.W, rng)
	if !g.LW.Empty() {
		ann.Randomize(g.LW, rng)
	}
}
