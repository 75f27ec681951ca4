package ann

import (
	"fmt"
	"math/rand"
	"strings"
)

// CrossoverMode selects how two parent weights are blended into a child weight.
type CrossoverMode string

const (
	// CrossoverUniform copies parent A's weight with probability preference,
	// otherwise parent B's.
	CrossoverUniform CrossoverMode = "uniform"
	// CrossoverInterpolate computes preference*a + (1-preference)*b.
	CrossoverInterpolate CrossoverMode = "interpolate"
)

func ParseCrossoverMode(name string) (CrossoverMode, error) {
	switch CrossoverMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", CrossoverUniform:
		return CrossoverUniform, nil
	case CrossoverInterpolate:
		return CrossoverInterpolate, nil
	default:
		return "", fmt.Errorf("unsupported crossover mode: %s", name)
	}
}

// Randomize replaces every weight with a uniform draw from [-1, 1].
func Randomize(m Matrix, rng *rand.Rand) {
	rows, cols := m.Rows(), m.Cols()
	for i := 0; i < rows; i++ {
		row := m.Row(i)
		for j := 0; j < cols; j++ {
			row[j] = rng.Float64()*2 - 1
		}
	}
}

// Mutate perturbs every weight with zero-mean gaussian noise.
func Mutate(m Matrix, stdDev float64, rng *rand.Rand) {
	if stdDev == 0 {
		return
	}
	rows := m.Rows()
	for i := 0; i < rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] += rng.NormFloat64() * stdDev
		}
	}
}

// Crossover writes the element-wise blend of a and b into child.
// All three matrices must share the same shape.
func Crossover(child, a, b Matrix, preference float64, mode CrossoverMode, rng *rand.Rand) {
	if child.Rows() != a.Rows() || child.Cols() != a.Cols() || a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		panic(fmt.Sprintf("ann: crossover shape mismatch child=%dx%d a=%dx%d b=%dx%d",
			child.Rows(), child.Cols(), a.Rows(), a.Cols(), b.Rows(), b.Cols()))
	}
	for i := 0; i < a.Rows(); i++ {
		dst, rowA, rowB := child.Row(i), a.Row(i), b.Row(i)
		for j := range dst {
			switch mode {
			case CrossoverInterpolate:
				dst[j] = preference*rowA[j] + (1-preference)*rowB[j]
			default:
				if rng.Float64() < preference {
					dst[j] = rowA[j]
				} else {
					dst[j] = rowB[j]
				}
			}
		}
	}
}
