package evo

import (
	"gonum.org/v1/gonum/stat"
)

type GenerationDiagnostics struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
	MinFitness    float64 `json:"min_fitness"`
	EliteCount    int     `json:"elite_count"`
}

// Summarize computes fitness statistics over a ranked generation.
func Summarize(generation int, ranked []ScoredGenotype) GenerationDiagnostics {
	if len(ranked) == 0 {
		return GenerationDiagnostics{Generation: generation}
	}
	values := make([]float64, len(ranked))
	for i, item := range ranked {
		values[i] = item.Fitness
	}
	diag := GenerationDiagnostics{
		Generation:  generation,
		BestFitness: ranked[0].Fitness,
		MinFitness:  ranked[len(ranked)-1].Fitness,
		MeanFitness: stat.Mean(values, nil),
	}
	if len(values) > 1 {
		diag.StdDevFitness = stat.StdDev(values, nil)
	}
	return diag
}
