package scape

import (
	"context"

	"neurogen/internal/evo"
)

// RegressionMimicScape evaluates a one-dimensional regression target y=x.
type RegressionMimicScape struct{}

func (RegressionMimicScape) Name() string {
	return "regression-mimic"
}

func (RegressionMimicScape) Inputs() int  { return 1 }
func (RegressionMimicScape) Outputs() int { return 1 }

func (RegressionMimicScape) Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	inputs := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	predictions := make([]float64, 0, len(inputs))

	var squaredErr float64
	for _, x := range inputs {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		out, err := runStep(brain, "regression-mimic", []float64{x})
		if err != nil {
			return 0, nil, err
		}
		predictions = append(predictions, out)
		delta := out - x
		squaredErr += delta * delta
	}

	mse := squaredErr / float64(len(inputs))
	fitness := Fitness(1.0 - mse)
	return fitness, Trace{"mse": mse, "predictions": predictions}, nil
}
