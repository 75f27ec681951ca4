package scape

import (
	"context"
	"fmt"
	"strings"

	"neurogen/internal/cgp"
	"neurogen/internal/evo"
)

// XORScape scores a two-input brain against the exclusive-or truth table.
// Fitness is the reciprocal of the summed squared error, so an exact brain
// scores about 1e6.
type XORScape struct{}

func (XORScape) Name() string { return "xor" }
func (XORScape) Inputs() int  { return 2 }
func (XORScape) Outputs() int { return 1 }

// AvailableFunctions restricts graph genotypes to arithmetic and logic primitives.
func (XORScape) AvailableFunctions() []cgp.FunctionID {
	return []cgp.FunctionID{
		cgp.FnConstZero, cgp.FnConstOne, cgp.FnIdentity,
		cgp.FnAdd, cgp.FnSubtract, cgp.FnMultiply, cgp.FnNegate,
		cgp.FnAnd, cgp.FnOr, cgp.FnNot,
	}
}

func (x XORScape) Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	return x.EvaluateMode(ctx, brain, "gt")
}

// xorTable rows are {a, b, a xor b}.
var xorTable = [4][3]float64{
	{0, 0, 0},
	{0, 1, 1},
	{1, 0, 1},
	{1, 1, 0},
}

// xorSchedules replays table rows in a fixed order per mode. Held-out modes
// reorder and repeat rows so stateful brains cannot memorise the sequence.
var xorSchedules = map[string][]int{
	"gt":         {0, 1, 2, 3},
	"validation": {1, 2, 0, 3, 1, 2},
	"test":       {3, 2, 1, 0, 3, 0, 2, 1},
}

func (XORScape) EvaluateMode(ctx context.Context, brain evo.Brain, mode string) (Fitness, Trace, error) {
	mode = strings.TrimSpace(strings.ToLower(mode))
	if mode == "" {
		mode = "gt"
	}
	schedule, ok := xorSchedules[mode]
	if !ok {
		return 0, nil, fmt.Errorf("unsupported xor mode: %s", mode)
	}

	var sse float64
	outputs := make([]float64, len(schedule))
	for i, row := range schedule {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		a, b, want := xorTable[row][0], xorTable[row][1], xorTable[row][2]
		got, err := runStep(brain, "xor", []float64{a, b})
		if err != nil {
			return 0, nil, err
		}
		outputs[i] = got
		sse += (got - want) * (got - want)
	}

	return Fitness(1 / (sse + 1e-6)), Trace{
		"sse":         sse,
		"mse":         sse / float64(len(schedule)),
		"predictions": outputs,
		"cases":       len(schedule),
		"mode":        mode,
	}, nil
}
