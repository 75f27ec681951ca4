package scape

import (
	"context"
	"fmt"
	"strings"

	"neurogen/internal/cgp"
	"neurogen/internal/evo"
)

// SequenceRecallScape is a memory task: at every step the brain must output
// the value it was shown on the previous step. Only recurrent brains can
// solve it.
type SequenceRecallScape struct{}

func (SequenceRecallScape) Name() string {
	return "sequence-recall"
}

func (SequenceRecallScape) Inputs() int  { return 1 }
func (SequenceRecallScape) Outputs() int { return 1 }

func (SequenceRecallScape) AvailableFunctions() []cgp.FunctionID {
	return []cgp.FunctionID{
		cgp.FnConstZero,
		cgp.FnIdentity,
		cgp.FnAdd,
		cgp.FnSubtract,
		cgp.FnMultiply,
		cgp.FnNegate,
		cgp.FnMin,
		cgp.FnMax,
		cgp.FnClamp,
	}
}

func (SequenceRecallScape) Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	return SequenceRecallScape{}.EvaluateMode(ctx, brain, "gt")
}

func (SequenceRecallScape) EvaluateMode(ctx context.Context, brain evo.Brain, mode string) (Fitness, Trace, error) {
	mode = strings.TrimSpace(strings.ToLower(mode))
	if mode == "" {
		mode = "gt"
	}
	sequences, err := recallSequencesForMode(mode)
	if err != nil {
		return 0, nil, err
	}

	var squaredErr float64
	scored := 0
	for _, seq := range sequences {
		brain.ResetState()
		for i, x := range seq {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}
			out, err := runStep(brain, "sequence-recall", []float64{x})
			if err != nil {
				return 0, nil, err
			}
			// the first step has nothing to recall
			if i == 0 {
				continue
			}
			delta := out - seq[i-1]
			squaredErr += delta * delta
			scored++
		}
	}

	mse := squaredErr / float64(scored)
	return Fitness(1.0 / (1.0 + mse)), Trace{
		"mse":       mse,
		"sequences": len(sequences),
		"steps":     scored,
		"mode":      mode,
	}, nil
}

func recallSequencesForMode(mode string) ([][]float64, error) {
	switch mode {
	case "gt":
		return [][]float64{
			{0.5, -0.5, 1, 0, -1, 0.25},
			{-1, -1, 1, 1, 0, 0.75},
			{0, 0.5, 0.5, -0.25, 1, -1},
		}, nil
	case "validation":
		return [][]float64{
			{1, 0, -0.5, 0.5, 0.25, -0.75},
		}, nil
	case "test":
		return [][]float64{
			{-0.5, 1, 1, -1, 0.5, 0, -0.25, 0.75},
			{0.25, 0.25, -0.75, 1, -1, 0.5},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported sequence-recall mode: %s", mode)
	}
}
