package scape

import (
	"context"
	"fmt"
	"math"
	"sort"

	"neurogen/internal/evo"
)

type Fitness float64

type Trace map[string]any

// Scape is a task domain: it fixes the brain arity and scores a brain.
type Scape interface {
	evo.Domain
	Name() string
	Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error)
}

// ModeAwareScape optionally exposes evaluation mode routing for gt/validation/test flows.
type ModeAwareScape interface {
	Scape
	EvaluateMode(ctx context.Context, brain evo.Brain, mode string) (Fitness, Trace, error)
}

func builtIn() []Scape {
	return []Scape{
		XORScape{},
		CartPoleLiteScape{},
		Pole2BalancingScape{},
		RegressionMimicScape{},
		SequenceRecallScape{},
	}
}

// ByName resolves a built-in domain by name or alias.
func ByName(name string) (Scape, error) {
	name = Normalize(name)
	for _, s := range builtIn() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown scape: %s", name)
}

func Names() []string {
	scapes := builtIn()
	names := make([]string, 0, len(scapes))
	for _, s := range scapes {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Evaluator adapts a scape to the population monitor. Mode is ignored by
// scapes that are not mode aware. Non-finite fitness is reported as 0.
func Evaluator(s Scape, mode string) evo.Evaluator {
	return scapeEvaluator{scape: s, mode: mode}
}

type scapeEvaluator struct {
	scape Scape
	mode  string
}

func (e scapeEvaluator) Evaluate(ctx context.Context, brain evo.Brain) (float64, error) {
	fitness, _, err := EvaluateMode(ctx, e.scape, brain, e.mode)
	if err != nil {
		return 0, err
	}
	return float64(fitness), nil
}

// EvaluateMode runs one evaluation, routing the mode when the scape supports it.
func EvaluateMode(ctx context.Context, s Scape, brain evo.Brain, mode string) (Fitness, Trace, error) {
	var (
		fitness Fitness
		trace   Trace
		err     error
	)
	if aware, ok := s.(ModeAwareScape); ok && mode != "" {
		fitness, trace, err = aware.EvaluateMode(ctx, brain, mode)
	} else {
		fitness, trace, err = s.Evaluate(ctx, brain)
	}
	if err != nil {
		return 0, nil, err
	}
	if math.IsNaN(float64(fitness)) || math.IsInf(float64(fitness), 0) {
		fitness = 0
	}
	return fitness, trace, nil
}

func runStep(brain evo.Brain, name string, in []float64) (float64, error) {
	out := brain.Evaluate(in)
	if len(out) != 1 {
		return 0, fmt.Errorf("%s requires one output, got %d", name, len(out))
	}
	return out[0], nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
