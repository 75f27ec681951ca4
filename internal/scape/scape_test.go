package scape

import (
	"context"
	"errors"
	"math"
	"testing"
)

// funcBrain is a stateless brain backed by a function.
type funcBrain struct {
	fn     func([]float64) []float64
	resets int
}

func (b *funcBrain) Evaluate(in []float64) []float64 { return b.fn(in) }
func (b *funcBrain) ResetState()                     { b.resets++ }

func constantBrain(v float64) *funcBrain {
	return &funcBrain{fn: func([]float64) []float64 { return []float64{v} }}
}

// delayBrain echoes the previous input until reset.
type delayBrain struct {
	prev float64
}

func (b *delayBrain) Evaluate(in []float64) []float64 {
	out := b.prev
	b.prev = in[0]
	return []float64{out}
}

func (b *delayBrain) ResetState() { b.prev = 0 }

func TestByNameResolvesBuiltIns(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("expected 5 built-in scapes, got %v", names)
	}
	for _, name := range names {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("by name %s: %v", name, err)
		}
		if s.Name() != name || s.Inputs() <= 0 || s.Outputs() <= 0 {
			t.Fatalf("unexpected scape %s inputs=%d outputs=%d", s.Name(), s.Inputs(), s.Outputs())
		}
	}
	if _, err := ByName("flatland"); err == nil {
		t.Fatal("expected unknown scape error")
	}
}

func TestEvaluatorReportsNonFiniteFitnessAsZero(t *testing.T) {
	eval := Evaluator(XORScape{}, "")
	fitness, err := eval.Evaluate(context.Background(), constantBrain(math.NaN()))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fitness != 0 {
		t.Fatalf("expected 0 fitness for NaN outputs, got %f", fitness)
	}
}

func TestEvaluatorRoutesMode(t *testing.T) {
	if _, err := Evaluator(XORScape{}, "bogus").Evaluate(context.Background(), constantBrain(0)); err == nil {
		t.Fatal("expected unsupported mode error")
	}
	// regression-mimic is not mode aware and ignores the mode
	if _, err := Evaluator(RegressionMimicScape{}, "bogus").Evaluate(context.Background(), constantBrain(0)); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
}

func TestEvaluatorRejectsWrongOutputArity(t *testing.T) {
	brain := &funcBrain{fn: func([]float64) []float64 { return []float64{0, 1} }}
	if _, err := Evaluator(CartPoleLiteScape{}, "").Evaluate(context.Background(), brain); err == nil {
		t.Fatal("expected output arity error")
	}
}

func TestEvaluateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range Names() {
		s, _ := ByName(name)
		brain := &funcBrain{fn: func(in []float64) []float64 { return make([]float64, s.Outputs()) }}
		if _, _, err := s.Evaluate(ctx, brain); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", name, err)
		}
	}
}
