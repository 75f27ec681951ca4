package scape

import (
	"context"
	"testing"
)

func TestSequenceRecallRewardsMemory(t *testing.T) {
	fitness, trace, err := SequenceRecallScape{}.Evaluate(context.Background(), &delayBrain{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fitness != 1 {
		t.Fatalf("expected perfect recall fitness 1, got %f (%+v)", fitness, trace)
	}
	if trace["mode"] != "gt" || trace["steps"].(int) != 15 {
		t.Fatalf("unexpected trace %+v", trace)
	}

	echo := &funcBrain{fn: func(in []float64) []float64 { return []float64{in[0]} }}
	echoFitness, _, err := SequenceRecallScape{}.Evaluate(context.Background(), echo)
	if err != nil {
		t.Fatalf("evaluate echo: %v", err)
	}
	if echoFitness >= 1 {
		t.Fatalf("expected stateless echo to miss, got %f", echoFitness)
	}
	if echo.resets != 3 {
		t.Fatalf("expected one reset per sequence, got %d", echo.resets)
	}
}

func TestSequenceRecallModes(t *testing.T) {
	for _, mode := range []string{"", "validation", "TEST"} {
		fitness, _, err := SequenceRecallScape{}.EvaluateMode(context.Background(), &delayBrain{}, mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		if fitness != 1 {
			t.Fatalf("mode %q: expected perfect recall, got %f", mode, fitness)
		}
	}
	if _, _, err := (SequenceRecallScape{}).EvaluateMode(context.Background(), &delayBrain{}, "bogus"); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}
