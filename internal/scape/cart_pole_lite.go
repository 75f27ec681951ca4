package scape

import (
	"context"
	"fmt"
	"math"
	"strings"

	"neurogen/internal/evo"
)

// CartPoleLiteScape is a one-dimensional stand-in for pole balancing: a cart
// on an unstable track drifts away from the centre unless pushed back. The
// brain sees position and velocity and outputs a push in [-1, 1].
//
// Each trial scores 1 at the centre falling to 0 at the track edge. Leaving
// the track ends the trial and forfeits its remaining steps.
type CartPoleLiteScape struct{}

func (CartPoleLiteScape) Name() string { return "cart-pole-lite" }
func (CartPoleLiteScape) Inputs() int  { return 2 }
func (CartPoleLiteScape) Outputs() int { return 1 }

func (c CartPoleLiteScape) Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	return c.EvaluateMode(ctx, brain, "gt")
}

func (CartPoleLiteScape) EvaluateMode(ctx context.Context, brain evo.Brain, mode string) (Fitness, Trace, error) {
	trials, err := cartLiteTrialsFor(mode)
	if err != nil {
		return 0, nil, err
	}
	return trials.run(ctx, brain)
}

const (
	cartLiteTick    = 0.05
	cartLiteDrift   = 0.8
	cartLiteDrag    = 0.2
	cartLiteThrust  = 2.0
	cartLiteTrackUp = 2.0
)

type cartLiteTrials struct {
	mode    string
	starts  []float64
	horizon int
}

func cartLiteTrialsFor(mode string) (cartLiteTrials, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "gt":
		return cartLiteTrials{mode: "gt", starts: []float64{-0.8, -0.4, 0, 0.4, 0.8}, horizon: 80}, nil
	case "validation":
		return cartLiteTrials{mode: "validation", starts: []float64{-1, -0.5, 0.5, 1}, horizon: 64}, nil
	case "test":
		return cartLiteTrials{mode: "test", starts: []float64{-1.2, -0.6, 0, 0.6, 1.2}, horizon: 64}, nil
	}
	return cartLiteTrials{}, fmt.Errorf("unsupported cart-pole-lite mode: %s", mode)
}

// run resets the brain before every trial so recurrent state never leaks
// between start positions.
func (tr cartLiteTrials) run(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	var (
		score   float64
		steps   int
		escaped int
	)
	for _, start := range tr.starts {
		brain.ResetState()
		x, v := start, 0.0
		for k := 0; k < tr.horizon; k++ {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}
			push, err := runStep(brain, "cart-pole-lite", []float64{x, v})
			if err != nil {
				return 0, nil, err
			}
			x, v = cartLiteAdvance(x, v, push)
			steps++
			if math.Abs(x) > cartLiteTrackUp {
				escaped++
				break
			}
			score += 1 - math.Abs(x)/cartLiteTrackUp
		}
	}

	budget := len(tr.starts) * tr.horizon
	mean := 0.0
	if budget > 0 {
		mean = score / float64(budget)
	}
	return Fitness(mean), Trace{
		"mean_reward": mean,
		"steps":       steps,
		"escaped":     escaped,
		"trials":      len(tr.starts),
		"horizon":     tr.horizon,
		"mode":        tr.mode,
	}, nil
}

// cartLiteAdvance applies one tick. The centre is an unstable equilibrium.
func cartLiteAdvance(x, v, push float64) (float64, float64) {
	accel := cartLiteDrift*x + cartLiteThrust*clamp(push, -1, 1) - cartLiteDrag*v
	v += cartLiteTick * accel
	return x + cartLiteTick*v, v
}
