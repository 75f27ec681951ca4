package scape

import (
	"context"
	"fmt"
	"math"
	"strings"

	"neurogen/internal/evo"
)

// Pole2BalancingScape balances two hinged poles of unequal length on one
// cart. The brain sees six scaled readings (cart position and velocity, then
// angle and angular velocity of each pole) and outputs a push in [-1, 1].
//
// Fitness is the surviving fraction of the step budget, weighted by how still
// the cart and long pole were kept while upright.
type Pole2BalancingScape struct{}

func (Pole2BalancingScape) Name() string { return "pole2-balancing" }
func (Pole2BalancingScape) Inputs() int  { return 6 }
func (Pole2BalancingScape) Outputs() int { return 1 }

func (p Pole2BalancingScape) Evaluate(ctx context.Context, brain evo.Brain) (Fitness, Trace, error) {
	return p.EvaluateMode(ctx, brain, "gt")
}

func (Pole2BalancingScape) EvaluateMode(ctx context.Context, brain evo.Brain, mode string) (Fitness, Trace, error) {
	ep, err := doublePoleEpisodeFor(mode)
	if err != nil {
		return 0, nil, err
	}
	brain.ResetState()
	return ep.run(ctx, func(c *doublePoleCart) (float64, error) {
		return runStep(brain, "pole2-balancing", c.observe())
	})
}

const (
	dpGravity      = 9.81
	dpCartMass     = 1.0
	dpCartFriction = 0.0005
	dpHingeFric    = 0.000002
	dpTick         = 0.01
	dpTicksPerStep = 2
	dpMaxPush      = 10.0
	dpTrackHalf    = 2.4
	dpMaxAngle     = 36 * math.Pi / 180
)

type pole struct {
	halfLength float64
	mass       float64
	angle      float64
	spin       float64
}

type doublePoleCart struct {
	x     float64
	speed float64
	poles [2]pole
}

func newDoublePoleCart(angle1, angle2 float64) *doublePoleCart {
	return &doublePoleCart{poles: [2]pole{
		{halfLength: 0.5, mass: 0.1, angle: angle1},
		{halfLength: 0.05, mass: 0.01, angle: angle2},
	}}
}

// observe scales every reading into [-1, 1].
func (c *doublePoleCart) observe() []float64 {
	return []float64{
		clamp(c.x/dpTrackHalf, -1, 1),
		clamp(c.speed/3, -1, 1),
		clamp(c.poles[0].angle/dpMaxAngle, -1, 1),
		clamp(c.poles[0].spin/5, -1, 1),
		clamp(c.poles[1].angle/dpMaxAngle, -1, 1),
		clamp(c.poles[1].spin/5, -1, 1),
	}
}

// push advances one control step under force newtons. Each tick solves the
// coupled accelerations, then updates velocities before positions.
func (c *doublePoleCart) push(force float64) {
	for tick := 0; tick < dpTicksPerStep; tick++ {
		num := force - dpCartFriction*sign(c.speed)
		den := dpCartMass
		for _, p := range c.poles {
			sin, cos := math.Sincos(p.angle)
			hinge := dpHingeFric * p.spin / (p.mass * p.halfLength)
			num += p.mass*p.halfLength*p.spin*p.spin*sin + 0.75*p.mass*cos*(hinge-dpGravity*sin)
			den += p.mass * (1 - 0.75*cos*cos)
		}
		accel := num / den

		for i := range c.poles {
			p := &c.poles[i]
			sin, cos := math.Sincos(p.angle)
			hinge := dpHingeFric * p.spin / (p.mass * p.halfLength)
			p.spin += dpTick * 0.75 / p.halfLength * (dpGravity*sin - accel*cos - hinge)
			p.angle += dpTick * p.spin
		}
		c.speed += dpTick * accel
		c.x += dpTick * c.speed
	}
}

// fallen names the first bound the cart has left, or "" while balanced.
func (c *doublePoleCart) fallen() string {
	switch {
	case math.Abs(c.x) > dpTrackHalf:
		return "cart"
	case math.Abs(c.poles[0].angle) > dpMaxAngle:
		return "pole1"
	case math.Abs(c.poles[1].angle) > dpMaxAngle:
		return "pole2"
	}
	return ""
}

// stillness is 1 at rest and decays as the cart or long pole moves.
func (c *doublePoleCart) stillness() float64 {
	long := c.poles[0]
	return 1 / (1 + math.Abs(c.x) + math.Abs(c.speed) + math.Abs(long.angle) + math.Abs(long.spin))
}

type doublePoleEpisode struct {
	mode   string
	steps  int
	angle1 float64
	angle2 float64
}

func doublePoleEpisodeFor(mode string) (doublePoleEpisode, error) {
	deg := math.Pi / 180
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "gt":
		return doublePoleEpisode{mode: "gt", steps: 1000, angle1: 4.5 * deg}, nil
	case "validation":
		return doublePoleEpisode{mode: "validation", steps: 1000, angle1: 2.4 * deg, angle2: 1.2 * deg}, nil
	case "test":
		return doublePoleEpisode{mode: "test", steps: 1000, angle1: -3 * deg, angle2: 1.5 * deg}, nil
	}
	return doublePoleEpisode{}, fmt.Errorf("unsupported pole2-balancing mode: %s", mode)
}

func (ep doublePoleEpisode) run(ctx context.Context, decide func(*doublePoleCart) (float64, error)) (Fitness, Trace, error) {
	cart := newDoublePoleCart(ep.angle1, ep.angle2)
	var (
		steps   int
		still   float64
		failure string
	)
	for steps < ep.steps && failure == "" {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		out, err := decide(cart)
		if err != nil {
			return 0, nil, err
		}
		cart.push(clamp(out, -1, 1) * dpMaxPush)
		steps++
		if failure = cart.fallen(); failure == "" {
			still += cart.stillness()
		}
	}

	stability := 0.0
	if steps > 0 {
		stability = still / float64(steps)
	}
	fitness := float64(steps) / float64(ep.steps) * (0.75 + 0.25*stability)
	return Fitness(fitness), Trace{
		"steps":        steps,
		"max_steps":    ep.steps,
		"failure":      failure,
		"goal_reached": failure == "" && steps == ep.steps,
		"stability":    stability,
		"mode":         ep.mode,
	}, nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
