package cne

import (
	"fmt"

	"neurogen/internal/ann"
)

// Config holds the resolved weight-vector encoding parameters.
type Config struct {
	HiddenLayers   []int             `json:"hidden_layers"`
	MutationStdDev float64           `json:"mutation_std_dev"`
	CrossoverMode  ann.CrossoverMode `json:"crossover_mode"`
	Activation     string            `json:"activation"`
	GateActivation string            `json:"gate_activation"`
}

func DefaultConfig() Config {
	return Config{
		HiddenLayers:   []int{8},
		MutationStdDev: 0.1,
		CrossoverMode:  ann.CrossoverUniform,
		Activation:     "tanh",
		GateActivation: "logistic",
	}
}

func (c Config) Validate() error {
	for i, size := range c.HiddenLayers {
		if size <= 0 {
			return fmt.Errorf("cne hidden layer %d size must be > 0", i)
		}
	}
	if c.MutationStdDev < 0 {
		return fmt.Errorf("cne mutation_std_dev must be >= 0")
	}
	if _, err := ann.ParseCrossoverMode(string(c.CrossoverMode)); err != nil {
		return err
	}
	if _, err := ann.GetActivation(c.Activation); err != nil {
		return fmt.Errorf("cne activation: %w", err)
	}
	if _, err := ann.GetActivation(c.GateActivation); err != nil {
		return fmt.Errorf("cne gate activation: %w", err)
	}
	return nil
}
