package cgp

import "fmt"

// Config holds the resolved graph encoding parameters.
type Config struct {
	Rows                     int     `json:"rows"`
	Columns                  int     `json:"columns"`
	LevelsBack               int     `json:"levels_back"`
	OutputsUseLevelsBack     bool    `json:"outputs_use_levels_back"`
	ConnectionMutationChance float64 `json:"connection_mutation_chance"`
	FunctionMutationChance   float64 `json:"function_mutation_chance"`
}

func DefaultConfig() Config {
	return Config{
		Rows:                     4,
		Columns:                  16,
		LevelsBack:               4,
		OutputsUseLevelsBack:     false,
		ConnectionMutationChance: 0.05,
		FunctionMutationChance:   0.05,
	}
}

func (c Config) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("cgp rows must be > 0")
	}
	if c.Columns <= 0 {
		return fmt.Errorf("cgp columns must be > 0")
	}
	if c.LevelsBack <= 0 {
		return fmt.Errorf("cgp levels_back must be > 0")
	}
	if c.ConnectionMutationChance < 0 || c.ConnectionMutationChance > 1 {
		return fmt.Errorf("cgp connection_mutation_chance must be in [0, 1]")
	}
	if c.FunctionMutationChance < 0 || c.FunctionMutationChance > 1 {
		return fmt.Errorf("cgp function_mutation_chance must be in [0, 1]")
	}
	return nil
}
