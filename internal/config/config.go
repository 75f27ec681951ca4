package config

import (
	"neurogen/internal/ann"
	"neurogen/internal/cgp"
	"neurogen/internal/cne"
	"neurogen/internal/evo"
)

// Experiment is the full configuration of one evolution run.
type Experiment struct {
	Experiment ExperimentSection `json:"experiment" yaml:"experiment" toml:"experiment"`
	CGP        CGPSection        `json:"cgp" yaml:"cgp" toml:"cgp"`
	CNE        CNESection        `json:"cne" yaml:"cne" toml:"cne"`
	Selection  SelectionSection  `json:"selection" yaml:"selection" toml:"selection"`
	Store      StoreSection      `json:"store" yaml:"store" toml:"store"`
	Log        LogSection        `json:"log" yaml:"log" toml:"log"`
}

type ExperimentSection struct {
	Name           string  `ini:"name" json:"name" yaml:"name" toml:"name"`
	Domain         string  `ini:"domain" json:"domain" yaml:"domain" toml:"domain"`
	Encoding       string  `ini:"encoding" json:"encoding" yaml:"encoding" toml:"encoding"`
	PopulationSize int     `ini:"population_size" json:"population_size" yaml:"population_size" toml:"population_size"`
	Generations    int     `ini:"generations" json:"generations" yaml:"generations" toml:"generations"`
	Seed           int64   `ini:"seed" json:"seed" yaml:"seed" toml:"seed"`
	Workers        int     `ini:"workers" json:"workers" yaml:"workers" toml:"workers"`
	FitnessGoal    float64 `ini:"fitness_goal" json:"fitness_goal" yaml:"fitness_goal" toml:"fitness_goal"`
	StopAtGoal     bool    `ini:"stop_at_goal" json:"stop_at_goal" yaml:"stop_at_goal" toml:"stop_at_goal"`
	EvaluationMode string  `ini:"evaluation_mode" json:"evaluation_mode" yaml:"evaluation_mode" toml:"evaluation_mode"`
	Postprocessor  string  `ini:"fitness_postprocessor" json:"fitness_postprocessor" yaml:"fitness_postprocessor" toml:"fitness_postprocessor"`
}

type CGPSection struct {
	Rows                     int      `ini:"rows" json:"rows" yaml:"rows" toml:"rows"`
	Columns                  int      `ini:"columns" json:"columns" yaml:"columns" toml:"columns"`
	LevelsBack               int      `ini:"levels_back" json:"levels_back" yaml:"levels_back" toml:"levels_back"`
	OutputsUseLevelsBack     bool     `ini:"outputs_use_levels_back" json:"outputs_use_levels_back" yaml:"outputs_use_levels_back" toml:"outputs_use_levels_back"`
	ConnectionMutationChance float64  `ini:"connection_mutation_chance" json:"connection_mutation_chance" yaml:"connection_mutation_chance" toml:"connection_mutation_chance"`
	FunctionMutationChance   float64  `ini:"function_mutation_chance" json:"function_mutation_chance" yaml:"function_mutation_chance" toml:"function_mutation_chance"`
	Functions                []string `ini:"functions" delim:"," json:"functions,omitempty" yaml:"functions,omitempty" toml:"functions,omitempty"`
}

type CNESection struct {
	HiddenLayers   []int   `ini:"hidden_layers" delim:"," json:"hidden_layers" yaml:"hidden_layers" toml:"hidden_layers"`
	MutationStdDev float64 `ini:"mutation_std_dev" json:"mutation_std_dev" yaml:"mutation_std_dev" toml:"mutation_std_dev"`
	CrossoverMode  string  `ini:"crossover_mode" json:"crossover_mode" yaml:"crossover_mode" toml:"crossover_mode"`
	Activation     string  `ini:"activation" json:"activation" yaml:"activation" toml:"activation"`
	GateActivation string  `ini:"gate_activation" json:"gate_activation" yaml:"gate_activation" toml:"gate_activation"`
}

type SelectionSection struct {
	ElitePercentage     float64 `ini:"elite_percentage" json:"elite_percentage" yaml:"elite_percentage" toml:"elite_percentage"`
	EliteMinFitness     float64 `ini:"elite_min_fitness" json:"elite_min_fitness" yaml:"elite_min_fitness" toml:"elite_min_fitness"`
	EliteMutationChance float64 `ini:"elite_mutation_chance" json:"elite_mutation_chance" yaml:"elite_mutation_chance" toml:"elite_mutation_chance"`
	ParentSelection     string  `ini:"parent_selection" json:"parent_selection" yaml:"parent_selection" toml:"parent_selection"`
	TournamentSize      int     `ini:"tournament_size" json:"tournament_size" yaml:"tournament_size" toml:"tournament_size"`
}

type StoreSection struct {
	Kind string `ini:"kind" json:"kind" yaml:"kind" toml:"kind"`
	Path string `ini:"path" json:"path" yaml:"path" toml:"path"`
}

type LogSection struct {
	Level  string `ini:"level" json:"level" yaml:"level" toml:"level"`
	Format string `ini:"format" json:"format" yaml:"format" toml:"format"`
}

// Default returns an experiment with every value at its documented default.
func Default() Experiment {
	cgpDefaults := cgp.DefaultConfig()
	cneDefaults := cne.DefaultConfig()
	selection := evo.DefaultTruncationConfig()
	return Experiment{
		Experiment: ExperimentSection{
			Name:           "neurogen",
			Domain:         "xor",
			Encoding:       "cgp",
			PopulationSize: 100,
			Generations:    50,
			Seed:           1,
			Workers:        4,
			EvaluationMode: "gt",
			Postprocessor:  "none",
		},
		CGP: CGPSection{
			Rows:                     cgpDefaults.Rows,
			Columns:                  cgpDefaults.Columns,
			LevelsBack:               cgpDefaults.LevelsBack,
			OutputsUseLevelsBack:     cgpDefaults.OutputsUseLevelsBack,
			ConnectionMutationChance: cgpDefaults.ConnectionMutationChance,
			FunctionMutationChance:   cgpDefaults.FunctionMutationChance,
		},
		CNE: CNESection{
			HiddenLayers:   cneDefaults.HiddenLayers,
			MutationStdDev: cneDefaults.MutationStdDev,
			CrossoverMode:  string(cneDefaults.CrossoverMode),
			Activation:     cneDefaults.Activation,
			GateActivation: cneDefaults.GateActivation,
		},
		Selection: SelectionSection{
			ElitePercentage:     selection.ElitePercentage,
			EliteMinFitness:     selection.EliteMinFitness,
			EliteMutationChance: selection.EliteMutationChance,
			ParentSelection:     "rank",
			TournamentSize:      3,
		},
		// Store is left empty so callers keep their own default backend.
		Store: StoreSection{},
		Log:   LogSection{Level: "info", Format: "text"},
	}
}

// CGPConfig resolves the graph encoding parameters.
func (e Experiment) CGPConfig() cgp.Config {
	return cgp.Config{
		Rows:                     e.CGP.Rows,
		Columns:                  e.CGP.Columns,
		LevelsBack:               e.CGP.LevelsBack,
		OutputsUseLevelsBack:     e.CGP.OutputsUseLevelsBack,
		ConnectionMutationChance: e.CGP.ConnectionMutationChance,
		FunctionMutationChance:   e.CGP.FunctionMutationChance,
	}
}

func (e Experiment) CNEConfig() cne.Config {
	return cne.Config{
		HiddenLayers:   append([]int(nil), e.CNE.HiddenLayers...),
		MutationStdDev: e.CNE.MutationStdDev,
		CrossoverMode:  ann.CrossoverMode(e.CNE.CrossoverMode),
		Activation:     e.CNE.Activation,
		GateActivation: e.CNE.GateActivation,
	}
}

func (e Experiment) TruncationConfig() evo.TruncationConfig {
	return evo.TruncationConfig{
		ElitePercentage:     e.Selection.ElitePercentage,
		EliteMinFitness:     e.Selection.EliteMinFitness,
		EliteMutationChance: e.Selection.EliteMutationChance,
	}
}
