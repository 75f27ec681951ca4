package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"neurogen/internal/config"
	"neurogen/internal/format"
	"neurogen/internal/logging"
	"neurogen/pkg/neurogen"
)

type evolveFlags struct {
	configPath  string
	runID       string
	domain      string
	encoding    string
	population  int
	generations int
	seed        int64
	workers     int
	mode        string
}

func newEvolveCmd(g *globalFlags) *cobra.Command {
	flags := &evolveFlags{}
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolve a population on a domain",
		Long: `Evolve loads an experiment file (ini, yaml or toml) over the built-in
defaults, applies command line overrides and runs it to completion. The
champion of every generation is saved to the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvolve(cmd, g, flags)
		},
	}

	bindExperimentFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.runID, "run-id", "", "Explicit run id (default: random uuid)")
	return cmd
}

func bindExperimentFlags(cmd *cobra.Command, flags *evolveFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Experiment file (.ini, .yaml, .toml)")
	f.StringVar(&flags.domain, "domain", "", "Domain name, see 'neurogenctl domains'")
	f.StringVar(&flags.encoding, "encoding", "", "Encoding (cgp, cne.feedforward, cne.lstm, cne.lstm_lite)")
	f.IntVar(&flags.population, "population", 0, "Population size")
	f.IntVar(&flags.generations, "generations", 0, "Generation count")
	f.Int64Var(&flags.seed, "seed", 0, "Random seed")
	f.IntVar(&flags.workers, "workers", 0, "Parallel evaluation workers")
	f.StringVar(&flags.mode, "mode", "", "Evaluation mode (gt, validation, test)")
}

// loadExperiment resolves defaults, the optional experiment file and the
// command line overrides, in that order.
func loadExperiment(cmd *cobra.Command, g *globalFlags, flags *evolveFlags) (config.Experiment, error) {
	exp := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return config.Experiment{}, err
		}
		exp = loaded
		if err := g.applyExperiment(cmd, exp); err != nil {
			return config.Experiment{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("domain") {
		exp.Experiment.Domain = flags.domain
	}
	if f.Changed("encoding") {
		exp.Experiment.Encoding = flags.encoding
	}
	if f.Changed("population") {
		exp.Experiment.PopulationSize = flags.population
	}
	if f.Changed("generations") {
		exp.Experiment.Generations = flags.generations
	}
	if f.Changed("seed") {
		exp.Experiment.Seed = flags.seed
	}
	if f.Changed("workers") {
		exp.Experiment.Workers = flags.workers
	}
	if f.Changed("mode") {
		exp.Experiment.EvaluationMode = flags.mode
	}
	return exp, nil
}

func runEvolve(cmd *cobra.Command, g *globalFlags, flags *evolveFlags) (err error) {
	exp, err := loadExperiment(cmd, g, flags)
	if err != nil {
		return err
	}

	client, err := g.client()
	if err != nil {
		return err
	}
	defer closeClient(client, &err)

	result, err := client.Run(cmd.Context(), neurogen.RunRequest{Experiment: exp, RunID: flags.runID})
	if err != nil {
		return err
	}
	s := result.Summary
	out := cmd.OutOrStdout()
	if g.output != "json" {
		fmt.Fprintf(out, "run:       %s\n", s.ID)
		fmt.Fprintf(out, "domain:    %s\n", s.Domain)
		fmt.Fprintf(out, "encoding:  %s\n", s.Encoding)
		fmt.Fprintf(out, "best:      %.6f\n", s.BestFitness)
		fmt.Fprintf(out, "champion:  %s\n", s.ChampionID)
		if s.GoalReached {
			fmt.Fprintf(out, "goal:      reached at generation %d\n", len(s.Diagnostics)-1)
		}
	}
	return g.render(out, s, func(m format.Mode) string {
		return format.Diagnostics(m, s.Diagnostics)
	})
}

// applyExperiment lets the experiment file's store and log sections stand
// in for global flags that were not set on the command line. A file without
// a store kind keeps the build's default backend.
func (g *globalFlags) applyExperiment(cmd *cobra.Command, exp config.Experiment) error {
	root := cmd.Root().PersistentFlags()
	if !root.Changed("store") && exp.Store.Kind != "" {
		g.store = exp.Store.Kind
	}
	if !root.Changed("db") && exp.Store.Path != "" {
		g.dbPath = exp.Store.Path
	}
	if !root.Changed("log-level") {
		g.logLevel = exp.Log.Level
	}
	if !root.Changed("log-format") {
		g.logFormat = exp.Log.Format
	}
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return err
	}
	logging.Init(level, g.logFormat, cmd.ErrOrStderr())
	return nil
}
