package evo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Evaluator computes the fitness of a freshly grown brain. Implementations
// must not share mutable state between concurrent calls.
type Evaluator interface {
	Evaluate(ctx context.Context, brain Brain) (float64, error)
}

// GenerationReport is handed to MonitorConfig.OnGeneration after a
// generation has been scored and ranked.
type GenerationReport struct {
	Diagnostics     GenerationDiagnostics
	Champion        Genotype
	ChampionFitness float64
	Population      *Population
}

type RunResult struct {
	BestByGeneration      []float64
	GenerationDiagnostics []GenerationDiagnostics
	Champion              Genotype
	ChampionFitness       float64
	FinalPopulation       *Population
	GoalReached           bool
}

type MonitorConfig struct {
	Evaluator     Evaluator
	Selection     SelectionAlgorithm
	Postprocessor FitnessPostprocessor
	Generations   int
	Workers       int
	Seed          int64
	FitnessGoal   float64
	StopAtGoal    bool
	OnGeneration  func(ctx context.Context, report GenerationReport) error
	Logger        *slog.Logger
}

// PopulationMonitor drives the generational loop: evaluate, rank, select,
// build the next population.
type PopulationMonitor struct {
	cfg    MonitorConfig
	rng    *rand.Rand
	logger *slog.Logger
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if cfg.Selection == nil {
		return nil, fmt.Errorf("selection algorithm is required")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Postprocessor == nil {
		cfg.Postprocessor = NoopFitnessPostprocessor{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PopulationMonitor{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
	}, nil
}

// Run evolves a seeded population for the configured number of generations.
func (m *PopulationMonitor) Run(ctx context.Context, initial *Population) (RunResult, error) {
	if initial == nil {
		return RunResult{}, fmt.Errorf("initial population is required")
	}

	population := initial
	result := RunResult{
		BestByGeneration:      make([]float64, 0, m.cfg.Generations),
		GenerationDiagnostics: make([]GenerationDiagnostics, 0, m.cfg.Generations),
	}

	for gen := 0; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		if err := m.evaluatePopulation(ctx, population); err != nil {
			return RunResult{}, fmt.Errorf("evaluate generation %d: %w", population.Generation(), err)
		}
		ranked, err := population.Ranked()
		if err != nil {
			return RunResult{}, err
		}

		diag := Summarize(population.Generation(), ranked)
		if counter, ok := m.cfg.Selection.(interface {
			EliteCount([]ScoredGenotype) int
		}); ok {
			diag.EliteCount = counter.EliteCount(ranked)
		}
		result.BestByGeneration = append(result.BestByGeneration, diag.BestFitness)
		result.GenerationDiagnostics = append(result.GenerationDiagnostics, diag)
		if result.Champion == nil || ranked[0].Fitness > result.ChampionFitness {
			result.Champion = ranked[0].Genotype
			result.ChampionFitness = ranked[0].Fitness
		}
		result.FinalPopulation = population

		m.logger.Info("generation evaluated",
			"generation", diag.Generation,
			"best", diag.BestFitness,
			"mean", diag.MeanFitness,
			"stddev", diag.StdDevFitness,
			"elites", diag.EliteCount,
		)

		if m.cfg.OnGeneration != nil {
			report := GenerationReport{
				Diagnostics:     diag,
				Champion:        ranked[0].Genotype,
				ChampionFitness: ranked[0].Fitness,
				Population:      population,
			}
			if err := m.cfg.OnGeneration(ctx, report); err != nil {
				return RunResult{}, err
			}
		}

		if m.cfg.StopAtGoal && diag.BestFitness >= m.cfg.FitnessGoal {
			result.GoalReached = true
			break
		}
		if gen == m.cfg.Generations-1 {
			break
		}

		next := NewGenerationFactory(population.Encoding(), population.Size(), population.Generation()+1)
		if err := m.cfg.Selection.CreateNextGeneration(m.rng, population, next); err != nil {
			return RunResult{}, fmt.Errorf("select generation %d: %w", population.Generation(), err)
		}
		population, err = next.Build(ctx, m.cfg.Workers)
		if err != nil {
			return RunResult{}, fmt.Errorf("build generation %d: %w", next.Generation(), err)
		}
	}

	return result, nil
}

func (m *PopulationMonitor) evaluatePopulation(ctx context.Context, population *Population) error {
	raw := make([]ScoredGenotype, population.Size())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)
	for i := 0; i < population.Size(); i++ {
		i := i
		g.Go(func() error {
			genotype := population.Genotype(i)
			brain := genotype.Grow()
			brain.ResetState()
			fitness, err := m.cfg.Evaluator.Evaluate(gctx, brain)
			if err != nil {
				return fmt.Errorf("slot %d: %w", i, err)
			}
			raw[i] = ScoredGenotype{Index: i, Genotype: genotype, Fitness: fitness}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, scored := range m.cfg.Postprocessor.Process(raw) {
		if err := population.SetFitness(scored.Index, scored.Fitness); err != nil {
			return err
		}
	}
	return nil
}
