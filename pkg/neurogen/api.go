package neurogen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"neurogen/internal/cgp"
	"neurogen/internal/cne"
	"neurogen/internal/config"
	"neurogen/internal/evo"
	"neurogen/internal/logging"
	"neurogen/internal/model"
	"neurogen/internal/scape"
	"neurogen/internal/stats"
	"neurogen/internal/storage"
)

// ErrNotFound is returned when a run or genotype id is unknown to the store.
var ErrNotFound = errors.New("not found")

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *slog.Logger
}

// Client runs experiments and reads back what they persisted.
type Client struct {
	store  storage.Store
	logger *slog.Logger

	initOnce sync.Once
	initErr  error
}

type RunRequest struct {
	Experiment config.Experiment
	// RunID overrides the generated run id.
	RunID string
}

type RunResult struct {
	Summary          model.RunSummary
	BestByGeneration []float64
	Champion         evo.Genotype
}

type EvaluateRequest struct {
	GenotypeID string
	// Mode selects gt, validation or test data on domains that support it.
	Mode string
}

type EvaluateResult struct {
	Record  model.GenotypeRecord
	Fitness float64
	Trace   scape.Trace
}

func New(opts Options) (*Client, error) {
	store, err := storage.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("neurogen")
	}
	return &Client{store: store, logger: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureInit(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Domains lists the built-in task domains.
func Domains() []string {
	return scape.Names()
}

// Encodings lists the genotype encodings an experiment may name.
func Encodings() []string {
	return []string{
		config.EncodingCGP,
		"cne." + string(cne.KindFeedforward),
		"cne." + string(cne.KindLSTM),
		"cne." + string(cne.KindLSTMLite),
	}
}

// BuildEncoding resolves the experiment's domain and genotype encoding.
func BuildEncoding(exp config.Experiment) (evo.Encoding, scape.Scape, error) {
	s, err := scape.ByName(exp.Experiment.Domain)
	if err != nil {
		return nil, nil, err
	}
	family, kind, err := config.SplitEncoding(exp.Experiment.Encoding)
	if err != nil {
		return nil, nil, err
	}
	if family != config.EncodingCGP {
		enc, err := cne.NewPopulation(kind, exp.CNEConfig(), s)
		if err != nil {
			return nil, nil, err
		}
		return enc, s, nil
	}

	var domain evo.Domain = s
	if len(exp.CGP.Functions) > 0 {
		functions, err := cgp.ParseFunctions(exp.CGP.Functions)
		if err != nil {
			return nil, nil, err
		}
		domain = catalogDomain{Domain: s, functions: functions}
	}
	enc, err := cgp.NewPopulation(exp.CGPConfig(), domain)
	if err != nil {
		return nil, nil, err
	}
	return enc, s, nil
}

// catalogDomain replaces a domain's primitive catalogue with the configured one.
type catalogDomain struct {
	evo.Domain
	functions []cgp.FunctionID
}

func (d catalogDomain) AvailableFunctions() []cgp.FunctionID {
	return append([]cgp.FunctionID(nil), d.functions...)
}

// Run evolves one experiment. The champion of every generation is saved,
// and the run summary is written before the first generation and again
// when the run ends, including runs that fail or are cancelled.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	exp := req.Experiment
	if err := exp.Validate(); err != nil {
		return RunResult{}, err
	}
	if err := c.ensureInit(ctx); err != nil {
		return RunResult{}, err
	}

	encoding, domain, err := BuildEncoding(exp)
	if err != nil {
		return RunResult{}, err
	}
	parents, err := evo.ParentSelectorByName(exp.Selection.ParentSelection, exp.Selection.TournamentSize)
	if err != nil {
		return RunResult{}, err
	}
	selection, err := evo.NewTruncationSelection(exp.TruncationConfig(), parents, c.logger.With("component", "selection"))
	if err != nil {
		return RunResult{}, err
	}
	postprocessor, err := evo.FitnessPostprocessorByName(exp.Experiment.Postprocessor)
	if err != nil {
		return RunResult{}, err
	}
	snapshot, err := json.Marshal(exp)
	if err != nil {
		return RunResult{}, fmt.Errorf("encode config snapshot: %w", err)
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := model.RunSummary{
		VersionedRecord: storage.Versioned(),
		ID:              runID,
		Domain:          domain.Name(),
		Encoding:        encoding.Name(),
		PopulationSize:  exp.Experiment.PopulationSize,
		Generations:     exp.Experiment.Generations,
		Seed:            exp.Experiment.Seed,
		Config:          snapshot,
		StartedAt:       time.Now().UTC(),
	}
	if err := c.store.SaveRunSummary(ctx, summary); err != nil {
		return RunResult{}, err
	}

	logger := c.logger.With("run_id", runID)
	logger.Info("run started",
		"domain", summary.Domain,
		"encoding", summary.Encoding,
		"population", summary.PopulationSize,
		"generations", summary.Generations,
	)

	population, err := evo.NewPopulation(encoding, exp.Experiment.PopulationSize)
	if err != nil {
		return RunResult{}, err
	}
	population.CreatePrimordialGeneration(rand.New(rand.NewSource(exp.Experiment.Seed)))

	onGeneration := func(ctx context.Context, report evo.GenerationReport) error {
		data, err := report.Champion.Save()
		if err != nil {
			return fmt.Errorf("save champion: %w", err)
		}
		record := model.GenotypeRecord{
			VersionedRecord: storage.Versioned(),
			ID:              uuid.NewString(),
			RunID:           runID,
			Encoding:        summary.Encoding,
			Domain:          summary.Domain,
			Generation:      report.Diagnostics.Generation,
			Fitness:         report.ChampionFitness,
			Genotype:        data,
			CreatedAt:       time.Now().UTC(),
		}
		if err := c.store.SaveGenotype(ctx, record); err != nil {
			return err
		}
		if summary.ChampionID == "" || report.ChampionFitness > summary.BestFitness {
			summary.ChampionID = record.ID
			summary.BestFitness = report.ChampionFitness
		}
		summary.Diagnostics = append(summary.Diagnostics, toModelDiagnostics(report.Diagnostics))
		return nil
	}

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Evaluator:     scape.Evaluator(domain, exp.Experiment.EvaluationMode),
		Selection:     selection,
		Postprocessor: postprocessor,
		Generations:   exp.Experiment.Generations,
		Workers:       exp.Experiment.Workers,
		Seed:          exp.Experiment.Seed,
		FitnessGoal:   exp.Experiment.FitnessGoal,
		StopAtGoal:    exp.Experiment.StopAtGoal,
		OnGeneration:  onGeneration,
		Logger:        c.logger.With("component", "monitor", "run_id", runID),
	})
	if err != nil {
		return RunResult{}, err
	}

	result, runErr := monitor.Run(ctx, population)
	summary.GoalReached = runErr == nil && result.GoalReached
	summary.FinishedAt = time.Now().UTC()
	// the caller's context may already be cancelled; the summary still goes out
	if err := c.store.SaveRunSummary(context.WithoutCancel(ctx), summary); err != nil {
		return RunResult{}, errors.Join(runErr, err)
	}
	if runErr != nil {
		logger.Warn("run aborted", "generations", len(summary.Diagnostics), "error", runErr)
		return RunResult{Summary: summary}, runErr
	}

	logger.Info("run finished",
		"best", summary.BestFitness,
		"champion", summary.ChampionID,
		"goal_reached", summary.GoalReached,
	)
	return RunResult{
		Summary:          summary,
		BestByGeneration: result.BestByGeneration,
		Champion:         result.Champion,
	}, nil
}

func toModelDiagnostics(d evo.GenerationDiagnostics) model.GenerationDiagnostics {
	return model.GenerationDiagnostics{
		Generation:    d.Generation,
		BestFitness:   d.BestFitness,
		MeanFitness:   d.MeanFitness,
		StdDevFitness: d.StdDevFitness,
		MinFitness:    d.MinFitness,
		EliteCount:    d.EliteCount,
	}
}

func (c *Client) Runs(ctx context.Context) ([]model.RunSummary, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRunSummaries(ctx)
}

func (c *Client) RunSummary(ctx context.Context, runID string) (model.RunSummary, error) {
	if err := c.ensureInit(ctx); err != nil {
		return model.RunSummary{}, err
	}
	summary, ok, err := c.store.GetRunSummary(ctx, runID)
	if err != nil {
		return model.RunSummary{}, err
	}
	if !ok {
		return model.RunSummary{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return summary, nil
}

// Genotypes lists the champions saved by a run, oldest generation first.
func (c *Client) Genotypes(ctx context.Context, runID string) ([]model.GenotypeRecord, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	return c.store.ListGenotypes(ctx, runID)
}

func (c *Client) Genotype(ctx context.Context, id string) (model.GenotypeRecord, error) {
	if err := c.ensureInit(ctx); err != nil {
		return model.GenotypeRecord{}, err
	}
	record, ok, err := c.store.GetGenotype(ctx, id)
	if err != nil {
		return model.GenotypeRecord{}, err
	}
	if !ok {
		return model.GenotypeRecord{}, fmt.Errorf("genotype %s: %w", id, ErrNotFound)
	}
	return record, nil
}

// LoadGenotype rebuilds a saved genotype using the configuration snapshot
// of the run that produced it.
func (c *Client) LoadGenotype(ctx context.Context, id string) (evo.Genotype, scape.Scape, model.GenotypeRecord, error) {
	record, err := c.Genotype(ctx, id)
	if err != nil {
		return nil, nil, model.GenotypeRecord{}, err
	}
	summary, err := c.RunSummary(ctx, record.RunID)
	if err != nil {
		return nil, nil, model.GenotypeRecord{}, err
	}

	exp := config.Default()
	if len(summary.Config) > 0 {
		if err := json.Unmarshal(summary.Config, &exp); err != nil {
			return nil, nil, model.GenotypeRecord{}, fmt.Errorf("decode config snapshot of run %s: %w", summary.ID, err)
		}
	}
	exp.Experiment.Domain = record.Domain
	exp.Experiment.Encoding = record.Encoding

	encoding, domain, err := BuildEncoding(exp)
	if err != nil {
		return nil, nil, model.GenotypeRecord{}, err
	}
	genotype := encoding.NewGenotype()
	if err := genotype.Load(record.Genotype); err != nil {
		return nil, nil, model.GenotypeRecord{}, err
	}
	return genotype, domain, record, nil
}

// Evaluate grows a saved genotype and scores it once on its domain.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResult, error) {
	genotype, domain, record, err := c.LoadGenotype(ctx, req.GenotypeID)
	if err != nil {
		return EvaluateResult{}, err
	}
	brain := genotype.Grow()
	brain.ResetState()
	fitness, trace, err := scape.EvaluateMode(ctx, domain, brain, req.Mode)
	if err != nil {
		return EvaluateResult{}, err
	}
	return EvaluateResult{Record: record, Fitness: float64(fitness), Trace: trace}, nil
}

type BenchmarkRequest struct {
	Experiment config.Experiment
	// Runs repeats the experiment with seeds Seed, Seed+1, ...
	Runs int
	// OutDir receives the report files when set.
	OutDir string
}

type BenchmarkResult struct {
	Report    stats.BenchmarkReport
	ReportDir string
}

// Benchmark repeats an experiment over consecutive seeds and aggregates the
// best-fitness curves. The fitness goal, when set, decides which runs count
// as successes.
func (c *Client) Benchmark(ctx context.Context, req BenchmarkRequest) (BenchmarkResult, error) {
	if req.Runs <= 0 {
		return BenchmarkResult{}, fmt.Errorf("benchmark runs must be > 0")
	}
	exp := req.Experiment
	series := make([]stats.Series, 0, req.Runs)
	var domain, encoding string
	for i := 0; i < req.Runs; i++ {
		exp.Experiment.Seed = req.Experiment.Experiment.Seed + int64(i)
		result, err := c.Run(ctx, RunRequest{Experiment: exp})
		if err != nil {
			return BenchmarkResult{}, fmt.Errorf("benchmark run %d: %w", i+1, err)
		}
		domain, encoding = result.Summary.Domain, result.Summary.Encoding
		series = append(series, stats.Series{
			RunID: result.Summary.ID,
			Seed:  exp.Experiment.Seed,
			Best:  result.BestByGeneration,
		})
	}

	var goal *float64
	if exp.Experiment.StopAtGoal || exp.Experiment.FitnessGoal != 0 {
		g := exp.Experiment.FitnessGoal
		goal = &g
	}
	report := stats.BuildReport(exp.Experiment.Name, domain, encoding, exp.Experiment.PopulationSize, goal, series)
	c.logger.Info("benchmark finished",
		"runs", report.TotalRuns,
		"success_rate", report.SuccessRate,
		"avg_final_best", report.AvgFinalBest,
	)
	if req.OutDir == "" {
		return BenchmarkResult{Report: report}, nil
	}
	dir, err := stats.WriteReport(req.OutDir, report)
	if err != nil {
		return BenchmarkResult{}, err
	}
	return BenchmarkResult{Report: report, ReportDir: dir}, nil
}
