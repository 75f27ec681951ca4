package neurogen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"neurogen/internal/cgp"
	"neurogen/internal/config"
	"neurogen/internal/evo"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func smallExperiment(domain, encoding string) config.Experiment {
	exp := config.Default()
	exp.Experiment.Domain = domain
	exp.Experiment.Encoding = encoding
	exp.Experiment.PopulationSize = 12
	exp.Experiment.Generations = 3
	exp.Experiment.Seed = 42
	exp.Experiment.Workers = 2
	exp.CGP.Rows = 2
	exp.CGP.Columns = 6
	exp.CGP.LevelsBack = 3
	exp.CNE.HiddenLayers = []int{3}
	exp.Selection.ElitePercentage = 0.25
	return exp
}

func TestClientRunPersistsChampionsAndSummary(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	result, err := client.Run(ctx, RunRequest{Experiment: smallExperiment("xor", "cgp")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	summary := result.Summary
	if summary.ID == "" || summary.ChampionID == "" {
		t.Fatalf("expected run and champion ids: %+v", summary)
	}
	if len(result.BestByGeneration) != 3 || len(summary.Diagnostics) != 3 {
		t.Fatalf("unexpected generation counts: best=%d diagnostics=%d", len(result.BestByGeneration), len(summary.Diagnostics))
	}
	if summary.Encoding != "cgp" || summary.Domain != "xor" {
		t.Fatalf("unexpected summary labels: %s %s", summary.Encoding, summary.Domain)
	}
	if summary.FinishedAt.Before(summary.StartedAt) {
		t.Fatalf("finished before started: %v %v", summary.StartedAt, summary.FinishedAt)
	}

	stored, err := client.RunSummary(ctx, summary.ID)
	if err != nil {
		t.Fatalf("run summary: %v", err)
	}
	if diff := cmp.Diff(summary.Diagnostics, stored.Diagnostics); diff != "" {
		t.Fatalf("stored diagnostics differ (-want +got):\n%s", diff)
	}

	records, err := client.Genotypes(ctx, summary.ID)
	if err != nil {
		t.Fatalf("genotypes: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected one champion per generation, got %d", len(records))
	}
	best := records[0].Fitness
	for i, r := range records {
		if r.Generation != i {
			t.Fatalf("record %d has generation %d", i, r.Generation)
		}
		if r.Fitness > best {
			best = r.Fitness
		}
	}
	if best != summary.BestFitness {
		t.Fatalf("summary best %v does not match records best %v", summary.BestFitness, best)
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.ID {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestClientEvaluateReproducesRecordedFitness(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	exp := smallExperiment("xor", "cne.feedforward")
	result, err := client.Run(ctx, RunRequest{Experiment: exp, RunID: "ff-run"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Summary.ID != "ff-run" {
		t.Fatalf("expected explicit run id, got %s", result.Summary.ID)
	}

	evaluated, err := client.Evaluate(ctx, EvaluateRequest{GenotypeID: result.Summary.ChampionID, Mode: "gt"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if evaluated.Fitness != result.Summary.BestFitness {
		t.Fatalf("re-evaluated fitness %v, recorded %v", evaluated.Fitness, result.Summary.BestFitness)
	}

	genotype, _, _, err := client.LoadGenotype(ctx, result.Summary.ChampionID)
	if err != nil {
		t.Fatalf("load genotype: %v", err)
	}
	if result.Champion == nil || !genotype.Equal(result.Champion) {
		t.Fatal("loaded genotype should equal the run champion")
	}
}

func TestClientRunIsDeterministic(t *testing.T) {
	ctx := context.Background()
	for _, encoding := range []string{"cgp", "cne.lstm", "cne.lstm_lite"} {
		exp := smallExperiment("sequence-recall", encoding)
		first, err := newTestClient(t).Run(ctx, RunRequest{Experiment: exp})
		if err != nil {
			t.Fatalf("%s: first run: %v", encoding, err)
		}
		second, err := newTestClient(t).Run(ctx, RunRequest{Experiment: exp})
		if err != nil {
			t.Fatalf("%s: second run: %v", encoding, err)
		}
		if diff := cmp.Diff(first.BestByGeneration, second.BestByGeneration); diff != "" {
			t.Fatalf("%s: runs with the same seed diverged (-first +second):\n%s", encoding, diff)
		}
	}
}

func TestClientRunStopsAtGoal(t *testing.T) {
	exp := smallExperiment("xor", "cgp")
	exp.Experiment.Generations = 10
	exp.Experiment.FitnessGoal = -1
	exp.Experiment.StopAtGoal = true

	result, err := newTestClient(t).Run(context.Background(), RunRequest{Experiment: exp})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Summary.GoalReached || len(result.BestByGeneration) != 1 {
		t.Fatalf("expected stop after the first generation: goal=%v generations=%d",
			result.Summary.GoalReached, len(result.BestByGeneration))
	}
}

func TestClientRunCancelledStillWritesSummary(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := client.Run(ctx, RunRequest{Experiment: smallExperiment("xor", "cgp"), RunID: "cancelled"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Summary.ID != "cancelled" {
		t.Fatalf("expected partial summary, got %+v", result.Summary)
	}
	stored, err := client.RunSummary(context.Background(), "cancelled")
	if err != nil {
		t.Fatalf("run summary: %v", err)
	}
	if stored.FinishedAt.IsZero() || stored.GoalReached {
		t.Fatalf("unexpected stored summary: %+v", stored)
	}
}

func TestClientRunRejectsInvalidExperiment(t *testing.T) {
	exp := smallExperiment("xor", "cgp")
	exp.Experiment.PopulationSize = 0
	if _, err := newTestClient(t).Run(context.Background(), RunRequest{Experiment: exp}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestClientLookupsReportNotFound(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Genotype(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.RunSummary(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.Evaluate(context.Background(), EvaluateRequest{GenotypeID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildEncodingFunctionOverride(t *testing.T) {
	exp := smallExperiment("xor", "cgp")
	exp.CGP.Functions = []string{"add", "negate"}

	enc, domain, err := BuildEncoding(exp)
	if err != nil {
		t.Fatalf("build encoding: %v", err)
	}
	if domain.Name() != "xor" {
		t.Fatalf("unexpected domain: %s", domain.Name())
	}
	pop, ok := enc.(*cgp.Population)
	if !ok {
		t.Fatalf("expected cgp population, got %T", enc)
	}
	want := []cgp.FunctionID{cgp.FnAdd, cgp.FnNegate}
	if diff := cmp.Diff(want, pop.AvailableFunctions()); diff != "" {
		t.Fatalf("unexpected catalogue (-want +got):\n%s", diff)
	}
}

func TestBuildEncodingNames(t *testing.T) {
	for _, name := range Encodings() {
		exp := smallExperiment("regression-mimic", name)
		enc, _, err := BuildEncoding(exp)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if enc.Name() != name {
			t.Fatalf("encoding %s reports name %s", name, enc.Name())
		}
		var _ evo.Encoding = enc
	}
	if len(Domains()) != 5 {
		t.Fatalf("unexpected domains: %v", Domains())
	}
}

func TestClientBenchmark(t *testing.T) {
	exp := smallExperiment("xor", "cgp")
	exp.Experiment.Name = "xor-bench"
	exp.Experiment.FitnessGoal = -1
	out := t.TempDir()

	client := newTestClient(t)
	result, err := client.Benchmark(context.Background(), BenchmarkRequest{Experiment: exp, Runs: 3, OutDir: out})
	if err != nil {
		t.Fatalf("benchmark: %v", err)
	}
	report := result.Report
	if report.TotalRuns != 3 || report.SuccessRuns != 3 {
		t.Fatalf("unexpected counts: total=%d success=%d", report.TotalRuns, report.SuccessRuns)
	}
	for i, run := range report.Runs {
		if run.Seed != exp.Experiment.Seed+int64(i) {
			t.Fatalf("run %d used seed %d", i, run.Seed)
		}
		if run.Evaluations != exp.Experiment.PopulationSize {
			t.Fatalf("run %d should reach the goal in the first generation: %+v", i, run)
		}
	}
	if result.ReportDir != out {
		t.Fatalf("unexpected report dir: %s", result.ReportDir)
	}
	runs, err := client.Runs(context.Background())
	if err != nil || len(runs) != 3 {
		t.Fatalf("expected three stored runs, got %d (%v)", len(runs), err)
	}

	if _, err := client.Benchmark(context.Background(), BenchmarkRequest{Experiment: exp}); err == nil {
		t.Fatal("expected error for zero runs")
	}
}

func TestClientRunWithUnboundedEliteFloor(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	exp := smallExperiment("xor", "cne.feedforward")
	exp.Selection.ElitePercentage = 1
	exp.Selection.EliteMinFitness = math.Inf(-1)
	result, err := client.Run(ctx, RunRequest{Experiment: exp})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, d := range result.Summary.Diagnostics {
		if d.EliteCount != exp.Experiment.PopulationSize {
			t.Fatalf("generation %d: every slot should be an elite, got %d", i, d.EliteCount)
		}
	}

	genotype, _, _, err := client.LoadGenotype(ctx, result.Summary.ChampionID)
	if err != nil {
		t.Fatalf("load genotype: %v", err)
	}
	if !genotype.Equal(result.Champion) {
		t.Fatal("loaded genotype should equal the run champion")
	}
}

func TestClientRunLogsThroughOptionsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := New(Options{StoreKind: "memory", Logger: logger})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if _, err := client.Run(context.Background(), RunRequest{Experiment: smallExperiment("xor", "cgp")}); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"generation evaluated", "component=monitor", "next generation planned", "component=selection"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}
