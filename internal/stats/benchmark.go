package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gonum.org/v1/gonum/stat"
)

// BenchmarkRun scores one run of a benchmark against the fitness goal.
type BenchmarkRun struct {
	RunID             string  `json:"run_id"`
	Seed              int64   `json:"seed"`
	Evaluations       int     `json:"evaluations"`
	Success           bool    `json:"success"`
	ReachedGeneration int     `json:"reached_generation,omitempty"`
	FinalBest         float64 `json:"final_best"`
}

type PlotPoint struct {
	Evaluations int     `json:"evaluations"`
	Value       float64 `json:"value"`
	StdDev      float64 `json:"stddev"`
}

// BenchmarkReport aggregates repeated runs of one experiment.
type BenchmarkReport struct {
	Name           string         `json:"name"`
	Domain         string         `json:"domain"`
	Encoding       string         `json:"encoding"`
	PopulationSize int            `json:"population_size"`
	FitnessGoal    *float64       `json:"fitness_goal,omitempty"`
	TotalRuns      int            `json:"total_runs"`
	SuccessRuns    int            `json:"success_runs"`
	SuccessRate    float64        `json:"success_rate"`
	AvgEvaluations float64        `json:"avg_evaluations"`
	StdEvaluations float64        `json:"std_evaluations"`
	MinEvaluations float64        `json:"min_evaluations"`
	MaxEvaluations float64        `json:"max_evaluations"`
	AvgFinalBest   float64        `json:"avg_final_best"`
	StdFinalBest   float64        `json:"std_final_best"`
	AvgBest        []PlotPoint    `json:"avg_best"`
	Runs           []BenchmarkRun `json:"runs"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// Series is the best fitness per generation of one run.
type Series struct {
	RunID string
	Seed  int64
	Best  []float64
}

// EvaluateSeries counts evaluations until the goal is first reached. Without
// a goal every run counts as a success over its full length.
func EvaluateSeries(s Series, populationSize int, goal *float64) BenchmarkRun {
	if populationSize <= 0 {
		populationSize = 1
	}
	run := BenchmarkRun{RunID: s.RunID, Seed: s.Seed}
	if len(s.Best) > 0 {
		run.FinalBest = s.Best[len(s.Best)-1]
	}
	for generation, best := range s.Best {
		run.Evaluations += populationSize
		run.ReachedGeneration = generation
		if goal != nil && best >= *goal {
			run.Success = true
			return run
		}
	}
	run.Success = goal == nil
	return run
}

// BuildReport scores every series and averages them generation by generation.
// Runs that stopped early drop out of the later averages.
func BuildReport(name, domain, encoding string, populationSize int, goal *float64, series []Series) BenchmarkReport {
	report := BenchmarkReport{
		Name:           name,
		Domain:         domain,
		Encoding:       encoding,
		PopulationSize: populationSize,
		TotalRuns:      len(series),
		Runs:           make([]BenchmarkRun, 0, len(series)),
		AvgBest:        AveragePlot(series, populationSize),
		GeneratedAt:    time.Now().UTC(),
	}
	if goal != nil && !math.IsNaN(*goal) {
		g := *goal
		report.FitnessGoal = &g
	}

	var evaluations, finals []float64
	for _, s := range series {
		run := EvaluateSeries(s, populationSize, report.FitnessGoal)
		report.Runs = append(report.Runs, run)
		finals = append(finals, run.FinalBest)
		if run.Success {
			report.SuccessRuns++
			evaluations = append(evaluations, float64(run.Evaluations))
		}
	}
	if report.TotalRuns > 0 {
		report.SuccessRate = float64(report.SuccessRuns) / float64(report.TotalRuns)
		report.AvgFinalBest, report.StdFinalBest = meanStd(finals)
	}
	if len(evaluations) > 0 {
		report.AvgEvaluations, report.StdEvaluations = meanStd(evaluations)
		report.MinEvaluations, report.MaxEvaluations = evaluations[0], evaluations[0]
		for _, v := range evaluations[1:] {
			report.MinEvaluations = math.Min(report.MinEvaluations, v)
			report.MaxEvaluations = math.Max(report.MaxEvaluations, v)
		}
	}
	return report
}

// AveragePlot returns the mean best fitness across runs for each generation,
// indexed by the evaluation count at the end of that generation.
func AveragePlot(series []Series, populationSize int) []PlotPoint {
	if populationSize <= 0 {
		populationSize = 1
	}
	var points []PlotPoint
	for generation := 0; ; generation++ {
		var values []float64
		for _, s := range series {
			if generation < len(s.Best) {
				values = append(values, s.Best[generation])
			}
		}
		if len(values) == 0 {
			return points
		}
		mean, std := meanStd(values)
		points = append(points, PlotPoint{
			Evaluations: (generation + 1) * populationSize,
			Value:       mean,
			StdDev:      std,
		})
	}
}

func meanStd(values []float64) (float64, float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	return stat.MeanStdDev(values, nil)
}

// WriteReport writes <name>_Report.json and a gnuplot-friendly
// <name>_Fitness.dat into dir and returns the directory.
func WriteReport(dir string, report BenchmarkReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := sanitizeToken(report.Name)
	if err := writeJSON(filepath.Join(dir, name+"_Report.json"), report); err != nil {
		return "", err
	}
	if err := writePlot(filepath.Join(dir, name+"_Fitness.dat"), report); err != nil {
		return "", err
	}
	return dir, nil
}

func writePlot(path string, report BenchmarkReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "#Avg Best Fitness Vs Evaluations, Domain:%s Encoding:%s\n", report.Domain, report.Encoding); err != nil {
		return err
	}
	for _, p := range report.AvgBest {
		if _, err := fmt.Fprintf(file, "%d %g %g\n", p.Evaluations, p.Value, p.StdDev); err != nil {
			return err
		}
	}
	return file.Sync()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func sanitizeToken(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	token := strings.Trim(b.String(), "_")
	if token == "" {
		return "benchmark"
	}
	return token
}
