package format

import (
	"fmt"
	"time"

	"neurogen/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

func fitness(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// Genotypes renders saved genotype records, one per row.
func Genotypes(m Mode, records []model.GenotypeRecord) string {
	t := NewTable(m)
	t.Header("ID", "Run", "Gen", "Encoding", "Domain", "Fitness", "Saved")
	t.Columns(
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 6, Align: AlignRight},
	)
	for _, r := range records {
		t.Row(r.ID, r.RunID, r.Generation, r.Encoding, r.Domain, fitness(r.Fitness), r.CreatedAt.UTC().Format(timeLayout))
	}
	return t.String()
}

// Runs renders run summaries, one per row.
func Runs(m Mode, runs []model.RunSummary) string {
	t := NewTable(m)
	t.Header("Run", "Domain", "Encoding", "Pop", "Gens", "Seed", "Best", "Goal", "Duration")
	t.Columns(
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
		ColumnConfig{Number: 7, Align: AlignRight},
	)
	for _, r := range runs {
		t.Row(r.ID, r.Domain, r.Encoding, r.PopulationSize, len(r.Diagnostics), r.Seed,
			fitness(r.BestFitness), goal(r.GoalReached), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	return t.String()
}

// Diagnostics renders the per-generation fitness statistics of a run.
// The footer carries the best fitness seen over all generations.
func Diagnostics(m Mode, diags []model.GenerationDiagnostics) string {
	t := NewTable(m)
	t.Header("Gen", "Best", "Mean", "StdDev", "Min", "Elites")
	t.Columns(
		ColumnConfig{Number: 2, Align: AlignRight},
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
	)
	best := 0.0
	for i, d := range diags {
		if i == 0 || d.BestFitness > best {
			best = d.BestFitness
		}
		t.Row(d.Generation, fitness(d.BestFitness), fitness(d.MeanFitness), fitness(d.StdDevFitness), fitness(d.MinFitness), d.EliteCount)
	}
	if len(diags) > 0 {
		t.Footer("best", fitness(best), "", "", "", "")
	}
	return t.String()
}

func goal(reached bool) string {
	if reached {
		return "reached"
	}
	return "-"
}
