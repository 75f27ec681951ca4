package format

import (
	"strings"
	"testing"
	"time"

	"neurogen/internal/model"
)

func TestNewTableModes(t *testing.T) {
	for _, m := range []Mode{ASCII, Markdown} {
		tb := NewTable(m)
		tb.Header("Name", "Value")
		tb.Row("alpha", 1)
		tb.Footer("total", 1)
		out := tb.String()
		if !strings.Contains(out, "alpha") {
			t.Fatalf("mode %d: missing row in %q", m, out)
		}
		if m == Markdown && !strings.Contains(out, "| alpha |") {
			t.Fatalf("expected markdown row, got %q", out)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("md"); !ok || m != Markdown {
		t.Fatalf("md: got %v %v", m, ok)
	}
	if m, ok := ParseMode(""); !ok || m != ASCII {
		t.Fatalf("empty: got %v %v", m, ok)
	}
	if _, ok := ParseMode("html"); ok {
		t.Fatal("expected html to be rejected")
	}
}

func TestGenotypesAndRuns(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := Genotypes(ASCII, []model.GenotypeRecord{{
		ID: "g-1", RunID: "r-1", Encoding: "cgp", Domain: "xor", Generation: 4, Fitness: 0.25, CreatedAt: at,
	}})
	for _, want := range []string{"g-1", "r-1", "cgp", "0.250000", "2024-03-01 12:00:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("genotype table missing %q:\n%s", want, out)
		}
	}

	out = Runs(ASCII, []model.RunSummary{{
		ID: "r-1", Domain: "xor", Encoding: "cne.lstm", PopulationSize: 10, BestFitness: 0.9, GoalReached: true,
		Diagnostics: make([]model.GenerationDiagnostics, 3), StartedAt: at, FinishedAt: at.Add(1500 * time.Millisecond),
	}})
	for _, want := range []string{"r-1", "cne.lstm", "0.900000", "reached", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run table missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnosticsFooterCarriesBest(t *testing.T) {
	out := Diagnostics(ASCII, []model.GenerationDiagnostics{
		{Generation: 1, BestFitness: 0.4},
		{Generation: 2, BestFitness: 0.7},
		{Generation: 3, BestFitness: 0.6},
	})
	if n := strings.Count(out, "0.700000"); n != 2 {
		t.Fatalf("expected best fitness in row and footer, got %d occurrences:\n%s", n, out)
	}
	if got := Diagnostics(ASCII, nil); !strings.Contains(strings.ToUpper(got), "ELITES") {
		t.Fatalf("empty diagnostics should still render the header:\n%s", got)
	}
}
