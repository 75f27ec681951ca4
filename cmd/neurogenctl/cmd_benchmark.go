package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"neurogen/internal/format"
	"neurogen/pkg/neurogen"
)

func newBenchmarkCmd(g *globalFlags) *cobra.Command {
	flags := &evolveFlags{}
	var (
		runs   int
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Repeat an experiment over consecutive seeds and report the spread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			exp, err := loadExperiment(cmd, g, flags)
			if err != nil {
				return err
			}
			client, err := g.client()
			if err != nil {
				return err
			}
			defer closeClient(client, &err)

			result, err := client.Benchmark(cmd.Context(), neurogen.BenchmarkRequest{Experiment: exp, Runs: runs, OutDir: outDir})
			if err != nil {
				return err
			}
			r := result.Report
			out := cmd.OutOrStdout()
			if g.output != "json" {
				fmt.Fprintf(out, "runs:      %d (%d reached the goal)\n", r.TotalRuns, r.SuccessRuns)
				fmt.Fprintf(out, "final:     %.6f ± %.6f\n", r.AvgFinalBest, r.StdFinalBest)
				if result.ReportDir != "" {
					fmt.Fprintf(out, "report:    %s\n", result.ReportDir)
				}
			}
			return g.render(out, r, func(m format.Mode) string {
				t := format.NewTable(m)
				t.Header("Run", "Seed", "Evaluations", "Goal", "Final")
				for _, run := range r.Runs {
					t.Row(run.RunID, run.Seed, run.Evaluations, run.Success, fmt.Sprintf("%.6f", run.FinalBest))
				}
				return t.String()
			})
		},
	}
	bindExperimentFlags(cmd, flags)
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of runs")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the report files (default: none written)")
	return cmd
}
