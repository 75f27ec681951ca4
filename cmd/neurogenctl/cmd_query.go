package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"neurogen/internal/format"
	"neurogen/internal/model"
	"neurogen/pkg/neurogen"
)

func newRunsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer closeClient(client, &err)

			runs, err := client.Runs(cmd.Context())
			if err != nil {
				return err
			}
			return g.render(cmd.OutOrStdout(), runs, func(m format.Mode) string {
				return format.Runs(m, runs)
			})
		},
	}
}

func newGenotypesCmd(g *globalFlags) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "genotypes",
		Short: "List the champions saved by a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer closeClient(client, &err)

			records, err := client.Genotypes(cmd.Context(), runID)
			if err != nil {
				return err
			}
			return g.render(cmd.OutOrStdout(), records, func(m format.Mode) string {
				return format.Genotypes(m, records)
			})
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run id (required)")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func newShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <genotype-id>",
		Short: "Print a saved genotype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer closeClient(client, &err)

			record, err := client.Genotype(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var body any
			if err := json.Unmarshal(record.Genotype, &body); err != nil {
				return fmt.Errorf("decode genotype %s: %w", record.ID, err)
			}
			pretty, err := json.MarshalIndent(body, "", "  ")
			if err != nil {
				return err
			}
			return g.render(cmd.OutOrStdout(), record, func(m format.Mode) string {
				return format.Genotypes(m, []model.GenotypeRecord{record}) + "\n" + string(pretty)
			})
		},
	}
}

func newEvalCmd(g *globalFlags) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "eval <genotype-id>",
		Short: "Re-evaluate a saved genotype on its domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer closeClient(client, &err)

			result, err := client.Evaluate(cmd.Context(), neurogen.EvaluateRequest{GenotypeID: args[0], Mode: mode})
			if err != nil {
				return err
			}
			return g.render(cmd.OutOrStdout(), result, func(m format.Mode) string {
				t := format.NewTable(m)
				t.Header("Key", "Value")
				t.Row("genotype", result.Record.ID)
				t.Row("domain", result.Record.Domain)
				t.Row("fitness", fmt.Sprintf("%.6f", result.Fitness))
				keys := make([]string, 0, len(result.Trace))
				for k := range result.Trace {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					t.Row(k, result.Trace[k])
				}
				return t.String()
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "gt", "Evaluation mode (gt, validation, test)")
	return cmd
}

func newDomainsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List built-in domains and encodings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing := map[string][]string{
				"domains":   neurogen.Domains(),
				"encodings": neurogen.Encodings(),
			}
			return g.render(cmd.OutOrStdout(), listing, func(m format.Mode) string {
				t := format.NewTable(m)
				t.Header("Kind", "Name")
				for _, name := range listing["domains"] {
					t.Row("domain", name)
				}
				for _, name := range listing["encodings"] {
					t.Row("encoding", name)
				}
				return t.String()
			})
		},
	}
}
