package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"neurogen/internal/format"
	"neurogen/internal/logging"
	"neurogen/internal/storage"
	"neurogen/pkg/neurogen"
)

// version is set at build time via -ldflags.
var version = "dev"

type globalFlags struct {
	store     string
	dbPath    string
	logLevel  string
	logFormat string
	output    string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "neurogenctl",
		Short:         "Evolve graph and weight-vector neural controllers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			logging.Init(level, g.logFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&g.store, "store", storage.DefaultStoreKind(), "Store backend (memory, sqlite)")
	f.StringVar(&g.dbPath, "db", "", "SQLite database path (default neurogen.db)")
	f.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	f.StringVarP(&g.output, "output", "o", "table", "Output format (table, markdown, json)")

	root.AddCommand(
		newEvolveCmd(g),
		newRunsCmd(g),
		newGenotypesCmd(g),
		newShowCmd(g),
		newEvalCmd(g),
		newBenchmarkCmd(g),
		newDomainsCmd(g),
	)
	return root
}

func (g *globalFlags) client() (*neurogen.Client, error) {
	return neurogen.New(neurogen.Options{
		StoreKind: g.store,
		DBPath:    g.dbPath,
		Logger:    logging.New("neurogenctl"),
	})
}

// render writes v as indented JSON when --output=json, otherwise calls table.
func (g *globalFlags) render(w io.Writer, v any, table func(format.Mode) string) error {
	if g.output == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	mode, ok := format.ParseMode(g.output)
	if !ok {
		return fmt.Errorf("unsupported output format: %s", g.output)
	}
	_, err := fmt.Fprintln(w, table(mode))
	return err
}

// closeClient joins a failed close into *errp.
func closeClient(client io.Closer, errp *error) {
	if err := client.Close(); err != nil {
		*errp = errors.Join(*errp, fmt.Errorf("close store: %w", err))
	}
}
