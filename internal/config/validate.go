package config

import (
	"fmt"
	"strings"

	"neurogen/internal/cgp"
	"neurogen/internal/cne"
	"neurogen/internal/evo"
	"neurogen/internal/logging"
)

const EncodingCGP = "cgp"

// SplitEncoding separates an encoding name such as "cgp" or "cne.lstm" into
// its family and, for weight-vector encodings, the layer kind.
func SplitEncoding(name string) (string, cne.Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == EncodingCGP {
		return EncodingCGP, "", nil
	}
	family, variant, ok := strings.Cut(name, ".")
	if !ok || family != "cne" {
		return "", "", fmt.Errorf("unsupported encoding: %s", name)
	}
	kind, err := cne.ParseKind(variant)
	if err != nil {
		return "", "", err
	}
	return family, kind, nil
}

// Validate checks every section. Errors are prefixed with "config error:".
func (e Experiment) Validate() error {
	if err := e.validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func (e Experiment) validate() error {
	x := e.Experiment
	if strings.TrimSpace(x.Domain) == "" {
		return fmt.Errorf("experiment domain is required")
	}
	if x.PopulationSize <= 0 {
		return fmt.Errorf("experiment population_size must be > 0")
	}
	if x.Generations <= 0 {
		return fmt.Errorf("experiment generations must be > 0")
	}
	if x.Workers < 0 {
		return fmt.Errorf("experiment workers must be >= 0")
	}
	if _, err := evo.FitnessPostprocessorByName(x.Postprocessor); err != nil {
		return err
	}

	family, _, err := SplitEncoding(x.Encoding)
	if err != nil {
		return err
	}
	switch family {
	case EncodingCGP:
		if err := e.CGPConfig().Validate(); err != nil {
			return err
		}
		if _, err := cgp.ParseFunctions(e.CGP.Functions); err != nil {
			return err
		}
	default:
		if err := e.CNEConfig().Validate(); err != nil {
			return err
		}
	}

	if err := e.TruncationConfig().Validate(); err != nil {
		return err
	}
	if _, err := evo.ParentSelectorByName(e.Selection.ParentSelection, e.Selection.TournamentSize); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(e.Log.Level); err != nil {
		return err
	}
	switch e.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", e.Log.Format)
	}

	switch strings.ToLower(strings.TrimSpace(e.Store.Kind)) {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported store kind: %s", e.Store.Kind)
	}
	return nil
}
