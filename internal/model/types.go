package model

import (
	"encoding/json"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// GenotypeRecord is one saved genotype. Genotype holds the encoding's own
// JSON document; Encoding and Domain name what is needed to load it again.
type GenotypeRecord struct {
	VersionedRecord
	ID         string          `json:"id"`
	RunID      string          `json:"run_id"`
	Encoding   string          `json:"encoding"`
	Domain     string          `json:"domain"`
	Generation int             `json:"generation"`
	Fitness    float64         `json:"fitness"`
	Genotype   json.RawMessage `json:"genotype"`
	CreatedAt  time.Time       `json:"created_at"`
}

type GenerationDiagnostics struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
	MinFitness    float64 `json:"min_fitness"`
	EliteCount    int     `json:"elite_count"`
}

// RunSummary describes a finished (or aborted) evolution run.
type RunSummary struct {
	VersionedRecord
	ID             string                  `json:"id"`
	Domain         string                  `json:"domain"`
	Encoding       string                  `json:"encoding"`
	PopulationSize int                     `json:"population_size"`
	Generations    int                     `json:"generations"`
	Seed           int64                   `json:"seed"`
	BestFitness    float64                 `json:"best_fitness"`
	ChampionID     string                  `json:"champion_id"`
	GoalReached    bool                    `json:"goal_reached"`
	Diagnostics    []GenerationDiagnostics `json:"diagnostics"`
	Config         json.RawMessage         `json:"config,omitempty"`
	StartedAt      time.Time               `json:"started_at"`
	FinishedAt     time.Time               `json:"finished_at"`
}
