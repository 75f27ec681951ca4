package storage

import (
	"context"

	"neurogen/internal/model"
)

// Store persists genotype records and run summaries.
type Store interface {
	Init(ctx context.Context) error
	SaveGenotype(ctx context.Context, record model.GenotypeRecord) error
	GetGenotype(ctx context.Context, id string) (model.GenotypeRecord, bool, error)
	// ListGenotypes returns the records of a run ordered by generation, then id.
	ListGenotypes(ctx context.Context, runID string) ([]model.GenotypeRecord, error)
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, id string) (model.RunSummary, bool, error)
	// ListRunSummaries returns every run ordered by start time, then id.
	ListRunSummaries(ctx context.Context) ([]model.RunSummary, error)
}
