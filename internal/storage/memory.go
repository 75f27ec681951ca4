package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"neurogen/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	genotypes   map[string]model.GenotypeRecord
	runs        map[string]model.RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.genotypes = make(map[string]model.GenotypeRecord)
	s.runs = make(map[string]model.RunSummary)
	return nil
}

func (s *MemoryStore) SaveGenotype(_ context.Context, record model.GenotypeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.genotypes[record.ID] = copyGenotypeRecord(record)
	return nil
}

func (s *MemoryStore) GetGenotype(_ context.Context, id string) (model.GenotypeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.genotypes[id]
	if !ok {
		return model.GenotypeRecord{}, false, nil
	}
	return copyGenotypeRecord(record), true, nil
}

func (s *MemoryStore) ListGenotypes(_ context.Context, runID string) ([]model.GenotypeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.GenotypeRecord
	for _, record := range s.genotypes {
		if record.RunID == runID {
			out = append(out, copyGenotypeRecord(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Generation != out[j].Generation {
			return out[i].Generation < out[j].Generation
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[summary.ID] = copyRunSummary(summary)
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, id string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.runs[id]
	if !ok {
		return model.RunSummary{}, false, nil
	}
	return copyRunSummary(summary), true, nil
}

func (s *MemoryStore) ListRunSummaries(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunSummary, 0, len(s.runs))
	for _, summary := range s.runs {
		out = append(out, copyRunSummary(summary))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyGenotypeRecord(record model.GenotypeRecord) model.GenotypeRecord {
	record.Genotype = append([]byte(nil), record.Genotype...)
	return record
}

func copyRunSummary(summary model.RunSummary) model.RunSummary {
	summary.Diagnostics = append([]model.GenerationDiagnostics(nil), summary.Diagnostics...)
	summary.Config = append([]byte(nil), summary.Config...)
	return summary
}
