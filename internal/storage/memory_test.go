package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryStoreGenotypeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	record := sampleGenotypeRecord("g1", "run-1", 0)
	if err := store.SaveGenotype(ctx, record); err != nil {
		t.Fatalf("save genotype: %v", err)
	}
	loaded, ok, err := store.GetGenotype(ctx, "g1")
	if err != nil {
		t.Fatalf("get genotype: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted genotype")
	}
	if diff := cmp.Diff(record, loaded); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	loaded.Genotype[0] = 'X'
	again, _, _ := store.GetGenotype(ctx, "g1")
	if again.Genotype[0] != '{' {
		t.Fatal("caller mutation leaked into the store")
	}

	if _, ok, err := store.GetGenotype(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing genotype, got ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreListGenotypesOrdersByGeneration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, record := range []struct {
		id  string
		run string
		gen int
	}{
		{"c", "run-1", 1}, {"a", "run-1", 2}, {"b", "run-1", 1}, {"z", "run-2", 0},
	} {
		if err := store.SaveGenotype(ctx, sampleGenotypeRecord(record.id, record.run, record.gen)); err != nil {
			t.Fatalf("save %s: %v", record.id, err)
		}
	}

	records, err := store.ListGenotypes(ctx, "run-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreRunSummaries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	later := sampleRunSummary("run-b", base.Add(time.Hour))
	earlier := sampleRunSummary("run-a", base)
	if err := store.SaveRunSummary(ctx, later); err != nil {
		t.Fatalf("save later: %v", err)
	}
	if err := store.SaveRunSummary(ctx, earlier); err != nil {
		t.Fatalf("save earlier: %v", err)
	}

	loaded, ok, err := store.GetRunSummary(ctx, "run-a")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if diff := cmp.Diff(earlier, loaded); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	runs, err := store.ListRunSummaries(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-a" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected run order: %+v", runs)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveGenotype(context.Background(), sampleGenotypeRecord("g1", "r", 0)); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}
