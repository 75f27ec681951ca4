//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "neurogen.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreGenotypeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	record := sampleGenotypeRecord("g1", "run-1", 4)
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

	record.Fitness = 9
	if err := store.SaveGenotype(ctx, record); err != nil {
		t.Fatalf("upsert genotype: %v", err)
	}
	loaded, _, err = store.GetGenotype(ctx, "g1")
	if err != nil || loaded.Fitness != 9 {
		t.Fatalf("expected upserted fitness, got %f err=%v", loaded.Fitness, err)
	}

	if _, ok, err := store.GetGenotype(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing genotype, got ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreListGenotypes(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	for _, r := range []struct {
		id  string
		gen int
	}{{"c", 1}, {"a", 2}, {"b", 1}} {
		if err := store.SaveGenotype(ctx, sampleGenotypeRecord(r.id, "run-1", r.gen)); err != nil {
			t.Fatalf("save %s: %v", r.id, err)
		}
	}
	if err := store.SaveGenotype(ctx, sampleGenotypeRecord("other", "run-2", 0)); err != nil {
		t.Fatalf("save other: %v", err)
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

func TestSQLiteStoreRunSummaries(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := store.SaveRunSummary(ctx, sampleRunSummary("run-b", base.Add(time.Minute))); err != nil {
		t.Fatalf("save run-b: %v", err)
	}
	earlier := sampleRunSummary("run-a", base)
	if err := store.SaveRunSummary(ctx, earlier); err != nil {
		t.Fatalf("save run-a: %v", err)
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

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "uninit.db"))
	if _, _, err := store.GetGenotype(context.Background(), "g1"); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}
