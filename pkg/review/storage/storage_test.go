package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"veritas-hq/saturn/pkg/review"
)

func testResult(id string, completedAt time.Time) *review.ReviewResult {
	return &review.ReviewResult{
		RequestID:            id,
		Status:               review.StatusCompleted,
		ReviewType:           review.TypeEUDocValidation,
		DocumentPath:         "/docs/" + id + ".txt",
		TemplateName:         "eu_doc",
		OverallScore:         91.5,
		CompliancePercentage: 95,
		Recommendations:      []string{"Document is mostly compliant but could benefit from minor improvements"},
		CreatedAt:            completedAt.Add(-time.Minute),
		CompletedAt:          &completedAt,
	}
}

func openStores(t *testing.T) map[string]review.ArchiveStore {
	t.Helper()

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]review.ArchiveStore{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestArchiveStore_SaveGet(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			saved := testResult("req-1", time.Now().Truncate(time.Second))
			if err := store.Save(ctx, saved); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := store.Get(ctx, "req-1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.RequestID != saved.RequestID || got.Status != saved.Status {
				t.Errorf("Get() = %s/%s, want %s/%s", got.RequestID, got.Status, saved.RequestID, saved.Status)
			}
			if got.OverallScore != saved.OverallScore {
				t.Errorf("OverallScore = %.1f, want %.1f", got.OverallScore, saved.OverallScore)
			}
			if len(got.Recommendations) != 1 {
				t.Errorf("Recommendations = %v, want one entry", got.Recommendations)
			}
		})
	}
}

func TestArchiveStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first := testResult("req-1", time.Now())
			if err := store.Save(ctx, first); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			updated := testResult("req-1", time.Now())
			updated.Status = review.StatusFailed
			if err := store.Save(ctx, updated); err != nil {
				t.Fatalf("Save() overwrite error = %v", err)
			}

			got, err := store.Get(ctx, "req-1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Status != review.StatusFailed {
				t.Errorf("Status = %s, want %s", got.Status, review.StatusFailed)
			}
		})
	}
}

func TestArchiveStore_GetUnknown(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			var notFound *review.NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("Get() error = %v, want *review.NotFoundError", err)
			}
		})
	}
}

func TestArchiveStore_Purge(t *testing.T) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			old := testResult("old", now.Add(-48*time.Hour))
			recent := testResult("recent", now)
			for _, res := range []*review.ReviewResult{old, recent} {
				if err := store.Save(ctx, res); err != nil {
					t.Fatalf("Save() error = %v", err)
				}
			}

			purged, err := store.Purge(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("Purge() error = %v", err)
			}
			if purged != 1 {
				t.Errorf("Purge() = %d, want 1", purged)
			}

			if _, err := store.Get(ctx, "old"); err == nil {
				t.Error("Get(old) succeeded after purge")
			}
			if _, err := store.Get(ctx, "recent"); err != nil {
				t.Errorf("Get(recent) error = %v", err)
			}
		})
	}
}
