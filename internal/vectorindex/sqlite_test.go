package vectorindex

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	interrors "github.com/kbozek/lingonotes/internal/errors"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteCreateAndExists(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "notes")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Collection should not exist before Create")
	}

	if err := s.Create(ctx, "notes", 3, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = s.Exists(ctx, "notes")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Collection should exist after Create")
	}
}

func TestSQLiteInsertCountScroll(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Create(ctx, "notes", 3, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 1; i <= 4; i++ {
		err := s.Insert(ctx, "notes", Point{
			ID:      i,
			Vector:  []float32{float32(i), 0, 1},
			Payload: map[string]string{"text": "note"},
		})
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	count, err := s.Count(ctx, "notes")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected count 4, got %d", count)
	}

	points, err := s.Scroll(ctx, "notes", 2)
	if err != nil {
		t.Fatalf("Scroll failed: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("Expected 2 points, got %d", len(points))
	}
	if points[0].Payload["text"] != "note" {
		t.Errorf("Payload lost in round trip: %v", points[0].Payload)
	}
	if len(points[0].Vector) != 3 {
		t.Errorf("Vector lost in round trip: %v", points[0].Vector)
	}
}

func TestSQLiteInsertCollision(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Create(ctx, "notes", 2, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	p := Point{ID: 1, Vector: []float32{1, 0}, Payload: map[string]string{"text": "a"}}
	if err := s.Insert(ctx, "notes", p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := s.Insert(ctx, "notes", p)
	if !errors.Is(err, interrors.ErrIDCollision) {
		t.Errorf("Expected ErrIDCollision, got %v", err)
	}
}

func TestSQLiteInsertDimensionMismatch(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Create(ctx, "notes", 3, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := s.Insert(ctx, "notes", Point{ID: 1, Vector: []float32{1, 0}})
	if !errors.Is(err, interrors.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSQLiteMissingCollection(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if _, err := s.Count(ctx, "nope"); !errors.Is(err, interrors.ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound from Count, got %v", err)
	}
	if _, err := s.Scroll(ctx, "nope", 5); !errors.Is(err, interrors.ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound from Scroll, got %v", err)
	}
	if _, err := s.Search(ctx, "nope", []float32{1}, 5); !errors.Is(err, interrors.ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound from Search, got %v", err)
	}
}

func TestSQLiteSearchOrdering(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Create(ctx, "notes", 3, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	vectors := map[int][]float32{
		1: {1, 0, 0},
		2: {0, 1, 0},
		3: {0.9, 0.1, 0},
	}
	for id, v := range vectors {
		if err := s.Insert(ctx, "notes", Point{ID: id, Vector: v, Payload: map[string]string{}}); err != nil {
			t.Fatalf("Insert %d failed: %v", id, err)
		}
	}

	hits, err := s.Search(ctx, "notes", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != 1 || hits[1].ID != 3 {
		t.Errorf("Wrong ranking: got ids %d, %d", hits[0].ID, hits[1].ID)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Create(ctx, "notes", 2, MetricCosine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Insert(ctx, "notes", Point{ID: 1, Vector: []float32{1, 0}, Payload: map[string]string{"text": "kept"}}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx, "notes")
	if err != nil {
		t.Fatalf("Count after reopen failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 note after reopen, got %d", count)
	}
}
