// Package notes implements the note persistence and semantic-retrieval
// flow over an embedding provider and a vector index.
package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbozek/lingonotes/internal/embeddings"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/logger"
	"github.com/kbozek/lingonotes/internal/vectorindex"
)

// Note is a persisted unit of text. Notes are immutable once stored;
// there is no update or delete operation.
type Note struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// SearchResult is a transient retrieval result. Score is nil for a
// browse-all listing and a cosine similarity for a search hit.
type SearchResult struct {
	Text  string   `json:"text"`
	Score *float32 `json:"score,omitempty"`
}

// Store owns a note collection. Add serializes its count-then-insert
// sequence behind a mutex so concurrent adds cannot assign the same id.
type Store struct {
	mu         sync.Mutex
	index      vectorindex.Index
	embedder   embeddings.Provider
	collection string
}

func NewStore(index vectorindex.Index, embedder embeddings.Provider, collection string) *Store {
	return &Store{
		index:      index,
		embedder:   embedder,
		collection: collection,
	}
}

// EnsureIndex creates the backing collection if it does not exist.
// Calling it when the collection is already present is a no-op.
func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.index.Exists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		logger.Debug("Collection %q already exists", s.collection)
		return nil
	}

	logger.Info("Creating collection %q", s.collection)
	if err := s.index.Create(ctx, s.collection, s.embedder.Dimensions(), vectorindex.MetricCosine); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Add embeds text and stores it as a new note. The note id is the
// stored-note count plus one, computed under the store mutex.
func (s *Store) Add(ctx context.Context, text string) (*Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, interrors.ErrEmptyText
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	// Embed before taking the lock; only the count-then-insert pair
	// needs to be a critical section.
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed note: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.index.Count(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	note := &Note{
		ID:        count + 1,
		Text:      text,
		Embedding: embedding,
	}

	err = s.index.Insert(ctx, s.collection, vectorindex.Point{
		ID:      note.ID,
		Vector:  embedding,
		Payload: map[string]string{"text": text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store note: %w", err)
	}

	logger.Debug("Stored note %d (%d characters)", note.ID, len(text))
	return note, nil
}

// List returns up to limit notes in whatever order the backing store's
// unordered enumeration yields. No ordering is guaranteed.
func (s *Store) List(ctx context.Context, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	points, err := s.index.Scroll(ctx, s.collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, SearchResult{Text: p.Payload["text"]})
	}
	return results, nil
}

// Search embeds the query and returns up to limit notes ordered by
// descending cosine similarity, ties broken by ascending note id.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, interrors.ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, s.collection, queryEmbedding, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		score := hit.Score
		results = append(results, SearchResult{
			Text:  hit.Payload["text"],
			Score: &score,
		})
	}
	return results, nil
}

// Count returns the number of stored notes.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	return s.index.Count(ctx, s.collection)
}
