// Package vectorindex defines the key->(vector, payload) store backing
// semantic note search, with a process-scoped in-memory implementation
// and an optional SQLite-backed one for durability.
package vectorindex

import "context"

// Metric is the distance metric a collection is created with.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
	MetricDot       Metric = "dot"
)

// Point is a stored record: an id, its vector, and a string payload.
type Point struct {
	ID      int
	Vector  []float32
	Payload map[string]string
}

// ScoredPoint is a search hit carrying the cosine similarity score.
type ScoredPoint struct {
	ID      int
	Payload map[string]string
	Score   float32
}

// Index is the vector store contract. Implementations must be safe for
// concurrent use; Insert must reject duplicate ids with ErrIDCollision.
type Index interface {
	// Exists reports whether the named collection has been created.
	Exists(ctx context.Context, collection string) (bool, error)

	// Create creates a collection for vectors of the given dimension.
	Create(ctx context.Context, collection string, dimension int, metric Metric) error

	// Insert stores a new point. The id must not already exist.
	Insert(ctx context.Context, collection string, point Point) error

	// Count returns the exact number of stored points.
	Count(ctx context.Context, collection string) (int, error)

	// Scroll returns up to limit points in no guaranteed order.
	Scroll(ctx context.Context, collection string, limit int) ([]Point, error)

	// Search returns the limit nearest points to the query vector,
	// ordered by descending similarity, ties broken by ascending id.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error)

	// Close releases any resources held by the index.
	Close() error
}
