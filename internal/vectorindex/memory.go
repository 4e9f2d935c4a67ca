package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kbozek/lingonotes/internal/embeddings"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/logger"
)

// Memory is a process-scoped index. Contents are discarded when the
// process ends.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dimension int
	metric    Metric
	points    map[int]Point
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]*memoryCollection),
	}
}

func (m *Memory) Exists(_ context.Context, collection string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[collection]
	return ok, nil
}

func (m *Memory) Create(_ context.Context, collection string, dimension int, metric Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection]; ok {
		return fmt.Errorf("collection %q already exists", collection)
	}

	m.collections[collection] = &memoryCollection{
		dimension: dimension,
		metric:    metric,
		points:    make(map[int]Point),
	}
	logger.Debug("Created in-memory collection %q (%d dimensions, %s)", collection, dimension, metric)
	return nil
}

func (m *Memory) Insert(_ context.Context, collection string, point Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", interrors.ErrCollectionNotFound, collection)
	}
	if len(point.Vector) != coll.dimension {
		return fmt.Errorf("%w: got %d, collection expects %d",
			interrors.ErrDimensionMismatch, len(point.Vector), coll.dimension)
	}
	if _, exists := coll.points[point.ID]; exists {
		return fmt.Errorf("%w: id %d", interrors.ErrIDCollision, point.ID)
	}

	// Copy so later caller mutations cannot reach the stored point.
	stored := Point{
		ID:      point.ID,
		Vector:  append([]float32(nil), point.Vector...),
		Payload: make(map[string]string, len(point.Payload)),
	}
	for k, v := range point.Payload {
		stored.Payload[k] = v
	}

	coll.points[point.ID] = stored
	return nil
}

func (m *Memory) Count(_ context.Context, collection string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", interrors.ErrCollectionNotFound, collection)
	}
	return len(coll.points), nil
}

func (m *Memory) Scroll(_ context.Context, collection string, limit int) ([]Point, error) {
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interrors.ErrCollectionNotFound, collection)
	}

	// Map iteration order is the "unordered scroll" here: arbitrary,
	// with no guarantee across calls.
	points := make([]Point, 0, limit)
	for _, p := range coll.points {
		points = append(points, p)
		if len(points) >= limit {
			break
		}
	}
	return points, nil
}

func (m *Memory) Search(_ context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interrors.ErrCollectionNotFound, collection)
	}
	if len(vector) != coll.dimension {
		return nil, fmt.Errorf("%w: got %d, collection expects %d",
			interrors.ErrDimensionMismatch, len(vector), coll.dimension)
	}

	scored := make([]ScoredPoint, 0, len(coll.points))
	for _, p := range coll.points {
		scored = append(scored, ScoredPoint{
			ID:      p.ID,
			Payload: p.Payload,
			Score:   embeddings.CosineSimilarity(vector, p.Vector),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (m *Memory) Close() error {
	return nil
}
