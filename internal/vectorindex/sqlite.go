package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/kbozek/lingonotes/internal/embeddings"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/logger"
)

// SQLite is a durable index backend. Embeddings are stored as
// little-endian float32 blobs and similarity is computed in-process,
// so scores are exact cosine values like the in-memory backend's.
type SQLite struct {
	conn *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	logger.Debug("Index database path: %s", path)

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	s := &SQLite{conn: conn}
	if err := s.initialize(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize index database: %w", err)
	}

	return s, nil
}

func (s *SQLite) initialize() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			dimension INTEGER NOT NULL,
			metric TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}

	_, err = s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS points (
			collection TEXT NOT NULL,
			id INTEGER NOT NULL,
			embedding BLOB NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (collection, id),
			FOREIGN KEY (collection) REFERENCES collections(name)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create points table: %w", err)
	}

	return nil
}

func (s *SQLite) Exists(ctx context.Context, collection string) (bool, error) {
	var name string
	err := s.conn.QueryRowContext(ctx,
		"SELECT name FROM collections WHERE name = ?", collection,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return true, nil
}

func (s *SQLite) Create(ctx context.Context, collection string, dimension int, metric Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO collections (name, dimension, metric) VALUES (?, ?, ?)",
		collection, dimension, string(metric),
	)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	logger.Debug("Created SQLite collection %q (%d dimensions, %s)", collection, dimension, metric)
	return nil
}

func (s *SQLite) dimension(ctx context.Context, collection string) (int, error) {
	var dimension int
	err := s.conn.QueryRowContext(ctx,
		"SELECT dimension FROM collections WHERE name = ?", collection,
	).Scan(&dimension)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", interrors.ErrCollectionNotFound, collection)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read collection: %w", err)
	}
	return dimension, nil
}

func (s *SQLite) Insert(ctx context.Context, collection string, point Point) error {
	dimension, err := s.dimension(ctx, collection)
	if err != nil {
		return err
	}
	if len(point.Vector) != dimension {
		return fmt.Errorf("%w: got %d, collection expects %d",
			interrors.ErrDimensionMismatch, len(point.Vector), dimension)
	}

	payload, err := json.Marshal(point.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// INSERT OR IGNORE keeps the uniqueness check and the write in one
	// statement; zero rows affected means the id was taken.
	result, err := s.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO points (collection, id, embedding, payload) VALUES (?, ?, ?, ?)",
		collection, point.ID, embeddings.ToBytes(point.Vector), string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert point: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", interrors.ErrIDCollision, point.ID)
	}

	return nil
}

func (s *SQLite) Count(ctx context.Context, collection string) (int, error) {
	if _, err := s.dimension(ctx, collection); err != nil {
		return 0, err
	}

	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM points WHERE collection = ?", collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return count, nil
}

func (s *SQLite) Scroll(ctx context.Context, collection string, limit int) ([]Point, error) {
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}
	if _, err := s.dimension(ctx, collection); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, embedding, payload FROM points WHERE collection = ? LIMIT ?",
		collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scroll points: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}

	return points, nil
}

func (s *SQLite) Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	if limit <= 0 {
		return nil, interrors.ErrInvalidLimit
	}
	dimension, err := s.dimension(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(vector) != dimension {
		return nil, fmt.Errorf("%w: got %d, collection expects %d",
			interrors.ErrDimensionMismatch, len(vector), dimension)
	}

	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, embedding, payload FROM points WHERE collection = ?", collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read points: %w", err)
	}
	defer rows.Close()

	var scored []ScoredPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ScoredPoint{
			ID:      p.ID,
			Payload: p.Payload,
			Score:   embeddings.CosineSimilarity(vector, p.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
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

func scanPoint(rows *sql.Rows) (Point, error) {
	var (
		p           Point
		blob        []byte
		payloadJSON string
	)
	if err := rows.Scan(&p.ID, &blob, &payloadJSON); err != nil {
		return Point{}, fmt.Errorf("failed to scan point: %w", err)
	}

	vector, err := embeddings.FromBytes(blob)
	if err != nil {
		return Point{}, fmt.Errorf("failed to decode embedding for point %d: %w", p.ID, err)
	}
	p.Vector = vector

	if err := json.Unmarshal([]byte(payloadJSON), &p.Payload); err != nil {
		return Point{}, fmt.Errorf("failed to decode payload for point %d: %w", p.ID, err)
	}

	return p, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
