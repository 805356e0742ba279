// Package postgis stores polygon templates in a PostGIS database so that the
// same ring can be shared between machines building indexes.
package postgis

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/polygon"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ErrTemplateNotFound is returned by LoadTemplate for unknown names
var ErrTemplateNotFound = errors.New("postgis: template not found")

// TemplateStore keeps named polygon templates as LINESTRING geometries
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore opens and checks a PostGIS connection
func NewTemplateStore(host, user, password, dbname string, port int) (*TemplateStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &TemplateStore{db: db}, nil
}

// InitSchema creates the template table if it does not exist yet
func (s *TemplateStore) InitSchema() error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		`CREATE TABLE IF NOT EXISTS polygon_templates (
			name TEXT PRIMARY KEY,
			ring GEOMETRY(LINESTRING),
			weights DOUBLE PRECISION[],
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}

	return nil
}

// SaveTemplate inserts or replaces the template called name. weights may be
// nil; otherwise it must have one value per point.
func (s *TemplateStore) SaveTemplate(name string, points []models.Point, weights []float64) error {
	ring, err := encodeRing(points, weights)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO polygon_templates (name, ring, weights, updated_at)
		VALUES ($1, ST_GeomFromText($2), $3, now())
		ON CONFLICT (name) DO UPDATE
		SET ring = EXCLUDED.ring, weights = EXCLUDED.weights, updated_at = now()
	`, name, ring, pq.Array(weights))
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", name, err)
	}
	return nil
}

// LoadTemplate returns the vertices and weights of a stored template. The
// weights are nil when the template was saved without them.
func (s *TemplateStore) LoadTemplate(name string) ([]models.Point, []float64, error) {
	var (
		ring    string
		weights []float64
	)
	err := s.db.QueryRow(`
		SELECT ST_AsText(ring), weights
		FROM polygon_templates
		WHERE name = $1
	`, name).Scan(&ring, pq.Array(&weights))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}

	points, err := decodeRing(ring)
	if err != nil {
		return nil, nil, fmt.Errorf("template %s: %w", name, err)
	}
	if weights != nil && len(weights) != len(points) {
		return nil, nil, fmt.Errorf("template %s: %w", name,
			&polygon.ShapeError{Field: "weights", Declared: len(points), Actual: len(weights)})
	}
	return points, weights, nil
}

// Count returns the number of stored templates
func (s *TemplateStore) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM polygon_templates").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *TemplateStore) Close() error {
	return s.db.Close()
}

// encodeRing renders the template vertices as WKT. The ring is stored open,
// exactly as given; closing it is left to the polygon builder.
func encodeRing(points []models.Point, weights []float64) (string, error) {
	if len(points) < polygon.MinVertices {
		return "", fmt.Errorf("%w: %d vertices, need at least %d",
			polygon.ErrDegenerateGeometry, len(points), polygon.MinVertices)
	}
	if weights != nil && len(weights) != len(points) {
		return "", &polygon.ShapeError{Field: "weights", Declared: len(points), Actual: len(weights)}
	}

	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return wkt.MarshalString(ls), nil
}

func decodeRing(s string) ([]models.Point, error) {
	ls, err := wkt.UnmarshalLineString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ring: %w", err)
	}

	points := make([]models.Point, len(ls))
	for i, p := range ls {
		points[i] = models.Point{X: p.X(), Y: p.Y()}
	}
	return points, nil
}
