// Package polygon builds closed edge cycles from coordinate templates.
//
// A template (two coordinate slices) can be stamped at several offsets, each
// copy getting its own range of global vertex indices, so that many polygons
// share one vertex-index space.
package polygon

import (
	"errors"
	"fmt"

	"github.com/1F47E/go-polygon-index/pkg/models"
)

// MinVertices is the smallest vertex count accepted for a polygon
const MinVertices = 3

var (
	// ErrInputShape is matched by errors about inconsistent input lengths
	ErrInputShape = errors.New("polygon: input shape mismatch")
	// ErrDegenerateGeometry is matched by errors about unusable geometry
	ErrDegenerateGeometry = errors.New("polygon: degenerate geometry")
)

// ShapeError is returned when the declared point count disagrees with the
// length of one of the input slices.
type ShapeError struct {
	Field    string
	Declared int
	Actual   int
}

func (err *ShapeError) Error() string {
	return fmt.Sprintf("polygon: %s has %d values, expected %d", err.Field, err.Actual, err.Declared)
}

func (err *ShapeError) Is(target error) bool {
	return target == ErrInputShape
}

// CreatePolygon builds the closed polygon whose vertex i is
// (xs[i]+xOffset, ys[i]+yOffset). Edge i runs from vertex i to vertex
// (i+1) mod numPoints and carries the global vertex index startIndex+i.
// Global indices are never negative, so a negative startIndex is rejected.
//
// Simplicity and winding order are not validated. Consecutive duplicate
// vertices (such as a ring repeating its first vertex at the end) produce
// zero-length edges, which are allowed.
func CreatePolygon(numPoints int, xs []float64, xOffset float64, ys []float64, yOffset float64, startIndex int) (models.Polygon, error) {
	return CreateWeightedPolygon(numPoints, xs, xOffset, ys, yOffset, startIndex, nil)
}

// CreateWeightedPolygon is CreatePolygon with a per-vertex weight used by the
// weighted vertex distance. A nil weights slice means all weights are zero.
func CreateWeightedPolygon(numPoints int, xs []float64, xOffset float64, ys []float64, yOffset float64, startIndex int, weights []float64) (models.Polygon, error) {
	if len(xs) != numPoints {
		return nil, &ShapeError{Field: "xs", Declared: numPoints, Actual: len(xs)}
	}
	if len(ys) != numPoints {
		return nil, &ShapeError{Field: "ys", Declared: numPoints, Actual: len(ys)}
	}
	if weights != nil && len(weights) != numPoints {
		return nil, &ShapeError{Field: "weights", Declared: numPoints, Actual: len(weights)}
	}
	if startIndex < 0 {
		return nil, fmt.Errorf("%w: negative start index %d", ErrInputShape, startIndex)
	}
	if numPoints < MinVertices {
		return nil, fmt.Errorf("%w: %d vertices, need at least %d", ErrDegenerateGeometry, numPoints, MinVertices)
	}

	edges := make(models.Polygon, numPoints)
	for i := 0; i < numPoints; i++ {
		j := (i + 1) % numPoints
		edges[i] = models.Edge{
			A:           models.Point{X: xs[i] + xOffset, Y: ys[i] + yOffset},
			B:           models.Point{X: xs[j] + xOffset, Y: ys[j] + yOffset},
			VertexIndex: startIndex + i,
		}
		if weights != nil {
			edges[i].Weight = weights[i]
		}
	}
	return edges, nil
}

// Vertices returns the vertices of p in order
func Vertices(p models.Polygon) []models.Point {
	vertices := make([]models.Point, len(p))
	for i, e := range p {
		vertices[i] = e.A
	}
	return vertices
}

// Bounds returns the bounding box of p, empty for an empty polygon
func Bounds(p models.Polygon) models.BoundingBox {
	box := models.EmptyBox()
	for _, e := range p {
		box = box.Extend(e.A).Extend(e.B)
	}
	return box
}

// IsClosed reports whether every edge ends where the next one starts
func IsClosed(p models.Polygon) bool {
	for i, e := range p {
		if e.B != p[(i+1)%len(p)].A {
			return false
		}
	}
	return len(p) > 0
}
