package polygon

import (
	"errors"
	"testing"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	squareXs = []float64{0, 1, 1, 0}
	squareYs = []float64{0, 0, 1, 1}
)

func TestCreatePolygon(t *testing.T) {
	p, err := CreatePolygon(4, squareXs, 10, squareYs, -2, 8)
	require.NoError(t, err)
	require.Len(t, p, 4)

	assert.Equal(t, models.Point{X: 10, Y: -2}, p[0].A)
	assert.Equal(t, models.Point{X: 11, Y: -2}, p[0].B)
	assert.Equal(t, models.Point{X: 10, Y: -1}, p[3].A)
	assert.Equal(t, models.Point{X: 10, Y: -2}, p[3].B)

	for i, e := range p {
		assert.Equal(t, 8+i, e.VertexIndex)
		assert.Zero(t, e.Weight)
	}
	assert.True(t, IsClosed(p))
}

func TestCreatePolygonClosedCycle(t *testing.T) {
	xs := []float64{0, 3, 4, 2, -1, -2}
	ys := []float64{0, -1, 2, 5, 3, 1}

	for offset := 0; offset < 5; offset++ {
		p, err := CreatePolygon(len(xs), xs, float64(offset)*5, ys, 0, offset*len(xs))
		require.NoError(t, err)

		n := len(p)
		for i := range p {
			assert.Equal(t, p[(i+1)%n].A, p[i].B, "edge %d does not meet edge %d", i, (i+1)%n)
		}
		assert.Equal(t, offset*len(xs), p[0].VertexIndex)
		assert.Equal(t, offset*len(xs)+n-1, p[n-1].VertexIndex)
	}
}

func TestCreatePolygonShapeErrors(t *testing.T) {
	testCases := []struct {
		name      string
		numPoints int
		xs        []float64
		ys        []float64
		field     string
	}{
		{"xs too short", 4, []float64{0, 1, 1}, squareYs, "xs"},
		{"ys too long", 4, squareXs, []float64{0, 0, 1, 1, 2}, "ys"},
		{"declared count wrong", 5, squareXs, squareYs, "xs"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := CreatePolygon(tc.numPoints, tc.xs, 0, tc.ys, 0, 0)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInputShape))

			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, tc.field, shapeErr.Field)
			assert.Equal(t, tc.numPoints, shapeErr.Declared)
		})
	}
}

func TestCreatePolygonDegenerate(t *testing.T) {
	p, err := CreatePolygon(2, []float64{0, 1}, 0, []float64{0, 1}, 0, 0)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.False(t, errors.Is(err, ErrInputShape))

	_, err = CreatePolygon(0, nil, 0, nil, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestCreatePolygonNegativeStartIndex(t *testing.T) {
	p, err := CreatePolygon(4, squareXs, 0, squareYs, 0, -1)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInputShape)

	_, err = CreateWeightedPolygon(4, squareXs, 0, squareYs, 0, -4, []float64{1, 1, 1, 1})
	assert.ErrorIs(t, err, ErrInputShape)

	// zero is the first valid index
	_, err = CreatePolygon(4, squareXs, 0, squareYs, 0, 0)
	assert.NoError(t, err)
}

func TestCreatePolygonRepeatedClosingVertex(t *testing.T) {
	// rings that repeat the first vertex produce one zero-length edge
	xs := []float64{0, 1, 0.5, 0}
	ys := []float64{0, 0.5, 1, 0}

	p, err := CreatePolygon(len(xs), xs, 0, ys, 0, 0)
	require.NoError(t, err)
	assert.True(t, IsClosed(p))
	assert.Equal(t, p[3].A, p[3].B)
}

func TestCreateWeightedPolygon(t *testing.T) {
	weights := []float64{0.5, 1, 1.5, 2}
	p, err := CreateWeightedPolygon(4, squareXs, 0, squareYs, 0, 0, weights)
	require.NoError(t, err)
	for i, e := range p {
		assert.Equal(t, weights[i], e.Weight)
	}

	_, err = CreateWeightedPolygon(4, squareXs, 0, squareYs, 0, 0, []float64{1})
	assert.ErrorIs(t, err, ErrInputShape)
}

func TestVerticesAndBounds(t *testing.T) {
	p, err := CreatePolygon(4, squareXs, 1, squareYs, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, []models.Point{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 1, Y: 3}}, Vertices(p))

	box := Bounds(p)
	assert.Equal(t, models.Point{X: 1, Y: 2}, box.BottomLeft)
	assert.Equal(t, models.Point{X: 2, Y: 3}, box.TopRight)

	assert.True(t, Bounds(nil).IsEmpty())
	assert.False(t, IsClosed(nil))
}
