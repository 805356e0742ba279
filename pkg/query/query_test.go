package query

import (
	"math"
	"math/rand"
	"testing"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/polygon"
	"github.com/1F47E/go-polygon-index/pkg/rtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squares(t testing.TB, count int, step float64) *rtree.Tree {
	t.Helper()
	xs := []float64{0, 1, 1, 0}
	ys := []float64{0, 0, 1, 1}
	polygons := make([]models.Polygon, 0, count)
	for i := 0; i < count; i++ {
		p, err := polygon.CreatePolygon(4, xs, float64(i)*step, ys, 0, i*4)
		require.NoError(t, err)
		polygons = append(polygons, p)
	}
	return rtree.Build(polygons)
}

func randomPoints(n int, seed int64) []models.Point {
	r := rand.New(rand.NewSource(seed))
	points := make([]models.Point, n)
	for i := range points {
		points[i] = models.Point{X: r.Float64()*30 - 3, Y: r.Float64()*6 - 3}
	}
	return points
}

func TestUnitSquareBatch(t *testing.T) {
	tree := squares(t, 1, 0)
	points := []models.Point{{X: 0.5, Y: 0.5}}

	edges := NearestEdgeDistances(tree, points)
	require.Len(t, edges, 1)
	assert.InDelta(t, 0.5, edges[0], 1e-12)

	vertices := NearestVertices(tree, points)
	require.Len(t, vertices, 1)
	assert.Equal(t, 0, vertices[0].VertexIndex)
	assert.InDelta(t, math.Sqrt(0.5), vertices[0].Distance, 1e-12)

	assert.Equal(t, []bool{true}, ContainsPoints(tree, points))
}

func TestFiveSquaresBatch(t *testing.T) {
	tree := squares(t, 5, 5)
	points := []models.Point{
		{X: 2.5, Y: 0.5},
		{X: 20.5, Y: 0.5},
		{X: 11.1, Y: 0.9},
	}

	edges := NearestEdgeDistances(tree, points)
	assert.InDelta(t, 1.5, edges[0], 1e-12)
	assert.InDelta(t, 0.5, edges[1], 1e-12)
	assert.InDelta(t, 0.1, edges[2], 1e-12)

	assert.Equal(t, []bool{false, true, false}, ContainsPoints(tree, points))

	vertices := NearestVertices(tree, points)
	assert.Equal(t, 10, vertices[2].VertexIndex)
}

func TestEmptyInputs(t *testing.T) {
	tree := squares(t, 2, 5)

	assert.Empty(t, NearestEdgeDistances(tree, nil))
	assert.Empty(t, NearestVertices(tree, []models.Point{}))
	assert.Empty(t, ContainsPoints(tree, nil))
	assert.Empty(t, WeightedVertexDistances(tree, nil, 1))
}

func TestEmptyTreeSentinels(t *testing.T) {
	points := randomPoints(1000, 1)

	for name, tree := range map[string]*rtree.Tree{
		"nil":   nil,
		"empty": rtree.Build(nil),
	} {
		t.Run(name, func(t *testing.T) {
			for _, d := range NearestEdgeDistances(tree, points) {
				assert.True(t, math.IsInf(d, 1))
			}
			for _, v := range NearestVertices(tree, points) {
				assert.Equal(t, models.NoVertex, v.VertexIndex)
				assert.True(t, math.IsInf(v.Distance, 1))
			}
			for _, inside := range ContainsPoints(tree, points) {
				assert.False(t, inside)
			}
			for _, d := range WeightedVertexDistances(tree, points, 1) {
				assert.True(t, math.IsInf(d, 1))
			}
		})
	}
}

func TestResultsAlignWithInput(t *testing.T) {
	tree := squares(t, 5, 5)

	// large enough to be split across goroutines
	points := randomPoints(10000, 42)

	edges := NearestEdgeDistances(tree, points)
	vertices := NearestVertices(tree, points)
	inside := ContainsPoints(tree, points)
	weighted := WeightedVertexDistances(tree, points, 0.5)

	require.Len(t, edges, len(points))
	require.Len(t, vertices, len(points))
	require.Len(t, inside, len(points))
	require.Len(t, weighted, len(points))

	for i, p := range points {
		assert.Equal(t, tree.NearestEdgeDistance(p), edges[i])
		assert.Equal(t, tree.NearestVertex(p), vertices[i])
		assert.Equal(t, tree.Contains(p), inside[i])
		assert.Equal(t, tree.WeightedVertexDistance(p, 0.5), weighted[i])
	}
}

func TestDistanceOrdering(t *testing.T) {
	tree := squares(t, 5, 5)
	points := randomPoints(5000, 7)

	edges := NearestEdgeDistances(tree, points)
	vertices := NearestVertices(tree, points)
	inside := ContainsPoints(tree, points)

	for i := range points {
		// the nearest vertex lies on some edge, so it is never closer
		assert.LessOrEqual(t, edges[i], vertices[i].Distance+1e-12)
		assert.GreaterOrEqual(t, vertices[i].VertexIndex, 0)
		assert.Less(t, vertices[i].VertexIndex, tree.NumVertices())
		if !inside[i] {
			assert.Greater(t, edges[i], 0.0)
		}
	}
}

func TestIdempotentBatches(t *testing.T) {
	tree := squares(t, 5, 5)
	points := randomPoints(3000, 3)

	assert.Equal(t, NearestEdgeDistances(tree, points), NearestEdgeDistances(tree, points))
	assert.Equal(t, NearestVertices(tree, points), NearestVertices(tree, points))
	assert.Equal(t, ContainsPoints(tree, points), ContainsPoints(tree, points))
}

func TestWeightedMatchesPlainDistance(t *testing.T) {
	tree := squares(t, 5, 5)
	points := randomPoints(2000, 9)

	// unweighted vertices with unit scale reduce to the nearest vertex distance
	weighted := WeightedVertexDistances(tree, points, 1)
	vertices := NearestVertices(tree, points)
	for i := range points {
		assert.InDelta(t, vertices[i].Distance, weighted[i], 1e-12)
	}
}

func BenchmarkContainsPoints(b *testing.B) {
	tree := squares(b, 1000, 2)
	points := randomPoints(100000, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ContainsPoints(tree, points)
	}
}

func BenchmarkNearestEdgeDistances(b *testing.B) {
	tree := squares(b, 1000, 2)
	points := randomPoints(100000, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NearestEdgeDistances(tree, points)
	}
}
