// Package query evaluates the tree queries over batches of points using
// goroutines to spread the work across CPU cores. Results are aligned with
// the input: element i always answers points[i].
package query

import (
	"runtime"
	"sync"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/rtree"
)

// minBatchSize keeps tiny batches on the calling goroutine
const minBatchSize = 256

// NearestEdgeDistances returns, for every point, the distance to the closest
// polygon edge (+Inf for an empty or nil tree).
func NearestEdgeDistances(tree *rtree.Tree, points []models.Point) []float64 {
	return batch(points, tree.NearestEdgeDistance)
}

// NearestVertices returns, for every point, the closest vertex and its
// distance. Ties go to the lowest global vertex index.
func NearestVertices(tree *rtree.Tree, points []models.Point) []models.VertexResult {
	return batch(points, tree.NearestVertex)
}

// ContainsPoints reports, for every point, whether it lies inside any polygon
func ContainsPoints(tree *rtree.Tree, points []models.Point) []bool {
	return batch(points, tree.Contains)
}

// WeightedVertexDistances returns, for every point, the minimum over all
// vertices of scale*distance + vertex weight.
func WeightedVertexDistances(tree *rtree.Tree, points []models.Point, scale float64) []float64 {
	return batch(points, func(p models.Point) float64 {
		return tree.WeightedVertexDistance(p, scale)
	})
}

// batch applies fn to every point. Points are split into one contiguous
// range per CPU; each goroutine writes only its own range of the result.
func batch[T any](points []models.Point, fn func(models.Point) T) []T {
	results := make([]T, len(points))
	if len(points) == 0 {
		return results
	}

	numCPU := runtime.NumCPU()
	batchSize := (len(points) + numCPU - 1) / numCPU
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}

	if batchSize >= len(points) {
		for i, p := range points {
			results[i] = fn(p)
		}
		return results
	}

	var wg sync.WaitGroup
	for start := 0; start < len(points); start += batchSize {
		end := start + batchSize
		if end > len(points) {
			end = len(points)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				results[j] = fn(points[j])
			}
		}(start, end)
	}

	wg.Wait()
	return results
}
