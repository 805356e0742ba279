package main

import (
	"fmt"
	"log"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/query"
	"github.com/1F47E/go-polygon-index/pkg/rtree"
	"github.com/1F47E/go-polygon-index/pkg/source"
)

func main() {
	// Unit square template
	xs := []float64{0, 1, 1, 0}
	ys := []float64{0, 0, 1, 1}

	// Example 1: a single polygon
	fmt.Println("=== Unit square ===")
	polygons, err := source.BuildGrid(xs, ys, 1, 0, 0)
	if err != nil {
		log.Fatal(err)
	}
	tree := rtree.Build(polygons)
	fmt.Printf("Indexed %d edges\n", tree.Len())

	center := []models.Point{{X: 0.5, Y: 0.5}}
	fmt.Printf("  edge distance: %.4f\n", query.NearestEdgeDistances(tree, center)[0])
	v := query.NearestVertices(tree, center)[0]
	fmt.Printf("  nearest vertex: %d at %.4f\n", v.VertexIndex, v.Distance)
	fmt.Printf("  inside: %t\n", query.ContainsPoints(tree, center)[0])

	// Example 2: five copies 5 units apart share one vertex index space
	fmt.Println("\n=== Five squares ===")
	polygons, err = source.BuildGrid(xs, ys, 5, 5, 0)
	if err != nil {
		log.Fatal(err)
	}
	tree = rtree.Build(polygons)
	fmt.Printf("Indexed %d polygons, %d edges\n", tree.NumPolygons(), tree.Len())

	points := []models.Point{
		{X: 2.5, Y: 0.5},
		{X: 20.5, Y: 0.5},
		{X: 11.1, Y: 0.9},
	}
	distances := query.NearestEdgeDistances(tree, points)
	vertices := query.NearestVertices(tree, points)
	inside := query.ContainsPoints(tree, points)
	for i, p := range points {
		fmt.Printf("  (%.1f, %.1f): edge=%.4f vertex=%d (%.4f) inside=%t\n",
			p.X, p.Y, distances[i], vertices[i].VertexIndex, vertices[i].Distance, inside[i])
	}

	// Example 3: an empty index answers with sentinels
	fmt.Println("\n=== Empty index ===")
	empty := rtree.Build(nil)
	ev := query.NearestVertices(empty, center)[0]
	fmt.Printf("  edge distance: %v\n", query.NearestEdgeDistances(empty, center)[0])
	fmt.Printf("  nearest vertex: %d at %v\n", ev.VertexIndex, ev.Distance)
	fmt.Printf("  inside: %t\n", query.ContainsPoints(empty, center)[0])
}
