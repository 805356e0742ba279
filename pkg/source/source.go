// Package source reads polygon templates and query points from text files,
// generates random query points and stamps templates into polygon grids.
package source

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/polygon"
)

// ReadVector reads one "x y" pair per line. Blank lines and lines starting
// with '#' are skipped.
func ReadVector(path string) ([]models.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	points, _, err := parse(file, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ReadWeightedVector reads "x y" or "x y weight" lines. Vertices without a
// weight column get weight zero.
func ReadWeightedVector(path string) ([]models.Point, []float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	points, weights, err := parse(file, true)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, weights, nil
}

func parse(r io.Reader, weighted bool) ([]models.Point, []float64, error) {
	var (
		points  []models.Point
		weights []float64
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 && !(weighted && len(fields) == 3) {
			return nil, nil, fmt.Errorf("line %d: expected 2 columns, got %d", line, len(fields))
		}

		values := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid number %q", line, f)
			}
			values[i] = v
		}

		points = append(points, models.Point{X: values[0], Y: values[1]})
		if weighted {
			w := 0.0
			if len(values) == 3 {
				w = values[2]
			}
			weights = append(weights, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}

	return points, weights, nil
}

// Split separates points into their x and y coordinates
func Split(points []models.Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// RandomPoints draws n points uniformly from box using r
func RandomPoints(r *rand.Rand, n int, box models.BoundingBox) []models.Point {
	width := box.TopRight.X - box.BottomLeft.X
	height := box.TopRight.Y - box.BottomLeft.Y

	points := make([]models.Point, n)
	for i := range points {
		points[i] = models.Point{
			X: box.BottomLeft.X + r.Float64()*width,
			Y: box.BottomLeft.Y + r.Float64()*height,
		}
	}
	return points
}

// BuildGrid stamps the template (xs, ys) blocks times. Copy i is shifted by
// (i*xStep, i*yStep) and owns vertex indices [i*n, (i+1)*n).
func BuildGrid(xs, ys []float64, blocks int, xStep, yStep float64) ([]models.Polygon, error) {
	return BuildWeightedGrid(xs, ys, nil, blocks, xStep, yStep)
}

// BuildWeightedGrid is BuildGrid with per-vertex weights repeated in every copy
func BuildWeightedGrid(xs, ys, weights []float64, blocks int, xStep, yStep float64) ([]models.Polygon, error) {
	n := len(xs)
	polygons := make([]models.Polygon, 0, blocks)
	for i := 0; i < blocks; i++ {
		p, err := polygon.CreateWeightedPolygon(n, xs, float64(i)*xStep, ys, float64(i)*yStep, i*n, weights)
		if err != nil {
			return nil, fmt.Errorf("failed to create block %d: %w", i, err)
		}
		polygons = append(polygons, p)
	}
	return polygons, nil
}
