package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6"))

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

func init() {
	// Disable styling if not in a terminal
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		titleStyle = lipgloss.NewStyle()
		labelStyle = lipgloss.NewStyle()
		valueStyle = lipgloss.NewStyle()
		successStyle = lipgloss.NewStyle()
	}
}

func printTitle(title string) {
	fmt.Fprintln(os.Stderr, titleStyle.Render(title))
}

func printStat(label string, value interface{}) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprint(value)))
}

func printSuccess(message string) {
	fmt.Fprintln(os.Stderr, successStyle.Render("✓ "+message))
}

// result is the answer for one query point. Unrequested or missing answers
// are left nil so they drop out of the JSON.
type result struct {
	Point        models.Point         `json:"point"`
	EdgeDistance *float64             `json:"edge_distance,omitempty"`
	Vertex       *models.VertexResult `json:"vertex,omitempty"`
	Inside       *bool                `json:"inside,omitempty"`
	Weighted     *float64             `json:"weighted_distance,omitempty"`
}

// finite returns nil for the +Inf "no answer" distance, which JSON cannot
// represent.
func finite(d float64) *float64 {
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return nil
	}
	return &d
}

func writeText(w io.Writer, results []result) error {
	for _, r := range results {
		line := fmt.Sprintf("%g %g", r.Point.X, r.Point.Y)
		if r.EdgeDistance != nil {
			line += fmt.Sprintf(" edge=%g", *r.EdgeDistance)
		}
		if r.Vertex != nil {
			line += fmt.Sprintf(" vertex=%d vertex_distance=%g", r.Vertex.VertexIndex, r.Vertex.Distance)
		}
		if r.Inside != nil {
			line += fmt.Sprintf(" inside=%t", *r.Inside)
		}
		if r.Weighted != nil {
			line += fmt.Sprintf(" weighted=%g", *r.Weighted)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// writeGeoJSON emits one Point feature per query point with the answers as
// properties.
func writeGeoJSON(w io.Writer, results []result) error {
	fc := geojson.NewFeatureCollection()
	for _, r := range results {
		f := geojson.NewFeature(orb.Point{r.Point.X, r.Point.Y})
		if r.EdgeDistance != nil {
			f.Properties["edge_distance"] = *r.EdgeDistance
		}
		if r.Vertex != nil {
			f.Properties["vertex_index"] = r.Vertex.VertexIndex
			f.Properties["vertex_distance"] = r.Vertex.Distance
		}
		if r.Inside != nil {
			f.Properties["inside"] = *r.Inside
		}
		if r.Weighted != nil {
			f.Properties["weighted_distance"] = *r.Weighted
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
