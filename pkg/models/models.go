package models

import "math"

// NoVertex is reported as the vertex index when no vertex exists
const NoVertex = -1

// Point represents a location in the plane
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is a directed segment A->B of a polygon. VertexIndex is the global
// index of vertex A.
type Edge struct {
	A           Point   `json:"a"`
	B           Point   `json:"b"`
	PolygonID   int     `json:"polygon_id"`
	VertexIndex int     `json:"vertex_index"`
	Weight      float64 `json:"weight,omitempty"`
}

// Polygon is a closed cycle of edges
type Polygon []Edge

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Point `json:"bottom_left"`
	TopRight   Point `json:"top_right"`
}

// VertexResult is the answer of a nearest-vertex query
type VertexResult struct {
	VertexIndex int     `json:"vertex_index"`
	Distance    float64 `json:"distance"`
}

// EmptyBox returns a box that contains nothing. Extending it with a point
// yields the degenerate box around that point.
func EmptyBox() BoundingBox {
	return BoundingBox{
		BottomLeft: Point{X: math.Inf(1), Y: math.Inf(1)},
		TopRight:   Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether the box contains no point at all
func (b BoundingBox) IsEmpty() bool {
	return b.BottomLeft.X > b.TopRight.X || b.BottomLeft.Y > b.TopRight.Y
}

// Extend grows the box to include p
func (b BoundingBox) Extend(p Point) BoundingBox {
	return BoundingBox{
		BottomLeft: Point{X: math.Min(b.BottomLeft.X, p.X), Y: math.Min(b.BottomLeft.Y, p.Y)},
		TopRight:   Point{X: math.Max(b.TopRight.X, p.X), Y: math.Max(b.TopRight.Y, p.Y)},
	}
}

// Union returns the smallest box containing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		BottomLeft: Point{X: math.Min(b.BottomLeft.X, other.BottomLeft.X), Y: math.Min(b.BottomLeft.Y, other.BottomLeft.Y)},
		TopRight:   Point{X: math.Max(b.TopRight.X, other.TopRight.X), Y: math.Max(b.TopRight.Y, other.TopRight.Y)},
	}
}

// Contains reports whether p lies inside the box or on its border
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.BottomLeft.X && p.X <= b.TopRight.X &&
		p.Y >= b.BottomLeft.Y && p.Y <= b.TopRight.Y
}

// Pad grows the box by d on every side
func (b BoundingBox) Pad(d float64) BoundingBox {
	return BoundingBox{
		BottomLeft: Point{X: b.BottomLeft.X - d, Y: b.BottomLeft.Y - d},
		TopRight:   Point{X: b.TopRight.X + d, Y: b.TopRight.Y + d},
	}
}

// DistanceSquared returns the squared distance from p to the closest point
// of the box, zero when p is inside. It is a lower bound for the distance
// to anything the box encloses. An empty box is infinitely far away.
func (b BoundingBox) DistanceSquared(p Point) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	var dx, dy float64
	if p.X < b.BottomLeft.X {
		dx = b.BottomLeft.X - p.X
	} else if p.X > b.TopRight.X {
		dx = p.X - b.TopRight.X
	}
	if p.Y < b.BottomLeft.Y {
		dy = b.BottomLeft.Y - p.Y
	} else if p.Y > b.TopRight.Y {
		dy = p.Y - b.TopRight.Y
	}
	return dx*dx + dy*dy
}
