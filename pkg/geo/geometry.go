// Package geo provides the planar geometry primitives used by the polygon
// index: point and segment distances, orientation and the ray crossing test
// behind the containment query.
//
// All functions are total. Coordinates are expected to be finite; NaN or
// infinite inputs are not checked and simply propagate into the result.
package geo

import (
	"math"

	"github.com/1F47E/go-polygon-index/pkg/models"
)

// Orientation of an ordered triple of points
type Orientation int

const (
	Collinear Orientation = iota
	CounterClockwise
	Clockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "counter-clockwise"
	case Clockwise:
		return "clockwise"
	default:
		return "collinear"
	}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b models.Point) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared is Distance without the square root, for comparisons
func DistanceSquared(a, b models.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// SegmentDistanceSquared returns the squared distance from p to the closed
// segment a-b. The projection of p onto the segment line is clamped to the
// segment; a zero-length segment behaves like the single point a.
func SegmentDistanceSquared(p, a, b models.Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y

	c1 := vx*wx + vy*wy
	if c1 <= 0 {
		return DistanceSquared(p, a)
	}
	c2 := vx*vx + vy*vy
	if c1 >= c2 {
		return DistanceSquared(p, b)
	}

	t := c1 / c2
	return DistanceSquared(p, models.Point{X: a.X + t*vx, Y: a.Y + t*vy})
}

// SegmentDistance returns the distance from p to the closed segment a-b
func SegmentDistance(p, a, b models.Point) float64 {
	return math.Sqrt(SegmentDistanceSquared(p, a, b))
}

// Cross returns the z component of (a-o) x (b-o). It is positive when
// o->a->b turns left.
func Cross(o, a, b models.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Orient classifies the turn o->a->b
func Orient(o, a, b models.Point) Orientation {
	c := Cross(o, a, b)
	switch {
	case c > 0:
		return CounterClockwise
	case c < 0:
		return Clockwise
	default:
		return Collinear
	}
}

// CrossesRay reports whether the ray from p towards +x crosses segment a-b.
// Each segment is treated as half-open in y (lower end included, upper end
// excluded) so a ray through a shared vertex is counted exactly once and
// horizontal segments never count. Counting crossings over all edges of a
// closed ring gives the crossing-number parity of p.
func CrossesRay(p, a, b models.Point) bool {
	if (a.Y > p.Y) == (b.Y > p.Y) {
		return false
	}
	// x of the segment at height p.Y, compared without dividing
	if b.Y > a.Y {
		return Cross(a, b, p) > 0
	}
	return Cross(a, b, p) < 0
}

// EdgeBounds returns the bounding box of an edge
func EdgeBounds(e models.Edge) models.BoundingBox {
	return models.BoundingBox{
		BottomLeft: models.Point{X: math.Min(e.A.X, e.B.X), Y: math.Min(e.A.Y, e.B.Y)},
		TopRight:   models.Point{X: math.Max(e.A.X, e.B.X), Y: math.Max(e.A.Y, e.B.Y)},
	}
}

// Midpoint returns the midpoint of an edge
func Midpoint(e models.Edge) models.Point {
	return models.Point{X: (e.A.X + e.B.X) / 2, Y: (e.A.Y + e.B.Y) / 2}
}
