package rtree

import (
	"math"

	"github.com/1F47E/go-polygon-index/pkg/geo"
	"github.com/1F47E/go-polygon-index/pkg/models"
)

// NearestEdgeDistance returns the distance from p to the closest edge, or
// +Inf for an empty tree. Subtrees whose box is no closer than the best edge
// found so far are skipped, and the nearer child is always searched first.
func (t *Tree) NearestEdgeDistance(p models.Point) float64 {
	if t == nil || t.root == nil {
		return math.Inf(1)
	}
	best := math.Inf(1)
	t.nearestEdge(t.root, p, &best)
	return math.Sqrt(best)
}

func (t *Tree) nearestEdge(n *node, p models.Point, best *float64) {
	if n.isLeaf() {
		for _, i := range t.order[n.start:n.end] {
			e := &t.edges[i]
			if d := geo.SegmentDistanceSquared(p, e.A, e.B); d < *best {
				*best = d
			}
		}
		return
	}

	near, far := n.left, n.right
	dNear, dFar := near.bounds.DistanceSquared(p), far.bounds.DistanceSquared(p)
	if dFar < dNear {
		near, far = far, near
		dNear, dFar = dFar, dNear
	}
	if dNear < *best {
		t.nearestEdge(near, p, best)
	}
	if dFar < *best {
		t.nearestEdge(far, p, best)
	}
}

// vertexCandidate is the best vertex seen during a search
type vertexCandidate struct {
	index int
	dist2 float64
}

func (c vertexCandidate) beats(other vertexCandidate) bool {
	if c.dist2 != other.dist2 {
		return c.dist2 < other.dist2
	}
	return c.index < other.index
}

// NearestVertex returns the global index of the vertex closest to p and its
// distance. Equidistant vertices resolve to the lowest global index. An
// empty tree yields NoVertex at +Inf.
//
// Each vertex is the start point of exactly one edge, so only the A end of
// every edge is examined. Subtrees are pruned only when strictly farther
// than the best vertex, which keeps all tied candidates reachable.
func (t *Tree) NearestVertex(p models.Point) models.VertexResult {
	if t == nil || t.root == nil {
		return models.VertexResult{VertexIndex: models.NoVertex, Distance: math.Inf(1)}
	}
	best := vertexCandidate{index: models.NoVertex, dist2: math.Inf(1)}
	t.nearestVertex(t.root, p, &best)
	return models.VertexResult{VertexIndex: best.index, Distance: math.Sqrt(best.dist2)}
}

func (t *Tree) nearestVertex(n *node, p models.Point, best *vertexCandidate) {
	if n.isLeaf() {
		for _, i := range t.order[n.start:n.end] {
			e := &t.edges[i]
			c := vertexCandidate{index: e.VertexIndex, dist2: geo.DistanceSquared(p, e.A)}
			if math.IsInf(best.dist2, 1) || c.beats(*best) {
				*best = c
			}
		}
		return
	}

	near, far := n.left, n.right
	dNear, dFar := near.bounds.DistanceSquared(p), far.bounds.DistanceSquared(p)
	if dFar < dNear {
		near, far = far, near
		dNear, dFar = dFar, dNear
	}
	if dNear <= best.dist2 {
		t.nearestVertex(near, p, best)
	}
	if dFar <= best.dist2 {
		t.nearestVertex(far, p, best)
	}
}

// WeightedVertexDistance returns the minimum over all vertices v of
// scale*|p-v| + weight(v), or +Inf for an empty tree. The bound used for
// pruning a subtree is scale times its box distance plus the smallest weight
// below it, which only holds for a non-negative scale: a negative or NaN
// scale yields NaN.
func (t *Tree) WeightedVertexDistance(p models.Point, scale float64) float64 {
	if scale < 0 || math.IsNaN(scale) {
		return math.NaN()
	}
	if t == nil || t.root == nil {
		return math.Inf(1)
	}
	best := math.Inf(1)
	t.weightedVertex(t.root, p, scale, &best)
	return best
}

func (t *Tree) weightedVertex(n *node, p models.Point, scale float64, best *float64) {
	if n.isLeaf() {
		for _, i := range t.order[n.start:n.end] {
			e := &t.edges[i]
			if c := scale*geo.Distance(p, e.A) + e.Weight; c < *best {
				*best = c
			}
		}
		return
	}

	near, far := n.left, n.right
	lbNear := scale*math.Sqrt(near.bounds.DistanceSquared(p)) + near.minWeight
	lbFar := scale*math.Sqrt(far.bounds.DistanceSquared(p)) + far.minWeight
	if lbFar < lbNear {
		near, far = far, near
		lbNear, lbFar = lbFar, lbNear
	}
	if lbNear < *best {
		t.weightedVertex(near, p, scale, best)
	}
	if lbFar < *best {
		t.weightedVertex(far, p, scale, best)
	}
}
