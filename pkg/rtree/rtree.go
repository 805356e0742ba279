// Package rtree implements a bulk-loaded bounding volume hierarchy over the
// edges of many polygons, answering nearest-edge, nearest-vertex and
// point-in-polygon queries. The top levels of the hierarchy are built by
// separate goroutines; once Build returns the tree is read-only and safe for
// any number of concurrent readers.
package rtree

import (
	"math"
	"slices"
	"sync"

	"github.com/1F47E/go-polygon-index/pkg/geo"
	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/dhconnelly/rtreego"
)

const (
	defaultLeafSize  = 8
	parallelDepth    = 4    // levels whose subtrees are built concurrently
	parallelMinEdges = 2048 // smaller groups are not worth a goroutine
	tolerance        = 1e-9
	minChildren      = 25
	maxChildren      = 50
	dimensions       = 2
)

// node is either internal (left and right set) or a leaf owning the
// edge positions order[start:end].
type node struct {
	bounds      models.BoundingBox
	left, right *node
	start, end  int
	minWeight   float64
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// polygonSpan locates one input polygon inside the flat edge slice and
// implements rtreego.Spatial for the containment index.
type polygonSpan struct {
	id         int
	start, end int
	bounds     models.BoundingBox
	rect       rtreego.Rect
}

func (ps *polygonSpan) Bounds() rtreego.Rect {
	return ps.rect
}

// Tree is an immutable spatial index over the edges of a set of polygons
type Tree struct {
	edges    []models.Edge
	mids     []models.Point
	order    []int // edge positions grouped by leaf
	root     *node
	leafSize int

	spans     []polygonSpan
	polyIndex *rtreego.Rtree
}

// Build indexes all edges of the given polygons. Edge i of polygons[k] keeps
// its vertex index and gets PolygonID k. Zero polygons give an empty tree
// whose queries return the "no answer" sentinels.
func Build(polygons []models.Polygon) *Tree {
	return build(polygons, defaultLeafSize)
}

func build(polygons []models.Polygon, leafSize int) *Tree {
	if leafSize < 1 {
		leafSize = 1
	}

	total := 0
	for _, p := range polygons {
		total += len(p)
	}

	t := &Tree{
		edges:    make([]models.Edge, 0, total),
		mids:     make([]models.Point, 0, total),
		order:    make([]int, total),
		leafSize: leafSize,
		spans:    make([]polygonSpan, 0, len(polygons)),
	}

	for id, p := range polygons {
		start := len(t.edges)
		bounds := models.EmptyBox()
		for _, e := range p {
			e.PolygonID = id
			t.edges = append(t.edges, e)
			t.mids = append(t.mids, geo.Midpoint(e))
			bounds = bounds.Union(geo.EdgeBounds(e))
		}
		t.spans = append(t.spans, polygonSpan{id: id, start: start, end: len(t.edges), bounds: bounds})
	}

	for i := range t.order {
		t.order[i] = i
	}
	if total > 0 {
		t.root = t.buildNode(0, total, 0)
	}

	t.buildPolygonIndex()
	return t
}

// buildNode builds the subtree over order[start:end]. Groups are split at
// the median of the edge midpoints along x on even depths and y on odd ones.
func (t *Tree) buildNode(start, end, depth int) *node {
	n := &node{
		bounds:    models.EmptyBox(),
		start:     start,
		end:       end,
		minWeight: math.Inf(1),
	}
	for _, i := range t.order[start:end] {
		n.bounds = n.bounds.Union(geo.EdgeBounds(t.edges[i]))
		n.minWeight = math.Min(n.minWeight, t.edges[i].Weight)
	}
	if end-start <= t.leafSize {
		return n
	}

	axis := depth % dimensions
	slices.SortFunc(t.order[start:end], func(a, b int) int {
		ka, kb := t.mids[a].X, t.mids[b].X
		if axis == 1 {
			ka, kb = t.mids[a].Y, t.mids[b].Y
		}
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return a - b
	})

	mid := start + (end-start)/2
	if depth < parallelDepth && end-start >= parallelMinEdges {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.left = t.buildNode(start, mid, depth+1)
		}()
		n.right = t.buildNode(mid, end, depth+1)
		wg.Wait()
	} else {
		n.left = t.buildNode(start, mid, depth+1)
		n.right = t.buildNode(mid, end, depth+1)
	}
	return n
}

// Len returns the number of indexed edges
func (t *Tree) Len() int {
	return len(t.edges)
}

// NumVertices returns the number of indexed vertices. Every vertex starts
// exactly one edge, so this equals Len.
func (t *Tree) NumVertices() int {
	return len(t.edges)
}

// NumPolygons returns the number of polygons the tree was built from
func (t *Tree) NumPolygons() int {
	return len(t.spans)
}

// Bounds returns the bounding box of all edges, empty for an empty tree
func (t *Tree) Bounds() models.BoundingBox {
	if t.root == nil {
		return models.EmptyBox()
	}
	return t.root.bounds
}

// Depth returns the number of levels of the hierarchy
func (t *Tree) Depth() int {
	var depth func(*node) int
	depth = func(n *node) int {
		if n == nil {
			return 0
		}
		if n.isLeaf() {
			return 1
		}
		return 1 + max(depth(n.left), depth(n.right))
	}
	return depth(t.root)
}

// Polygons returns a copy of the indexed polygons in input order
func (t *Tree) Polygons() []models.Polygon {
	polygons := make([]models.Polygon, len(t.spans))
	for i, span := range t.spans {
		polygons[i] = slices.Clone(t.edges[span.start:span.end])
	}
	return polygons
}
