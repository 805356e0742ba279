package rtree

import (
	"fmt"

	"github.com/1F47E/go-polygon-index/pkg/geo"
	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/dhconnelly/rtreego"
)

// buildPolygonIndex bulk-loads the bounding boxes of all non-empty polygons
// into an R-tree used to shortlist containment candidates.
func (t *Tree) buildPolygonIndex() {
	objs := make([]rtreego.Spatial, 0, len(t.spans))
	for i := range t.spans {
		span := &t.spans[i]
		if span.bounds.IsEmpty() {
			continue
		}
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{span.bounds.BottomLeft.X, span.bounds.BottomLeft.Y},
			rtreego.Point{span.bounds.TopRight.X, span.bounds.TopRight.Y},
		)
		if err != nil {
			// both corners always have the index dimensions
			panic(fmt.Sprintf("rtree: failed to create bounds of polygon %d: %v", span.id, err))
		}
		span.rect = rect
		objs = append(objs, span)
	}
	t.polyIndex = rtreego.NewTree(dimensions, minChildren, maxChildren, objs...)
}

// Contains reports whether p lies inside at least one polygon, using the
// crossing-number parity of the +x ray from p over the edges of every
// polygon whose bounding box holds p. Either winding order works. The
// result for points exactly on a polygon boundary is implementation-defined.
func (t *Tree) Contains(p models.Point) bool {
	return t.ContainingPolygon(p) >= 0
}

// ContainingPolygon returns the id of the first polygon found to contain p,
// or -1 when none does. Overlapping polygons may match in any order.
func (t *Tree) ContainingPolygon(p models.Point) int {
	if t == nil || t.polyIndex == nil || t.polyIndex.Size() == 0 {
		return -1
	}

	query := rtreego.Point{p.X, p.Y}.ToRect(tolerance)
	for _, candidate := range t.polyIndex.SearchIntersect(query) {
		span, ok := candidate.(*polygonSpan)
		if !ok || !span.bounds.Contains(p) {
			continue
		}
		if t.spanContains(span, p) {
			return span.id
		}
	}
	return -1
}

func (t *Tree) spanContains(span *polygonSpan, p models.Point) bool {
	inside := false
	for i := span.start; i < span.end; i++ {
		if geo.CrossesRay(p, t.edges[i].A, t.edges[i].B) {
			inside = !inside
		}
	}
	return inside
}
