// Package voronoi computes, for a set of planar sites and a bounding box,
// one convex cell polygon per site. Cells are the regions of the box
// closer to their site than to any other site.
package voronoi

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polygon is an ordered ring of cell vertices, counter-clockwise, without
// a repeated closing point.
type Polygon []r2.Point

// vertexEpsilon collapses near-duplicate vertices produced by repeated
// half-plane clipping.
const vertexEpsilon = 1e-12

// Tessellate returns the Voronoi cell of every resolvable site, keyed by
// the site's index. A site whose cell cannot be resolved (coincident
// duplicate, outside the box, degenerate clip) has no map entry; callers
// skip missing entries rather than failing the whole set.
//
// Cells are built by clipping the bounding box against the perpendicular
// bisector of each relevant neighbor. Neighbors are visited nearest-first
// through a uniform grid index and the clip stops once every unvisited
// site is provably too far to touch the cell, which keeps the expected
// total cost near O(n log n) for evenly spread inputs.
func Tessellate(sites []r2.Point, bounds r2.Rect) map[int]Polygon {
	cells := make(map[int]Polygon, len(sites))
	if len(sites) == 0 {
		return cells
	}

	// Coincident duplicates are unresolvable: the bisector between two
	// identical points is undefined. The first occurrence keeps the
	// position, later ones yield no cell.
	firstAt := make(map[r2.Point]int, len(sites))
	duplicate := make([]bool, len(sites))
	for i, s := range sites {
		if _, seen := firstAt[s]; seen {
			duplicate[i] = true
			continue
		}
		firstAt[s] = i
	}

	index := newGridIndex(sites, duplicate, bounds)

	box := boxPolygon(bounds)
	for i, site := range sites {
		if duplicate[i] {
			continue
		}
		cell := clipCell(i, site, sites, index, box)
		if len(cell) >= 3 {
			cells[i] = cell
		}
	}

	return cells
}

// clipCell computes the cell of one site by clipping the box polygon
// against bisectors of nearest-first neighbors.
func clipCell(idx int, site r2.Point, sites []r2.Point, index *gridIndex, box Polygon) Polygon {
	cell := append(Polygon(nil), box...)

	for ring := 0; ; ring++ {
		neighbors, more := index.ring(site, ring)
		for _, j := range neighbors {
			if j == idx {
				continue
			}
			cell = clipHalfPlane(cell, site, sites[j])
			if len(cell) < 3 {
				return nil
			}
		}

		if !more {
			return cell
		}

		// Any site farther from this one than twice the distance to the
		// farthest remaining cell vertex cannot cut the cell. Sites in
		// ring r or beyond are at least (r-1) grid cells away.
		maxDist := maxVertexDistance(site, cell)
		if float64(ring)*index.side > 2*maxDist {
			return cell
		}
	}
}

// clipHalfPlane keeps the part of the cell closer to site than to other,
// using Sutherland-Hodgman clipping against the perpendicular bisector.
func clipHalfPlane(cell Polygon, site, other r2.Point) Polygon {
	n := other.Sub(site)
	c := n.Dot(site.Add(other).Mul(0.5))

	out := make(Polygon, 0, len(cell)+1)
	for i, cur := range cell {
		prev := cell[(i+len(cell)-1)%len(cell)]
		curIn := n.Dot(cur) <= c
		prevIn := n.Dot(prev) <= c

		if curIn != prevIn {
			if p, ok := intersect(prev, cur, n, c); ok {
				out = appendVertex(out, p)
			}
		}
		if curIn {
			out = appendVertex(out, cur)
		}
	}

	// Drop a duplicated closing vertex left by the epsilon filter.
	if len(out) > 1 && nearlyEqual(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// intersect finds the point on segment prev->cur where dot(n, x) == c
func intersect(prev, cur, n r2.Point, c float64) (r2.Point, bool) {
	dPrev := n.Dot(prev) - c
	dCur := n.Dot(cur) - c
	denom := dPrev - dCur
	if denom == 0 {
		return r2.Point{}, false
	}
	t := dPrev / denom
	return prev.Add(cur.Sub(prev).Mul(t)), true
}

func appendVertex(poly Polygon, p r2.Point) Polygon {
	if len(poly) > 0 && nearlyEqual(poly[len(poly)-1], p) {
		return poly
	}
	return append(poly, p)
}

func nearlyEqual(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) <= vertexEpsilon && math.Abs(a.Y-b.Y) <= vertexEpsilon
}

func maxVertexDistance(site r2.Point, cell Polygon) float64 {
	var max float64
	for _, v := range cell {
		if d := v.Sub(site).Norm(); d > max {
			max = d
		}
	}
	return max
}

// boxPolygon returns the bounding box corners counter-clockwise
func boxPolygon(bounds r2.Rect) Polygon {
	return Polygon{
		{X: bounds.X.Lo, Y: bounds.Y.Lo},
		{X: bounds.X.Hi, Y: bounds.Y.Lo},
		{X: bounds.X.Hi, Y: bounds.Y.Hi},
		{X: bounds.X.Lo, Y: bounds.Y.Hi},
	}
}

// gridIndex buckets sites into square cells so neighbors can be visited
// nearest-first in expanding rings.
type gridIndex struct {
	side    float64
	originX float64
	originY float64
	cols    int
	rows    int
	buckets map[[2]int][]int
}

func newGridIndex(sites []r2.Point, skip []bool, bounds r2.Rect) *gridIndex {
	width := bounds.X.Length()
	height := bounds.Y.Length()

	side := math.Max(width, height) / math.Ceil(math.Sqrt(float64(len(sites))))
	if side <= 0 || math.IsNaN(side) || math.IsInf(side, 0) {
		// Degenerate box (all sites coincident on an axis): a single
		// bucket degrades to a plain linear scan, which stays correct.
		side = 1
	}

	g := &gridIndex{
		side:    side,
		originX: bounds.X.Lo,
		originY: bounds.Y.Lo,
		cols:    int(math.Max(1, math.Ceil(width/side))),
		rows:    int(math.Max(1, math.Ceil(height/side))),
		buckets: make(map[[2]int][]int),
	}

	for i, s := range sites {
		if skip[i] {
			continue
		}
		key := g.bucketOf(s)
		g.buckets[key] = append(g.buckets[key], i)
	}
	return g
}

func (g *gridIndex) bucketOf(p r2.Point) [2]int {
	col := int(math.Floor((p.X - g.originX) / g.side))
	row := int(math.Floor((p.Y - g.originY) / g.side))
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return [2]int{col, row}
}

// ring returns the site indices in the square ring at Chebyshev distance
// r around p's bucket, and whether any ring beyond r still overlaps the
// grid.
func (g *gridIndex) ring(p r2.Point, r int) (indices []int, more bool) {
	center := g.bucketOf(p)

	for col := center[0] - r; col <= center[0]+r; col++ {
		for row := center[1] - r; row <= center[1]+r; row++ {
			onRing := col == center[0]-r || col == center[0]+r ||
				row == center[1]-r || row == center[1]+r
			if !onRing {
				continue
			}
			if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
				continue
			}
			indices = append(indices, g.buckets[[2]int{col, row}]...)
		}
	}

	next := r + 1
	more = center[0]-next >= 0 || center[0]+next < g.cols ||
		center[1]-next >= 0 || center[1]+next < g.rows
	return indices, more
}
