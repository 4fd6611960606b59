package voronoi

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: x0, Hi: x1}, Y: r1.Interval{Lo: y0, Hi: y1}}
}

// isConvex reports whether the ring turns in one direction only, which
// also rules out self-intersection.
func isConvex(p Polygon) bool {
	if len(p) < 3 {
		return false
	}
	sign := 0.0
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		c := p[(i+2)%len(p)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < 1e-12 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if sign*cross < 0 {
			return false
		}
	}
	return true
}

func closestSite(p r2.Point, sites []r2.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i, s := range sites {
		if d := p.Sub(s).Norm(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func TestTessellateTriangle(t *testing.T) {
	sites := []r2.Point{{X: 1, Y: 1}, {X: 9, Y: 1}, {X: 5, Y: 8}}
	cells := Tessellate(sites, rect(0, 0, 10, 10))

	require.Len(t, cells, 3, "one cell per non-degenerate site")
	for i, cell := range cells {
		assert.True(t, isConvex(cell), "cell %d must be convex", i)
		// Each site lies inside its own cell
		assert.Equal(t, i, closestSite(centroid(cell), sites))
	}
}

func TestTessellateCellsCoverNearestRegions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sites := make([]r2.Point, 40)
	for i := range sites {
		sites[i] = r2.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}

	cells := Tessellate(sites, rect(0, 0, 100, 100))
	require.Len(t, cells, len(sites))

	// Every cell vertex is (within tolerance) no closer to any other
	// site than to its own.
	for i, cell := range cells {
		assert.True(t, isConvex(cell), "cell %d", i)
		for _, v := range cell {
			own := v.Sub(sites[i]).Norm()
			for j, s := range sites {
				if j == i {
					continue
				}
				assert.GreaterOrEqual(t, v.Sub(s).Norm()+1e-6, own,
					"vertex of cell %d closer to site %d", i, j)
			}
		}
	}
}

func TestTessellateSingleSite(t *testing.T) {
	sites := []r2.Point{{X: 5, Y: 5}}
	cells := Tessellate(sites, rect(0, 0, 10, 10))

	require.Len(t, cells, 1)
	cell := cells[0]
	require.Len(t, cell, 4, "single site owns the whole box")
	assert.True(t, isConvex(cell))
}

func TestTessellateCollinearSites(t *testing.T) {
	// Fully collinear input must not crash; with box clipping every site
	// resolves to a strip.
	sites := []r2.Point{{X: 2, Y: 5}, {X: 4, Y: 5}, {X: 6, Y: 5}, {X: 8, Y: 5}}
	cells := Tessellate(sites, rect(0, 0, 10, 10))

	require.Len(t, cells, 4)
	for i, cell := range cells {
		assert.True(t, isConvex(cell), "strip %d", i)
	}

	// Strips partition the box left to right
	assert.Less(t, centroid(cells[0]).X, centroid(cells[1]).X)
	assert.Less(t, centroid(cells[1]).X, centroid(cells[2]).X)
	assert.Less(t, centroid(cells[2]).X, centroid(cells[3]).X)
}

func TestTessellateCoincidentSites(t *testing.T) {
	sites := []r2.Point{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 7, Y: 7}}
	cells := Tessellate(sites, rect(0, 0, 10, 10))

	// The duplicate yields no entry; the rest of the set still resolves.
	assert.Len(t, cells, 2)
	_, hasDup := cells[1]
	assert.False(t, hasDup, "coincident duplicate must be skipped")
}

func TestTessellateEmpty(t *testing.T) {
	cells := Tessellate(nil, rect(0, 0, 1, 1))
	assert.Empty(t, cells)
}

func TestTessellateTwoSites(t *testing.T) {
	sites := []r2.Point{{X: 2, Y: 5}, {X: 8, Y: 5}}
	cells := Tessellate(sites, rect(0, 0, 10, 10))

	require.Len(t, cells, 2)
	// The shared boundary is the vertical bisector x == 5
	for _, v := range cells[0] {
		assert.LessOrEqual(t, v.X, 5.0+1e-9)
	}
	for _, v := range cells[1] {
		assert.GreaterOrEqual(t, v.X, 5.0-1e-9)
	}
}

func centroid(p Polygon) r2.Point {
	var c r2.Point
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p)))
}
