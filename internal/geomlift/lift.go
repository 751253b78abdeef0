// Package geomlift lifts a mapnik-style vertex command stream
// (tile.Geometry.Iterate) into paulmach/orb geometries, and provides the
// precise intersects tests the adminizer refines its R-tree candidates
// with.
package geomlift

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

// dedupeTolerance drops consecutive vertices closer together than this
// when lifting a command stream into an orb geometry.
const dedupeTolerance = 1e-12

func closeEnough(a, b orb.Point) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx < dedupeTolerance && dy < dedupeTolerance
}

// Points lifts a Point geometry: every vertex command becomes a point,
// regardless of command type.
func Points(g *tile.Geometry) orb.MultiPoint {
	var pts orb.MultiPoint
	g.Iterate(func(cmd tile.Command, x, y float64) {
		if cmd == tile.End {
			return
		}
		pts = append(pts, orb.Point{x, y})
	})
	return pts
}

// Lines lifts a LineString geometry into a multi-linestring: MoveTo starts
// a new sub-linestring, consecutive LineTo points are appended, and
// duplicate points within tolerance of the previous one are skipped.
func Lines(g *tile.Geometry) orb.MultiLineString {
	var mls orb.MultiLineString
	var prev orb.Point
	havePrev := false

	g.Iterate(func(cmd tile.Command, x, y float64) {
		switch cmd {
		case tile.MoveTo:
			mls = append(mls, orb.LineString{{x, y}})
			prev = orb.Point{x, y}
			havePrev = true
		case tile.LineTo:
			p := orb.Point{x, y}
			if havePrev && closeEnough(p, prev) {
				return
			}
			if len(mls) == 0 {
				mls = append(mls, orb.LineString{})
			}
			mls[len(mls)-1] = append(mls[len(mls)-1], p)
			prev = p
			havePrev = true
		}
	})
	return mls
}

// Polygon lifts a Polygon geometry: the first ring is the outer ring, each
// subsequent MoveTo opens a new inner ring, with the same dedup rule as
// Lines.
func Polygon(g *tile.Geometry) orb.Polygon {
	var poly orb.Polygon
	var prev orb.Point
	havePrev := false

	g.Iterate(func(cmd tile.Command, x, y float64) {
		switch cmd {
		case tile.MoveTo:
			poly = append(poly, orb.Ring{{x, y}})
			prev = orb.Point{x, y}
			havePrev = true
		case tile.LineTo:
			p := orb.Point{x, y}
			if havePrev && closeEnough(p, prev) {
				return
			}
			poly[len(poly)-1] = append(poly[len(poly)-1], p)
			prev = p
			havePrev = true
		}
	})
	return poly
}

// PointsIntersectPolygon reports whether any point of mp lies inside (or
// on the boundary of) poly.
func PointsIntersectPolygon(mp orb.MultiPoint, poly orb.Polygon) bool {
	for _, p := range mp {
		if planar.PolygonContains(poly, p) || pointOnBoundary(p, poly) {
			return true
		}
	}
	return false
}

// LinesIntersectPolygon reports whether any linestring of mls intersects
// poly: either a vertex lies inside it, or a segment crosses one of its
// ring edges.
func LinesIntersectPolygon(mls orb.MultiLineString, poly orb.Polygon) bool {
	for _, ls := range mls {
		for _, p := range ls {
			if planar.PolygonContains(poly, p) {
				return true
			}
		}
		for i := 0; i+1 < len(ls); i++ {
			if segmentCrossesPolygon(ls[i], ls[i+1], poly) {
				return true
			}
		}
	}
	return false
}

// PolygonsIntersect reports whether two polygons overlap: either has a
// vertex inside the other, or their boundaries cross. Every ring of a
// (outer and holes) is checked against b, since a's hole boundary can
// cross into b even when a's outer ring does not.
func PolygonsIntersect(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, ring := range a {
		for _, p := range ring {
			if planar.PolygonContains(b, p) {
				return true
			}
		}
	}
	for _, p := range b[0] {
		if planar.PolygonContains(a, p) {
			return true
		}
	}
	for _, ring := range a {
		for i := 0; i+1 < len(ring); i++ {
			if segmentCrossesPolygon(ring[i], ring[i+1], b) {
				return true
			}
		}
	}
	return false
}

func pointOnBoundary(p orb.Point, poly orb.Polygon) bool {
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			if pointOnSegment(p, ring[i], ring[i+1]) {
				return true
			}
		}
	}
	return false
}

func segmentCrossesPolygon(a, b orb.Point, poly orb.Polygon) bool {
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			if segmentsIntersect(a, b, ring[i], ring[i+1]) {
				return true
			}
		}
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func pointOnSegment(p, a, b orb.Point) bool {
	if orientation(a, b, p) != 0 {
		return false
	}
	return p[0] >= min(a[0], b[0]) && p[0] <= max(a[0], b[0]) &&
		p[1] >= min(a[1], b[1]) && p[1] <= max(a[1], b[1])
}

// segmentsIntersect is the standard orientation-based segment intersection
// test, including the collinear-overlap edge cases.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	o1 := orientation(p1, p2, p3)
	o2 := orientation(p1, p2, p4)
	o3 := orientation(p3, p4, p1)
	o4 := orientation(p3, p4, p2)

	if ((o1 > 0) != (o2 > 0)) && ((o3 > 0) != (o4 > 0)) && o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		return true
	}

	if o1 == 0 && pointOnSegment(p3, p1, p2) {
		return true
	}
	if o2 == 0 && pointOnSegment(p4, p1, p2) {
		return true
	}
	if o3 == 0 && pointOnSegment(p1, p3, p4) {
		return true
	}
	if o4 == 0 && pointOnSegment(p2, p3, p4) {
		return true
	}
	return false
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
