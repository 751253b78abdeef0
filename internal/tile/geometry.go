// Package tile is the in-memory feature model the post-processing pipeline
// operates on: layers of features, each carrying geometries and attributes,
// generalized from the wire-oriented MVT structs so the pipeline can mutate
// them freely before anything gets serialized back to protobuf.
package tile

// GeomType tags a Geometry the way the MVT wire format does.
type GeomType int8

const (
	Point GeomType = iota + 1
	LineString
	Polygon
)

func (t GeomType) String() string {
	switch t {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Command is one step of a geometry's vertex iteration protocol.
type Command int8

const (
	MoveTo Command = iota + 1
	LineTo
	End
)

// Vertex is a single (x, y) pair in projection units.
type Vertex struct {
	X, Y float64
}

// Geometry is a single Point, LineString, or Polygon. Polygon carries an
// outer ring plus zero or more inner (hole) rings; Point and LineString only
// ever use Outer.
type Geometry struct {
	Type  GeomType
	Outer []Vertex
	Inner [][]Vertex
}

// NewLineString builds a LineString geometry from vertices in order.
func NewLineString(vertices []Vertex) *Geometry {
	return &Geometry{Type: LineString, Outer: vertices}
}

// NewPoint builds a single-point geometry.
func NewPoint(x, y float64) *Geometry {
	return &Geometry{Type: Point, Outer: []Vertex{{X: x, Y: y}}}
}

// NewPolygon builds a Polygon geometry from an outer ring and optional inner
// rings.
func NewPolygon(outer []Vertex, inner [][]Vertex) *Geometry {
	return &Geometry{Type: Polygon, Outer: outer, Inner: inner}
}

// VertexCount returns the number of vertices in the geometry's primary ring
// (Outer). Unionizer candidates only ever look at LineString geometries, for
// which Outer is the whole line.
func (g *Geometry) VertexCount() int {
	return len(g.Outer)
}

// VertexAt returns the i-th vertex of the primary ring.
func (g *Geometry) VertexAt(i int) (x, y float64) {
	v := g.Outer[i]
	return v.X, v.Y
}

// Front and Back are convenience accessors for a LineString's endpoints.
func (g *Geometry) Front() Vertex { return g.Outer[0] }
func (g *Geometry) Back() Vertex  { return g.Outer[len(g.Outer)-1] }

// Iterate walks the geometry emitting the MoveTo/LineTo/End command stream
// mapnik-style code expects: MoveTo starts a ring, LineTo continues it, and
// a single End follows the last ring.
func (g *Geometry) Iterate(fn func(cmd Command, x, y float64)) {
	emitRing := func(ring []Vertex) {
		for i, v := range ring {
			if i == 0 {
				fn(MoveTo, v.X, v.Y)
			} else {
				fn(LineTo, v.X, v.Y)
			}
		}
	}
	if len(g.Outer) > 0 {
		emitRing(g.Outer)
	}
	for _, ring := range g.Inner {
		emitRing(ring)
	}
	fn(End, 0, 0)
}

// Bound is an axis-aligned bounding box in projection units.
type Bound struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether the bound has never been extended.
func (b Bound) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// EmptyBound returns a bound in the "not yet initialized" state, ready to be
// grown with Union or Extend.
func EmptyBound() Bound {
	return Bound{MinX: 1, MinY: 1, MaxX: 0, MaxY: 0}
}

// Extend grows the bound to include (x, y).
func (b Bound) Extend(x, y float64) Bound {
	if b.Empty() {
		return Bound{MinX: x, MinY: y, MaxX: x, MaxY: y}
	}
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// Union merges two bounds.
func (b Bound) Union(o Bound) Bound {
	if o.Empty() {
		return b
	}
	b = b.Extend(o.MinX, o.MinY)
	b = b.Extend(o.MaxX, o.MaxY)
	return b
}

// Intersects reports whether the two bounds overlap (touching counts).
func (b Bound) Intersects(o Bound) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX && b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Envelope computes the bounding box of a single geometry.
func (g *Geometry) Envelope() Bound {
	env := EmptyBound()
	for _, v := range g.Outer {
		env = env.Extend(v.X, v.Y)
	}
	for _, ring := range g.Inner {
		for _, v := range ring {
			env = env.Extend(v.X, v.Y)
		}
	}
	return env
}
