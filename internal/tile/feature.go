package tile

// Feature is a numeric id, an ordered list of geometries, and an attribute
// map.
type Feature struct {
	ID         uint64
	Geometries []*Geometry
	Attrs      *Attributes
}

// NewFeature returns a feature with an empty attribute map.
func NewFeature(id uint64) *Feature {
	return &Feature{ID: id, Attrs: NewAttributes()}
}

// NumGeometries returns how many geometries the feature currently holds.
func (f *Feature) NumGeometries() int {
	return len(f.Geometries)
}

// AddGeometry appends a geometry to the feature.
func (f *Feature) AddGeometry(g *Geometry) {
	f.Geometries = append(f.Geometries, g)
}

// RemoveGeometry erases the geometry at index i, shifting later indices
// down. Callers that hold other geometry indices into this feature across
// the call must account for the shift.
func (f *Feature) RemoveGeometry(i int) {
	f.Geometries = append(f.Geometries[:i], f.Geometries[i+1:]...)
}

// Envelope is the union of the feature's geometry envelopes.
func (f *Feature) Envelope() Bound {
	env := EmptyBound()
	for _, g := range f.Geometries {
		env = env.Union(g.Envelope())
	}
	return env
}

// Layer is an ordered, mutable sequence of features sharing a schema.
type Layer struct {
	Name     string
	Features []*Feature
}

// NewLayer returns an empty named layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name}
}

// CullEmpty drops every feature whose geometry count has reached zero, per
// the culling invariant both processors rely on after mutation.
func (l *Layer) CullEmpty() {
	kept := l.Features[:0]
	for _, f := range l.Features {
		if f.NumGeometries() > 0 {
			kept = append(kept, f)
		}
	}
	l.Features = kept
}

// Envelope is the union of every feature's envelope in the layer.
func (l *Layer) Envelope() Bound {
	env := EmptyBound()
	for _, f := range l.Features {
		env = env.Union(f.Envelope())
	}
	return env
}

// MapContext supplies the map extent a processor needs; the unionizer uses
// it to size its angular sampling budget, the adminizer ignores it
// entirely.
type MapContext interface {
	ExtentWidth() float64
	ExtentHeight() float64
}

// StaticMapContext is the simplest MapContext: a fixed extent, useful for
// tests and for callers that already know the tile's projected extent.
type StaticMapContext struct {
	Width, Height float64
}

func (m StaticMapContext) ExtentWidth() float64  { return m.Width }
func (m StaticMapContext) ExtentHeight() float64 { return m.Height }
