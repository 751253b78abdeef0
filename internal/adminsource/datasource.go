// Package adminsource implements the auxiliary polygon datasource boundary
// the adminizer queries: something that returns a featureset of polygons
// intersecting a query envelope.
package adminsource

import "github.com/atlasdatatech/vectorpipeline/internal/tile"

// Datasource returns the polygon features intersecting env. Implementations
// must be safe for concurrent reads: each call returns a fresh featureset.
type Datasource interface {
	Query(env tile.Bound) ([]*tile.Feature, error)
}

// MemoryDatasource is the simplest Datasource: a fixed, in-process list of
// polygon features, useful for tests and for small admin boundary sets
// loaded once at startup.
type MemoryDatasource struct {
	Features []*tile.Feature
}

// Query returns every feature whose envelope intersects env; the adminizer
// applies its own precise per-geometry test afterward, so a coarse
// bounding-box filter here is sufficient.
func (d *MemoryDatasource) Query(env tile.Bound) ([]*tile.Feature, error) {
	var out []*tile.Feature
	for _, f := range d.Features {
		if f.Envelope().Intersects(env) {
			out = append(out, f)
		}
	}
	return out, nil
}
