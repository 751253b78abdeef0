package postprocess

import (
	"github.com/paulmach/orb"

	"github.com/atlasdatatech/vectorpipeline/internal/adminsource"
	"github.com/atlasdatatech/vectorpipeline/internal/config"
	"github.com/atlasdatatech/vectorpipeline/internal/geomlift"
	"github.com/atlasdatatech/vectorpipeline/internal/logging"
	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

// AdminizerConfig is the resolved configuration for an Adminizer.
type AdminizerConfig struct {
	ParamName string
}

// entry is one polygon lifted from the auxiliary datasource, together with
// the attribute value it carries and the monotonic index that establishes
// tie-break order.
type entry struct {
	Polygon orb.Polygon
	Bound   tile.Bound
	Value   tile.AttrValue
	Index   int
}

// Adminizer stamps each feature with an attribute taken from the
// lowest-indexed intersecting polygon in an auxiliary polygon dataset.
type Adminizer struct {
	cfg        AdminizerConfig
	datasource adminsource.Datasource
}

// NewAdminizerFromTree builds an Adminizer from a property tree and an
// already-open datasource. param_name is required; its absence is a
// *ConfigError.
func NewAdminizerFromTree(t *config.Tree, ds adminsource.Datasource) (*Adminizer, error) {
	name, ok := t.GetStringOptional("param_name")
	if !ok || name == "" {
		err := &ConfigError{Key: "param_name", Message: "param_name is required"}
		logging.Log.WithError(err).Warn("adminizer construction failed")
		return nil, err
	}
	return &Adminizer{cfg: AdminizerConfig{ParamName: name}, datasource: ds}, nil
}

// NewAdminizer builds an Adminizer directly from a config struct.
func NewAdminizer(cfg AdminizerConfig, ds adminsource.Datasource) *Adminizer {
	return &Adminizer{cfg: cfg, datasource: ds}
}

// updater tracks the smallest entry index seen so far for one feature.
type updater struct {
	feature   *tile.Feature
	paramName string
	bestIndex int
	finished  bool
}

func newUpdater(f *tile.Feature, paramName string) *updater {
	return &updater{feature: f, paramName: paramName, bestIndex: int(^uint(0) >> 1)}
}

func (u *updater) apply(e entry) {
	if e.Index < u.bestIndex {
		u.feature.Attrs.PutNew(u.paramName, e.Value)
		u.bestIndex = e.Index
		if e.Index == 0 {
			u.finished = true
		}
	}
}

// Process drops features with no geometries, then runs the spatial-join
// pass over layer. It returns a *DatasourceError if the auxiliary query
// fails.
func (a *Adminizer) Process(layer *tile.Layer) error {
	layer.CullEmpty()

	env := layer.Envelope()
	if env.Empty() {
		return nil
	}

	raw, err := a.datasource.Query(env)
	if err != nil {
		wrapped := &DatasourceError{Op: "query", Err: err}
		logging.Log.WithError(wrapped).Error("adminizer query failed")
		return wrapped
	}

	entries := buildEntries(raw, a.cfg.ParamName)
	index := buildEntryRTree(entries)

	for _, f := range layer.Features {
		adminizeFeature(f, entries, index, a.cfg.ParamName)
	}
	return nil
}

// buildEntries lifts every polygon geometry out of the datasource's
// features, assigning a monotonically increasing index in the order
// encountered; non-polygon geometries are skipped.
func buildEntries(features []*tile.Feature, paramName string) []entry {
	var entries []entry
	next := 0
	for _, f := range features {
		val, _ := f.Attrs.Get(paramName)
		for _, g := range f.Geometries {
			if g.Type != tile.Polygon {
				continue
			}
			poly := geomlift.Polygon(g)
			entries = append(entries, entry{
				Polygon: poly,
				Bound:   g.Envelope(),
				Value:   val,
				Index:   next,
			})
			next++
		}
	}
	return entries
}

func buildEntryRTree(entries []entry) *RTree {
	items := make([]rtreeItem, len(entries))
	for i, e := range entries {
		items[i] = rtreeItem{Bound: e.Bound, Index: i}
	}
	return BuildRTree(items)
}

// adminizeFeature walks f's geometries, querying the R-tree for candidate
// entries and refining with a precise intersects test, stopping as soon as
// entry index 0 has been matched.
func adminizeFeature(f *tile.Feature, entries []entry, index *RTree, paramName string) {
	u := newUpdater(f, paramName)

	for _, g := range f.Geometries {
		switch g.Type {
		case tile.Point:
			points := geomlift.Points(g)
			env := g.Envelope()
			index.Query(env, func(i int) {
				e := entries[i]
				if geomlift.PointsIntersectPolygon(points, e.Polygon) {
					u.apply(e)
				}
			})
		case tile.LineString:
			lines := geomlift.Lines(g)
			env := g.Envelope()
			index.Query(env, func(i int) {
				e := entries[i]
				if geomlift.LinesIntersectPolygon(lines, e.Polygon) {
					u.apply(e)
				}
			})
		case tile.Polygon:
			poly := geomlift.Polygon(g)
			env := g.Envelope()
			index.Query(env, func(i int) {
				e := entries[i]
				if geomlift.PolygonsIntersect(poly, e.Polygon) {
					u.apply(e)
				}
			})
		}

		if u.finished {
			break
		}
	}
}
