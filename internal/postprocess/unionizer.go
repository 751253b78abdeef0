package postprocess

import (
	"math"

	"github.com/atlasdatatech/vectorpipeline/internal/config"
	"github.com/atlasdatatech/vectorpipeline/internal/logging"
	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

// TagStrategy selects how attributes are reconciled when two features are
// unioned.
type TagStrategy int8

const (
	TagIntersect TagStrategy = iota
	TagAccumulate
)

// UnionizerConfig is the resolved, validated configuration for a Unionizer.
type UnionizerConfig struct {
	Heuristic             heuristic
	Strategy              TagStrategy
	KeepIDsTag            string // reserved, open question; accepted but inert
	MaxIterations         uint64
	MatchTags             []string
	PreserveDirectionTags []string
	AngleUnionSampleRatio float64
}

// Unionizer merges compatible linestrings that meet at common endpoints.
type Unionizer struct {
	cfg UnionizerConfig
}

// NewUnionizerFromTree builds a Unionizer from a property tree, applying
// its defaults and validation. It returns a *ConfigError for any
// unrecognized heuristic/strategy string or out-of-range ratio.
func NewUnionizerFromTree(t *config.Tree) (*Unionizer, error) {
	cfg := UnionizerConfig{
		MaxIterations:         math.MaxUint64,
		AngleUnionSampleRatio: 0.1,
	}

	switch h := t.GetString("union_heuristic", "greedy"); h {
	case "greedy":
		cfg.Heuristic = heuristicGreedy
	case "obtuse":
		cfg.Heuristic = heuristicObtuse
	case "acute":
		cfg.Heuristic = heuristicAcute
	default:
		err := &ConfigError{Key: "union_heuristic", Message: h + " is not supported, try `greedy, obtuse or acute'"}
		logging.Log.WithError(err).Warn("unionizer construction failed")
		return nil, err
	}

	switch s := t.GetString("tag_strategy", "intersect"); s {
	case "intersect":
		cfg.Strategy = TagIntersect
	case "accumulate":
		cfg.Strategy = TagAccumulate
	default:
		err := &ConfigError{Key: "tag_strategy", Message: s + " is not supported, try `intersect'"}
		logging.Log.WithError(err).Warn("unionizer construction failed")
		return nil, err
	}

	cfg.KeepIDsTag, _ = t.GetStringOptional("keep_ids_tag")
	cfg.MaxIterations = t.GetUint("max_iterations", math.MaxUint64)
	cfg.MatchTags = t.GetStringSlice("match_tags")
	cfg.PreserveDirectionTags = t.GetStringSlice("preserve_direction_tags")
	cfg.AngleUnionSampleRatio = t.GetFloat("angle_union_sample_ratio", 0.1)

	if cfg.AngleUnionSampleRatio <= 0 || cfg.AngleUnionSampleRatio > 0.5 {
		err := &ConfigError{Key: "angle_union_sample_ratio", Message: "must satisfy 0 < angle_union_sample_ratio <= .5"}
		logging.Log.WithError(err).Warn("unionizer construction failed")
		return nil, err
	}

	return &Unionizer{cfg: cfg}, nil
}

// NewUnionizer builds a Unionizer directly from an already-validated
// config, for callers that don't go through a property tree (e.g. tests).
func NewUnionizer(cfg UnionizerConfig) *Unionizer {
	return &Unionizer{cfg: cfg}
}

// Process runs the fixed-point union loop over layer. It mutates layer in
// place and never returns an error: geometry-shape mismatches are skipped
// rather than failing.
func (u *Unionizer) Process(layer *tile.Layer, mc tile.MapContext) {
	budgetX := mc.ExtentWidth() * u.cfg.AngleUnionSampleRatio
	budgetY := mc.ExtentHeight() * u.cfg.AngleUnionSampleRatio

	for iter := uint64(0); iter < u.cfg.MaxIterations; iter++ {
		candidates := buildCandidates(layer, u.cfg.MatchTags, u.cfg.PreserveDirectionTags, u.cfg.Heuristic, budgetX, budgetY)
		pairs := scorePairs(candidates, u.cfg.MatchTags, u.cfg.Heuristic)

		touched := make(map[int]bool)
		merged := 0
		for _, p := range pairs {
			if touched[p.A.FeatureIndex] || touched[p.B.FeatureIndex] {
				continue
			}
			dst, src := splice(p.A, p.B)
			reconcileTags(dst, src, u.cfg.Strategy)
			touched[p.A.FeatureIndex] = true
			touched[p.B.FeatureIndex] = true
			merged++
		}

		if merged == 0 {
			break
		}
	}

	layer.CullEmpty()
}

// splice dispatches to the geometry-level join matching a and b's endpoint
// positions and returns which candidate ended up holding the merged
// geometry (dst) and which was removed (src). The back<->front case swaps
// its local a/b to make sure the Back end is always the one appended to, so
// callers must use the returned candidates, not the originals they passed
// in, for anything keyed on which feature actually survived the splice.
func splice(a, b candidate) (dst, src candidate) {
	switch {
	case a.Position != b.Position:
		// back<->front: make sure "a" is the Back end so we always append.
		if b.Position == Back {
			a, b = b, a
		}
		appendForward(a, b)
		return a, b

	case a.Position == Back: // back<->back
		appendReversed(a, b)
		return a, b

	default: // front<->front
		joinFrontFront(a, b)
		return a, b
	}
}

// appendForward appends b's vertices 1..n (skipping its leading MoveTo) to
// a's linestring in order. Used for the back<->front case.
func appendForward(a, b candidate) {
	dst := a.Feature.Geometries[a.GeomIndex]
	src := b.Feature.Geometries[b.GeomIndex]
	for i := 1; i < src.VertexCount(); i++ {
		x, y := src.VertexAt(i)
		dst.Outer = append(dst.Outer, tile.Vertex{X: x, Y: y})
	}
	b.Feature.RemoveGeometry(b.GeomIndex)
}

// appendReversed appends b's vertices from n-2 down to 0 to a's
// linestring. Used for the back<->back case.
func appendReversed(a, b candidate) {
	dst := a.Feature.Geometries[a.GeomIndex]
	src := b.Feature.Geometries[b.GeomIndex]
	n := src.VertexCount()
	for i := n - 2; i >= 0; i-- {
		x, y := src.VertexAt(i)
		dst.Outer = append(dst.Outer, tile.Vertex{X: x, Y: y})
	}
	b.Feature.RemoveGeometry(b.GeomIndex)
}

// joinFrontFront builds a brand-new linestring for the front<->front case,
// since there is no front-insertion operation: a's vertices in reverse,
// then b's vertices 1..n. The new geometry is pushed onto a's feature and
// both originals are removed.
func joinFrontFront(a, b candidate) {
	srcA := a.Feature.Geometries[a.GeomIndex]
	srcB := b.Feature.Geometries[b.GeomIndex]

	n := srcA.VertexCount()
	merged := make([]tile.Vertex, 0, n+srcB.VertexCount()-1)
	for i := n - 1; i >= 0; i-- {
		x, y := srcA.VertexAt(i)
		merged = append(merged, tile.Vertex{X: x, Y: y})
	}
	for i := 1; i < srcB.VertexCount(); i++ {
		x, y := srcB.VertexAt(i)
		merged = append(merged, tile.Vertex{X: x, Y: y})
	}

	// remove the higher index first so the lower index stays valid when
	// both candidates are geometries of the same feature.
	if a.Feature == b.Feature {
		hi, lo := a.GeomIndex, b.GeomIndex
		if lo > hi {
			hi, lo = lo, hi
		}
		a.Feature.RemoveGeometry(hi)
		a.Feature.RemoveGeometry(lo)
	} else {
		a.Feature.RemoveGeometry(a.GeomIndex)
		b.Feature.RemoveGeometry(b.GeomIndex)
	}

	a.Feature.AddGeometry(tile.NewLineString(merged))
}

// reconcileTags applies the configured TagStrategy to dst's feature after a
// splice. Callers must pass the dst/src pair splice returned, not the pair
// they originally looked up, since splice may swap which side is which.
func reconcileTags(dst, src candidate, strategy TagStrategy) {
	dstAttrs, srcAttrs := dst.Feature.Attrs, src.Feature.Attrs
	if dstAttrs == srcAttrs {
		return // splicing two geometries of the same feature: nothing to reconcile
	}

	for _, entry := range dstAttrs.Entries() {
		sv, ok := srcAttrs.Get(entry.Key)
		if !ok || !sv.Equal(entry.Value) {
			dstAttrs.SetNull(entry.Key)
		}
	}

	if strategy == TagAccumulate {
		for _, entry := range srcAttrs.Entries() {
			if !dstAttrs.Has(entry.Key) {
				dstAttrs.PutNew(entry.Key, entry.Value)
			}
		}
	}
}
