package postprocess

import (
	"sort"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

// Position marks which end of a linestring a candidate refers to.
type Position int8

const (
	Front Position = iota
	Back
)

// candidate is one linestring endpoint eligible for unioning.
// It is a non-owning reference: FeatureIndex/GeomIndex point back into the
// layer the candidate index was built from, valid only for the lifetime of
// a single unionizer pass.
type candidate struct {
	FeatureIndex int // index of the parent feature within the layer slice
	Feature      *tile.Feature
	GeomIndex    int
	Position     Position
	X, Y         float64
	Directional  bool
	Dx, Dy       float64 // approximate direction leaving the endpoint
}

// heuristic selects which pair scorer the unionizer runs.
type heuristic int8

const (
	heuristicGreedy heuristic = iota
	heuristicObtuse
	heuristicAcute
)

// newCandidate builds a candidate for one end of one linestring geometry,
// computing its direction vector when the heuristic needs one.
func newCandidate(featureIdx int, f *tile.Feature, geomIdx int, pos Position, directional bool, h heuristic, budgetX, budgetY float64) candidate {
	g := f.Geometries[geomIdx]
	n := g.VertexCount()
	var x, y float64
	if pos == Front {
		x, y = g.VertexAt(0)
	} else {
		x, y = g.VertexAt(n - 1)
	}

	c := candidate{
		FeatureIndex: featureIdx,
		Feature:      f,
		GeomIndex:    geomIdx,
		Position:     pos,
		X:            x,
		Y:            y,
		Directional:  directional,
	}

	if h == heuristicObtuse || h == heuristicAcute {
		approx := newCurveApproximator(x, y, budgetX, budgetY)
		for i := 1; i < n; i++ {
			var vx, vy float64
			if pos == Front {
				vx, vy = g.VertexAt(i)
			} else {
				vx, vy = g.VertexAt(n - 1 - i)
			}
			if !approx.consume(vx, vy) {
				break
			}
		}
		c.Dx, c.Dy = approx.approximation()
	}

	return c
}

// candidateLess orders candidates first by endpoint (x, y), then by the
// values of the configured match tags.
func candidateLess(a, b candidate, matchTags []string) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	for _, tag := range matchTags {
		av, _ := a.Feature.Attrs.Get(tag)
		bv, _ := b.Feature.Attrs.Get(tag)
		if av.Less(bv) {
			return true
		}
		if bv.Less(av) {
			return false
		}
	}
	return false
}

func candidateEqualKey(a, b candidate, matchTags []string) bool {
	return !candidateLess(a, b, matchTags) && !candidateLess(b, a, matchTags)
}

// hasAllTags reports whether f carries every key in tags (values are not
// checked, just presence). A feature with no geometries reports false.
func hasAllTags(f *tile.Feature, tags []string) bool {
	if f.NumGeometries() == 0 {
		return false
	}
	for _, tag := range tags {
		if !f.Attrs.Has(tag) {
			return false
		}
	}
	return true
}

// hasAnyTag reports whether f carries any of tags.
func hasAnyTag(f *tile.Feature, tags []string) bool {
	for _, tag := range tags {
		if f.Attrs.Has(tag) {
			return true
		}
	}
	return false
}

// buildCandidates emits front/back candidates for every non-degenerate
// LineString of every eligible feature in the layer, then sorts them by
// candidateLess so equal-endpoint candidates form contiguous adjacency
// groups.
func buildCandidates(layer *tile.Layer, matchTags, directionTags []string, h heuristic, budgetX, budgetY float64) []candidate {
	var candidates []candidate
	for fi, f := range layer.Features {
		if !hasAllTags(f, matchTags) {
			continue
		}
		directional := hasAnyTag(f, directionTags)
		for gi, g := range f.Geometries {
			if g.Type != tile.LineString || g.VertexCount() < 2 {
				continue
			}
			candidates = append(candidates,
				newCandidate(fi, f, gi, Front, directional, h, budgetX, budgetY),
				newCandidate(fi, f, gi, Back, directional, h, budgetX, budgetY),
			)
		}
	}

	sortCandidates(candidates, matchTags)
	return candidates
}

// sortCandidates orders candidates by candidateLess. sort.SliceStable keeps
// ties in emission order (feature, then geometry, then Front-before-Back),
// which is the deterministic tiebreak this port picks for the "pair
// ordering under equal scores" open question.
func sortCandidates(candidates []candidate, matchTags []string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j], matchTags)
	})
}
