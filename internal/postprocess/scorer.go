package postprocess

import "math"

// score is a byte in [0, 255]; 0 is the best pair to union, 255 the worst.
type score = uint8

const maxScore score = 255

// pair is two candidates drawn from the same adjacency group, along with
// their score under the configured heuristic.
type pair struct {
	A, B  candidate
	Score score
}

// compatible applies the compatibility filter: reject pairs
// from the same geometry of the same feature, pairs that disagree on
// directionality, and directional pairs that would reverse one side
// (front-front or back-back).
func compatible(a, b candidate) bool {
	if a.FeatureIndex == b.FeatureIndex && a.GeomIndex == b.GeomIndex {
		return false
	}
	if a.Directional != b.Directional {
		return false
	}
	if a.Directional && a.Position == b.Position {
		return false
	}
	return true
}

func greedyScore(a, b candidate) score {
	if a.Position != b.Position {
		return 0
	}
	if a.Position == Back {
		return maxScore / 2
	}
	return maxScore
}

// dotScore rounds to the nearest byte rather than truncating, then clamps
// to [0, maxScore]: the direction vectors curveApproximator produces are
// weighted averages rather than unit vectors, so their dot product can
// stray slightly outside [-1, 1] and push the rounded result past either
// end of the valid score range.
func dotScore(a, b candidate) score {
	if (a.Dx == 0 && a.Dy == 0) || (b.Dx == 0 && b.Dy == 0) {
		return maxScore
	}
	dot := a.Dx*b.Dx + a.Dy*b.Dy
	v := math.Round(float64(maxScore) * ((dot + 1) * 0.5))
	v = math.Min(float64(maxScore), math.Max(0, v))
	return score(v)
}

func obtuseScore(a, b candidate) score {
	return dotScore(a, b)
}

func acuteScore(a, b candidate) score {
	if (a.Dx == 0 && a.Dy == 0) || (b.Dx == 0 && b.Dy == 0) {
		return maxScore
	}
	return maxScore - dotScore(a, b)
}

func scoreFor(h heuristic, a, b candidate) score {
	switch h {
	case heuristicObtuse:
		return obtuseScore(a, b)
	case heuristicAcute:
		return acuteScore(a, b)
	default:
		return greedyScore(a, b)
	}
}

// scorePairs walks the sorted candidate slice, groups adjacent candidates
// sharing the same endpoint/tags (an "adjacency group"), and scores every
// compatible pair within each group. The result is sorted by score
// ascending (best first); within a score, order is the deterministic
// sequence pairs were discovered in.
func scorePairs(candidates []candidate, matchTags []string, h heuristic) []pair {
	var pairs []pair
	n := len(candidates)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n && candidateEqualKey(candidates[i], candidates[j], matchTags); j++ {
			a, b := candidates[i], candidates[j]
			if !compatible(a, b) {
				continue
			}
			pairs = append(pairs, pair{A: a, B: b, Score: scoreFor(h, a, b)})
		}
	}

	stableSortPairs(pairs)
	return pairs
}

func stableSortPairs(pairs []pair) {
	// insertion sort is fine here: within one iteration the number of
	// candidate pairs at a single endpoint is small (a handful of
	// linestrings meeting at a junction), and stability preserves the
	// discovery-order tiebreak documented above.
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].Score < pairs[j-1].Score; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
}
