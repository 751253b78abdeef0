package postprocess

import (
	"testing"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

func mkFeature(id uint64) *tile.Feature {
	f := tile.NewFeature(id)
	f.AddGeometry(tile.NewLineString([]tile.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}}))
	return f
}

func TestCompatibleRejectsSameGeometry(t *testing.T) {
	f := mkFeature(1)
	a := candidate{FeatureIndex: 0, Feature: f, GeomIndex: 0, Position: Front}
	b := candidate{FeatureIndex: 0, Feature: f, GeomIndex: 0, Position: Back}
	if compatible(a, b) {
		t.Fatalf("expected candidates from the same geometry to be incompatible")
	}
}

func TestCompatibleRejectsMixedDirectionality(t *testing.T) {
	a := candidate{FeatureIndex: 0, Feature: mkFeature(1), GeomIndex: 0, Directional: true}
	b := candidate{FeatureIndex: 1, Feature: mkFeature(2), GeomIndex: 0, Directional: false}
	if compatible(a, b) {
		t.Fatalf("expected directional mismatch to be incompatible")
	}
}

func TestCompatibleRejectsDirectionalSamePosition(t *testing.T) {
	a := candidate{FeatureIndex: 0, Feature: mkFeature(1), GeomIndex: 0, Directional: true, Position: Front}
	b := candidate{FeatureIndex: 1, Feature: mkFeature(2), GeomIndex: 0, Directional: true, Position: Front}
	if compatible(a, b) {
		t.Fatalf("expected directional front-front to be incompatible")
	}
}

func TestGreedyScoreOrdering(t *testing.T) {
	front := candidate{Position: Front}
	back := candidate{Position: Back}
	if greedyScore(front, back) != 0 {
		t.Fatalf("expected front-back to score best (0)")
	}
	if greedyScore(back, back) != maxScore/2 {
		t.Fatalf("expected back-back to score maxScore/2")
	}
	if greedyScore(front, front) != maxScore {
		t.Fatalf("expected front-front to score worst")
	}
}

func TestObtuseScoreDegenerateIsWorst(t *testing.T) {
	a := candidate{Dx: 0, Dy: 0}
	b := candidate{Dx: 1, Dy: 0}
	if obtuseScore(a, b) != maxScore {
		t.Fatalf("expected a degenerate direction vector to score worst")
	}
}

func TestDotScoreRoundsHalfUpInsteadOfTruncating(t *testing.T) {
	// Perpendicular vectors give dot=0, so the formula lands exactly on the
	// half-integer 255*0.5 = 127.5; truncation would give 127, rounding
	// (the documented formula) gives 128.
	a := candidate{Dx: 1, Dy: 0}
	b := candidate{Dx: 0, Dy: 1}
	if got := dotScore(a, b); got != 128 {
		t.Fatalf("expected perpendicular directions to round to 128, got %d", got)
	}
}

func TestDotScoreClampsOutOfRangeDotProducts(t *testing.T) {
	// Direction vectors aren't guaranteed unit length, so a dot product
	// above 1 must still clamp to maxScore rather than overflow a uint8.
	a := candidate{Dx: 2, Dy: 0}
	b := candidate{Dx: 2, Dy: 0}
	if got := dotScore(a, b); got != maxScore {
		t.Fatalf("expected an out-of-range dot product to clamp to maxScore, got %d", got)
	}
}

func TestAcuteIsComplementOfObtuse(t *testing.T) {
	a := candidate{Dx: 1, Dy: 0}
	b := candidate{Dx: -1, Dy: 0}
	if acuteScore(a, b) != maxScore-obtuseScore(a, b) {
		t.Fatalf("acute score should be maxScore - obtuse score")
	}
}
