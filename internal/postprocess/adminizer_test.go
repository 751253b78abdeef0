package postprocess

import (
	"testing"

	"github.com/atlasdatatech/vectorpipeline/internal/adminsource"
	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

func square(id uint64, minX, minY, maxX, maxY float64, val string) *tile.Feature {
	f := tile.NewFeature(id)
	f.AddGeometry(tile.NewPolygon([]tile.Vertex{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}, {X: minX, Y: minY},
	}, nil))
	f.Attrs.PutNew("iso", tile.StringValue(val))
	return f
}

// scenario 6: adminizer lowest-index wins.
func TestAdminizerLowestIndexWins(t *testing.T) {
	ds := &adminsource.MemoryDatasource{Features: []*tile.Feature{
		square(0, 0, 0, 1, 1, "P0"), // index 0: unit square
		square(1, 0, 0, 2, 2, "P1"), // index 1: covers [0,2]x[0,2]
	}}
	a := NewAdminizer(AdminizerConfig{ParamName: "iso"}, ds)

	point := tile.NewFeature(100)
	point.AddGeometry(tile.NewPoint(0.5, 0.5))
	layer := &tile.Layer{Features: []*tile.Feature{point}}

	if err := a.Process(layer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	iso, ok := point.Attrs.Get("iso")
	if !ok || iso.S != "P0" {
		t.Fatalf("expected iso=P0 (index 0 wins), got %+v ok=%v", iso, ok)
	}
}

func TestAdminizerIdempotentSecondPassNoOp(t *testing.T) {
	ds := &adminsource.MemoryDatasource{Features: []*tile.Feature{
		square(0, 0, 0, 1, 1, "P0"),
	}}
	a := NewAdminizer(AdminizerConfig{ParamName: "iso"}, ds)

	point := tile.NewFeature(1)
	point.AddGeometry(tile.NewPoint(0.5, 0.5))
	layer := &tile.Layer{Features: []*tile.Feature{point}}

	if err := a.Process(layer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := point.Attrs.Get("iso")

	if err := a.Process(layer); err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	second, _ := point.Attrs.Get("iso")

	if !first.Equal(second) {
		t.Fatalf("expected second adminizer pass to change nothing, got %v then %v", first, second)
	}
}

func TestAdminizerAbsentWhenNoIntersection(t *testing.T) {
	ds := &adminsource.MemoryDatasource{Features: []*tile.Feature{
		square(0, 10, 10, 11, 11, "far away"),
	}}
	a := NewAdminizer(AdminizerConfig{ParamName: "iso"}, ds)

	point := tile.NewFeature(1)
	point.AddGeometry(tile.NewPoint(0.5, 0.5))
	layer := &tile.Layer{Features: []*tile.Feature{point}}

	if err := a.Process(layer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Attrs.Has("iso") {
		t.Fatalf("expected no iso attribute when no polygon intersects")
	}
}

func TestAdminizerCullingLeavesNoEmptyFeatures(t *testing.T) {
	a := NewAdminizer(AdminizerConfig{ParamName: "iso"}, &adminsource.MemoryDatasource{})
	layer := &tile.Layer{Features: []*tile.Feature{tile.NewFeature(1)}}
	if err := a.Process(layer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layer.Features) != 0 {
		t.Fatalf("expected empty feature to be culled")
	}
}
