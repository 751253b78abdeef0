package postprocess

import (
	"testing"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

func bound(minX, minY, maxX, maxY float64) tile.Bound {
	return tile.Bound{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func TestRTreeQueryFindsIntersectingItems(t *testing.T) {
	items := []rtreeItem{
		{Bound: bound(0, 0, 1, 1), Index: 0},
		{Bound: bound(5, 5, 6, 6), Index: 1},
		{Bound: bound(0.5, 0.5, 2, 2), Index: 2},
	}
	rt := BuildRTree(items)

	var hits []int
	rt.Query(bound(0, 0, 1, 1), func(i int) { hits = append(hits, i) })

	found := map[int]bool{}
	for _, h := range hits {
		found[h] = true
	}
	if !found[0] || !found[2] {
		t.Fatalf("expected items 0 and 2 to be found, got %v", hits)
	}
	if found[1] {
		t.Fatalf("expected item 1 (far away) not to be found, got %v", hits)
	}
}

func TestRTreeHandlesManyItemsAcrossMultipleNodes(t *testing.T) {
	var items []rtreeItem
	for i := 0; i < 200; i++ {
		x := float64(i)
		items = append(items, rtreeItem{Bound: bound(x, x, x+0.5, x+0.5), Index: i})
	}
	rt := BuildRTree(items)

	var hits []int
	rt.Query(bound(99.5, 99.5, 100, 100), func(i int) { hits = append(hits, i) })

	found := map[int]bool{}
	for _, h := range hits {
		found[h] = true
	}
	if !found[99] {
		t.Fatalf("expected item 99 to be found among %v", hits)
	}
}

func TestRTreeEmpty(t *testing.T) {
	rt := BuildRTree(nil)
	var hits []int
	rt.Query(bound(0, 0, 1, 1), func(i int) { hits = append(hits, i) })
	if len(hits) != 0 {
		t.Fatalf("expected no hits from an empty tree, got %v", hits)
	}
}
