package adminsource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

func TestMemoryDatasourceFiltersByEnvelope(t *testing.T) {
	near := tile.NewFeature(1)
	near.AddGeometry(tile.NewPolygon([]tile.Vertex{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
	}, nil))

	far := tile.NewFeature(2)
	far.AddGeometry(tile.NewPolygon([]tile.Vertex{
		{X: 100, Y: 100}, {X: 101, Y: 100}, {X: 101, Y: 101}, {X: 100, Y: 101}, {X: 100, Y: 100},
	}, nil))

	ds := &MemoryDatasource{Features: []*tile.Feature{near, far}}
	got, err := ds.Query(tile.Bound{MinX: -1, MinY: -1, MaxX: 2, MaxY: 2})
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, uint64(1), got[0].ID)
	}
}

func TestMemoryDatasourceEmptyQueryReturnsNothing(t *testing.T) {
	ds := &MemoryDatasource{}
	got, err := ds.Query(tile.Bound{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	assert.NoError(t, err)
	assert.Empty(t, got)
}
