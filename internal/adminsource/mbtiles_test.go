package adminsource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

func TestMBTilesDatasourceRoundTripsPolygonsInIDOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.mbtiles")
	ds, err := OpenMBTilesDatasource(path, "iso_a2")
	require.NoError(t, err)
	defer ds.Close()

	square := func(minX, minY, maxX, maxY float64) [][]tile.Vertex {
		return [][]tile.Vertex{{
			{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}, {X: minX, Y: minY},
		}}
	}

	require.NoError(t, ds.InsertPolygon("US", square(0, 0, 1, 1)))
	require.NoError(t, ds.InsertPolygon("CA", square(0, 0, 2, 2)))

	got, err := ds.Query(tile.Bound{MinX: 0, MinY: 0, MaxX: 0.5, MaxY: 0.5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)

	val, ok := got[0].Attrs.Get("iso_a2")
	assert.True(t, ok)
	assert.Equal(t, "US", val.S)
}

func TestMBTilesDatasourceExcludesNonOverlapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.mbtiles")
	ds, err := OpenMBTilesDatasource(path, "iso_a2")
	require.NoError(t, err)
	defer ds.Close()

	far := [][]tile.Vertex{{
		{X: 100, Y: 100}, {X: 101, Y: 100}, {X: 101, Y: 101}, {X: 100, Y: 101}, {X: 100, Y: 100},
	}}
	require.NoError(t, ds.InsertPolygon("XX", far))

	got, err := ds.Query(tile.Bound{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}
