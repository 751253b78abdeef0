package adminsource

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/atlasdatatech/vectorpipeline/internal/logging"
	"github.com/atlasdatatech/vectorpipeline/internal/tile"
)

// MBTilesDatasource is a SQLite-backed Datasource holding administrative
// polygons in an mbtiles-adjacent schema, storing polygon geometry plus
// the attribute value the adminizer will stamp onto matching features.
type MBTilesDatasource struct {
	db        *sql.DB
	paramName string
}

// ringSet is the JSON shape a polygon's rings are stored as: rings[0] is
// the outer ring, any further entries are inner (hole) rings.
type ringSet struct {
	Rings [][]tile.Vertex `json:"rings"`
}

// OpenMBTilesDatasource opens (creating if necessary) a SQLite database at
// path holding an admin_polygons table, and returns a Datasource that reads
// paramName's value out of it.
func OpenMBTilesDatasource(path, paramName string) (*MBTilesDatasource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.Log.WithError(err).Error("failed to open admin polygon datasource")
		return nil, err
	}
	if _, err := db.Exec(`create table if not exists admin_polygons (
		id integer primary key,
		param_value text,
		min_x real, min_y real, max_x real, max_y real,
		geometry text
	)`); err != nil {
		logging.Log.WithError(err).Error("failed to initialize admin_polygons schema")
		return nil, err
	}
	return &MBTilesDatasource{db: db, paramName: paramName}, nil
}

// Close releases the underlying database handle.
func (d *MBTilesDatasource) Close() error {
	return d.db.Close()
}

// InsertPolygon adds one admin polygon with its attribute value. Rings[0]
// is the outer ring; subsequent entries are holes.
func (d *MBTilesDatasource) InsertPolygon(paramValue string, rings [][]tile.Vertex) error {
	if len(rings) == 0 {
		return fmt.Errorf("adminsource: polygon has no rings")
	}
	env := tile.EmptyBound()
	for _, v := range rings[0] {
		env = env.Extend(v.X, v.Y)
	}
	raw, err := json.Marshal(ringSet{Rings: rings})
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`insert into admin_polygons (param_value, min_x, min_y, max_x, max_y, geometry) values (?, ?, ?, ?, ?, ?)`,
		paramValue, env.MinX, env.MinY, env.MaxX, env.MaxY, string(raw),
	)
	return err
}

// Query returns every stored polygon whose bounding box intersects env, as
// single-geometry point-free polygon features carrying paramName. Rows are
// returned in ascending id order, which is what the adminizer relies on to
// assign monotonically increasing entry indices.
func (d *MBTilesDatasource) Query(env tile.Bound) ([]*tile.Feature, error) {
	rows, err := d.db.Query(
		`select id, param_value, geometry from admin_polygons
		 where max_x >= ? and min_x <= ? and max_y >= ? and min_y <= ?
		 order by id asc`,
		env.MinX, env.MaxX, env.MinY, env.MaxY,
	)
	if err != nil {
		logging.Log.WithError(err).Error("admin polygon query failed")
		return nil, err
	}
	defer rows.Close()

	var out []*tile.Feature
	for rows.Next() {
		var id int64
		var paramValue, geomJSON string
		if err := rows.Scan(&id, &paramValue, &geomJSON); err != nil {
			return nil, err
		}
		var rs ringSet
		if err := json.Unmarshal([]byte(geomJSON), &rs); err != nil {
			return nil, err
		}
		if len(rs.Rings) == 0 {
			continue
		}
		f := tile.NewFeature(uint64(id))
		var inner [][]tile.Vertex
		if len(rs.Rings) > 1 {
			inner = rs.Rings[1:]
		}
		f.AddGeometry(tile.NewPolygon(rs.Rings[0], inner))
		f.Attrs.PutNew(d.paramName, tile.StringValue(paramValue))
		out = append(out, f)
	}
	return out, rows.Err()
}
