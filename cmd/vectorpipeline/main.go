// Command vectorpipeline runs the unionizer and adminizer post-processors,
// as configured by a JSON config file, over a single JSON-encoded vector
// tile layer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/atlasdatatech/vectorpipeline/internal/adminsource"
	"github.com/atlasdatatech/vectorpipeline/internal/config"
	"github.com/atlasdatatech/vectorpipeline/internal/logging"
	"github.com/atlasdatatech/vectorpipeline/internal/postprocess"
	"github.com/atlasdatatech/vectorpipeline/internal/stringpool"
	"github.com/atlasdatatech/vectorpipeline/internal/tile"
	"github.com/atlasdatatech/vectorpipeline/internal/workers"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON post-processing config")
	layerPath := flag.String("layer", "", "path to a JSON-encoded layer to process")
	adminDB := flag.String("admin-db", "", "path to an mbtiles-style admin polygon database (adminizer only)")
	threads := flag.Int("threads", 0, "worker thread override (0 = detect from CPU count)")
	flag.Parse()

	log := logging.Log

	if *configPath == "" || *layerPath == "" {
		fmt.Fprintln(os.Stderr, "usage: vectorpipeline -config config.json -layer layer.json [-admin-db admin.mbtiles]")
		os.Exit(2)
	}

	sizing := workers.DetectSizing(*threads)
	pool := workers.New(sizing)
	log.WithField("threads", sizing.Threads).Info("starting vectorpipeline")

	cfgBytes, err := os.ReadFile(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to read config")
	}
	cfg, err := config.FromJSON(cfgBytes)
	if err != nil {
		log.WithError(err).Fatal("failed to parse config")
	}

	layer, mc, err := loadLayer(*layerPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load layer")
	}

	// A single job today; the pool still carries every layer through its
	// in-flight budget rather than the processors being called directly, so
	// a future multi-layer entrypoint only has to grow the jobs slice.
	job := func(ctx context.Context) error {
		return runPipeline(cfg, layer, mc, *adminDB)
	}
	if err := pool.Run(context.Background(), []workers.Job{job}); err != nil {
		log.WithError(err).Fatal("pipeline run failed")
	}

	out, err := encodeLayer(layer)
	if err != nil {
		log.WithError(err).Fatal("failed to encode result layer")
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func runPipeline(cfg *config.Tree, layer *tile.Layer, mc tile.MapContext, adminDB string) error {
	log := logging.Log

	if unionTree, ok := cfg.GetChild("unionizer"); ok {
		u, err := postprocess.NewUnionizerFromTree(unionTree)
		if err != nil {
			return fmt.Errorf("invalid unionizer config: %w", err)
		}
		u.Process(layer, mc)
		log.WithField("features", len(layer.Features)).Info("unionizer pass complete")
	}

	if adminTree, ok := cfg.GetChild("adminizer"); ok {
		if adminDB == "" {
			return fmt.Errorf("adminizer configured but -admin-db was not given")
		}
		paramName := adminTree.GetString("param_name", "")
		ds, err := adminsource.OpenMBTilesDatasource(adminDB, paramName)
		if err != nil {
			return fmt.Errorf("failed to open admin datasource: %w", err)
		}
		defer ds.Close()

		a, err := postprocess.NewAdminizerFromTree(adminTree, ds)
		if err != nil {
			return fmt.Errorf("invalid adminizer config: %w", err)
		}
		if err := a.Process(layer); err != nil {
			return fmt.Errorf("adminizer pass failed: %w", err)
		}
		log.WithField("features", len(layer.Features)).Info("adminizer pass complete")
	}

	return nil
}

type layerFile struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Layer  *tile.Layer `json:"layer"`
}

func loadLayer(path string) (*tile.Layer, tile.MapContext, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var lf layerFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return nil, nil, err
	}
	if lf.Layer == nil {
		return nil, nil, fmt.Errorf("%s: missing \"layer\" field", path)
	}
	mc := tile.StaticMapContext{Width: lf.Width, Height: lf.Height}
	return lf.Layer, mc, nil
}

// encodeLayer interns every feature's attribute keys and string values
// through a scratch-backed stringpool.Pool before marshaling and logs the
// pool's hit/miss counts. Each feature still holds its own copy of its
// strings; only the scratch file stores one copy per distinct value.
func encodeLayer(layer *tile.Layer) ([]byte, error) {
	scratch, err := os.CreateTemp("", "vectorpipeline-*.strpool")
	if err != nil {
		return nil, err
	}
	defer os.Remove(scratch.Name())

	pool, err := stringpool.Open(scratch)
	if err != nil {
		scratch.Close()
		return nil, err
	}
	defer pool.Close()

	for _, f := range layer.Features {
		if err := f.Attrs.InternStrings(pool.Intern); err != nil {
			return nil, fmt.Errorf("interning attributes for feature %d: %w", f.ID, err)
		}
	}
	pool.LogStats()

	return json.MarshalIndent(layer, "", "  ")
}
