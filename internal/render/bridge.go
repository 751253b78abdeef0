// Package render names the boundary between a processed layer and whatever
// downstream renderer consumes it. render_vector_tile.cpp in the reference
// implementation hands processed layers to a mapnik renderer immediately
// after adminization; rasterizing is out of scope here, so Bridge exists
// only to give that handoff a concrete type callers can implement.
package render

import "github.com/atlasdatatech/vectorpipeline/internal/tile"

// Bridge accepts a fully post-processed layer for rendering. Implementations
// live outside this module; vectorpipeline never renders pixels itself.
type Bridge interface {
	RenderLayer(layer *tile.Layer, mc tile.MapContext) error
}
