// Package render loads layer images and composites the selected layers
// into a single square raster.
//
// Loader fetches http(s) URLs through internal/http and everything else
// from the local filesystem, decodes through ioutils.ImageService and
// caches decoded images in memory. Concurrent loads of one URL share a
// single fetch.
//
// Compositor draws one layer per part, strictly in part order, so later
// parts always land on top of earlier ones. A layer that fails to load is
// skipped and reported; it never aborts the composite.
package render
