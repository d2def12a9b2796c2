// Package vector owns the vector side of the pipeline: converting masked
// raster cells into geometries, clipping them against an area of
// interest, and assembling the GeoJSON feature collection handed back to
// callers.
//
// All output geometries are expressed in geographic WGS84 coordinates.
package vector
