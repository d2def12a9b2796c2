// Package raster owns the in-memory raster data model: single-band grids
// with an affine georeferencing transform, the sources that load them,
// whole-grid numeric operations, and alignment of one grid onto another's
// pixel layout.
//
// Grids are immutable once loaded; every operation returns a new grid.
// No database or HTTP code is allowed in this package.
package raster
