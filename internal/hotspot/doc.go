// Package hotspot runs the heat-island detection pipeline: it loads a
// temperature grid and a vegetation grid, aligns them onto a common
// pixel layout, selects cells that are hot and sparsely vegetated,
// vectorizes the selection, clips it to an area of interest, and wraps
// the result into an annotated GeoJSON feature collection.
package hotspot
