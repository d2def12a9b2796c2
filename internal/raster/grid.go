package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is a single-band raster: a dense Height x Width array of float64
// samples plus the affine transform and CRS under which the samples are
// georeferenced. A Grid is immutable once its source has finished
// populating it; operations return new grids.
type Grid struct {
	Width  int
	Height int

	// Transform maps pixel (col, row) to CRS coordinates. It must be
	// invertible.
	Transform Affine

	// CRS is the PROJ.4 definition the transform is valid under.
	CRS string

	values *mat.Dense

	noData    float64
	hasNoData bool
}

// NewGrid allocates a zero-filled grid with the given layout. It returns
// a FormatError when the dimensions are not positive, the transform is
// degenerate, or the CRS is empty.
func NewGrid(width, height int, transform Affine, crs string) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("invalid dimensions %dx%d", width, height)}
	}
	if !transform.Invertible() {
		return nil, &FormatError{Reason: "degenerate affine transform"}
	}
	if crs == "" {
		return nil, &FormatError{Reason: "missing CRS"}
	}
	return &Grid{
		Width:     width,
		Height:    height,
		Transform: transform,
		CRS:       crs,
		values:    mat.NewDense(height, width, nil),
	}, nil
}

// NewGridFromValues builds a grid from row-major samples. len(values)
// must be exactly width*height.
func NewGridFromValues(width, height int, transform Affine, crs string, values []float64) (*Grid, error) {
	if len(values) != width*height {
		return nil, &FormatError{Reason: fmt.Sprintf("got %d samples, want %d", len(values), width*height)}
	}
	g, err := NewGrid(width, height, transform, crs)
	if err != nil {
		return nil, err
	}
	g.values = mat.NewDense(height, width, values)
	return g, nil
}

// SetNoData marks v as the sentinel for invalid samples.
func (g *Grid) SetNoData(v float64) {
	g.noData = v
	g.hasNoData = true
}

// NoData returns the nodata sentinel, if one is set. NaN samples are
// always treated as nodata whether or not a sentinel is set.
func (g *Grid) NoData() (float64, bool) {
	return g.noData, g.hasNoData
}

// At returns the raw sample at (row, col) without nodata interpretation.
func (g *Grid) At(row, col int) float64 {
	return g.values.At(row, col)
}

// Set stores a sample at (row, col). Sources use this while populating a
// grid; downstream code must not mutate grids it did not create.
func (g *Grid) Set(row, col int, v float64) {
	g.values.Set(row, col, v)
}

// Value returns the sample at (row, col) and whether it is valid. Cells
// outside the grid, NaN samples, and nodata samples are invalid.
func (g *Grid) Value(row, col int) (float64, bool) {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return 0, false
	}
	v := g.values.At(row, col)
	if math.IsNaN(v) {
		return 0, false
	}
	if g.hasNoData && v == g.noData {
		return 0, false
	}
	return v, true
}

// Extent is an axis-aligned bounding box in a grid's CRS.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Intersects reports whether the two extents share any area or boundary.
func (e Extent) Intersects(o Extent) bool {
	return e.MinX <= o.MaxX && o.MinX <= e.MaxX && e.MinY <= o.MaxY && o.MinY <= e.MaxY
}

// Extent returns the grid's bounding box by mapping its four pixel
// corners through the transform.
func (g *Grid) Extent() Extent {
	e, _ := extentOfCorners(g.Transform, g.Width, g.Height, nil)
	return e
}

// Equal reports whether two grids share layout, georeferencing, and
// bit-identical samples.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height ||
		!g.Transform.Equal(o.Transform) || g.CRS != o.CRS {
		return false
	}
	return mat.Equal(g.values, o.values)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Width:     g.Width,
		Height:    g.Height,
		Transform: g.Transform,
		CRS:       g.CRS,
		values:    mat.DenseCopyOf(g.values),
		noData:    g.noData,
		hasNoData: g.hasNoData,
	}
	return out
}

// RowBand returns a copy of rows [r0, r1) as a standalone grid whose
// transform is shifted so its cells keep their ground positions. Used by
// tiled execution.
func (g *Grid) RowBand(r0, r1 int) (*Grid, error) {
	if r0 < 0 || r1 > g.Height || r0 >= r1 {
		return nil, fmt.Errorf("row band [%d, %d) out of range for height %d", r0, r1, g.Height)
	}
	out := &Grid{
		Width:     g.Width,
		Height:    r1 - r0,
		Transform: g.Transform.Translate(0, float64(r0)),
		CRS:       g.CRS,
		values:    mat.DenseCopyOf(g.values.Slice(r0, r1, 0, g.Width)),
		noData:    g.noData,
		hasNoData: g.hasNoData,
	}
	return out, nil
}
