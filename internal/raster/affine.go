package raster

import "math"

// Affine is the six-parameter transform from pixel coordinates to the
// grid's coordinate reference system:
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// Pixel (0, 0) is the top-left corner of the top-left cell, so the cell
// centre sits at pixel coordinates (col+0.5, row+0.5). For the usual
// north-up grid B and D are zero and E is negative.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// NorthUp returns the transform for a north-up grid whose top-left corner
// is at (originX, originY) with the given cell dimensions. cellWidth and
// cellHeight must both be positive; rows advance southwards.
func NorthUp(originX, originY, cellWidth, cellHeight float64) Affine {
	return Affine{A: cellWidth, C: originX, E: -cellHeight, F: originY}
}

// Apply maps pixel coordinates (col, row) to CRS coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	return a.A*col + a.B*row + a.C, a.D*col + a.E*row + a.F
}

// Det returns the determinant of the transform's linear part. A zero
// determinant means the transform collapses the grid and cannot be
// inverted.
func (a Affine) Det() float64 {
	return a.A*a.E - a.B*a.D
}

// Invertible reports whether the transform has non-degenerate scale.
func (a Affine) Invertible() bool {
	d := a.Det()
	return d != 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

// Invert returns the transform mapping CRS coordinates back to pixel
// coordinates. ok is false when the transform is degenerate.
func (a Affine) Invert() (inv Affine, ok bool) {
	d := a.Det()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Affine{}, false
	}
	inv = Affine{
		A: a.E / d,
		B: -a.B / d,
		D: -a.D / d,
		E: a.A / d,
	}
	inv.C = -(inv.A*a.C + inv.B*a.F)
	inv.F = -(inv.D*a.C + inv.E*a.F)
	return inv, true
}

// Translate returns the transform for a grid whose pixel origin is shifted
// by (dcol, drow) pixels within this grid. Used to derive the transform of
// a row band during tiled execution.
func (a Affine) Translate(dcol, drow float64) Affine {
	out := a
	out.C = a.A*dcol + a.B*drow + a.C
	out.F = a.D*dcol + a.E*drow + a.F
	return out
}

// Equal reports exact equality of all six parameters. Alignment's identity
// fast path requires exact equality, not tolerance-based comparison.
func (a Affine) Equal(b Affine) bool {
	return a == b
}

// CellSize returns the absolute cell dimensions along the transform's
// column and row axes.
func (a Affine) CellSize() (dx, dy float64) {
	dx = math.Hypot(a.A, a.D)
	dy = math.Hypot(a.B, a.E)
	return dx, dy
}
